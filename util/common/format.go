package common

import (
	"fmt"
	"time"
)

// FormatTimeAgo renders a unix timestamp as a rough "N units ago" phrase
// relative to now.
func FormatTimeAgo(t int64) string {
	return formatTimeAgo(t, time.Now().Unix())
}

func formatTimeAgo(t int64, now int64) string {
	seconds := now - t
	minutes := seconds / 60
	hours := minutes / 60
	days := hours / 24

	switch {
	case days > 1:
		return fmt.Sprintf("%d days ago", days)
	case days == 1:
		return "1 day ago"
	case hours > 1:
		return fmt.Sprintf("%d hours ago", hours)
	case hours == 1:
		return "1 hour ago"
	case minutes > 1:
		return fmt.Sprintf("%d minutes ago", minutes)
	case minutes == 1:
		return "1 minute ago"
	case seconds > 1:
		return fmt.Sprintf("%d seconds ago", seconds)
	default:
		return "1 second ago"
	}
}
