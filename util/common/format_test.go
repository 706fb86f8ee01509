package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatTimeAgo(t *testing.T) {
	now := int64(1_000_000)

	cases := []struct {
		delta int64
		want  string
	}{
		{0, "1 second ago"},
		{1, "1 second ago"},
		{30, "30 seconds ago"},
		{60, "1 minute ago"},
		{150, "2 minutes ago"},
		{3600, "1 hour ago"},
		{7500, "2 hours ago"},
		{86400, "1 day ago"},
		{86400 * 3, "3 days ago"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, formatTimeAgo(now-c.delta, now))
	}
}
