package config

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
)

//go:embed version
var version string

//go:embed name
var name string

type LogLevel string

const (
	Debug  LogLevel = "debug"
	Info   LogLevel = "info"
	Notice LogLevel = "notice"
	Warn   LogLevel = "warn"
	Error  LogLevel = "error"
)

func GetVersion() string {
	return strings.TrimSpace(version)
}

func GetName() string {
	return strings.TrimSpace(name)
}

func GetLogLevel() LogLevel {
	if IsDebug() {
		return Debug
	}
	logLevel := os.Getenv("FORUM_LOG_LEVEL")
	if logLevel == "" {
		return Info
	}
	return LogLevel(logLevel)
}

func IsDebug() bool {
	return os.Getenv("FORUM_DEBUG") == "true"
}

func GetListen() string {
	listen := os.Getenv("FORUM_LISTEN")
	if listen == "" {
		listen = ":3000"
	}
	return listen
}

func GetDBFolderPath() string {
	dbFolderPath := os.Getenv("FORUM_DB_FOLDER")
	if dbFolderPath == "" {
		dbFolderPath = "/etc/forumkit"
	}
	return dbFolderPath
}

func GetDBPath() string {
	return fmt.Sprintf("%s/%s.db", GetDBFolderPath(), GetName())
}

func GetLogFolder() string {
	logFolderPath := os.Getenv("FORUM_LOG_FOLDER")
	if logFolderPath == "" {
		logFolderPath = "/var/log"
	}
	return logFolderPath
}

// GetSessionSecret returns the cookie-store secret. Empty means the server
// generates an ephemeral one at startup; sessions then will not survive restarts.
func GetSessionSecret() string {
	return os.Getenv("FORUM_SESSION_SECRET")
}
