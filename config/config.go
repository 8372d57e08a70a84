// Package config exposes build metadata and environment-driven settings
// for the DragonScan site.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
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
	logLevel := os.Getenv("DS_LOG_LEVEL")
	if logLevel == "" {
		return Info
	}
	return LogLevel(logLevel)
}

func IsDebug() bool {
	return os.Getenv("DS_DEBUG") == "true"
}

func GetDBFolderPath() string {
	dbFolderPath := os.Getenv("DS_DB_FOLDER")
	if dbFolderPath == "" {
		dbFolderPath = "data"
	}
	return dbFolderPath
}

func GetDBPath() string {
	return fmt.Sprintf("%s/%s.db", GetDBFolderPath(), GetName())
}

func GetLogFolder() string {
	logFolderPath := os.Getenv("DS_LOG_FOLDER")
	if logFolderPath == "" {
		logFolderPath = "log"
	}
	return logFolderPath
}

// GetUploadFolder is the root of the on-disk object store. The cover and
// chapter-page buckets live beneath it.
func GetUploadFolder() string {
	uploadFolderPath := os.Getenv("DS_UPLOAD_FOLDER")
	if uploadFolderPath == "" {
		uploadFolderPath = "uploads"
	}
	return uploadFolderPath
}

func GetListen() string {
	return os.Getenv("DS_LISTEN")
}

func GetPort() int {
	port, err := strconv.Atoi(os.Getenv("DS_PORT"))
	if err != nil || port <= 0 || port > 65535 {
		return 8080
	}
	return port
}

// GetBasePath returns the base path all routes are mounted under,
// normalized to carry leading and trailing slashes.
func GetBasePath() string {
	basePath := os.Getenv("DS_BASE_PATH")
	if basePath == "" {
		return "/"
	}
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	if !strings.HasSuffix(basePath, "/") {
		basePath += "/"
	}
	return basePath
}

// GetSessionSecret returns the cookie-store secret. When empty the server
// generates an ephemeral one at startup, which invalidates sessions across
// restarts.
func GetSessionSecret() string {
	return os.Getenv("DS_SESSION_SECRET")
}

// GetWebDomain optionally pins the Host header; empty disables the check.
func GetWebDomain() string {
	return os.Getenv("DS_DOMAIN")
}
