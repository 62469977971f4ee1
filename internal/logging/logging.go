// Package logging configures the structured logger shared by the
// library's internals.
//
// Logging is off by default so that the library is silent when embedded
// in other tools; set the TERRASYNTH_LOG environment variable to a
// level name (trace, debug, info, warn, error) to enable it.
package logging

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/hashicorp/go-hclog"
)

const envLog = "TERRASYNTH_LOG"

var (
	logger     hclog.Logger
	loggerOnce sync.Once
)

// HCLogger returns the shared logger, creating it on first use.
func HCLogger() hclog.Logger {
	loggerOnce.Do(func() {
		logger = newHCLogger("terrasynth")
	})
	return logger
}

func newHCLogger(name string) hclog.Logger {
	logOutput := io.Writer(os.Stderr)

	return hclog.New(&hclog.LoggerOptions{
		Name:              name,
		Level:             globalLogLevel(),
		Output:            logOutput,
		IndependentLevels: true,
	})
}

func globalLogLevel() hclog.Level {
	envLevel := strings.ToUpper(os.Getenv(envLog))
	if envLevel == "" {
		return hclog.Off
	}
	return parseLogLevel(envLevel)
}

func parseLogLevel(envLevel string) hclog.Level {
	if envLevel == "" {
		return hclog.Off
	}
	if envLevel == "JSON" {
		envLevel = "TRACE"
	}

	logLevel := hclog.Trace
	if isValidLogLevel(envLevel) {
		logLevel = hclog.LevelFromString(envLevel)
	}

	return logLevel
}

func isValidLogLevel(level string) bool {
	switch level {
	case "TRACE", "DEBUG", "INFO", "WARN", "ERROR", "OFF":
		return true
	}
	return false
}
