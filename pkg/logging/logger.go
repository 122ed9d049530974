// pkg/logging/logger.go
package logging

import (
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
)

// DefaultLevel is used when neither a flag nor WLT_LOG_LEVEL sets one
const DefaultLevel = "info"

// NewLogger creates an hclog logger with the settings shared by all commands
func NewLogger(name string, level string, output io.Writer) hclog.Logger {
	if output == nil {
		output = os.Stderr
	}
	if level == "" {
		level = LevelFromEnv()
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:       name,
		Level:      hclog.LevelFromString(level),
		JSONFormat: os.Getenv("WLT_JSON_LOG") == "1",
		Output:     output,
	})
}

// LevelFromEnv returns the log level configured in the environment
func LevelFromEnv() string {
	if level := os.Getenv("WLT_LOG_LEVEL"); level != "" {
		return level
	}
	return DefaultLevel
}

// OrNull returns logger, or a logger that discards everything if it is nil
func OrNull(logger hclog.Logger) hclog.Logger {
	if logger == nil {
		return hclog.NewNullLogger()
	}
	return logger
}
