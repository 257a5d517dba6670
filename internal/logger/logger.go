// Package logger builds the structured loggers shared by the server components.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// Config holds logger settings
type Config struct {
	Level  string
	JSON   bool
	Output io.Writer
}

// New creates a root logger. Unknown levels fall back to info.
func New(cfg Config) *log.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}

	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		level = log.InfoLevel
	}

	logger := log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Level:           level,
	})
	if cfg.JSON {
		logger.SetFormatter(log.JSONFormatter)
	}
	return logger
}

// Discard returns a logger that drops everything, for tests.
func Discard() *log.Logger {
	return log.New(io.Discard)
}
