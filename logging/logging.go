// Package logging provides the structured logger every engine.Worker
// uses to report non-OK errcode.Errors, replacing ad-hoc fmt.Println
// calls with leveled, field-carrying log lines.
package logging

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Logger wraps *logrus.Logger the way r3e-network-service_layer's
// pkg/logger.Logger does, so every call site gets the full logrus
// API (WithField, WithFields, Infof, Errorf, ...) for free.
type Logger struct {
	*logrus.Logger
}

// Config selects level and output format.
type Config struct {
	Level  string // "debug", "info", "warn", "error", ...
	Format string // "text" or "json"
}

// New builds a Logger from cfg, falling back to info level if Level
// doesn't parse.
func New(cfg Config) *Logger {
	l := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	switch strings.ToLower(cfg.Format) {
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{})
	default:
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	l.SetOutput(os.Stdout)
	return &Logger{Logger: l}
}

// NewDefault builds an info-level, text-formatted Logger, the default
// every engine.Worker falls back to when the host passes a nil Logger.
// The component argument is not recorded on the Logger or its entries.
func NewDefault(component string) *Logger {
	l := New(Config{Level: "info", Format: "text"})
	l.Logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return &Logger{Logger: l.Logger}
}

// WithField returns a new log entry with a field, named explicitly
// (rather than relying on the embedded *logrus.Logger's own method)
// so call sites reading *logging.Logger don't need to know it's a
// logrus wrapper.
func (l *Logger) WithField(key string, value any) *logrus.Entry {
	return l.Logger.WithField(key, value)
}

// WithFields returns a new log entry with multiple fields.
func (l *Logger) WithFields(fields logrus.Fields) *logrus.Entry {
	return l.Logger.WithFields(fields)
}
