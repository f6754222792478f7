package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

type Options struct {
	Service string
	Level   string
	// Format is "json" (default) or "text".
	Format string
	// File, when set, receives log output instead of Output.
	File   string
	Output io.Writer
}

// New builds a structured logger. The returned closer releases the log file,
// if one was opened, and is always non-nil.
func New(opts Options) (*logrus.Entry, func() error, error) {
	l := logrus.New()
	closer := func() error { return nil }

	l.SetLevel(logrus.InfoLevel)
	if opts.Level != "" {
		lvl, err := logrus.ParseLevel(opts.Level)
		if err != nil {
			return nil, closer, fmt.Errorf("parse log level: %w", err)
		}
		l.SetLevel(lvl)
	}

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	if path := strings.TrimSpace(opts.File); path != "" {
		if dir := filepath.Dir(path); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, closer, fmt.Errorf("create log dir: %w", err)
			}
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, closer, fmt.Errorf("open log file: %w", err)
		}
		out = f
		closer = f.Close
	}
	l.SetOutput(out)

	switch strings.ToLower(strings.TrimSpace(opts.Format)) {
	case "text":
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339,
		})
	default:
		l.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "ts",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		})
	}

	entry := logrus.NewEntry(l)
	if opts.Service != "" {
		entry = entry.WithField("service", opts.Service)
	}
	return entry, closer, nil
}

// Discard returns a logger that drops everything. Tests and the terminal
// client without a log file use it.
func Discard() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

// WithRequestID tags entry with the request id when one is present.
func WithRequestID(entry *logrus.Entry, requestID string) *logrus.Entry {
	if requestID == "" {
		return entry
	}
	return entry.WithField("request_id", requestID)
}
