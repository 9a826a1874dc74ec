// Package logging builds the process logger from config.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"keepsake/internal/config"
)

// New returns a logger writing to cfg.File when set, stderr otherwise. An
// unknown level falls back to info with a warning. The returned close func is
// never nil.
func New(cfg config.LogConfig) (*logrus.Logger, func() error, error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	level, levelErr := ParseLevel(cfg.Level)
	logger.SetLevel(level)

	closeLog := nopClose
	logFile := strings.TrimSpace(cfg.File)
	if logFile == "" {
		logger.SetOutput(os.Stderr)
	} else {
		if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
			return nil, nopClose, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nopClose, fmt.Errorf("failed to open log file: %w", err)
		}
		logger.SetOutput(f)
		closeLog = f.Close
	}

	if levelErr != nil {
		logger.WithError(levelErr).Warn("using info level")
	}
	return logger, closeLog, nil
}

// ParseLevel maps a config level to logrus. Empty means info; "silent" and
// "off" map to panic so nothing below it is emitted.
func ParseLevel(level string) (logrus.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "":
		return logrus.InfoLevel, nil
	case "silent", "off":
		return logrus.PanicLevel, nil
	}
	l, err := logrus.ParseLevel(level)
	if err != nil {
		return logrus.InfoLevel, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return l, nil
}

// Discard returns a logger that drops everything, for tests and library defaults.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func nopClose() error { return nil }
