package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rotzdb/rotz/pkg/config"
	"github.com/sirupsen/logrus"
)

// newLogger builds the process logger from cfg. Verbose forces debug level.
//
// Output "stderr" and "stdout" map to the given streams; anything else is a file that
// is appended to. The returned closer releases that file and is a no-op otherwise.
func newLogger(cfg config.LoggingConfig, verbose bool, stdout, stderr io.Writer) (*logrus.Logger, io.Closer, error) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level: %w", err)
	}
	if verbose && level < logrus.DebugLevel {
		level = logrus.DebugLevel
	}

	logger := logrus.New()
	logger.SetLevel(level)

	switch cfg.Format {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		logger.SetFormatter(&logrus.TextFormatter{
			DisableTimestamp: true,
		})
	}

	var closer io.Closer = nopCloser{}
	switch cfg.Output {
	case "", "stderr":
		logger.SetOutput(stderr)
	case "stdout":
		logger.SetOutput(stdout)
	default:
		f, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		logger.SetOutput(f)
		closer = f
	}
	return logger, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
