package main

import (
	"io"
	"os"

	log "github.com/sirupsen/logrus"

	"nmea-reader/internal/config"
)

// setupLogging configures the global logrus logger. Logs go to stderr so
// stdout carries only the decoded sentence output. hook, if non-nil, also
// receives every entry.
func setupLogging(cfg config.LogConfig, out io.Writer, hook log.Hook) error {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		return err
	}
	log.SetLevel(level)

	switch cfg.Format {
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	default:
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}

	if out == nil {
		out = os.Stderr
	}
	log.SetOutput(out)
	if hook != nil {
		log.AddHook(hook)
	}
	return nil
}
