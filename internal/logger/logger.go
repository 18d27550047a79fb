// Package logger configures the process-wide logrus logger.
package logger

import (
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"

	"bidcheck/internal/config"
)

// Setup applies level and format from cfg to the standard logrus logger.
// Unknown levels fall back to info.
func Setup(cfg config.LogConfig) {
	Configure(log.StandardLogger(), cfg, os.Stdout)
}

// Configure applies cfg to l and directs its output to w.
func Configure(l *log.Logger, cfg config.LogConfig, w io.Writer) {
	level, err := log.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = log.InfoLevel
	}
	l.SetLevel(level)
	l.SetOutput(w)

	if strings.EqualFold(cfg.Format, "json") {
		l.SetFormatter(&log.JSONFormatter{})
		return
	}
	l.SetFormatter(&log.TextFormatter{FullTimestamp: true})
}
