// Package logging configures the process-wide logrus logger.
package logging

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"

	"github.com/vancomm/smines/internal/config"
)

// Setup sets the level and formatter of log and directs its output to out.
// When cfg names a file, every entry is also written there as JSON, rotated
// by size.
func Setup(log *logrus.Logger, cfg config.LogConfig, development bool, out io.Writer) error {
	logLevel := logrus.InfoLevel
	if cfg.Level != "" {
		var err error
		if logLevel, err = logrus.ParseLevel(cfg.Level); err != nil {
			return err
		}
	}
	if development {
		logLevel = logrus.DebugLevel
	}
	log.SetLevel(logLevel)

	log.SetFormatter(&logrus.TextFormatter{ForceColors: development})
	log.SetOutput(out)

	if cfg.File == "" {
		return nil
	}
	hook, err := rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Level:      logLevel,
		Formatter:  &logrus.JSONFormatter{},
	})
	if err != nil {
		return fmt.Errorf("unable to open log file %s: %w", cfg.File, err)
	}
	log.AddHook(hook)
	return nil
}
