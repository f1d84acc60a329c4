package cmd

import (
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"
	"github.com/spf13/pflag"
)

type logOptions struct {
	Level  string
	Format string
	// Also write logs to this file, rotated once it grows past a few megabytes
	File string
}

func (opts *logOptions) register(flags *pflag.FlagSet) {
	flags.StringVar(&opts.Level, "log-level", opts.Level, "Log level: trace, debug, info, warn or error (env MINEFIELD_LOG_LEVEL)")
	flags.StringVar(&opts.Format, "log-format", opts.Format, "Log format: text or json")
	flags.StringVar(&opts.File, "log-file", opts.File, "Also write JSON logs to this file, with rotation")
}

func setupLogging(log *logrus.Logger, opts logOptions) error {
	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		return errors.Wrap(err, "log level")
	}
	log.SetLevel(level)

	switch opts.Format {
	case "text":
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	default:
		return errors.Errorf("unknown log format %q", opts.Format)
	}

	if opts.File != "" {
		hook, err := rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
			Filename:   opts.File,
			MaxSize:    5, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Level:      level,
			Formatter:  &logrus.JSONFormatter{TimestampFormat: time.RFC3339},
		})
		if err != nil {
			return errors.Wrap(err, "log file")
		}
		log.AddHook(hook)
	}

	return nil
}
