package cliutil

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

type LogOptions struct {
	// info|debug|warn|error; when empty, derived from Verbosity
	LogLevel string

	// text|json
	LogFormat string

	// count of repeated --verbose flags. 0: warn, 1: info, 2+: debug
	Verbosity int

	// defaults to os.Stderr
	Writer io.Writer
}

func firstenv(env_var_names ...string) string {
	for _, env_var_name := range env_var_names {
		val := os.Getenv(env_var_name)
		if val != "" {
			return val
		}
	}
	return ""
}

// Parses a log level name. Accepts the same names slog prints.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level: %#v", s)
	}
}

func verbosityLevel(v int) slog.Level {
	switch {
	case v <= 0:
		return slog.LevelWarn
	case v == 1:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}

// SetupSlog integrates passed in options and env vars, and installs the result as the default logger.
//
// passing default cliutil.LogOptions{} is ok.
//
// BLEXICON_LOG_LEVEL=info|debug|warn|error
//
// BLEXICON_LOG_FMT=text|json
//
// Output never goes to stdout, which carries generated declarations.
func SetupSlog(options LogOptions) (*slog.Logger, error) {
	var hopts slog.HandlerOptions
	if options.LogLevel == "" {
		options.LogLevel = firstenv("BLEXICON_LOG_LEVEL", "GOLOG_LOG_LEVEL")
	}
	if options.LogLevel == "" {
		hopts.Level = verbosityLevel(options.Verbosity)
	} else {
		level, err := ParseLevel(options.LogLevel)
		if err != nil {
			return nil, err
		}
		hopts.Level = level
	}
	if options.LogFormat == "" {
		options.LogFormat = firstenv("BLEXICON_LOG_FMT", "GOLOG_LOG_FMT")
	}
	if options.LogFormat == "" {
		options.LogFormat = "text"
	}

	out := options.Writer
	if out == nil {
		out = os.Stderr
	}
	var handler slog.Handler
	switch strings.ToLower(options.LogFormat) {
	case "text":
		handler = slog.NewTextHandler(out, &hopts)
	case "json":
		handler = slog.NewJSONHandler(out, &hopts)
	default:
		return nil, fmt.Errorf("invalid log format: %#v", options.LogFormat)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger, nil
}
