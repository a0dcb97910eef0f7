// Package logger provides structured logging using zerolog.
package logger

import (
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

// Config represents logger configuration.
type Config struct {
	Output string // "stdout", "stderr", "discard", or file path
	Level  string // "debug", "info", "warn", "error"
	File   string // log file path (used when Output is not stdout/stderr/discard)
}

// Init initializes the global zerolog logger with the given configuration.
func Init(cfg Config) error {
	level := parseLevel(cfg.Level)
	output := strings.ToLower(cfg.Output)

	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.TimeOnly
	zerolog.TimestampFieldName = "time"
	zerolog.LevelFieldName = "level"
	zerolog.MessageFieldName = "message"

	zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
		parts := strings.Split(file, string(filepath.Separator))
		if len(parts) > 1 {
			return filepath.Join(parts[len(parts)-2:]...) + ":" + strconv.Itoa(line)
		}
		return filepath.Base(file) + ":" + strconv.Itoa(line)
	}

	var logger zerolog.Logger
	switch output {
	case "discard":
		// The terminal UI owns the screen; nothing may be written to it.
		logger = zerolog.Nop()
	case "stdout", "stderr", "":
		logger = newConsoleLogger(consoleWriter(output), level)
	default:
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return errors.Wrapf(err, "failed to open log file %s", cfg.File)
		}
		// JSON output for files
		base := zerolog.New(f).With().Timestamp()
		if level == zerolog.DebugLevel {
			logger = base.Caller().Logger()
		} else {
			logger = base.Logger()
		}
	}

	zerolog.DefaultContextLogger = &logger
	zlog.Logger = logger
	return nil
}

func consoleWriter(output string) io.Writer {
	if output == "stderr" {
		return os.Stderr
	}
	return os.Stdout
}

// newConsoleLogger builds a colored console logger; caller info is added only at debug level.
func newConsoleLogger(w io.Writer, level zerolog.Level) zerolog.Logger {
	if level == zerolog.DebugLevel {
		return zerolog.New(zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.TimeOnly,
			PartsOrder: []string{"time", "level", "message", "caller"},
			FormatCaller: func(i interface{}) string {
				return "(" + i.(string) + ")"
			},
		}).With().Timestamp().Caller().Logger()
	}
	return zerolog.New(zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.TimeOnly,
	}).With().Timestamp().Logger()
}

// parseLevel parses the log level string.
func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "info", "":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
