package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	"pagewatch/internal/common"
)

// New builds a zerolog logger from file configuration. Output always goes to
// the console; when LogFile is set, a rotated file writer is added as well.
func New(cfg FileLogConfig) (zerolog.Logger, error) {
	level, err := parseLevel(cfg.LogLevel)
	if err != nil {
		return zerolog.Logger{}, err
	}

	writers := []io.Writer{consoleWriter(cfg.LogFormat, os.Stderr, false)}

	if cfg.LogFile != "" {
		fileWriter, err := newFileWriter(cfg)
		if err != nil {
			return zerolog.Logger{}, err
		}
		writers = append(writers, fileWriter)
	}

	multiWriter := zerolog.MultiLevelWriter(writers...)
	instance := zerolog.New(multiWriter).
		Level(level).
		With().
		Timestamp().
		Logger()

	zerolog.SetGlobalLevel(level)
	return instance, nil
}

// parseLevel parses a string log level to zerolog.Level, defaulting to info
// for the empty string.
func parseLevel(levelStr string) (zerolog.Level, error) {
	if levelStr == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(strings.ToLower(levelStr))
	if err != nil {
		return zerolog.InfoLevel, common.WrapError(err, "invalid log level")
	}
	return level, nil
}

// consoleWriter wraps an output in zerolog's console writer unless the
// configured format is json.
func consoleWriter(format string, out io.Writer, noColor bool) io.Writer {
	if strings.ToLower(format) == "json" {
		return out
	}
	return zerolog.ConsoleWriter{Out: out, NoColor: noColor}
}

// newFileWriter creates a rotated file writer for the configured log file.
func newFileWriter(cfg FileLogConfig) (io.Writer, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0755); err != nil {
		return nil, common.WrapErrorf(err, "creating log directory for %s", cfg.LogFile)
	}

	maxSize := cfg.MaxLogSizeMB
	if maxSize <= 0 {
		maxSize = DefaultMaxLogSizeMB
	}
	maxBackups := cfg.MaxLogBackups
	if maxBackups <= 0 {
		maxBackups = DefaultMaxLogBackups
	}

	rotated := &lumberjack.Logger{
		Filename:   cfg.LogFile,
		MaxSize:    maxSize,
		MaxBackups: maxBackups,
		LocalTime:  true,
	}

	// File output is never colored, regardless of the console format.
	return consoleWriter(cfg.LogFormat, rotated, true), nil
}
