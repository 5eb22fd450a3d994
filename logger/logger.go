package logger

import (
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/xrpscan/burnwatch/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log is usable before New is called; it discards everything until then.
var Log = zerolog.Nop()
var loggerOnce sync.Once

func New() {
	loggerOnce.Do(func() {
		level, err := zerolog.ParseLevel(config.EnvLogLevel())
		if err != nil || config.EnvLogLevel() == "" {
			level = zerolog.InfoLevel
		}
		zerolog.SetGlobalLevel(level)

		consoleWriter := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
		writers := []io.Writer{consoleWriter}
		if config.EnvLogFileEnabled() {
			if fw := newFileWriter(consoleWriter); fw != nil {
				writers = append(writers, fw)
			}
		}

		Log = zerolog.New(io.MultiWriter(writers...)).With().Timestamp().Logger()
	})
}

// newFileWriter returns a rotating file writer, or nil when the log
// directory cannot be created.
func newFileWriter(console io.Writer) io.Writer {
	logFilePath := config.EnvLogFilePath()
	bootLog := zerolog.New(console).With().Timestamp().Logger()

	logDir := filepath.Dir(logFilePath)
	if err := os.MkdirAll(logDir, 0755); err != nil {
		bootLog.Error().Err(err).Str("log_dir", logDir).Msg("Failed to create log directory, logging to console only")
		return nil
	}

	bootLog.Info().
		Str("log_file", logFilePath).
		Int("max_size_mb", config.EnvLogFileMaxSize()).
		Int("max_backups", config.EnvLogFileMaxBackups()).
		Int("max_age_days", config.EnvLogFileMaxAge()).
		Msg("File logging enabled")

	return &lumberjack.Logger{
		Filename:   logFilePath,
		MaxSize:    config.EnvLogFileMaxSize(), // MB
		MaxBackups: config.EnvLogFileMaxBackups(),
		MaxAge:     config.EnvLogFileMaxAge(), // days
		Compress:   true,
	}
}
