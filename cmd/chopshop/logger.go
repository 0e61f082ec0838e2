package main

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/FraserHum/dota-chop-shop-sub001/internal/config"
)

// LoggerResult holds the logger and the file behind it, if any.
type LoggerResult struct {
	Logger   *slog.Logger
	LogFile  io.WriteCloser
	FilePath string
}

// Close closes the log file if it was opened.
func (r *LoggerResult) Close() error {
	if r.LogFile != nil {
		return r.LogFile.Close()
	}
	return nil
}

// SetupFileLogger writes JSON logs to a rotating file at path.
func SetupFileLogger(path string, level slog.Leveler, rotationCfg config.LogRotationConfig) (*LoggerResult, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	w := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    rotationCfg.MaxSizeMB,
		MaxBackups: rotationCfg.MaxBackups,
		MaxAge:     rotationCfg.MaxAgeDays,
		Compress:   rotationCfg.Compress,
	}

	return &LoggerResult{
		Logger:   slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})),
		LogFile:  w,
		FilePath: path,
	}, nil
}

// SetupLogger picks the log destination. A configured path wins; otherwise
// the TUI gets a discarding logger so records do not tear the display, and
// everything else logs to stderr.
func SetupLogger(cfg *config.Config, stderr io.Writer, level slog.Leveler, tuiMode bool) (*LoggerResult, error) {
	switch {
	case cfg.Paths.Log != "":
		return SetupFileLogger(cfg.Paths.Log, level, cfg.LogRotation)
	case tuiMode:
		return &LoggerResult{Logger: slog.New(slog.DiscardHandler)}, nil
	default:
		return &LoggerResult{Logger: slog.New(slog.NewJSONHandler(stderr, &slog.HandlerOptions{Level: level}))}, nil
	}
}
