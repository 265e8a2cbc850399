// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package logger builds the root structured logger for the API process.
//
// Output is JSON via log/slog. When a log file is configured, records are
// duplicated to a size-rotated file managed by lumberjack.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/natefinch/lumberjack"

	"github.com/taibuivan/inkwell/internal/platform/constants"
)

// Options controls the root logger.
type Options struct {
	// Level is one of debug, info, warn, error. Unknown values mean info.
	Level string

	// Debug forces the debug level regardless of Level.
	Debug bool

	// File, when set, is the path of the rotating log file.
	File string
}

// New creates the root logger tagged with the application name.
//
// The returned closer releases the file sink and must be called on shutdown.
func New(options Options) (*slog.Logger, io.Closer) {
	return NewWithWriter(os.Stdout, options)
}

// NewWithWriter is [New] with an explicit console writer.
func NewWithWriter(console io.Writer, options Options) (*slog.Logger, io.Closer) {
	level := ParseLevel(options.Level)
	if options.Debug {
		level = slog.LevelDebug
	}

	var (
		writer           = console
		closer io.Closer = nopCloser{}
	)

	if options.File != "" {
		rotating := &lumberjack.Logger{
			Filename:   options.File,
			MaxSize:    10,
			MaxBackups: 5,
			MaxAge:     7,
			Compress:   true,
		}
		writer = io.MultiWriter(console, rotating)
		closer = rotating
	}

	handler := slog.NewJSONHandler(writer, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String(constants.FieldApp, constants.AppName)), closer
}

// ParseLevel maps a textual level to [slog.Level].
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
