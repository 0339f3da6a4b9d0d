// logger.go: zerolog wrapper for the pfz command.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

// Package logger provides a thin wrapper around zerolog.Logger for the pfz
// command. Diagnostics go to stderr so stdout stays clean for exported JSON.
package logger

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// Logger embeds zerolog.Logger so the full zerolog API is available.
type Logger struct {
	zerolog.Logger
}

// New returns a human-readable console logger writing to w at the given
// level name ("debug", "info", "warn", ...). An empty level logs everything.
func New(w io.Writer, level string, noColor bool) (*Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	out := zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    noColor,
		TimeFormat: time.TimeOnly,
	}
	l := zerolog.New(out).Level(lvl).With().
		Timestamp().
		Str("role", "pfz").
		Logger()
	return &Logger{l}, nil
}

// Nop returns a *Logger that discards all output.
func Nop() *Logger {
	return &Logger{zerolog.Nop()}
}

// Zerolog returns the embedded logger for APIs that take *zerolog.Logger.
func (l *Logger) Zerolog() *zerolog.Logger {
	return &l.Logger
}
