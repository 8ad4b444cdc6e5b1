// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The bioblocks authors

// Package logger configures the application-wide structured logger and the
// per-step execution logs that building blocks write next to their outputs.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

var defaultLogger *slog.Logger

// appLogPath returns the JSON log file location under the XDG state dir.
func appLogPath() (string, error) {
	stateDir := os.Getenv("XDG_STATE_HOME")
	if stateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("could not get user home directory: %w", err)
		}
		stateDir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateDir, "bioblocks", "app.log"), nil
}

// InitLogger sets up the default logger for the execution mode. Both modes
// log JSON to the state file; TUI mode suppresses the stderr mirror so log
// lines do not corrupt the display.
func InitLogger(isTUI bool) {
	var writers []io.Writer

	if file := openLogFile(); file != nil {
		writers = append(writers, file)
	}
	if !isTUI {
		writers = append(writers, os.Stderr)
	}

	var w io.Writer
	switch len(writers) {
	case 0:
		w = os.Stderr
	case 1:
		w = writers[0]
	default:
		w = io.MultiWriter(writers...)
	}

	defaultLogger = slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

// openLogFile opens the app log for appending, creating its directory as
// needed. Failures disable file logging rather than aborting.
func openLogFile() *os.File {
	path, err := appLogPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error determining log file path: %v. File logging disabled.\n", err)
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating log directory for %s: %v. File logging disabled.\n", path, err)
		return nil
	}
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0640)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log file %s: %v. File logging disabled.\n", path, err)
		return nil
	}
	return file
}

// SetLogger replaces the default logger instance, e.g. for tests.
func SetLogger(l *slog.Logger) {
	defaultLogger = l
}

func get() *slog.Logger {
	if defaultLogger == nil {
		InitLogger(false)
	}
	return defaultLogger
}

func Info(msg string, args ...any)  { get().Info(msg, args...) }
func Warn(msg string, args ...any)  { get().Warn(msg, args...) }
func Error(msg string, args ...any) { get().Error(msg, args...) }
func Debug(msg string, args ...any) { get().Debug(msg, args...) }

func Infof(format string, v ...any)  { get().Info(fmt.Sprintf(format, v...)) }
func Warnf(format string, v ...any)  { get().Warn(fmt.Sprintf(format, v...)) }
func Errorf(format string, v ...any) { get().Error(fmt.Sprintf(format, v...)) }
