// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The bioblocks authors

package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// StepLog holds the pair of plain-text log files a building block writes
// during a run: one for its own progress messages plus the wrapped tool's
// stdout, one for the wrapped tool's stderr. The naming convention is
// [prefix_]step_log.out / [prefix_]step_log.err inside the working path.
type StepLog struct {
	OutPath string
	ErrPath string

	outFile *os.File
	errFile *os.File

	// console mirrors Out messages to stdout when enabled
	console bool
}

// NewStepLog creates the out/err log files for a step. path defaults to the
// current directory and step to "step". The files are truncated on creation.
func NewStepLog(path, prefix, step string, console bool) (*StepLog, error) {
	if step == "" {
		step = "step"
	}
	name := step + "_log"
	if prefix != "" {
		name = prefix + "_" + name
	}
	if path != "" {
		if err := os.MkdirAll(path, 0750); err != nil {
			return nil, fmt.Errorf("failed to create log directory %s: %w", path, err)
		}
	}

	outPath := filepath.Join(path, name+".out")
	errPath := filepath.Join(path, name+".err")

	outFile, err := os.Create(outPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create step log %s: %w", outPath, err)
	}
	errFile, err := os.Create(errPath)
	if err != nil {
		outFile.Close()
		return nil, fmt.Errorf("failed to create step log %s: %w", errPath, err)
	}

	return &StepLog{
		OutPath: outPath,
		ErrPath: errPath,
		outFile: outFile,
		errFile: errFile,
		console: console,
	}, nil
}

// Log writes a timestamped progress message to the out log, mirroring it to
// stdout when console output is enabled.
func (s *StepLog) Log(format string, v ...any) {
	if s == nil {
		return
	}
	msg := fmt.Sprintf(format, v...)
	line := time.Now().Format("2006-01-02 15:04:05") + "  " + msg
	if !strings.HasSuffix(line, "\n") {
		line += "\n"
	}
	if s.outFile != nil {
		_, _ = s.outFile.WriteString(line)
	}
	if s.console {
		fmt.Print(line)
	}
}

// Stdout returns the writer the wrapped tool's stdout should stream to.
func (s *StepLog) Stdout() io.Writer {
	if s == nil || s.outFile == nil {
		return io.Discard
	}
	return s.outFile
}

// Stderr returns the writer the wrapped tool's stderr should stream to.
func (s *StepLog) Stderr() io.Writer {
	if s == nil || s.errFile == nil {
		return io.Discard
	}
	return s.errFile
}

// Close flushes and closes both log files.
func (s *StepLog) Close() {
	if s == nil {
		return
	}
	if s.outFile != nil {
		_ = s.outFile.Close()
		s.outFile = nil
	}
	if s.errFile != nil {
		_ = s.errFile.Close()
		s.errFile = nil
	}
}
