// Package logging configures the process-wide slog logger. When the
// live viewer owns the terminal, log lines are held in a buffer (and
// still teed to the log file, if one is configured) so they don't tear
// up the TUI; Close flushes whatever is left.
package logging

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// holdWriter buffers output while a TUI owns the terminal and tees every
// line to an optional file.
type holdWriter struct {
	mu      sync.Mutex
	held    bytes.Buffer
	target  io.Writer
	file    *os.File
	holding bool
}

func (w *holdWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	var firstErr error
	if w.holding {
		w.held.Write(p)
	} else if w.target != nil {
		if _, err := w.target.Write(p); err != nil {
			firstErr = err
		}
	}
	if w.file != nil {
		if _, err := w.file.Write(p); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return len(p), firstErr
}

var writer *holdWriter

// Init sets up the default slog logger. With hold set, terminal output
// is buffered until Release or Close; logFile may be empty.
func Init(level, format string, hold bool, logFile string) error {
	writer = &holdWriter{holding: hold}
	if !hold {
		writer.target = os.Stderr
	}
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
		if err != nil {
			return err
		}
		writer.file = f
	}

	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(writer, opts)
	} else {
		handler = slog.NewTextHandler(writer, opts)
	}
	slog.SetDefault(slog.New(handler))
	return nil
}

func parseLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Release flushes held output to target and switches to live logging
// there. Called once the TUI has given the terminal back.
func Release(target io.Writer) error {
	writer.mu.Lock()
	defer writer.mu.Unlock()

	if writer.held.Len() > 0 {
		if _, err := target.Write(writer.held.Bytes()); err != nil {
			return err
		}
		writer.held.Reset()
	}
	writer.target = target
	writer.holding = false
	return nil
}

// Close flushes anything still held and closes the log file. Held
// output already reached the file at write time, so it only needs a
// terminal fallback when no file is configured.
func Close() error {
	writer.mu.Lock()
	defer writer.mu.Unlock()

	var firstErr error
	if writer.held.Len() > 0 && writer.file == nil {
		if _, err := os.Stderr.Write(writer.held.Bytes()); err != nil {
			firstErr = err
		}
	}
	writer.held.Reset()
	if writer.file != nil {
		if err := writer.file.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		writer.file = nil
	}
	return firstErr
}
