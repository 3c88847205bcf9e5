// Package datalog writes acquisition samples to a flat CSV file. The
// format is fixed: a `Timestamp, Value` header, then one row per sample
// with the elapsed monotonic time since program start as
// seconds.nanoseconds and the raw 24-bit measurement.
package datalog

import (
	"bufio"
	"fmt"
	"os"
	"time"
)

// Writer appends sample rows to a CSV file.
type Writer struct {
	f *os.File
	w *bufio.Writer
}

// Create opens (and truncates) the file at path and writes the header.
func Create(path string) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o666)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	w := bufio.NewWriter(f)
	if _, err := w.WriteString("Timestamp, Value\n"); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write header to %s: %w", path, err)
	}
	return &Writer{f: f, w: w}, nil
}

// Append writes one sample row. elapsed is time since program start,
// not wall clock.
func (l *Writer) Append(elapsed time.Duration, value uint32) error {
	sec := elapsed / time.Second
	nsec := elapsed % time.Second
	if _, err := fmt.Fprintf(l.w, "%d.%09d, %d\n", sec, nsec, value); err != nil {
		return fmt.Errorf("failed to write data row: %w", err)
	}
	return nil
}

// Close flushes buffered rows and closes the file.
func (l *Writer) Close() error {
	if err := l.w.Flush(); err != nil {
		l.f.Close()
		return fmt.Errorf("failed to flush log file: %w", err)
	}
	return l.f.Close()
}
