package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

const (
	maxLogSizeBytes  = 6 * 1024 * 1024
	keepLogSizeBytes = 5 * 1024 * 1024
)

// cappedLogFile appends to a file and, once it grows past max bytes, cuts
// it down to its last keep bytes.
type cappedLogFile struct {
	mu   sync.Mutex
	file *os.File
	max  int64
	keep int64
}

func openCappedLogFile(path string, maxSize, keepSize int64) (*cappedLogFile, error) {
	if keepSize > maxSize {
		return nil, fmt.Errorf("log keep size %d exceeds max %d", keepSize, maxSize)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	w := &cappedLogFile{file: file, max: maxSize, keep: keepSize}
	if err := w.trimLocked(); err != nil {
		file.Close()
		return nil, err
	}
	return w, nil
}

func (w *cappedLogFile) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	n, err := w.file.Write(p)
	if err != nil {
		return n, err
	}
	return n, w.trimLocked()
}

func (w *cappedLogFile) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Close()
}

// trimLocked keeps the tail of the file once it exceeds max. Callers hold mu
// or own w exclusively.
func (w *cappedLogFile) trimLocked() error {
	info, err := w.file.Stat()
	if err != nil {
		return err
	}
	size := info.Size()
	if size <= w.max {
		return nil
	}

	tail := make([]byte, w.keep)
	n, err := w.file.ReadAt(tail, size-w.keep)
	if err != nil && err != io.EOF {
		return err
	}
	if err := w.file.Truncate(0); err != nil {
		return err
	}
	// O_APPEND writes land at the new end regardless of the offset.
	_, err = w.file.Write(tail[:n])
	return err
}
