package log

import (
	"io"
	"os"
	"sync"
)

// ConsoleOutput writes formatted entries to stderr (or a custom writer).
type ConsoleOutput struct {
	mu sync.Mutex
	w  io.Writer
}

// NewConsoleOutput returns an Output writing to stderr.
func NewConsoleOutput() *ConsoleOutput { return &ConsoleOutput{w: os.Stderr} }

// NewWriterOutput returns an Output writing to w.
func NewWriterOutput(w io.Writer) *ConsoleOutput { return &ConsoleOutput{w: w} }

func (o *ConsoleOutput) Write(_ *Entry, formatted []byte) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	w := o.w
	if w == nil {
		w = os.Stderr
	}
	_, err := w.Write(formatted)
	return err
}

func (o *ConsoleOutput) Close() error { return nil }

// FileOutput appends formatted entries to a file.
type FileOutput struct {
	mu sync.Mutex
	f  *os.File
}

// NewFileOutput opens (or creates) path for appending.
func NewFileOutput(path string) (*FileOutput, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	return &FileOutput{f: f}, nil
}

func (o *FileOutput) Write(_ *Entry, formatted []byte) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, err := o.f.Write(formatted)
	return err
}

func (o *FileOutput) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.f.Close()
}

// NullOutput discards everything.
type NullOutput struct{}

func (NullOutput) Write(*Entry, []byte) error { return nil }
func (NullOutput) Close() error               { return nil }
