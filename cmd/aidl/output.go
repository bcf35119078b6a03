package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// createOutput opens path for writing, creating its directory. "-" and ""
// stand for stdout.
func createOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	return f, nil
}

// writeOutput runs write against path and closes it.
func writeOutput(path string, write func(w io.Writer) error) error {
	w, err := createOutput(path)
	if err != nil {
		return err
	}
	err = write(w)
	if cerr := w.Close(); err == nil {
		err = cerr
	}
	return err
}
