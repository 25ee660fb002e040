package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"sync"
)

// Dir stores each key as a file inside a directory.
//
// Writes go to a temporary file first and are renamed into place, so a crash
// never leaves a half-written value behind.
type Dir struct {
	root string
	mu   sync.Mutex
}

// NewDir creates the directory if needed and returns a [Dir] rooted there.
func NewDir(root string) (*Dir, error) {
	if root == "" {
		return nil, fmt.Errorf("storage directory is required")
	}
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &Dir{root: root}, nil
}

// path maps a key to a file name; keys are escaped so separators cannot escape the root.
func (d *Dir) path(key string) string {
	return filepath.Join(d.root, url.PathEscape(key)+".json")
}

func (d *Dir) Get(key string) (string, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	data, err := os.ReadFile(d.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return string(data), true, nil
}

func (d *Dir) Set(key, value string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	tmp, err := os.CreateTemp(d.root, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), d.path(key)); err != nil {
		return fmt.Errorf("failed to replace %s: %w", key, err)
	}
	return nil
}

func (d *Dir) Remove(key string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := os.Remove(d.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}

// Close is a no-op.
func (d *Dir) Close() error { return nil }
