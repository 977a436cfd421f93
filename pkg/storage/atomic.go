package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// EnsureDir creates the parent directory of path if it doesn't exist
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// WriteFile writes path atomically: write streams into a temporary file in
// the same directory which is synced and renamed over path only if write
// succeeds. On failure path is left untouched.
func WriteFile(path string, write func(w io.Writer) error) error {
	staged, err := Stage(path)
	if err != nil {
		return err
	}

	file, err := os.OpenFile(staged.Path(), os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		staged.Discard()
		return fmt.Errorf("failed to open temporary file: %w", err)
	}

	if err := write(file); err != nil {
		file.Close()
		staged.Discard()
		return err
	}

	// Ensure data is written to disk
	if err := file.Sync(); err != nil {
		file.Close()
		staged.Discard()
		return fmt.Errorf("failed to sync temporary file: %w", err)
	}
	if err := file.Close(); err != nil {
		staged.Discard()
		return fmt.Errorf("failed to close temporary file: %w", err)
	}

	return staged.Commit()
}

// Staged is a temporary sibling of a destination file, for writers that
// need a path rather than an io.Writer
type Staged struct {
	tempPath string
	destPath string
}

// Stage reserves a temporary file next to path
func Stage(path string) (*Staged, error) {
	if err := EnsureDir(path); err != nil {
		return nil, err
	}

	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	file, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary file: %w", err)
	}
	file.Close()

	return &Staged{tempPath: file.Name(), destPath: path}, nil
}

// Path is the temporary file to write
func (s *Staged) Path() string {
	return s.tempPath
}

// Commit renames the temporary file over the destination
func (s *Staged) Commit() error {
	if err := os.Rename(s.tempPath, s.destPath); err != nil {
		os.Remove(s.tempPath)
		return fmt.Errorf("failed to replace %s: %w", s.destPath, err)
	}
	return nil
}

// Discard removes the temporary file
func (s *Staged) Discard() {
	os.Remove(s.tempPath)
}
