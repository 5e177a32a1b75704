// Package blob stores clip audio as flat files in one directory.
package blob

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Evman90/soundboardmaker/internal/domain"
)

// Store is a filesystem blob store keyed by filename.
type Store struct {
	dir string
}

// New creates the directory if needed and returns a Store rooted at it.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create blob dir %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the root directory.
func (s *Store) Dir() string { return s.dir }

// ReadBlob returns the bytes stored under filename or domain.ErrNotFound.
func (s *Store) ReadBlob(_ context.Context, filename string) ([]byte, error) {
	path, err := s.path(filename)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("blob %s: %w", filename, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read blob %s: %w", filename, err)
	}
	return data, nil
}

// WriteBlob replaces the content stored under filename. The data is
// written to a temporary file first and renamed into place.
func (s *Store) WriteBlob(_ context.Context, filename string, data []byte) error {
	path, err := s.path(filename)
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write blob %s: %w", filename, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename blob %s: %w", filename, err)
	}
	return nil
}

// DeleteBlob removes filename. Deleting a missing blob is not an error.
func (s *Store) DeleteBlob(_ context.Context, filename string) error {
	path, err := s.path(filename)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete blob %s: %w", filename, err)
	}
	return nil
}

// Open returns a handle for streaming the blob, or domain.ErrNotFound.
func (s *Store) Open(_ context.Context, filename string) (*os.File, error) {
	path, err := s.path(filename)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("blob %s: %w", filename, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("open blob %s: %w", filename, err)
	}
	return f, nil
}

// path resolves filename inside the root. Names that would escape it are
// rejected as not found.
func (s *Store) path(filename string) (string, error) {
	if filename == "" || filename != filepath.Base(filename) || filename == "." || filename == ".." {
		return "", fmt.Errorf("blob %q: %w", filename, domain.ErrNotFound)
	}
	return filepath.Join(s.dir, filename), nil
}

// Ping checks that the root directory is still present.
func (s *Store) Ping(_ context.Context) error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return fmt.Errorf("blob dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("blob dir %s is not a directory", s.dir)
	}
	return nil
}
