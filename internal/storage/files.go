// Package storage writes uploaded artifact files to a local directory.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// StoredFile describes a file written by FileStore.
type StoredFile struct {
	Name string
	Path string
	Size int64
}

// FileStore saves artifact files under a single directory.
type FileStore struct {
	dir string
	now func() time.Time
}

// NewFileStore creates dir if needed and returns a store writing into it.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("upload directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &FileStore{dir: dir, now: time.Now}, nil
}

// Dir returns the directory files are written to.
func (s *FileStore) Dir() string {
	return s.dir
}

// Save writes r to a new uniquely named file, keeping the extension of
// originalName. A partially written file is removed on error.
func (s *FileStore) Save(ctx context.Context, originalName string, r io.Reader) (StoredFile, error) {
	if err := ctx.Err(); err != nil {
		return StoredFile{}, err
	}

	name := s.fileName(originalName)
	path := filepath.Join(s.dir, name)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return StoredFile{}, fmt.Errorf("failed to create %s: %w", name, err)
	}

	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return StoredFile{}, fmt.Errorf("failed to write %s: %w", name, err)
	}

	return StoredFile{Name: name, Path: path, Size: n}, nil
}

// Remove deletes a previously saved file. Missing files are not an error.
func (s *FileStore) Remove(_ context.Context, path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}
	return nil
}

// fileName builds artifact-<unixmillis>-<random><ext>.
func (s *FileStore) fileName(originalName string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(originalName)))
	random := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("artifact-%d-%s%s", s.now().UnixMilli(), random, ext)
}
