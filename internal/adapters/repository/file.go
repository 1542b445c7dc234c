package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/onbase/internal/domain/model"
)

const backendFile = "file"

// FileStore keeps the record as one JSON document on disk. Saves write a
// temporary file next to the target and rename it over the old document.
type FileStore struct {
	path string
	mode os.FileMode
}

// NewFileStore returns a store backed by the document at path.
func NewFileStore(path string, opts ...Option) *FileStore {
	s := &FileStore{path: path, mode: 0o644}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads and decodes the document.
func (s *FileStore) Load(_ context.Context) (rec model.StreakRecord, err error) {
	defer func(start time.Time) { observe(backendFile, "load", start, err) }(time.Now())

	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return model.StreakRecord{}, ErrNotFound
		}
		return model.StreakRecord{}, fmt.Errorf("read %s: %w", s.path, err)
	}
	return decode(b)
}

// Save atomically replaces the document.
func (s *FileStore) Save(_ context.Context, record model.StreakRecord) (err error) {
	defer func(start time.Time) { observe(backendFile, "save", start, err) }(time.Now())

	b, err := encode(record)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(append(b, '\n')); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	if err = os.Chmod(tmpName, s.mode); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	if err = os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	return nil
}

// Close is a no-op.
func (s *FileStore) Close() error { return nil }
