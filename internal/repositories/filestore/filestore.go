// Package filestore is the default persistence collaborator: one JSON file
// per logical key under a data directory. Writes go through a temp file and
// rename so a crash mid-write never corrupts the stored collection.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spendwise-app/spendwise/internal/apperrors"
	portsrepo "github.com/spendwise-app/spendwise/internal/core/ports/repositories"
)

type fileStore struct {
	dir string
}

// New creates the store rooted at dir, creating the directory if needed.
func New(dir string) (portsrepo.KVStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("data directory cannot be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory %s: %w", dir, err)
	}
	return &fileStore{dir: dir}, nil
}

var _ portsrepo.KVStore = (*fileStore)(nil)

func (s *fileStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

func (s *fileStore) Load(ctx context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: key %s", apperrors.ErrNotFound, key)
		}
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, nil
}

func (s *fileStore) Save(ctx context.Context, key string, value []byte) error {
	target := s.path(key)
	tmp, err := os.CreateTemp(s.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", key, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file for %s: %w", key, err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", key, err)
	}
	return nil
}

func (s *fileStore) Close() error {
	return nil
}
