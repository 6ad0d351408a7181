// Package storage persists raw uploads. The local disk store is the primary
// location (the registry's storage path points into it); an optional S3
// archive keeps a durable copy of successfully processed originals.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

type Store interface {
	// Save writes the raw upload under a per-document path and returns it.
	Save(ctx context.Context, documentID, filename string, data []byte) (string, error)

	// Delete removes a previously saved upload. Used only to clean up after
	// failed processing.
	Delete(ctx context.Context, path string) error
}

type localStore struct {
	dir string
}

func NewLocalStore(dir string) (Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &localStore{dir: dir}, nil
}

func (s *localStore) Save(ctx context.Context, documentID, filename string, data []byte) (string, error) {
	path := filepath.Join(s.dir, documentID+filepath.Ext(filename))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write upload: %w", err)
	}
	return path, nil
}

func (s *localStore) Delete(ctx context.Context, path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove upload: %w", err)
	}
	return nil
}
