package local

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"jobboard-backend/internal/shared/storage/object"
)

// Store keeps objects on the local filesystem, used in dev.
type Store struct {
	baseDir string
}

func New(baseDir string) object.ObjectStore {
	return &Store{baseDir: baseDir}
}

func (s *Store) Save(ctx context.Context, namespace string, fileName string, r io.Reader) (string, int64, string, error) {
	key, err := object.NewKey(namespace, fileName)
	if err != nil {
		return "", 0, "", err
	}
	if err := ctx.Err(); err != nil {
		return "", 0, "", err
	}
	mimeType, body, err := object.Sniff(r)
	if err != nil {
		return "", 0, "", err
	}

	full := s.path(key)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", 0, "", fmt.Errorf("mkdir: %w", err)
	}
	f, err := os.OpenFile(full, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", 0, "", fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	size, err := io.Copy(f, body)
	if err != nil {
		os.Remove(full)
		return "", 0, "", fmt.Errorf("write %s: %w", path.Base(key), err)
	}
	return key, size, mimeType, nil
}

// Open fails with fs.ErrNotExist for unknown keys.
func (s *Store) Open(ctx context.Context, storageKey string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key, err := object.CleanKey(storageKey)
	if err != nil {
		return nil, err
	}
	return os.Open(s.path(key))
}

func (s *Store) path(key string) string {
	return filepath.Join(s.baseDir, filepath.FromSlash(key))
}

var _ object.ObjectStore = (*Store)(nil)
