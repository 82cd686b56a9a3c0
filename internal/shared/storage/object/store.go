package object

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"

	"jobboard-backend/internal/shared/util"
)

// ErrInvalidKey is returned for keys that are empty or climb out of the store.
var ErrInvalidKey = errors.New("invalid storage key")

// ObjectStore keeps uploaded media such as company logos. Keys are slash
// separated and relative to the store root.
type ObjectStore interface {
	// Save stores r under namespace with a unique name derived from fileName.
	Save(ctx context.Context, namespace string, fileName string, r io.Reader) (storageKey string, sizeBytes int64, mimeType string, err error)
	// Open returns an error wrapping fs.ErrNotExist for unknown keys.
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
}

// CleanKey normalizes key and rejects traversal.
func CleanKey(key string) (string, error) {
	if strings.Contains(key, "..") || strings.Contains(key, "\\") {
		return "", ErrInvalidKey
	}
	clean := strings.TrimPrefix(path.Clean("/"+strings.TrimSpace(key)), "/")
	if clean == "" || clean == "." {
		return "", ErrInvalidKey
	}
	return clean, nil
}

// NewKey builds a collision free key for fileName under namespace.
func NewKey(namespace, fileName string) (string, error) {
	name, err := util.SanitizeFileName(fileName)
	if err != nil {
		return "", fmt.Errorf("sanitize file name: %w", err)
	}
	ns, err := CleanKey(namespace)
	if err != nil {
		return "", err
	}
	return path.Join(ns, uuid.NewString()+"_"+name), nil
}

// Sniff reads the head of r for content detection and returns a reader that
// replays it.
func Sniff(r io.Reader) (string, io.Reader, error) {
	var head [512]byte
	n, err := io.ReadFull(r, head[:])
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", nil, fmt.Errorf("read sniff: %w", err)
	}
	buf := append([]byte(nil), head[:n]...)
	return http.DetectContentType(buf), io.MultiReader(bytes.NewReader(buf), r), nil
}
