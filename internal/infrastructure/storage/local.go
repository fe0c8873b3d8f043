// Package storage provides object storage backends for uploaded media.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore writes objects to a directory on disk and serves them from a
// configured base URL. It is the default backend for single-node setups.
type LocalStore struct {
	dir     string
	baseURL string
}

func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %s: %w", dir, err)
	}
	return &LocalStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Put stores the object under key and returns its public URL. The key is
// always a generated filename, never client input, so a plain join is safe.
func (s *LocalStore) Put(_ context.Context, key, _ string, body []byte) (string, error) {
	path := filepath.Join(s.dir, filepath.Base(key))
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return "", fmt.Errorf("write object %s: %w", key, err)
	}
	return s.baseURL + "/" + filepath.Base(key), nil
}
