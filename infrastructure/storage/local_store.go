// Package storage provides the local-disk sink for uploaded media files.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"social-poster/domain/repository"
)

type LocalStore struct {
	dir string
}

// NewLocalStore returns a store writing into dir (created on first save).
func NewLocalStore(dir string) repository.IMediaStore {
	return &LocalStore{dir: dir}
}

// Save writes content under a timestamp-prefixed name so repeated uploads of
// the same filename never collide.
func (s *LocalStore) Save(ctx context.Context, filename string, content io.Reader) (string, int64, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", 0, fmt.Errorf("create upload dir: %w", err)
	}

	name := fmt.Sprintf("%s_%s", time.Now().Format("20060102_150405"), filepath.Base(filename))
	path := filepath.Join(s.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", 0, fmt.Errorf("create upload file: %w", err)
	}
	defer f.Close()

	size, err := io.Copy(f, content)
	if err != nil {
		os.Remove(path)
		return "", 0, fmt.Errorf("write upload file: %w", err)
	}
	return path, size, nil
}
