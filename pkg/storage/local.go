// Package storage provides the local-disk file store for uploaded
// attachments. Files land under <base dir>/<folder>/ with a unique
// name; the returned path is web-relative so it can be stored and
// served directly.
package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

type LocalStore struct {
	baseDir string
}

func NewLocalStore(baseDir string) *LocalStore {
	return &LocalStore{baseDir: baseDir}
}

func (s *LocalStore) SaveFile(ctx context.Context, folder, filename string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty file")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	unique := uuid.NewString() + "_" + filepath.Base(filename)
	dir := filepath.Join(s.baseDir, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	if err := os.WriteFile(filepath.Join(dir, unique), data, 0o644); err != nil {
		return "", err
	}

	return "/uploads/" + folder + "/" + unique, nil
}
