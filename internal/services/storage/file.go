package storage

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/riordanpawley/codeflow/internal/domain"
)

// FileStore keeps one JSON file per key in a directory. Writes replace the
// file atomically, so a crash mid-save leaves the previous snapshot intact.
type FileStore struct {
	dir    string
	logger *slog.Logger
}

// NewFileStore creates a FileStore rooted at dir. The directory is created on
// first write.
func NewFileStore(dir string, logger *slog.Logger) *FileStore {
	return &FileStore{dir: dir, logger: logger}
}

// Dir returns the directory holding the files
func (f *FileStore) Dir() string {
	return f.dir
}

// Path returns the file that holds key
func (f *FileStore) Path(key string) string {
	return filepath.Join(f.dir, fileName(key))
}

func (f *FileStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, &domain.StoreError{Op: "get", Key: key, Backend: "file", Err: err}
	}

	data, err := os.ReadFile(f.Path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &domain.StoreError{Op: "get", Key: key, Backend: "file", Err: domain.ErrNotFound}
	}
	if err != nil {
		return nil, &domain.StoreError{Op: "get", Key: key, Backend: "file", Err: err}
	}
	return data, nil
}

func (f *FileStore) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return &domain.StoreError{Op: "set", Key: key, Backend: "file", Err: err}
	}

	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return &domain.StoreError{Op: "set", Key: key, Backend: "file", Err: err}
	}

	path := f.Path(key)
	if err := atomic.WriteFile(path, bytes.NewReader(value)); err != nil {
		return &domain.StoreError{Op: "set", Key: key, Backend: "file", Err: err}
	}

	f.logger.Debug("wrote key", "key", key, "path", path, "bytes", len(value))
	return nil
}

func (f *FileStore) Remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return &domain.StoreError{Op: "remove", Key: key, Backend: "file", Err: err}
	}

	err := os.Remove(f.Path(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return &domain.StoreError{Op: "remove", Key: key, Backend: "file", Err: err}
	}
	return nil
}

// Close is a no-op
func (f *FileStore) Close() error {
	return nil
}

// fileName maps a key to a safe file name. Characters outside
// [A-Za-z0-9._-] become underscores.
func fileName(key string) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '_', r == '-':
			return r
		default:
			return '_'
		}
	}, key)
	if safe == "" || strings.Trim(safe, ".") == "" {
		safe = "_" + safe
	}
	return safe + ".json"
}
