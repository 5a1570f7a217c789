package kv

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
)

// FileStore persists each key as a file under a data directory. Values are
// small (one JSON partition map per user) so whole-file rewrites are fine.
type FileStore struct {
	dir string
}

// NewFileStore creates the data directory if needed and returns a store
// backed by it.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("could not create data directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// keyPath maps a key to a file name. Keys carry colons and addresses
// (e.g. "attendance:user@example.com"), so the key is percent-encoded
// rather than flattened; distinct keys never share a file and the
// resulting names stay portable.
func (f *FileStore) keyPath(key string) string {
	return filepath.Join(f.dir, url.QueryEscape(key)+".json")
}

func (f *FileStore) Get(key string) (string, error) {
	data, err := os.ReadFile(f.keyPath(key))
	if errors.Is(err, fs.ErrNotExist) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("could not read %s: %w", key, err)
	}
	return string(data), nil
}

func (f *FileStore) Set(key, value string) error {
	path := f.keyPath(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(value), 0600); err != nil {
		return fmt.Errorf("could not write %s: %w", key, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("could not replace %s: %w", key, err)
	}
	return nil
}

func (f *FileStore) Remove(key string) error {
	err := os.Remove(f.keyPath(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("could not remove %s: %w", key, err)
	}
	return nil
}
