package persist

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned when a key has no stored value
var ErrNotFound = fmt.Errorf("key not found")

// Store is a string-keyed persistence surface. Reads and writes are
// synchronous; a write replaces the whole value for the key.
type Store interface {
	// Get retrieves the value stored at key, or ErrNotFound
	Get(key string) ([]byte, error)

	// Put stores value at key, replacing any previous value
	Put(key string, value []byte) error

	// Delete removes the value at key; absent keys are not an error
	Delete(key string) error
}

// FileStore implements Store on the local filesystem, one file per key
type FileStore struct {
	basePath string
}

// NewFileStore creates a file-backed store rooted at basePath
func NewFileStore(basePath string) (*FileStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create state directory %s: %w", basePath, err)
	}
	return &FileStore{basePath: basePath}, nil
}

// Get retrieves the value stored at key
func (s *FileStore) Get(key string) ([]byte, error) {
	value, err := os.ReadFile(s.keyToPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read key %s: %w", key, err)
	}
	return value, nil
}

// Put stores value at key. The write goes through a temp file and rename
// so readers never observe a partially written snapshot.
func (s *FileStore) Put(key string, value []byte) error {
	fullPath := s.keyToPath(key)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory for key %s: %w", key, err)
	}

	tmpPath := fullPath + ".tmp"
	if err := os.WriteFile(tmpPath, value, 0644); err != nil {
		return fmt.Errorf("failed to write key %s: %w", key, err)
	}
	if err := os.Rename(tmpPath, fullPath); err != nil {
		return fmt.Errorf("failed to commit key %s: %w", key, err)
	}
	return nil
}

// Delete removes the value at key
func (s *FileStore) Delete(key string) error {
	if err := os.Remove(s.keyToPath(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	return nil
}

// keyToPath converts a store key to a filesystem path, preventing traversal
func (s *FileStore) keyToPath(key string) string {
	cleanKey := filepath.Clean(key)
	cleanKey = strings.TrimPrefix(cleanKey, "/")
	cleanKey = strings.ReplaceAll(cleanKey, "..", "")
	return filepath.Join(s.basePath, cleanKey)
}

// BasePath returns the root directory for this store
func (s *FileStore) BasePath() string {
	return s.basePath
}
