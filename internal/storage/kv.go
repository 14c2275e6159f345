// Package storage persists saved comparison scenarios. The whole collection
// is kept as one JSON document under a single key of a key-value backend.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// KV is the minimal key-value contract a storage backend provides.
type KV interface {
	// Get returns the value stored under key and whether it exists.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string) error
}

// MemoryKV keeps values in process memory.
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemoryKV creates an empty in-memory backend.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string]string)}
}

// Get implements KV.
func (m *MemoryKV) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	val, ok := m.data[key]
	return val, ok, nil
}

// Set implements KV.
func (m *MemoryKV) Set(_ context.Context, key string, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

// FileKV stores each key as a JSON file inside a directory.
type FileKV struct {
	dir string
}

// NewFileKV creates the directory if needed and returns a file backend rooted there.
func NewFileKV(dir string) (*FileKV, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating storage directory %s: %w", dir, err)
	}
	return &FileKV{dir: dir}, nil
}

// Get implements KV.
func (f *FileKV) Get(_ context.Context, key string) (string, bool, error) {
	data, err := os.ReadFile(f.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("reading %s: %w", key, err)
	}
	return string(data), true, nil
}

// Set implements KV. Values are written to a temporary file and renamed so a
// crash never leaves a truncated document behind.
func (f *FileKV) Set(_ context.Context, key string, value string) error {
	tmp, err := os.CreateTemp(f.dir, "."+sanitizeKey(key)+"-*")
	if err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(value); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", key, err)
	}
	if err := os.Rename(tmpName, f.path(key)); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

func (f *FileKV) path(key string) string {
	return filepath.Join(f.dir, sanitizeKey(key)+".json")
}

func sanitizeKey(key string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, key)
}
