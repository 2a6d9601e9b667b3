package cache

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Storage stores cache entries as named byte blobs. Names are flat file
// names with no directory part.
type Storage interface {
	Read(name string) ([]byte, error)
	Write(name string, data []byte) error
	List() ([]string, error)
	Remove(name string) error
}

// FSStorage keeps entries as files in one directory.
type FSStorage struct {
	dir string
}

// NewFSStorage returns a storage rooted at dir. The directory is created on
// first write.
func NewFSStorage(dir string) *FSStorage {
	return &FSStorage{dir: dir}
}

// Dir returns the storage directory.
func (s *FSStorage) Dir() string {
	return s.dir
}

func (s *FSStorage) path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) {
		return "", fmt.Errorf("invalid cache entry name %q", name)
	}
	return filepath.Join(s.dir, name), nil
}

// Read returns the entry bytes. Missing entries yield an error matching fs.ErrNotExist.
func (s *FSStorage) Read(name string) ([]byte, error) {
	path, err := s.path(name)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}

// Write stores data under name via a temp file and rename, so readers never
// observe a partially written entry.
func (s *FSStorage) Write(name string, data []byte) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	tmp := filepath.Join(s.dir, "."+uuid.NewString()+".tmp")
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("commit cache entry: %w", err)
	}
	return nil
}

// List returns entry names in lexical order. A missing directory is empty.
func (s *FSStorage) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), entrySuffix) {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

// Remove deletes an entry. Removing a missing entry is not an error.
func (s *FSStorage) Remove(name string) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// MemoryStorage is an in-process Storage, used by tests and short-lived callers.
type MemoryStorage struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

// NewMemoryStorage returns an empty in-memory storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{entries: make(map[string][]byte)}
}

func (s *MemoryStorage) Read(name string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.entries[name]
	if !ok {
		return nil, fmt.Errorf("cache entry %q: %w", name, fs.ErrNotExist)
	}
	return append([]byte(nil), data...), nil
}

func (s *MemoryStorage) Write(name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[name] = append([]byte(nil), data...)
	return nil
}

func (s *MemoryStorage) List() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.entries))
	for name := range s.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (s *MemoryStorage) Remove(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, name)
	return nil
}
