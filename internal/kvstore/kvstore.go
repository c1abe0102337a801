// Package kvstore provides the persistent key-value storage port used by the
// client-side stores (entries, chat transcript, quota state, sync queue).
//
// Values are JSON-serializable and addressed by short string keys. The File
// implementation keeps one JSON file per key under a data directory; Memory
// backs tests.
package kvstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Well-known storage keys, mirroring the app's namespaced key set.
const (
	KeyProfile     = "profile"
	KeyEntries     = "entries"
	KeyChat        = "chat"
	KeyLocale      = "locale"
	KeyDeviceID    = "device_id"
	KeyMentorQuota = "mentor_quota"
	KeyPendingSync = "pending_sync"
)

// Store is the storage port. Get reports found=false for missing keys
// instead of an error so callers can fall back to empty defaults.
type Store interface {
	Get(key string, v any) (found bool, err error)
	Set(key string, v any) error
}

// File stores each key as a JSON file under dir.
type File struct {
	dir string
	mu  sync.Mutex
}

// NewFile creates (if needed) the data directory and returns a file-backed
// store. The directory is created with owner-only permissions.
func NewFile(dir string) (*File, error) {
	if dir == "" {
		return nil, errors.New("data directory is required")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory %s: %w", dir, err)
	}
	return &File{dir: dir}, nil
}

func (f *File) path(key string) string {
	return filepath.Join(f.dir, key+".json")
}

// Get reads and unmarshals the value stored under key.
func (f *File) Get(key string, v any) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return true, nil
}

// Set marshals v and replaces the value under key atomically
// (write-to-temp + rename).
func (f *File) Set(key string, v any) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}

	tmp := f.path(key) + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err := os.Rename(tmp, f.path(key)); err != nil {
		return fmt.Errorf("failed to replace %s: %w", key, err)
	}
	return nil
}

// Memory is an in-memory Store for tests.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Get(key string, v any) (bool, error) {
	m.mu.RLock()
	data, ok := m.data[key]
	m.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return true, nil
}

func (m *Memory) Set(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	m.mu.Lock()
	m.data[key] = data
	m.mu.Unlock()
	return nil
}
