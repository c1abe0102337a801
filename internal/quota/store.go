package quota

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/hanseolabs/diaryd/internal/kvstore"
)

// KVStore adapts the client's key-value storage to the quota Store port.
// A client tracks only its own device, so the tracker key is ignored and a
// single State lives under the mentor-quota storage key.
type KVStore struct {
	kv kvstore.Store
}

// NewKVStore wraps kv as a quota store.
func NewKVStore(kv kvstore.Store) *KVStore {
	return &KVStore{kv: kv}
}

func (s *KVStore) Load(string) (State, bool, error) {
	var st State
	found, err := s.kv.Get(kvstore.KeyMentorQuota, &st)
	if err != nil {
		return State{}, false, err
	}
	return st, found, nil
}

func (s *KVStore) Save(_ string, st State) error {
	return s.kv.Set(kvstore.KeyMentorQuota, st)
}

// FileMapStore is the server-side quota ledger: a JSON object file mapping
// device-or-IP keys to their State. Every write prunes entries whose day is
// no longer today, so the file never grows past one day's clients.
//
// Writes replace the file via write-to-temp + rename. There is no
// cross-process lock; the single daemon process serializes with its mutex.
type FileMapStore struct {
	path string
	now  func() time.Time
	mu   sync.Mutex
}

// NewFileMapStore creates the parent directory if needed and returns a store
// persisting to path.
func NewFileMapStore(path string) (*FileMapStore, error) {
	if path == "" {
		return nil, errors.New("quota file path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create quota directory: %w", err)
	}
	return &FileMapStore{path: path, now: time.Now}, nil
}

func (s *FileMapStore) read() map[string]State {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return map[string]State{}
	}
	var m map[string]State
	if err := json.Unmarshal(data, &m); err != nil || m == nil {
		// Corrupt ledger resets to empty rather than blocking requests.
		return map[string]State{}
	}
	return m
}

func (s *FileMapStore) Load(key string) (State, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.read()[key]
	return st, ok, nil
}

func (s *FileMapStore) Save(key string, st State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := s.read()
	m[key] = st

	today := DayKey(s.now())
	for k, v := range m {
		if v.Day != today {
			delete(m, k)
		}
	}

	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to encode quota map: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write quota map: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace quota map: %w", err)
	}
	return nil
}
