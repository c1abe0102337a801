// Package journal owns the user's diary entries: local-first persistence
// with an emotion label assigned at write time.
package journal

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hanseolabs/diaryd/internal/emotion"
	"github.com/hanseolabs/diaryd/internal/i18n"
	"github.com/hanseolabs/diaryd/internal/kvstore"
)

// Entry is a single diary record. Immutable after Add; the field names match
// the sync wire format.
type Entry struct {
	ID             string        `json:"id"`
	CreatedAt      time.Time     `json:"createdAtISO"`
	Content        string        `json:"content"`
	Emotion        emotion.Label `json:"emotion"`
	EmotionSummary string        `json:"emotionSummary"`
}

// ErrEmptyContent rejects whitespace-only entries.
var ErrEmptyContent = errors.New("entry content is empty")

// Store persists the entry list, newest first, under local key-value storage.
type Store struct {
	kv     kvstore.Store
	locale i18n.Locale
	now    func() time.Time
}

// NewStore creates an entry store writing summaries in the given locale.
func NewStore(kv kvstore.Store, locale i18n.Locale) *Store {
	return &Store{kv: kv, locale: locale, now: time.Now}
}

// Add classifies content, assigns an id, and persists the new entry at the
// head of the list.
func (s *Store) Add(content string) (Entry, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return Entry{}, ErrEmptyContent
	}

	result := emotion.AnalyzeLocalized(trimmed, s.locale)
	entry := Entry{
		ID:             uuid.NewString(),
		CreatedAt:      s.now(),
		Content:        trimmed,
		Emotion:        result.Label,
		EmotionSummary: result.Summary,
	}

	existing, err := s.load()
	if err != nil {
		return Entry{}, err
	}
	if err := s.kv.Set(kvstore.KeyEntries, append([]Entry{entry}, existing...)); err != nil {
		return Entry{}, fmt.Errorf("failed to persist entries: %w", err)
	}
	return entry, nil
}

// List returns all entries sorted newest first. A missing list is an empty
// list, never an error.
func (s *Store) List() ([]Entry, error) {
	entries, err := s.load()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	return entries, nil
}

// Get looks up one entry by id.
func (s *Store) Get(id string) (Entry, bool, error) {
	entries, err := s.load()
	if err != nil {
		return Entry{}, false, err
	}
	for _, e := range entries {
		if e.ID == id {
			return e, true, nil
		}
	}
	return Entry{}, false, nil
}

func (s *Store) load() ([]Entry, error) {
	var entries []Entry
	if _, err := s.kv.Get(kvstore.KeyEntries, &entries); err != nil {
		return nil, fmt.Errorf("failed to load entries: %w", err)
	}
	return entries, nil
}

// DeviceID returns the stored device identity, creating one on first use.
func DeviceID(kv kvstore.Store) (string, error) {
	var id string
	found, err := kv.Get(kvstore.KeyDeviceID, &id)
	if err != nil {
		return "", fmt.Errorf("failed to load device id: %w", err)
	}
	if found && id != "" {
		return id, nil
	}
	id = uuid.NewString()
	if err := kv.Set(kvstore.KeyDeviceID, id); err != nil {
		return "", fmt.Errorf("failed to persist device id: %w", err)
	}
	return id, nil
}
