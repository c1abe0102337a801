// Package logstore is the server-side persistence for synced journal entries:
// an append-only JSONL file, one row per upload. Reads tolerate malformed
// lines; deletion rewrites the file through a temp-and-rename swap.
package logstore

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hanseolabs/diaryd/internal/journal"
)

const (
	defaultQueryLimit = 500
	maxQueryLimit     = 5000
	defaultTailCount  = 20
	maxTailCount      = 200

	// Rows carry full entry content; allow long lines when scanning.
	maxLineBytes = 1 << 20
)

// Row is one stored upload.
type Row struct {
	StoredAt time.Time     `json:"storedAtISO"`
	DeviceID string        `json:"deviceId"`
	Log      journal.Entry `json:"log"`
	UA       string        `json:"ua"`
}

// Store appends and reads rows from a single JSONL file. Writes are
// serialized; concurrent readers see the file as of their open.
type Store struct {
	path   string
	now    func() time.Time
	logger *zap.Logger

	mu sync.Mutex
}

// New creates a store writing to the given file path. The parent directory is
// created on first append.
func New(path string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{path: path, now: time.Now, logger: logger}
}

// Append stores one upload and returns the recorded row.
func (s *Store) Append(deviceID string, entry journal.Entry, userAgent string) (Row, error) {
	row := Row{
		StoredAt: s.now().UTC(),
		DeviceID: deviceID,
		Log:      entry,
		UA:       userAgent,
	}
	line, err := json.Marshal(row)
	if err != nil {
		return Row{}, fmt.Errorf("logstore: marshal row: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return Row{}, fmt.Errorf("logstore: create data dir: %w", err)
	}
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return Row{}, fmt.Errorf("logstore: open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return Row{}, fmt.Errorf("logstore: append row: %w", err)
	}
	RowsAppended.Inc()
	return row, nil
}

// Query returns one device's entries, newest first. When both start and end
// are given the range is inclusive and order-insensitive. A missing file is an
// empty result. limit is clamped to 5000; zero means 500.
func (s *Store) Query(deviceID string, start, end *time.Time, limit int) ([]journal.Entry, error) {
	if limit <= 0 {
		limit = defaultQueryLimit
	}
	if limit > maxQueryLimit {
		limit = maxQueryLimit
	}

	var lo, hi time.Time
	hasRange := start != nil && end != nil
	if hasRange {
		lo, hi = *start, *end
		if lo.After(hi) {
			lo, hi = hi, lo
		}
	}

	ReadsTotal.WithLabelValues("query").Inc()

	var out []journal.Entry
	err := s.scanLines(func(line []byte) {
		var row Row
		if err := json.Unmarshal(line, &row); err != nil {
			MalformedRows.Inc()
			return
		}
		if row.DeviceID != deviceID {
			return
		}
		if row.Log.CreatedAt.IsZero() {
			return
		}
		if hasRange {
			t := row.Log.CreatedAt
			if t.Before(lo) || t.After(hi) {
				return
			}
		}
		out = append(out, row.Log)
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Tail returns the last n raw rows plus the total line count, for debugging.
// Lines that are not valid JSON come back wrapped as {"raw": "..."} instead of
// being dropped. n is clamped to 200; zero means 20.
func (s *Store) Tail(n int) (count int, rows []json.RawMessage, err error) {
	if n <= 0 {
		n = defaultTailCount
	}
	if n > maxTailCount {
		n = maxTailCount
	}

	ReadsTotal.WithLabelValues("tail").Inc()

	var lines [][]byte
	err = s.scanLines(func(line []byte) {
		lines = append(lines, append([]byte(nil), line...))
	})
	if err != nil {
		return 0, nil, err
	}

	count = len(lines)
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	for _, line := range lines {
		if json.Valid(line) {
			rows = append(rows, json.RawMessage(line))
			continue
		}
		wrapped, merr := json.Marshal(map[string]string{"raw": string(line)})
		if merr != nil {
			continue
		}
		rows = append(rows, json.RawMessage(wrapped))
	}
	return count, rows, nil
}

// Delete removes every row belonging to the device and reports how many were
// deleted and how many rows remain. The file is replaced atomically; lines
// that fail to parse are preserved.
func (s *Store) Delete(deviceID string) (deleted, remaining int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, 0, nil
		}
		return 0, 0, fmt.Errorf("logstore: read log file: %w", err)
	}

	var kept [][]byte
	for _, line := range bytes.Split(data, []byte("\n")) {
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		var row Row
		if err := json.Unmarshal(line, &row); err != nil {
			kept = append(kept, line)
			continue
		}
		if row.DeviceID == deviceID {
			deleted++
			continue
		}
		kept = append(kept, line)
	}
	if deleted == 0 {
		return 0, len(kept), nil
	}

	var buf bytes.Buffer
	for _, line := range kept {
		buf.Write(line)
		buf.WriteByte('\n')
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o600); err != nil {
		return 0, 0, fmt.Errorf("logstore: write temp file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return 0, 0, fmt.Errorf("logstore: replace log file: %w", err)
	}

	RowsDeleted.Add(float64(deleted))
	s.logger.Info("deleted device rows",
		zap.String("device_id", deviceID),
		zap.Int("deleted", deleted),
		zap.Int("remaining", len(kept)))
	return deleted, len(kept), nil
}

// scanLines streams non-empty lines to fn. A missing file yields no lines.
func (s *Store) scanLines(fn func(line []byte)) error {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("logstore: open log file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		fn(line)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("logstore: scan log file: %w", err)
	}
	return nil
}
