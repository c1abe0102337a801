package quota

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hanseolabs/diaryd/internal/kvstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedClock advances only when told to, so cooldown windows are exact.
type fixedClock struct {
	at time.Time
}

func (c *fixedClock) now() time.Time          { return c.at }
func (c *fixedClock) advance(d time.Duration) { c.at = c.at.Add(d) }
func (c *fixedClock) set(t time.Time)         { c.at = t }

func newTestTracker(t *testing.T) (*Tracker, *fixedClock) {
	t.Helper()
	clock := &fixedClock{at: time.Date(2024, 1, 1, 9, 0, 0, 0, time.Local)}
	tr := NewTracker(NewKVStore(kvstore.NewMemory()), Limits{})
	tr.now = clock.now
	return tr, clock
}

func TestEstimateTokens(t *testing.T) {
	assert.Equal(t, 0, EstimateTokens(""))
	assert.Equal(t, 1, EstimateTokens("abc"))     // ceil(3/3.5)
	assert.Equal(t, 2, EstimateTokens("abcdefg")) // ceil(7/3.5)
	// Multi-byte text counts runes, not bytes.
	assert.Equal(t, 1, EstimateTokens("피곤"))
}

func TestConsumeIncrementsUpToDailyCap(t *testing.T) {
	tr, clock := newTestTracker(t)

	for i := 1; i <= tr.Limits().DailyMaxRequests; i++ {
		require.NoError(t, tr.Consume("dev1", "hello"))
		st := tr.Status("dev1")
		assert.Equal(t, i, st.UsedRequests)
		clock.advance(61 * time.Second)
	}

	err := tr.Consume("dev1", "hello")
	var qerr *Error
	require.ErrorAs(t, err, &qerr)
	assert.Equal(t, ReasonQuotaExceeded, qerr.Reason)

	// Rejection must not mutate state.
	assert.Equal(t, tr.Limits().DailyMaxRequests, tr.Status("dev1").UsedRequests)
}

func TestConsumeCooldown(t *testing.T) {
	tr, clock := newTestTracker(t)

	require.NoError(t, tr.Consume("dev1", "first"))

	clock.advance(10 * time.Second)
	err := tr.Consume("dev1", "second")
	var qerr *Error
	require.ErrorAs(t, err, &qerr)
	assert.Equal(t, ReasonRateLimited, qerr.Reason)
	assert.Equal(t, 50*time.Second, qerr.NextAllowedIn)
	assert.Greater(t, qerr.NextAllowedIn, time.Duration(0))

	clock.advance(50 * time.Second)
	assert.NoError(t, tr.Consume("dev1", "second"))
}

func TestConsumeMessageTooLong(t *testing.T) {
	tr, _ := newTestTracker(t)

	long := strings.Repeat("가", tr.Limits().MaxMessageChars+1)
	err := tr.Consume("dev1", long)
	var qerr *Error
	require.ErrorAs(t, err, &qerr)
	assert.Equal(t, ReasonMessageTooLong, qerr.Reason)
	assert.Equal(t, tr.Limits().MaxMessageChars, qerr.Limit)
	assert.Equal(t, 0, tr.Status("dev1").UsedRequests)
}

func TestConsumeTokenBudget(t *testing.T) {
	clock := &fixedClock{at: time.Date(2024, 1, 1, 9, 0, 0, 0, time.Local)}
	tr := NewTracker(NewKVStore(kvstore.NewMemory()), Limits{
		DailyMaxRequests: 100,
		DailyMaxTokens:   500,
	})
	tr.now = clock.now

	// Each call costs ~220 expected output tokens plus the input estimate,
	// so the second call overflows a 500 token budget.
	require.NoError(t, tr.Consume("dev1", "hi"))
	clock.advance(2 * time.Minute)

	err := tr.Consume("dev1", "hi")
	var qerr *Error
	require.ErrorAs(t, err, &qerr)
	assert.Equal(t, ReasonQuotaExceeded, qerr.Reason)
}

func TestDayRolloverResetsState(t *testing.T) {
	tr, clock := newTestTracker(t)

	require.NoError(t, tr.Consume("dev1", "hello"))
	assert.Equal(t, 1, tr.Status("dev1").UsedRequests)

	clock.set(clock.at.AddDate(0, 0, 1))
	st := tr.Status("dev1")
	assert.Equal(t, 0, st.UsedRequests)
	assert.Equal(t, 0, st.UsedTokens)
	assert.Equal(t, DayKey(clock.at), st.Day)
	assert.NoError(t, tr.Consume("dev1", "hello"))
}

func TestStatusReportsCooldown(t *testing.T) {
	tr, clock := newTestTracker(t)

	require.NoError(t, tr.Consume("dev1", "hello"))
	clock.advance(15 * time.Second)

	st := tr.Status("dev1")
	assert.Equal(t, 45*time.Second, st.NextAllowedIn)
	assert.Equal(t, tr.Limits().DailyMaxRequests-1, st.RemainingRequests)
}

func TestFileMapStoreKeysAreIndependent(t *testing.T) {
	store, err := NewFileMapStore(filepath.Join(t.TempDir(), "quota.json"))
	require.NoError(t, err)

	clock := &fixedClock{at: time.Date(2024, 1, 1, 9, 0, 0, 0, time.Local)}
	store.now = clock.now
	tr := NewTracker(store, Limits{})
	tr.now = clock.now

	require.NoError(t, tr.Consume("device-a", "hello"))
	assert.Equal(t, 1, tr.Status("device-a").UsedRequests)
	assert.Equal(t, 0, tr.Status("device-b").UsedRequests)
}

func TestFileMapStorePrunesStaleDays(t *testing.T) {
	store, err := NewFileMapStore(filepath.Join(t.TempDir(), "quota.json"))
	require.NoError(t, err)

	yesterday := time.Date(2024, 1, 1, 9, 0, 0, 0, time.Local)
	today := yesterday.AddDate(0, 0, 1)

	store.now = func() time.Time { return yesterday }
	require.NoError(t, store.Save("old-device", State{Day: DayKey(yesterday), RequestCount: 5}))

	store.now = func() time.Time { return today }
	require.NoError(t, store.Save("new-device", State{Day: DayKey(today), RequestCount: 1}))

	_, found, err := store.Load("old-device")
	require.NoError(t, err)
	assert.False(t, found, "stale day entries should be pruned on write")

	st, found, err := store.Load("new-device")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 1, st.RequestCount)
}

func TestFileMapStoreCorruptFileResets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quota.json")
	store, err := NewFileMapStore(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))
	_, found, err := store.Load("dev1")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestErrorAsTarget(t *testing.T) {
	err := error(&Error{Reason: ReasonRateLimited, NextAllowedIn: time.Second})
	var qerr *Error
	assert.True(t, errors.As(err, &qerr))
	assert.Contains(t, err.Error(), "rate_limited")
}
