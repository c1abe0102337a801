// Package quota enforces the daily mentor-call budget: a per-day request
// count, an estimated token budget, a cooldown between calls, and a message
// length cap.
//
// The same Tracker runs on both sides of the wire: the client keys it by its
// own device id over local key-value storage, the server keys it by device id
// or client IP over a JSON map file. The two ledgers are independent defense
// layers and are never reconciled.
package quota

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

// Reason is the machine-readable rejection code. It drives both control flow
// and the localized framing message shown to the user; the strings never
// change independently of each other.
type Reason string

const (
	ReasonMessageTooLong Reason = "message_too_long"
	ReasonRateLimited    Reason = "rate_limited"
	ReasonQuotaExceeded  Reason = "quota_exceeded"
)

// Error is a typed quota rejection. Callers branch on Reason, never on the
// message text.
type Error struct {
	Reason        Reason
	Limit         int
	Used          int
	NextAllowedIn time.Duration
}

func (e *Error) Error() string {
	switch e.Reason {
	case ReasonRateLimited:
		return fmt.Sprintf("quota: %s (retry in %s)", e.Reason, e.NextAllowedIn)
	default:
		return fmt.Sprintf("quota: %s (limit %d, used %d)", e.Reason, e.Limit, e.Used)
	}
}

// Limits holds the budget policy. The defaults are the product requirements:
// five questions a day, a sixty second cooldown, and a conservative token
// budget assuming the server caps output tokens.
type Limits struct {
	DailyMaxRequests     int
	Cooldown             time.Duration
	MaxMessageChars      int
	ExpectedOutputTokens int
	DailyMaxTokens       int
}

// DefaultLimits returns the production policy.
func DefaultLimits() Limits {
	return Limits{
		DailyMaxRequests:     5,
		Cooldown:             60 * time.Second,
		MaxMessageChars:      1200,
		ExpectedOutputTokens: 220,
		DailyMaxTokens:       9000,
	}
}

// State is one day's consumption ledger for one key.
type State struct {
	Day          string    `json:"day"`
	RequestCount int       `json:"request_count"`
	TokenCount   int       `json:"token_count"`
	LastCallAt   time.Time `json:"last_call_at,omitempty"`
}

// Status is a read-only view of the current budget for one key.
type Status struct {
	Day               string
	UsedRequests      int
	MaxRequests       int
	RemainingRequests int
	NextAllowedIn     time.Duration
	UsedTokens        int
	MaxTokens         int
}

// Store persists State per key.
type Store interface {
	Load(key string) (State, bool, error)
	Save(key string, st State) error
}

// Tracker applies Limits over a Store.
//
// The read-modify-write in Consume is serialized within the process but not
// across processes sharing a store; two processes can race past the caps.
// Acceptable at the request volumes the quota itself enforces.
type Tracker struct {
	limits Limits
	store  Store
	now    func() time.Time
	mu     sync.Mutex
}

// NewTracker creates a tracker. Zero-valued limits fields are filled from
// DefaultLimits.
func NewTracker(store Store, limits Limits) *Tracker {
	def := DefaultLimits()
	if limits.DailyMaxRequests <= 0 {
		limits.DailyMaxRequests = def.DailyMaxRequests
	}
	if limits.Cooldown <= 0 {
		limits.Cooldown = def.Cooldown
	}
	if limits.MaxMessageChars <= 0 {
		limits.MaxMessageChars = def.MaxMessageChars
	}
	if limits.ExpectedOutputTokens <= 0 {
		limits.ExpectedOutputTokens = def.ExpectedOutputTokens
	}
	if limits.DailyMaxTokens <= 0 {
		limits.DailyMaxTokens = def.DailyMaxTokens
	}
	return &Tracker{
		limits: limits,
		store:  store,
		now:    time.Now,
	}
}

// Limits returns the active policy.
func (t *Tracker) Limits() Limits { return t.limits }

// DayKey formats a calendar date key (local time).
func DayKey(at time.Time) string { return at.Format("2006-01-02") }

// EstimateTokens approximates token cost from character length. The 3.5
// divisor leaves headroom for Korean text, which tokenizes heavier than the
// usual 4-chars-per-token English rule of thumb.
func EstimateTokens(text string) int {
	return int(math.Ceil(float64(utf8.RuneCountInString(text)) / 3.5))
}

// load returns the state for key, resetting to a fresh zero state when the
// stored day no longer matches today. Store failures degrade to a fresh
// state rather than surfacing an error.
func (t *Tracker) load(key, today string) State {
	st, found, err := t.store.Load(key)
	if err != nil || !found || st.Day != today {
		return State{Day: today}
	}
	return st
}

// Status reports the current budget for key without consuming anything.
func (t *Tracker) Status(key string) Status {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	st := t.load(key, DayKey(now))

	var next time.Duration
	if !st.LastCallAt.IsZero() {
		if since := now.Sub(st.LastCallAt); since < t.limits.Cooldown {
			next = t.limits.Cooldown - since
		}
	}

	remaining := t.limits.DailyMaxRequests - st.RequestCount
	if remaining < 0 {
		remaining = 0
	}

	return Status{
		Day:               st.Day,
		UsedRequests:      st.RequestCount,
		MaxRequests:       t.limits.DailyMaxRequests,
		RemainingRequests: remaining,
		NextAllowedIn:     next,
		UsedTokens:        st.TokenCount,
		MaxTokens:         t.limits.DailyMaxTokens,
	}
}

// Consume reserves budget for one mentor call. The reservation happens
// before the remote call is made; a failed call still spends its budget.
// Rejections leave the stored state untouched.
func (t *Tracker) Consume(key, message string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	msg := strings.TrimSpace(message)
	msgLen := utf8.RuneCountInString(msg)
	if msgLen > t.limits.MaxMessageChars {
		return &Error{
			Reason: ReasonMessageTooLong,
			Limit:  t.limits.MaxMessageChars,
			Used:   msgLen,
		}
	}

	now := t.now()
	today := DayKey(now)
	st := t.load(key, today)

	if !st.LastCallAt.IsZero() {
		if since := now.Sub(st.LastCallAt); since < t.limits.Cooldown {
			return &Error{
				Reason:        ReasonRateLimited,
				Limit:         int(t.limits.Cooldown / time.Millisecond),
				Used:          int(since / time.Millisecond),
				NextAllowedIn: t.limits.Cooldown - since,
			}
		}
	}

	cost := EstimateTokens(msg) + t.limits.ExpectedOutputTokens
	if st.RequestCount+1 > t.limits.DailyMaxRequests || st.TokenCount+cost > t.limits.DailyMaxTokens {
		return &Error{
			Reason: ReasonQuotaExceeded,
			Limit:  t.limits.DailyMaxTokens,
			Used:   st.TokenCount,
		}
	}

	st.Day = today
	st.RequestCount++
	st.TokenCount += cost
	st.LastCallAt = now

	if err := t.store.Save(key, st); err != nil {
		return fmt.Errorf("failed to persist quota state: %w", err)
	}
	return nil
}
