// Package outbox ships journal entries to the sync server on a best-effort
// basis. Entries that cannot be delivered are queued locally and retried on
// the next flush, so the local journal never blocks on the network.
package outbox

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hanseolabs/diaryd/internal/journal"
	"github.com/hanseolabs/diaryd/internal/kvstore"
)

// Outcome reports how Send disposed of an entry.
type Outcome string

const (
	// OutcomeSent means the server accepted the entry.
	OutcomeSent Outcome = "sent"
	// OutcomeQueued means delivery failed and the entry waits in the queue.
	OutcomeQueued Outcome = "queued"
)

const (
	queueCap        = 2000
	defaultFlushMax = 30
	maxFlushMax     = 200
	requestTimeout  = 15 * time.Second
)

// Client uploads entries to the sync server and manages the retry queue.
type Client struct {
	base     string
	syncKey  string
	deviceID string
	kv       kvstore.Store
	http     *http.Client
	logger   *zap.Logger

	mu sync.Mutex
}

// NewClient builds a client for the given server base URL. The device ID is
// read from (or created in) the store so queue and uploads share one identity.
func NewClient(base, syncKey string, kv kvstore.Store, logger *zap.Logger) (*Client, error) {
	if base == "" {
		return nil, fmt.Errorf("outbox: server base URL is required")
	}
	deviceID, err := journal.DeviceID(kv)
	if err != nil {
		return nil, fmt.Errorf("outbox: device id: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		base:     strings.TrimRight(base, "/"),
		syncKey:  syncKey,
		deviceID: deviceID,
		kv:       kv,
		http:     &http.Client{Timeout: requestTimeout},
		logger:   logger,
	}, nil
}

// DeviceID returns the identity attached to every upload.
func (c *Client) DeviceID() string { return c.deviceID }

// Send uploads one entry. On any delivery failure the entry is queued and
// OutcomeQueued is returned; the error return is reserved for local storage
// failures.
func (c *Client) Send(ctx context.Context, entry journal.Entry) (Outcome, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	if err := c.sendOne(ctx, entry); err != nil {
		c.logger.Debug("sync upload failed, queueing entry",
			zap.String("entry_id", entry.ID),
			zap.Error(err))
		if qerr := c.enqueue(entry); qerr != nil {
			return OutcomeQueued, qerr
		}
		return OutcomeQueued, nil
	}
	return OutcomeSent, nil
}

// Flush retries queued entries head-to-tail (the queue keeps newest first).
// It stops at the first failure and keeps everything that was not delivered.
// Each upload is bounded by the HTTP client timeout; the overall run is
// bounded only by ctx. max caps deliveries per call; zero means the default
// of 30.
func (c *Client) Flush(ctx context.Context, max int) (sent, pending int, err error) {
	if max <= 0 {
		max = defaultFlushMax
	}
	if max > maxFlushMax {
		max = maxFlushMax
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	queue, err := c.loadQueue()
	if err != nil {
		return 0, 0, err
	}
	if len(queue) == 0 {
		return 0, 0, nil
	}

	var next []journal.Entry
	for i, item := range queue {
		if sent >= max {
			next = append(next, item)
			continue
		}
		if serr := c.sendOne(ctx, item); serr != nil {
			c.logger.Debug("flush stopped", zap.String("entry_id", item.ID), zap.Error(serr))
			next = append(next, queue[i:]...)
			break
		}
		sent++
	}

	if len(next) != len(queue) {
		if err := c.saveQueue(next); err != nil {
			return sent, len(next), err
		}
	}
	return sent, len(next), nil
}

// Pending returns the number of entries waiting for delivery.
func (c *Client) Pending() (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	queue, err := c.loadQueue()
	if err != nil {
		return 0, err
	}
	return len(queue), nil
}

type uploadPayload struct {
	DeviceID string        `json:"deviceId"`
	Log      journal.Entry `json:"log"`
}

func (c *Client) sendOne(ctx context.Context, entry journal.Entry) error {
	body, err := json.Marshal(uploadPayload{DeviceID: c.deviceID, Log: entry})
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/sync/logs", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-device-id", c.deviceID)
	if c.syncKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.syncKey)
		req.Header.Set("x-sync-key", c.syncKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("sync request failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("sync http %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) enqueue(entry journal.Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	queue, err := c.loadQueue()
	if err != nil {
		return err
	}
	for _, item := range queue {
		if item.ID == entry.ID {
			return nil
		}
	}
	queue = append([]journal.Entry{entry}, queue...)
	if len(queue) > queueCap {
		queue = queue[:queueCap]
	}
	return c.saveQueue(queue)
}

func (c *Client) loadQueue() ([]journal.Entry, error) {
	var queue []journal.Entry
	found, err := c.kv.Get(kvstore.KeyPendingSync, &queue)
	if err != nil {
		return nil, fmt.Errorf("outbox: load queue: %w", err)
	}
	if !found {
		return nil, nil
	}
	return queue, nil
}

func (c *Client) saveQueue(queue []journal.Entry) error {
	if err := c.kv.Set(kvstore.KeyPendingSync, queue); err != nil {
		return fmt.Errorf("outbox: save queue: %w", err)
	}
	return nil
}
