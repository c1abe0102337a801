package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/hanseolabs/diaryd/internal/journal"
	"github.com/hanseolabs/diaryd/internal/logstore"
	"github.com/hanseolabs/diaryd/internal/mentor"
	"github.com/hanseolabs/diaryd/internal/quota"
)

type stubCompleter struct {
	reply      string
	err        error
	configured bool
	questions  []string
}

func (s *stubCompleter) Complete(_ context.Context, question string, _ int) (string, error) {
	s.questions = append(s.questions, question)
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func (s *stubCompleter) Configured() bool { return s.configured }

func newTestServer(t *testing.T, cfg *Config, completer Completer) *Server {
	dir := t.TempDir()
	logs := logstore.New(filepath.Join(dir, "logs.jsonl"), zaptest.NewLogger(t))
	store, err := quota.NewFileMapStore(filepath.Join(dir, "quota.json"))
	require.NoError(t, err)
	tracker := quota.NewTracker(store, quota.DefaultLimits())
	if completer == nil {
		completer = &stubCompleter{reply: "advice", configured: true}
	}
	srv, err := NewServer(zaptest.NewLogger(t), cfg, logs, tracker, completer)
	require.NoError(t, err)
	return srv
}

func doJSON(t *testing.T, srv *Server, method, target string, body any, headers map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func validLog() journal.Entry {
	return journal.Entry{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Content:   "오늘의 일기",
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, nil, nil)
	rec := doJSON(t, srv, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, nil, nil)
	rec := doJSON(t, srv, http.MethodGet, "/metrics", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "diaryd_http_requests_total")
}

func TestAppendLogValidation(t *testing.T) {
	srv := newTestServer(t, nil, nil)

	cases := []struct {
		name string
		body AppendLogRequest
		want string
	}{
		{"missing device", AppendLogRequest{Log: validLog()}, "deviceId required"},
		{"missing id", AppendLogRequest{DeviceID: "d", Log: journal.Entry{CreatedAt: time.Now(), Content: "x"}}, "log.id required"},
		{"missing created at", AppendLogRequest{DeviceID: "d", Log: journal.Entry{ID: "1", Content: "x"}}, "log.createdAtISO required"},
		{"blank content", AppendLogRequest{DeviceID: "d", Log: journal.Entry{ID: "1", CreatedAt: time.Now(), Content: "   "}}, "log.content required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(t, srv, http.MethodPost, "/sync/logs", tc.body, nil)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.want)
		})
	}
}

func TestAppendThenQuery(t *testing.T) {
	srv := newTestServer(t, nil, nil)

	for i := 0; i < 3; i++ {
		entry := validLog()
		entry.Content = fmt.Sprintf("entry %d", i)
		entry.CreatedAt = time.Date(2025, 3, 1, i, 0, 0, 0, time.UTC)
		rec := doJSON(t, srv, http.MethodPost, "/sync/logs", AppendLogRequest{DeviceID: "dev-1", Log: entry}, nil)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := doJSON(t, srv, http.MethodGet, "/sync/logs?deviceId=dev-1", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp QueryLogsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.OK)
	require.Len(t, resp.Logs, 3)
	assert.Equal(t, "entry 2", resp.Logs[0].Content)

	// Unknown device gets an empty array, not null.
	rec = doJSON(t, srv, http.MethodGet, "/sync/logs?deviceId=nobody", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"logs":[]`)
}

func TestQueryWithRange(t *testing.T) {
	srv := newTestServer(t, nil, nil)
	for d := 1; d <= 5; d++ {
		entry := validLog()
		entry.CreatedAt = time.Date(2025, 3, d, 12, 0, 0, 0, time.UTC)
		entry.Content = fmt.Sprintf("day %d", d)
		rec := doJSON(t, srv, http.MethodPost, "/sync/logs", AppendLogRequest{DeviceID: "dev", Log: entry}, nil)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	target := "/sync/logs?deviceId=dev&startISO=2025-03-02T00:00:00Z&endISO=2025-03-04T23:59:59Z"
	rec := doJSON(t, srv, http.MethodGet, target, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp QueryLogsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Logs, 3)
	assert.Equal(t, "day 4", resp.Logs[0].Content)
}

func TestTailMode(t *testing.T) {
	srv := newTestServer(t, nil, nil)
	for i := 0; i < 4; i++ {
		rec := doJSON(t, srv, http.MethodPost, "/sync/logs", AppendLogRequest{DeviceID: "dev", Log: validLog()}, nil)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := doJSON(t, srv, http.MethodGet, "/sync/logs?n=2", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp TailLogsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.OK)
	assert.Equal(t, 4, resp.Count)
	assert.Len(t, resp.Tail, 2)
}

func TestDeleteLogs(t *testing.T) {
	srv := newTestServer(t, nil, nil)
	for i := 0; i < 3; i++ {
		rec := doJSON(t, srv, http.MethodPost, "/sync/logs", AppendLogRequest{DeviceID: "dev-a", Log: validLog()}, nil)
		require.Equal(t, http.StatusOK, rec.Code)
	}
	rec := doJSON(t, srv, http.MethodPost, "/sync/logs", AppendLogRequest{DeviceID: "dev-b", Log: validLog()}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodDelete, "/sync/logs", DeleteLogsRequest{DeviceID: "dev-a"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp DeleteLogsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.OK)
	assert.Equal(t, 3, resp.Deleted)
	assert.Equal(t, 1, resp.Remaining)

	rec = doJSON(t, srv, http.MethodDelete, "/sync/logs", DeleteLogsRequest{}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMentorAdvise(t *testing.T) {
	stub := &stubCompleter{reply: "try a short walk", configured: true}
	srv := newTestServer(t, nil, stub)

	rec := doJSON(t, srv, http.MethodPost, "/sync/mentor/advise-gpt",
		AdviseRequest{Question: "how do I rest well"}, map[string]string{"x-device-id": "dev-1"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp AdviseResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.OK)
	assert.Equal(t, "try a short walk", resp.Reply)
	require.Len(t, stub.questions, 1)
	assert.Equal(t, "how do I rest well", stub.questions[0])
}

func TestMentorAdviseValidation(t *testing.T) {
	srv := newTestServer(t, nil, &stubCompleter{configured: true})
	rec := doJSON(t, srv, http.MethodPost, "/sync/mentor/advise-gpt", AdviseRequest{Question: "   "}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "question required")
}

func TestMentorAdviseUnconfiguredKey(t *testing.T) {
	srv := newTestServer(t, nil, &stubCompleter{configured: false})
	rec := doJSON(t, srv, http.MethodPost, "/sync/mentor/advise-gpt", AdviseRequest{Question: "hi"}, nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "OPENAI_API_KEY missing")
}

func TestMentorAdviseQuotaExhaustion(t *testing.T) {
	stub := &stubCompleter{reply: "ok", configured: true}
	srv := newTestServer(t, nil, stub)
	headers := map[string]string{"x-device-id": "dev-1"}

	// The cooldown rejects rapid-fire requests before the daily cap does.
	rec := doJSON(t, srv, http.MethodPost, "/sync/mentor/advise-gpt", AdviseRequest{Question: "q"}, headers)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodPost, "/sync/mentor/advise-gpt", AdviseRequest{Question: "q"}, headers)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), string(quota.ReasonRateLimited))

	// A different device is unaffected.
	rec = doJSON(t, srv, http.MethodPost, "/sync/mentor/advise-gpt", AdviseRequest{Question: "q"},
		map[string]string{"x-device-id": "dev-2"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMentorAdviseMessageTooLong(t *testing.T) {
	srv := newTestServer(t, nil, &stubCompleter{reply: "ok", configured: true})
	long := strings.Repeat("가", 1300)
	rec := doJSON(t, srv, http.MethodPost, "/sync/mentor/advise-gpt", AdviseRequest{Question: long},
		map[string]string{"x-device-id": "dev-1"})
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), string(quota.ReasonMessageTooLong))
}

func TestMentorAdviseUpstreamFailures(t *testing.T) {
	srv := newTestServer(t, nil, &stubCompleter{configured: true, err: &mentor.UpstreamError{Status: 500, Detail: "boom"}})
	rec := doJSON(t, srv, http.MethodPost, "/sync/mentor/advise-gpt", AdviseRequest{Question: "q"},
		map[string]string{"x-device-id": "dev-1"})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "openai_http_500")

	srv = newTestServer(t, nil, &stubCompleter{configured: true, err: mentor.ErrEmptyReply})
	rec = doJSON(t, srv, http.MethodPost, "/sync/mentor/advise-gpt", AdviseRequest{Question: "q"},
		map[string]string{"x-device-id": "dev-1"})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "empty_reply")
}

func TestSyncAuth(t *testing.T) {
	srv := newTestServer(t, &Config{Host: "localhost", Port: 0, SyncSecret: "s3cret"}, nil)
	body := AppendLogRequest{DeviceID: "dev", Log: validLog()}

	// httptest requests come from 192.0.2.1, which is not loopback.
	rec := doJSON(t, srv, http.MethodPost, "/sync/logs", body, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, srv, http.MethodPost, "/sync/logs", body, map[string]string{"Authorization": "Bearer s3cret"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodPost, "/sync/logs", body, map[string]string{"x-sync-key": "s3cret"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodPost, "/sync/logs", body, map[string]string{"Authorization": "Bearer wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Health and metrics stay open.
	rec = doJSON(t, srv, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSyncAuthDisabledWithoutSecret(t *testing.T) {
	srv := newTestServer(t, nil, nil)
	rec := doJSON(t, srv, http.MethodPost, "/sync/logs", AppendLogRequest{DeviceID: "dev", Log: validLog()}, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
