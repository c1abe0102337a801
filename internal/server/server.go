// Package server exposes the sync and mentor HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/hanseolabs/diaryd/internal/journal"
	"github.com/hanseolabs/diaryd/internal/logstore"
	"github.com/hanseolabs/diaryd/internal/mentor"
	"github.com/hanseolabs/diaryd/internal/quota"
)

// Completer is the upstream AI surface the mentor handler needs. Satisfied by
// *mentor.Upstream; tests substitute a stub.
type Completer interface {
	Complete(ctx context.Context, question string, maxOut int) (string, error)
	Configured() bool
}

// Config holds HTTP server configuration.
type Config struct {
	Host string
	Port int
	// SyncSecret, when set, is required from non-loopback callers of /sync/*.
	SyncSecret string
}

// Server wires the log store, server-side quota, and upstream proxy behind
// the HTTP API.
type Server struct {
	echo      *echo.Echo
	logger    *zap.Logger
	config    *Config
	logs      *logstore.Store
	quota     *quota.Tracker
	completer Completer
}

// NewServer creates the HTTP server with all routes registered.
func NewServer(logger *zap.Logger, cfg *Config, logs *logstore.Store, tracker *quota.Tracker, completer Completer) (*Server, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if logs == nil {
		return nil, fmt.Errorf("log store is required")
	}
	if tracker == nil {
		return nil, fmt.Errorf("quota tracker is required")
	}
	if completer == nil {
		return nil, fmt.Errorf("completer is required")
	}
	if cfg == nil {
		cfg = &Config{Host: "localhost", Port: 8787}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(metricsMiddleware())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)
			return err
		}
	})

	s := &Server{
		echo:      e,
		logger:    logger,
		config:    cfg,
		logs:      logs,
		quota:     tracker,
		completer: completer,
	}
	s.registerRoutes()
	return s, nil
}

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	sync := s.echo.Group("/sync", s.syncAuthMiddleware())
	sync.POST("/logs", s.handleAppendLog)
	sync.GET("/logs", s.handleReadLogs)
	sync.DELETE("/logs", s.handleDeleteLogs)
	sync.POST("/mentor/advise-gpt", s.handleMentorAdvise)
}

// syncAuthMiddleware enforces the shared secret for non-loopback callers.
// Loopback traffic and servers without a configured secret pass through.
func (s *Server) syncAuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			secret := s.config.SyncSecret
			if secret == "" || isLoopback(c.RealIP()) {
				return next(c)
			}

			auth := c.Request().Header.Get("Authorization")
			if strings.HasPrefix(auth, "Bearer ") && strings.TrimPrefix(auth, "Bearer ") == secret {
				return next(c)
			}
			if c.Request().Header.Get("x-sync-key") == secret {
				return next(c)
			}

			s.logger.Warn("rejected unauthenticated sync request",
				zap.String("ip", c.RealIP()),
				zap.String("uri", c.Request().RequestURI))
			return c.JSON(http.StatusUnauthorized, errorBody{OK: false, Message: "unauthorized"})
		}
	}
}

func isLoopback(ip string) bool {
	parsed := net.ParseIP(ip)
	return parsed != nil && parsed.IsLoopback()
}

type errorBody struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// AppendLogRequest is the request body for POST /sync/logs.
type AppendLogRequest struct {
	DeviceID string        `json:"deviceId"`
	Log      journal.Entry `json:"log"`
}

func (s *Server) handleAppendLog(c echo.Context) error {
	var req AppendLogRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{OK: false, Message: "invalid body"})
	}

	deviceID := strings.TrimSpace(req.DeviceID)
	switch {
	case deviceID == "":
		return c.JSON(http.StatusBadRequest, errorBody{OK: false, Message: "deviceId required"})
	case req.Log.ID == "":
		return c.JSON(http.StatusBadRequest, errorBody{OK: false, Message: "log.id required"})
	case req.Log.CreatedAt.IsZero():
		return c.JSON(http.StatusBadRequest, errorBody{OK: false, Message: "log.createdAtISO required"})
	case strings.TrimSpace(req.Log.Content) == "":
		return c.JSON(http.StatusBadRequest, errorBody{OK: false, Message: "log.content required"})
	}

	if _, err := s.logs.Append(deviceID, req.Log, c.Request().UserAgent()); err != nil {
		s.logger.Error("append failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, errorBody{OK: false, Message: "server_error"})
	}
	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}

// QueryLogsResponse is the response body for GET /sync/logs with a deviceId.
type QueryLogsResponse struct {
	OK   bool            `json:"ok"`
	Logs []journal.Entry `json:"logs"`
}

// TailLogsResponse is the debug response for GET /sync/logs without deviceId.
type TailLogsResponse struct {
	OK    bool          `json:"ok"`
	Count int           `json:"count"`
	Tail  []interface{} `json:"tail"`
}

func (s *Server) handleReadLogs(c echo.Context) error {
	deviceID := strings.TrimSpace(c.QueryParam("deviceId"))

	if deviceID != "" {
		limit, _ := strconv.Atoi(c.QueryParam("limit"))
		var start, end *time.Time
		if a, errA := time.Parse(time.RFC3339, c.QueryParam("startISO")); errA == nil {
			if b, errB := time.Parse(time.RFC3339, c.QueryParam("endISO")); errB == nil {
				start, end = &a, &b
			}
		}

		logs, err := s.logs.Query(deviceID, start, end, limit)
		if err != nil {
			s.logger.Error("query failed", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, errorBody{OK: false, Message: "server_error"})
		}
		if logs == nil {
			logs = []journal.Entry{}
		}
		return c.JSON(http.StatusOK, QueryLogsResponse{OK: true, Logs: logs})
	}

	n, _ := strconv.Atoi(c.QueryParam("n"))
	count, rows, err := s.logs.Tail(n)
	if err != nil {
		s.logger.Error("tail failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, errorBody{OK: false, Message: "server_error"})
	}
	tail := make([]interface{}, 0, len(rows))
	for _, row := range rows {
		tail = append(tail, row)
	}
	return c.JSON(http.StatusOK, TailLogsResponse{OK: true, Count: count, Tail: tail})
}

// DeleteLogsRequest is the request body for DELETE /sync/logs.
type DeleteLogsRequest struct {
	DeviceID string `json:"deviceId"`
}

// DeleteLogsResponse reports how the deletion went.
type DeleteLogsResponse struct {
	OK        bool `json:"ok"`
	Deleted   int  `json:"deleted"`
	Remaining int  `json:"remaining"`
}

func (s *Server) handleDeleteLogs(c echo.Context) error {
	var req DeleteLogsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{OK: false, Message: "invalid body"})
	}
	deviceID := strings.TrimSpace(req.DeviceID)
	if deviceID == "" {
		return c.JSON(http.StatusBadRequest, errorBody{OK: false, Message: "deviceId required"})
	}

	deleted, remaining, err := s.logs.Delete(deviceID)
	if err != nil {
		s.logger.Error("delete failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, errorBody{OK: false, Message: "server_error"})
	}
	return c.JSON(http.StatusOK, DeleteLogsResponse{OK: true, Deleted: deleted, Remaining: remaining})
}

// AdviseRequest is the request body for POST /sync/mentor/advise-gpt.
type AdviseRequest struct {
	Question        string `json:"question"`
	MaxOutputTokens int    `json:"max_output_tokens"`
	DeviceID        string `json:"deviceId"`
}

// AdviseResponse carries a successful mentor reply.
type AdviseResponse struct {
	OK    bool   `json:"ok"`
	Reply string `json:"reply"`
}

func (s *Server) handleMentorAdvise(c echo.Context) error {
	if !s.completer.Configured() {
		return c.JSON(http.StatusInternalServerError, errorBody{OK: false, Message: "OPENAI_API_KEY missing"})
	}

	var req AdviseRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{OK: false, Message: "invalid body"})
	}
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return c.JSON(http.StatusBadRequest, errorBody{OK: false, Message: "question required"})
	}

	quotaKey := s.quotaKey(c, req.DeviceID)
	if err := s.quota.Consume(quotaKey, question); err != nil {
		var qerr *quota.Error
		if errors.As(err, &qerr) {
			QuotaRejections.WithLabelValues(string(qerr.Reason)).Inc()
			s.logger.Info("mentor request rejected by quota",
				zap.String("key", quotaKey),
				zap.String("reason", string(qerr.Reason)))
			return c.JSON(http.StatusTooManyRequests, errorBody{OK: false, Message: string(qerr.Reason)})
		}
		s.logger.Error("quota check failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, errorBody{OK: false, Message: "server_error"})
	}

	reply, err := s.completer.Complete(c.Request().Context(), question, req.MaxOutputTokens)
	if err != nil {
		var uerr *mentor.UpstreamError
		switch {
		case errors.Is(err, mentor.ErrNoAPIKey):
			return c.JSON(http.StatusInternalServerError, errorBody{OK: false, Message: "OPENAI_API_KEY missing"})
		case errors.As(err, &uerr):
			return c.JSON(http.StatusBadGateway, errorBody{
				OK:      false,
				Message: fmt.Sprintf("openai_http_%d", uerr.Status),
				Detail:  uerr.Detail,
			})
		case errors.Is(err, mentor.ErrEmptyReply):
			return c.JSON(http.StatusBadGateway, errorBody{OK: false, Message: "empty_reply"})
		default:
			s.logger.Error("upstream call failed", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, errorBody{OK: false, Message: "server_error"})
		}
	}
	return c.JSON(http.StatusOK, AdviseResponse{OK: true, Reply: reply})
}

// quotaKey picks the server-side quota identity: the device header, then the
// request body, then the client IP.
func (s *Server) quotaKey(c echo.Context, bodyDeviceID string) string {
	if id := strings.TrimSpace(c.Request().Header.Get("x-device-id")); id != "" {
		return id
	}
	if id := strings.TrimSpace(bodyDeviceID); id != "" {
		return id
	}
	return c.RealIP()
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info("starting http server", zap.String("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}

// Handler exposes the root handler for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}
