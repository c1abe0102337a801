// Package config provides configuration loading for diaryd.
//
// Configuration is read from a YAML file and overridden by environment
// variables. Defaults cover a local single-user setup.
package config

import (
	"fmt"
	"time"

	"github.com/hanseolabs/diaryd/internal/quota"
)

// Config holds the complete diaryd configuration.
type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Logging LoggingConfig `koanf:"logging"`
	Store   StoreConfig   `koanf:"store"`
	Mentor  MentorConfig  `koanf:"mentor"`
	Sync    SyncConfig    `koanf:"sync"`
	Quota   QuotaConfig   `koanf:"quota"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	// SyncSecret gates /sync/* for non-loopback callers when set.
	SyncSecret Secret `koanf:"sync_secret"`
}

// LoggingConfig holds zap logger configuration.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// StoreConfig holds filesystem paths for local and server data.
type StoreConfig struct {
	// DataDir is the client-side key-value store directory.
	DataDir string `koanf:"data_dir"`
	// LogFile is the server-side JSONL log path.
	LogFile string `koanf:"log_file"`
	// QuotaFile is the server-side quota map path.
	QuotaFile string `koanf:"quota_file"`
}

// MentorConfig holds mentor endpoints and the upstream API settings.
type MentorConfig struct {
	// ServerURL is the sync server base the client talks to.
	ServerURL string `koanf:"server_url"`
	// LegacyURL is the optional fallback advice endpoint.
	LegacyURL string `koanf:"legacy_url"`
	// APIKey authenticates the server's upstream completion calls.
	APIKey Secret `koanf:"api_key"`
	// UpstreamBaseURL overrides the completion API host, mainly for tests.
	UpstreamBaseURL string  `koanf:"upstream_base_url"`
	RateRPS         float64 `koanf:"rate_rps"`
	RateBurst       int     `koanf:"rate_burst"`
}

// SyncConfig holds outbox settings.
type SyncConfig struct {
	FlushMax int `koanf:"flush_max"`
}

// QuotaConfig mirrors quota.Limits for file/env overrides.
type QuotaConfig struct {
	DailyMaxRequests     int      `koanf:"daily_max_requests"`
	Cooldown             Duration `koanf:"cooldown"`
	MaxMessageChars      int      `koanf:"max_message_chars"`
	ExpectedOutputTokens int      `koanf:"expected_output_tokens"`
	DailyMaxTokens       int      `koanf:"daily_max_tokens"`
}

// Limits converts the quota section into quota.Limits, filling zero fields
// from the defaults.
func (q QuotaConfig) Limits() quota.Limits {
	limits := quota.DefaultLimits()
	if q.DailyMaxRequests > 0 {
		limits.DailyMaxRequests = q.DailyMaxRequests
	}
	if q.Cooldown.Duration() > 0 {
		limits.Cooldown = q.Cooldown.Duration()
	}
	if q.MaxMessageChars > 0 {
		limits.MaxMessageChars = q.MaxMessageChars
	}
	if q.ExpectedOutputTokens > 0 {
		limits.ExpectedOutputTokens = q.ExpectedOutputTokens
	}
	if q.DailyMaxTokens > 0 {
		limits.DailyMaxTokens = q.DailyMaxTokens
	}
	return limits
}

// Validate checks the configuration for contradictions.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error: %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console: %q", c.Logging.Format)
	}
	if c.Store.DataDir == "" {
		return fmt.Errorf("store.data_dir is required")
	}
	if c.Quota.DailyMaxRequests < 0 || c.Quota.DailyMaxTokens < 0 {
		return fmt.Errorf("quota caps cannot be negative")
	}
	return nil
}
