// Diaryd is the sync and mentor server for the diary client.
//
// It accepts journal log uploads as JSONL, serves reads and per-device
// deletes over the same store, and proxies quota-gated mentor questions to
// the upstream completion API.
//
// Configuration is loaded from an optional YAML file plus environment
// overrides. See internal/config for details.
//
// Usage:
//
//	# Start server with defaults
//	diaryd
//
//	# Configure via environment
//	SERVER_PORT=9090 MENTOR_API_KEY=sk-... diaryd
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/hanseolabs/diaryd/internal/config"
	"github.com/hanseolabs/diaryd/internal/logging"
	"github.com/hanseolabs/diaryd/internal/logstore"
	"github.com/hanseolabs/diaryd/internal/mentor"
	"github.com/hanseolabs/diaryd/internal/quota"
	"github.com/hanseolabs/diaryd/internal/server"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

func main() {
	configPath := flag.String("config", "", "path to config file (YAML)")
	flag.Parse()
	args := flag.Args()

	if len(args) > 0 {
		switch args[0] {
		case "version":
			printVersion()
			os.Exit(0)
		default:
			fmt.Fprintf(os.Stderr, "Unknown command: %s\n", args[0])
			fmt.Fprintf(os.Stderr, "\nUsage:\n")
			fmt.Fprintf(os.Stderr, "  diaryd           Start the sync server\n")
			fmt.Fprintf(os.Stderr, "  diaryd version   Show version information\n")
			os.Exit(1)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		log.Printf("Received signal %v, shutting down gracefully...", sig)
		cancel()
	}()

	if err := run(ctx, *configPath); err != nil {
		log.Fatalf("Server error: %v", err)
	}

	log.Println("Server shutdown complete")
}

func printVersion() {
	fmt.Printf("diaryd\n")
	fmt.Printf("Version:    %s\n", version)
	fmt.Printf("Commit:     %s\n", gitCommit)
	fmt.Printf("Build Date: %s\n", buildDate)
}

// run starts the server and blocks until the context is cancelled.
//
// Initialization order:
//  1. Load and validate configuration
//  2. Initialize the logger
//  3. Open the JSONL log store and quota tracker
//  4. Create the upstream completion client
//  5. Start the HTTP server and wait for shutdown
func run(ctx context.Context, configPath string) error {
	cfg, err := config.LoadWithFile(configPath)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logging.Sync(logger)
	}()

	logger.Info("Starting diaryd",
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port),
		zap.Duration("shutdown_timeout", cfg.Server.ShutdownTimeout))

	logs := logstore.New(cfg.Store.LogFile, logger)

	quotaStore, err := quota.NewFileMapStore(cfg.Store.QuotaFile)
	if err != nil {
		return fmt.Errorf("failed to open quota store: %w", err)
	}
	tracker := quota.NewTracker(quotaStore, cfg.Quota.Limits())

	upstream := mentor.NewUpstream(
		cfg.Mentor.APIKey.Value(),
		cfg.Mentor.UpstreamBaseURL,
		cfg.Mentor.RateRPS,
		cfg.Mentor.RateBurst,
	)
	if !upstream.Configured() {
		logger.Warn("OPENAI_API_KEY missing, mentor endpoint will refuse requests")
	}

	srv, err := server.NewServer(logger, &server.Config{
		Host:       cfg.Server.Host,
		Port:       cfg.Server.Port,
		SyncSecret: cfg.Server.SyncSecret.Value(),
	}, logs, tracker, upstream)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	logger.Info("Server configured",
		zap.String("health_endpoint", fmt.Sprintf("http://%s:%d/health", cfg.Server.Host, cfg.Server.Port)),
		zap.String("sync_prefix", "/sync"),
		zap.String("metrics_endpoint", "/metrics"),
		zap.Bool("sync_auth", cfg.Server.SyncSecret.Value() != ""))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}
