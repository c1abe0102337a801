package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hanseolabs/diaryd/internal/outbox"
)

// syncCmd drains the pending upload queue
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Upload queued entries to the server",
	Long: `Upload queued journal entries to the diaryd server. Delivery stops at the
first failure and the rest of the queue is kept for the next run.

Examples:
  diary sync
  diary sync --max 100 --server http://diary.example.com:8787`,
	RunE: runSync,
}

var syncMax int

func init() {
	syncCmd.Flags().IntVar(&syncMax, "max", 30, "maximum entries to upload per run")
}

func runSync(cmd *cobra.Command, args []string) error {
	kv, err := openKV()
	if err != nil {
		return fmt.Errorf("failed to open data dir %s: %w", dataDir, err)
	}

	client, err := outbox.NewClient(serverURL, syncKey, kv, zap.NewNop())
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
	defer cancel()

	sent, pending, err := client.Flush(ctx, syncMax)
	if err != nil {
		return fmt.Errorf("sync failed after %d upload(s): %w", sent, err)
	}
	fmt.Printf("Uploaded %d entries, %d pending\n", sent, pending)
	return nil
}
