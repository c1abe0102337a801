package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hanseolabs/diaryd/internal/emotion"
	"github.com/hanseolabs/diaryd/internal/journal"
	"github.com/hanseolabs/diaryd/internal/outbox"
)

// writeCmd saves a journal entry and uploads it best-effort
var writeCmd = &cobra.Command{
	Use:   "write [text]",
	Short: "Save a journal entry",
	Long: `Save a journal entry. The entry is classified into one of four emotion
labels and queued for upload to the sync server.

Examples:
  # Write directly
  diary write "오늘은 야근 때문에 너무 피곤하다"

  # Write from stdin
  cat note.txt | diary write -`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWrite,
}

// listCmd prints saved entries, newest first
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved journal entries",
	RunE:  runList,
}

var listLimit int

func init() {
	listCmd.Flags().IntVar(&listLimit, "limit", 20, "maximum entries to print (0 for all)")
}

func runWrite(cmd *cobra.Command, args []string) error {
	var text string
	if len(args) == 0 || args[0] == "-" {
		raw, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read from stdin: %w", err)
		}
		text = string(raw)
	} else {
		text = args[0]
	}

	kv, err := openKV()
	if err != nil {
		return fmt.Errorf("failed to open data dir %s: %w", dataDir, err)
	}
	locale, err := resolveLocale(kv)
	if err != nil {
		return err
	}

	store := journal.NewStore(kv, locale)
	entry, err := store.Add(text)
	if err != nil {
		return err
	}

	fmt.Printf("Saved %s\n", entry.ID)
	fmt.Printf("Emotion: %s\n", emotion.DisplayName(entry.Emotion, locale))
	if entry.EmotionSummary != "" {
		fmt.Println(entry.EmotionSummary)
	}

	// Upload is best effort: failures queue the entry for the next sync.
	client, err := outbox.NewClient(serverURL, syncKey, kv, zap.NewNop())
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), 20*time.Second)
	defer cancel()
	outcome, err := client.Send(ctx, entry)
	if err != nil {
		return fmt.Errorf("failed to queue entry for sync: %w", err)
	}
	if outcome == outbox.OutcomeQueued {
		fmt.Fprintln(os.Stderr, "[diary] Upload failed, entry queued for the next sync")
	}
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	kv, err := openKV()
	if err != nil {
		return fmt.Errorf("failed to open data dir %s: %w", dataDir, err)
	}
	locale, err := resolveLocale(kv)
	if err != nil {
		return err
	}

	entries, err := journal.NewStore(kv, locale).List()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No entries yet.")
		return nil
	}
	if listLimit > 0 && len(entries) > listLimit {
		entries = entries[:listLimit]
	}

	for _, e := range entries {
		line := firstLine(e.Content)
		fmt.Printf("%s  %-10s  %s\n",
			e.CreatedAt.Local().Format("2006-01-02 15:04"),
			emotion.DisplayName(e.Emotion, locale),
			line)
	}
	return nil
}

func firstLine(content string) string {
	for _, line := range strings.Split(content, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
