package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hanseolabs/diaryd/internal/journal"
	"github.com/hanseolabs/diaryd/internal/outbox"
	"github.com/hanseolabs/diaryd/internal/quota"
)

// statusCmd summarizes local state and server reachability
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show quota usage, pending uploads, and server health",
	RunE:  runStatus,
}

// HealthResponse matches internal/server HealthResponse
type HealthResponse struct {
	Status string `json:"status"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	kv, err := openKV()
	if err != nil {
		return fmt.Errorf("failed to open data dir %s: %w", dataDir, err)
	}
	locale, err := resolveLocale(kv)
	if err != nil {
		return err
	}

	deviceID, err := journal.DeviceID(kv)
	if err != nil {
		return err
	}
	entries, err := journal.NewStore(kv, locale).List()
	if err != nil {
		return err
	}

	fmt.Printf("Device:   %s\n", deviceID)
	fmt.Printf("Locale:   %s\n", locale)
	fmt.Printf("Entries:  %d\n", len(entries))

	tracker := quota.NewTracker(quota.NewKVStore(kv), quota.DefaultLimits())
	st := tracker.Status(deviceID)
	fmt.Printf("Mentor:   %d/%d requests today, %d/%d tokens\n",
		st.UsedRequests, st.MaxRequests, st.UsedTokens, st.MaxTokens)
	if st.NextAllowedIn > 0 {
		fmt.Printf("Cooldown: %s remaining\n", st.NextAllowedIn.Round(time.Second))
	}

	client, err := outbox.NewClient(serverURL, syncKey, kv, zap.NewNop())
	if err != nil {
		return err
	}
	pending, err := client.Pending()
	if err != nil {
		return err
	}
	fmt.Printf("Pending:  %d queued upload(s)\n", pending)

	fmt.Printf("Server:   %s (%s)\n", serverURL, serverHealth())
	return nil
}

func serverHealth() string {
	httpClient := &http.Client{Timeout: 5 * time.Second}
	resp, err := httpClient.Get(fmt.Sprintf("%s/health", serverURL))
	if err != nil {
		return "unreachable"
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Sprintf("status %d", resp.StatusCode)
	}
	var health HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return "unreachable"
	}
	return health.Status
}
