package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/hanseolabs/diaryd/internal/emotion"
	"github.com/hanseolabs/diaryd/internal/journal"
)

// serverLogsCmd reads or deletes this device's logs on the server
var serverLogsCmd = &cobra.Command{
	Use:   "serverlogs",
	Short: "Inspect this device's logs on the server",
	Long: `Fetch the entries the server has stored for this device, newest first.
With --delete, remove them instead.

Examples:
  diary serverlogs
  diary serverlogs --limit 50 --from 2025-03-01 --to 2025-03-31
  diary serverlogs --delete`,
	RunE: runServerLogs,
}

var (
	serverLogsLimit  int
	serverLogsFrom   string
	serverLogsTo     string
	serverLogsDelete bool
)

func init() {
	serverLogsCmd.Flags().IntVar(&serverLogsLimit, "limit", 100, "maximum entries to fetch")
	serverLogsCmd.Flags().StringVar(&serverLogsFrom, "from", "", "range start (YYYY-MM-DD)")
	serverLogsCmd.Flags().StringVar(&serverLogsTo, "to", "", "range end (YYYY-MM-DD)")
	serverLogsCmd.Flags().BoolVar(&serverLogsDelete, "delete", false, "delete this device's logs instead of listing")
}

// QueryLogsResponse matches internal/server QueryLogsResponse
type QueryLogsResponse struct {
	OK   bool            `json:"ok"`
	Logs []journal.Entry `json:"logs"`
}

// DeleteLogsResponse matches internal/server DeleteLogsResponse
type DeleteLogsResponse struct {
	OK        bool `json:"ok"`
	Deleted   int  `json:"deleted"`
	Remaining int  `json:"remaining"`
}

func runServerLogs(cmd *cobra.Command, args []string) error {
	kv, err := openKV()
	if err != nil {
		return fmt.Errorf("failed to open data dir %s: %w", dataDir, err)
	}
	deviceID, err := journal.DeviceID(kv)
	if err != nil {
		return err
	}
	locale, err := resolveLocale(kv)
	if err != nil {
		return err
	}

	if serverLogsDelete {
		return deleteServerLogs(deviceID)
	}

	query := url.Values{}
	query.Set("deviceId", deviceID)
	query.Set("limit", strconv.Itoa(serverLogsLimit))
	// The server applies the range only when both bounds are present.
	if serverLogsFrom != "" && serverLogsTo != "" {
		from, err := time.Parse("2006-01-02", serverLogsFrom)
		if err != nil {
			return fmt.Errorf("invalid --from %q, expected YYYY-MM-DD", serverLogsFrom)
		}
		to, err := time.Parse("2006-01-02", serverLogsTo)
		if err != nil {
			return fmt.Errorf("invalid --to %q, expected YYYY-MM-DD", serverLogsTo)
		}
		query.Set("startISO", from.Format(time.RFC3339))
		query.Set("endISO", to.Add(24*time.Hour-time.Second).Format(time.RFC3339))
	} else if serverLogsFrom != "" || serverLogsTo != "" {
		return fmt.Errorf("--from and --to must be given together")
	}

	req, err := http.NewRequest(http.MethodGet, fmt.Sprintf("%s/sync/logs?%s", serverURL, query.Encode()), nil)
	if err != nil {
		return err
	}
	setSyncHeaders(req, deviceID)

	resp, err := syncHTTPClient().Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach %s: %w", serverURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return serverError(resp)
	}

	var logs QueryLogsResponse
	if err := json.NewDecoder(resp.Body).Decode(&logs); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if len(logs.Logs) == 0 {
		fmt.Println("No logs on the server for this device.")
		return nil
	}
	for _, e := range logs.Logs {
		fmt.Printf("%s  %-10s  %s\n",
			e.CreatedAt.Local().Format("2006-01-02 15:04"),
			emotion.DisplayName(e.Emotion, locale),
			firstLine(e.Content))
	}
	return nil
}

func deleteServerLogs(deviceID string) error {
	body, err := json.Marshal(map[string]string{"deviceId": deviceID})
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/sync/logs", serverURL), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	setSyncHeaders(req, deviceID)

	resp, err := syncHTTPClient().Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach %s: %w", serverURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return serverError(resp)
	}

	var deleted DeleteLogsResponse
	if err := json.NewDecoder(resp.Body).Decode(&deleted); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	fmt.Printf("Deleted %d entries, %d remain on the server\n", deleted.Deleted, deleted.Remaining)
	return nil
}

func setSyncHeaders(req *http.Request, deviceID string) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-device-id", deviceID)
	if syncKey != "" {
		req.Header.Set("Authorization", "Bearer "+syncKey)
		req.Header.Set("x-sync-key", syncKey)
	}
}

func syncHTTPClient() *http.Client {
	return &http.Client{Timeout: 15 * time.Second}
}

func serverError(resp *http.Response) error {
	raw, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return fmt.Errorf("server returned status %d (failed to read response body: %w)", resp.StatusCode, readErr)
	}
	return fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(raw))
}
