// Package main implements the diary CLI: local journaling, mentor chat with
// offline fallback, log sync, and report generation.
package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hanseolabs/diaryd/internal/i18n"
	"github.com/hanseolabs/diaryd/internal/kvstore"
)

var (
	// dataDir holds the local key-value store
	dataDir string
	// serverURL is the base URL for the diaryd sync server
	serverURL string
	// localeFlag overrides the stored UI language (ko, en, ja)
	localeFlag string
	// syncKey authenticates sync uploads when the server requires it
	syncKey string
	// version information
	version = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "diary",
	Short: "CLI for emotion-aware journaling with a quota-gated AI mentor",
	Long: `diary is a command-line journal with emotion classification, a mentor chat
that falls back to offline coaching questions when the AI is unavailable,
best-effort log sync to a diaryd server, and monthly or life reports.`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", defaultDataDir(), "local data directory")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8787", "diaryd server URL")
	rootCmd.PersistentFlags().StringVar(&localeFlag, "locale", "", "UI language: ko, en, or ja (persisted)")
	rootCmd.PersistentFlags().StringVar(&syncKey, "sync-key", "", "shared secret for sync uploads")
	rootCmd.AddCommand(writeCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(serverLogsCmd)
}

// defaultDataDir resolves the per-user store location.
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".diary"
	}
	return filepath.Join(home, ".local", "share", "diaryd")
}

// openKV opens the file-backed key-value store under dataDir.
func openKV() (kvstore.Store, error) {
	return kvstore.NewFile(dataDir)
}

// resolveLocale picks the UI language: the --locale flag wins and is
// persisted for later runs, otherwise the stored choice, otherwise Korean.
func resolveLocale(kv kvstore.Store) (i18n.Locale, error) {
	if localeFlag != "" {
		locale := i18n.Parse(localeFlag)
		if err := kv.Set(kvstore.KeyLocale, string(locale)); err != nil {
			return locale, err
		}
		return locale, nil
	}
	var stored string
	ok, err := kv.Get(kvstore.KeyLocale, &stored)
	if err != nil {
		return i18n.Default, err
	}
	if ok {
		return i18n.Parse(stored), nil
	}
	return i18n.Default, nil
}
