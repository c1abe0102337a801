package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hanseolabs/diaryd/internal/chat"
	"github.com/hanseolabs/diaryd/internal/fallback"
	"github.com/hanseolabs/diaryd/internal/i18n"
	"github.com/hanseolabs/diaryd/internal/journal"
	"github.com/hanseolabs/diaryd/internal/kvstore"
	"github.com/hanseolabs/diaryd/internal/mentor"
	"github.com/hanseolabs/diaryd/internal/quota"
)

// chatCmd sends one message to the mentor and prints the reply
var chatCmd = &cobra.Command{
	Use:   "chat [message]",
	Short: "Ask the AI mentor a question",
	Long: `Ask the AI mentor a question. The reply comes from the sync server's
mentor endpoint; when the daily quota is exhausted, the cooldown is active,
or the server is unreachable, a deterministic offline coaching question is
generated from your recent entries instead.

Examples:
  # Ask in the stored language
  diary chat "요즘 일에 집중이 안 돼요"

  # Show the transcript without sending anything
  diary chat --show`,
	Args: cobra.MaximumNArgs(1),
	RunE: runChat,
}

var (
	showTranscript bool
	legacyURL      string
)

func init() {
	chatCmd.Flags().BoolVar(&showTranscript, "show", false, "print the transcript and exit")
	chatCmd.Flags().StringVar(&legacyURL, "legacy-url", "", "fallback advice endpoint")
}

func runChat(cmd *cobra.Command, args []string) error {
	kv, err := openKV()
	if err != nil {
		return fmt.Errorf("failed to open data dir %s: %w", dataDir, err)
	}
	locale, err := resolveLocale(kv)
	if err != nil {
		return err
	}

	transcript := chat.NewTranscript(kv)
	msgs, err := transcript.LoadOrSeed(locale)
	if err != nil {
		return err
	}

	if showTranscript || len(args) == 0 {
		printTranscript(msgs)
		return nil
	}

	message := strings.TrimSpace(args[0])
	if message == "" {
		return fmt.Errorf("message is empty")
	}

	if err := transcript.Append(transcript.NewUserMessage(message)); err != nil {
		return err
	}
	thinking, err := transcript.AppendThinking(locale)
	if err != nil {
		return err
	}

	reply := mentorReply(cmd, kv, locale, message, msgs)
	if err := transcript.ReplaceThinking(thinking.ID, transcript.NewAssistantMessage(reply)); err != nil {
		return err
	}

	fmt.Println(reply)
	return nil
}

// mentorReply runs the quota gate, remote call, and offline fallback. It
// always produces a reply; errors degrade to the offline generator.
func mentorReply(cmd *cobra.Command, kv kvstore.Store, locale i18n.Locale, message string, history []chat.Message) string {
	entries, _ := journal.NewStore(kv, locale).List()
	deviceID, err := journal.DeviceID(kv)
	if err != nil {
		deviceID = "local"
	}

	tracker := quota.NewTracker(quota.NewKVStore(kv), quota.DefaultLimits())
	if err := tracker.Consume(deviceID, message); err != nil {
		reason := fallbackReason(err)
		return offlineReply(message, entries, locale, reason)
	}

	client, err := mentor.NewClient(strings.TrimRight(serverURL, "/")+"/sync/mentor/advise-gpt", legacyURL, zap.NewNop())
	if err != nil {
		return offlineReply(message, entries, locale, fallback.ReasonNetworkError)
	}
	reply, err := client.Advise(cmd.Context(), message, history, locale)
	if err != nil {
		return offlineReply(message, entries, locale, fallback.ReasonNetworkError)
	}
	return reply
}

// offlineReply generates the coaching question, prepending the localized
// switch-over note only for quota rejections. A network failure is not a
// usage limit, so it gets the bare offline reply.
func offlineReply(message string, entries []journal.Entry, locale i18n.Locale, reason fallback.Reason) string {
	body := fallback.New().Generate(message, entries, locale, reason)
	if reason == fallback.ReasonNetworkError {
		return body
	}
	return fallback.QuotaNote(locale, reason) + "\n\n" + body
}

// fallbackReason maps a quota rejection onto the offline generator's framing.
func fallbackReason(err error) fallback.Reason {
	var qerr *quota.Error
	if !errors.As(err, &qerr) {
		return fallback.ReasonNetworkError
	}
	switch qerr.Reason {
	case quota.ReasonMessageTooLong:
		return fallback.ReasonMessageTooLong
	case quota.ReasonRateLimited:
		return fallback.ReasonCooldown
	default:
		return fallback.ReasonDailyLimit
	}
}

func printTranscript(msgs []chat.Message) {
	for _, m := range msgs {
		label := "Mentor"
		if m.Role == chat.RoleUser {
			label = "You"
		}
		fmt.Printf("[%s] %s\n%s\n\n", m.CreatedAt.Local().Format("2006-01-02 15:04"), label, m.Text)
	}
}
