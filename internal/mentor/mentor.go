// Package mentor talks to the remote AI mentor. The client side composes the
// prompt and cleans up echoed artifacts; the upstream side proxies the
// third-party completion API for the server.
package mentor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hanseolabs/diaryd/internal/chat"
	"github.com/hanseolabs/diaryd/internal/i18n"
)

const (
	adviseTimeout = 20 * time.Second
	historyWindow = 5
	historyClip   = 280
	historyBegin  = "[CHAT HISTORY BEGIN]"
	historyEnd    = "[CHAT HISTORY END]"
	mvpEchoPrefix = "(MVP) "
	defaultMaxOut = 220
)

var languageHints = map[i18n.Locale]string{
	i18n.Korean:   "한국어로 답해줘.\n\n",
	i18n.English:  "Please reply in English.\n\n",
	i18n.Japanese: "日本語で答えてください。\n\n",
}

var echoNotices = map[i18n.Locale]string{
	i18n.Korean:   "멘토 서비스가 답변을 생성하지 못하고 질문을 되돌려보냈어요. 잠시 후 다시 시도해 주세요.",
	i18n.English:  "The mentor service echoed the question instead of answering. Please try again shortly.",
	i18n.Japanese: "メンターサービスが回答を生成できず、質問をそのまま返しました。しばらくしてからもう一度お試しください。",
}

// Client calls the mentor endpoint on the sync server, with a one-shot retry
// against a legacy endpoint when the primary fails.
type Client struct {
	primaryURL string
	legacyURL  string
	http       *http.Client
	logger     *zap.Logger
}

// NewClient builds a mentor client. primaryURL is required; legacyURL is
// optional and only used when the primary call fails.
func NewClient(primaryURL, legacyURL string, logger *zap.Logger) (*Client, error) {
	if primaryURL == "" {
		return nil, fmt.Errorf("mentor: primary URL is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		primaryURL: primaryURL,
		legacyURL:  legacyURL,
		http:       &http.Client{Timeout: adviseTimeout},
		logger:     logger,
	}, nil
}

// Advise sends the message with a language hint and a compact rolling history
// window, then sanitizes the reply. Quota checks are the caller's concern.
func (c *Client) Advise(ctx context.Context, message string, history []chat.Message, locale i18n.Locale) (string, error) {
	locale = locale.OrDefault()
	message = strings.TrimSpace(message)
	if message == "" {
		return "", fmt.Errorf("mentor: message is empty")
	}

	hint := languageHints[locale]
	prompt := hint + historyBlock(history) + message

	ctx, cancel := context.WithTimeout(ctx, adviseTimeout)
	defer cancel()

	reply, err := c.ask(ctx, c.primaryURL, prompt)
	if err != nil && c.legacyURL != "" {
		c.logger.Debug("primary mentor endpoint failed, trying legacy",
			zap.String("url", c.primaryURL), zap.Error(err))
		reply, err = c.ask(ctx, c.legacyURL, prompt)
	}
	if err != nil {
		return "", err
	}

	clean := Sanitize(reply, hint, message)
	if clean == "" {
		return echoNotices[locale], nil
	}
	return clean, nil
}

type adviseRequest struct {
	Question        string `json:"question"`
	MaxOutputTokens int    `json:"max_output_tokens"`
}

type adviseResponse struct {
	OK      *bool  `json:"ok"`
	Reply   string `json:"reply"`
	Advice  string `json:"advice"`
	Message string `json:"message"`
}

func (c *Client) ask(ctx context.Context, url, prompt string) (string, error) {
	body, err := json.Marshal(adviseRequest{Question: prompt, MaxOutputTokens: defaultMaxOut})
	if err != nil {
		return "", fmt.Errorf("mentor: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("mentor: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("mentor: request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("mentor: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("mentor: http %d: %s", resp.StatusCode, clipDetail(raw))
	}

	var parsed adviseResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("mentor: decode response: %w", err)
	}
	if parsed.OK != nil && !*parsed.OK {
		msg := parsed.Message
		if msg == "" {
			msg = "mentor_api_not_ok"
		}
		return "", fmt.Errorf("mentor: %s", msg)
	}

	reply := strings.TrimSpace(parsed.Reply)
	if reply == "" {
		reply = strings.TrimSpace(parsed.Advice)
	}
	if reply == "" {
		return "", fmt.Errorf("mentor: empty reply")
	}
	return reply, nil
}

// historyBlock renders the last exchanges as labeled lines between fixed
// markers so the model can tell context from the new message.
func historyBlock(history []chat.Message) string {
	recent := chat.Recent(history, historyWindow)
	if len(recent) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(historyBegin)
	b.WriteString("\n")
	for _, m := range recent {
		label := "User"
		if m.Role == chat.RoleAssistant {
			label = "Mentor"
		}
		b.WriteString(label)
		b.WriteString(": ")
		b.WriteString(clipRunes(strings.TrimSpace(m.Text), historyClip))
		b.WriteString("\n")
	}
	b.WriteString(historyEnd)
	b.WriteString("\n\n")
	return b.String()
}

// Sanitize removes prompt artifacts a misbehaving backend echoes back: the
// MVP echo prefix, the language-hint line, everything up to an echoed history
// marker, and a leading duplicate of the user's message.
func Sanitize(reply, hint, userMessage string) string {
	out := strings.TrimSpace(reply)

	out = strings.TrimPrefix(out, mvpEchoPrefix)

	if idx := strings.LastIndex(out, historyEnd); idx >= 0 {
		out = out[idx+len(historyEnd):]
	}

	hintLine := strings.TrimSpace(hint)
	if hintLine != "" {
		var kept []string
		for _, line := range strings.Split(out, "\n") {
			if strings.TrimSpace(line) == hintLine {
				continue
			}
			kept = append(kept, line)
		}
		out = strings.Join(kept, "\n")
	}

	out = strings.TrimSpace(out)
	if userMessage != "" && strings.HasPrefix(out, userMessage) {
		out = strings.TrimSpace(strings.TrimPrefix(out, userMessage))
	}
	return out
}

func clipRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "…"
}

func clipDetail(raw []byte) string {
	s := strings.TrimSpace(string(raw))
	return clipRunes(s, 200)
}
