// Package fallback produces deterministic, locale-aware mentor replies for
// when the remote mentor is unreachable or the quota is exhausted. The user
// always gets some response, even fully offline.
package fallback

import (
	"fmt"
	"hash/fnv"
	"regexp"
	"strings"
	"time"

	"github.com/hanseolabs/diaryd/internal/i18n"
	"github.com/hanseolabs/diaryd/internal/journal"
)

// Reason records why the remote mentor was skipped. It only tailors the
// framing line; the reply body is the same scaffold either way.
type Reason string

const (
	ReasonNone           Reason = ""
	ReasonDailyLimit     Reason = "daily_limit"
	ReasonCooldown       Reason = "cooldown"
	ReasonMessageTooLong Reason = "message_too_long"
	ReasonNetworkError   Reason = "network_error"
)

// Generator assembles offline replies. The clock is injectable because the
// variant selection hashes today's date.
type Generator struct {
	now func() time.Time
}

// New returns a generator on the real clock.
func New() *Generator {
	return &Generator{now: time.Now}
}

// Generate builds the multi-paragraph offline reply. Same date + same input
// always produces the same text.
func (g *Generator) Generate(userText string, entries []journal.Entry, locale i18n.Locale, reason Reason) string {
	locale = locale.OrDefault()
	trimmed := strings.TrimSpace(userText)

	day := g.now().Format("2006-01-02")
	h := fnv.New32a()
	h.Write([]byte(day + "|" + trimmed))
	pick := int(h.Sum32() % 3)

	parts := []string{headers[locale]}
	if line := reasonLine(locale, reason); line != "" {
		parts = append(parts, line)
	}
	parts = append(parts, topicLine(locale, trimmed))
	if locale == i18n.Korean {
		if kws := pickKeywordsKo(trimmed, 3); len(kws) > 0 {
			parts = append(parts, "키워드: "+strings.Join(kws, ", "))
		}
	}
	if ref := recentEntryLine(locale, entries); ref != "" {
		parts = append(parts, ref)
	}
	parts = append(parts, promptLines[locale])
	parts = append(parts, strings.Join(variants[locale][pick], "\n"))
	parts = append(parts, closingQuestions[locale])

	return strings.Join(parts, "\n\n")
}

func topicLine(locale i18n.Locale, trimmed string) string {
	if trimmed == "" {
		return emptyTopics[locale]
	}
	topic := clip(trimmed, 160)
	if topic != trimmed {
		topic += "…"
	}
	return topicPrefixes[locale] + topic
}

func recentEntryLine(locale i18n.Locale, entries []journal.Entry) string {
	if len(entries) == 0 {
		return ""
	}
	first := firstNonEmptyLine(entries[0].Content)
	if first == "" {
		return ""
	}
	return fmt.Sprintf(recentFormats[locale], clip(first, 60))
}

func firstNonEmptyLine(content string) string {
	for _, line := range strings.Split(content, "\n") {
		if t := strings.TrimSpace(line); t != "" {
			return t
		}
	}
	return ""
}

// clip truncates to max runes.
func clip(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

var splitter = regexp.MustCompile(`[\s,.;:!?()"'“”‘’/\\]+`)

// koStopwords filters filler words from the keyword line.
var koStopwords = map[string]struct{}{
	"지금": {}, "현재": {}, "정말": {}, "그냥": {}, "내가": {}, "나는": {},
	"내": {}, "것": {}, "수": {}, "좀": {}, "더": {}, "제발": {},
	"해줘": {}, "해주세요": {}, "부탁": {}, "가능": {}, "무엇": {}, "어떻게": {},
	"왜": {}, "어떤": {}, "그리고": {}, "또": {}, "때문": {}, "관련": {},
	"정리": {}, "분석": {},
}

func pickKeywordsKo(text string, max int) []string {
	words := splitter.Split(strings.ReplaceAll(text, "\n", " "), -1)
	var uniq []string
	seen := make(map[string]struct{})
	for _, w := range words {
		w = strings.TrimSpace(w)
		n := len([]rune(w))
		if n < 2 || n > 12 {
			continue
		}
		if _, stop := koStopwords[w]; stop {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		uniq = append(uniq, w)
		if len(uniq) >= max {
			break
		}
	}
	return uniq
}
