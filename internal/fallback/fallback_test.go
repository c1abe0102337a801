package fallback

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanseolabs/diaryd/internal/i18n"
	"github.com/hanseolabs/diaryd/internal/journal"
)

func fixedGenerator(day string) *Generator {
	at, err := time.Parse("2006-01-02", day)
	if err != nil {
		panic(err)
	}
	return &Generator{now: func() time.Time { return at }}
}

func TestGenerateDeterministic(t *testing.T) {
	g := fixedGenerator("2025-03-14")
	first := g.Generate("요즘 일이 너무 많아", nil, i18n.Korean, ReasonNone)
	for i := 0; i < 20; i++ {
		require.Equal(t, first, g.Generate("요즘 일이 너무 많아", nil, i18n.Korean, ReasonNone))
	}
}

func TestGenerateVariesByDay(t *testing.T) {
	text := "planning the week ahead"
	outputs := make(map[string]struct{})
	for _, day := range []string{"2025-03-14", "2025-03-15", "2025-03-16", "2025-03-17"} {
		out := fixedGenerator(day).Generate(text, nil, i18n.English, ReasonNone)
		outputs[out] = struct{}{}
	}
	// Only three variants exist, so four days cannot all differ, but a
	// single bucket for every day would mean the seed is ignored.
	assert.Greater(t, len(outputs), 1)
}

func TestGenerateStructure(t *testing.T) {
	g := fixedGenerator("2025-03-14")
	out := g.Generate("what should I do next", nil, i18n.English, ReasonNone)

	assert.True(t, strings.HasPrefix(out, "Offline mode"))
	assert.Contains(t, out, "Topic: what should I do next")
	assert.Contains(t, out, "Here are a few ways we can approach this:")
	assert.True(t, strings.HasSuffix(out, "Quick question: what outcome do you want from this conversation?"))
	assert.NotContains(t, out, "Server AI skipped")
}

func TestGenerateReasonLines(t *testing.T) {
	g := fixedGenerator("2025-03-14")
	cases := []struct {
		reason Reason
		want   string
	}{
		{ReasonDailyLimit, "(Server AI skipped: daily limit)"},
		{ReasonCooldown, "(Server AI skipped: cooldown)"},
		{ReasonMessageTooLong, "(Server AI skipped: message too long)"},
		{ReasonNetworkError, "(Server AI skipped: network error)"},
	}
	for _, tc := range cases {
		out := g.Generate("hello", nil, i18n.English, tc.reason)
		assert.Contains(t, out, tc.want, "reason %q", tc.reason)
	}
}

func TestGenerateEmptyTopic(t *testing.T) {
	g := fixedGenerator("2025-03-14")

	assert.Contains(t, g.Generate("   ", nil, i18n.English, ReasonNone), "Topic: (empty)")
	assert.Contains(t, g.Generate("", nil, i18n.Korean, ReasonNone), "주제: (비어 있음)")
	assert.Contains(t, g.Generate("", nil, i18n.Japanese, ReasonNone), "テーマ:（空）")
}

func TestGenerateClipsLongTopic(t *testing.T) {
	g := fixedGenerator("2025-03-14")
	long := strings.Repeat("가", 200)
	out := g.Generate(long, nil, i18n.Korean, ReasonNone)

	assert.Contains(t, out, "주제: "+strings.Repeat("가", 160)+"…")
	assert.NotContains(t, out, strings.Repeat("가", 161))
}

func TestGenerateKoreanKeywords(t *testing.T) {
	g := fixedGenerator("2025-03-14")

	out := g.Generate("회사 프로젝트 마감이 걱정된다", nil, i18n.Korean, ReasonNone)
	assert.Contains(t, out, "키워드: 회사, 프로젝트, 마감이")

	// Stopwords and short fragments never make the line.
	out = g.Generate("지금 왜 좀 더", nil, i18n.Korean, ReasonNone)
	assert.NotContains(t, out, "키워드:")

	// Other locales never get a keyword line.
	out = g.Generate("회사 프로젝트 마감이 걱정된다", nil, i18n.English, ReasonNone)
	assert.NotContains(t, out, "키워드:")
}

func TestGenerateRecentEntryReference(t *testing.T) {
	g := fixedGenerator("2025-03-14")
	entries := []journal.Entry{
		{Content: "\n\n오늘은 운동을 했다\n그리고 밥을 먹었다"},
		{Content: "지난주 기록"},
	}

	out := g.Generate("hi", entries, i18n.Korean, ReasonNone)
	assert.Contains(t, out, "최근 기록: “오늘은 운동을 했다…”")

	out = g.Generate("hi", entries, i18n.English, ReasonNone)
	assert.Contains(t, out, `Recent log: "오늘은 운동을 했다…"`)

	out = g.Generate("hi", nil, i18n.Korean, ReasonNone)
	assert.NotContains(t, out, "최근 기록")
}

func TestGenerateUnknownLocaleFallsBack(t *testing.T) {
	g := fixedGenerator("2025-03-14")
	out := g.Generate("안녕", nil, i18n.Locale("fr"), ReasonNone)
	assert.True(t, strings.HasPrefix(out, "오프라인 모드"))
}

func TestQuotaNote(t *testing.T) {
	assert.Equal(t, "오늘 AI 사용량 제한에 도달했어요. 오프라인 질문 모드로 전환할게요.", QuotaNote(i18n.Korean, ReasonDailyLimit))
	assert.Equal(t, "Please wait a moment—switching to offline questions.", QuotaNote(i18n.English, ReasonCooldown))
	assert.Equal(t, "文章が長すぎるため、オフラインの質問モードに切り替えます。", QuotaNote(i18n.Japanese, ReasonMessageTooLong))
	// Unknown reasons read as the daily limit note.
	assert.Equal(t, QuotaNote(i18n.Korean, ReasonDailyLimit), QuotaNote(i18n.Korean, ReasonNetworkError))
}
