// Package emotion classifies journal entry text into one of four fixed
// emotion labels using keyword scoring.
//
// The classifier is a pure function: no state, no configuration, no learning.
// Keywords are Korean substrings matched against the lowercased input; the
// label set and weights are fixed.
package emotion

import (
	"strings"

	"github.com/hanseolabs/diaryd/internal/i18n"
)

// Label is one of the four fixed emotion categories.
type Label string

const (
	Stable   Label = "stable"
	Tired    Label = "tired"
	Anxious  Label = "anxious"
	Confused Label = "confused"
)

// labelOrder fixes tie-breaking: earlier labels win ties.
var labelOrder = []Label{Stable, Tired, Anxious, Confused}

// keywords maps each label to the substrings that vote for it.
// Each present keyword contributes a weight of 2.
var keywords = map[Label][]string{
	Stable:   {"괜찮", "편안", "차분", "감사", "기분좋", "좋았", "만족", "여유"},
	Tired:    {"피곤", "지침", "지쳤", "졸려", "잠", "무기력", "힘들", "버거"},
	Anxious:  {"불안", "걱정", "긴장", "초조", "두려", "무섭", "불편", "떨려"},
	Confused: {"혼란", "헷갈", "모르겠", "정리가", "복잡", "갈피", "애매", "뒤죽박죽"},
}

// Result is a classified label with its canned summary sentence.
type Result struct {
	Label   Label
	Summary string
}

// Analyze classifies content and returns the label with its Korean summary.
func Analyze(content string) Result {
	return AnalyzeLocalized(content, i18n.Korean)
}

// AnalyzeLocalized classifies content and returns the summary in the given
// locale. Classification itself is locale-independent.
func AnalyzeLocalized(content string, locale i18n.Locale) Result {
	text := strings.ToLower(strings.TrimSpace(content))

	best := Confused
	bestScore := 0
	for _, label := range labelOrder {
		score := scoreFor(label, text)
		if score > bestScore {
			best = label
			bestScore = score
		}
	}
	if bestScore <= 0 {
		best = Confused
	}

	return Result{Label: best, Summary: Summary(best, locale)}
}

// scoreFor scores one label against the prepared text: 2 points per present
// keyword, plus 1 for anxious/confused when the text carries ! or ?.
func scoreFor(label Label, text string) int {
	score := 0
	for _, needle := range keywords[label] {
		if strings.Contains(text, needle) {
			score += 2
		}
	}
	if (label == Anxious || label == Confused) && strings.ContainsAny(text, "!?") {
		score++
	}
	return score
}

// Valid reports whether l is one of the four labels.
func (l Label) Valid() bool {
	_, ok := keywords[l]
	return ok
}
