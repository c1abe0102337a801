// Package report renders the templated monthly and autobiography texts from
// the local journal. Pure string assembly, no model calls.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/hanseolabs/diaryd/internal/emotion"
	"github.com/hanseolabs/diaryd/internal/i18n"
	"github.com/hanseolabs/diaryd/internal/journal"
)

const (
	monthlyHighlightClip = 80
	lifeHighlightClip    = 90
	defaultMonths        = 12
)

// Report is one rendered document. Subtitle is only set for monthly reports.
type Report struct {
	Title    string
	Subtitle string
	Body     string
}

// Options selects the autobiography window: an explicit range wins over the
// trailing month count.
type Options struct {
	Months int
	Start  *time.Time
	End    *time.Time
}

// Generator renders reports. The clock bounds the autobiography's trailing
// window.
type Generator struct {
	now func() time.Time
}

// New returns a generator on the real clock.
func New() *Generator {
	return &Generator{now: time.Now}
}

// Monthly renders the report for the month containing the given date.
func (g *Generator) Monthly(entries []journal.Entry, month time.Time, locale i18n.Locale) Report {
	locale = locale.OrDefault()
	key := month.Format("2006-01")

	var logs []journal.Entry
	for _, e := range entries {
		if e.CreatedAt.Format("2006-01") == key {
			logs = append(logs, e)
		}
	}

	r := Report{
		Title:    monthlyTitles[locale],
		Subtitle: formatMonthTitle(month, locale),
	}
	if len(logs) == 0 {
		r.Body = monthlyEmptyBodies[locale]
		return r
	}

	paras := []string{fmt.Sprintf(monthlyCountParas[locale], len(logs))}

	if top, ok := topEmotion(logs); ok {
		paras = append(paras, fmt.Sprintf(monthlyEmotionParas[locale], emotion.DisplayName(top, locale)))
	} else {
		paras = append(paras, monthlyMixedEmotionParas[locale])
	}

	if line := highlightLine(logs, monthlyHighlightClip); line != "" {
		paras = append(paras, fmt.Sprintf(monthlyHighlightParas[locale], line))
	} else {
		paras = append(paras, monthlyNoHighlightParas[locale])
	}

	paras = append(paras, monthlyClosingParas[locale])
	r.Body = strings.Join(paras, "\n\n")
	return r
}

// Autobiography renders the life-report over an explicit range or the last N
// months (default 12).
func (g *Generator) Autobiography(entries []journal.Entry, locale i18n.Locale, opts Options) Report {
	locale = locale.OrDefault()

	var logs []journal.Entry
	ranged := opts.Start != nil && opts.End != nil
	if ranged {
		lo, hi := *opts.Start, *opts.End
		if lo.After(hi) {
			lo, hi = hi, lo
		}
		for _, e := range entries {
			if !e.CreatedAt.Before(lo) && !e.CreatedAt.After(hi) {
				logs = append(logs, e)
			}
		}
	} else {
		months := opts.Months
		if months < 1 {
			months = defaultMonths
		}
		now := g.now()
		start := now.AddDate(0, -months, 0)
		for _, e := range entries {
			if !e.CreatedAt.Before(start) && !e.CreatedAt.After(now) {
				logs = append(logs, e)
			}
		}
		opts.Months = months
	}

	r := Report{Title: lifeTitles[locale]}
	if len(logs) == 0 {
		r.Body = lifeEmptyBodies[locale]
		return r
	}

	var p1 string
	if ranged {
		p1 = fmt.Sprintf(lifeRangeParas[locale],
			formatYmd(*opts.Start, locale), formatYmd(*opts.End, locale), len(logs))
	} else {
		p1 = fmt.Sprintf(lifeMonthsParas[locale], opts.Months, len(logs))
	}
	paras := []string{p1}

	if top, ok := topEmotion(logs); ok {
		paras = append(paras, fmt.Sprintf(lifeEmotionParas[locale], emotion.DisplayName(top, locale)))
	} else {
		paras = append(paras, lifeMixedEmotionParas[locale])
	}

	if line := highlightLine(logs, lifeHighlightClip); line != "" {
		paras = append(paras, fmt.Sprintf(lifeHighlightParas[locale], line))
	} else {
		paras = append(paras, lifeNoHighlightParas[locale])
	}

	paras = append(paras, lifeClosingParas[locale])
	r.Body = strings.Join(paras, "\n\n")
	return r
}

// topEmotion returns the most frequent label; ties go to the label seen
// first in the list.
func topEmotion(logs []journal.Entry) (emotion.Label, bool) {
	counts := make(map[emotion.Label]int)
	var order []emotion.Label
	for _, l := range logs {
		if _, seen := counts[l.Emotion]; !seen {
			order = append(order, l.Emotion)
		}
		counts[l.Emotion]++
	}
	if len(order) == 0 {
		return "", false
	}
	best := order[0]
	for _, label := range order[1:] {
		if counts[label] > counts[best] {
			best = label
		}
	}
	return best, true
}

// highlightLine takes the first non-empty line of the longest entry, clipped.
func highlightLine(logs []journal.Entry, clip int) string {
	sorted := append([]journal.Entry(nil), logs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len([]rune(sorted[i].Content)) > len([]rune(sorted[j].Content))
	})
	for _, line := range strings.Split(sorted[0].Content, "\n") {
		if t := strings.TrimSpace(line); t != "" {
			return clipRunes(t, clip)
		}
	}
	return ""
}

func clipRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

func formatMonthTitle(month time.Time, locale i18n.Locale) string {
	switch locale {
	case i18n.English:
		return month.Format("January 2006")
	case i18n.Japanese:
		return fmt.Sprintf("%d年%d月", month.Year(), int(month.Month()))
	default:
		return fmt.Sprintf("%d년 %d월", month.Year(), int(month.Month()))
	}
}

func formatYmd(t time.Time, locale i18n.Locale) string {
	switch locale {
	case i18n.English:
		return t.Format("2006-01-02")
	case i18n.Japanese:
		return fmt.Sprintf("%d年%d月%d日", t.Year(), int(t.Month()), t.Day())
	default:
		return t.Format("2006.01.02")
	}
}
