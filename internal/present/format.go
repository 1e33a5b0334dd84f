// Package present turns API records into the strings the terminal renders.
package present

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/unicode/norm"
)

// ScoreClass buckets a positivity score for coloring.
type ScoreClass string

const (
	ScoreHigh   ScoreClass = "high"
	ScoreMedium ScoreClass = "medium"
	ScoreLow    ScoreClass = "low"
)

var (
	swedish = message.NewPrinter(language.Swedish)

	monthsLong = [...]string{
		"januari", "februari", "mars", "april", "maj", "juni",
		"juli", "augusti", "september", "oktober", "november", "december",
	}
	monthsShort = [...]string{
		"jan.", "feb.", "mars", "apr.", "maj", "juni",
		"juli", "aug.", "sep.", "okt.", "nov.", "dec.",
	}
)

// ClassFor returns the color class of a 0..1 score.
func ClassFor(score float64) ScoreClass {
	switch {
	case score >= 0.9:
		return ScoreHigh
	case score >= 0.8:
		return ScoreMedium
	default:
		return ScoreLow
	}
}

// Percent renders a 0..1 score as a rounded percentage, e.g. 0.934 -> "+93%".
func Percent(score float64) string {
	return fmt.Sprintf("+%d%%", int(math.Round(score*100)))
}

// Threshold renders the slider label, e.g. "Positivitetsgrad: 70%+".
func Threshold(minScore float64) string {
	return fmt.Sprintf("Positivitetsgrad: %d%%+", int(math.Round(minScore*100)))
}

// Count formats n with Swedish digit grouping.
func Count(n int) string {
	return swedish.Sprintf("%d", n)
}

// ArticleCount renders "N positiva artiklar".
func ArticleCount(n int) string {
	return Count(n) + " positiva artiklar"
}

// DateShort renders "17 okt. 2026". Zero times render empty.
func DateShort(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	t = t.Local()
	return fmt.Sprintf("%d %s %d", t.Day(), monthsShort[t.Month()-1], t.Year())
}

// DateLong renders "17 oktober 2026 14:05".
func DateLong(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	t = t.Local()
	return fmt.Sprintf("%d %s %d %02d:%02d", t.Day(), monthsLong[t.Month()-1], t.Year(), t.Hour(), t.Minute())
}

// PlainText strips markup from an HTML fragment and collapses whitespace.
// Summaries from the scraper frequently carry inline tags.
func PlainText(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return collapse(fragment)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader([]byte(fragment)))
	if err != nil {
		return collapse(fragment)
	}
	doc.Find("script, style, noscript").Remove()
	var b strings.Builder
	doc.Find("body").Contents().Each(func(_ int, sel *goquery.Selection) {
		b.WriteString(sel.Text())
		b.WriteByte(' ')
	})
	return collapse(b.String())
}

// Truncate shortens s to at most n runes, ending with an ellipsis.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return strings.TrimSpace(string(r[:n-1])) + "…"
}

func collapse(s string) string {
	return norm.NFC.String(strings.Join(strings.Fields(s), " "))
}
