package present

import (
	"strings"
	"testing"
	"time"
)

func TestClassFor(t *testing.T) {
	cases := map[float64]ScoreClass{
		1.0:  ScoreHigh,
		0.9:  ScoreHigh,
		0.89: ScoreMedium,
		0.8:  ScoreMedium,
		0.79: ScoreLow,
		0:    ScoreLow,
	}
	for score, want := range cases {
		if got := ClassFor(score); got != want {
			t.Fatalf("ClassFor(%v) = %s, want %s", score, got, want)
		}
	}
}

func TestPercentAndThreshold(t *testing.T) {
	if got := Percent(0.934); got != "+93%" {
		t.Fatalf("Percent = %q", got)
	}
	if got := Percent(0.875); got != "+88%" {
		t.Fatalf("Percent = %q", got)
	}
	if got := Threshold(0.7); got != "Positivitetsgrad: 70%+" {
		t.Fatalf("Threshold = %q", got)
	}
}

func TestCountUsesSwedishGrouping(t *testing.T) {
	got := ArticleCount(12345)
	if !strings.HasSuffix(got, " positiva artiklar") {
		t.Fatalf("ArticleCount = %q", got)
	}
	digits := strings.TrimSuffix(got, " positiva artiklar")
	if digits == "12345" || !strings.HasPrefix(digits, "12") || !strings.HasSuffix(digits, "345") {
		t.Fatalf("expected grouped digits, got %q", digits)
	}
	if Count(7) != "7" {
		t.Fatalf("Count(7) = %q", Count(7))
	}
}

func TestDates(t *testing.T) {
	ts := time.Date(2026, time.October, 17, 14, 5, 0, 0, time.Local)
	if got := DateShort(ts); got != "17 okt. 2026" {
		t.Fatalf("DateShort = %q", got)
	}
	if got := DateLong(ts); got != "17 oktober 2026 14:05" {
		t.Fatalf("DateLong = %q", got)
	}
	if DateShort(time.Time{}) != "" || DateLong(time.Time{}) != "" {
		t.Fatalf("zero time should render empty")
	}
}

func TestPlainText(t *testing.T) {
	cases := map[string]string{
		"Enkel   text\n här":                            "Enkel text här",
		"<p>Bin <b>återvänder</b></p><p>till ängen</p>": "Bin återvänder till ängen",
		"Glass &amp; sol<script>alert(1)</script>":      "Glass & sol",
		"": "",
	}
	for in, want := range cases {
		if got := PlainText(in); got != want {
			t.Fatalf("PlainText(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPlainTextComposesDecomposedLetters(t *testing.T) {
	decomposed := "Ska\u030ane"
	if got := PlainText(decomposed); got != "Skåne" {
		t.Fatalf("PlainText did not normalize: %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("Solceller på skolan", 9); got != "Solcelle…" {
		t.Fatalf("Truncate = %q", got)
	}
	if got := Truncate("kort", 10); got != "kort" {
		t.Fatalf("Truncate = %q", got)
	}
	if Truncate("abc", 0) != "" {
		t.Fatalf("zero width should be empty")
	}
}
