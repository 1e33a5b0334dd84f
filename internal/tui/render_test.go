package tui

import (
	"strings"
	"testing"

	"github.com/samvad-hq/gladstart-reader/internal/domain"
	"github.com/samvad-hq/gladstart-reader/internal/feed"
	"github.com/samvad-hq/gladstart-reader/internal/imageload"
)

func TestScrollOffset(t *testing.T) {
	tests := []struct {
		offset, cursor, visible, total int
		want                           int
	}{
		{0, 0, 5, 10, 0},
		{0, 5, 5, 10, 1},
		{4, 2, 5, 10, 2},
		{8, 9, 5, 10, 5},
		{0, 0, 5, 2, 0},
	}
	for _, tt := range tests {
		if got := scrollOffset(tt.offset, tt.cursor, tt.visible, tt.total); got != tt.want {
			t.Errorf("scrollOffset(%d,%d,%d,%d) = %d, want %d", tt.offset, tt.cursor, tt.visible, tt.total, got, tt.want)
		}
	}
}

func TestMoveCursor(t *testing.T) {
	tests := []struct {
		key           string
		cursor, total int
		stride        int
		want          int
	}{
		{"j", 0, 3, 1, 1},
		{"down", 2, 3, 1, 2},
		{"k", 0, 3, 1, 0},
		{"G", 0, 7, 1, 6},
		{"g", 5, 7, 1, 0},
		{"j", 1, 10, 3, 4},
		{"x", 1, 3, 1, 1},
		{"j", 0, 0, 1, 0},
	}
	for _, tt := range tests {
		if got := moveCursor(tt.key, tt.cursor, tt.total, tt.stride); got != tt.want {
			t.Errorf("moveCursor(%q,%d,%d,%d) = %d, want %d", tt.key, tt.cursor, tt.total, tt.stride, got, tt.want)
		}
	}
}

func TestLoaderRow(t *testing.T) {
	if got := loaderRow(true, true, 3, "*"); !strings.HasPrefix(got, "*") {
		t.Errorf("loading row should show spinner, got %q", got)
	}
	if got := loaderRow(false, false, 3, "*"); !strings.Contains(got, endMessage) {
		t.Errorf("exhausted row = %q", got)
	}
	if got := loaderRow(false, false, 0, "*"); got != "" {
		t.Errorf("empty list row = %q", got)
	}
	if got := loaderRow(false, true, 3, "*"); got != "" {
		t.Errorf("idle row = %q", got)
	}
}

func TestImageStatus(t *testing.T) {
	tests := []struct {
		in   imageload.Result
		want string
	}{
		{imageload.Result{State: imageload.Hidden}, ""},
		{imageload.Result{State: imageload.Pending}, "bild laddas…"},
		{imageload.Result{State: imageload.Loaded, Width: 600, Height: 400}, "bild 600×400"},
		{imageload.Result{State: imageload.Loaded}, "bild"},
		{imageload.Result{State: imageload.Failed}, "bild saknas"},
	}
	for _, tt := range tests {
		if got := imageStatus(tt.in); got != tt.want {
			t.Errorf("imageStatus(%v) = %q, want %q", tt.in.State, got, tt.want)
		}
	}
}

func TestFilterLabel(t *testing.T) {
	if got := filterLabel(domain.DefaultFilters()); got != "Alla regioner · 70%+" {
		t.Fatalf("default label = %q", got)
	}
	f := domain.DefaultFilters().WithRegion("Skåne").ToggleTopic("Miljö").ToggleSource("SVT").WithMinScore(0.9)
	if got := filterLabel(f); got != "Skåne · Miljö · SVT · 90%+" {
		t.Fatalf("label = %q", got)
	}
}

func TestSliderEnds(t *testing.T) {
	low := renderSlider(domain.MinScoreFloor, 11)
	high := renderSlider(domain.MinScoreCeil, 11)
	if !strings.HasPrefix(low, "50% ●") {
		t.Fatalf("floor slider = %q", low)
	}
	if !strings.HasSuffix(high, "● 100%") {
		t.Fatalf("ceiling slider = %q", high)
	}
}

func TestNextTabWraps(t *testing.T) {
	if nextTab(feed.TabFeed) != feed.TabUserFeed || nextTab(feed.TabRegional) != feed.TabFeed {
		t.Fatalf("unexpected tab order")
	}
}

func TestFilterPopoverScoreBounds(t *testing.T) {
	p := &filterPopover{field: fieldScore}
	top := domain.DefaultFilters().WithMinScore(1.0)
	if res := p.handle("right", top, filterOptions{}); res.action != actionNone {
		t.Fatalf("slider past ceiling should be a no-op, got %+v", res)
	}
	bottom := domain.DefaultFilters().WithMinScore(0.5)
	if res := p.handle("left", bottom, filterOptions{}); res.action != actionNone {
		t.Fatalf("slider past floor should be a no-op, got %+v", res)
	}
	res := p.handle("left", domain.DefaultFilters(), filterOptions{})
	if res.action != actionApply || res.change.kind != changeScore || res.change.score != 0.65 {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestFilterPopoverNamesTransitions(t *testing.T) {
	opts := filterOptions{regions: []string{"Skåne"}, topics: []string{"Miljö"}, sources: []string{"SVT"}}
	f := domain.DefaultFilters()

	p := &filterPopover{field: fieldRegion}
	if res := p.handle("right", f, opts); res.change != (filterChange{kind: changeRegion, name: "Skåne"}) {
		t.Fatalf("region step = %+v", res)
	}
	if res := p.handle("left", f.WithRegion("Skåne"), opts); res.change != (filterChange{kind: changeRegion, name: domain.AllRegions}) {
		t.Fatalf("region step back = %+v", res)
	}
	p.field = fieldTopics
	if res := p.handle("enter", f, opts); res.change != (filterChange{kind: changeTopic, name: "Miljö"}) {
		t.Fatalf("topic chip = %+v", res)
	}
	p.field = fieldSources
	if res := p.handle(" ", f, opts); res.change != (filterChange{kind: changeSource, name: "SVT"}) {
		t.Fatalf("source chip = %+v", res)
	}
}

func TestFilterPopoverButtons(t *testing.T) {
	p := &filterPopover{field: fieldButtons}
	if res := p.handle("enter", domain.DefaultFilters(), filterOptions{}); res.action != actionReset {
		t.Fatalf("first button should reset, got %+v", res)
	}
	p.handle("right", domain.DefaultFilters(), filterOptions{})
	if res := p.handle("enter", domain.DefaultFilters(), filterOptions{}); res.action != actionClose {
		t.Fatalf("second button should close, got %+v", res)
	}
}
