package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/samvad-hq/gladstart-reader/internal/domain"
	"github.com/samvad-hq/gladstart-reader/internal/present"
)

type filterField int

const (
	fieldRegion filterField = iota
	fieldTopics
	fieldSources
	fieldScore
	fieldButtons
	fieldCount
)

type filterAction int

const (
	actionNone filterAction = iota
	actionApply
	actionReset
	actionClose
)

const (
	buttonReset = iota
	buttonApply
)

// filterOptions are the choices offered by the popover.
type filterOptions struct {
	regions []string
	topics  []string
	sources []string
}

type changeKind int

const (
	changeRegion changeKind = iota
	changeTopic
	changeSource
	changeScore
)

// filterChange names one controller transition; the popover never builds
// filter states itself.
type filterChange struct {
	kind  changeKind
	name  string
	score float64
}

type filterResult struct {
	action filterAction
	change filterChange
}

// filterPopover holds cursor state only; filter values live in the
// controller.
type filterPopover struct {
	field        filterField
	topicCursor  int
	sourceCursor int
	buttonCursor int
}

func (p *filterPopover) handle(key string, f domain.FilterState, opts filterOptions) filterResult {
	none := filterResult{action: actionNone}
	switch key {
	case "esc", "f", "q":
		return filterResult{action: actionClose}
	case "up", "k", "shift+tab":
		p.field = (p.field + fieldCount - 1) % fieldCount
		return none
	case "down", "j", "tab":
		p.field = (p.field + 1) % fieldCount
		return none
	case "left", "h":
		return p.step(-1, f, opts)
	case "right", "l":
		return p.step(1, f, opts)
	case " ", "enter":
		return p.activate(opts)
	}
	return none
}

func (p *filterPopover) step(dir int, f domain.FilterState, opts filterOptions) filterResult {
	switch p.field {
	case fieldRegion:
		choices := append([]string{domain.AllRegions}, opts.regions...)
		idx := 0
		for i, c := range choices {
			if c == f.Region {
				idx = i
				break
			}
		}
		idx = (idx + dir + len(choices)) % len(choices)
		return filterResult{action: actionApply, change: filterChange{kind: changeRegion, name: choices[idx]}}
	case fieldTopics:
		p.topicCursor = clampIndex(p.topicCursor+dir, len(opts.topics))
	case fieldSources:
		p.sourceCursor = clampIndex(p.sourceCursor+dir, len(opts.sources))
	case fieldScore:
		next := domain.ClampScore(f.MinScore + float64(dir)*domain.MinScoreStep)
		if next == f.MinScore {
			return filterResult{action: actionNone}
		}
		return filterResult{action: actionApply, change: filterChange{kind: changeScore, score: next}}
	case fieldButtons:
		p.buttonCursor = clampIndex(p.buttonCursor+dir, 2)
	}
	return filterResult{action: actionNone}
}

func (p *filterPopover) activate(opts filterOptions) filterResult {
	switch p.field {
	case fieldTopics:
		if p.topicCursor < len(opts.topics) {
			return filterResult{action: actionApply, change: filterChange{kind: changeTopic, name: opts.topics[p.topicCursor]}}
		}
	case fieldSources:
		if p.sourceCursor < len(opts.sources) {
			return filterResult{action: actionApply, change: filterChange{kind: changeSource, name: opts.sources[p.sourceCursor]}}
		}
	case fieldButtons:
		if p.buttonCursor == buttonReset {
			return filterResult{action: actionReset}
		}
		return filterResult{action: actionClose}
	}
	return filterResult{action: actionNone}
}

func (p *filterPopover) render(f domain.FilterState, opts filterOptions, comingSoon bool) string {
	var b strings.Builder

	title := pageTitleStyle.Render("Filter")
	if comingSoon {
		title += " " + badgeStyle.Render("Kommer snart")
	}
	b.WriteString(title + "\n\n")

	region := "Alla regioner"
	if !f.AllRegionsSelected() {
		region = f.Region
	}
	b.WriteString(p.label(fieldRegion, "Region") + "\n")
	b.WriteString("  ‹ " + region + " ›\n\n")

	b.WriteString(p.label(fieldTopics, "Ämnen") + "\n")
	b.WriteString("  " + renderChips(opts.topics, f.HasTopic, p.field == fieldTopics, p.topicCursor) + "\n\n")

	b.WriteString(p.label(fieldSources, "Källor") + "\n")
	b.WriteString("  " + renderChips(opts.sources, f.HasSource, p.field == fieldSources, p.sourceCursor) + "\n\n")

	b.WriteString(p.label(fieldScore, present.Threshold(f.MinScore)) + "\n")
	b.WriteString("  " + renderSlider(f.MinScore, 21) + "\n\n")

	reset := chipInactiveStyle.Render("Återställ")
	apply := chipInactiveStyle.Render("Tillämpa filter")
	if p.field == fieldButtons {
		if p.buttonCursor == buttonReset {
			reset = tabActiveStyle.Render("Återställ")
		} else {
			apply = tabActiveStyle.Render("Tillämpa filter")
		}
	}
	b.WriteString(reset + "  " + apply)

	return popoverStyle.Render(b.String())
}

func (p *filterPopover) label(field filterField, text string) string {
	if p.field == field {
		return focusMarkStyle.Render("› " + text)
	}
	return itemMetaStyle.Render("  " + text)
}

func renderChips(names []string, active func(string) bool, focused bool, cursor int) string {
	if len(names) == 0 {
		return itemMetaStyle.Render("–")
	}
	parts := make([]string, 0, len(names))
	for i, n := range names {
		label := n
		if focused && i == cursor {
			label = "[" + n + "]"
		}
		style := chipInactiveStyle
		if active(n) {
			style = chipActiveStyle
		}
		parts = append(parts, style.Render(label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, strings.Join(parts, " "))
}

// renderSlider draws the 0.5..1.0 range as a bar of width cells.
func renderSlider(v float64, width int) string {
	if width < 2 {
		width = 2
	}
	frac := (v - domain.MinScoreFloor) / (domain.MinScoreCeil - domain.MinScoreFloor)
	pos := int(frac*float64(width-1) + 0.5)
	if pos < 0 {
		pos = 0
	}
	if pos > width-1 {
		pos = width - 1
	}
	return "50% " + strings.Repeat("─", pos) + focusMarkStyle.Render("●") + strings.Repeat("─", width-1-pos) + " 100%"
}

func clampIndex(i, n int) int {
	if n <= 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
