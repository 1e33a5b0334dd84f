package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/samvad-hq/gladstart-reader/internal/domain"
	"github.com/samvad-hq/gladstart-reader/internal/imageload"
	"github.com/samvad-hq/gladstart-reader/internal/present"
)

const (
	// border plus four content lines
	cardHeight   = 6
	sidebarWidth = 30

	emptyMessage = "Inga artiklar matchar dina filter. Prova att ändra dina filterval."
	endMessage   = "Inga fler artiklar att visa"
)

// imageStatus renders the textual stand-in for an image.
func imageStatus(r imageload.Result) string {
	switch r.State {
	case imageload.Pending:
		return "bild laddas…"
	case imageload.Loaded:
		if r.Width > 0 && r.Height > 0 {
			return fmt.Sprintf("bild %d×%d", r.Width, r.Height)
		}
		return "bild"
	case imageload.Failed:
		return "bild saknas"
	default:
		return ""
	}
}

func renderArticleCard(a domain.Article, selected bool, width int, img imageload.Result) string {
	inner := width - 4
	if inner < 10 {
		inner = 10
	}

	header := itemSourceStyle.Render(present.Truncate(a.Source.Name, inner-6)) + " " + renderScore(a.PositivityScore)
	title := itemTitleStyle.Render(present.Truncate(a.Title, inner))
	summary := itemBodyStyle.Render(present.Truncate(present.PlainText(a.Summary), inner))

	meta := []string{present.DateShort(a.PublishedDate)}
	if a.Region != nil && a.Region.Name != "" {
		meta = append(meta, "⌖ "+a.Region.Name)
	}
	if s := imageStatus(img); s != "" {
		meta = append(meta, s)
	}
	footer := itemMetaStyle.Render(present.Truncate(joinNonEmpty(meta, " · "), inner))

	style := cardStyle
	if selected {
		style = cardActiveStyle
	}
	return style.Width(width - 2).Render(strings.Join([]string{header, title, summary, footer}, "\n"))
}

func renderEmptyState(width int) string {
	msg := itemBodyStyle.Width(width).Align(lipgloss.Center).Render(emptyMessage)
	btn := lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Render(tabActiveStyle.Render("r  Återställ filter"))
	return "\n" + msg + "\n\n" + btn
}

// loaderRow is the sentinel row below the last card.
func loaderRow(loading, hasMore bool, total int, spin string) string {
	switch {
	case loading:
		return spin + " " + itemMetaStyle.Render("Laddar…")
	case !hasMore && total > 0:
		return itemMetaStyle.Render(endMessage)
	default:
		return ""
	}
}

// visibleCards is how many article cards fit in height rows, leaving one row
// for the loader.
func visibleCards(height int) int {
	n := (height - 1) / cardHeight
	if n < 1 {
		return 1
	}
	return n
}

// scrollOffset keeps cursor inside the window of visible rows.
func scrollOffset(offset, cursor, visible, total int) int {
	if cursor < offset {
		offset = cursor
	}
	if cursor >= offset+visible {
		offset = cursor - visible + 1
	}
	if last := total - visible; offset > last {
		offset = last
	}
	if offset < 0 {
		offset = 0
	}
	return offset
}

func renderSidebar(regions []domain.Region, selected *domain.Region, n int, focused, selectable bool, cursor int) string {
	var b strings.Builder
	b.WriteString(pageTitleStyle.Render("Kommer snart"))
	for i, r := range domain.TopRegions(regions, n) {
		mark := "  "
		if focused && i == cursor {
			mark = focusMarkStyle.Render("› ")
		}
		name := present.Truncate(r.Name, sidebarWidth-14)
		if selected != nil && selected.ID == r.ID {
			name = focusMarkStyle.Render(name)
		} else if !selectable {
			name = disabledStyle.Render(name)
		}
		gap := sidebarWidth - 8 - lipgloss.Width(mark) - lipgloss.Width(name)
		if gap < 1 {
			gap = 1
		}
		b.WriteString("\n" + mark + name + strings.Repeat(" ", gap) + renderScore(r.Positivity))
	}

	style := sidebarStyle
	if focused {
		style = sidebarActiveStyle
	}
	return style.Width(sidebarWidth - 2).Render(b.String())
}

func renderNewsletter(width int) string {
	return newsletterStyle.Width(width).Render("✉ Join GladStart 😊  Prenumerera på nyhetsbrevet: tryck n")
}

func joinNonEmpty(parts []string, sep string) string {
	out := parts[:0:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}
