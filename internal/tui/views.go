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
	postHeight       = 8
	regionCardWidth  = 30
	regionCardHeight = 6
)

func pageHeader(title string, badge bool) string {
	out := pageTitleStyle.Render(title)
	if badge {
		out += " " + badgeStyle.Render("Kommer snart")
	}
	return out
}

func renderPost(p domain.UserPost, selected bool, width int, avatar, image imageload.Result, video bool) string {
	inner := width - 4
	if inner < 10 {
		inner = 10
	}

	glyph := "◯ "
	if avatar.State == imageload.Loaded {
		glyph = "◉ "
	}
	author := glyph + itemSourceStyle.Render(p.Username)
	lines := []string{
		author + "  " + itemMetaStyle.Render(present.DateLong(p.Date)),
		itemTitleStyle.Render(present.Truncate(p.Title, inner)),
		itemBodyStyle.Render(present.Truncate(present.PlainText(p.Content), inner)),
	}

	var media []string
	if p.Image != "" {
		media = append(media, imageStatus(image))
	}
	if p.Video != "" {
		if video {
			media = append(media, "video "+present.Truncate(p.Video, inner/2))
		} else {
			media = append(media, "Video kommer snart")
		}
	}
	lines = append(lines, itemMetaStyle.Render(joinNonEmpty(media, " · ")))
	lines = append(lines, itemMetaStyle.Render(fmt.Sprintf("♥ %s   💬 %s   ↗ %s",
		present.Count(p.Likes), present.Count(p.Comments), present.Count(p.Shares))))

	style := cardStyle
	if selected {
		style = cardActiveStyle
	}
	return style.Width(width - 2).Render(strings.Join(lines, "\n"))
}

func renderRegionCard(r domain.Region, selected, selectable bool) string {
	inner := regionCardWidth - 4
	name := itemTitleStyle.Render(present.Truncate(r.Name, inner-6))
	gap := inner - lipgloss.Width(name) - lipgloss.Width(present.Percent(r.Positivity))
	if gap < 1 {
		gap = 1
	}
	btn := disabledStyle.Render("Utforska landskap")
	if selectable {
		btn = chipInactiveStyle.Render("Utforska landskap")
		if selected {
			btn = tabActiveStyle.Render("Utforska landskap")
		}
	}
	body := strings.Join([]string{
		name + strings.Repeat(" ", gap) + renderScore(r.Positivity),
		itemMetaStyle.Render(present.ArticleCount(r.ArticlesCount)),
		btn,
	}, "\n")

	style := cardStyle
	if selected {
		style = cardActiveStyle
	}
	return style.Width(regionCardWidth - 2).Render(body)
}

// regionColumns is how many region cards fit side by side.
func regionColumns(width int) int {
	n := width / regionCardWidth
	if n < 1 {
		return 1
	}
	return n
}

func renderRegionGrid(regions []domain.Region, cursor, width, height int, selectable bool) string {
	if len(regions) == 0 {
		return itemMetaStyle.Render("Inga landskap att visa")
	}
	cols := regionColumns(width)
	rowsVisible := height / regionCardHeight
	if rowsVisible < 1 {
		rowsVisible = 1
	}
	cursorRow := cursor / cols
	firstRow := 0
	if cursorRow >= rowsVisible {
		firstRow = cursorRow - rowsVisible + 1
	}

	var rows []string
	for row := firstRow; row < firstRow+rowsVisible; row++ {
		start := row * cols
		if start >= len(regions) {
			break
		}
		end := start + cols
		if end > len(regions) {
			end = len(regions)
		}
		cards := make([]string, 0, cols)
		for i := start; i < end; i++ {
			cards = append(cards, renderRegionCard(regions[i], i == cursor, selectable))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderSearchPopover(comingSoon bool) string {
	title := pageTitleStyle.Render("Sök")
	if comingSoon {
		title += " " + badgeStyle.Render("Kommer snart")
	}
	input := disabledStyle.Render("[ Sök efter nyheter... ]")
	body := lipgloss.NewStyle().Foreground(colorPrimary).Padding(2, 4).Render("Sökfunktionen kommer snart")
	return popoverStyle.Render(title + "\n\n" + input + "\n" + body)
}

func renderHelp() string {
	title := lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Render("GladStart")
	dim := itemMetaStyle

	help := title + dim.Render(" · Kortkommandon") + "\n\n" +
		dim.Render("Navigering") + "\n" +
		"  1/2/3, tab    Nyheter / Användarinlägg / Landskap\n" +
		"  j/k, ↑/↓      Flytta markören\n" +
		"  g/G           Första / sista\n" +
		"  s             Växla fokus till landskapslistan\n\n" +
		dim.Render("Åtgärder") + "\n" +
		"  o, enter      Öppna artikeln i webbläsaren\n" +
		"  n             Öppna nyhetsbrevet\n" +
		"  f             Filter\n" +
		"  /             Sök\n" +
		"  r             Återställ filter\n\n" +
		dim.Render("Filter") + "\n" +
		"  j/k           Byt fält\n" +
		"  ←/→           Ändra region, poäng eller markerad etikett\n" +
		"  space/enter   Växla etikett / välj knapp\n" +
		"  esc, f        Stäng\n\n" +
		dim.Render("Allmänt") + "\n" +
		"  ?             Visa/dölj hjälp\n" +
		"  q, ctrl+c     Avsluta"

	return helpCardStyle.Render(help)
}
