package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/samvad-hq/gladstart-reader/internal/present"
)

var (
	// Warm palette for dark/light terminals
	colorPrimary   = lipgloss.AdaptiveColor{Light: "#6F4E37", Dark: "#E6C9A8"}
	colorSecondary = lipgloss.AdaptiveColor{Light: "#4A3520", Dark: "#D8CFC4"}
	colorDim       = lipgloss.AdaptiveColor{Light: "#967259", Dark: "#8A7968"}
	colorAccent    = lipgloss.AdaptiveColor{Light: "#E67E22", Dark: "#F39C12"}
	colorBorder    = lipgloss.AdaptiveColor{Light: "#DCCFC0", Dark: "#4A3F35"}
	colorActiveBdr = lipgloss.AdaptiveColor{Light: "#E67E22", Dark: "#F39C12"}
	colorTabBg     = lipgloss.AdaptiveColor{Light: "#F5EFE7", Dark: "#2E261F"}
	colorStatusBg  = lipgloss.AdaptiveColor{Light: "#F5EFE7", Dark: "#241D17"}
	colorHigh      = lipgloss.AdaptiveColor{Light: "#1E8449", Dark: "#2ECC71"}
	colorMedium    = lipgloss.AdaptiveColor{Light: "#B9770E", Dark: "#F1C40F"}
	colorLow       = lipgloss.AdaptiveColor{Light: "#7F8C8D", Dark: "#95A5A6"}

	logoStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent).
			PaddingLeft(1).
			PaddingRight(1)

	pageTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	badgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(colorAccent).
			Padding(0, 1)

	tabActiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(colorAccent).
			Padding(0, 1).
			Bold(true)

	tabInactiveStyle = lipgloss.NewStyle().
				Foreground(colorSecondary).
				Background(colorTabBg).
				Padding(0, 1)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			PaddingLeft(1).
			PaddingRight(1)

	cardActiveStyle = cardStyle.BorderForeground(colorActiveBdr)

	itemTitleStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	itemSourceStyle = lipgloss.NewStyle().
			Foreground(colorAccent)

	itemBodyStyle = lipgloss.NewStyle().
			Foreground(colorSecondary)

	itemMetaStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	sidebarStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	sidebarActiveStyle = sidebarStyle.BorderForeground(colorActiveBdr)

	newsletterStyle = lipgloss.NewStyle().
			Foreground(colorSecondary).
			Background(colorTabBg).
			Padding(0, 1)

	popoverStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorActiveBdr).
			Padding(1, 2)

	chipActiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(colorPrimary).
			Padding(0, 1)

	chipInactiveStyle = lipgloss.NewStyle().
				Foreground(colorSecondary).
				Background(colorTabBg).
				Padding(0, 1)

	focusMarkStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true)

	disabledStyle = lipgloss.NewStyle().
			Foreground(colorDim).
			Faint(true)

	statusBarStyle = lipgloss.NewStyle().
			Background(colorStatusBg).
			Foreground(colorSecondary).
			PaddingLeft(1).
			PaddingRight(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#C0392B")).
			Bold(true)

	spinnerStyle = lipgloss.NewStyle().
			Foreground(colorAccent)

	helpCardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorActiveBdr).
			Padding(1, 3)
)

// scoreStyle colors a positivity percentage by its class.
func scoreStyle(score float64) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)
	switch present.ClassFor(score) {
	case present.ScoreHigh:
		return base.Foreground(colorHigh)
	case present.ScoreMedium:
		return base.Foreground(colorMedium)
	default:
		return base.Foreground(colorLow)
	}
}

func renderScore(score float64) string {
	return scoreStyle(score).Render(present.Percent(score))
}
