package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/studysync/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// ScoreStyle colors an attention score: red below 40, yellow below 60,
// green otherwise. The bands follow the break tiers.
func ScoreStyle(score float64) lipgloss.Style {
	switch {
	case score < 40:
		return StyleRed
	case score < 60:
		return StyleYellow
	default:
		return StyleGreen
	}
}

// StudyStateColor returns the style for a study state label.
func StudyStateColor(state domain.StudyState) lipgloss.Style {
	switch state {
	case domain.StateMotivated:
		return StyleGreen
	case domain.StateDistracted:
		return StyleYellow
	case domain.StateFrustrated, domain.StateAnxious:
		return StyleRed
	case domain.StateZonedOut:
		return StyleBlue
	default:
		return StyleDim
	}
}

// StudyStateBadge renders a state as "● Motivated / Engaged".
func StudyStateBadge(state domain.StudyState) string {
	if state == "" {
		state = domain.StateUnknown
	}
	return StudyStateColor(state).Render("● " + string(state))
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
