package formatter

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/alexanderramin/studysync/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		titleRendered := StyleHeader.Render(strings.ToUpper(title))
		return boxStyle.Render(titleRendered + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// HumanDate returns "Today", "Yesterday", or an absolute date relative to now.
func HumanDate(t, now time.Time) string {
	t = t.In(now.Location())
	y1, m1, d1 := now.Date()
	y2, m2, d2 := t.Date()
	if y1 == y2 && m1 == m2 && d1 == d2 {
		return "Today"
	}
	y3, m3, d3 := now.AddDate(0, 0, -1).Date()
	if y2 == y3 && m2 == m3 && d2 == d3 {
		return "Yesterday"
	}
	return t.Format("Jan 2, 2006")
}

// HumanTimestamp returns a short relative timestamp such as "5m ago".
func HumanTimestamp(t, now time.Time) string {
	diff := now.Sub(t)
	switch {
	case diff < 0:
		return HumanDate(t, now)
	case diff < time.Minute:
		return "Just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	default:
		return HumanDate(t, now)
	}
}

// ClockTime renders t as local HH:MM:SS.
func ClockTime(t time.Time) string {
	return t.Local().Format("15:04:05")
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// FormatMinutes renders fractional minutes as "1h 5m", "12m" or "40s".
func FormatMinutes(min float64) string {
	if min <= 0 {
		return "0m"
	}
	if min < 1 {
		return fmt.Sprintf("%ds", int(math.Round(min*60)))
	}
	total := int(math.Round(min))
	h := total / 60
	m := total % 60
	if h > 0 && m > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	if h > 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dm", m)
}

// FormatScore renders a 0–100 score with one decimal, colored by band.
func FormatScore(score float64) string {
	return ScoreStyle(score).Render(fmt.Sprintf("%.1f", score))
}

// FormatConfidence renders a probability as a percentage.
func FormatConfidence(p float64) string {
	return fmt.Sprintf("%.0f%%", p*100)
}

// EmotionLabel renders the dominant emotion, or a dim dash for no face.
func EmotionLabel(e domain.Emotion) string {
	if e == "" {
		return Dim("--")
	}
	return StylePurple.Render(string(e))
}
