package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderScoreBar renders an attention score as [████░░░░]  45.0.
// The bar is colored by ScoreStyle.
func RenderScoreBar(score float64, width int) string {
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	if width < 2 {
		width = 2
	}

	filled := int(score / 100 * float64(width))
	if filled > width {
		filled = width
	}
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	return fmt.Sprintf("[%s] %5.1f", ScoreStyle(score).Render(bar), score)
}
