package formatter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderScoreBar(t *testing.T) {
	tests := []struct {
		name   string
		score  float64
		width  int
		filled int
		label  string
	}{
		{"empty", 0, 10, 0, "  0.0"},
		{"half", 50, 10, 5, " 50.0"},
		{"full", 100, 10, 10, "100.0"},
		{"over 100 clamps", 150, 10, 10, "100.0"},
		{"negative clamps", -5, 10, 0, "  0.0"},
		{"tiny width clamps to 2", 50, 1, 1, " 50.0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RenderScoreBar(tt.score, tt.width)
			assert.Equal(t, tt.filled, strings.Count(got, filledBlock))
			assert.True(t, strings.HasSuffix(got, tt.label), got)
		})
	}
}
