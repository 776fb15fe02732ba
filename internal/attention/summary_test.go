package attention

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexanderramin/studysync/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scored(scores ...float64) []domain.AttentionSample {
	return samplesEvery(breakNow, time.Minute, scores...)
}

func TestSummarize_HighTierBoundary(t *testing.T) {
	start := breakNow.Add(-45 * time.Minute)
	sum := Summarize(DefaultTuning(), start, breakNow, scored(80, 60, 40))

	assert.Equal(t, 60.0, sum.AverageAttentionScore)
	assert.Equal(t, 5, sum.RecommendedBreakMin, "average of exactly 60 is high attention")
	assert.Equal(t, 45.0, sum.TotalDurationMin)
}

func TestSummarize_NoSamples(t *testing.T) {
	sum := Summarize(DefaultTuning(), breakNow.Add(-90*time.Second), breakNow, nil)

	assert.Equal(t, 0.0, sum.AverageAttentionScore)
	assert.Equal(t, 15, sum.RecommendedBreakMin)
	assert.Equal(t, 1.5, sum.TotalDurationMin)
}

func TestSummarize_MeanIsOrderInvariant(t *testing.T) {
	a := Summarize(DefaultTuning(), breakNow, breakNow, scored(10, 50, 90, 30))
	b := Summarize(DefaultTuning(), breakNow, breakNow, scored(90, 30, 10, 50))
	assert.Equal(t, a.AverageAttentionScore, b.AverageAttentionScore)
	assert.Equal(t, 45.0, a.AverageAttentionScore)
}

func TestRecommendBreakMinutes_Tiers(t *testing.T) {
	tun := DefaultTuning()
	f := func(v float64) *float64 { return &v }

	assert.Equal(t, 15, RecommendBreakMinutes(tun, f(0)))
	assert.Equal(t, 15, RecommendBreakMinutes(tun, f(39.99)))
	assert.Equal(t, 10, RecommendBreakMinutes(tun, f(40)))
	assert.Equal(t, 10, RecommendBreakMinutes(tun, f(59.99)))
	assert.Equal(t, 5, RecommendBreakMinutes(tun, f(60)))
	assert.Equal(t, 5, RecommendBreakMinutes(tun, f(100)))
	assert.Equal(t, 5, RecommendBreakMinutes(tun, nil))
}

func TestDefaultTuning_Valid(t *testing.T) {
	require.NoError(t, DefaultTuning().Validate())
}

func TestTuning_ValidateRejectsBadTables(t *testing.T) {
	tun := DefaultTuning()
	tun.Labels = append(tun.Labels, domain.EmotionHappy)
	tun.BreakWindow = 0
	tun.BreakTiers = []BreakTier{{Below: 60, Minutes: 10}, {Below: 40, Minutes: 15}}
	tun.StudyStates[domain.EmotionHappy] = "Euphoric"

	err := tun.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate label")
	assert.Contains(t, err.Error(), "break_window")
	assert.Contains(t, err.Error(), "ascending")
	assert.Contains(t, err.Error(), "Euphoric")
}

func TestLoadTuning_EmptyPathIsDefault(t *testing.T) {
	tun, err := LoadTuning("")
	require.NoError(t, err)
	assert.Equal(t, DefaultTuning(), tun)
}

func TestLoadTuning_OverlaysFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	content := `
break_threshold: 45
break_window: 2m
break_min_samples: 3
weights:
  neutral: 1.0
  happy: 1.2
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	tun, err := LoadTuning(path)
	require.NoError(t, err)
	assert.Equal(t, 45.0, tun.BreakThreshold)
	assert.Equal(t, 2*time.Minute, tun.BreakWindow)
	assert.Equal(t, 3, tun.BreakMinSamples)
	assert.Equal(t, 1.2, tun.Weights[domain.EmotionHappy])
	assert.Equal(t, 0.4, tun.Weights[domain.EmotionSad], "map keys absent from the file keep their defaults")
	assert.Equal(t, 50.0, tun.BaseScore, "unset keys keep defaults")
}

func TestLoadTuning_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	require.NoError(t, os.WriteFile(path, []byte("break_min_samples: 0\n"), 0o644))

	_, err := LoadTuning(path)
	assert.ErrorContains(t, err, "break_min_samples")

	_, err = LoadTuning(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "reading tuning file")
}
