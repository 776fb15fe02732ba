package attention

import (
	"time"

	"github.com/alexanderramin/studysync/internal/domain"
)

// BreakRecommender decides from a session's sample history whether a break
// should be suggested. The decision is recomputed on every call.
type BreakRecommender struct {
	minSamples int
	window     time.Duration
	threshold  float64
}

func NewBreakRecommender(t Tuning) *BreakRecommender {
	return &BreakRecommender{
		minSamples: t.BreakMinSamples,
		window:     t.BreakWindow,
		threshold:  t.BreakThreshold,
	}
}

// ShouldRecommend requires minSamples samples in total, regardless of age,
// then averages the scores of samples no older than the window relative to
// now. A break is recommended iff that average is strictly below threshold.
func (b *BreakRecommender) ShouldRecommend(samples []domain.AttentionSample, now time.Time) bool {
	if len(samples) < b.minSamples {
		return false
	}

	cutoff := now.Add(-b.window)
	var sum float64
	var n int
	for _, s := range samples {
		if s.Timestamp.Before(cutoff) {
			continue
		}
		sum += s.Score
		n++
	}
	if n == 0 {
		return false
	}
	return sum/float64(n) < b.threshold
}
