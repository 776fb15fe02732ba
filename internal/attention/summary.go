package attention

import (
	"time"

	"github.com/alexanderramin/studysync/internal/domain"
)

// Summarize computes the closing statistics of a session. The average is 0.0
// when no samples were recorded, which lands in the lowest break tier.
func Summarize(t Tuning, start, end time.Time, samples []domain.AttentionSample) domain.SessionSummary {
	avg := 0.0
	if len(samples) > 0 {
		var sum float64
		for _, s := range samples {
			sum += s.Score
		}
		avg = sum / float64(len(samples))
	}

	return domain.SessionSummary{
		TotalDurationMin:      end.Sub(start).Minutes(),
		AverageAttentionScore: avg,
		RecommendedBreakMin:   RecommendBreakMinutes(t, &avg),
	}
}

// RecommendBreakMinutes picks the first tier whose bound is above avg.
// A nil average yields DefaultBreakMin.
func RecommendBreakMinutes(t Tuning, avg *float64) int {
	if avg == nil {
		return t.DefaultBreakMin
	}
	for _, tier := range t.BreakTiers {
		if *avg < tier.Below {
			return tier.Minutes
		}
	}
	return t.HighAttentionBreakMin
}
