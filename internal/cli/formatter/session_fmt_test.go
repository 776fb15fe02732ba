package formatter

import (
	"testing"
	"time"

	"github.com/alexanderramin/studysync/internal/attention"
	"github.com/alexanderramin/studysync/internal/domain"
	"github.com/alexanderramin/studysync/internal/service"
	"github.com/stretchr/testify/assert"
)

var fmtNow = time.Date(2026, 2, 7, 12, 0, 0, 0, time.UTC)

func TestFormatFeedback(t *testing.T) {
	fb := &service.Feedback{
		Focused:           true,
		AttentionScore:    40,
		StudyState:        domain.StateMotivated,
		DominantEmotion:   domain.EmotionHappy,
		EmotionConfidence: 0.82,
		Sample:            domain.AttentionSample{Seq: 3, Timestamp: fmtNow},
	}
	out := FormatFeedback(fb)
	assert.Contains(t, out, "Focused")
	assert.Contains(t, out, "40.0")
	assert.Contains(t, out, "Motivated / Engaged")
	assert.Contains(t, out, "happy")
	assert.Contains(t, out, "82%")
	assert.Contains(t, out, "#3")
	assert.NotContains(t, out, "break")

	fb.BreakRecommended = true
	assert.Contains(t, FormatFeedback(fb), "Time for a short break")
}

func TestFormatFeedback_NoFace(t *testing.T) {
	out := FormatFeedback(&service.Feedback{StudyState: domain.StateUnknown})
	assert.Contains(t, out, "No face detected")
	assert.Contains(t, out, "Unknown")
	assert.NotContains(t, out, "%")
}

func TestFormatSummary(t *testing.T) {
	out := FormatSummary(domain.SessionSummary{TotalDurationMin: 95, AverageAttentionScore: 60, RecommendedBreakMin: 5})
	assert.Contains(t, out, "1h 35m")
	assert.Contains(t, out, "60.0")
	assert.Contains(t, out, "5 min")
}

func TestFormatSessionList(t *testing.T) {
	assert.Contains(t, FormatSessionList(nil, fmtNow), "No sessions yet")

	end := fmtNow.Add(-time.Hour)
	sessions := []*domain.StudySession{
		{ID: "aaaaaaaa-open", UserID: "alice", StartTime: fmtNow.Add(-10 * time.Minute)},
		{
			ID: "bbbbbbbb-closed", UserID: "bob", StartTime: fmtNow.Add(-2 * time.Hour), EndTime: &end,
			Summary: &domain.SessionSummary{TotalDurationMin: 60, AverageAttentionScore: 35.5, RecommendedBreakMin: 15},
		},
	}
	out := FormatSessionList(sessions, fmtNow)
	assert.Contains(t, out, "SESSIONS")
	assert.Contains(t, out, "aaaaaaaa")
	assert.Contains(t, out, "open")
	assert.Contains(t, out, "10m")
	assert.Contains(t, out, "closed")
	assert.Contains(t, out, "35.5")
	assert.Contains(t, out, "15m")
}

func TestFormatMetrics(t *testing.T) {
	m := &service.SessionMetrics{
		Session: &domain.StudySession{ID: "s1", UserID: "alice", StartTime: fmtNow.Add(-time.Minute)},
		Samples: []domain.AttentionSample{
			{Seq: 1, Timestamp: fmtNow, Score: 50, Focused: true, DominantEmotion: domain.EmotionNeutral, EmotionConfidence: 0.9, StudyState: domain.StateZonedOut},
			{Seq: 2, Timestamp: fmtNow, Score: 0, StudyState: domain.StateUnknown, BreakRecommended: true},
		},
	}
	out := FormatMetrics(m, fmtNow)
	assert.Contains(t, out, "SESSION METRICS")
	assert.Contains(t, out, "neutral")
	assert.Contains(t, out, "90%")
	assert.Contains(t, out, "Zoned Out / Passive")
	assert.Contains(t, out, "▲")
	assert.Contains(t, out, "2 frames, mean score 25.0")

	m.Samples = nil
	assert.Contains(t, FormatMetrics(m, fmtNow), "No frames recorded.")
}

func TestFormatLabels(t *testing.T) {
	out := FormatLabels(attention.DefaultTuning())
	for _, l := range domain.EmotionLabels {
		assert.Contains(t, out, string(l))
	}
	assert.Contains(t, out, "Frustrated")
	assert.Contains(t, out, "Break after 10 frames when the 5m0s mean drops below 40.")
}
