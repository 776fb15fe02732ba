package testutil

import (
	"time"

	"github.com/alexanderramin/studysync/internal/domain"
	"github.com/google/uuid"
)

// Session options
type SessionOption func(*domain.StudySession)

func WithStartTime(t time.Time) SessionOption {
	return func(s *domain.StudySession) {
		s.StartTime = t
	}
}

// WithClosed marks the session as ended at end with the given summary.
func WithClosed(end time.Time, summary domain.SessionSummary) SessionOption {
	return func(s *domain.StudySession) {
		s.EndTime = &end
		s.Summary = &summary
	}
}

func NewTestSession(userID string, opts ...SessionOption) *domain.StudySession {
	now := time.Now().UTC()
	s := &domain.StudySession{
		ID:        uuid.New().String(),
		UserID:    userID,
		StartTime: now,
		CreatedAt: now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sample options
type SampleOption func(*domain.AttentionSample)

func WithTimestamp(t time.Time) SampleOption {
	return func(s *domain.AttentionSample) {
		s.Timestamp = t
	}
}

func WithEmotion(e domain.Emotion, confidence float64, state domain.StudyState) SampleOption {
	return func(s *domain.AttentionSample) {
		s.DominantEmotion = e
		s.EmotionConfidence = confidence
		s.StudyState = state
	}
}

func WithUnfocused() SampleOption {
	return func(s *domain.AttentionSample) {
		s.Focused = false
		s.Score = 0
		s.DominantEmotion = ""
		s.EmotionConfidence = 0
		s.StudyState = domain.StateUnknown
	}
}

func WithBreakRecommended() SampleOption {
	return func(s *domain.AttentionSample) {
		s.BreakRecommended = true
	}
}

// NewTestSample builds a focused, neutral sample. Seq is left for the
// repository to assign.
func NewTestSample(sessionID string, score float64, opts ...SampleOption) *domain.AttentionSample {
	s := &domain.AttentionSample{
		ID:                uuid.New().String(),
		SessionID:         sessionID,
		Timestamp:         time.Now().UTC(),
		Score:             score,
		Focused:           true,
		DominantEmotion:   domain.EmotionNeutral,
		EmotionConfidence: 0.9,
		StudyState:        domain.StateZonedOut,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FrameWith returns a focused frame where e dominates with probability p and
// the remainder is split between a second label and nothing. Keep p above
// 1/3 so e stays dominant.
func FrameWith(e domain.Emotion, p float64) domain.FrameResult {
	dist := domain.EmotionDistribution{e: p}
	other := domain.EmotionNeutral
	if e == domain.EmotionNeutral {
		other = domain.EmotionHappy
	}
	if p < 1 {
		dist[other] = (1 - p) / 2
	}
	return domain.FrameResult{Focused: true, Emotions: dist}
}
