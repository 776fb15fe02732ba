package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidState indicates an operation on a session in the wrong
	// lifecycle phase (record or end on a closed session, a second open
	// session for the same user).
	ErrInvalidState = errors.New("invalid session state")

	// ErrSessionNotFound indicates an unknown session identifier.
	ErrSessionNotFound = errors.New("session not found")
)

// StudySession is one monitored study period. It is open while EndTime is
// nil and becomes immutable once closed.
type StudySession struct {
	ID        string
	UserID    string
	StartTime time.Time
	EndTime   *time.Time
	Summary   *SessionSummary
	CreatedAt time.Time
}

// SessionSummary holds the statistics computed when a session closes.
type SessionSummary struct {
	TotalDurationMin      float64
	AverageAttentionScore float64
	RecommendedBreakMin   int
}

func (s *StudySession) IsOpen() bool {
	return s.EndTime == nil
}

// Close transitions the session to its terminal state.
func (s *StudySession) Close(end time.Time, summary SessionSummary) error {
	if !s.IsOpen() {
		return fmt.Errorf("closing session %s: %w", s.ID, ErrInvalidState)
	}
	s.EndTime = &end
	s.Summary = &summary
	return nil
}

// AttentionSample is the record of one analyzed frame within a session.
// Seq is assigned on append and preserves arrival order.
type AttentionSample struct {
	ID                string
	SessionID         string
	Seq               int
	Timestamp         time.Time
	Score             float64
	Focused           bool
	DominantEmotion   Emotion
	EmotionConfidence float64
	StudyState        StudyState
	BreakRecommended  bool
}
