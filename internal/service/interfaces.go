package service

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/studysync/internal/domain"
)

// ErrAnalysisTimeout reports that frame analysis exceeded the configured
// bound. The frame is discarded and the session is unchanged.
var ErrAnalysisTimeout = errors.New("frame analysis timed out")

// FrameAnalyzer turns raw image bytes into a FrameResult.
// vision.Analyzer is the production implementation.
type FrameAnalyzer interface {
	Analyze(ctx context.Context, data []byte) (domain.FrameResult, error)
}

// Feedback is the per-frame response returned to the caller.
type Feedback struct {
	Focused           bool
	AttentionScore    float64
	StudyState        domain.StudyState
	DominantEmotion   domain.Emotion
	EmotionConfidence float64
	BreakRecommended  bool
	Sample            domain.AttentionSample
}

// SessionMetrics is a session together with its samples in arrival order.
type SessionMetrics struct {
	Session *domain.StudySession
	Samples []domain.AttentionSample
}

type SessionService interface {
	StartSession(ctx context.Context, userID string) (*domain.StudySession, error)
	RecordFrame(ctx context.Context, sessionID string, frame domain.FrameResult, now time.Time) (*Feedback, error)
	AnalyzeFrame(ctx context.Context, sessionID string, image []byte, now time.Time) (*Feedback, error)
	EndSession(ctx context.Context, sessionID string, now time.Time) (*domain.SessionSummary, error)
	GetSessionMetrics(ctx context.Context, sessionID string) (*SessionMetrics, error)
	GetSession(ctx context.Context, sessionID string) (*domain.StudySession, error)
	ListSessions(ctx context.Context) ([]*domain.StudySession, error)
}
