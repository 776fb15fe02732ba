package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/studysync/internal/attention"
	"github.com/alexanderramin/studysync/internal/db"
	"github.com/alexanderramin/studysync/internal/domain"
	"github.com/alexanderramin/studysync/internal/repository"
	"github.com/google/uuid"
)

// SessionOptions tunes a session service. AnalyzeTimeout of zero disables the
// caller-side bound on frame analysis.
type SessionOptions struct {
	Tuning         attention.Tuning
	AnalyzeTimeout time.Duration
}

type sessionService struct {
	sessions repository.SessionRepo
	samples  repository.SampleRepo
	uow      db.UnitOfWork
	analyzer FrameAnalyzer

	tuning         attention.Tuning
	scorer         *attention.Scorer
	breaks         *attention.BreakRecommender
	analyzeTimeout time.Duration

	sessionLocks *keyedMutex
	userLocks    *keyedMutex
	observer     UseCaseObserver
	now          func() time.Time
}

func NewSessionService(
	sessions repository.SessionRepo,
	samples repository.SampleRepo,
	uow db.UnitOfWork,
	analyzer FrameAnalyzer,
	opts SessionOptions,
	observers ...UseCaseObserver,
) SessionService {
	return &sessionService{
		sessions:       sessions,
		samples:        samples,
		uow:            uow,
		analyzer:       analyzer,
		tuning:         opts.Tuning,
		scorer:         attention.NewScorer(opts.Tuning),
		breaks:         attention.NewBreakRecommender(opts.Tuning),
		analyzeTimeout: opts.AnalyzeTimeout,
		sessionLocks:   newKeyedMutex(),
		userLocks:      newKeyedMutex(),
		observer:       useCaseObserverOrNoop(observers),
		now:            time.Now,
	}
}

func (s *sessionService) StartSession(ctx context.Context, userID string) (session *domain.StudySession, err error) {
	startedAt := time.Now()
	fields := map[string]any{"user_id": userID}
	var sessionID string
	defer func() { s.observe(ctx, "start_session", sessionID, startedAt, fields, &err) }()

	if userID == "" {
		return nil, errors.New("starting session: user id is required")
	}

	unlock := s.userLocks.Lock(userID)
	defer unlock()

	now := s.now().UTC()
	session = &domain.StudySession{
		ID:        uuid.New().String(),
		UserID:    userID,
		StartTime: now,
		CreatedAt: now,
	}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSessions := repository.NewSQLiteSessionRepo(tx)

		open, err := txSessions.GetOpenByUser(ctx, userID)
		if err == nil {
			return fmt.Errorf("user %s already has open session %s: %w", userID, open.ID, domain.ErrInvalidState)
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		return txSessions.Create(ctx, session)
	})
	if err != nil {
		return nil, err
	}
	sessionID = session.ID
	return session, nil
}

func (s *sessionService) RecordFrame(ctx context.Context, sessionID string, frame domain.FrameResult, now time.Time) (feedback *Feedback, err error) {
	startedAt := time.Now()
	fields := map[string]any{"focused": frame.Focused}
	defer func() { s.observe(ctx, "record_frame", sessionID, startedAt, fields, &err) }()

	unlock := s.sessionLocks.Lock(sessionID)
	defer unlock()

	assessment := s.scorer.Assess(frame)
	sample := domain.AttentionSample{
		ID:                uuid.New().String(),
		SessionID:         sessionID,
		Timestamp:         now.UTC(),
		Score:             assessment.Score,
		Focused:           frame.Focused,
		DominantEmotion:   assessment.DominantEmotion,
		EmotionConfidence: assessment.EmotionConfidence,
		StudyState:        assessment.StudyState,
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSessions := repository.NewSQLiteSessionRepo(tx)
		txSamples := repository.NewSQLiteSampleRepo(tx)

		session, err := txSessions.GetByID(ctx, sessionID)
		if err != nil {
			return sessionLookupError(sessionID, err)
		}
		if !session.IsOpen() {
			return fmt.Errorf("recording frame on closed session %s: %w", sessionID, domain.ErrInvalidState)
		}

		history, err := txSamples.ListBySession(ctx, sessionID)
		if err != nil {
			return err
		}
		history = append(history, sample)
		sample.BreakRecommended = s.breaks.ShouldRecommend(history, now)

		return txSamples.Append(ctx, &sample)
	})
	if err != nil {
		return nil, err
	}

	fields["score"] = sample.Score
	fields["seq"] = sample.Seq
	fields["break_recommended"] = sample.BreakRecommended
	return &Feedback{
		Focused:           sample.Focused,
		AttentionScore:    sample.Score,
		StudyState:        sample.StudyState,
		DominantEmotion:   sample.DominantEmotion,
		EmotionConfidence: sample.EmotionConfidence,
		BreakRecommended:  sample.BreakRecommended,
		Sample:            sample,
	}, nil
}

func (s *sessionService) AnalyzeFrame(ctx context.Context, sessionID string, image []byte, now time.Time) (feedback *Feedback, err error) {
	startedAt := time.Now()
	fields := map[string]any{"bytes": len(image)}
	defer func() { s.observe(ctx, "analyze_frame", sessionID, startedAt, fields, &err) }()

	// Reject unknown or closed sessions before paying for inference.
	// RecordFrame re-checks under the session lock.
	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.IsOpen() {
		return nil, fmt.Errorf("analyzing frame for closed session %s: %w", sessionID, domain.ErrInvalidState)
	}

	frame, err := s.analyze(ctx, image)
	if err != nil {
		return nil, err
	}
	fields["analysis_ms"] = time.Since(startedAt).Milliseconds()

	return s.RecordFrame(ctx, sessionID, frame, now)
}

type analysisResult struct {
	frame domain.FrameResult
	err   error
}

// analyze runs the analyzer, bounded by analyzeTimeout when set. The bound
// holds even if the analyzer ignores ctx.
func (s *sessionService) analyze(ctx context.Context, image []byte) (domain.FrameResult, error) {
	if s.analyzeTimeout <= 0 {
		return s.analyzer.Analyze(ctx, image)
	}

	ctx, cancel := context.WithTimeout(ctx, s.analyzeTimeout)
	defer cancel()

	done := make(chan analysisResult, 1)
	go func() {
		frame, err := s.analyzer.Analyze(ctx, image)
		done <- analysisResult{frame: frame, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return domain.FrameResult{}, fmt.Errorf("%w after %s: %v", ErrAnalysisTimeout, s.analyzeTimeout, res.err)
		}
		return res.frame, res.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return domain.FrameResult{}, fmt.Errorf("%w after %s", ErrAnalysisTimeout, s.analyzeTimeout)
		}
		return domain.FrameResult{}, ctx.Err()
	}
}

func (s *sessionService) EndSession(ctx context.Context, sessionID string, now time.Time) (summary *domain.SessionSummary, err error) {
	startedAt := time.Now()
	fields := map[string]any{}
	defer func() { s.observe(ctx, "end_session", sessionID, startedAt, fields, &err) }()

	unlock := s.sessionLocks.Lock(sessionID)
	defer unlock()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSessions := repository.NewSQLiteSessionRepo(tx)
		txSamples := repository.NewSQLiteSampleRepo(tx)

		session, err := txSessions.GetByID(ctx, sessionID)
		if err != nil {
			return sessionLookupError(sessionID, err)
		}
		if !session.IsOpen() {
			return fmt.Errorf("ending session %s: %w", sessionID, domain.ErrInvalidState)
		}

		samples, err := txSamples.ListBySession(ctx, sessionID)
		if err != nil {
			return err
		}
		fields["samples"] = len(samples)

		computed := attention.Summarize(s.tuning, session.StartTime, now.UTC(), samples)
		if err := session.Close(now.UTC(), computed); err != nil {
			return err
		}
		if err := txSessions.Close(ctx, session); err != nil {
			return err
		}
		summary = &computed
		return nil
	})
	if err != nil {
		return nil, err
	}

	fields["average_attention_score"] = summary.AverageAttentionScore
	fields["recommended_break_min"] = summary.RecommendedBreakMin
	return summary, nil
}

func (s *sessionService) GetSessionMetrics(ctx context.Context, sessionID string) (*SessionMetrics, error) {
	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	samples, err := s.samples.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("loading samples for session %s: %w", sessionID, err)
	}
	return &SessionMetrics{Session: session, Samples: samples}, nil
}

func (s *sessionService) GetSession(ctx context.Context, sessionID string) (*domain.StudySession, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, sessionLookupError(sessionID, err)
	}
	return session, nil
}

func (s *sessionService) ListSessions(ctx context.Context) ([]*domain.StudySession, error) {
	return s.sessions.List(ctx)
}

func sessionLookupError(sessionID string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("session %s: %w", sessionID, domain.ErrSessionNotFound)
	}
	return err
}
