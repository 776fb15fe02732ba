package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/alexanderramin/studysync/internal/domain"
)

// UseCaseEvent captures lightweight execution telemetry for a service use case.
type UseCaseEvent struct {
	Name      string
	SessionID string
	Duration  time.Duration
	Success   bool
	Err       error
	Fields    map[string]any
	StartedAt time.Time
}

// UseCaseObserver receives use-case execution events.
type UseCaseObserver interface {
	ObserveUseCase(ctx context.Context, event UseCaseEvent)
}

// NoopUseCaseObserver ignores all events.
type NoopUseCaseObserver struct{}

func (NoopUseCaseObserver) ObserveUseCase(context.Context, UseCaseEvent) {}

type logUseCaseObserver struct {
	logger *slog.Logger
}

// NewLogUseCaseObserver writes service use-case events through logger.
// Caller mistakes (unknown or closed session) log at Warn, everything else
// that fails at Error.
func NewLogUseCaseObserver(logger *slog.Logger) UseCaseObserver {
	if logger == nil {
		return NoopUseCaseObserver{}
	}
	return &logUseCaseObserver{logger: logger}
}

func (o *logUseCaseObserver) ObserveUseCase(ctx context.Context, event UseCaseEvent) {
	attrs := make([]any, 0, 10+len(event.Fields)*2)
	attrs = append(attrs,
		"use_case", event.Name,
		"duration_ms", event.Duration.Milliseconds(),
		"success", event.Success,
	)
	if event.SessionID != "" {
		attrs = append(attrs, "session_id", event.SessionID)
	}
	for k, v := range event.Fields {
		attrs = append(attrs, k, v)
	}
	if event.Err == nil {
		o.logger.InfoContext(ctx, "service_use_case", attrs...)
		return
	}
	attrs = append(attrs, "error", event.Err.Error())
	if errors.Is(event.Err, domain.ErrSessionNotFound) || errors.Is(event.Err, domain.ErrInvalidState) {
		o.logger.WarnContext(ctx, "service_use_case", attrs...)
		return
	}
	o.logger.ErrorContext(ctx, "service_use_case", attrs...)
}

func useCaseObserverOrNoop(observers []UseCaseObserver) UseCaseObserver {
	for _, obs := range observers {
		if obs != nil {
			return obs
		}
	}
	return NoopUseCaseObserver{}
}

// observe emits one event for a use case started at startedAt. Call it
// deferred with a pointer to the named error result.
func (s *sessionService) observe(ctx context.Context, name, sessionID string, startedAt time.Time, fields map[string]any, errp *error) {
	err := *errp
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		SessionID: sessionID,
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Success:   err == nil,
		Err:       err,
		Fields:    fields,
	})
}
