package repository

import (
	"context"

	"github.com/alexanderramin/studysync/internal/domain"
)

type SessionRepo interface {
	Create(ctx context.Context, s *domain.StudySession) error
	GetByID(ctx context.Context, id string) (*domain.StudySession, error)
	// GetOpenByUser returns the user's open session or ErrNotFound.
	GetOpenByUser(ctx context.Context, userID string) (*domain.StudySession, error)
	// List returns all sessions, most recently started first.
	List(ctx context.Context) ([]*domain.StudySession, error)
	// Close persists EndTime and Summary. Only an open row is updated.
	Close(ctx context.Context, s *domain.StudySession) error
}

type SampleRepo interface {
	// Append assigns the next Seq within the session and inserts the sample.
	Append(ctx context.Context, s *domain.AttentionSample) error
	// ListBySession returns samples in arrival (Seq) order.
	ListBySession(ctx context.Context, sessionID string) ([]domain.AttentionSample, error)
}
