package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/studysync/internal/db"
	"github.com/alexanderramin/studysync/internal/domain"
)

// SQLiteSessionRepo implements SessionRepo using a SQLite database.
type SQLiteSessionRepo struct {
	db db.DBTX
}

// NewSQLiteSessionRepo creates a new SQLiteSessionRepo. Pass a transaction to
// take part in a unit of work.
func NewSQLiteSessionRepo(db db.DBTX) *SQLiteSessionRepo {
	return &SQLiteSessionRepo{db: db}
}

const sessionColumns = `id, user_id, start_time, end_time, total_duration_min,
	average_attention_score, recommended_break_min, created_at`

func (r *SQLiteSessionRepo) Create(ctx context.Context, s *domain.StudySession) error {
	query := `INSERT INTO study_sessions (id, user_id, start_time, end_time, created_at)
		VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.UserID,
		formatTime(s.StartTime),
		nullableTimeToString(s.EndTime),
		formatTime(s.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("user %s already has an open session: %w", s.UserID, domain.ErrInvalidState)
		}
		return fmt.Errorf("inserting study session: %w", err)
	}
	return nil
}

func (r *SQLiteSessionRepo) GetByID(ctx context.Context, id string) (*domain.StudySession, error) {
	query := `SELECT ` + sessionColumns + ` FROM study_sessions WHERE id = ?`
	return r.scanSession(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteSessionRepo) GetOpenByUser(ctx context.Context, userID string) (*domain.StudySession, error) {
	query := `SELECT ` + sessionColumns + ` FROM study_sessions WHERE user_id = ? AND end_time IS NULL`
	return r.scanSession(r.db.QueryRowContext(ctx, query, userID))
}

func (r *SQLiteSessionRepo) List(ctx context.Context) ([]*domain.StudySession, error) {
	query := `SELECT ` + sessionColumns + ` FROM study_sessions ORDER BY start_time DESC, id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing study sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*domain.StudySession
	for rows.Next() {
		s, err := r.scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating study sessions: %w", err)
	}
	return sessions, nil
}

func (r *SQLiteSessionRepo) Close(ctx context.Context, s *domain.StudySession) error {
	if s.EndTime == nil || s.Summary == nil {
		return fmt.Errorf("closing study session %s: missing end time or summary", s.ID)
	}
	query := `UPDATE study_sessions
		SET end_time = ?, total_duration_min = ?, average_attention_score = ?, recommended_break_min = ?
		WHERE id = ? AND end_time IS NULL`
	res, err := r.db.ExecContext(ctx, query,
		formatTime(*s.EndTime),
		s.Summary.TotalDurationMin,
		s.Summary.AverageAttentionScore,
		s.Summary.RecommendedBreakMin,
		s.ID,
	)
	if err != nil {
		return fmt.Errorf("closing study session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("closing study session: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("study session %s is not open: %w", s.ID, domain.ErrInvalidState)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *SQLiteSessionRepo) scanSession(row rowScanner) (*domain.StudySession, error) {
	var s domain.StudySession
	var startStr, createdStr string
	var endStr sql.NullString
	var duration, avg sql.NullFloat64
	var breakMin sql.NullInt64

	err := row.Scan(&s.ID, &s.UserID, &startStr, &endStr, &duration, &avg, &breakMin, &createdStr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("study session: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning study session: %w", err)
	}

	if s.StartTime, err = parseTime(startStr, "start_time"); err != nil {
		return nil, err
	}
	if s.CreatedAt, err = parseTime(createdStr, "created_at"); err != nil {
		return nil, err
	}
	s.EndTime = parseNullableTime(endStr)
	if s.EndTime != nil {
		s.Summary = &domain.SessionSummary{
			TotalDurationMin:      duration.Float64,
			AverageAttentionScore: avg.Float64,
			RecommendedBreakMin:   int(breakMin.Int64),
		}
	}
	return &s, nil
}
