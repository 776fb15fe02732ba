package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/studysync/internal/db"
	"github.com/alexanderramin/studysync/internal/domain"
)

// SQLiteSampleRepo implements SampleRepo using a SQLite database.
type SQLiteSampleRepo struct {
	db db.DBTX
}

func NewSQLiteSampleRepo(db db.DBTX) *SQLiteSampleRepo {
	return &SQLiteSampleRepo{db: db}
}

// Append must run inside the session's unit of work so the seq read and the
// insert see the same snapshot.
func (r *SQLiteSampleRepo) Append(ctx context.Context, s *domain.AttentionSample) error {
	var seq int
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(seq), 0) + 1 FROM attention_samples WHERE session_id = ?`, s.SessionID,
	).Scan(&seq)
	if err != nil {
		return fmt.Errorf("reading next sample seq: %w", err)
	}

	query := `INSERT INTO attention_samples (id, session_id, seq, timestamp, score, focused,
			dominant_emotion, emotion_confidence, study_state, break_recommended)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		s.ID,
		s.SessionID,
		seq,
		formatTime(s.Timestamp),
		s.Score,
		boolToInt(s.Focused),
		string(s.DominantEmotion),
		s.EmotionConfidence,
		string(s.StudyState),
		boolToInt(s.BreakRecommended),
	)
	if err != nil {
		return fmt.Errorf("appending attention sample: %w", err)
	}
	s.Seq = seq
	return nil
}

func (r *SQLiteSampleRepo) ListBySession(ctx context.Context, sessionID string) ([]domain.AttentionSample, error) {
	query := `SELECT id, session_id, seq, timestamp, score, focused, dominant_emotion,
			emotion_confidence, study_state, break_recommended
		FROM attention_samples WHERE session_id = ? ORDER BY seq`
	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("listing attention samples: %w", err)
	}
	defer rows.Close()

	samples := []domain.AttentionSample{}
	for rows.Next() {
		var s domain.AttentionSample
		var tsStr, emotion, state string
		var focused, brk int
		if err := rows.Scan(&s.ID, &s.SessionID, &s.Seq, &tsStr, &s.Score, &focused,
			&emotion, &s.EmotionConfidence, &state, &brk); err != nil {
			return nil, fmt.Errorf("scanning attention sample: %w", err)
		}
		if s.Timestamp, err = parseTime(tsStr, "timestamp"); err != nil {
			return nil, err
		}
		s.Focused = intToBool(focused)
		s.DominantEmotion = domain.Emotion(emotion)
		s.StudyState = domain.StudyState(state)
		s.BreakRecommended = intToBool(brk)
		samples = append(samples, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating attention samples: %w", err)
	}
	return samples, nil
}
