package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Every statement is idempotent, so the
// full list is replayed on each open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE has no IF NOT EXISTS form.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS study_sessions (
		id                      TEXT PRIMARY KEY,
		user_id                 TEXT NOT NULL,
		start_time              TEXT NOT NULL,
		end_time                TEXT,
		total_duration_min      REAL,
		average_attention_score REAL,
		recommended_break_min   INTEGER,
		created_at              TEXT NOT NULL
	)`,

	// At most one open session per user.
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_sessions_open_user
		ON study_sessions(user_id) WHERE end_time IS NULL`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_start ON study_sessions(start_time)`,

	`CREATE TABLE IF NOT EXISTS attention_samples (
		id                 TEXT PRIMARY KEY,
		session_id         TEXT NOT NULL REFERENCES study_sessions(id) ON DELETE CASCADE,
		seq                INTEGER NOT NULL CHECK(seq > 0),
		timestamp          TEXT NOT NULL,
		score              REAL NOT NULL CHECK(score >= 0 AND score <= 100),
		focused            INTEGER NOT NULL,
		dominant_emotion   TEXT NOT NULL DEFAULT '',
		emotion_confidence REAL NOT NULL DEFAULT 0,
		UNIQUE(session_id, seq)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_samples_session ON attention_samples(session_id, seq)`,

	// Derived per-frame feedback persisted alongside the raw score.
	`ALTER TABLE attention_samples ADD COLUMN study_state TEXT NOT NULL DEFAULT 'Unknown'`,
	`ALTER TABLE attention_samples ADD COLUMN break_recommended INTEGER NOT NULL DEFAULT 0`,
}
