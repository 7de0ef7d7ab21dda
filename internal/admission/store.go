package admission

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"
)

// Store backs the gate with an external Postgres key/expiry table so
// multiple bot processes share one cool-down view. The admit check is a
// single atomic set-if-absent-or-expired statement; concurrent attempts for
// the same user cannot both win.
type Store struct {
	db       *sql.DB
	cooldown time.Duration
	logger   *zap.Logger
}

func NewStore(db *sql.DB, cooldown time.Duration, logger *zap.Logger) *Store {
	return &Store{
		db:       db,
		cooldown: cooldown,
		logger:   logger.With(zap.String("component", "admission_store")),
	}
}

// EnsureSchema creates the admission table if it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS admission_locks (
			user_id BIGINT PRIMARY KEY,
			expires_at TIMESTAMPTZ NOT NULL
		)
	`)
	return err
}

func (s *Store) TryAdmit(ctx context.Context, userID int64) bool {
	var ok bool
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO admission_locks (user_id, expires_at)
		VALUES ($1, NOW() + INTERVAL '1 second' * $2)
		ON CONFLICT (user_id) DO UPDATE
		SET expires_at = EXCLUDED.expires_at
		WHERE admission_locks.expires_at <= NOW()
		RETURNING TRUE
	`, userID, int(s.cooldown.Seconds())).Scan(&ok)

	if err == sql.ErrNoRows {
		// Row exists and has not expired: user is still in cool-down.
		return false
	}
	if err != nil {
		// Fail open: an unreachable store must not block jobs.
		s.logger.Warn("Admission store unavailable, admitting",
			zap.Int64("user_id", userID),
			zap.Error(err))
		return true
	}
	return true
}
