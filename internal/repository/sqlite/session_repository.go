package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/vytor/csatutor/internal/logger"
	"github.com/vytor/csatutor/internal/repository"
	"github.com/vytor/csatutor/internal/session"
)

type sessionRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewSessionRepository creates a new SessionRepository implementation
func NewSessionRepository(db *sql.DB) repository.SessionRepository {
	return &sessionRepository{db: db, now: time.Now}
}

// Load returns nil, nil for an unknown id.
func (r *sessionRepository) Load(ctx context.Context, id string) (*session.Session, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("loading session: id=%s", id)

	var data string
	err := r.db.QueryRowContext(ctx, `SELECT data FROM sessions WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("session not found: id=%s", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to load session: %v", err)
		return nil, err
	}

	var s session.Session
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		log.Error("failed to decode session %s: %v", id, err)
		return nil, err
	}
	s.ID = id
	return &s, nil
}

// Save inserts or replaces the session and stamps UpdatedAt.
func (r *sessionRepository) Save(ctx context.Context, s session.Session) error {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("saving session: id=%s, user=%t, admin=%t", s.ID, s.UserAuthed, s.Admin)

	if s.ID == "" {
		return errors.New("session id is empty")
	}
	s.UpdatedAt = r.now().UTC()
	data, err := json.Marshal(s)
	if err != nil {
		log.Error("failed to encode session: %v", err)
		return err
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO sessions (id, data, updated_at)
VALUES (?, ?, ?)
ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at
`, s.ID, string(data), formatTime(s.UpdatedAt))
	if err != nil {
		log.Error("failed to save session: %v", err)
	}
	return err
}

// DeleteBefore removes sessions not saved since cutoff.
func (r *sessionRepository) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")

	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE updated_at < ?`, formatTime(cutoff))
	if err != nil {
		log.Error("failed to delete stale sessions: %v", err)
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n > 0 {
		log.Info("deleted %d stale sessions", n)
	}
	return n, nil
}
