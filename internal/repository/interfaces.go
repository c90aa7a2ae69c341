package repository

import (
	"context"
	"time"

	"github.com/vytor/csatutor/internal/models"
	"github.com/vytor/csatutor/internal/session"
)

// WrongbookRepository is the append-only store of graded attempts.
type WrongbookRepository interface {
	Append(ctx context.Context, entry models.WrongbookEntry) (int64, error)
	ListRecent(ctx context.Context, filter models.WrongbookFilter) ([]models.WrongbookEntry, error)
	Get(ctx context.Context, id int64) (*models.WrongbookEntry, error)
}

// SessionRepository persists per-visitor session state.
type SessionRepository interface {
	Load(ctx context.Context, id string) (*session.Session, error)
	Save(ctx context.Context, sess session.Session) error
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
