package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/csatutor/internal/logger"
	"github.com/vytor/csatutor/internal/models"
	"github.com/vytor/csatutor/internal/repository"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

var wrongbookColumns = []string{
	"id", "created_at", "unit", "topic", "question", "user_answer",
	"correct_answer", "explanation", "mistake_type", "next_drill",
}

type wrongbookRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewWrongbookRepository creates a new WrongbookRepository implementation
func NewWrongbookRepository(db *sql.DB) repository.WrongbookRepository {
	return &wrongbookRepository{db: db, now: time.Now}
}

// Append stores entry and returns its id. ID and CreatedAt on entry are
// ignored: the store assigns both.
func (r *wrongbookRepository) Append(ctx context.Context, entry models.WrongbookEntry) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("wrongbook_repo")
	log.Debug("appending entry: unit=%s, mistake_type=%s", entry.Unit, entry.MistakeType)

	res, err := r.db.ExecContext(ctx, `
INSERT INTO wrongbook (created_at, unit, topic, question, user_answer, correct_answer, explanation, mistake_type, next_drill)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`, formatTime(r.now()), entry.Unit, entry.Topic, entry.Question, entry.UserAnswer,
		entry.CorrectAnswer, entry.Explanation, entry.MistakeType, entry.NextDrill)
	if err != nil {
		log.Error("failed to append entry: %v", err)
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		log.Error("failed to read inserted id: %v", err)
		return 0, err
	}
	log.Debug("entry appended: id=%d", id)
	return id, nil
}

func (r *wrongbookRepository) ListRecent(ctx context.Context, filter models.WrongbookFilter) ([]models.WrongbookEntry, error) {
	log := logger.FromContext(ctx).WithPrefix("wrongbook_repo")
	log.Debug("listing entries: limit=%d, unit=%s, mistake_type=%s", filter.Limit, filter.Unit, filter.MistakeType)

	query := sqlBuilder.Select(wrongbookColumns...).From("wrongbook")
	if filter.Unit != "" {
		query = query.Where(squirrel.Eq{"unit": filter.Unit})
	}
	if filter.MistakeType != "" {
		query = query.Where(squirrel.Eq{"mistake_type": filter.MistakeType})
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = models.DefaultWrongbookLimit
	}
	if limit > models.MaxWrongbookLimit {
		limit = models.MaxWrongbookLimit
	}
	query = query.OrderBy("id DESC").Limit(uint64(limit))

	sql, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sql, args...)
	if err != nil {
		log.Error("failed to list entries: %v", err)
		return nil, err
	}
	defer rows.Close()

	entries := []models.WrongbookEntry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			log.Error("failed to scan entry row: %v", err)
			return nil, err
		}
		entries = append(entries, e)
	}
	log.Debug("found %d entries", len(entries))
	return entries, rows.Err()
}

// Get returns nil, nil when no entry has id.
func (r *wrongbookRepository) Get(ctx context.Context, id int64) (*models.WrongbookEntry, error) {
	log := logger.FromContext(ctx).WithPrefix("wrongbook_repo")
	log.Debug("getting entry: id=%d", id)

	query, args, err := sqlBuilder.Select(wrongbookColumns...).From("wrongbook").
		Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	e, err := scanEntry(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("entry not found: id=%d", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get entry: %v", err)
		return nil, err
	}
	return &e, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (models.WrongbookEntry, error) {
	var (
		e         models.WrongbookEntry
		createdAt string
	)
	if err := row.Scan(&e.ID, &createdAt, &e.Unit, &e.Topic, &e.Question, &e.UserAnswer,
		&e.CorrectAnswer, &e.Explanation, &e.MistakeType, &e.NextDrill); err != nil {
		return e, err
	}
	t, err := parseTime(createdAt)
	if err != nil {
		return e, err
	}
	e.CreatedAt = t
	return e, nil
}
