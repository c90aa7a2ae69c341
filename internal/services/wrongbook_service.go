package services

import (
	"context"
	"strings"

	"github.com/vytor/csatutor/internal/errors"
	"github.com/vytor/csatutor/internal/logger"
	"github.com/vytor/csatutor/internal/models"
	"github.com/vytor/csatutor/internal/repository"
)

// WrongbookService browses recorded attempts
type WrongbookService interface {
	ListEntries(ctx context.Context, filter models.WrongbookFilter) ([]models.WrongbookEntry, error)
	GetEntry(ctx context.Context, id int64) (*models.WrongbookEntry, error)
}

type wrongbookService struct {
	repo repository.WrongbookRepository
}

// NewWrongbookService creates a new WrongbookService
func NewWrongbookService(repo repository.WrongbookRepository) WrongbookService {
	return &wrongbookService{repo: repo}
}

func (s *wrongbookService) ListEntries(ctx context.Context, filter models.WrongbookFilter) ([]models.WrongbookEntry, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing wrongbook entries: limit=%d, unit=%s, mistake_type=%s", filter.Limit, filter.Unit, filter.MistakeType)

	if filter.Limit < 0 {
		return nil, errors.NewValidationError("limit", "cannot be negative")
	}
	if filter.Limit > models.MaxWrongbookLimit {
		filter.Limit = models.MaxWrongbookLimit
	}
	filter.Unit = strings.TrimSpace(filter.Unit)
	filter.MistakeType = strings.TrimSpace(filter.MistakeType)

	entries, err := s.repo.ListRecent(ctx, filter)
	if err != nil {
		log.Error("failed to list wrongbook entries: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return entries, nil
}

func (s *wrongbookService) GetEntry(ctx context.Context, id int64) (*models.WrongbookEntry, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting wrongbook entry: id=%d", id)

	if id <= 0 {
		return nil, errors.NewValidationError("id", "must be positive")
	}

	entry, err := s.repo.Get(ctx, id)
	if err != nil {
		log.Error("failed to get wrongbook entry: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if entry == nil {
		return nil, errors.NewNotFoundError("wrongbook entry", id)
	}
	return entry, nil
}
