package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/csatutor/internal/models"
)

// MockWrongbookRepository is a mock implementation of repository.WrongbookRepository
type MockWrongbookRepository struct {
	mock.Mock
}

func (m *MockWrongbookRepository) Append(ctx context.Context, entry models.WrongbookEntry) (int64, error) {
	args := m.Called(ctx, entry)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockWrongbookRepository) ListRecent(ctx context.Context, filter models.WrongbookFilter) ([]models.WrongbookEntry, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.WrongbookEntry), args.Error(1)
}

func (m *MockWrongbookRepository) Get(ctx context.Context, id int64) (*models.WrongbookEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WrongbookEntry), args.Error(1)
}
