package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/csatutor/internal/llm"
)

// MockLLMClient is a mock implementation of llm.Client
type MockLLMClient struct {
	mock.Mock
}

func (m *MockLLMClient) Complete(ctx context.Context, messages []llm.Message, temperature float64) (string, error) {
	args := m.Called(ctx, messages, temperature)
	return args.String(0), args.Error(1)
}
