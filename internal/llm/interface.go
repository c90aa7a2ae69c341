package llm

import (
	"context"

	"github.com/vytor/csatutor/internal/models"
)

// Message is one chat turn sent to the model.
type Message = models.ChatMessage

// Client is the language model boundary. Implementations return the text of
// the first completion choice.
type Client interface {
	Complete(ctx context.Context, messages []Message, temperature float64) (string, error)
}

var _ Client = (*OpenAIClient)(nil)
