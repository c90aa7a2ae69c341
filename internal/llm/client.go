// Package llm talks to an OpenAI compatible chat completions endpoint.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/vytor/csatutor/internal/logger"
	"github.com/vytor/csatutor/internal/metrics"
)

// APIError is a non-200 reply from the endpoint.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("llm status %d: %s", e.StatusCode, e.Message)
}

// Retryable reports whether the same request may succeed later.
func (e *APIError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

var (
	ErrEmptyCompletion = errors.New("llm returned no completion")
	ErrBadPayload      = errors.New("llm returned an unreadable payload")
)

type Config struct {
	BaseURL    string
	APIKey     string
	Model      string
	Timeout    time.Duration // per attempt
	MaxRetries int
}

type OpenAIClient struct {
	cfg        Config
	httpClient *http.Client
	metrics    *metrics.Metrics
	backoff    time.Duration
}

type Option func(*OpenAIClient)

func WithHTTPClient(c *http.Client) Option {
	return func(o *OpenAIClient) { o.httpClient = c }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(o *OpenAIClient) { o.metrics = m }
}

// WithBackoff sets the pause before a retry.
func WithBackoff(d time.Duration) Option {
	return func(o *OpenAIClient) { o.backoff = d }
}

func New(cfg Config, opts ...Option) *OpenAIClient {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	c := &OpenAIClient{
		cfg:        cfg,
		httpClient: &http.Client{},
		backoff:    500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Complete sends messages and returns the first choice's content. Transport
// errors, 429 and 5xx replies are retried up to MaxRetries times.
func (c *OpenAIClient) Complete(ctx context.Context, messages []Message, temperature float64) (string, error) {
	log := logger.FromContext(ctx).WithPrefix("llm").WithField("model", c.cfg.Model)

	body, err := json.Marshal(chatRequest{Model: c.cfg.Model, Messages: messages, Temperature: temperature})
	if err != nil {
		return "", err
	}

	start := time.Now()
	var lastErr error
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			log.Warn("retrying completion (attempt %d): %v", attempt+1, lastErr)
			if err := sleep(ctx, c.backoff); err != nil {
				lastErr = err
				break
			}
		}

		text, err := c.do(ctx, body)
		if err == nil {
			log.Debug("completion received in %v (%d chars)", time.Since(start), len(text))
			c.metrics.ObserveLLM("ok", time.Since(start))
			return text, nil
		}
		lastErr = err
		if !retryable(ctx, err) {
			break
		}
	}

	log.Error("completion failed after %v: %v", time.Since(start), lastErr)
	c.metrics.ObserveLLM("error", time.Since(start))
	return "", lastErr
}

func (c *OpenAIClient) do(ctx context.Context, body []byte) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", &APIError{StatusCode: resp.StatusCode, Message: errorMessage(raw)}
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	if len(out.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	return out.Choices[0].Message.Content, nil
}

func errorMessage(raw []byte) string {
	var out chatResponse
	if err := json.Unmarshal(raw, &out); err == nil && out.Error != nil && out.Error.Message != "" {
		return out.Error.Message
	}
	return strings.TrimSpace(string(raw))
}

func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Retryable()
	}
	// Transport failures and per-attempt timeouts.
	return !errors.Is(err, ErrEmptyCompletion) && !errors.Is(err, ErrBadPayload)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
