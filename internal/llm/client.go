package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Veraticus/mood2movie/internal/common"
)

// ErrEmptyResponse is returned when a provider answers without any text.
var ErrEmptyResponse = errors.New("empty response from model")

// systemPrompt steers chat-style providers toward a bare one-line answer.
const systemPrompt = "You explain movie recommendations. Reply with one short sentence and nothing else."

// Client defines the interface for LLM providers.
type Client interface {
	Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, error)
}

// GenerateRequest is a single prompt for a model.
type GenerateRequest struct {
	Model  string // Empty means the client's configured model
	Prompt string
}

// GenerateResponse contains the generated text.
type GenerateResponse struct {
	Text string
}

// Config holds configuration for LLM clients and the Generator.
type Config struct {
	HTTPClient      *http.Client // Overrides transport and auth; used in tests
	Provider        string
	APIKey          string
	Model           string
	BaseURL         string
	Timeout         time.Duration
	RetryDelay      time.Duration
	BreakerCooldown time.Duration
	Temperature     float64
	MaxTokens       int
	MaxRetries      int
	RateLimit       int // Requests per minute
	BreakerFailures int
}

func defaultHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

// statusError classifies a non-200 reply so the retry loop knows whether
// another attempt can help.
func statusError(provider string, status int, body []byte) error {
	err := fmt.Errorf("%s API error (status %d): %s", provider, status, strings.TrimSpace(string(body)))
	if status == http.StatusTooManyRequests {
		err = fmt.Errorf("%w: %w", common.ErrRateLimit, err)
	}
	return &common.RetryableError{
		Err:       err,
		Retryable: status == http.StatusTooManyRequests || status >= http.StatusInternalServerError,
	}
}

// ClientFunc adapts a function to the Client interface.
type ClientFunc func(ctx context.Context, req GenerateRequest) (GenerateResponse, error)

// Generate calls f.
func (f ClientFunc) Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, error) {
	return f(ctx, req)
}
