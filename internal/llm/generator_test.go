package llm

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/mood2movie/internal/common"
)

// scriptedClient replays a fixed sequence of results and records prompts.
type scriptedClient struct {
	results []scriptedResult
	prompts []string
	models  []string
	mu      sync.Mutex
}

type scriptedResult struct {
	err  error
	text string
}

func (c *scriptedClient) Generate(_ context.Context, req GenerateRequest) (GenerateResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.prompts = append(c.prompts, req.Prompt)
	c.models = append(c.models, req.Model)
	idx := len(c.prompts) - 1
	if idx >= len(c.results) {
		idx = len(c.results) - 1
	}
	r := c.results[idx]
	return GenerateResponse{Text: r.text}, r.err
}

func (c *scriptedClient) calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.prompts)
}

func testConfig() Config {
	return Config{
		Provider:        "test",
		Model:           "test-model",
		MaxRetries:      3,
		RetryDelay:      time.Millisecond,
		RateLimit:       6000,
		Timeout:         time.Second,
		BreakerFailures: 2,
		BreakerCooldown: time.Hour,
	}
}

func TestGenerator_Success(t *testing.T) {
	client := &scriptedClient{results: []scriptedResult{{text: "  Pure whimsy.\n"}}}
	gen := NewGenerator(client, testConfig(), nil)

	text, err := gen.GenerateText(context.Background(), testPrompt)
	require.NoError(t, err)

	assert.Equal(t, "Pure whimsy.", text)
	assert.Equal(t, []string{testPrompt}, client.prompts)
	assert.Equal(t, []string{"test-model"}, client.models)
}

func TestGenerator_RetriesTransientErrors(t *testing.T) {
	transient := &common.RetryableError{Err: errors.New("503"), Retryable: true}
	client := &scriptedClient{results: []scriptedResult{
		{err: transient},
		{text: "Second time lucky."},
	}}
	gen := NewGenerator(client, testConfig(), nil)

	text, err := gen.GenerateText(context.Background(), testPrompt)
	require.NoError(t, err)
	assert.Equal(t, "Second time lucky.", text)
	assert.Equal(t, 2, client.calls())
}

func TestGenerator_EmptyTextIsFailure(t *testing.T) {
	client := &scriptedClient{results: []scriptedResult{{text: "   "}}}
	gen := NewGenerator(client, testConfig(), nil)

	_, err := gen.GenerateText(context.Background(), testPrompt)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrExternalService)
	assert.ErrorIs(t, err, ErrEmptyResponse)
	assert.Equal(t, 1, client.calls(), "empty responses are not retried")
}

func TestGenerator_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	permanent := &common.RetryableError{Err: errors.New("401"), Retryable: false}
	client := &scriptedClient{results: []scriptedResult{{err: permanent}}}
	gen := NewGenerator(client, testConfig(), nil)

	for i := 0; i < 2; i++ {
		_, err := gen.GenerateText(context.Background(), testPrompt)
		require.ErrorIs(t, err, common.ErrExternalService)
	}
	require.Equal(t, 2, client.calls())

	_, err := gen.GenerateText(context.Background(), testPrompt)
	require.ErrorIs(t, err, common.ErrExternalService)
	assert.Equal(t, 2, client.calls(), "open circuit should not reach the provider")
}

func TestGenerator_TimeoutBoundsEachCall(t *testing.T) {
	cfg := testConfig()
	cfg.Timeout = 10 * time.Millisecond
	cfg.MaxRetries = 1

	gen := NewGenerator(ClientFunc(func(ctx context.Context, _ GenerateRequest) (GenerateResponse, error) {
		<-ctx.Done()
		return GenerateResponse{}, ctx.Err()
	}), cfg, nil)

	_, err := gen.GenerateText(context.Background(), testPrompt)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
