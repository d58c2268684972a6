package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/Veraticus/mood2movie/internal/common"
	"github.com/Veraticus/mood2movie/internal/service"
)

// Generator implements service.TextGenerator on top of a provider Client.
// Each call is rate limited, retried with backoff, bounded by a timeout, and
// guarded by a circuit breaker so a dead provider fails fast.
type Generator struct {
	client    Client
	limiter   *rate.Limiter
	breaker   *gobreaker.CircuitBreaker[string]
	logger    *slog.Logger
	model     string
	retryOpts service.RetryOptions
	timeout   time.Duration
}

var _ service.TextGenerator = (*Generator)(nil)

// NewGenerator wraps client with the resilience settings from cfg.
func NewGenerator(client Client, cfg Config, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}

	retryOpts := service.RetryOptions{
		MaxAttempts:  cfg.MaxRetries,
		InitialDelay: cfg.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
	if retryOpts.MaxAttempts <= 0 {
		retryOpts.MaxAttempts = 3
	}
	if retryOpts.InitialDelay <= 0 {
		retryOpts.InitialDelay = time.Second
	}

	requestsPerMinute := cfg.RateLimit
	if requestsPerMinute <= 0 {
		requestsPerMinute = 60
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	failures := cfg.BreakerFailures
	if failures <= 0 {
		failures = 3
	}
	cooldown := cfg.BreakerCooldown
	if cooldown <= 0 {
		cooldown = 30 * time.Second
	}

	breaker := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        "llm-" + strings.ToLower(cfg.Provider),
		MaxRequests: 1,
		Timeout:     cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(failures)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("text generation circuit changed state",
				"breaker", name,
				"from", from.String(),
				"to", to.String())
		},
	})

	return &Generator{
		client:    client,
		limiter:   rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), requestsPerMinute),
		breaker:   breaker,
		logger:    logger,
		model:     cfg.Model,
		retryOpts: retryOpts,
		timeout:   timeout,
	}
}

// GenerateText returns the model's trimmed answer to prompt. Every failure,
// including an open circuit, wraps common.ErrExternalService.
func (g *Generator) GenerateText(ctx context.Context, prompt string) (string, error) {
	text, err := g.breaker.Execute(func() (string, error) {
		var out string
		err := common.WithRetry(ctx, func() error {
			if err := g.limiter.Wait(ctx); err != nil {
				return &common.RetryableError{Err: fmt.Errorf("rate limiter canceled: %w", err), Retryable: false}
			}

			callCtx, cancel := context.WithTimeout(ctx, g.timeout)
			defer cancel()

			resp, err := g.client.Generate(callCtx, GenerateRequest{Model: g.model, Prompt: prompt})
			if err != nil {
				return err
			}

			text := strings.TrimSpace(resp.Text)
			if text == "" {
				return &common.RetryableError{Err: ErrEmptyResponse, Retryable: false}
			}
			out = text
			return nil
		}, g.retryOpts)
		return out, err
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			g.logger.Debug("skipping text generation, circuit open")
		}
		return "", fmt.Errorf("%w: %w", common.ErrExternalService, err)
	}

	return text, nil
}
