package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/generativelanguage/v1beta"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/Veraticus/mood2movie/internal/common"
)

const defaultGeminiModel = "gemini-3-flash-preview"

// geminiClient implements the Client interface for the Google Generative Language API.
type geminiClient struct {
	svc   *generativelanguage.Service
	model string
}

// newGeminiClient creates a new Gemini API client.
func newGeminiClient(ctx context.Context, cfg Config) (Client, error) {
	if cfg.APIKey == "" && cfg.HTTPClient == nil {
		return nil, fmt.Errorf("gemini API key is required")
	}

	model := cfg.Model
	if model == "" {
		model = defaultGeminiModel
	}

	var opts []option.ClientOption
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	} else {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	if cfg.BaseURL != "" {
		endpoint := cfg.BaseURL
		if !strings.HasSuffix(endpoint, "/") {
			endpoint += "/"
		}
		opts = append(opts, option.WithEndpoint(endpoint))
	}

	svc, err := generativelanguage.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini service: %w", err)
	}

	return &geminiClient{svc: svc, model: model}, nil
}

// Generate sends a single-turn prompt to Gemini.
func (c *geminiClient) Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, error) {
	model := req.Model
	if model == "" {
		model = c.model
	}
	if !strings.HasPrefix(model, "models/") {
		model = "models/" + model
	}

	body := &generativelanguage.GenerateContentRequest{
		Contents: []*generativelanguage.Content{
			{
				Role:  "user",
				Parts: []*generativelanguage.Part{{Text: req.Prompt}},
			},
		},
	}

	resp, err := c.svc.Models.GenerateContent(model, body).Context(ctx).Do()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) {
			return GenerateResponse{}, statusError("gemini", apiErr.Code, []byte(apiErr.Message))
		}
		return GenerateResponse{}, fmt.Errorf("request failed: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return GenerateResponse{}, &common.RetryableError{Err: ErrEmptyResponse, Retryable: false}
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			text.WriteString(part.Text)
		}
	}
	return GenerateResponse{Text: text.String()}, nil
}
