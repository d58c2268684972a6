package llm

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/mood2movie/internal/common"
)

const testPrompt = "Explain why 'Amelie' fits a Happy mood in 15 words."

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{name: "gemini with key", config: Config{Provider: "gemini", APIKey: "test-key"}},
		{name: "default provider is gemini", config: Config{APIKey: "test-key"}},
		{name: "openai with key", config: Config{Provider: "OpenAI", APIKey: "test-key"}},
		{name: "anthropic custom settings", config: Config{Provider: "anthropic", APIKey: "test-key", Model: "claude-3-opus-20240229", Temperature: 0.5, MaxTokens: 200}},
		{name: "gemini missing key", config: Config{Provider: "gemini"}, wantErr: true},
		{name: "openai missing key", config: Config{Provider: "openai"}, wantErr: true},
		{name: "anthropic missing key", config: Config{Provider: "anthropic"}, wantErr: true},
		{name: "unknown provider", config: Config{Provider: "cohere", APIKey: "test-key"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(context.Background(), tt.config)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, client)
		})
	}
}

func TestGeminiClient_Generate(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"Whimsical Paris, "},{"text":"pure joy."}]}}]}`))
	}))
	defer server.Close()

	client, err := newGeminiClient(context.Background(), Config{
		HTTPClient: server.Client(),
		BaseURL:    server.URL,
		Model:      "gemini-test",
	})
	require.NoError(t, err)

	resp, err := client.Generate(context.Background(), GenerateRequest{Prompt: testPrompt})
	require.NoError(t, err)

	assert.Equal(t, "Whimsical Paris, pure joy.", resp.Text)
	assert.Equal(t, "/v1beta/models/gemini-test:generateContent", gotPath)

	contents, ok := gotBody["contents"].([]any)
	require.True(t, ok)
	require.Len(t, contents, 1)
	parts := contents[0].(map[string]any)["parts"].([]any)
	assert.Equal(t, testPrompt, parts[0].(map[string]any)["text"])
}

func TestGeminiClient_Errors(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		body          string
		wantRetryable bool
	}{
		{name: "server error", status: http.StatusServiceUnavailable, body: `{"error":{"code":503,"message":"overloaded"}}`, wantRetryable: true},
		{name: "bad request", status: http.StatusBadRequest, body: `{"error":{"code":400,"message":"bad model"}}`, wantRetryable: false},
		{name: "no candidates", status: http.StatusOK, body: `{"candidates":[]}`, wantRetryable: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client, err := newGeminiClient(context.Background(), Config{HTTPClient: server.Client(), BaseURL: server.URL})
			require.NoError(t, err)

			_, err = client.Generate(context.Background(), GenerateRequest{Prompt: testPrompt})
			require.Error(t, err)
			assert.Equal(t, tt.wantRetryable, common.IsRetryable(err))
		})
	}
}

func TestOpenAIClient_Generate(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &gotBody)
		_, _ = w.Write([]byte(`{"id":"x","choices":[{"index":0,"message":{"role":"assistant","content":"A sweet, sunny fable."}}]}`))
	}))
	defer server.Close()

	client, err := newOpenAIClient(Config{APIKey: "test-key", BaseURL: server.URL + "/"})
	require.NoError(t, err)

	resp, err := client.Generate(context.Background(), GenerateRequest{Model: "gpt-test", Prompt: testPrompt})
	require.NoError(t, err)

	assert.Equal(t, "A sweet, sunny fable.", resp.Text)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "gpt-test", gotBody["model"])
}

func TestOpenAIClient_StatusErrors(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		wantRetryable bool
		wantRateLimit bool
	}{
		{name: "rate limited", status: http.StatusTooManyRequests, wantRetryable: true, wantRateLimit: true},
		{name: "server error", status: http.StatusInternalServerError, wantRetryable: true},
		{name: "unauthorized", status: http.StatusUnauthorized, wantRetryable: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"error":"nope"}`))
			}))
			defer server.Close()

			client, err := newOpenAIClient(Config{APIKey: "test-key", BaseURL: server.URL})
			require.NoError(t, err)

			_, err = client.Generate(context.Background(), GenerateRequest{Prompt: testPrompt})
			require.Error(t, err)
			assert.Equal(t, tt.wantRetryable, common.IsRetryable(err))
			assert.Equal(t, tt.wantRateLimit, errors.Is(err, common.ErrRateLimit))
		})
	}
}

func TestAnthropicClient_Generate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))
		_, _ = w.Write([]byte(`{"id":"msg","content":[{"type":"text","text":"Charming and bright."}]}`))
	}))
	defer server.Close()

	client, err := newAnthropicClient(Config{APIKey: "test-key", BaseURL: server.URL})
	require.NoError(t, err)

	resp, err := client.Generate(context.Background(), GenerateRequest{Prompt: testPrompt})
	require.NoError(t, err)
	assert.Equal(t, "Charming and bright.", resp.Text)
}

func TestAnthropicClient_EmptyContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"id":"msg","content":[]}`))
	}))
	defer server.Close()

	client, err := newAnthropicClient(Config{APIKey: "test-key", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), GenerateRequest{Prompt: testPrompt})
	assert.ErrorIs(t, err, ErrEmptyResponse)
}
