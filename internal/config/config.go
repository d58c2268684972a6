// Package config provides configuration utilities for the application.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Veraticus/mood2movie/internal/common"
)

// Storage backends.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// LLM providers.
const (
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// apiKeyEnv names the conventional environment variable for each provider.
var apiKeyEnv = map[string]string{
	ProviderGemini:    "GOOGLE_API_KEY",
	ProviderOpenAI:    "OPENAI_API_KEY",
	ProviderAnthropic: "ANTHROPIC_API_KEY",
}

// Config is the fully resolved application configuration.
type Config struct {
	CatalogPath string
	Storage     StorageConfig
	LLM         LLMConfig
	Limit       int
}

// StorageConfig selects and locates the library store.
type StorageConfig struct {
	Backend    string
	Dir        string
	SQLitePath string
}

// LLMConfig holds settings for the text-generation provider. Temperature and
// MaxTokens are sent to the OpenAI and Anthropic APIs; Gemini uses the model's
// own generation defaults.
type LLMConfig struct {
	Provider        string
	Model           string
	APIKey          string
	BaseURL         string
	Timeout         time.Duration
	RetryDelay      time.Duration
	BreakerCooldown time.Duration
	Temperature     float64
	MaxTokens       int
	MaxRetries      int
	RateLimit       int
	BreakerFailures int
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("catalog.path", "movies.csv")
	v.SetDefault("storage.backend", BackendJSON)
	v.SetDefault("storage.dir", "users")
	v.SetDefault("storage.sqlite_path", "mood2movie.db")
	v.SetDefault("llm.provider", ProviderGemini)
	v.SetDefault("llm.timeout", 30*time.Second)
	v.SetDefault("llm.max_retries", 2)
	v.SetDefault("llm.retry_delay", time.Second)
	v.SetDefault("llm.rate_limit", 60)
	v.SetDefault("llm.breaker_failures", 3)
	v.SetDefault("llm.breaker_cooldown", 30*time.Second)
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.max_tokens", 60)
	v.SetDefault("recommend.limit", 5)
}

// Load reads configuration from v. It follows this precedence:
// 1. Viper configuration (from config file or MOOD2MOVIE_ env vars)
// 2. The provider's conventional API key variable (GOOGLE_API_KEY, ...)
// 3. Default values
func Load(v *viper.Viper) (Config, error) {
	SetDefaults(v)

	cfg := Config{
		CatalogPath: ExpandPath(v.GetString("catalog.path")),
		Limit:       v.GetInt("recommend.limit"),
		Storage: StorageConfig{
			Backend:    strings.ToLower(v.GetString("storage.backend")),
			Dir:        ExpandPath(v.GetString("storage.dir")),
			SQLitePath: ExpandPath(v.GetString("storage.sqlite_path")),
		},
		LLM: LLMConfig{
			Provider:        strings.ToLower(v.GetString("llm.provider")),
			Model:           v.GetString("llm.model"),
			APIKey:          v.GetString("llm.api_key"),
			BaseURL:         v.GetString("llm.base_url"),
			Timeout:         v.GetDuration("llm.timeout"),
			MaxRetries:      v.GetInt("llm.max_retries"),
			RetryDelay:      v.GetDuration("llm.retry_delay"),
			RateLimit:       v.GetInt("llm.rate_limit"),
			BreakerFailures: v.GetInt("llm.breaker_failures"),
			BreakerCooldown: v.GetDuration("llm.breaker_cooldown"),
			Temperature:     v.GetFloat64("llm.temperature"),
			MaxTokens:       v.GetInt("llm.max_tokens"),
		},
	}

	if cfg.LLM.APIKey == "" {
		if env, ok := apiKeyEnv[cfg.LLM.Provider]; ok {
			cfg.LLM.APIKey = os.Getenv(env)
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that enumerated settings are known and numbers are sane.
// Credentials are checked separately by RequireAPIKey.
func (c Config) Validate() error {
	switch c.Storage.Backend {
	case BackendJSON, BackendSQLite:
	default:
		return fmt.Errorf("%w: unknown storage backend %q", common.ErrInvalidConfig, c.Storage.Backend)
	}
	if _, ok := apiKeyEnv[c.LLM.Provider]; !ok {
		return fmt.Errorf("%w: unsupported LLM provider %q", common.ErrInvalidConfig, c.LLM.Provider)
	}
	if c.Limit <= 0 {
		return fmt.Errorf("%w: recommend.limit must be positive, got %d", common.ErrInvalidConfig, c.Limit)
	}
	if c.LLM.Timeout <= 0 {
		return fmt.Errorf("%w: llm.timeout must be positive", common.ErrInvalidConfig)
	}
	if c.LLM.Temperature <= 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("%w: llm.temperature must be above 0 and at most 2, got %g", common.ErrInvalidConfig, c.LLM.Temperature)
	}
	if c.LLM.MaxTokens <= 0 {
		return fmt.Errorf("%w: llm.max_tokens must be positive, got %d", common.ErrInvalidConfig, c.LLM.MaxTokens)
	}
	return nil
}

// RequireAPIKey fails when the configured provider has no credentials.
func (c LLMConfig) RequireAPIKey() error {
	if c.APIKey != "" {
		return nil
	}
	return fmt.Errorf("%w: %s API key not found in config or %s environment variable",
		common.ErrMissingConfig, c.Provider, apiKeyEnv[c.Provider])
}
