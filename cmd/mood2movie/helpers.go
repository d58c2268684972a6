package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/viper"

	"github.com/Veraticus/mood2movie/internal/catalog"
	"github.com/Veraticus/mood2movie/internal/config"
	"github.com/Veraticus/mood2movie/internal/llm"
	"github.com/Veraticus/mood2movie/internal/service"
	"github.com/Veraticus/mood2movie/internal/storage"
)

// envKeyReplacer maps nested keys like llm.api_key to MOOD2MOVIE_LLM_API_KEY.
var envKeyReplacer = strings.NewReplacer(".", "_")

func loadConfig() (config.Config, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func loadCatalog(cfg config.Config) (*catalog.Catalog, error) {
	return catalog.NewLoader(cfg.CatalogPath, slog.Default()).Load()
}

func openStore(ctx context.Context, cfg config.Config) (service.LibraryStore, error) {
	store, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to open library store: %w", err)
	}
	return store, nil
}

// createGenerator builds the rate-limited, retrying text generator for the
// configured provider. Missing credentials are fatal.
func createGenerator(ctx context.Context, cfg config.LLMConfig) (*llm.Generator, error) {
	if err := cfg.RequireAPIKey(); err != nil {
		return nil, err
	}

	llmCfg := llm.Config{
		Provider:        cfg.Provider,
		APIKey:          cfg.APIKey,
		Model:           cfg.Model,
		BaseURL:         cfg.BaseURL,
		Timeout:         cfg.Timeout,
		MaxRetries:      cfg.MaxRetries,
		RetryDelay:      cfg.RetryDelay,
		RateLimit:       cfg.RateLimit,
		BreakerFailures: cfg.BreakerFailures,
		BreakerCooldown: cfg.BreakerCooldown,
		Temperature:     cfg.Temperature,
		MaxTokens:       cfg.MaxTokens,
	}

	client, err := llm.NewClient(ctx, llmCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s client: %w", cfg.Provider, err)
	}
	return llm.NewGenerator(client, llmCfg, slog.Default()), nil
}
