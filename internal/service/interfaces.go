// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/mood2movie/internal/model"
)

// LibraryStore persists one library document per user.
type LibraryStore interface {
	// Save overwrites the whole document for username.
	Save(ctx context.Context, username string, library model.Library) error
	// Load returns an empty library, not an error, for unknown users.
	Load(ctx context.Context, username string) (model.Library, error)
	// Users lists the folded keys of every stored document in order.
	Users(ctx context.Context) ([]string, error)
	Close() error
}

// Recommender produces a batch of recommendations for a mood and genre.
type Recommender interface {
	Recommend(ctx context.Context, mood, genre string, limit int) ([]model.Recommendation, error)
}

// TextGenerator turns a prompt into a short piece of generated text.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// RetryOptions configures retry behavior.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
