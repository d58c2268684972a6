// Package recommend turns a mood and genre into a short list of explained picks.
package recommend

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Veraticus/mood2movie/internal/common"
	"github.com/Veraticus/mood2movie/internal/model"
	"github.com/Veraticus/mood2movie/internal/service"
)

// DefaultLimit is the batch size used when the caller passes a non-positive limit.
const DefaultLimit = 5

// FallbackExplanation replaces any justification the model failed to produce.
const FallbackExplanation = "A great choice for you!"

// Catalog is the read side of the movie dataset the engine needs.
type Catalog interface {
	Filter(mood, genre string) []model.CatalogEntry
}

// ProgressFunc is called after each recommendation is explained.
type ProgressFunc func(done, total int)

// Option configures an Engine.
type Option func(*Engine)

// WithProgress registers a hook that observes batch progress.
func WithProgress(fn ProgressFunc) Option {
	return func(e *Engine) {
		e.progress = fn
	}
}

// Engine selects catalog entries and asks a text generator to justify each one.
type Engine struct {
	catalog   Catalog
	generator service.TextGenerator
	logger    *slog.Logger
	progress  ProgressFunc
}

var _ service.Recommender = (*Engine)(nil)

// NewEngine creates a recommendation engine.
func NewEngine(catalog Catalog, generator service.TextGenerator, logger *slog.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Engine{
		catalog:   catalog,
		generator: generator,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// BuildPrompt formats the justification request for one title.
func BuildPrompt(title, mood string) string {
	return fmt.Sprintf("Explain why '%s' fits a %s mood in 15 words.", title, mood)
}

// Recommend returns up to limit movies matching mood and genre, in catalog
// order, each with an explanation. It returns common.ErrNoMatches when the
// filter is empty. Generator failures never fail the batch: the affected item
// gets FallbackExplanation instead.
func (e *Engine) Recommend(ctx context.Context, mood, genre string, limit int) ([]model.Recommendation, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	matches := e.catalog.Filter(mood, genre)
	if len(matches) == 0 {
		e.logger.Info("no catalog matches", "mood", mood, "genre", genre)
		return nil, common.ErrNoMatches
	}
	if len(matches) > limit {
		matches = matches[:limit]
	}

	recs := make([]model.Recommendation, 0, len(matches))
	for i, entry := range matches {
		recs = append(recs, model.Recommendation{
			Title:       entry.Title,
			Explanation: e.explain(ctx, entry.Title, mood),
			Mood:        mood,
		})
		if e.progress != nil {
			e.progress(i+1, len(matches))
		}
	}

	e.logger.Debug("recommendations generated",
		"mood", mood,
		"genre", genre,
		"count", len(recs))
	return recs, nil
}

func (e *Engine) explain(ctx context.Context, title, mood string) string {
	text, err := e.generator.GenerateText(ctx, BuildPrompt(title, mood))
	if err != nil {
		e.logger.Warn("using fallback explanation",
			"title", title,
			"mood", mood,
			"error", err)
		return FallbackExplanation
	}
	return text
}
