package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/Veraticus/mood2movie/internal/catalog"
	"github.com/Veraticus/mood2movie/internal/common"
	"github.com/Veraticus/mood2movie/internal/model"
)

// ScenarioEntries is the two-movie catalog used throughout the tests.
var ScenarioEntries = []model.CatalogEntry{
	{Title: "Amelie", Mood: "Happy", Genre: "Romance"},
	{Title: "Se7en", Mood: "Dark", Genre: "Thriller"},
}

// ScenarioCatalog returns a catalog built from ScenarioEntries.
func ScenarioCatalog() *catalog.Catalog {
	return catalog.New(ScenarioEntries)
}

// StubGenerator answers every prompt with a canned reply, or fails when Err is set.
type StubGenerator struct {
	Err     error
	Prompts []string
	mu      sync.Mutex
}

// GenerateText records prompt and returns "Because: <prompt>".
func (g *StubGenerator) GenerateText(_ context.Context, prompt string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.Prompts = append(g.Prompts, prompt)
	if g.Err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrExternalService, g.Err)
	}
	return "Because: " + prompt, nil
}
