// Package catalog loads the static movie dataset and answers queries over it.
package catalog

import (
	"sort"
	"strings"

	"github.com/Veraticus/mood2movie/internal/model"
)

// AllGenres is the genre value that disables genre filtering.
const AllGenres = "All"

// Catalog is an immutable, ordered list of movies. It is safe for concurrent
// readers because nothing mutates it after loading.
type Catalog struct {
	entries []model.CatalogEntry
}

// New builds a catalog from entries, preserving their order.
func New(entries []model.CatalogEntry) *Catalog {
	cp := make([]model.CatalogEntry, len(entries))
	copy(cp, entries)
	return &Catalog{entries: cp}
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Entries returns a copy of all entries in source order.
func (c *Catalog) Entries() []model.CatalogEntry {
	out := make([]model.CatalogEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

// DistinctMoods returns each mood once, sorted, with its stored casing.
func (c *Catalog) DistinctMoods() []string {
	return c.distinct(func(e model.CatalogEntry) string { return e.Mood })
}

// DistinctGenres returns each genre once, sorted, with its stored casing.
// Callers that offer an "any genre" choice prepend AllGenres themselves.
func (c *Catalog) DistinctGenres() []string {
	return c.distinct(func(e model.CatalogEntry) string { return e.Genre })
}

func (c *Catalog) distinct(field func(model.CatalogEntry) string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, e := range c.entries {
		v := field(e)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Filter returns entries whose mood equals mood ignoring case and, unless
// genre is AllGenres, whose genre equals genre ignoring case.
func (c *Catalog) Filter(mood, genre string) []model.CatalogEntry {
	var out []model.CatalogEntry
	for _, e := range c.entries {
		if !strings.EqualFold(e.Mood, mood) {
			continue
		}
		if genre != AllGenres && !strings.EqualFold(e.Genre, genre) {
			continue
		}
		out = append(out, e)
	}
	return out
}
