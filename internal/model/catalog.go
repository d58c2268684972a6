// Package model defines the core domain models used throughout the application.
package model

// CatalogEntry is one row of the static movie dataset.
type CatalogEntry struct {
	Title string
	Mood  string
	Genre string
}

// Recommendation is a catalog title paired with a generated justification.
// Recommendations live only in the current session and are never persisted.
type Recommendation struct {
	Title       string
	Explanation string
	Mood        string // Mood as the user asked for it, not the catalog's casing
}
