package session

import "github.com/Veraticus/mood2movie/internal/model"

// Command is one user action. Each command is only valid on one page.
type Command interface {
	page() Page
}

// Start leaves the landing page.
type Start struct{}

// Login opens the named user's library.
type Login struct {
	Username string
}

// Logout drops the session back to the landing page.
type Logout struct{}

// Recommend asks for a new batch of recommendations.
type Recommend struct {
	Mood  string
	Genre string
	Limit int
}

// SaveRecommendation adds a title from the last batch to the library.
type SaveRecommendation struct {
	Title string
}

// SetStatus changes the watch status of a saved title.
type SetStatus struct {
	Title  string
	Status model.WatchStatus
}

// SetComments replaces the notes on a saved title.
type SetComments struct {
	Title string
	Text  string
}

// Remove deletes a saved title.
type Remove struct {
	Title string
}

func (Start) page() Page              { return PageLanding }
func (Login) page() Page              { return PageLogin }
func (Logout) page() Page             { return PageApp }
func (Recommend) page() Page          { return PageApp }
func (SaveRecommendation) page() Page { return PageApp }
func (SetStatus) page() Page          { return PageApp }
func (SetComments) page() Page        { return PageApp }
func (Remove) page() Page             { return PageApp }
