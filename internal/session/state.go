// Package session drives one interactive user session. The whole session is
// an explicit State value that the Controller mutates one command at a time.
package session

import (
	"github.com/Veraticus/mood2movie/internal/model"
)

// Page is the screen the session is currently on.
type Page int

// Session pages.
const (
	PageLanding Page = iota
	PageLogin
	PageApp
)

func (p Page) String() string {
	switch p {
	case PageLanding:
		return "landing"
	case PageLogin:
		return "login"
	case PageApp:
		return "app"
	default:
		return "unknown"
	}
}

// State is everything a session remembers between commands.
type State struct {
	Library  model.Library
	UserName string
	LastRecs []model.Recommendation
	Page     Page
}

// NewState returns a session on the landing page with nobody logged in.
func NewState() *State {
	return &State{
		Page:    PageLanding,
		Library: model.Library{},
	}
}

// LoggedIn reports whether a user owns the session.
func (s *State) LoggedIn() bool {
	return s.Page == PageApp && s.UserName != ""
}

// findRec returns the last-batch recommendation for title.
func (s *State) findRec(title string) (model.Recommendation, bool) {
	for _, rec := range s.LastRecs {
		if rec.Title == title {
			return rec, true
		}
	}
	return model.Recommendation{}, false
}

func (s *State) reset() {
	*s = *NewState()
}
