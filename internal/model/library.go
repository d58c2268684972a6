package model

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// ErrInvalidStatus is returned when text does not name a known watch status.
var ErrInvalidStatus = errors.New("invalid watch status")

// WatchStatus tracks where a saved movie is in the user's viewing.
type WatchStatus string

// Watch status constants. Values are the on-disk representation.
const (
	StatusGoingToWatch WatchStatus = "Going to Watch"
	StatusWatching     WatchStatus = "Watching"
	StatusWatched      WatchStatus = "Watched"
	StatusNotWatching  WatchStatus = "Not Watching"
)

// AllStatuses lists every status in display order.
var AllStatuses = []WatchStatus{
	StatusGoingToWatch,
	StatusWatching,
	StatusWatched,
	StatusNotWatching,
}

var statusAliases = map[string]WatchStatus{
	"going-to-watch": StatusGoingToWatch,
	"watching":       StatusWatching,
	"watched":        StatusWatched,
	"not-watching":   StatusNotWatching,
}

// ParseWatchStatus converts user input into a WatchStatus. It accepts the
// display form in any case as well as the hyphenated short form.
func ParseWatchStatus(s string) (WatchStatus, error) {
	s = strings.TrimSpace(s)
	for _, status := range AllStatuses {
		if strings.EqualFold(s, string(status)) {
			return status, nil
		}
	}
	if status, ok := statusAliases[strings.ToLower(s)]; ok {
		return status, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// IsValid reports whether s is one of the four known statuses.
func (s WatchStatus) IsValid() bool {
	for _, status := range AllStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// AllowsComments reports whether notes are worth editing in this status.
// This is a presentation policy; the library manager does not enforce it.
func (s WatchStatus) AllowsComments() bool {
	return s == StatusWatched || s == StatusNotWatching
}

// AddedAtLayout is the timestamp format stored in library documents.
const AddedAtLayout = "2006-01-02 15:04"

// LocalTime is a minute-precision local timestamp serialized with AddedAtLayout.
type LocalTime struct {
	time.Time
}

// NewLocalTime truncates t to the minute in the local zone.
func NewLocalTime(t time.Time) LocalTime {
	return LocalTime{Time: t.In(time.Local).Truncate(time.Minute)}
}

// String formats the timestamp with AddedAtLayout.
func (t LocalTime) String() string {
	if t.IsZero() {
		return ""
	}
	return t.Format(AddedAtLayout)
}

// MarshalJSON implements json.Marshaler.
func (t LocalTime) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", t.String())), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *LocalTime) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	if raw == "" || raw == "null" {
		t.Time = time.Time{}
		return nil
	}
	parsed, err := time.ParseInLocation(AddedAtLayout, raw, time.Local)
	if err != nil {
		return fmt.Errorf("invalid added_at %q: %w", raw, err)
	}
	t.Time = parsed
	return nil
}

// LibraryRecord is one saved movie in a user's library.
type LibraryRecord struct {
	Status      WatchStatus `json:"status"`
	Comments    string      `json:"comments"`
	MoodContext string      `json:"mood_context"`
	AddedAt     LocalTime   `json:"added_at"`
}

// Library maps a movie title to its record. Titles are unique by construction.
type Library map[string]LibraryRecord

// Has reports whether title is already saved.
func (l Library) Has(title string) bool {
	_, ok := l[title]
	return ok
}

// Clone returns a shallow copy; records are values so the copy is independent.
func (l Library) Clone() Library {
	out := make(Library, len(l))
	for title, rec := range l {
		out[title] = rec
	}
	return out
}

// Titles returns the saved titles sorted alphabetically.
func (l Library) Titles() []string {
	titles := make([]string, 0, len(l))
	for title := range l {
		titles = append(titles, title)
	}
	sort.Strings(titles)
	return titles
}
