// Package library implements the create, update, and delete rules for a
// user's saved movies. Every successful mutation is flushed to the store
// before it is returned.
package library

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/mood2movie/internal/common"
	"github.com/Veraticus/mood2movie/internal/model"
	"github.com/Veraticus/mood2movie/internal/service"
)

// Manager applies library mutations and persists the result.
type Manager struct {
	store  service.LibraryStore
	logger *slog.Logger
	now    func() time.Time
}

// NewManager creates a manager that writes through to store.
func NewManager(store service.LibraryStore, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Load reads the user's library from the store.
func (m *Manager) Load(ctx context.Context, username string) (model.Library, error) {
	lib, err := m.store.Load(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to load library for %s: %w", username, err)
	}
	return lib, nil
}

// Add saves title with status GoingToWatch. It fails with
// common.ErrAlreadyExists when the title is already in lib.
func (m *Manager) Add(ctx context.Context, username string, lib model.Library, title, moodContext string) (model.Library, error) {
	if lib.Has(title) {
		return lib, common.NewUserError(
			fmt.Sprintf("%q is already in your library", title),
			fmt.Errorf("%w: %s", common.ErrAlreadyExists, title))
	}

	next := lib.Clone()
	next[title] = model.LibraryRecord{
		Status:      model.StatusGoingToWatch,
		Comments:    "",
		MoodContext: moodContext,
		AddedAt:     model.NewLocalTime(m.now()),
	}
	return m.commit(ctx, username, lib, next, "add", title)
}

// SetStatus replaces the status of title, leaving its other fields alone.
// Any status may follow any other.
func (m *Manager) SetStatus(ctx context.Context, username string, lib model.Library, title string, status model.WatchStatus) (model.Library, error) {
	rec, err := lookup(lib, title)
	if err != nil {
		return lib, err
	}
	if !status.IsValid() {
		return lib, fmt.Errorf("%w: %q", model.ErrInvalidStatus, status)
	}

	next := lib.Clone()
	rec.Status = status
	next[title] = rec
	return m.commit(ctx, username, lib, next, "set_status", title)
}

// SetComments replaces the notes on title. Whether notes are editable for a
// given status is left to the caller.
func (m *Manager) SetComments(ctx context.Context, username string, lib model.Library, title, text string) (model.Library, error) {
	rec, err := lookup(lib, title)
	if err != nil {
		return lib, err
	}

	next := lib.Clone()
	rec.Comments = text
	next[title] = rec
	return m.commit(ctx, username, lib, next, "set_comments", title)
}

// Remove deletes title from the library.
func (m *Manager) Remove(ctx context.Context, username string, lib model.Library, title string) (model.Library, error) {
	if _, err := lookup(lib, title); err != nil {
		return lib, err
	}

	next := lib.Clone()
	delete(next, title)
	return m.commit(ctx, username, lib, next, "remove", title)
}

func lookup(lib model.Library, title string) (model.LibraryRecord, error) {
	rec, ok := lib[title]
	if !ok {
		return model.LibraryRecord{}, common.NewUserError(
			fmt.Sprintf("%q is not in your library", title),
			fmt.Errorf("%w: %s", common.ErrNotFound, title))
	}
	return rec, nil
}

// commit flushes next; on failure the caller keeps prev.
func (m *Manager) commit(ctx context.Context, username string, prev, next model.Library, op, title string) (model.Library, error) {
	if err := m.store.Save(ctx, username, next); err != nil {
		m.logger.Error("failed to persist library",
			"op", op,
			"user", username,
			"title", title,
			"error", err)
		return prev, fmt.Errorf("failed to save library: %w", err)
	}

	m.logger.Debug("library updated",
		"op", op,
		"user", username,
		"title", title,
		"titles", len(next))
	return next, nil
}
