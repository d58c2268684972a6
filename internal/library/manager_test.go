package library

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/mood2movie/internal/common"
	"github.com/Veraticus/mood2movie/internal/model"
	"github.com/Veraticus/mood2movie/internal/storage"
	"github.com/Veraticus/mood2movie/internal/testutil"
)

var fixedNow = time.Date(2025, 3, 14, 9, 26, 53, 0, time.Local)

func newTestManager(t *testing.T) (*Manager, *testutil.MemoryStore) {
	t.Helper()
	store := testutil.NewMemoryStore()
	m := NewManager(store, nil)
	m.now = func() time.Time { return fixedNow }
	return m, store
}

func TestManager_AddThenRemove(t *testing.T) {
	ctx := context.Background()
	m, store := newTestManager(t)

	lib, err := m.Add(ctx, "alice", model.Library{}, "Amelie", "Happy")
	require.NoError(t, err)

	rec := lib["Amelie"]
	assert.Equal(t, model.StatusGoingToWatch, rec.Status)
	assert.Empty(t, rec.Comments)
	assert.Equal(t, "Happy", rec.MoodContext)
	assert.Equal(t, "2025-03-14 09:26", rec.AddedAt.String())

	stored, ok := store.Stored("alice")
	require.True(t, ok)
	assert.Equal(t, lib, stored)

	lib, err = m.Remove(ctx, "alice", lib, "Amelie")
	require.NoError(t, err)
	assert.Empty(t, lib)

	stored, ok = store.Stored("alice")
	require.True(t, ok)
	assert.Empty(t, stored)
	assert.Len(t, store.Saves(), 2)
}

func TestManager_AddDuplicate(t *testing.T) {
	ctx := context.Background()
	m, store := newTestManager(t)

	lib, err := m.Add(ctx, "alice", model.Library{}, "Se7en", "Dark")
	require.NoError(t, err)

	again, err := m.Add(ctx, "alice", lib, "Se7en", "Happy")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrAlreadyExists)
	assert.Contains(t, common.UserMessage(err), "already in your library")
	assert.Equal(t, "Dark", again["Se7en"].MoodContext)
	assert.Len(t, store.Saves(), 1)
}

func TestManager_MissingTitle(t *testing.T) {
	ctx := context.Background()
	m, store := newTestManager(t)
	lib := model.Library{}

	_, err := m.SetStatus(ctx, "alice", lib, "Ghost", model.StatusWatched)
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = m.SetComments(ctx, "alice", lib, "Ghost", "boo")
	assert.ErrorIs(t, err, common.ErrNotFound)

	got, err := m.Remove(ctx, "alice", lib, "Ghost")
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.Empty(t, got)

	assert.Empty(t, store.Saves())
}

func TestManager_SetStatusKeepsOtherFields(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)

	lib, err := m.Add(ctx, "alice", model.Library{}, "Amelie", "Happy")
	require.NoError(t, err)
	lib, err = m.SetComments(ctx, "alice", lib, "Amelie", "watch with Sam")
	require.NoError(t, err)

	before := lib["Amelie"]
	lib, err = m.SetStatus(ctx, "alice", lib, "Amelie", model.StatusWatched)
	require.NoError(t, err)

	after := lib["Amelie"]
	assert.Equal(t, model.StatusWatched, after.Status)
	assert.Equal(t, before.Comments, after.Comments)
	assert.Equal(t, before.MoodContext, after.MoodContext)
	assert.Equal(t, before.AddedAt, after.AddedAt)

	// Transitions are unrestricted.
	lib, err = m.SetStatus(ctx, "alice", lib, "Amelie", model.StatusGoingToWatch)
	require.NoError(t, err)
	assert.Equal(t, model.StatusGoingToWatch, lib["Amelie"].Status)
}

func TestManager_SetStatusRejectsUnknown(t *testing.T) {
	ctx := context.Background()
	m, store := newTestManager(t)

	lib, err := m.Add(ctx, "alice", model.Library{}, "Amelie", "Happy")
	require.NoError(t, err)

	got, err := m.SetStatus(ctx, "alice", lib, "Amelie", model.WatchStatus("Abandoned"))
	assert.ErrorIs(t, err, model.ErrInvalidStatus)
	assert.Equal(t, model.StatusGoingToWatch, got["Amelie"].Status)
	assert.Len(t, store.Saves(), 1)
}

func TestManager_CommentsAllowedForAnyStatus(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)

	lib, err := m.Add(ctx, "alice", model.Library{}, "Se7en", "Dark")
	require.NoError(t, err)

	lib, err = m.SetComments(ctx, "alice", lib, "Se7en", "too grim")
	require.NoError(t, err)
	assert.Equal(t, "too grim", lib["Se7en"].Comments)

	lib, err = m.SetComments(ctx, "alice", lib, "Se7en", "")
	require.NoError(t, err)
	assert.Empty(t, lib["Se7en"].Comments)
}

func TestManager_SaveFailureKeepsPrevious(t *testing.T) {
	ctx := context.Background()
	m, store := newTestManager(t)

	lib, err := m.Add(ctx, "alice", model.Library{}, "Amelie", "Happy")
	require.NoError(t, err)

	diskFull := errors.New("disk full")
	store.FailSaves(diskFull)

	got, err := m.Add(ctx, "alice", lib, "Se7en", "Dark")
	require.Error(t, err)
	assert.ErrorIs(t, err, diskFull)
	assert.Equal(t, lib, got)
	assert.False(t, got.Has("Se7en"))

	got, err = m.Remove(ctx, "alice", lib, "Amelie")
	require.Error(t, err)
	assert.True(t, got.Has("Amelie"))

	stored, ok := store.Stored("alice")
	require.True(t, ok)
	assert.Equal(t, []string{"Amelie"}, stored.Titles())
}

func TestManager_DoesNotMutateInput(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)

	orig := model.Library{}
	_, err := m.Add(ctx, "alice", orig, "Amelie", "Happy")
	require.NoError(t, err)
	assert.Empty(t, orig)
}

func TestManager_LoadFoldsUsername(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)

	_, err := m.Add(ctx, "Alice", model.Library{}, "Amelie", "Happy")
	require.NoError(t, err)

	lib, err := m.Load(ctx, "  alice ")
	require.NoError(t, err)
	assert.True(t, lib.Has("Amelie"))
}

func TestManager_WithSQLiteStore(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupSQLiteStore(t)
	m := NewManager(store, nil)

	lib, err := m.Add(ctx, "bob", model.Library{}, "Se7en", "Dark")
	require.NoError(t, err)
	lib, err = m.SetStatus(ctx, "bob", lib, "Se7en", model.StatusWatching)
	require.NoError(t, err)

	loaded, err := m.Load(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, model.StatusWatching, loaded["Se7en"].Status)
	assert.Equal(t, lib["Se7en"].AddedAt.String(), loaded["Se7en"].AddedAt.String())
}

func TestManager_WithJSONStore(t *testing.T) {
	ctx := context.Background()
	store, dir := testutil.SetupJSONStore(t)
	m := NewManager(store, nil)

	lib, err := m.Add(ctx, "Carol", model.Library{}, "Amelie", "Happy")
	require.NoError(t, err)
	_, err = m.SetComments(ctx, "carol", lib, "Amelie", "Paris in bloom")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "carol.json"))
	require.NoError(t, err)

	loaded, err := m.Load(ctx, "CAROL")
	require.NoError(t, err)
	assert.Equal(t, "Paris in bloom", loaded["Amelie"].Comments)
}

func TestManager_UnknownStoredStatusFailsAtLoad(t *testing.T) {
	ctx := context.Background()
	store, dir := testutil.SetupJSONStore(t)
	m := NewManager(store, nil)

	doc := `{"Old": {"status": "Dropped", "comments": "", "mood_context": "Sad", "added_at": "2025-01-01 10:00"}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dora.json"), []byte(doc), 0o600))

	lib, err := m.Load(ctx, "Dora")
	require.ErrorIs(t, err, storage.ErrInvalidRecord)
	assert.Nil(t, lib)
	assert.Contains(t, err.Error(), filepath.Join(dir, "dora.json"))
}
