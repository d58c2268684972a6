package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/mood2movie/internal/catalog"
	"github.com/Veraticus/mood2movie/internal/common"
	"github.com/Veraticus/mood2movie/internal/library"
	"github.com/Veraticus/mood2movie/internal/model"
	"github.com/Veraticus/mood2movie/internal/recommend"
	"github.com/Veraticus/mood2movie/internal/testutil"
)

type fixture struct {
	controller *Controller
	store      *testutil.MemoryStore
	generator  *testutil.StubGenerator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := testutil.NewMemoryStore()
	gen := &testutil.StubGenerator{}
	engine := recommend.NewEngine(testutil.ScenarioCatalog(), gen, nil)
	return &fixture{
		controller: NewController(engine, library.NewManager(store, nil), nil),
		store:      store,
		generator:  gen,
	}
}

func (f *fixture) loggedIn(t *testing.T, username string) *State {
	t.Helper()
	state := NewState()
	ctx := context.Background()
	require.NoError(t, f.controller.Dispatch(ctx, state, Start{}))
	require.NoError(t, f.controller.Dispatch(ctx, state, Login{Username: username}))
	return state
}

func TestNewState(t *testing.T) {
	state := NewState()
	assert.Equal(t, PageLanding, state.Page)
	assert.Empty(t, state.UserName)
	assert.NotNil(t, state.Library)
	assert.Empty(t, state.Library)
	assert.Nil(t, state.LastRecs)
	assert.False(t, state.LoggedIn())
}

func TestDispatch_StartAndLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	state := NewState()

	require.NoError(t, f.controller.Dispatch(ctx, state, Start{}))
	assert.Equal(t, PageLogin, state.Page)

	require.NoError(t, f.controller.Dispatch(ctx, state, Login{Username: "  alice  "}))
	assert.Equal(t, PageApp, state.Page)
	assert.Equal(t, "alice", state.UserName)
	assert.True(t, state.LoggedIn())
}

func TestDispatch_EmptyUsername(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	state := NewState()
	require.NoError(t, f.controller.Dispatch(ctx, state, Start{}))

	for _, name := range []string{"", "   ", "\t"} {
		err := f.controller.Dispatch(ctx, state, Login{Username: name})
		require.ErrorIs(t, err, ErrEmptyUsername)
		assert.Equal(t, PageLogin, state.Page)
		assert.Empty(t, state.UserName)
	}
}

func TestDispatch_LoginLoadsSavedLibrary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.Save(ctx, "alice", model.Library{
		"Se7en": {Status: model.StatusWatched, MoodContext: "Dark"},
	}))

	state := f.loggedIn(t, "ALICE")
	assert.Equal(t, []string{"Se7en"}, state.Library.Titles())
}

func TestDispatch_WrongPage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		state func() *State
		cmd   Command
	}{
		{"recommend on landing", NewState, Recommend{Mood: "Happy", Genre: "All"}},
		{"login on landing", NewState, Login{Username: "alice"}},
		{"start in app", func() *State { return f.loggedIn(t, "alice") }, Start{}},
		{"remove on landing", NewState, Remove{Title: "Amelie"}},
		{"logout on landing", NewState, Logout{}},
		{"nil command", NewState, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := tt.state()
			before := *state
			err := f.controller.Dispatch(ctx, state, tt.cmd)
			require.ErrorIs(t, err, ErrWrongPage)
			assert.Equal(t, before, *state)
		})
	}
}

func TestDispatch_RecommendAndSave(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	state := f.loggedIn(t, "alice")

	require.NoError(t, f.controller.Dispatch(ctx, state, Recommend{Mood: "happy", Genre: catalog.AllGenres, Limit: 5}))
	require.Len(t, state.LastRecs, 1)
	assert.Equal(t, "Amelie", state.LastRecs[0].Title)
	assert.Equal(t, "happy", state.LastRecs[0].Mood)

	require.NoError(t, f.controller.Dispatch(ctx, state, SaveRecommendation{Title: "Amelie"}))
	rec := state.Library["Amelie"]
	assert.Equal(t, model.StatusGoingToWatch, rec.Status)
	assert.Equal(t, "happy", rec.MoodContext)

	stored, ok := f.store.Stored("alice")
	require.True(t, ok)
	assert.Equal(t, state.Library, stored)
}

func TestDispatch_SaveRequiresLastBatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	state := f.loggedIn(t, "alice")

	err := f.controller.Dispatch(ctx, state, SaveRecommendation{Title: "Se7en"})
	require.ErrorIs(t, err, common.ErrNotFound)
	assert.Empty(t, state.Library)
	assert.Empty(t, f.store.Saves())
}

func TestDispatch_SaveTwice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	state := f.loggedIn(t, "alice")

	require.NoError(t, f.controller.Dispatch(ctx, state, Recommend{Mood: "Dark", Genre: "Thriller"}))
	require.NoError(t, f.controller.Dispatch(ctx, state, SaveRecommendation{Title: "Se7en"}))

	err := f.controller.Dispatch(ctx, state, SaveRecommendation{Title: "Se7en"})
	require.ErrorIs(t, err, common.ErrAlreadyExists)
	assert.Len(t, state.Library, 1)
}

func TestDispatch_NoMatchesClearsLastBatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	state := f.loggedIn(t, "alice")

	require.NoError(t, f.controller.Dispatch(ctx, state, Recommend{Mood: "Happy", Genre: "All"}))
	require.NotEmpty(t, state.LastRecs)

	err := f.controller.Dispatch(ctx, state, Recommend{Mood: "Happy", Genre: "Thriller"})
	require.ErrorIs(t, err, common.ErrNoMatches)
	assert.Empty(t, state.LastRecs)
}

func TestDispatch_GeneratorFailureStillRecommends(t *testing.T) {
	f := newFixture(t)
	f.generator.Err = errors.New("quota exhausted")
	ctx := context.Background()
	state := f.loggedIn(t, "alice")

	require.NoError(t, f.controller.Dispatch(ctx, state, Recommend{Mood: "Dark", Genre: "All"}))
	require.Len(t, state.LastRecs, 1)
	assert.Equal(t, recommend.FallbackExplanation, state.LastRecs[0].Explanation)
}

func TestDispatch_EditAndRemove(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	state := f.loggedIn(t, "alice")

	require.NoError(t, f.controller.Dispatch(ctx, state, Recommend{Mood: "Dark", Genre: "All"}))
	require.NoError(t, f.controller.Dispatch(ctx, state, SaveRecommendation{Title: "Se7en"}))
	require.NoError(t, f.controller.Dispatch(ctx, state, SetStatus{Title: "Se7en", Status: model.StatusWatched}))
	require.NoError(t, f.controller.Dispatch(ctx, state, SetComments{Title: "Se7en", Text: "brutal ending"}))

	rec := state.Library["Se7en"]
	assert.Equal(t, model.StatusWatched, rec.Status)
	assert.Equal(t, "brutal ending", rec.Comments)

	require.NoError(t, f.controller.Dispatch(ctx, state, Remove{Title: "Se7en"}))
	assert.Empty(t, state.Library)

	err := f.controller.Dispatch(ctx, state, Remove{Title: "Se7en"})
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestDispatch_StoreFailureKeepsState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	state := f.loggedIn(t, "alice")
	require.NoError(t, f.controller.Dispatch(ctx, state, Recommend{Mood: "Dark", Genre: "All"}))

	f.store.FailSaves(errors.New("read-only filesystem"))
	err := f.controller.Dispatch(ctx, state, SaveRecommendation{Title: "Se7en"})
	require.Error(t, err)
	assert.Empty(t, state.Library)
}

func TestDispatch_LogoutResetsWithoutSaving(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	state := f.loggedIn(t, "alice")
	require.NoError(t, f.controller.Dispatch(ctx, state, Recommend{Mood: "Dark", Genre: "All"}))
	saves := len(f.store.Saves())

	require.NoError(t, f.controller.Dispatch(ctx, state, Logout{}))
	assert.Equal(t, NewState(), state)
	assert.Len(t, f.store.Saves(), saves)
}
