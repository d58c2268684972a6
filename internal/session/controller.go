package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Veraticus/mood2movie/internal/common"
	"github.com/Veraticus/mood2movie/internal/library"
	"github.com/Veraticus/mood2movie/internal/model"
	"github.com/Veraticus/mood2movie/internal/service"
)

// Session errors.
var (
	ErrEmptyUsername = errors.New("username cannot be empty")
	ErrWrongPage     = errors.New("command not available on this page")
)

// Controller maps session commands onto the core operations.
type Controller struct {
	recommender service.Recommender
	library     *library.Manager
	logger      *slog.Logger
}

// NewController creates a controller.
func NewController(recommender service.Recommender, manager *library.Manager, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		recommender: recommender,
		library:     manager,
		logger:      logger,
	}
}

// Dispatch applies cmd to state. A failed command leaves state as it was,
// except that a Recommend with no matches clears the last batch.
func (c *Controller) Dispatch(ctx context.Context, state *State, cmd Command) error {
	if cmd == nil {
		return fmt.Errorf("%w: nil command", ErrWrongPage)
	}
	if state.Page != cmd.page() {
		return fmt.Errorf("%w: %T on %s page", ErrWrongPage, cmd, state.Page)
	}

	switch cmd := cmd.(type) {
	case Start:
		state.Page = PageLogin
		return nil
	case Login:
		return c.login(ctx, state, cmd.Username)
	case Logout:
		c.logger.Debug("logging out", "user", state.UserName)
		state.reset()
		return nil
	case Recommend:
		return c.recommend(ctx, state, cmd)
	case SaveRecommendation:
		rec, ok := state.findRec(cmd.Title)
		if !ok {
			return common.NewUserError(
				fmt.Sprintf("%q is not in the last recommendations", cmd.Title),
				fmt.Errorf("%w: %s", common.ErrNotFound, cmd.Title))
		}
		return adopt(state)(c.library.Add(ctx, state.UserName, state.Library, rec.Title, rec.Mood))
	case SetStatus:
		return adopt(state)(c.library.SetStatus(ctx, state.UserName, state.Library, cmd.Title, cmd.Status))
	case SetComments:
		return adopt(state)(c.library.SetComments(ctx, state.UserName, state.Library, cmd.Title, cmd.Text))
	case Remove:
		return adopt(state)(c.library.Remove(ctx, state.UserName, state.Library, cmd.Title))
	default:
		return fmt.Errorf("%w: unknown command %T", ErrWrongPage, cmd)
	}
}

func (c *Controller) login(ctx context.Context, state *State, username string) error {
	name := strings.TrimSpace(username)
	if name == "" {
		return common.NewUserError("Please enter a username", ErrEmptyUsername)
	}

	lib, err := c.library.Load(ctx, name)
	if err != nil {
		return err
	}

	state.UserName = name
	state.Library = lib
	state.LastRecs = nil
	state.Page = PageApp
	c.logger.Info("user logged in", "user", name, "titles", len(lib))
	return nil
}

func (c *Controller) recommend(ctx context.Context, state *State, cmd Recommend) error {
	recs, err := c.recommender.Recommend(ctx, cmd.Mood, cmd.Genre, cmd.Limit)
	if err != nil {
		if errors.Is(err, common.ErrNoMatches) {
			state.LastRecs = nil
		}
		return err
	}
	state.LastRecs = recs
	return nil
}

// adopt installs the library returned by a manager call. On error the manager
// hands back the previous library, so state is unchanged either way.
func adopt(state *State) func(model.Library, error) error {
	return func(lib model.Library, err error) error {
		state.Library = lib
		return err
	}
}
