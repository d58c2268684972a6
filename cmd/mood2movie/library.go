package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/mood2movie/internal/cli"
	"github.com/Veraticus/mood2movie/internal/common"
	"github.com/Veraticus/mood2movie/internal/library"
	"github.com/Veraticus/mood2movie/internal/model"
)

func libraryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "library",
		Aliases: []string{"lib"},
		Short:   "Manage a user's saved movies",
	}

	cmd.PersistentFlags().StringP("user", "u", "", "library owner (required)")
	_ = cmd.MarkPersistentFlagRequired("user")

	cmd.AddCommand(libraryListCmd())
	cmd.AddCommand(libraryAddCmd())
	cmd.AddCommand(libraryStatusCmd())
	cmd.AddCommand(libraryNotesCmd())
	cmd.AddCommand(libraryRemoveCmd())

	return cmd
}

// libraryOp is one library edit run against the loaded library.
type libraryOp func(ctx context.Context, m *library.Manager, user string, lib model.Library) (model.Library, error)

// withLibrary loads the user's library, applies op, and prints the outcome.
func withLibrary(cmd *cobra.Command, op libraryOp) (model.Library, error) {
	ctx := cmd.Context()
	user, _ := cmd.Flags().GetString("user")
	if strings.TrimSpace(user) == "" {
		return nil, common.NewUserError("Please pass a user with --user", nil)
	}

	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	store, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer func() { _ = store.Close() }()

	manager := library.NewManager(store, slog.Default())
	lib, err := manager.Load(ctx, user)
	if err != nil {
		return nil, err
	}
	if op == nil {
		return lib, nil
	}
	return op(ctx, manager, user, lib)
}

func libraryListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the saved movies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			lib, err := withLibrary(cmd, nil)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), cli.RenderLibrary(lib))
			return err
		},
	}
}

func libraryAddCmd() *cobra.Command {
	var mood string
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Save a movie as Going to Watch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := args[0]
			_, err := withLibrary(cmd, func(ctx context.Context, m *library.Manager, user string, lib model.Library) (model.Library, error) {
				return m.Add(ctx, user, lib, title, mood)
			})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Added %q.", title)))
			return err
		},
	}
	cmd.Flags().StringVarP(&mood, "mood", "m", "", "mood the movie was picked for")
	return cmd
}

func libraryStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <title> <status>",
		Short: "Change a movie's watch status",
		Long: `Change a movie's watch status. Status is one of "Going to Watch",
"Watching", "Watched", "Not Watching" or the short forms going-to-watch,
watching, watched, not-watching.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := args[0]
			status, err := model.ParseWatchStatus(args[1])
			if err != nil {
				return common.NewUserError(fmt.Sprintf("Unknown status %q", args[1]), err)
			}
			_, err = withLibrary(cmd, func(ctx context.Context, m *library.Manager, user string, lib model.Library) (model.Library, error) {
				return m.SetStatus(ctx, user, lib, title, status)
			})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("%q is now %s.", title, status)))
			return err
		},
	}
}

func libraryNotesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "notes <title> [text]",
		Short: "Replace a movie's notes (omit text to clear them)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := args[0]
			text := ""
			if len(args) == 2 {
				text = args[1]
			}
			_, err := withLibrary(cmd, func(ctx context.Context, m *library.Manager, user string, lib model.Library) (model.Library, error) {
				if rec, ok := lib[title]; ok && !rec.Status.AllowsComments() {
					return lib, common.NewUserError(
						fmt.Sprintf("Notes open up once %q is %s or %s", title, model.StatusWatched, model.StatusNotWatching), nil)
				}
				return m.SetComments(ctx, user, lib, title, text)
			})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Notes saved for %q.", title)))
			return err
		},
	}
}

func libraryRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <title>",
		Short: "Remove a movie from the library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := args[0]
			_, err := withLibrary(cmd, func(ctx context.Context, m *library.Manager, user string, lib model.Library) (model.Library, error) {
				return m.Remove(ctx, user, lib, title)
			})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Removed %q.", title)))
			return err
		},
	}
}
