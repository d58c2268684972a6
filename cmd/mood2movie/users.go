package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/mood2movie/internal/cli"
)

func usersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List the users with a saved library",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			users, err := store.Users(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list users: %w", err)
			}
			if len(users) == 0 {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("No saved libraries yet."))
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), cli.RenderList("Users", users))
			return err
		},
	}
}
