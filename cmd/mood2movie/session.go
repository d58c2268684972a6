package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Veraticus/mood2movie/internal/cli"
	"github.com/Veraticus/mood2movie/internal/library"
	"github.com/Veraticus/mood2movie/internal/recommend"
	"github.com/Veraticus/mood2movie/internal/session"
	"github.com/Veraticus/mood2movie/internal/tui"
)

func sessionCmd() *cobra.Command {
	var fullScreen bool

	cmd := &cobra.Command{
		Use:   "session",
		Short: "Start an interactive session",
		Long: `Start an interactive session: log in, ask for recommendations, and
manage your library. Every change is saved as soon as it is made.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			// Credentials are checked before any session state exists.
			generator, err := createGenerator(cmd.Context(), cfg.LLM)
			if err != nil {
				return err
			}
			cat, err := loadCatalog(cfg)
			if err != nil {
				return err
			}

			interrupts := cli.NewInterruptHandler(cmd.OutOrStdout())
			ctx := interrupts.HandleInterrupts(cmd.Context())

			store, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			var opts []recommend.Option
			if !fullScreen {
				progress := cli.NewProgressReporter(cmd.ErrOrStderr())
				opts = append(opts, recommend.WithProgress(progress.Report))
			}
			engine := recommend.NewEngine(cat, generator, slog.Default(), opts...)
			controller := session.NewController(engine, library.NewManager(store, slog.Default()), slog.Default())
			shellOpts := cli.ShellOptions{
				Limit:        cfg.Limit,
				Logger:       slog.Default(),
				OnUserChange: interrupts.SetUser,
			}

			if fullScreen {
				output := tui.NewOutput()
				shell := cli.NewShell(controller, cat, nil, output, shellOpts)
				return tui.Run(ctx, shell, output)
			}
			shell := cli.NewShell(controller, cat, cmd.InOrStdin(), cmd.OutOrStdout(), shellOpts)
			return shell.Run(ctx)
		},
	}

	cmd.Flags().BoolVar(&fullScreen, "tui", false, "use the full-screen interface")
	return cmd
}
