package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/mood2movie/internal/catalog"
	"github.com/Veraticus/mood2movie/internal/cli"
	"github.com/Veraticus/mood2movie/internal/common"
	"github.com/Veraticus/mood2movie/internal/library"
	"github.com/Veraticus/mood2movie/internal/recommend"
)

func recommendCmd() *cobra.Command {
	var (
		mood  string
		genre string
		user  string
		limit int
		save  bool
	)

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Recommend movies for a mood and genre",
		Long: `Pick movies from the catalog that match a mood and genre and explain
each pick in one line. With --user and --save the picks are added to that
user's library.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if strings.TrimSpace(mood) == "" {
				return common.NewUserError("Please pass a mood with --mood (see 'mood2movie moods')", nil)
			}
			if save && strings.TrimSpace(user) == "" {
				return common.NewUserError("--save needs --user", nil)
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if limit <= 0 {
				limit = cfg.Limit
			}
			if strings.EqualFold(genre, catalog.AllGenres) {
				genre = catalog.AllGenres
			}

			generator, err := createGenerator(ctx, cfg.LLM)
			if err != nil {
				return err
			}
			cat, err := loadCatalog(cfg)
			if err != nil {
				return err
			}

			progress := cli.NewProgressReporter(cmd.ErrOrStderr())
			engine := recommend.NewEngine(cat, generator, slog.Default(), recommend.WithProgress(progress.Report))

			recs, err := engine.Recommend(ctx, mood, genre, limit)
			if errors.Is(err, common.ErrNoMatches) {
				_, err = fmt.Fprintln(cmd.OutOrStdout(),
					cli.FormatWarning(fmt.Sprintf("No %s movies for a %s mood.", genre, mood)))
				return err
			}
			if err != nil {
				return err
			}
			if _, err := fmt.Fprint(cmd.OutOrStdout(), cli.RenderRecommendations(recs)); err != nil {
				return err
			}
			if !save {
				return nil
			}

			store, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			manager := library.NewManager(store, slog.Default())
			lib, err := manager.Load(ctx, user)
			if err != nil {
				return err
			}
			for _, rec := range recs {
				if lib.Has(rec.Title) {
					fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo(fmt.Sprintf("%q is already saved.", rec.Title)))
					continue
				}
				if lib, err = manager.Add(ctx, user, lib, rec.Title, rec.Mood); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Saved %q.", rec.Title)))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&mood, "mood", "m", "", "mood to match (required)")
	cmd.Flags().StringVarP(&genre, "genre", "g", catalog.AllGenres, "genre to match, or All")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum number of picks (default recommend.limit)")
	cmd.Flags().StringVarP(&user, "user", "u", "", "user whose library receives saved picks")
	cmd.Flags().BoolVar(&save, "save", false, "add every pick to the user's library")

	return cmd
}
