package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/mood2movie/internal/catalog"
	"github.com/Veraticus/mood2movie/internal/cli"
)

func moodsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "moods",
		Short: "List the moods in the movie catalog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			cat, err := loadCatalog(cfg)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), cli.RenderList("Moods", cat.DistinctMoods()))
			return err
		},
	}
}

func genresCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "genres",
		Short: "List the genres in the movie catalog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			cat, err := loadCatalog(cfg)
			if err != nil {
				return err
			}
			genres := append([]string{catalog.AllGenres}, cat.DistinctGenres()...)
			_, err = fmt.Fprint(cmd.OutOrStdout(), cli.RenderList("Genres", genres))
			return err
		},
	}
}
