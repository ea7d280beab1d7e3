package main

import (
	"github.com/spf13/cobra"

	"github.com/ucscGenomeBrowser/kent-sub001/internal/config"
	"github.com/ucscGenomeBrowser/kent-sub001/pkg/cv"
	"github.com/ucscGenomeBrowser/kent-sub001/pkg/db"
)

func newCvToDbCmd(cfg *config.Config) *cobra.Command {
	var statsOnly bool

	cmd := &cobra.Command{
		Use:   "cvtodb [cv.ra]",
		Short: "Survey a cv.ra and export it to the sqlite database",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := cv.Open(cvPath(cfg, args))
			if err != nil {
				return err
			}
			inv := db.Survey(f)
			if err := inv.WriteStats(cmd.OutOrStdout()); err != nil {
				return err
			}
			if statsOnly {
				return nil
			}

			store, err := db.Open(cmd.Context(), cfg.DBPath)
			if err != nil {
				return err
			}
			defer store.Close()
			return store.ExportCV(cmd.Context(), inv)
		},
	}
	cmd.Flags().StringVar(&cfg.DBPath, "db", cfg.DBPath, "sqlite database to write")
	cmd.Flags().BoolVar(&statsOnly, "stats", false, "print field statistics without writing the database")
	return cmd
}
