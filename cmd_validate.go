package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ucscGenomeBrowser/kent-sub001/internal/config"
	"github.com/ucscGenomeBrowser/kent-sub001/internal/util"
	"github.com/ucscGenomeBrowser/kent-sub001/logger"
	"github.com/ucscGenomeBrowser/kent-sub001/pkg/cv"
	"github.com/ucscGenomeBrowser/kent-sub001/pkg/db"
	"github.com/ucscGenomeBrowser/kent-sub001/pkg/handler/request"
	"github.com/ucscGenomeBrowser/kent-sub001/pkg/render"
	"go.uber.org/zap"
)

func newValidateCmd(cfg *config.Config) *cobra.Command {
	var (
		req     request.ValidateRequest
		format  string
		archive bool
	)

	cmd := &cobra.Command{
		Use:   "validate [cv.ra]",
		Short: "Validate a controlled vocabulary file",
		Long: `Validate every stanza of a cv.ra file.

Without --collect the first issue stops the run. With --collect every issue is
reported and only strict issues fail it.

Exit codes: 0 when the run passes, 1 when it fails, 2 on any other error.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if req.Format, err = request.ParseFormat(format); err != nil {
				return err
			}
			path := cvPath(cfg, args)
			req.Source = path

			var opts []cv.Option
			if cfg.ProtocolPath != "" {
				if !util.DirExists(cfg.ProtocolPath) {
					return fmt.Errorf("protocol path %s is not a directory", cfg.ProtocolPath)
				}
				opts = append(opts, cv.WithProtocolPath(cfg.ProtocolPath))
			}

			f, err := cv.Open(path, opts...)
			if err != nil {
				return err
			}
			report := req.Apply(f.Validate())

			if archive {
				store, err := db.Open(cmd.Context(), cfg.DBPath)
				if err != nil {
					return err
				}
				defer store.Close()
				run, err := store.SaveRun(context.WithoutCancel(cmd.Context()), path, report)
				if err != nil {
					return err
				}
				logger.Info("Archived run", zap.String("run_id", run.ID), zap.String("db", cfg.DBPath))
			}

			out := cmd.OutOrStdout()
			switch req.Format {
			case request.FormatJSON:
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(report); err != nil {
					return err
				}
			case request.FormatText:
				if err := render.RenderReportText(out, report); err != nil {
					return err
				}
			default:
				return fmt.Errorf("format %s is only served over HTTP", req.Format)
			}

			strategy := cv.FailFast
			if req.Collect {
				strategy = cv.CollectAll
			}
			if err := strategy(report); err != nil {
				logger.Debug("Validation failed", zap.Error(err))
				return errIssuesFound
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&req.Collect, "collect", false, "report every issue; fail only on strict ones")
	cmd.Flags().BoolVar(&req.StrictOnly, "strict-only", false, "drop advisory issues")
	cmd.Flags().StringVar(&format, "format", "text", "text or json")
	cmd.Flags().StringVar(&cfg.ProtocolPath, "protocol-path", cfg.ProtocolPath, "directory of protocol documents")
	cmd.Flags().BoolVar(&archive, "archive", false, "store the report in the database")
	cmd.Flags().StringVar(&cfg.DBPath, "db", cfg.DBPath, "sqlite database for --archive")
	return cmd
}
