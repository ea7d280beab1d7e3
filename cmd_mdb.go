package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ucscGenomeBrowser/kent-sub001/internal/config"
	"github.com/ucscGenomeBrowser/kent-sub001/pkg/handler/request"
	"github.com/ucscGenomeBrowser/kent-sub001/pkg/mdb"
)

func newMdbCmd(cfg *config.Config) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "mdb <metaDb.ra>",
		Short: "Summarize the experiments of a metaDb file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := request.ParseFormat(format)
			if err != nil {
				return err
			}
			reg, err := loadRegistry(cfg)
			if err != nil {
				return err
			}
			file, err := mdb.Open(args[0], reg)
			if err != nil {
				return err
			}
			sum, err := mdb.Summarize(file)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if f == request.FormatJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(sum)
			}
			return writeSummary(out, sum)
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "text or json")
	return cmd
}

func writeSummary(w io.Writer, sum mdb.Summary) error {
	dataType := sum.DataType
	if dataType == "" {
		dataType = mdb.Inconsistent
	}
	fmt.Fprintf(w, "%s\texpVars %s\tdataType %s\n", sum.Name, strings.Join(sum.ExpVars, ","), dataType)
	for _, exp := range sum.Experiments {
		dt := exp.DataType
		if dt == "" {
			dt = mdb.Inconsistent
		}
		fmt.Fprintf(w, "  %s\t%d/%d\t%s\t%s\n", exp.ID, exp.Normal, exp.Stanzas, dt, exp.Title)
	}
	if len(sum.Revoked) > 0 {
		fmt.Fprintf(w, "revoked: %s\n", strings.Join(sum.Revoked, ", "))
	}
	_, err := fmt.Fprintf(w, "%d experiments, %d tables\n", len(sum.Experiments), len(sum.Tables))
	return err
}
