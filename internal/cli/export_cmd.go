package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func newExportCmd(a *App, g *globalFlags) *cobra.Command {
	var f reportFlags
	var outPath string

	cmd := &cobra.Command{
		Use:       "export <csv|json>",
		Short:     "Export a report as CSV or JSON",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"csv", "json"},
		RunE: func(cmd *cobra.Command, args []string) error {
			format := args[0]
			if format != "csv" && format != "json" {
				return fmt.Errorf("unknown export format %q (expected csv or json)", format)
			}

			_, resp, err := buildReport(context.Background(), cmd, a, g, &f)
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if outPath != "" {
				file, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("creating %s: %w", outPath, err)
				}
				defer file.Close()
				w = file
			}

			if format == "csv" {
				err = a.Export.WriteCSV(w, resp)
			} else {
				err = a.Export.WriteJSON(w, resp)
			}
			if err != nil {
				return err
			}
			if outPath != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", outPath)
			}
			return nil
		},
	}

	addReportFlags(cmd, &f, true)
	cmd.Flags().StringVarP(&outPath, "file", "f", "", "Write to this file instead of stdout")
	return cmd
}
