package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/alexanderramin/tally/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newImportCmd(a *App, g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Import an organization with its catalog, entries and reports",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := a.Import.ImportWorkspace(context.Background(), args[0])
			if err != nil {
				return err
			}

			asJSON, err := g.useJSON(a)
			if err != nil {
				return err
			}
			if asJSON {
				return a.Export.WriteJSON(cmd.OutOrStdout(), map[string]any{
					"organization_id": result.Organization.ID,
					"users":           result.UserCount,
					"members":         result.MemberCount,
					"projects":        result.ProjectCount,
					"entries":         result.EntryCount,
					"reports":         result.ReportCount,
					"report_secrets":  result.ReportSecrets,
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Imported %s %s\n", formatter.Bold(result.Organization.Name), formatter.TruncID(result.Organization.ID))
			fmt.Fprintf(out, "  %d users, %d members, %d projects, %d entries, %d reports\n",
				result.UserCount, result.MemberCount, result.ProjectCount, result.EntryCount, result.ReportCount)

			names := make([]string, 0, len(result.ReportSecrets))
			for name := range result.ReportSecrets {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Fprintf(out, "  shared %q: %s\n", name, formatter.StyleGreen.Render(result.ReportSecrets[name]))
			}
			return nil
		},
	}
}
