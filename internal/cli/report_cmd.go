package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/tally/internal/app"
	"github.com/alexanderramin/tally/internal/cli/formatter"
	"github.com/alexanderramin/tally/internal/domain"
	"github.com/spf13/cobra"
)

// buildReport resolves the organization, viewer and filter shared by the
// report commands and assembles the report.
func buildReport(ctx context.Context, cmd *cobra.Command, a *App, g *globalFlags, f *reportFlags) (*domain.Organization, *app.ReportResponse, error) {
	org, err := resolveOrg(ctx, a, g)
	if err != nil {
		return nil, nil, err
	}
	viewer, err := resolveViewer(ctx, a, g, org.ID)
	if err != nil {
		return nil, nil, err
	}
	filter, err := f.filter(ctx, cmd, a, org.ID)
	if err != nil {
		return nil, nil, err
	}
	resp, err := a.Reports.BuildReport(ctx, org.ID, filter, viewer)
	if err != nil {
		return nil, nil, err
	}
	return org, resp, nil
}

func newReportCmd(a *App, g *globalFlags) *cobra.Command {
	var f reportFlags

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show grouped time and cost",
		Example: `  tally report --from 2024-01-01 --to 2024-01-31 --group projects --sub-group members
  tally report --as bob --group clients`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			org, resp, err := buildReport(ctx, cmd, a, g, &f)
			if err != nil {
				return err
			}
			asJSON, err := g.useJSON(a)
			if err != nil {
				return err
			}
			if asJSON {
				return a.Export.WriteJSON(cmd.OutOrStdout(), resp)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatReport(org.Name, resp))
			return nil
		},
	}

	addReportFlags(cmd, &f, true)
	return cmd
}

func newHistoryCmd(a *App, g *globalFlags) *cobra.Command {
	var f reportFlags

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show time and cost per day",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			org, err := resolveOrg(ctx, a, g)
			if err != nil {
				return err
			}
			viewer, err := resolveViewer(ctx, a, g, org.ID)
			if err != nil {
				return err
			}
			filter, err := f.filter(ctx, cmd, a, org.ID)
			if err != nil {
				return err
			}
			history, err := a.Reports.BuildHistory(ctx, org.ID, filter, viewer)
			if err != nil {
				return err
			}

			asJSON, err := g.useJSON(a)
			if err != nil {
				return err
			}
			if asJSON {
				return a.Export.WriteJSON(cmd.OutOrStdout(), history)
			}
			costVisible := !viewer.Restricted() || org.EmployeesCanSeeBillableRates
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatHistory(history, org.Currency, costVisible))
			return nil
		},
	}

	addReportFlags(cmd, &f, false)
	return cmd
}

func newPublicCmd(a *App, g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "public <share-secret>",
		Short: "Show a shared report by its secret",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pub, err := a.Reports.GetPublicReport(context.Background(), args[0], a.now())
			if err != nil {
				return err
			}
			asJSON, err := g.useJSON(a)
			if err != nil {
				return err
			}
			if asJSON {
				return a.Export.WriteJSON(cmd.OutOrStdout(), pub)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPublicReport(pub))
			return nil
		},
	}
}
