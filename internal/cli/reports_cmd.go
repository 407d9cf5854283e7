package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/tally/internal/app"
	"github.com/alexanderramin/tally/internal/cli/formatter"
	"github.com/alexanderramin/tally/internal/domain"
	"github.com/spf13/cobra"
)

func newReportsCmd(a *App, g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reports",
		Short: "Manage saved and shared reports",
	}

	cmd.AddCommand(
		newReportsListCmd(a, g),
		newReportsSaveCmd(a, g),
		newReportsShowCmd(a, g),
		newReportsShareCmd(a, g),
		newReportsUnshareCmd(a, g),
		newReportsDeleteCmd(a, g),
	)
	return cmd
}

// resolveReport finds a saved report in the organization by ID, name or
// ID prefix.
func resolveReport(ctx context.Context, a *App, g *globalFlags, input string) (*domain.Report, error) {
	org, err := resolveOrg(ctx, a, g)
	if err != nil {
		return nil, err
	}
	reports, err := a.Reports.List(ctx, org.ID)
	if err != nil {
		return nil, err
	}
	cands := make([]candidate, len(reports))
	for i, r := range reports {
		cands[i] = candidate{id: r.ID, names: []string{r.Name}, payload: r}
	}
	c, err := matchOne("report", input, cands)
	if err != nil {
		return nil, err
	}
	return c.payload.(*domain.Report), nil
}

func parseUntil(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("invalid --until %q (expected YYYY-MM-DD or RFC3339)", s)
	}
	return &t, nil
}

// saveRequestFrom copies a stored report into an update request.
func saveRequestFrom(r *domain.Report) app.SaveReportRequest {
	return app.SaveReportRequest{
		OrganizationID: r.OrganizationID,
		Name:           r.Name,
		Description:    r.Description,
		IsPublic:       r.IsPublic,
		PublicUntil:    r.PublicUntil,
		Properties:     r.Properties,
	}
}

func printShareLine(cmd *cobra.Command, r *domain.Report) {
	if !r.IsPublic || r.ShareSecret == nil {
		return
	}
	line := "Share secret: " + formatter.StyleGreen.Render(*r.ShareSecret)
	if r.PublicUntil != nil {
		line += formatter.Dim(" (until " + r.PublicUntil.Format(time.RFC3339) + ")")
	}
	fmt.Fprintln(cmd.OutOrStdout(), line)
}

func newReportsListCmd(a *App, g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved reports",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			org, err := resolveOrg(ctx, a, g)
			if err != nil {
				return err
			}
			reports, err := a.Reports.List(ctx, org.ID)
			if err != nil {
				return err
			}
			if len(reports) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No saved reports.")
				return nil
			}

			rows := make([][]string, 0, len(reports))
			for _, r := range reports {
				shared := formatter.Dim("private")
				if r.IsPublic {
					shared = formatter.StyleGreen.Render("public")
					if r.PublicUntil != nil {
						shared += formatter.Dim(" until " + r.PublicUntil.Format(domain.DateLayout))
					}
				}
				rows = append(rows, []string{
					formatter.TruncID(r.ID),
					r.Name,
					strings.Join(groupKeyStrings(r.Properties.GroupKeys()), " › "),
					shared,
				})
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderTable([]string{"ID", "NAME", "GROUPS", "SHARING"}, rows))
			return nil
		},
	}
}

func newReportsSaveCmd(a *App, g *globalFlags) *cobra.Command {
	var f reportFlags
	var name, description, until string
	var public bool

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Save the current filter as a named report",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			org, err := resolveOrg(ctx, a, g)
			if err != nil {
				return err
			}
			filter, err := f.filter(ctx, cmd, a, org.ID)
			if err != nil {
				return err
			}
			publicUntil, err := parseUntil(until)
			if err != nil {
				return err
			}

			rep, err := a.Reports.Create(ctx, app.SaveReportRequest{
				OrganizationID: org.ID,
				Name:           name,
				Description:    description,
				IsPublic:       public,
				PublicUntil:    publicUntil,
				Properties:     filter.Properties(),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved report %s %s\n", formatter.Bold(rep.Name), formatter.TruncID(rep.ID))
			printShareLine(cmd, rep)
			return nil
		},
	}

	addReportFlags(cmd, &f, true)
	cmd.Flags().StringVar(&name, "name", "", "Report name")
	cmd.Flags().StringVar(&description, "description", "", "Report description")
	cmd.Flags().BoolVar(&public, "public", false, "Share the report behind a secret")
	cmd.Flags().StringVar(&until, "until", "", "Stop sharing after this time (YYYY-MM-DD or RFC3339)")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newReportsShowCmd(a *App, g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show <report>",
		Short: "Build a saved report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			rep, err := resolveReport(ctx, a, g, args[0])
			if err != nil {
				return err
			}
			viewer, err := resolveViewer(ctx, a, g, rep.OrganizationID)
			if err != nil {
				return err
			}
			filter := app.ReportFilterFromProperties(rep.Properties, a.UTCOffsetMinutes)
			resp, err := a.Reports.BuildReport(ctx, rep.OrganizationID, filter, viewer)
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
			if rep.Description != "" {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.RenderMarkdown(rep.Description, 72)+"\n")
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatReport(rep.Name, resp))
			printShareLine(cmd, rep)
			return nil
		},
	}
}

func newReportsShareCmd(a *App, g *globalFlags) *cobra.Command {
	var until string

	cmd := &cobra.Command{
		Use:   "share <report>",
		Short: "Make a saved report public",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			rep, err := resolveReport(ctx, a, g, args[0])
			if err != nil {
				return err
			}
			req := saveRequestFrom(rep)
			req.IsPublic = true
			if cmd.Flags().Changed("until") {
				if req.PublicUntil, err = parseUntil(until); err != nil {
					return err
				}
			}
			rep, err = a.Reports.Update(ctx, rep.ID, req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Shared %s\n", formatter.Bold(rep.Name))
			printShareLine(cmd, rep)
			return nil
		},
	}

	cmd.Flags().StringVar(&until, "until", "", "Stop sharing after this time (empty for no expiry)")
	return cmd
}

func newReportsUnshareCmd(a *App, g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "unshare <report>",
		Short: "Make a saved report private and revoke its secret",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			rep, err := resolveReport(ctx, a, g, args[0])
			if err != nil {
				return err
			}
			req := saveRequestFrom(rep)
			req.IsPublic = false
			if _, err := a.Reports.Update(ctx, rep.ID, req); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is private now\n", formatter.Bold(rep.Name))
			return nil
		},
	}
}

func newReportsDeleteCmd(a *App, g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <report>",
		Short: "Delete a saved report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			rep, err := resolveReport(ctx, a, g, args[0])
			if err != nil {
				return err
			}
			if err := a.Reports.Delete(ctx, rep.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted report %s\n", formatter.Bold(rep.Name))
			return nil
		},
	}
}

func groupKeyStrings(keys []domain.GroupKey) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = string(k)
	}
	return out
}
