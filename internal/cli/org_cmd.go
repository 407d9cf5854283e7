package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/tally/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newOrgCmd(a *App, g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "org",
		Short: "Inspect organizations and their members",
	}

	cmd.AddCommand(
		newOrgListCmd(a),
		newOrgMembersCmd(a, g),
		newOrgProjectsCmd(a, g),
	)
	return cmd
}

func newOrgListCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List organizations",
		RunE: func(cmd *cobra.Command, args []string) error {
			orgs, err := a.Organizations.List(context.Background())
			if err != nil {
				return err
			}
			if len(orgs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No organizations yet.")
				return nil
			}
			rows := make([][]string, 0, len(orgs))
			for _, o := range orgs {
				visibility := formatter.Dim("managers only")
				if o.EmployeesCanSeeBillableRates {
					visibility = "everyone"
				}
				rows = append(rows, []string{
					formatter.TruncID(o.ID),
					o.Name,
					o.Currency,
					formatter.FormatRate(o.BillableRate, o.Currency),
					visibility,
				})
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderTable([]string{"ID", "NAME", "CURRENCY", "RATE", "COSTS VISIBLE TO"}, rows))
			return nil
		},
	}
}

func newOrgMembersCmd(a *App, g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "members",
		Short: "List members with their roles and rates",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			org, err := resolveOrg(ctx, a, g)
			if err != nil {
				return err
			}
			members, err := a.Organizations.Members(ctx, org.ID)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(members))
			for _, m := range members {
				rows = append(rows, []string{
					formatter.TruncID(m.Member.ID),
					m.User.Name,
					m.User.Email,
					formatter.RoleBadge(m.Member.Role),
					formatter.FormatRate(m.Member.BillableRate, org.Currency),
				})
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderTable([]string{"ID", "NAME", "EMAIL", "ROLE", "RATE"}, rows))
			return nil
		},
	}
}

func newOrgProjectsCmd(a *App, g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "projects",
		Short: "List projects with their rates",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			org, err := resolveOrg(ctx, a, g)
			if err != nil {
				return err
			}
			cat, err := a.Organizations.Catalog(ctx, org.ID)
			if err != nil {
				return err
			}
			clients := make(map[string]string, len(cat.Clients))
			for _, c := range cat.Clients {
				clients[c.ID] = c.Name
			}

			rows := make([][]string, 0, len(cat.Projects))
			for _, p := range cat.Projects {
				client := formatter.Dim("—")
				if p.ClientID != nil {
					client = clients[*p.ClientID]
				}
				billable := formatter.Dim("no")
				if p.IsBillable {
					billable = formatter.StyleGreen.Render("yes")
				}
				name := p.Name
				if p.ArchivedAt != nil {
					name = formatter.Dim(name + " (archived)")
				}
				rows = append(rows, []string{
					formatter.TruncID(p.ID),
					name,
					client,
					billable,
					formatter.FormatRate(p.BillableRate, org.Currency),
				})
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderTable([]string{"ID", "NAME", "CLIENT", "BILLABLE", "RATE"}, rows))
			return nil
		},
	}
}
