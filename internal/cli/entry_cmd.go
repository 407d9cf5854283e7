package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/tally/internal/app"
	"github.com/alexanderramin/tally/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newEntryCmd(a *App, g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entry",
		Short: "Record time entries",
	}

	cmd.AddCommand(
		newEntryStartCmd(a, g),
		newEntryStopCmd(a, g),
		newEntryEditCmd(a, g),
	)
	return cmd
}

func parseTimeFlag(name, s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, fmt.Errorf("invalid --%s %q (expected RFC3339, e.g. 2024-01-02T09:00:00Z)", name, s)
	}
	return &t, nil
}

func newEntryStartCmd(a *App, g *globalFlags) *cobra.Command {
	var user, project, task, description, at, end string
	var tags []string
	var billable bool

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start a timer, or record a finished entry with --end",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			org, err := resolveOrg(ctx, a, g)
			if err != nil {
				return err
			}
			m, err := resolveMember(ctx, a, org.ID, user)
			if err != nil {
				return err
			}

			req := app.NewStartEntryRequest(org.ID, m.User.ID)
			req.Start = a.now().UTC().Truncate(time.Second)
			req.Description = description
			if startAt, err := parseTimeFlag("at", at); err != nil {
				return err
			} else if startAt != nil {
				req.Start = *startAt
			}
			if req.End, err = parseTimeFlag("end", end); err != nil {
				return err
			}
			if cmd.Flags().Changed("billable") {
				req.Billable = &billable
			}

			cat := &catalogResolver{app: a, orgID: org.ID}
			if project != "" {
				p, err := cat.project(ctx, project)
				if err != nil {
					return err
				}
				req.ProjectID = &p.ID
			}
			if task != "" {
				ids, err := cat.ids(ctx, "task", []string{task})
				if err != nil {
					return err
				}
				req.TaskID = &ids[0]
			}
			if req.TagIDs, err = cat.ids(ctx, "tag", tags); err != nil {
				return err
			}

			entry, err := a.Entries.Start(ctx, req)
			if err != nil {
				return err
			}
			verb := "Started"
			if entry.End != nil {
				verb = "Recorded"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", verb, formatter.FormatEntry(entry, org.Currency))
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "Member name, email or ID")
	cmd.Flags().StringVar(&project, "project", "", "Project name or ID")
	cmd.Flags().StringVar(&task, "task", "", "Task name or ID")
	cmd.Flags().StringVarP(&description, "description", "d", "", "What the time was spent on")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Tag name or ID (repeatable)")
	cmd.Flags().StringVar(&at, "at", "", "Start time (RFC3339, default now)")
	cmd.Flags().StringVar(&end, "end", "", "End time (RFC3339) for a finished entry")
	cmd.Flags().BoolVar(&billable, "billable", false, "Override the project's billable default")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func newEntryStopCmd(a *App, g *globalFlags) *cobra.Command {
	var user, at string

	cmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop the running timer",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			org, err := resolveOrg(ctx, a, g)
			if err != nil {
				return err
			}
			m, err := resolveMember(ctx, a, org.ID, user)
			if err != nil {
				return err
			}
			end := a.now().UTC().Truncate(time.Second)
			if stopAt, err := parseTimeFlag("at", at); err != nil {
				return err
			} else if stopAt != nil {
				end = *stopAt
			}

			entry, err := a.Entries.Stop(ctx, org.ID, m.User.ID, end)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Stopped %s\n", formatter.FormatEntry(entry, org.Currency))
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "Member name, email or ID")
	cmd.Flags().StringVar(&at, "at", "", "Stop time (RFC3339, default now)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func newEntryEditCmd(a *App, g *globalFlags) *cobra.Command {
	var project, description, end string
	var rate rateValue
	var billable bool

	cmd := &cobra.Command{
		Use:   "edit <entry-id>",
		Short: "Change an entry's project, description, end or billing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			entry, err := a.Entries.Get(ctx, args[0])
			if err != nil {
				return err
			}
			org, err := a.Organizations.Get(ctx, entry.OrganizationID)
			if err != nil {
				return err
			}

			req := app.UpdateEntryRequest{ID: entry.ID}
			if cmd.Flags().Changed("project") {
				req.ProjectID = &project
				if project != "" {
					cat := &catalogResolver{app: a, orgID: org.ID}
					p, err := cat.project(ctx, project)
					if err != nil {
						return err
					}
					req.ProjectID = &p.ID
				}
			}
			if cmd.Flags().Changed("description") {
				req.Description = &description
			}
			if req.End, err = parseTimeFlag("end", end); err != nil {
				return err
			}
			if cmd.Flags().Changed("billable") {
				req.Billable = &billable
			}
			if rate.set {
				if rate.rate == nil {
					return fmt.Errorf("use --billable=false to drop an entry's rate")
				}
				req.BillableRate = rate.rate
			}

			updated, err := a.Entries.Update(ctx, req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", formatter.FormatEntry(updated, org.Currency))
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project name or ID (empty to clear)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "New description")
	cmd.Flags().StringVar(&end, "end", "", "New end time (RFC3339)")
	cmd.Flags().BoolVar(&billable, "billable", false, "Mark billable or not")
	cmd.Flags().Var(&rate, "rate", "Explicit hourly rate for this entry")
	return cmd
}
