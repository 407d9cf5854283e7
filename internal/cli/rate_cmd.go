package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/tally/internal/app"
	"github.com/alexanderramin/tally/internal/cli/formatter"
	"github.com/alexanderramin/tally/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newRateCmd(a *App, g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rate",
		Short: "Resolve and change billable rates",
	}

	cmd.AddCommand(
		newRateResolveCmd(a, g),
		newRateSetCmd(a, g),
	)
	return cmd
}

func newRateResolveCmd(a *App, g *globalFlags) *cobra.Command {
	var user, project, below string

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Show the rate a new entry would get",
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
			var projectID *string
			subject := m.User.Name
			if project != "" {
				cat := &catalogResolver{app: a, orgID: org.ID}
				p, err := cat.project(ctx, project)
				if err != nil {
					return err
				}
				projectID = &p.ID
				subject += " on " + p.Name
			}

			var rate *decimal.Decimal
			if below != "" {
				rate, err = a.Rates.ResolveRateBelow(ctx, domain.RateLevel(below), m.User.ID, org.ID, projectID)
			} else {
				rate, err = a.Rates.ResolveRate(ctx, m.User.ID, org.ID, projectID)
			}
			if err != nil {
				return err
			}

			asJSON, err := g.useJSON(a)
			if err != nil {
				return err
			}
			if asJSON {
				return a.Export.WriteJSON(cmd.OutOrStdout(), map[string]any{
					"user_id":    m.User.ID,
					"project_id": projectID,
					"rate":       rate,
					"currency":   org.Currency,
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Rate for %s: %s\n", formatter.Bold(subject), formatter.FormatRate(rate, org.Currency))
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "Member name, email or ID")
	cmd.Flags().StringVar(&project, "project", "", "Project name or ID")
	cmd.Flags().StringVar(&below, "below", "", "Skip this level and the ones above it")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

// rateSource resolves the record a rate change is attached to.
func rateSource(ctx context.Context, a *App, org *domain.Organization, level domain.RateLevel, user, project string) (id, subject string, err error) {
	cat := &catalogResolver{app: a, orgID: org.ID}
	switch level {
	case domain.RateLevelOrganization:
		return org.ID, org.Name, nil
	case domain.RateLevelOrganizationMember:
		m, err := resolveMember(ctx, a, org.ID, user)
		if err != nil {
			return "", "", err
		}
		return m.Member.ID, m.User.Name, nil
	case domain.RateLevelProject:
		p, err := cat.project(ctx, project)
		if err != nil {
			return "", "", err
		}
		return p.ID, p.Name, nil
	case domain.RateLevelProjectMember:
		p, err := cat.project(ctx, project)
		if err != nil {
			return "", "", err
		}
		m, err := resolveMember(ctx, a, org.ID, user)
		if err != nil {
			return "", "", err
		}
		pms, err := a.Organizations.ProjectMembers(ctx, p.ID)
		if err != nil {
			return "", "", err
		}
		for _, pm := range pms {
			if pm.MemberID == m.Member.ID {
				return pm.ID, m.User.Name + " on " + p.Name, nil
			}
		}
		return "", "", fmt.Errorf("%s is not a member of project %s", m.User.Name, p.Name)
	default:
		// Unknown levels are rejected by the rate service.
		return "", string(level), nil
	}
}

func newRateSetCmd(a *App, g *globalFlags) *cobra.Command {
	var level, user, project string
	var rate rateValue
	var applyExisting, yes bool

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change a rate at one level",
		Example: `  tally rate set --level organization --rate 60
  tally rate set --level project --project Website --rate 120 --apply-existing
  tally rate set --level project_member --project Website --user ada --rate none`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !rate.set {
				return fmt.Errorf("--rate is required (a number, or none to clear)")
			}
			ctx := context.Background()
			org, err := resolveOrg(ctx, a, g)
			if err != nil {
				return err
			}
			lvl := domain.RateLevel(level)
			sourceID, subject, err := rateSource(ctx, a, org, lvl, user, project)
			if err != nil {
				return err
			}

			if applyExisting && !yes && a.interactive() {
				ok, err := a.confirm(fmt.Sprintf("Reprice existing entries of %s that still use the old rate?", subject))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
					return nil
				}
			}

			res, err := a.Rates.ApplyRateChange(ctx, app.RateChange{
				OrganizationID:  org.ID,
				Level:           lvl,
				SourceID:        sourceID,
				NewRate:         rate.rate,
				ApplyToExisting: applyExisting,
			})
			if err != nil {
				return err
			}

			asJSON, err := g.useJSON(a)
			if err != nil {
				return err
			}
			if asJSON {
				return a.Export.WriteJSON(cmd.OutOrStdout(), res)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatRateChange(subject, res, org.Currency))
			return nil
		},
	}

	cmd.Flags().StringVar(&level, "level", "", "organization, organization_member, project or project_member")
	cmd.Flags().Var(&rate, "rate", "New hourly rate, or none to clear it")
	cmd.Flags().StringVar(&user, "user", "", "Member name, email or ID (member levels)")
	cmd.Flags().StringVar(&project, "project", "", "Project name or ID (project levels)")
	cmd.Flags().BoolVar(&applyExisting, "apply-existing", false, "Reprice existing entries that still carry the old rate")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	_ = cmd.MarkFlagRequired("level")
	return cmd
}
