package cli

import (
	"fmt"
	"time"

	"github.com/alexanderramin/tally/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Organizations service.OrganizationService
	Rates         service.RateService
	Reports       service.ReportService
	Entries       service.TimeEntryService
	Export        service.ExportService
	Import        service.ImportService

	// UTCOffsetMinutes is the default reference offset for report days.
	UTCOffsetMinutes int

	// IsInteractive reports whether stdin/stdout is a terminal. It picks the
	// default output format and gates confirmation prompts.
	IsInteractive func() bool
	// Confirm asks a yes/no question. Defaults to a huh form.
	Confirm func(title string) (bool, error)
	// Now defaults to time.Now.
	Now func() time.Time
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) confirm(title string) (bool, error) {
	if a.Confirm != nil {
		return a.Confirm(title)
	}
	return confirmPrompt(title)
}

// globalFlags are the persistent flags shared by every subcommand.
type globalFlags struct {
	org    string
	as     string
	output string
}

// useJSON resolves the output format. Without --output, terminals get
// tables and pipes get JSON.
func (g *globalFlags) useJSON(app *App) (bool, error) {
	switch g.output {
	case "":
		return !app.interactive(), nil
	case "json":
		return true, nil
	case "table":
		return false, nil
	default:
		return false, fmt.Errorf("invalid --output %q (expected table or json)", g.output)
	}
}

// NewRootCmd creates the top-level "tally" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:           "tally",
		Short:         "Time-entry reports and billable rates",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&g.org, "org", "", "Organization name or ID (defaults to the only one)")
	root.PersistentFlags().StringVar(&g.as, "as", "", "View as this member (name, email or ID)")
	root.PersistentFlags().StringVarP(&g.output, "output", "o", "", "Output format: table or json")

	root.AddCommand(
		newOrgCmd(app, g),
		newReportCmd(app, g),
		newHistoryCmd(app, g),
		newReportsCmd(app, g),
		newPublicCmd(app, g),
		newExportCmd(app, g),
		newRateCmd(app, g),
		newEntryCmd(app, g),
		newImportCmd(app, g),
		newBrowseCmd(app, g),
	)

	return root
}
