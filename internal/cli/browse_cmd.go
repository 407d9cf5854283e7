package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newBrowseCmd(a *App, g *globalFlags) *cobra.Command {
	var f reportFlags

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Explore a report interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.interactive() {
				return fmt.Errorf("browse needs a terminal, use \"tally report\" instead")
			}
			org, resp, err := buildReport(context.Background(), cmd, a, g, &f)
			if err != nil {
				return err
			}
			p := tea.NewProgram(newReportBrowser(org.Name, resp), tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}

	addReportFlags(cmd, &f, true)
	return cmd
}
