package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/orgchart/pkg/collapse"
)

// browseCommand opens the interactive chart.
func (c *CLI) browseCommand() *cobra.Command {
	var collapsed string
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse the chart interactively, collapsing and expanding billets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			r, _, err := c.newRunner(ctx)
			if err != nil {
				return err
			}
			defer r.Close()

			snap := r.Load(ctx)
			printIssues(snap.Integrity)

			model := NewBrowseModel(snap, collapse.Parse(collapsed))
			final, err := tea.NewProgram(model, tea.WithContext(ctx), tea.WithAltScreen()).Run()
			if err != nil {
				return err
			}
			if m, ok := final.(BrowseModel); ok && m.Collapsed.Len() > 0 {
				printInfo("Collapsed: %s", m.Collapsed)
				printDetail("orgchart graph --collapsed %s", m.Collapsed)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&collapsed, "collapsed", "", "comma-separated billet ids to start collapsed")
	return cmd
}
