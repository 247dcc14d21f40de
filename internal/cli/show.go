package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/orgchart/pkg/reservist"
)

// treeCommand prints the active hierarchy.
func (c *CLI) treeCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the active hierarchy (reservists excluded)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			r, _, err := c.newRunner(ctx)
			if err != nil {
				return err
			}
			defer r.Close()

			roots, err := r.Tree(ctx)
			printIssues(err)
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), roots)
			}
			if len(roots) == 0 {
				printInfo("No billets")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTree(roots))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a tree")
	return cmd
}

// rosterCommand prints reservists grouped by element.
func (c *CLI) rosterCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "roster",
		Short: "List reservist billets by element",
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
			roster := reservist.Roster(reservist.Separate(snap.Set))
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), roster)
			}
			if len(roster) == 0 {
				printInfo("No reservists")
				return nil
			}
			superior := func(id string) string {
				if n, ok := snap.Set.Node(id); ok && n.Role != "" {
					return n.Role
				}
				return id
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderRoster(roster, superior))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

// elementsCommand prints the element tree with billet rows.
func (c *CLI) elementsCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "elements",
		Short: "Print organizational elements with their billets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			r, _, err := c.newRunner(ctx)
			if err != nil {
				return err
			}
			defer r.Close()

			roots, err := r.Elements(ctx)
			printIssues(err)
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), roots)
			}
			if len(roots) == 0 {
				printInfo("No elements")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderElements(roots))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a tree")
	return cmd
}
