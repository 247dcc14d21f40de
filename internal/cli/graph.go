package cli

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/orgchart/pkg/collapse"
	"github.com/matzehuels/orgchart/pkg/pipeline"
)

// graphCommand builds the positioned chart.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		collapsed string
		format    string
		output    string
	)
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Lay out the chart and print it as JSON or DOT",
		Long: `Lay out the visible chart for a collapse state.

Billets listed in --collapsed are drawn but their subordinates are hidden.
If the layout engine fails the nodes are placed on a grid instead.`,
		Example: `  orgchart graph --collapsed ops,logistics -o chart.json
  orgchart graph --format dot | dot -Tsvg > chart.svg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pipeline.ValidateFormat(format); err != nil {
				return err
			}
			ctx := cmd.Context()
			r, _, err := c.newRunner(ctx)
			if err != nil {
				return err
			}
			defer r.Close()

			var spin *Spinner
			if output != "" {
				spin = newSpinnerWithContext(ctx, "Laying out chart...")
				spin.Start()
			}
			prog := newProgress(loggerFromContext(ctx))
			g, err := r.Graph(ctx, collapse.Parse(collapsed))
			if spin != nil {
				spin.Stop()
			}
			printIssues(err)

			var buf bytes.Buffer
			if err := pipeline.WriteGraph(&buf, g, format); err != nil {
				return err
			}
			if output == "" {
				_, err := cmd.OutOrStdout().Write(buf.Bytes())
				return err
			}
			if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			prog.done("Built graph")
			printSuccess("Wrote %s", format)
			printFile(output)
			printStats(len(g.Nodes), len(g.Edges), g.Layout)
			if g.Fallback != "" {
				printWarning("layout engine failed: %s", g.Fallback)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&collapsed, "collapsed", "", "comma-separated billet ids to collapse")
	cmd.Flags().StringVarP(&format, "format", "f", pipeline.FormatJSON, "output format: json or dot")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	return cmd
}
