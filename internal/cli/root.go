package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/matzehuels/orgchart/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Orgchart renders billet hierarchies as collapsible charts",
		Long:          `Orgchart reads flat billet records from a file, MongoDB or PostgreSQL, repairs them into a hierarchy and renders it as a terminal tree, a positioned graph or an HTTP API.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}
	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.StringVarP(&c.configPath, "config", "c", "", "config file (default ./orgchart.toml if present)")
	flags.StringVarP(&c.sourcePath, "source", "s", "", "read records from this JSON or TOML file instead of the configured source")
	flags.BoolVar(&c.noCache, "no-cache", false, "bypass the record cache")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.treeCommand())
	root.AddCommand(c.rosterCommand())
	root.AddCommand(c.elementsCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// Execute runs the root command and prints any error other than
// cancellation, which the caller maps to its exit status.
func (c *CLI) Execute(ctx context.Context) error {
	err := c.RootCommand().ExecuteContext(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		printError("%v", err)
	}
	return err
}
