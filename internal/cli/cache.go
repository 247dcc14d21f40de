package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/orgchart/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the record cache",
	}
	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())
	return cmd
}

// cacheClearCommand drops every cached record snapshot.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear all cached records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cfg.Cache.Kind == cache.KindNone {
				printInfo("Caching is disabled")
				return nil
			}

			cc, err := cache.Open(ctx, cfg.Cache)
			if err != nil {
				return err
			}
			defer cc.Close()

			if fc, ok := cc.(*cache.FileCache); ok {
				if err := fc.Clear(ctx); err != nil {
					return err
				}
				printSuccess("Cleared record cache")
				printDetail("Directory: %s", fc.Dir())
				return nil
			}
			if err := cc.InvalidateTag(ctx, cache.TagRecords); err != nil {
				return err
			}
			printSuccess("Invalidated cached records (%s)", cfg.Cache.Kind)
			return nil
		},
	}
}

// cachePathCommand prints where records are cached.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			switch cfg.Cache.Kind {
			case cache.KindFile:
				dir := cfg.Cache.Dir
				if dir == "" {
					dir = cache.DefaultDir()
				}
				fmt.Fprintln(cmd.OutOrStdout(), dir)
			case cache.KindRedis:
				printKeyValue("redis", cfg.Cache.Redis.Addr)
			default:
				printKeyValue("cache", cfg.Cache.Kind)
			}
			return nil
		},
	}
}
