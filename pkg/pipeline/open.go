package pipeline

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/orgchart/pkg/cache"
	"github.com/matzehuels/orgchart/pkg/config"
	"github.com/matzehuels/orgchart/pkg/source"
)

// Open wires a Runner from configuration: the configured source, wrapped in
// the configured cache unless noCache is set, and the [layout] options.
// The caller must Close the runner.
func Open(ctx context.Context, cfg config.Config, noCache bool, logger *log.Logger) (*Runner, error) {
	src, err := source.New(ctx, cfg.Source)
	if err != nil {
		return nil, err
	}

	if !noCache && cfg.Cache.Kind != cache.KindNone {
		c, err := cache.Open(ctx, cfg.Cache)
		if err != nil {
			_ = src.Close()
			return nil, err
		}
		src = source.NewCached(src, c, nil, cfg.Cache.TTL)
		if logger != nil {
			logger.Debug("record cache enabled", "kind", cfg.Cache.Kind, "ttl", cfg.Cache.TTL)
		}
	}

	r, err := NewRunner(src, OptionsFromConfig(cfg.Layout), logger)
	if err != nil {
		_ = src.Close()
		return nil, err
	}
	return r, nil
}
