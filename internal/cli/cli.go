package cli

import (
	"context"
	"encoding/json"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/orgchart/pkg/config"
	"github.com/matzehuels/orgchart/pkg/errors"
	"github.com/matzehuels/orgchart/pkg/pipeline"
	"github.com/matzehuels/orgchart/pkg/source"
)

// appName is the application name used for display.
const appName = "orgchart"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	sourcePath string
	noCache    bool
	verbose    bool
}

// New creates a CLI logging to w at level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// loadConfig reads the configuration and applies command-line overrides.
// Without --verbose the configured log level is applied.
func (c *CLI) loadConfig() (config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if c.sourcePath != "" {
		cfg.Source = source.Config{Kind: source.KindFile, Path: c.sourcePath}
	}
	if !c.verbose {
		if level, err := log.ParseLevel(strings.ToLower(cfg.Log.Level)); err == nil {
			c.SetLogLevel(level)
		}
	}
	c.Logger.Debug("loaded config", "source", cfg.Source.Kind, "cache", cfg.Cache.Kind, "engine", cfg.Layout.Engine)
	return cfg, nil
}

// newRunner creates a pipeline runner from the configuration.
// The caller must close it.
func (c *CLI) newRunner(ctx context.Context) (*pipeline.Runner, config.Config, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, cfg, err
	}
	r, err := pipeline.Open(ctx, cfg, c.noCache, loggerFromContext(ctx))
	if err != nil {
		return nil, cfg, err
	}
	return r, cfg, nil
}

// printIssues reports repaired records on stderr.
func printIssues(err error) {
	ie, ok := errors.AsIntegrity(err)
	if !ok {
		return
	}
	printWarning("%d record(s) repaired", len(ie.Issues))
	for _, is := range ie.Issues {
		printDetail("%s", is)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
