// Package config loads orgchart settings.
//
// Settings are layered, later layers winning:
//
//  1. [Default]
//  2. a TOML file (orgchart.toml in the working directory unless a path is given)
//  3. a .env file in the working directory, loaded into the environment
//  4. ORGCHART_* environment variables
//
// Example orgchart.toml:
//
//	[source]
//	kind = "mongo"
//	uri = "mongodb://localhost:27017"
//	database = "orgchart"
//
//	[cache]
//	kind = "redis"
//	ttl = "5m"
//	redis = { addr = "localhost:6379" }
//
//	[layout]
//	engine = "graphviz"
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/matzehuels/orgchart/pkg/cache"
	"github.com/matzehuels/orgchart/pkg/collapse"
	"github.com/matzehuels/orgchart/pkg/errors"
	"github.com/matzehuels/orgchart/pkg/graph"
	"github.com/matzehuels/orgchart/pkg/source"
)

// DefaultFile is read when Load is given no path and the file exists.
const DefaultFile = "orgchart.toml"

// Layout engines accepted by [Layout.Engine].
const (
	EngineGraphviz = "graphviz"
	EngineGrid     = "grid"
)

// Config is the full application configuration.
type Config struct {
	Source source.Config `toml:"source"`
	Cache  cache.Config  `toml:"cache"`
	Layout Layout        `toml:"layout"`
	Server Server        `toml:"server"`
	Log    Log           `toml:"log"`
}

// Layout configures graph placement.
type Layout struct {
	Engine      string  `toml:"engine"`
	NodeWidth   float64 `toml:"node_width"`
	NodeHeight  float64 `toml:"node_height"`
	GridColumns int     `toml:"grid_columns"`
}

// Server configures the HTTP API.
type Server struct {
	Addr        string        `toml:"addr"`
	SessionTTL  time.Duration `toml:"session_ttl"`
	MaxSessions int           `toml:"max_sessions"`
}

// Log configures logging.
type Log struct {
	Level string `toml:"level"`
}

// Default returns the built-in configuration: an org.json file source, a
// file cache, graphviz layout and the API on :8080.
func Default() Config {
	return Config{
		Source: source.Config{Kind: source.KindFile, Path: "org.json"},
		Cache:  cache.Config{Kind: cache.KindFile, TTL: source.DefaultTTL, Dir: cache.DefaultDir()},
		Layout: Layout{
			Engine:     EngineGraphviz,
			NodeWidth:  graph.DefaultNodeWidth,
			NodeHeight: graph.DefaultNodeHeight,
		},
		Server: Server{
			Addr:        ":8080",
			SessionTTL:  collapse.DefaultSessionTTL,
			MaxSessions: collapse.DefaultMaxSessions,
		},
		Log: Log{Level: "info"},
	}
}

// Load builds the configuration from the layers described in the package
// documentation and validates it. An explicit path must exist.
func Load(path string) (Config, error) {
	_ = godotenv.Load()
	return load(path, os.Getenv)
}

func load(path string, getenv func(string) string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	if _, err := os.Stat(path); err == nil || explicit {
		md, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return Config{}, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown key %q", path, undecoded[0].String())
		}
	}

	if err := applyEnv(&cfg, getenv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

type envVar struct {
	name string
	set  func(*Config, string) error
}

func str(dst func(*Config) *string) func(*Config, string) error {
	return func(c *Config, v string) error { *dst(c) = v; return nil }
}

func duration(dst func(*Config) *time.Duration) func(*Config, string) error {
	return func(c *Config, v string) error {
		d, err := time.ParseDuration(v)
		if err != nil {
			return err
		}
		*dst(c) = d
		return nil
	}
}

func integer(dst func(*Config) *int) func(*Config, string) error {
	return func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		*dst(c) = n
		return nil
	}
}

var envVars = []envVar{
	{"ORGCHART_SOURCE", str(func(c *Config) *string { return &c.Source.Kind })},
	{"ORGCHART_SOURCE_PATH", str(func(c *Config) *string { return &c.Source.Path })},
	{"ORGCHART_MONGO_URI", str(func(c *Config) *string { return &c.Source.URI })},
	{"ORGCHART_MONGO_DATABASE", str(func(c *Config) *string { return &c.Source.Database })},
	{"ORGCHART_POSTGRES_DSN", str(func(c *Config) *string { return &c.Source.DSN })},
	{"ORGCHART_CACHE", str(func(c *Config) *string { return &c.Cache.Kind })},
	{"ORGCHART_CACHE_TTL", duration(func(c *Config) *time.Duration { return &c.Cache.TTL })},
	{"ORGCHART_CACHE_DIR", str(func(c *Config) *string { return &c.Cache.Dir })},
	{"ORGCHART_CACHE_SIZE", integer(func(c *Config) *int { return &c.Cache.Size })},
	{"ORGCHART_REDIS_ADDR", str(func(c *Config) *string { return &c.Cache.Redis.Addr })},
	{"ORGCHART_REDIS_PASSWORD", str(func(c *Config) *string { return &c.Cache.Redis.Password })},
	{"ORGCHART_REDIS_DB", integer(func(c *Config) *int { return &c.Cache.Redis.DB })},
	{"ORGCHART_LAYOUT_ENGINE", str(func(c *Config) *string { return &c.Layout.Engine })},
	{"ORGCHART_ADDR", str(func(c *Config) *string { return &c.Server.Addr })},
	{"ORGCHART_SESSION_TTL", duration(func(c *Config) *time.Duration { return &c.Server.SessionTTL })},
	{"ORGCHART_LOG_LEVEL", str(func(c *Config) *string { return &c.Log.Level })},
}

func applyEnv(cfg *Config, getenv func(string) string) error {
	for _, ev := range envVars {
		v := strings.TrimSpace(getenv(ev.name))
		if v == "" {
			continue
		}
		if err := ev.set(cfg, v); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", ev.name)
		}
	}
	return nil
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Source.Validate(); err != nil {
		return err
	}
	switch c.Cache.Kind {
	case cache.KindNone, cache.KindFile, cache.KindMemory:
	case cache.KindRedis:
		if c.Cache.Redis.Addr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.redis.addr is required for kind %q", c.Cache.Kind)
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache kind %q", c.Cache.Kind)
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}
	switch c.Layout.Engine {
	case EngineGraphviz, EngineGrid:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown layout engine %q (want graphviz or grid)", c.Layout.Engine)
	}
	if c.Layout.NodeWidth < 0 || c.Layout.NodeHeight < 0 || c.Layout.GridColumns < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "layout sizes must not be negative")
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown log level %q", c.Log.Level)
	}
	return nil
}

// String renders the configuration as TOML with secrets masked.
func (c Config) String() string {
	masked := c
	if masked.Cache.Redis.Password != "" {
		masked.Cache.Redis.Password = "****"
	}
	if masked.Source.DSN != "" {
		masked.Source.DSN = "****"
	}
	var b strings.Builder
	if err := toml.NewEncoder(&b).Encode(masked); err != nil {
		return fmt.Sprintf("config: %v", err)
	}
	return b.String()
}
