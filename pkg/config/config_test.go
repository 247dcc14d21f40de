package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/orgchart/pkg/errors"
)

func env(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func writeTOML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "orgchart.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeTOML(t, `
[source]
kind = "mongo"
uri = "mongodb://db:27017"
database = "org"

[cache]
kind = "redis"
ttl = "90s"
redis = { addr = "cache:6379", password = "hunter2" }

[layout]
engine = "grid"
grid_columns = 4

[log]
level = "debug"
`)
	cfg, err := load(path, env(nil))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Source.Kind != "mongo" || cfg.Source.Database != "org" {
		t.Errorf("Source = %+v", cfg.Source)
	}
	if cfg.Cache.Kind != "redis" || cfg.Cache.TTL != 90*time.Second || cfg.Cache.Redis.Addr != "cache:6379" {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Layout.Engine != EngineGrid || cfg.Layout.GridColumns != 4 {
		t.Errorf("Layout = %+v", cfg.Layout)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("unset sections should keep defaults, Server = %+v", cfg.Server)
	}
	if s := cfg.String(); strings.Contains(s, "hunter2") {
		t.Errorf("String() leaks the redis password:\n%s", s)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeTOML(t, `
[source]
kind = "file"
path = "from-file.json"
`)
	cfg, err := load(path, env(map[string]string{
		"ORGCHART_SOURCE_PATH":   "from-env.json",
		"ORGCHART_CACHE":         "memory",
		"ORGCHART_CACHE_TTL":     "1m",
		"ORGCHART_CACHE_SIZE":    "32",
		"ORGCHART_LAYOUT_ENGINE": "grid",
		"ORGCHART_ADDR":          ":9000",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Source.Path != "from-env.json" {
		t.Errorf("Source.Path = %q, env should win", cfg.Source.Path)
	}
	if cfg.Cache.Kind != "memory" || cfg.Cache.TTL != time.Minute || cfg.Cache.Size != 32 {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Layout.Engine != EngineGrid || cfg.Server.Addr != ":9000" {
		t.Errorf("Layout/Server = %+v %+v", cfg.Layout, cfg.Server)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		toml string
		env  map[string]string
	}{
		{"unknown key", "[source]\nkind = \"file\"\npath = \"x\"\ncolour = \"red\"\n", nil},
		{"bad engine", "[layout]\nengine = \"neato\"\n", nil},
		{"redis without addr", "[cache]\nkind = \"redis\"\n", nil},
		{"bad source", "[source]\nkind = \"ldap\"\n", nil},
		{"bad env duration", "", map[string]string{"ORGCHART_CACHE_TTL": "soon"}},
		{"bad log level", "", map[string]string{"ORGCHART_LOG_LEVEL": "loud"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := load(writeTOML(t, tt.toml), env(tt.env))
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("err = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := load(filepath.Join(t.TempDir(), "absent.toml"), env(nil))
	if err == nil {
		t.Error("explicit missing file should fail")
	}
}

func TestLoadWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := load("", env(map[string]string{"ORGCHART_SOURCE_PATH": "org.toml"}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Source.Path != "org.toml" || cfg.Layout.Engine != EngineGraphviz {
		t.Errorf("cfg = %+v", cfg)
	}
}
