package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/orgchart/pkg/cache"
)

// writeConfig writes an orgchart.toml with a file cache in dir.
func writeConfig(t *testing.T, dir, extra string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "orgchart.toml")
	body := "[cache]\nkind = \"file\"\ndir = \"" + filepath.ToSlash(dir) + "\"\n" + extra
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := New(io.Discard, LogInfo).RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCachePath(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, "--config", writeConfig(t, dir, ""), "cache", "path")
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if strings.TrimSpace(out) != dir {
		t.Errorf("cache path = %q, want %q", out, dir)
	}
}

func TestCacheClear(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	_ = fc.Set(ctx, "records:x", []byte("{}"), time.Hour, cache.TagRecords)

	if _, err := execute(t, "--config", writeConfig(t, dir, ""), "cache", "clear"); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if _, hit, _ := fc.Get(ctx, "records:x"); hit {
		t.Error("entry survived cache clear")
	}
}

func TestCacheBadConfig(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "[layout]\nengine = \"spring\"\n")
	if _, err := execute(t, "--config", path, "cache", "path"); err == nil {
		t.Error("expected error for unknown layout engine")
	}
}
