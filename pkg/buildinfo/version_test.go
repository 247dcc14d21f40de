package buildinfo

import (
	"strings"
	"testing"
)

func TestStrings(t *testing.T) {
	Version, Commit, Date = "v1.2.3", "abc1234", "2026-01-02T03:04:05Z"
	defer func() { Version, Commit, Date = "dev", "none", "unknown" }()

	if got := String(); got != "v1.2.3 (abc1234, 2026-01-02T03:04:05Z)" {
		t.Errorf("String() = %q", got)
	}
	if tmpl := Template(); !strings.HasPrefix(tmpl, "{{.Name}} version v1.2.3\n") || !strings.Contains(tmpl, "commit: abc1234") {
		t.Errorf("Template() = %q", tmpl)
	}
}
