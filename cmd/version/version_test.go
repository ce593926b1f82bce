package version

import (
	"strings"
	"testing"
)

func TestInfoString(t *testing.T) {
	tests := []struct {
		info Info
		want string
	}{
		{Info{Version: "1.2.0", GoVersion: "go1.22.5", Platform: "linux/amd64"}, "bidkit 1.2.0 go1.22.5 linux/amd64"},
		{Info{Version: "dev", Commit: "abc123", GoVersion: "go1.22.5", Platform: "darwin/arm64"}, "bidkit dev (abc123) go1.22.5 darwin/arm64"},
		{Info{Version: "dev", Commit: "abc123", Modified: true, GoVersion: "go1.22.5", Platform: "windows/amd64"}, "bidkit dev (abc123-dirty) go1.22.5 windows/amd64"},
	}
	for _, tt := range tests {
		if got := tt.info.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestGet(t *testing.T) {
	info := Get()
	if info.Version != Version {
		t.Errorf("Version = %q, want %q", info.Version, Version)
	}
	if !strings.HasPrefix(info.GoVersion, "go") || !strings.Contains(info.Platform, "/") {
		t.Errorf("unexpected runtime fields: %+v", info)
	}
	if len(info.Commit) > 12 {
		t.Errorf("commit not shortened: %q", info.Commit)
	}
}
