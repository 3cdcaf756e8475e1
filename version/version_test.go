package version

import (
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	info := Get()

	if info.Version != Version {
		t.Errorf("expected version %q, got %q", Version, info.Version)
	}
	if info.CommitHash != CommitHash {
		t.Errorf("expected commit %q, got %q", CommitHash, info.CommitHash)
	}
	if info.GoVersion == "" {
		t.Error("expected Go version to be populated")
	}
	if !strings.Contains(info.Platform, "/") {
		t.Errorf("expected os/arch platform, got %q", info.Platform)
	}
}

func TestString(t *testing.T) {
	info := Info{Version: "1.2.0", CommitHash: "3f4a1c2", BuildTime: "2026-08-12T09:30:00Z"}
	want := "postforge 1.2.0 (commit 3f4a1c2, built 2026-08-12T09:30:00Z)"
	if got := info.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestShort(t *testing.T) {
	if got := (Info{CommitHash: "3f4a1c2d9e8b"}).Short(); got != "3f4a1c2" {
		t.Errorf("expected abbreviated hash, got %q", got)
	}
	if got := (Info{CommitHash: "dev"}).Short(); got != "dev" {
		t.Errorf("short hashes pass through, got %q", got)
	}
}

func TestUserAgent(t *testing.T) {
	if got := UserAgent(); !strings.HasPrefix(got, "postforge/") {
		t.Errorf("expected postforge/<version>, got %q", got)
	}
}
