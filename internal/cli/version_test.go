package cli

import (
	"encoding/json"
	"runtime"
	"runtime/debug"
	"strings"
	"testing"

	"github.com/luxcatalog/lux/internal/buildinfo"
)

func stubBuildInfo(t *testing.T, bi *debug.BuildInfo) {
	t.Helper()
	prev := readBuildInfo
	t.Cleanup(func() { readBuildInfo = prev })
	readBuildInfo = func() (*debug.BuildInfo, bool) {
		return bi, bi != nil
	}
}

func TestCurrentVersionInfoFromBuildInfo(t *testing.T) {
	stubBuildInfo(t, &debug.BuildInfo{
		GoVersion: "go1.23.4",
		Main: debug.Module{
			Path:    "github.com/luxcatalog/lux",
			Version: "v1.2.3",
		},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.time", Value: "2026-02-14T17:00:00Z"},
			{Key: "vcs.modified", Value: "true"},
			{Key: "GOOS", Value: "windows"},
			{Key: "GOARCH", Value: "amd64"},
		},
	})

	info := currentVersionInfo()

	if info.Version != "v1.2.3" {
		t.Fatalf("Version = %q, want %q", info.Version, "v1.2.3")
	}
	if info.Commit != "abc123" {
		t.Fatalf("Commit = %q, want %q", info.Commit, "abc123")
	}
	if info.CommitTime != "2026-02-14T17:00:00Z" {
		t.Fatalf("CommitTime = %q, want %q", info.CommitTime, "2026-02-14T17:00:00Z")
	}
	if !info.Modified {
		t.Fatal("Modified = false, want true")
	}
	if info.GoVersion != "go1.23.4" {
		t.Fatalf("GoVersion = %q, want %q", info.GoVersion, "go1.23.4")
	}
	if info.Platform != "windows/amd64" {
		t.Fatalf("Platform = %q, want %q", info.Platform, "windows/amd64")
	}
}

func TestCurrentVersionInfoFallbackWhenBuildInfoMissing(t *testing.T) {
	stubBuildInfo(t, nil)

	info := currentVersionInfo()

	if info.Version != "devel" {
		t.Fatalf("Version = %q, want %q", info.Version, "devel")
	}
	if info.ModulePath != defaultModulePath {
		t.Fatalf("ModulePath = %q, want %q", info.ModulePath, defaultModulePath)
	}
	if info.GoVersion != runtime.Version() {
		t.Fatalf("GoVersion = %q, want runtime %q", info.GoVersion, runtime.Version())
	}
	if want := runtime.GOOS + "/" + runtime.GOARCH; info.Platform != want {
		t.Fatalf("Platform = %q, want %q", info.Platform, want)
	}
}

func TestCurrentVersionInfoLdflagsFallback(t *testing.T) {
	stubBuildInfo(t, &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}})

	prevVersion, prevCommit := buildinfo.Version, buildinfo.Commit
	t.Cleanup(func() {
		buildinfo.Version, buildinfo.Commit = prevVersion, prevCommit
	})
	buildinfo.Version, buildinfo.Commit = "v0.3.0", "feedface"

	info := currentVersionInfo()
	if info.Version != "v0.3.0" {
		t.Fatalf("Version = %q, want %q", info.Version, "v0.3.0")
	}
	if info.Commit != "feedface" {
		t.Fatalf("Commit = %q, want %q", info.Commit, "feedface")
	}
}

func TestVersionCommand(t *testing.T) {
	stubBuildInfo(t, &debug.BuildInfo{
		GoVersion: "go1.23.4",
		Main:      debug.Module{Path: "github.com/luxcatalog/lux", Version: "(devel)"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "deadbeef"},
			{Key: "vcs.modified", Value: "true"},
		},
	})

	t.Run("text", func(t *testing.T) {
		out, err := runCLI(t, "version")
		if err != nil {
			t.Fatalf("version: %v", err)
		}
		for _, want := range []string{"lux devel", "commit: deadbeef (modified)", "go: go1.23.4"} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("json", func(t *testing.T) {
		out, err := runCLI(t, "version", "--json")
		if err != nil {
			t.Fatalf("version --json: %v", err)
		}

		var resp struct {
			OK   bool        `json:"ok"`
			Data versionInfo `json:"data"`
		}
		if err := json.Unmarshal([]byte(out), &resp); err != nil {
			t.Fatalf("unmarshal output: %v\n%s", err, out)
		}
		if !resp.OK {
			t.Fatalf("ok = false, output: %s", out)
		}
		if resp.Data.Version != "devel" || resp.Data.Commit != "deadbeef" {
			t.Fatalf("data = %+v", resp.Data)
		}
	})
}
