package version

import (
	"runtime/debug"
	"testing"
)

func TestVersionOverride(t *testing.T) {
	prev := Version
	t.Cleanup(func() { Version = prev })

	Version = "v1.2.3"
	if got := Get(); got != "v1.2.3" {
		t.Errorf("Get() = %q, want v1.2.3", got)
	}
	if got := String("demoreel"); got != "demoreel version v1.2.3" {
		t.Errorf("String() = %q", got)
	}
	if got := Generator("demoreel"); got != "demoreel/v1.2.3" {
		t.Errorf("Generator() = %q", got)
	}
	info := GetInfo("demoreel")
	if info.Name != "demoreel" || info.Version != "v1.2.3" {
		t.Errorf("GetInfo() = %+v", info)
	}
}

func TestFromBuildInfo(t *testing.T) {
	settings := func(rev string, modified bool) []debug.BuildSetting {
		m := "false"
		if modified {
			m = "true"
		}
		return []debug.BuildSetting{
			{Key: "vcs.revision", Value: rev},
			{Key: "vcs.time", Value: "2026-10-01T12:00:00Z"},
			{Key: "vcs.modified", Value: m},
		}
	}

	tests := []struct {
		name     string
		override string
		bi       *debug.BuildInfo
		want     string
	}{
		{"no build info", "", nil, "dev"},
		{"override wins", "v2.0.0", &debug.BuildInfo{Main: debug.Module{Version: "v1.0.0"}}, "v2.0.0"},
		{"module version", "", &debug.BuildInfo{Main: debug.Module{Version: "v1.0.0"}}, "v1.0.0"},
		{"revision", "", &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}, Settings: settings("abcdef123456", false)}, "dev-abcdef1"},
		{"dirty revision", "", &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}, Settings: settings("abcdef123456", true)}, "dev-abcdef1+dirty"},
		{"short revision", "", &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}, Settings: settings("abc", false)}, "dev"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fromBuildInfo("demoreel", tt.override, tt.bi).Version; got != tt.want {
				t.Errorf("Version = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFromBuildInfoRenderer(t *testing.T) {
	bi := &debug.BuildInfo{
		GoVersion: "go1.25.6",
		Main:      debug.Module{Version: "(devel)"},
		Settings:  []debug.BuildSetting{{Key: "vcs.time", Value: "2026-10-01T12:00:00Z"}},
		Deps: []*debug.Module{
			{Path: "golang.org/x/image", Version: "v0.36.0"},
			{Path: "github.com/spf13/cobra", Version: "v1.10.2"},
		},
	}
	info := fromBuildInfo("demoreel", "", bi)
	if info.GoVersion != "go1.25.6" || info.BuildTime != "2026-10-01T12:00:00Z" {
		t.Errorf("info = %+v", info)
	}
	if len(info.Renderer) != 1 || info.Renderer["golang.org/x/image"] != "v0.36.0" {
		t.Errorf("Renderer = %v, want only golang.org/x/image", info.Renderer)
	}
}
