// Package version reports the demoreel build and the rendering modules it
// was linked against, so an artifact can be traced back to the exact stack
// that drew it.
package version

import (
	"fmt"
	"runtime/debug"
	"strings"
)

// Version is set at build time:
//
//	-ldflags="-X github.com/wethinkt/go-demoreel/internal/version.Version=v1.0.0"
var Version = ""

// renderModules are the dependencies whose versions change frame output.
var renderModules = []string{
	"golang.org/x/image",
	"github.com/BurntSushi/toml",
}

// Info describes one build.
type Info struct {
	Name      string            `json:"name"`
	Version   string            `json:"version"`
	Revision  string            `json:"revision,omitempty"`
	BuildTime string            `json:"build_time,omitempty"`
	Modified  bool              `json:"modified,omitempty"`
	GoVersion string            `json:"go_version,omitempty"`
	Renderer  map[string]string `json:"renderer,omitempty"`
}

// GetInfo returns the build metadata of the running binary.
func GetInfo(name string) Info {
	bi, _ := debug.ReadBuildInfo()
	return fromBuildInfo(name, Version, bi)
}

// Get returns the version string.
func Get() string {
	return GetInfo("").Version
}

// String returns "<name> version <v>".
func String(name string) string {
	return fmt.Sprintf("%s version %s", name, Get())
}

// Generator returns a compact "<name>/<version>" tag for HTTP headers and
// artifact metadata.
func Generator(name string) string {
	return name + "/" + Get()
}

func fromBuildInfo(name, override string, bi *debug.BuildInfo) Info {
	info := Info{Name: name, Version: override}
	if bi == nil {
		if info.Version == "" {
			info.Version = "dev"
		}
		return info
	}

	info.GoVersion = bi.GoVersion
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			info.Revision = s.Value
		case "vcs.time":
			info.BuildTime = s.Value
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
	for _, dep := range bi.Deps {
		for _, m := range renderModules {
			if dep.Path == m || strings.HasPrefix(dep.Path, m+"/") {
				if info.Renderer == nil {
					info.Renderer = make(map[string]string)
				}
				info.Renderer[dep.Path] = dep.Version
			}
		}
	}

	switch {
	case info.Version != "":
	case bi.Main.Version != "" && bi.Main.Version != "(devel)":
		info.Version = bi.Main.Version
	case len(info.Revision) >= 7:
		info.Version = "dev-" + info.Revision[:7]
		if info.Modified {
			info.Version += "+dirty"
		}
	default:
		info.Version = "dev"
	}
	return info
}
