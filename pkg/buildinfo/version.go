// Package buildinfo reports which build of stringart is running.
//
// Release builds stamp the variables with ldflags:
//
//	go build -ldflags "-X github.com/matzehuels/stringart/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/matzehuels/stringart/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/stringart/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// Binaries built with `go install` carry no ldflags; [Get] then falls back to
// the module version and VCS stamps recorded by the Go toolchain.
package buildinfo

import (
	"fmt"
	"runtime/debug"
	"sync"
)

// Set by ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info is the resolved build identity.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

var (
	readOnce  sync.Once
	buildRead = debug.ReadBuildInfo
	embedded  *debug.BuildInfo
)

// Get returns the ldflags values, filling unset ones from the embedded
// module and VCS information when present.
func Get() Info {
	info := Info{Version: Version, Commit: Commit, Date: Date}
	readOnce.Do(func() {
		if bi, ok := buildRead(); ok {
			embedded = bi
		}
	})
	if embedded == nil {
		return info
	}
	if info.Version == "dev" && embedded.Main.Version != "" && embedded.Main.Version != "(devel)" {
		info.Version = embedded.Main.Version
	}
	for _, s := range embedded.Settings {
		switch {
		case s.Key == "vcs.revision" && info.Commit == "none":
			info.Commit = s.Value
		case s.Key == "vcs.time" && info.Date == "unknown":
			info.Date = s.Value
		}
	}
	return info
}

func (i Info) String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", i.Version, i.Commit, i.Date)
}

// Template is the cobra version template.
func Template() string {
	i := Get()
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", i.Version, i.Commit, i.Date)
}
