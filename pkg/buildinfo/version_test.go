package buildinfo

import (
	"runtime/debug"
	"strings"
	"sync"
	"testing"
)

// withEmbedded makes Get see bi as the binary's build info.
func withEmbedded(t *testing.T, bi *debug.BuildInfo) {
	t.Helper()
	oldRead := buildRead
	buildRead = func() (*debug.BuildInfo, bool) { return bi, bi != nil }
	readOnce, embedded = sync.Once{}, nil
	t.Cleanup(func() {
		buildRead = oldRead
		readOnce, embedded = sync.Once{}, nil
	})
}

func setVars(t *testing.T, version, commit, date string) {
	t.Helper()
	v, c, d := Version, Commit, Date
	Version, Commit, Date = version, commit, date
	t.Cleanup(func() { Version, Commit, Date = v, c, d })
}

func TestGet(t *testing.T) {
	stamped := &debug.BuildInfo{
		Main: debug.Module{Version: "v0.4.0"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.time", Value: "2024-05-01T10:00:00Z"},
		},
	}

	tests := []struct {
		name     string
		ldflags  Info
		embedded *debug.BuildInfo
		want     Info
	}{
		{
			name:     "ldflags win",
			ldflags:  Info{"v1.2.3", "deadbeef", "2024-06-01"},
			embedded: stamped,
			want:     Info{"v1.2.3", "deadbeef", "2024-06-01"},
		},
		{
			name:     "go install fallback",
			ldflags:  Info{"dev", "none", "unknown"},
			embedded: stamped,
			want:     Info{"v0.4.0", "abc123", "2024-05-01T10:00:00Z"},
		},
		{
			name:     "devel build keeps dev",
			ldflags:  Info{"dev", "none", "unknown"},
			embedded: &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}},
			want:     Info{"dev", "none", "unknown"},
		},
		{
			name:    "no build info",
			ldflags: Info{"dev", "none", "unknown"},
			want:    Info{"dev", "none", "unknown"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setVars(t, tt.ldflags.Version, tt.ldflags.Commit, tt.ldflags.Date)
			withEmbedded(t, tt.embedded)
			if got := Get(); got != tt.want {
				t.Errorf("Get() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestTemplate(t *testing.T) {
	setVars(t, "v1.2.3", "deadbeef", "2024-06-01")
	withEmbedded(t, nil)

	if got := Template(); !strings.Contains(got, "version v1.2.3") {
		t.Errorf("Template() = %q, want it to contain the version", got)
	}
	if got := Get().String(); !strings.HasPrefix(got, "version: v1.2.3\n") {
		t.Errorf("String() = %q", got)
	}
}
