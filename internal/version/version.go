// Package version reports the build identity of the MinuteAI binaries.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"time"
)

// Set at build time:
//
//	go build -ldflags="-X github.com/minuteai/minute-site/internal/version.Version=v0.3.0 \
//	                   -X github.com/minuteai/minute-site/internal/version.Commit=abc1234"
//
// Unset values are filled from VCS build info, then from a dev timestamp.
var (
	Version = ""
	Commit  = ""
)

// Info is the build identity served by /healthz and advertised over mDNS.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	GoVersion string `json:"go_version"`
}

func init() {
	if Version == "" || Commit == "" {
		if info, ok := debug.ReadBuildInfo(); ok {
			v, c := fromSettings(info.Settings)
			if Version == "" {
				Version = v
			}
			if Commit == "" {
				Commit = c
			}
		}
	}

	if Version == "" {
		Version = fmt.Sprintf("dev-%s", time.Now().Format("20060102-150405"))
	}
	if Commit == "" {
		Commit = "unknown"
	}
}

// fromSettings derives a version and short commit from VCS build settings.
// Either result may be empty.
func fromSettings(settings []debug.BuildSetting) (version, commit string) {
	var revision, modified, vcsTime string
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.modified":
			modified = s.Value
		case "vcs.time":
			vcsTime = s.Value
		}
	}

	if revision != "" {
		commit = revision
		if len(commit) > 7 {
			commit = commit[:7]
		}
		if modified == "true" {
			commit += "-dirty"
		}
	}

	if vcsTime != "" {
		if t, err := time.Parse(time.RFC3339, vcsTime); err == nil {
			version = "dev-" + t.Format("20060102")
		}
	}
	return version, commit
}

// Get returns the current build identity.
func Get() Info {
	return Info{Version: Version, Commit: Commit, GoVersion: runtime.Version()}
}

// Full returns the version with its commit.
func Full() string {
	return fmt.Sprintf("%s (commit: %s)", Version, Commit)
}
