package version

import (
	"runtime/debug"
	"strings"
	"testing"
)

func TestFromSettings(t *testing.T) {
	tests := []struct {
		name        string
		settings    []debug.BuildSetting
		wantVersion string
		wantCommit  string
	}{
		{"empty", nil, "", ""},
		{
			"clean",
			[]debug.BuildSetting{
				{Key: "vcs.revision", Value: "0123456789abcdef"},
				{Key: "vcs.time", Value: "2026-03-04T05:06:07Z"},
				{Key: "vcs.modified", Value: "false"},
			},
			"dev-20260304", "0123456",
		},
		{
			"dirty short revision",
			[]debug.BuildSetting{
				{Key: "vcs.revision", Value: "abc"},
				{Key: "vcs.modified", Value: "true"},
			},
			"", "abc-dirty",
		},
		{
			"bad time",
			[]debug.BuildSetting{{Key: "vcs.time", Value: "yesterday"}},
			"", "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, c := fromSettings(tt.settings)
			if v != tt.wantVersion || c != tt.wantCommit {
				t.Errorf("fromSettings() = (%q, %q), want (%q, %q)", v, c, tt.wantVersion, tt.wantCommit)
			}
		})
	}
}

func TestGetAndFull(t *testing.T) {
	info := Get()
	if info.Version == "" || info.Commit == "" {
		t.Errorf("Get() = %+v, want populated fields", info)
	}
	if !strings.HasPrefix(info.GoVersion, "go") && !strings.HasPrefix(info.GoVersion, "devel") {
		t.Errorf("GoVersion = %q", info.GoVersion)
	}
	if !strings.Contains(Full(), "(commit: "+Commit+")") {
		t.Errorf("Full() = %q", Full())
	}
}
