package version

import (
	"runtime/debug"
	"testing"
)

func TestFromSettings(t *testing.T) {
	tests := []struct {
		name     string
		start    Info
		settings []debug.BuildSetting
		want     Info
	}{
		{
			name:  "vcs stamp fills gaps",
			start: Info{Version: "dev"},
			settings: []debug.BuildSetting{
				{Key: "vcs.revision", Value: "0123456789abcdef"},
				{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
				{Key: "vcs.modified", Value: "true"},
			},
			want: Info{Version: "dev", Commit: "0123456", BuildTime: "2026-01-02T03:04:05Z", Dirty: true},
		},
		{
			name:     "ldflags win",
			start:    Info{Version: "1.0.0", Commit: "feedbee", BuildTime: "yesterday"},
			settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "0123456789"}, {Key: "vcs.time", Value: "today"}},
			want:     Info{Version: "1.0.0", Commit: "feedbee", BuildTime: "yesterday"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.start
			got.fromSettings(tt.settings)
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		info Info
		want string
	}{
		{Info{Version: "dev"}, "dev"},
		{Info{Version: "1.0.0", Commit: "abc1234"}, "1.0.0-abc1234"},
		{Info{Version: "1.0.0", Commit: "abc1234", Dirty: true}, "1.0.0-abc1234-dirty"},
	}
	for _, tt := range tests {
		if got := tt.info.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestGetKeepsVersion(t *testing.T) {
	old := Version
	defer func() { Version = old }()
	Version = "9.9.9"
	if got := Get().Version; got != "9.9.9" {
		t.Errorf("Version = %q", got)
	}
}
