package version

import "testing"

func TestFull(t *testing.T) {
	origVersion := Version
	origCommit := GitCommit
	origBuildTime := BuildTime
	defer func() {
		Version = origVersion
		GitCommit = origCommit
		BuildTime = origBuildTime
	}()

	cases := []struct {
		version, commit, buildTime string
		want                       string
	}{
		{"1.0.0", "", "", "1.0.0"},
		{"1.0.0", "abc1234", "", "1.0.0-abc1234"},
		{"1.0.0", "", "2026-01-29T12:00:00Z", "1.0.0 (2026-01-29T12:00:00Z)"},
		{"1.0.0", "abc1234", "2026-01-29T12:00:00Z", "1.0.0-abc1234 (2026-01-29T12:00:00Z)"},
	}

	for _, tc := range cases {
		Version = tc.version
		GitCommit = tc.commit
		BuildTime = tc.buildTime
		if got := Full(); got != tc.want {
			t.Errorf("Full() = %q, want %q", got, tc.want)
		}
	}
}

func TestVersion_NotEmpty(t *testing.T) {
	// Version may be overridden by ldflags in CI, but must never be empty.
	if Version == "" {
		t.Error("Version should not be empty")
	}
}
