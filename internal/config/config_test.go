package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCreatesDefaultOnFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "meetbot.yaml")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "P1D", cfg.CreateWithin)
	assert.Equal(t, []string{"meeting"}, cfg.MeetingLabels)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meetbot.yaml")

	want := DefaultConfig()
	want.Schedules = []string{"2020-04-02T17:00:00[America/Chicago]/P28D"}
	want.Repos = []RepoConfig{{Owner: "acme", Name: "widgets"}}
	want.MeetingLink = "https://example.com/join"
	require.NoError(t, Save(path, want))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want.Schedules, got.Schedules)
	assert.Equal(t, want.Repos, got.Repos)
	assert.Equal(t, want.MeetingLink, got.MeetingLink)
}

func TestNormalizeFillsDefaults(t *testing.T) {
	var cfg Config
	cfg.Normalize()

	assert.Equal(t, "P1D", cfg.CreateWithin)
	assert.Equal(t, "meeting-agenda", cfg.AgendaLabel)
	assert.Equal(t, "UTC", cfg.Timezone)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.NotEmpty(t, cfg.IssueTitle)
}

func TestEnvOverridesToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meetbot.yaml")
	require.NoError(t, Save(path, DefaultConfig()))

	t.Setenv("GITHUB_TOKEN", "ghp_test")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "ghp_test", cfg.GitHub.Token)
}

func TestMeetingRepo(t *testing.T) {
	cfg := DefaultConfig()
	_, ok := cfg.MeetingRepo()
	assert.False(t, ok)

	cfg.Repos = []RepoConfig{{Owner: "acme", Name: "widgets"}, {Owner: "acme", Name: "gadgets"}}
	repo, ok := cfg.MeetingRepo()
	require.True(t, ok)
	assert.Equal(t, RepoConfig{Owner: "acme", Name: "widgets"}, repo)
}
