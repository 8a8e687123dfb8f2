// Package config holds the YAML configuration model and its load/save
// behavior, including first-run config creation and 0600 permissions.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// RepoConfig identifies one repository to pull agenda items from. The first
// entry is also where the meeting issue is created.
type RepoConfig struct {
	Owner string `yaml:"owner" json:"owner"`
	Name  string `yaml:"name" json:"name"`
}

// GitHubConfig holds tracker access settings. The token is normally
// supplied via GITHUB_TOKEN rather than the config file.
type GitHubConfig struct {
	Token string `yaml:"token,omitempty" json:"-"`
	// BaseURL overrides the API endpoint for GitHub Enterprise.
	BaseURL string `yaml:"base_url,omitempty" json:"base_url,omitempty"`
}

// NotesConfig controls the optional collaborative-notes document.
type NotesConfig struct {
	Create   bool   `yaml:"create" json:"create"`
	Template string `yaml:"template,omitempty" json:"template,omitempty"`
	BaseURL  string `yaml:"base_url,omitempty" json:"base_url,omitempty"`
}

// Config is the top-level application configuration.
type Config struct {
	// Schedules is the list of recurrence strings, e.g.
	// "2020-04-02T17:00:00[America/Chicago]/P28D". Empty entries fall
	// back to a 7-day cadence anchored at run time.
	Schedules []string `yaml:"schedules" json:"schedules"`

	// CreateWithin is how far ahead of the next occurrence the issue is
	// created, as an ISO-8601 duration.
	CreateWithin string `yaml:"create_within" json:"create_within"`

	// AgendaLabel marks issues/PRs/discussions to surface in the agenda.
	AgendaLabel string `yaml:"agenda_label" json:"agenda_label"`

	// MeetingLabels are applied to the created meeting issue and used to
	// find existing ones.
	MeetingLabels []string `yaml:"meeting_labels" json:"meeting_labels"`

	// IssueTitle is the title pattern; it may reference the resolved
	// date, e.g. `Weekly Meeting {{ .Date.Format "2006-01-02" }}`.
	IssueTitle string `yaml:"issue_title" json:"issue_title"`

	// IssueTemplate names a file under .github/ISSUE_TEMPLATE/ in the
	// meeting repo that overrides the built-in body template.
	IssueTemplate string `yaml:"issue_template,omitempty" json:"issue_template,omitempty"`

	// MeetingLink is the conferencing URL put into the issue body.
	MeetingLink string `yaml:"meeting_link,omitempty" json:"meeting_link,omitempty"`

	// Repos lists agenda source repositories; the first is the meeting
	// repo. Orgs adds every repository of an organization.
	Repos []RepoConfig `yaml:"repos" json:"repos"`
	Orgs  []string     `yaml:"orgs,omitempty" json:"orgs,omitempty"`

	// Discussions toggles agenda collection from repo discussions.
	Discussions bool `yaml:"discussions" json:"discussions"`

	// Timezone is the fallback IANA display zone.
	Timezone string `yaml:"timezone" json:"timezone"`

	// Watch is a cron expression for daemon mode ("run --watch").
	Watch string `yaml:"watch" json:"watch"`

	// Invite toggles embedding an .ics calendar invite in the issue.
	Invite bool `yaml:"invite" json:"invite"`

	LogLevel string `yaml:"log_level" json:"log_level"`

	GitHub GitHubConfig `yaml:"github" json:"github"`
	Notes  NotesConfig  `yaml:"notes" json:"notes"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Schedules:     []string{},
		CreateWithin:  "P1D",
		AgendaLabel:   "meeting-agenda",
		MeetingLabels: []string{"meeting"},
		IssueTitle:    `Weekly Meeting {{ .Date.Format "2006-01-02" }}`,
		Repos:         []RepoConfig{},
		Timezone:      "UTC",
		Watch:         "0 * * * *",
		Invite:        true,
		LogLevel:      "info",
	}
}

// Normalize fills in missing/zero values with defaults so that partially
// filled configs still behave correctly.
func (c *Config) Normalize() {
	if c.CreateWithin == "" {
		c.CreateWithin = "P1D"
	}
	if c.AgendaLabel == "" {
		c.AgendaLabel = "meeting-agenda"
	}
	if len(c.MeetingLabels) == 0 {
		c.MeetingLabels = []string{"meeting"}
	}
	if c.IssueTitle == "" {
		c.IssueTitle = `Weekly Meeting {{ .Date.Format "2006-01-02" }}`
	}
	if c.Timezone == "" {
		c.Timezone = "UTC"
	}
	if c.Watch == "" {
		c.Watch = "0 * * * *"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Schedules == nil {
		c.Schedules = []string{}
	}
	if c.Repos == nil {
		c.Repos = []RepoConfig{}
	}
}

// MeetingRepo returns where the meeting issue lives: the first configured
// repository.
func (c *Config) MeetingRepo() (RepoConfig, bool) {
	if len(c.Repos) == 0 {
		return RepoConfig{}, false
	}
	return c.Repos[0], true
}

// Load loads configuration from the given YAML path.
//
// If the file does not exist, a default config is written there (parent
// directory created as needed, 0600 perms) and returned.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			cfg.applyEnv()
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()
	cfg.applyEnv()

	return &cfg, nil
}

// applyEnv applies environment overrides. The token in particular should
// come from the environment so config files stay secret-free.
func (c *Config) applyEnv() {
	if v := os.Getenv("GITHUB_TOKEN"); v != "" {
		c.GitHub.Token = v
	}
	if v := os.Getenv("MEETBOT_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("MEETBOT_GITHUB_BASE_URL"); v != "" {
		c.GitHub.BaseURL = v
	}
}

// Save writes the configuration to path: parent directory 0700, atomic
// temp-file rename, final perms 0600 (the file may carry a token).
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".meetbot-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
