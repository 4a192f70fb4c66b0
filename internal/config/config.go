package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// BasicAuthConfig holds HTTP Basic Auth credentials for the API.
type BasicAuthConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// FeedConfig holds the upstream catalog feed endpoints.
type FeedConfig struct {
	// SectionURL is the section/registration feed (one record per section).
	SectionURL string `yaml:"section_url" json:"section_url"`
	// TitleURL is the course-title dump keyed by course code.
	TitleURL string `yaml:"title_url" json:"title_url"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address.
	Listen string `yaml:"listen" json:"listen"`

	// Timezone is the IANA zone all class times are interpreted in
	// (e.g. "Asia/Dhaka"). There is no cross-zone conversion: compiled
	// events are wall times in this single zone.
	Timezone string `yaml:"timezone" json:"timezone"`

	// TZName is the short zone name written into the calendar file's
	// timezone block (upstream convention: "BST" for Bangladesh Standard
	// Time).
	TZName string `yaml:"tz_name" json:"tz_name"`

	// Campus is the institution name appended to event locations.
	Campus string `yaml:"campus" json:"campus"`

	// EmailDomain is used to synthesize instructor emails from faculty
	// short names; PlaceholderEmail is used when the instructor is unknown.
	EmailDomain      string `yaml:"email_domain" json:"email_domain"`
	PlaceholderEmail string `yaml:"placeholder_email" json:"placeholder_email"`

	// SemesterWeeks caps the weekly recurrence of every exported event.
	SemesterWeeks int `yaml:"semester_weeks" json:"semester_weeks"`

	// ReminderMinutes is the default alarm offset for exports; 0 disables
	// reminders. Export requests may override it per call.
	ReminderMinutes int `yaml:"reminder_minutes" json:"reminder_minutes"`

	// RefreshCron is a cron expression for periodic catalog refresh.
	RefreshCron string `yaml:"refresh" json:"refresh"`

	// Feeds are the upstream catalog endpoints.
	Feeds FeedConfig `yaml:"feeds" json:"feeds"`

	// CatalogCacheTTLMinutes bounds how long a merged catalog snapshot is
	// served from memory before it may be refetched.
	CatalogCacheTTLMinutes int `yaml:"catalog_cache_ttl_minutes" json:"catalog_cache_ttl_minutes"`

	// CacheDir is the on-disk cache for feed bodies and HTTP validators.
	CacheDir string `yaml:"cache_dir" json:"cache_dir"`

	// StatePath is the JSON file the selection list persists to.
	StatePath string `yaml:"state_path" json:"state_path"`

	// BasicAuth, if non-nil, enables HTTP Basic Authentication on all
	// endpoints except /health.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:           "127.0.0.1:8080",
		Timezone:         "Asia/Dhaka",
		TZName:           "BST",
		Campus:           "BRAC University",
		EmailDomain:      "bracu.ac.bd",
		PlaceholderEmail: "instructor@bracu.ac.bd",
		SemesterWeeks:    15,
		ReminderMinutes:  10,
		RefreshCron:      "@every 6h",
		Feeds: FeedConfig{
			SectionURL: "https://usis-cdn.eniamza.com/connect.json",
			TitleURL:   "https://usis-cdn.eniamza.com/usisdump.json",
		},
		CatalogCacheTTLMinutes: 30,
		CacheDir:               "./var/feed-cache",
		StatePath:              "./var/selection.json",
		BasicAuth:              nil,
	}
}

// Normalize fills in missing/zero values with defaults so partially-filled
// configs still behave correctly.
func (c *Config) Normalize() {
	d := DefaultConfig()
	if c.Listen == "" {
		c.Listen = d.Listen
	}
	if c.Timezone == "" {
		c.Timezone = d.Timezone
	}
	if c.TZName == "" {
		c.TZName = d.TZName
	}
	if c.Campus == "" {
		c.Campus = d.Campus
	}
	if c.EmailDomain == "" {
		c.EmailDomain = d.EmailDomain
	}
	if c.PlaceholderEmail == "" {
		c.PlaceholderEmail = d.PlaceholderEmail
	}
	if c.SemesterWeeks <= 0 {
		c.SemesterWeeks = d.SemesterWeeks
	}
	if c.ReminderMinutes < 0 {
		c.ReminderMinutes = 0
	}
	if c.RefreshCron == "" {
		c.RefreshCron = d.RefreshCron
	}
	if c.Feeds.SectionURL == "" {
		c.Feeds.SectionURL = d.Feeds.SectionURL
	}
	if c.Feeds.TitleURL == "" {
		c.Feeds.TitleURL = d.Feeds.TitleURL
	}
	if c.CatalogCacheTTLMinutes <= 0 {
		c.CatalogCacheTTLMinutes = d.CatalogCacheTTLMinutes
	}
	if c.CacheDir == "" {
		c.CacheDir = d.CacheDir
	}
	if c.StatePath == "" {
		c.StatePath = d.StatePath
	}
}

// Load loads configuration from the given YAML path.
//
// If the file does not exist a default config is written there (0600) and
// returned; if it exists it is unmarshalled and normalized.
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
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes the configuration to path atomically (temp file + rename)
// with 0600 permissions, creating the parent directory if needed.
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

	tmp, err := os.CreateTemp(dir, ".routine2cal-config-*.tmp")
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
