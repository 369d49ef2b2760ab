package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata"

	"gopkg.in/yaml.v3"

	"wildsl/internal/schedule"
)

const (
	defaultListen      = "127.0.0.1:8080"
	defaultTimezone    = "Asia/Colombo"
	defaultRefreshCron = "0 * * * *"
	defaultCacheTTL    = 30
	defaultCacheDir    = "./var/cache"
	defaultHorizonDays = 365
	defaultMaxOccur    = 500
	defaultWinnerCat   = "Open"
)

// DataConfig describes where the site's JSON documents come from.
type DataConfig struct {
	// Base is "" for the embedded documents, a local directory, or an
	// http(s) base URL under which events.json, news.json, ... live.
	Base string `yaml:"base" json:"base"`

	// CacheDir holds conditional-request metadata and bodies for HTTP bases.
	CacheDir string `yaml:"cache_dir" json:"cache_dir"`

	// Watch reloads documents when files under a directory Base change.
	Watch bool `yaml:"watch" json:"watch"`
}

// RecurrenceConfig bounds RRULE expansion of recurring entries.
type RecurrenceConfig struct {
	HorizonDays    int `yaml:"horizon_days" json:"horizon_days"`
	MaxOccurrences int `yaml:"max_occurrences" json:"max_occurrences"`
}

// ListingConfig is the sort direction for one listing type.
type ListingConfig struct {
	Upcoming string `yaml:"upcoming" json:"upcoming"`
	Past     string `yaml:"past" json:"past"`
}

// ListingsConfig holds per-listing sort directions.
type ListingsConfig struct {
	Events   ListingConfig `yaml:"events" json:"events"`
	Projects ListingConfig `yaml:"projects" json:"projects"`
}

// WinnersConfig controls the winners gallery defaults.
type WinnersConfig struct {
	DefaultCategory string `yaml:"default_category" json:"default_category"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address for the site and API.
	Listen string `yaml:"listen" json:"listen"`

	// Timezone is the IANA timezone that defines "today" (e.g. "Asia/Colombo").
	Timezone string `yaml:"timezone" json:"timezone"`

	// RefreshCron is a cron-style schedule string (e.g. "0 * * * *") for
	// rebuilding the site status snapshot.
	RefreshCron string `yaml:"refresh" json:"refresh"`

	// CacheTTLSeconds is how long API responses are served from memory.
	CacheTTLSeconds int `yaml:"cache_ttl_seconds" json:"cache_ttl_seconds"`

	// LogLevel is one of debug, info, error.
	LogLevel string `yaml:"log_level" json:"log_level"`

	Data       DataConfig       `yaml:"data" json:"data"`
	Recurrence RecurrenceConfig `yaml:"recurrence" json:"recurrence"`
	Listings   ListingsConfig   `yaml:"listings" json:"listings"`
	Winners    WinnersConfig    `yaml:"winners" json:"winners"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:          defaultListen,
		Timezone:        defaultTimezone,
		RefreshCron:     defaultRefreshCron,
		CacheTTLSeconds: defaultCacheTTL,
		LogLevel:        "info",
		Data: DataConfig{
			Base:     "",
			CacheDir: defaultCacheDir,
			Watch:    true,
		},
		Recurrence: RecurrenceConfig{
			HorizonDays:    defaultHorizonDays,
			MaxOccurrences: defaultMaxOccur,
		},
		Listings: ListingsConfig{
			Events:   listingOf(schedule.EventsPolicy),
			Projects: listingOf(schedule.ProjectsPolicy),
		},
		Winners: WinnersConfig{DefaultCategory: defaultWinnerCat},
	}
}

// Normalize fills in missing/zero values with sensible defaults so that
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = defaultListen
	}
	if c.Timezone == "" {
		c.Timezone = defaultTimezone
	}
	if c.RefreshCron == "" {
		c.RefreshCron = defaultRefreshCron
	}
	if c.CacheTTLSeconds < 0 {
		c.CacheTTLSeconds = 0
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Data.CacheDir == "" {
		c.Data.CacheDir = defaultCacheDir
	}
	if c.Recurrence.HorizonDays <= 0 {
		c.Recurrence.HorizonDays = defaultHorizonDays
	}
	if c.Recurrence.MaxOccurrences <= 0 {
		c.Recurrence.MaxOccurrences = defaultMaxOccur
	}
	normalizeListing(&c.Listings.Events, schedule.EventsPolicy)
	normalizeListing(&c.Listings.Projects, schedule.ProjectsPolicy)
	if strings.TrimSpace(c.Winners.DefaultCategory) == "" {
		c.Winners.DefaultCategory = defaultWinnerCat
	}
}

// Location resolves Timezone, falling back to time.Local when the name is
// unknown.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local, err
	}
	return loc, nil
}

// CacheTTL is CacheTTLSeconds as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// EventsPolicy is the sort policy of the events listing.
func (c *Config) EventsPolicy() schedule.Policy {
	return policyOf(c.Listings.Events, schedule.EventsPolicy)
}

// ProjectsPolicy is the sort policy of the projects listing.
func (c *Config) ProjectsPolicy() schedule.Policy {
	return policyOf(c.Listings.Projects, schedule.ProjectsPolicy)
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist:
//   - create parent directory if needed
//   - write a default config with 0600 perms
//   - return the default config
//   - If the file exists:
//   - read YAML and unmarshal into Config
//   - normalize defaults
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
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

// Save writes the given configuration to the specified path.
//
// Implementation details:
//   - Ensures parent directory exists (0700).
//   - Marshals cfg to YAML.
//   - Writes atomically via a temp file + rename.
//   - Ensures final file permissions are 0600.
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

	tmp, err := os.CreateTemp(dir, ".wildsl-config-*.tmp")
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

// Save is a convenience method on Config that delegates to the package-level
// Save function.
func (c *Config) Save(path string) error {
	return Save(path, c)
}

func listingOf(p schedule.Policy) ListingConfig {
	return ListingConfig{Upcoming: string(p.Upcoming), Past: string(p.Past)}
}

// normalizeListing replaces unknown or empty directions with the defaults.
func normalizeListing(l *ListingConfig, def schedule.Policy) {
	if d, err := schedule.ParseDirection(l.Upcoming); err == nil {
		l.Upcoming = string(d)
	} else {
		l.Upcoming = string(def.Upcoming)
	}
	if d, err := schedule.ParseDirection(l.Past); err == nil {
		l.Past = string(d)
	} else {
		l.Past = string(def.Past)
	}
}

func policyOf(l ListingConfig, def schedule.Policy) schedule.Policy {
	p := def
	if d, err := schedule.ParseDirection(l.Upcoming); err == nil {
		p.Upcoming = d
	}
	if d, err := schedule.ParseDirection(l.Past); err == nil {
		p.Past = d
	}
	return p
}
