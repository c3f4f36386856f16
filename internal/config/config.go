// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/javiermolinar/almanac/internal/calendar"
	"github.com/javiermolinar/almanac/internal/dateutil"
	"github.com/javiermolinar/almanac/internal/event"
	"github.com/javiermolinar/almanac/internal/weekinfo"
)

// Config holds the application configuration.
type Config struct {
	Calendar CalendarConfig `toml:"calendar"`
	Layout   LayoutConfig   `toml:"layout"`
	Events   EventsConfig   `toml:"events"`
	Timer    TimerConfig    `toml:"timer"`
}

// CalendarConfig holds view settings.
type CalendarConfig struct {
	WeekStart         string `toml:"week_start"` // "" derives it from locale, or "monday".."sunday"
	Locale            string `toml:"locale"`     // BCP 47, e.g. "en-US"
	Timezone          string `toml:"timezone"`   // IANA name or "Local"
	View              string `toml:"view"`       // "month", "week", "day", "2week", "3"...
	KeepSameDayEvents bool   `toml:"keep_same_day_events"`
}

// LayoutConfig holds timeline geometry in percent of a day column.
type LayoutConfig struct {
	SidePadding  float64 `toml:"side_padding"`
	InnerPadding float64 `toml:"inner_padding"`
	MaxHeight    float64 `toml:"max_height"`
}

// EventsConfig holds the events source.
type EventsConfig struct {
	Path string `toml:"path"` // .ics, .yaml or .json; optional
}

// TimerConfig holds timer settings.
type TimerConfig struct {
	Tick string `toml:"tick"` // Go duration, e.g. "1s"
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Calendar: CalendarConfig{
			WeekStart: "",
			Locale:    "en-US",
			Timezone:  "Local",
			View:      "month",
		},
		Layout: LayoutConfig{
			SidePadding:  2,
			InnerPadding: 2,
			MaxHeight:    20,
		},
		Timer: TimerConfig{
			Tick: "1s",
		},
	}
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "almanac", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	// Try to load from file (not an error if it doesn't exist)
	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	cfg.Events.Path = expandPath(cfg.Events.Path)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File doesn't exist, use defaults
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables take precedence over file config.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("ALMANAC_WEEK_START"); v != "" {
		cfg.Calendar.WeekStart = v
	}
	if v := os.Getenv("ALMANAC_LOCALE"); v != "" {
		cfg.Calendar.Locale = v
	}
	if v := os.Getenv("ALMANAC_TIMEZONE"); v != "" {
		cfg.Calendar.Timezone = v
	}
	if v := os.Getenv("ALMANAC_VIEW"); v != "" {
		cfg.Calendar.View = v
	}
	if v := os.Getenv("ALMANAC_KEEP_SAME_DAY_EVENTS"); v != "" {
		keep, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("ALMANAC_KEEP_SAME_DAY_EVENTS: %w", err)
		}
		cfg.Calendar.KeepSameDayEvents = keep
	}
	if v := os.Getenv("ALMANAC_EVENTS_PATH"); v != "" {
		cfg.Events.Path = v
	}
	if v := os.Getenv("ALMANAC_TIMER_TICK"); v != "" {
		cfg.Timer.Tick = v
	}
	return nil
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Calendar.WeekStart != "" {
		if _, err := dateutil.ParseWeekday(c.Calendar.WeekStart); err != nil {
			return fmt.Errorf("week_start: %w", err)
		}
	}
	if err := weekinfo.Validate(c.Calendar.Locale); err != nil {
		return fmt.Errorf("locale: %w", err)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := c.ViewMode(); err != nil {
		return fmt.Errorf("view: %w", err)
	}

	if c.Layout.SidePadding < 0 || c.Layout.InnerPadding < 0 {
		return errors.New("layout paddings must not be negative")
	}
	if c.Layout.MaxHeight <= 0 || c.Layout.MaxHeight > 100 {
		return fmt.Errorf("max_height must be within (0, 100], got %v", c.Layout.MaxHeight)
	}

	if _, err := c.TickInterval(); err != nil {
		return err
	}
	return nil
}

// Location resolves the configured time zone.
func (c *Config) Location() (*time.Location, error) {
	name := c.Calendar.Timezone
	if name == "" || name == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", name, err)
	}
	return loc, nil
}

// ViewMode parses the configured view.
func (c *Config) ViewMode() (calendar.ViewMode, error) {
	return calendar.ParseViewMode(c.Calendar.View)
}

// WeekStart returns the configured ISO week start, or the locale's first day
// of the week when none is set.
func (c *Config) WeekStart(lookup weekinfo.Lookup) int {
	if ws, err := dateutil.ParseWeekday(c.Calendar.WeekStart); err == nil {
		return ws
	}
	return lookup.Lookup(c.Calendar.Locale).FirstDay
}

// Policy returns the same-day indexing policy.
func (c *Config) Policy() event.Policy {
	if c.Calendar.KeepSameDayEvents {
		return event.AllPerDay
	}
	return event.FirstPerDay
}

// LayoutOptions returns the timeline geometry.
func (c *Config) LayoutOptions() calendar.LayoutOptions {
	return calendar.LayoutOptions{
		SidePadding:  c.Layout.SidePadding,
		InnerPadding: c.Layout.InnerPadding,
		MaxHeight:    c.Layout.MaxHeight,
	}
}

// TickInterval parses the timer tick.
func (c *Config) TickInterval() (time.Duration, error) {
	d, err := time.ParseDuration(c.Timer.Tick)
	if err != nil {
		return 0, fmt.Errorf("tick must be a duration, got %q", c.Timer.Tick)
	}
	if d <= 0 {
		return 0, fmt.Errorf("tick must be positive, got %s", d)
	}
	return d, nil
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
