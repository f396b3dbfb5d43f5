package timesheet

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// HOST CONFIGURATION
// =============================================================================

// CommitPolicy selects how a validated batch is persisted.
type CommitPolicy string

const (
	// CommitAtomic pre-validates every entry and saves all of them in one
	// transaction; any failure leaves nothing behind.
	CommitAtomic CommitPolicy = "atomic"
	// CommitBestEffort saves each entry independently and keeps going past
	// per-entry failures.
	CommitBestEffort CommitPolicy = "best-effort"
)

// Config mirrors the host system configuration the engine reads.
type Config struct {
	// Timesheet behavior of the host.
	RequireActivity   bool `yaml:"require_activity"`
	AllowZeroDuration bool `yaml:"allow_zero_duration"`
	AllowFutureTimes  bool `yaml:"allow_future_times"`
	AllowOverlapping  bool `yaml:"allow_overlapping"`
	AllowOverbooking  bool `yaml:"allow_overbooking"`

	// Rounding tolerances in minutes, applied to the future-time check.
	RoundingBeginMinutes int `yaml:"rounding_begin_minutes"`
	RoundingEndMinutes   int `yaml:"rounding_end_minutes"`

	// DefaultBeginTime ("HH:MM") is applied when the tracking mode does not
	// let the user pick a begin time.
	DefaultBeginTime string `yaml:"default_begin_time"`

	// AllowEditBegin reports whether the active tracking mode lets the user
	// choose the daily begin time.
	AllowEditBegin bool `yaml:"allow_edit_begin"`

	// Period-insert settings: whether non-working days and absence days are
	// still filled with entries.
	IncludeAbsences    bool `yaml:"include_absences"`
	IncludeNonWorkDays bool `yaml:"include_nonworkdays"`

	CommitPolicy CommitPolicy `yaml:"commit_policy"`
}

// DefaultConfig matches a stock host installation.
func DefaultConfig() *Config {
	return &Config{
		RequireActivity:  true,
		AllowEditBegin:   true,
		DefaultBeginTime: "08:00",
		CommitPolicy:     CommitAtomic,
	}
}

// LoadConfig reads a YAML configuration file on top of the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the fields that cannot be expressed by YAML types alone.
func (c *Config) Validate() error {
	if _, _, err := c.ParseDefaultBeginTime(); err != nil {
		return err
	}
	switch c.CommitPolicy {
	case CommitAtomic, CommitBestEffort, "":
	default:
		return fmt.Errorf("unknown commit policy %q", c.CommitPolicy)
	}
	return nil
}

// ParseDefaultBeginTime splits DefaultBeginTime into hour and minute.
func (c *Config) ParseDefaultBeginTime() (hour, minute int, err error) {
	parts := strings.SplitN(c.DefaultBeginTime, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid default begin time %q", c.DefaultBeginTime)
	}
	hour, err = strconv.Atoi(parts[0])
	if err == nil {
		minute, err = strconv.Atoi(parts[1])
	}
	if err != nil || hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid default begin time %q", c.DefaultBeginTime)
	}
	return hour, minute, nil
}
