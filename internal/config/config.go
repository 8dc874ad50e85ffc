// Package config resolves girder's settings from built-in defaults, an
// optional YAML file and GIRDER_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/alexanderramin/girder/internal/scheduler"
	"gopkg.in/yaml.v3"
)

// EngineConfig mirrors scheduler.Settings for the config file.
type EngineConfig struct {
	HoursPerDay         int `yaml:"hours_per_day"`
	WeeklyHourLimit     int `yaml:"weekly_hour_limit"`
	DefaultDurationDays int `yaml:"default_duration_days"`
	MaxPropagationSteps int `yaml:"max_propagation_steps"`
}

type Config struct {
	// DBPath is the SQLite schedule store.
	DBPath string `yaml:"db"`
	// Schedule is the short id or UUID used when --schedule is omitted.
	Schedule    string       `yaml:"schedule"`
	Engine      EngineConfig `yaml:"engine"`
	LogUseCases bool         `yaml:"log_use_cases"`
	// PgURL enables publishing baselines to a shared PostgreSQL archive.
	PgURL string `yaml:"pg_url"`
	// MetricsAddr is where `girder watch` serves /metrics.
	MetricsAddr string `yaml:"metrics_addr"`
}

// Dir returns ~/.girder, or .girder when the home directory is unknown.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".girder"
	}
	return filepath.Join(home, ".girder")
}

func Default() Config {
	s := scheduler.DefaultSettings()
	return Config{
		DBPath: filepath.Join(Dir(), "girder.db"),
		Engine: EngineConfig{
			HoursPerDay:         s.HoursPerDay,
			WeeklyHourLimit:     s.WeeklyHourLimit,
			DefaultDurationDays: s.DefaultDurationDays,
			MaxPropagationSteps: s.MaxPropagationSteps,
		},
		MetricsAddr: ":9464",
	}
}

// Load applies the config file named by GIRDER_CONFIG (default
// ~/.girder/config.yaml) and then the environment on top of Default.
// A missing file is not an error.
func Load() (Config, error) {
	cfg := Default()
	path := os.Getenv("GIRDER_CONFIG")
	if path == "" {
		path = filepath.Join(Dir(), "config.yaml")
	}
	if err := cfg.LoadFile(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, err
	}
	cfg.ApplyEnv()
	return cfg, nil
}

// LoadFile overlays the YAML file at path. Keys absent from the file, and
// engine values that are not positive, keep their current value.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	next := *c
	if err := yaml.Unmarshal(data, &next); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	keepPositive(&next.Engine.HoursPerDay, c.Engine.HoursPerDay)
	keepPositive(&next.Engine.WeeklyHourLimit, c.Engine.WeeklyHourLimit)
	keepPositive(&next.Engine.DefaultDurationDays, c.Engine.DefaultDurationDays)
	if next.Engine.MaxPropagationSteps < 0 {
		next.Engine.MaxPropagationSteps = c.Engine.MaxPropagationSteps
	}
	*c = next
	return nil
}

// ApplyEnv overlays GIRDER_* variables. Unparseable or out-of-range values
// are ignored.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("GIRDER_DB"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("GIRDER_SCHEDULE"); v != "" {
		c.Schedule = v
	}
	if v := os.Getenv("GIRDER_LOG_USE_CASES"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.LogUseCases = b
		}
	}
	if v := os.Getenv("GIRDER_PG_URL"); v != "" {
		c.PgURL = v
	}
	if v := os.Getenv("GIRDER_METRICS_ADDR"); v != "" {
		c.MetricsAddr = v
	}
	applyIntEnv(&c.Engine.HoursPerDay, "GIRDER_HOURS_PER_DAY", 1)
	applyIntEnv(&c.Engine.WeeklyHourLimit, "GIRDER_WEEKLY_HOUR_LIMIT", 1)
	applyIntEnv(&c.Engine.DefaultDurationDays, "GIRDER_DEFAULT_DURATION_DAYS", 0)
	applyIntEnv(&c.Engine.MaxPropagationSteps, "GIRDER_MAX_PROPAGATION_STEPS", 0)
}

// Scheduler returns the engine settings.
func (c Config) Scheduler() scheduler.Settings {
	return scheduler.Settings{
		HoursPerDay:         c.Engine.HoursPerDay,
		WeeklyHourLimit:     c.Engine.WeeklyHourLimit,
		DefaultDurationDays: c.Engine.DefaultDurationDays,
		MaxPropagationSteps: c.Engine.MaxPropagationSteps,
	}
}

func applyIntEnv(dst *int, name string, min int) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < min {
		return
	}
	*dst = n
}

func keepPositive(dst *int, prev int) {
	if *dst <= 0 {
		*dst = prev
	}
}
