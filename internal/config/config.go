// Package config loads and validates the cabinetsorter configuration file.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/modcabinet/cabinetsorter/internal/errors"
)

// Config represents the application configuration.
type Config struct {
	Trees      []Tree           `yaml:"trees"`
	Categories CategoriesConfig `yaml:"categories"`
	Cache      CacheConfig      `yaml:"cache"`
	Git        GitConfig        `yaml:"git"`
	Output     OutputConfig     `yaml:"output"`
	Logging    LoggingConfig    `yaml:"logging"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	Daemon     DaemonConfig     `yaml:"daemon"`
	Pipeline   PipelineConfig   `yaml:"pipeline"`
}

// Tree is one checked-out mods tree to process.
type Tree struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

// CategoriesConfig selects the category registry source. An empty File uses
// the built-in category set.
type CategoriesConfig struct {
	File string `yaml:"file,omitempty"`
}

// CacheConfig locates the run cache database.
type CacheConfig struct {
	Path string `yaml:"path"`
}

// GitConfig controls tree updating before a run.
type GitConfig struct {
	Enabled       bool `yaml:"enabled"`
	RestoreMTimes bool `yaml:"restore_mtimes"`
}

// OutputConfig locates the run outputs.
type OutputConfig struct {
	ProjectionPath string `yaml:"projection_path"`
	StatusPath     string `yaml:"status_path,omitempty"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen,omitempty"`
}

// DaemonConfig controls continuous operation. Durations are strings in
// time.ParseDuration syntax ("10m", "5s").
type DaemonConfig struct {
	Interval string `yaml:"interval"`
	Watch    bool   `yaml:"watch"`
	Debounce string `yaml:"debounce"`
}

// PollInterval returns the parsed poll interval.
func (d DaemonConfig) PollInterval() time.Duration {
	dur, err := time.ParseDuration(d.Interval)
	if err != nil || dur <= 0 {
		return 10 * time.Minute
	}
	return dur
}

// DebounceWindow returns the parsed filesystem debounce window.
func (d DaemonConfig) DebounceWindow() time.Duration {
	dur, err := time.ParseDuration(d.Debounce)
	if err != nil || dur <= 0 {
		return 5 * time.Second
	}
	return dur
}

// PipelineConfig tunes run execution.
type PipelineConfig struct {
	Workers int `yaml:"workers"`
}

// Load loads configuration from the specified file. Environment variables
// referenced as ${VAR} in the file are expanded; a .env file alongside the
// working directory is loaded first without overriding the process env.
func Load(configPath string) (*Config, error) {
	// Missing .env is the common case and not an error.
	_ = godotenv.Load()

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, errors.WrapConfig(err, "reading configuration file")
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, errors.WrapConfig(err, "parsing configuration file")
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Cache.Path == "" {
		c.Cache.Path = "cabinetsorter.db"
	}
	if c.Output.ProjectionPath == "" {
		c.Output.ProjectionPath = "cabinet.json"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.Metrics.Enabled && c.Metrics.Listen == "" {
		c.Metrics.Listen = ":9313"
	}
	if c.Daemon.Interval == "" {
		c.Daemon.Interval = "10m"
	}
	if c.Daemon.Debounce == "" {
		c.Daemon.Debounce = "5s"
	}
	if c.Pipeline.Workers <= 0 {
		c.Pipeline.Workers = 4
	}
	for i := range c.Trees {
		if c.Trees[i].Name == "" {
			c.Trees[i].Name = fmt.Sprintf("tree%d", i+1)
		}
	}
}

// Validate checks the configuration for fatal problems.
func (c *Config) Validate() error {
	if len(c.Trees) == 0 {
		return errors.Config("no mods trees configured")
	}
	seen := make(map[string]struct{}, len(c.Trees))
	for _, t := range c.Trees {
		if t.Path == "" {
			return errors.Config(fmt.Sprintf("tree %q has no path", t.Name))
		}
		if _, dup := seen[t.Name]; dup {
			return errors.Config(fmt.Sprintf("duplicate tree name %q", t.Name))
		}
		seen[t.Name] = struct{}{}
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return errors.Config(fmt.Sprintf("unknown logging format %q", c.Logging.Format))
	}
	if _, err := time.ParseDuration(c.Daemon.Interval); err != nil {
		return errors.Config(fmt.Sprintf("invalid daemon interval %q", c.Daemon.Interval))
	}
	if _, err := time.ParseDuration(c.Daemon.Debounce); err != nil {
		return errors.Config(fmt.Sprintf("invalid daemon debounce %q", c.Daemon.Debounce))
	}
	return nil
}
