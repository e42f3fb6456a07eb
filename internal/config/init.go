package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Init creates a new configuration file with example content.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	example := Config{
		Trees: []Tree{
			{Name: "bl2", Path: "./trees/bl2mods"},
			{Name: "bl3", Path: "./trees/bl3mods"},
		},
		Categories: CategoriesConfig{},
		Cache:      CacheConfig{Path: "cabinetsorter.db"},
		Git:        GitConfig{Enabled: true, RestoreMTimes: true},
		Output: OutputConfig{
			ProjectionPath: "cabinet.json",
			StatusPath:     "status.json",
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Metrics: MetricsConfig{Enabled: false, Listen: ":9313"},
		Daemon: DaemonConfig{
			Interval: "10m",
			Watch:    true,
			Debounce: "5s",
		},
		Pipeline: PipelineConfig{Workers: 4},
	}

	data, err := yaml.Marshal(&example)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
