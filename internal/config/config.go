// Package config loads runtime settings from an optional YAML file.
// A missing file yields the defaults; a malformed one is an error.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Settings holds everything tunable at startup.
type Settings struct {
	Addr           string
	DBPath         string
	StaticDir      string
	TickInterval   time.Duration
	DebounceWindow time.Duration
}

type yamlSettings struct {
	Addr               string `yaml:"addr"`
	DBPath             string `yaml:"db_path"`
	StaticDir          string `yaml:"static_dir"`
	TickIntervalMillis int    `yaml:"tick_interval_ms"`
	DebounceMillis     int    `yaml:"debounce_ms"`
}

// DefaultSettings returns the production defaults.
func DefaultSettings() Settings {
	return Settings{
		Addr:           ":8080",
		DBPath:         "data/stationboard.db",
		StaticDir:      "web/dist",
		TickInterval:   time.Second,
		DebounceWindow: 500 * time.Millisecond,
	}
}

// Load reads settings from the YAML file at path. An empty path or a
// file that does not exist returns the defaults.
func Load(path string) (Settings, error) {
	settings := DefaultSettings()
	if path == "" {
		return settings, nil
	}

	rawData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings, nil
}

func applyYamlSettings(settings *Settings, fileData yamlSettings) {
	if fileData.Addr != "" {
		settings.Addr = fileData.Addr
	}
	if fileData.DBPath != "" {
		settings.DBPath = fileData.DBPath
	}
	if fileData.StaticDir != "" {
		settings.StaticDir = fileData.StaticDir
	}
	if fileData.TickIntervalMillis > 0 {
		settings.TickInterval = time.Duration(fileData.TickIntervalMillis) * time.Millisecond
	}
	if fileData.DebounceMillis > 0 {
		settings.DebounceWindow = time.Duration(fileData.DebounceMillis) * time.Millisecond
	}
}
