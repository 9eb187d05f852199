// Package config provides application configuration management for demoreel.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Config holds the demoreel configuration.
type Config struct {
	Theme     string `json:"theme"`               // Name of the active render theme
	Language  string `json:"language,omitempty"`  // Locale for mock UI chrome labels
	OutputDir string `json:"output_dir"`          // Default directory for rendered artifacts
	Scenario  string `json:"scenario,omitempty"`  // Default preset when --scenario is not given
}

// Dir returns the path to the .demoreel directory.
// DEMOREEL_HOME overrides the default of ~/.demoreel.
func Dir() (string, error) {
	if dir := os.Getenv("DEMOREEL_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".demoreel"), nil
}

// Path returns the path to the main config file.
func Path() (string, error) {
	configDir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// Load loads the configuration from ~/.demoreel/config.json.
// A missing file yields the defaults; nothing is written to disk.
func Load() (Config, error) {
	configPath, err := Path()
	if err != nil {
		return Config{}, err
	}

	data, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		return Default(), nil
	} else if err != nil {
		return Config{}, err
	}

	// Start from defaults so missing keys keep their default values.
	config := Default()
	if err := json.Unmarshal(data, &config); err != nil {
		return Config{}, err
	}

	if config.Theme == "" {
		config.Theme = "light"
	}
	if config.OutputDir == "" {
		config.OutputDir = "."
	}

	return config, nil
}

// Default returns a default configuration with all defaults set.
func Default() Config {
	return Config{
		Theme:     "light",
		OutputDir: ".",
		Scenario:  "dcf",
	}
}

// Save saves the configuration to ~/.demoreel/config.json.
func Save(config Config) error {
	configPath, err := Path()
	if err != nil {
		return err
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0600)
}
