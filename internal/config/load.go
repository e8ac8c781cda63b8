package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

var (
	flagConfig    = flag.String("config", "", "path to config file")
	flagWidth     = flag.Int("width", 0, "window width override")
	flagHeight    = flag.Int("height", 0, "window height override")
	flagWireframe = flag.Bool("wireframe", false, "start in wireframe debug mode")
	flagStrict    = flag.Bool("strict", false, "treat degraded draw conditions as errors")
	flagLogLevel  = flag.String("log-level", "", "log level override (debug, info, warn, error)")
)

// Load loads configuration with priority: defaults < file < flags.
func Load() (*Config, error) {
	cfg := Default()

	configPath := *flagConfig
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	applyFlags(cfg)

	if cfg.Render.FramesInFlight < 1 {
		cfg.Render.FramesInFlight = Default().Render.FramesInFlight
	}

	return cfg, nil
}

// loadFromFile merges settings from a YAML file into cfg.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// applyFlags applies CLI flag overrides (highest priority).
func applyFlags(cfg *Config) {
	if *flagWidth > 0 {
		cfg.Window.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Window.Height = *flagHeight
	}
	if *flagWireframe {
		cfg.Debug.Wireframe = true
	}
	if *flagStrict {
		cfg.Debug.Strict = true
	}
	if *flagLogLevel != "" {
		cfg.Logging.Level = *flagLogLevel
	}
}

// findConfigFile looks for a config file in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./config.yaml",
		filepath.Join(configDir(), "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// configDir returns the OS-appropriate config directory.
func configDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "vrmkit")
	}
	return "."
}

// Save writes the configuration to the given path as YAML.
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
