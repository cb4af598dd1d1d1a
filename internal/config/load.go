package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Load loads configuration with priority: defaults < file < flags.
func Load() (*Config, error) {
	// Start with defaults
	cfg := Default()

	// Try to load from file (explicit path takes priority)
	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	// Apply CLI flags (highest priority)
	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./config.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "URDFViewer")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "URDFViewer")
	default: // Linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "urdf-viewer")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "urdf-viewer")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks values that would break the sampler or the stream bindings.
func (c *Config) Validate() error {
	if c.Trajectory.SampleInterval < minSampleInterval {
		return fmt.Errorf("trajectory.sample_interval must be at least %v, got %v",
			minSampleInterval, c.Trajectory.SampleInterval)
	}
	if c.Trajectory.Lifetime < 0 {
		return fmt.Errorf("trajectory.lifetime must not be negative, got %v", c.Trajectory.Lifetime)
	}
	if c.Robot.TargetSize <= 0 {
		return fmt.Errorf("robot.target_size must be positive, got %v", c.Robot.TargetSize)
	}

	seen := make(map[string]bool)
	for i, ee := range c.Trajectory.EndEffectors {
		if ee.Link == "" {
			return fmt.Errorf("trajectory.end_effectors[%d]: link is required", i)
		}
		if seen[ee.Link] {
			return fmt.Errorf("trajectory.end_effectors[%d]: duplicate link %q", i, ee.Link)
		}
		seen[ee.Link] = true
	}
	for i, b := range c.Stream.Bindings {
		if b.Joint == "" || b.Path == "" {
			return fmt.Errorf("stream.bindings[%d]: joint and path are required", i)
		}
	}
	return nil
}
