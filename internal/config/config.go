// Package config handles viewer configuration loading and management.
package config

import "time"

// Config holds all viewer settings.
type Config struct {
	Robot      RobotConfig      `yaml:"robot"`
	Trajectory TrajectoryConfig `yaml:"trajectory"`
	Stream     StreamConfig     `yaml:"stream"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// RobotConfig holds model loading and display settings.
type RobotConfig struct {
	File       string  `yaml:"file"`        // Last opened robot description
	ZUp        bool    `yaml:"z_up"`        // Rotate the scene so +Z points up
	AutoScale  bool    `yaml:"auto_scale"`  // Scale the model to TargetSize
	TargetSize float64 `yaml:"target_size"` // Bounding-box diagonal after auto-scale
	Colored    bool    `yaml:"colored"`     // Per-link palette instead of materials
}

// TrajectoryConfig holds end-effector trail settings.
type TrajectoryConfig struct {
	Enabled        bool                `yaml:"enabled"`
	Lifetime       time.Duration       `yaml:"lifetime"`
	SampleInterval time.Duration       `yaml:"sample_interval"`
	EndEffectors   []EndEffectorConfig `yaml:"end_effectors"`
}

// EndEffectorConfig describes one tracked link.
type EndEffectorConfig struct {
	Link    string `yaml:"link"`
	Name    string `yaml:"name,omitempty"`
	Color   string `yaml:"color,omitempty"` // #RRGGBB
	Enabled bool   `yaml:"enabled"`
}

// StreamConfig holds joint-value input settings.
type StreamConfig struct {
	ReplayFile string          `yaml:"replay_file"`
	Degrees    bool            `yaml:"degrees"` // Incoming angles are in degrees
	Bindings   []BindingConfig `yaml:"bindings"`
}

// BindingConfig maps an external variable path onto a joint.
type BindingConfig struct {
	Joint   string `yaml:"joint"`
	Path    string `yaml:"path"`
	Enabled bool   `yaml:"enabled"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string            `yaml:"level"`
	LogFile    string            `yaml:"log_file"`
	Components map[string]string `yaml:"components,omitempty"` // Per-component level, e.g. urdf: debug
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Robot: RobotConfig{
			ZUp:        false,
			AutoScale:  true,
			TargetSize: 2.0,
		},
		Trajectory: TrajectoryConfig{
			Enabled:        true,
			Lifetime:       2 * time.Second,
			SampleInterval: 50 * time.Millisecond,
		},
		Stream: StreamConfig{
			Degrees: true,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
