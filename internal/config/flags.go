package config

import (
	"flag"
	"time"
)

var (
	flagConfig   = flag.String("config", "", "Path to config file")
	flagDebug    = flag.Bool("debug", false, "Enable debug logging")
	flagRobot    = flag.String("robot", "", "Robot description (URDF) file")
	flagZUp      = flag.Bool("z-up", false, "Treat +Z as up")
	flagNoScale  = flag.Bool("no-autoscale", false, "Disable auto-scaling")
	flagLifetime = flag.Duration("lifetime", 0, "Trajectory lifetime (e.g. 3s)")
	flagReplay   = flag.String("replay", "", "Joint-value replay file")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagRobot != "" {
		cfg.Robot.File = *flagRobot
	}
	if *flagZUp {
		cfg.Robot.ZUp = true
	}
	if *flagNoScale {
		cfg.Robot.AutoScale = false
	}
	if *flagLifetime > 0 {
		cfg.Trajectory.Lifetime = *flagLifetime
	}
	if *flagReplay != "" {
		cfg.Stream.ReplayFile = *flagReplay
	}
}

// minSampleInterval guards against a zero interval from a hand-edited file.
const minSampleInterval = time.Millisecond
