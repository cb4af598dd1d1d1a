// Package main is the entry point for the headless robot viewer. It loads
// the configured robot, drives it from a replay file or from joint values
// on stdin, and records end-effector trails.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Faultbox/urdf-viewer/internal/config"
	"github.com/Faultbox/urdf-viewer/internal/engine/debug"
	"github.com/Faultbox/urdf-viewer/internal/engine/scene"
	"github.com/Faultbox/urdf-viewer/internal/logger"
	"github.com/Faultbox/urdf-viewer/internal/stream"
	"github.com/Faultbox/urdf-viewer/internal/timeutil"
	"github.com/Faultbox/urdf-viewer/internal/viewer"
)

var (
	flagPlot  = flag.String("plot", "", "Write end-effector trails to an image on exit")
	flagPlane = flag.String("plane", "xy", "Projection plane for -plot (xy, xz, yz)")
	flagSave  = flag.Bool("save", true, "Remember the robot file and trails in the user config")
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logOpts := logger.Options{Level: cfg.Logging.Level, Console: true, Components: cfg.Logging.Components}
	if cfg.Logging.LogFile != "" {
		logOpts.File = logger.DefaultFileConfig(cfg.Logging.LogFile)
	}
	if err := logger.Setup(logOpts); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== URDF Viewer ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	plane, err := debug.ParsePlane(*flagPlane)
	if err != nil {
		logger.Error("invalid plane", zap.Error(err))
		os.Exit(1)
	}

	clock := timeutil.RealClock{}
	v, err := viewer.New(cfg, clock, scene.StatLoader{})
	if err != nil {
		logger.Error("failed to load robot", zap.Error(err))
		os.Exit(1)
	}

	src, err := openSource(cfg, clock)
	if err != nil {
		logger.Error("failed to open joint stream", zap.Error(err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stats, err := v.Run(ctx, src)
	if err != nil && ctx.Err() == nil {
		logger.Error("stream error", zap.Error(err))
		os.Exit(1)
	}
	ee := v.Robot.EndEffectorPosition("")
	logger.Info("stream ended",
		zap.Int("frames", stats.Frames),
		zap.Int("samples", stats.Samples),
		zap.Float64s("end_effector", []float64{ee.X, ee.Y, ee.Z}))

	if *flagPlot != "" {
		tp := debug.NewTrailPlot(v.Robot.Model.Name, plane)
		if err := tp.Save(v.Tracker.Tracks(), v.TrailTime(), *flagPlot); err != nil {
			logger.Error("failed to write plot", zap.Error(err))
		}
	}

	if *flagSave {
		if err := v.SaveConfig(); err != nil {
			logger.Warn("failed to save config", zap.Error(err))
		}
	}

	logger.Info("viewer closed normally")
}

// openSource returns the configured replay, or a line reader on stdin.
func openSource(cfg *config.Config, clock timeutil.Clock) (stream.Source, error) {
	if cfg.Stream.ReplayFile != "" {
		return stream.LoadReplay(cfg.Stream.ReplayFile, clock)
	}
	var in io.Reader = os.Stdin
	logger.Info("reading joint values from stdin (name=value ...)")
	return stream.NewLineSource(in, clock), nil
}
