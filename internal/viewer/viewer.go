// Package viewer ties a loaded robot to its camera, draw items, trails and
// joint stream.
package viewer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/urdf-viewer/internal/config"
	"github.com/Faultbox/urdf-viewer/internal/engine/camera"
	"github.com/Faultbox/urdf-viewer/internal/engine/debug"
	"github.com/Faultbox/urdf-viewer/internal/engine/kinematics"
	"github.com/Faultbox/urdf-viewer/internal/engine/scene"
	"github.com/Faultbox/urdf-viewer/internal/engine/trajectory"
	"github.com/Faultbox/urdf-viewer/internal/logger"
	"github.com/Faultbox/urdf-viewer/internal/stream"
	"github.com/Faultbox/urdf-viewer/internal/timeutil"
	"github.com/Faultbox/urdf-viewer/pkg/urdf"
)

// ErrNoRobot is returned when no robot file is configured.
var ErrNoRobot = errors.New("no robot file configured")

// Viewer is one loaded robot and everything derived from it.
// It is not safe for concurrent use; Run owns it while running.
type Viewer struct {
	cfg    *config.Config
	clock  timeutil.Clock
	loader scene.MeshLoader

	File    string
	Robot   *kinematics.Robot
	Camera  *camera.OrbitCamera
	Items   []scene.DrawItem
	Tracker *trajectory.Tracker
	Trails  *trajectory.EndEffectors
	Overlay debug.Overlay

	// MeshErrors holds the visuals skipped during the last load.
	MeshErrors error

	sampler *trajectory.Sampler
}

// New creates a viewer and loads cfg.Robot.File. A nil clock uses the real
// clock; a nil loader skips mesh loading.
func New(cfg *config.Config, clock timeutil.Clock, loader scene.MeshLoader) (*Viewer, error) {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	v := &Viewer{
		cfg:    cfg,
		clock:  clock,
		loader: loader,
		Camera: camera.NewOrbitCamera(),
	}
	if cfg.Robot.File == "" {
		return nil, ErrNoRobot
	}
	if err := v.Open(cfg.Robot.File); err != nil {
		return nil, err
	}
	return v, nil
}

// Open loads a robot file, replacing the current robot. On error the
// current robot is kept.
func (v *Viewer) Open(path string) error {
	log := logger.L("viewer")

	m, err := urdf.ParseFile(path)
	if err != nil {
		return err
	}
	r := kinematics.NewRobot(m)
	r.SetZUp(v.cfg.Robot.ZUp)
	if v.cfg.Robot.AutoScale {
		r.AutoScale(v.cfg.Robot.TargetSize)
	}

	trails, err := trajectory.EndEffectorsFromConfig(v.cfg.Trajectory.EndEffectors)
	if err != nil {
		return fmt.Errorf("trajectory: %w", err)
	}
	if trails.Len() == 0 {
		if ee := kinematics.DetectEndEffector(m); ee != "" {
			trails.Add(ee, "", "", true)
		}
	}
	tracker := trajectory.NewTracker(v.cfg.Trajectory.Lifetime, v.cfg.Trajectory.SampleInterval)
	tracker.Apply(trails)

	items, meshErr := scene.Build(r, v.loader, scene.Options{Colored: v.cfg.Robot.Colored})
	if meshErr != nil {
		log.Warn("some visuals were skipped", zap.Error(meshErr))
	}

	v.File = path
	v.Robot = r
	v.Items = items
	v.MeshErrors = meshErr
	v.Trails = trails
	v.Tracker = tracker
	v.Camera.FitToBounds(r.Bounds())
	v.sampler = nil
	v.Overlay = debug.BuildOverlay(r, tracker, 0)

	log.Info("robot loaded",
		zap.String("name", m.Name),
		zap.String("file", path),
		zap.Int("links", len(m.Links)),
		zap.Int("joints", len(m.Joints)),
		zap.Int("draw_items", len(items)),
		zap.Int("overlay_vertices", v.Overlay.VertexCount()),
		zap.Float64("scale", r.Scale()),
		zap.Strings("trails", tracker.Links()))
	return nil
}

// SetJointValue sets one joint and refreshes the draw items.
func (v *Viewer) SetJointValue(name string, value float64) error {
	changed, err := v.Robot.SetJointValue(name, value)
	if err != nil {
		return err
	}
	if changed {
		v.refresh()
	}
	return nil
}

func (v *Viewer) refresh() {
	scene.Refresh(v.Robot, v.Items)
	v.Overlay = debug.BuildOverlay(v.Robot, v.Tracker, v.TrailTime())
}

// SetZUp toggles the Z-up rotation and reframes the camera.
func (v *Viewer) SetZUp(enabled bool) {
	v.cfg.Robot.ZUp = enabled
	v.Robot.SetZUp(enabled)
	v.Tracker.Reset()
	v.refresh()
	v.Camera.FitToBounds(v.Robot.Bounds())
}

// Run applies frames from src until it ends or ctx is done, sampling trails
// when they are enabled.
func (v *Viewer) Run(ctx context.Context, src stream.Source) (stream.Stats, error) {
	bindings, err := stream.NewBindings(v.cfg.Stream, v.Robot.Model)
	if err != nil {
		return stream.Stats{}, err
	}

	v.sampler = nil
	if v.cfg.Trajectory.Enabled {
		v.sampler = stream.NewSamplerFor(v.Robot, v.Tracker, v.clock, v.cfg.Trajectory.SampleInterval)
	}
	a := stream.NewApplier(v.Robot, bindings, v.sampler)
	a.OnFrame = func(_ stream.Frame, changed int) {
		if changed > 0 {
			v.refresh()
		}
	}

	err = a.Play(ctx, src)
	return a.Stats(), err
}

// TrailTime returns the trail clock of the last Run, or 0 before any run.
func (v *Viewer) TrailTime() time.Duration {
	if v.sampler == nil {
		return 0
	}
	return v.sampler.Now()
}

// SaveConfig stores the current trails and robot file in the config and
// writes it to the user's config directory.
func (v *Viewer) SaveConfig() error {
	v.cfg.Trajectory.EndEffectors = v.Trails.Config()
	return v.cfg.Remember(v.File)
}
