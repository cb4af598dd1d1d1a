package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/urdf-viewer/internal/engine/kinematics"
	"github.com/Faultbox/urdf-viewer/internal/engine/trajectory"
	"github.com/Faultbox/urdf-viewer/internal/logger"
	"github.com/Faultbox/urdf-viewer/internal/timeutil"
)

// Stats summarises what an Applier has done.
type Stats struct {
	Frames  int           // Frames received
	Changes int           // Joint values that actually changed
	Samples int           // Trail points recorded
	Last    time.Duration // Time of the last frame
}

// Applier is the single owner of a robot while it runs: frame application
// and trail sampling happen on its goroutine only.
type Applier struct {
	robot    *kinematics.Robot
	bindings *Bindings
	sampler  *trajectory.Sampler

	// OnFrame, if set, runs on the applier goroutine after each frame.
	OnFrame func(f Frame, changed int)

	stats Stats
}

// NewApplier creates an applier. sampler may be nil to disable trails.
func NewApplier(r *kinematics.Robot, b *Bindings, sampler *trajectory.Sampler) *Applier {
	return &Applier{robot: r, bindings: b, sampler: sampler}
}

// Stats returns counters. Only call it when Run is not running.
func (a *Applier) Stats() Stats { return a.stats }

// Run applies frames until frames is closed or ctx is done.
// It returns nil when frames is closed.
func (a *Applier) Run(ctx context.Context, frames <-chan Frame) error {
	var tick <-chan time.Time
	if a.sampler != nil {
		ticker := a.sampler.Start()
		defer ticker.Stop()
		tick = ticker.C()
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case f, ok := <-frames:
			if !ok {
				return nil
			}
			a.apply(f)
		case t := <-tick:
			a.stats.Samples += a.sampler.Tick(t)
		}
	}
}

func (a *Applier) apply(f Frame) {
	values := a.bindings.Resolve(f.Values)
	changed := a.robot.SetJointValues(values)
	a.stats.Frames++
	a.stats.Changes += changed
	a.stats.Last = f.Time
	if a.OnFrame != nil {
		a.OnFrame(f, changed)
	}
}

// Play pumps src into Run until src is exhausted, ctx is done or either side fails.
func (a *Applier) Play(ctx context.Context, src Source) error {
	g, ctx := errgroup.WithContext(ctx)
	frames := make(chan Frame)

	g.Go(func() error {
		defer close(frames)
		for {
			f, err := src.Next(ctx)
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("reading frame: %w", err)
			}
			select {
			case frames <- f:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	})
	g.Go(func() error {
		return a.Run(ctx, frames)
	})

	err := g.Wait()
	logger.L("stream").Info("playback finished",
		zap.Int("frames", a.stats.Frames),
		zap.Int("changes", a.stats.Changes),
		zap.Int("samples", a.stats.Samples),
		zap.Error(err))
	return err
}

// NewSamplerFor builds a trail sampler reading scene positions from r.
func NewSamplerFor(r *kinematics.Robot, tracker *trajectory.Tracker, clock timeutil.Clock, interval time.Duration) *trajectory.Sampler {
	return trajectory.NewSampler(clock, tracker, r.EndEffectorPosition, interval)
}
