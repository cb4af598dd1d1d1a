package trajectory

import (
	"context"
	"time"

	"github.com/Faultbox/urdf-viewer/internal/timeutil"
)

// Sampler feeds a Tracker at a fixed interval. The tick is the only place
// trails change, so callers that own the model can drive Tick from their
// own loop instead of Run.
type Sampler struct {
	clock    timeutil.Clock
	tracker  *Tracker
	pos      PositionFunc
	interval time.Duration
	start    time.Time
}

// NewSampler creates a sampler. A nil clock uses the real clock.
func NewSampler(clock timeutil.Clock, tracker *Tracker, pos PositionFunc, interval time.Duration) *Sampler {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Sampler{clock: clock, tracker: tracker, pos: pos, interval: interval, start: clock.Now()}
}

// Interval returns the sampling period.
func (s *Sampler) Interval() time.Duration { return s.interval }

// Start resets the time origin and returns a ticker for the sampling period.
// The caller must stop the ticker.
func (s *Sampler) Start() timeutil.Ticker {
	s.start = s.clock.Now()
	return s.clock.NewTicker(s.interval)
}

// Elapsed returns the trail time of t.
func (s *Sampler) Elapsed(t time.Time) time.Duration {
	return t.Sub(s.start)
}

// Now returns the current trail time.
func (s *Sampler) Now() time.Duration {
	return s.clock.Since(s.start)
}

// Tick samples every enabled trail at tick time t.
func (s *Sampler) Tick(t time.Time) int {
	return s.tracker.Sample(s.Elapsed(t), s.pos)
}

// Run samples on every tick until ctx is done.
func (s *Sampler) Run(ctx context.Context) error {
	ticker := s.Start()
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case t := <-ticker.C():
			s.Tick(t)
		}
	}
}
