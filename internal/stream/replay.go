package stream

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/urdf-viewer/internal/timeutil"
)

type replayFrame struct {
	TimeMS int64              `yaml:"t_ms"`
	Values map[string]float64 `yaml:"values"`
}

// Replay plays back recorded frames at their recorded offsets.
type Replay struct {
	Loop bool // Restart from the first frame after the last one

	frames  []Frame
	clock   timeutil.Clock
	next    int
	start   time.Time
	started bool
}

// ParseReplay decodes a YAML list of {t_ms, values} entries. Times must not decrease.
func ParseReplay(data []byte, clock timeutil.Clock) (*Replay, error) {
	var raw []replayFrame
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing replay: %w", err)
	}
	frames := make([]Frame, 0, len(raw))
	for i, r := range raw {
		if r.TimeMS < 0 {
			return nil, fmt.Errorf("frame %d: negative time %d ms", i, r.TimeMS)
		}
		f := Frame{Time: time.Duration(r.TimeMS) * time.Millisecond, Values: r.Values}
		if i > 0 && f.Time < frames[i-1].Time {
			return nil, fmt.Errorf("frame %d: time %v before previous frame", i, f.Time)
		}
		frames = append(frames, f)
	}
	return NewReplay(frames, clock), nil
}

// LoadReplay reads a replay file.
func LoadReplay(path string, clock timeutil.Clock) (*Replay, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading replay: %w", err)
	}
	return ParseReplay(data, clock)
}

// NewReplay plays frames in order. A nil clock uses the real clock.
func NewReplay(frames []Frame, clock timeutil.Clock) *Replay {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	return &Replay{frames: frames, clock: clock}
}

// Len returns the number of recorded frames.
func (r *Replay) Len() int { return len(r.frames) }

// Duration returns the offset of the last frame.
func (r *Replay) Duration() time.Duration {
	if len(r.frames) == 0 {
		return 0
	}
	return r.frames[len(r.frames)-1].Time
}

// Next waits for the next frame's offset from the first call and returns it.
func (r *Replay) Next(ctx context.Context) (Frame, error) {
	if !r.started {
		r.start = r.clock.Now()
		r.started = true
	}
	if r.next >= len(r.frames) {
		if !r.Loop || len(r.frames) == 0 {
			return Frame{}, io.EOF
		}
		r.next = 0
		r.start = r.clock.Now()
	}

	f := r.frames[r.next]
	if err := r.wait(ctx, f.Time-r.clock.Since(r.start)); err != nil {
		return Frame{}, err
	}
	r.next++
	return f, nil
}

func (r *Replay) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	ticker := r.clock.NewTicker(d)
	defer ticker.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-ticker.C():
		return nil
	}
}
