package trajectory

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/urdf-viewer/internal/timeutil"
	"github.com/Faultbox/urdf-viewer/pkg/math"
)

func TestTracker(t *testing.T) {
	tr := NewTracker(ms(100), ms(10))
	tr.Add(EndEffector{Link: "tool", Enabled: true})
	tr.Add(EndEffector{Link: "wrist", Name: "Wrist", Enabled: false})
	tr.Add(EndEffector{Link: "elbow", Enabled: true})

	assert.Equal(t, []string{"tool", "wrist", "elbow"}, tr.Links())
	assert.Equal(t, "tool", tr.Track("tool").Name)
	assert.Equal(t, DefaultColor, tr.Track("tool").Buffer.Color)

	pos := func(link string) math.Vec3 { return math.Vec3{X: float64(len(link))} }
	assert.Equal(t, 2, tr.Sample(0, pos))
	assert.Equal(t, 2, tr.Sample(ms(50), pos))
	assert.Equal(t, 2, tr.Track("tool").Buffer.Len())
	assert.Equal(t, 0, tr.Track("wrist").Buffer.Len())
	assert.Equal(t, 5.0, tr.Track("elbow").Buffer.Points(ms(50))[0].Position.X)

	tr.SetLifetime(ms(20))
	assert.Len(t, tr.Track("tool").Buffer.Points(ms(60)), 1)

	assert.True(t, tr.Remove("wrist"))
	assert.False(t, tr.Remove("wrist"))
	assert.Equal(t, []string{"tool", "elbow"}, tr.Links())
	assert.Len(t, tr.Tracks(), 2)

	tr.Reset()
	assert.Equal(t, 0, tr.Track("tool").Buffer.Len())
	tr.Clear()
	assert.Empty(t, tr.Links())
	assert.Nil(t, tr.Track("tool"))
}

func TestTrackerApply(t *testing.T) {
	var s EndEffectors
	require.NoError(t, s.Add("a", "", "#0000FF", true))
	require.NoError(t, s.Add("b", "", "", false))

	tr := NewTracker(0, 0)
	tr.Add(EndEffector{Link: "old", Enabled: true})
	tr.Apply(&s)

	assert.Equal(t, []string{"a", "b"}, tr.Links())
	assert.Equal(t, "#0000FF", Hex(tr.Track("a").Buffer.Color))
	assert.False(t, tr.Track("b").Enabled)
}

func TestSamplerTick(t *testing.T) {
	clock := timeutil.NewMockClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	tr := NewTracker(ms(150), ms(50))
	tr.Add(EndEffector{Link: "tool", Enabled: true})

	x := 0.0
	s := NewSampler(clock, tr, func(string) math.Vec3 { x++; return math.Vec3{X: x} }, 0)
	assert.Equal(t, DefaultInterval, s.Interval())

	ticker := s.Start()
	defer ticker.Stop()

	for i := 0; i < 4; i++ {
		clock.Advance(ms(100))
		s.Tick(<-ticker.C())
	}
	// Ticks are delivered at 50, 150, 250 and 350 ms; the ticker drops the
	// ones the loop was too slow for.
	got := tr.Track("tool").Buffer.Points(s.Now())
	assert.Equal(t, ms(400), s.Now())
	assert.Equal(t, []time.Duration{ms(250), ms(350)}, times(got))
}

func TestSamplerRun(t *testing.T) {
	clock := timeutil.NewMockClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	tr := NewTracker(time.Second, ms(50))
	tr.Add(EndEffector{Link: "tool", Enabled: true})

	var calls atomic.Int32
	s := NewSampler(clock, tr, func(string) math.Vec3 {
		calls.Add(1)
		return math.Vec3{}
	}, ms(50))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.Eventually(t, func() bool {
		clock.Advance(ms(50))
		return calls.Load() >= 3
	}, time.Second, time.Millisecond)

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
	assert.GreaterOrEqual(t, tr.Track("tool").Buffer.Len(), 3)
}
