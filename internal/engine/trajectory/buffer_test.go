package trajectory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Faultbox/urdf-viewer/pkg/math"
)

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

func times(points []Point) []time.Duration {
	out := make([]time.Duration, len(points))
	for i, p := range points {
		out[i] = p.Time
	}
	return out
}

func TestBufferEvictsByAge(t *testing.T) {
	b := NewBuffer(ms(150), DefaultInterval)
	b.SetMaxPoints(100)
	for _, at := range []int{0, 100, 200, 300} {
		b.Add(math.Vec3{X: float64(at)}, ms(at))
	}

	got := b.Points(ms(310))
	assert.Equal(t, []time.Duration{ms(200), ms(300)}, times(got))
	assert.Equal(t, 200.0, got[0].Position.X)
	assert.Equal(t, 2, b.Len())
}

func TestBufferKeepsPointAtExactLifetime(t *testing.T) {
	b := NewBuffer(ms(100), ms(10))
	b.Add(math.Vec3{}, 0)
	assert.Len(t, b.Points(ms(100)), 1)
	assert.Empty(t, b.Points(ms(101)))
}

func TestBufferMaxPoints(t *testing.T) {
	b := NewBuffer(2*time.Second, DefaultInterval)
	assert.Equal(t, 41, b.MaxPoints())

	b.SetLifetime(ms(200))
	assert.Equal(t, 5, b.MaxPoints())

	for i := 0; i < 10; i++ {
		b.Add(math.Vec3{X: float64(i)}, 0)
	}
	assert.Equal(t, 5, b.Len())
	assert.Equal(t, []math.Vec3{{X: 5}, {X: 6}, {X: 7}, {X: 8}, {X: 9}}, b.Positions(0))

	b.SetMaxPoints(2)
	assert.Equal(t, 2, b.Len())
	b.SetMaxPoints(0)
	assert.Equal(t, 1, b.MaxPoints())
}

func TestBufferAddEvictsExpired(t *testing.T) {
	b := NewBuffer(ms(100), ms(10))
	b.Add(math.Vec3{}, 0)
	b.Add(math.Vec3{}, ms(50))
	b.Add(math.Vec3{}, ms(160))
	assert.Equal(t, 2, b.Len(), "point at 0 expired on add")
}

func TestBufferDrawable(t *testing.T) {
	b := NewBuffer(0, 0)
	assert.Equal(t, DefaultLifetime, b.Lifetime())
	assert.False(t, b.Drawable())
	b.Add(math.Vec3{}, 0)
	assert.False(t, b.Drawable())
	b.Add(math.Vec3{X: 1}, ms(50))
	assert.True(t, b.Drawable())

	b.Clear()
	assert.Equal(t, 0, b.Len())
	assert.False(t, b.Drawable())
}

func TestBufferPointsIsCopy(t *testing.T) {
	b := NewBuffer(time.Second, DefaultInterval)
	b.Add(math.Vec3{X: 1}, 0)
	pts := b.Points(0)
	pts[0].Position.X = 99
	assert.Equal(t, 1.0, b.Points(0)[0].Position.X)
}
