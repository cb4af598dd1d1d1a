// Package trajectory records time-windowed paths of tracked links.
package trajectory

import (
	"image/color"
	"time"

	"github.com/Faultbox/urdf-viewer/pkg/math"
)

const (
	DefaultLifetime = 2 * time.Second
	DefaultInterval = 50 * time.Millisecond
)

// Point is a sampled position. Time is the offset from sampler start.
type Point struct {
	Position math.Vec3
	Time     time.Duration
}

// Buffer is a FIFO of points bounded by age and count.
// Points are appended with non-decreasing times.
type Buffer struct {
	Color color.RGBA

	points    []Point
	lifetime  time.Duration
	interval  time.Duration
	maxPoints int
}

// NewBuffer returns a buffer sized for lifetime at one point per interval.
// Non-positive arguments select the defaults.
func NewBuffer(lifetime, interval time.Duration) *Buffer {
	if interval <= 0 {
		interval = DefaultInterval
	}
	b := &Buffer{interval: interval, Color: DefaultColor}
	b.SetLifetime(lifetime)
	return b
}

// SetLifetime sets the maximum point age and resizes the point cap to
// lifetime/interval + 1.
func (b *Buffer) SetLifetime(d time.Duration) {
	if d <= 0 {
		d = DefaultLifetime
	}
	b.lifetime = d
	b.maxPoints = int(d/b.interval) + 1
}

// Lifetime returns the maximum point age.
func (b *Buffer) Lifetime() time.Duration { return b.lifetime }

// SetMaxPoints overrides the point cap. Values below 1 are raised to 1.
func (b *Buffer) SetMaxPoints(n int) {
	if n < 1 {
		n = 1
	}
	b.maxPoints = n
	b.trim()
}

// MaxPoints returns the point cap.
func (b *Buffer) MaxPoints() int { return b.maxPoints }

// Add appends a point sampled at now, then drops expired and excess points.
func (b *Buffer) Add(pos math.Vec3, now time.Duration) {
	b.points = append(b.points, Point{Position: pos, Time: now})
	b.evict(now)
	b.trim()
}

// Points returns the points no older than the lifetime at now, oldest first.
func (b *Buffer) Points(now time.Duration) []Point {
	b.evict(now)
	out := make([]Point, len(b.points))
	copy(out, b.points)
	return out
}

// Positions returns the live positions at now, oldest first.
func (b *Buffer) Positions(now time.Duration) []math.Vec3 {
	b.evict(now)
	out := make([]math.Vec3, len(b.points))
	for i, p := range b.points {
		out[i] = p.Position
	}
	return out
}

// Len returns the number of stored points without evicting.
func (b *Buffer) Len() int { return len(b.points) }

// Drawable reports whether there are enough points for a line.
func (b *Buffer) Drawable() bool { return len(b.points) >= 2 }

// Clear drops every point.
func (b *Buffer) Clear() { b.points = b.points[:0] }

func (b *Buffer) evict(now time.Duration) {
	n := 0
	for n < len(b.points) && now-b.points[n].Time > b.lifetime {
		n++
	}
	b.drop(n)
}

func (b *Buffer) trim() {
	if over := len(b.points) - b.maxPoints; over > 0 {
		b.drop(over)
	}
}

func (b *Buffer) drop(n int) {
	if n == 0 {
		return
	}
	b.points = append(b.points[:0], b.points[n:]...)
}
