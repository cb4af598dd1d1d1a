package trajectory

import (
	"image/color"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/urdf-viewer/internal/logger"
	"github.com/Faultbox/urdf-viewer/pkg/math"
)

// PositionFunc reports the current world position of a link.
type PositionFunc func(link string) math.Vec3

// Track is the trail of one link.
type Track struct {
	Link    string
	Name    string
	Enabled bool
	Buffer  *Buffer
}

// Tracker keeps one trail per tracked link, in insertion order.
type Tracker struct {
	tracks   map[string]*Track
	order    []string
	lifetime time.Duration
	interval time.Duration
}

// NewTracker returns an empty tracker whose buffers use lifetime and interval.
func NewTracker(lifetime, interval time.Duration) *Tracker {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if lifetime <= 0 {
		lifetime = DefaultLifetime
	}
	return &Tracker{
		tracks:   make(map[string]*Track),
		lifetime: lifetime,
		interval: interval,
	}
}

// Add starts tracking ee.Link, replacing any existing trail for it.
func (t *Tracker) Add(ee EndEffector) *Track {
	if _, ok := t.tracks[ee.Link]; !ok {
		t.order = append(t.order, ee.Link)
	}
	name := ee.Name
	if name == "" {
		name = ee.Link
	}
	b := NewBuffer(t.lifetime, t.interval)
	if ee.Color != (color.RGBA{}) {
		b.Color = ee.Color
	}
	tr := &Track{Link: ee.Link, Name: name, Enabled: ee.Enabled, Buffer: b}
	t.tracks[ee.Link] = tr
	logger.L("trajectory").Debug("tracking link", zap.String("link", ee.Link), zap.String("color", Hex(b.Color)))
	return tr
}

// Apply replaces all tracks with the given rows.
func (t *Tracker) Apply(s *EndEffectors) {
	t.Clear()
	for _, ee := range s.Rows() {
		t.Add(ee)
	}
}

// Remove stops tracking link.
func (t *Tracker) Remove(link string) bool {
	if _, ok := t.tracks[link]; !ok {
		return false
	}
	delete(t.tracks, link)
	for i, l := range t.order {
		if l == link {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return true
}

// Clear stops tracking every link.
func (t *Tracker) Clear() {
	t.tracks = make(map[string]*Track)
	t.order = nil
}

// Reset empties every trail but keeps tracking.
func (t *Tracker) Reset() {
	for _, tr := range t.tracks {
		tr.Buffer.Clear()
	}
}

// Track returns the trail for link, or nil.
func (t *Tracker) Track(link string) *Track {
	return t.tracks[link]
}

// Links returns the tracked links in insertion order.
func (t *Tracker) Links() []string {
	return append([]string(nil), t.order...)
}

// Tracks returns the tracks in insertion order.
func (t *Tracker) Tracks() []*Track {
	out := make([]*Track, 0, len(t.order))
	for _, l := range t.order {
		out = append(out, t.tracks[l])
	}
	return out
}

// SetLifetime changes the lifetime of every trail, including future ones.
func (t *Tracker) SetLifetime(d time.Duration) {
	if d <= 0 {
		d = DefaultLifetime
	}
	t.lifetime = d
	for _, tr := range t.tracks {
		tr.Buffer.SetLifetime(d)
	}
}

// Sample appends the current position of every enabled link at now and
// returns how many trails were updated.
func (t *Tracker) Sample(now time.Duration, pos PositionFunc) int {
	n := 0
	for _, l := range t.order {
		tr := t.tracks[l]
		if !tr.Enabled {
			continue
		}
		tr.Buffer.Add(pos(l), now)
		n++
	}
	return n
}
