package debug

import (
	gomath "math"
	"time"

	"github.com/Faultbox/urdf-viewer/internal/engine/kinematics"
	"github.com/Faultbox/urdf-viewer/internal/engine/trajectory"
)

// GridCells is the number of grid cells between the origin and the grid edge.
const GridCells = 10

// Overlay holds the helper geometry drawn on top of a robot.
type Overlay struct {
	BBox   []float32
	Axes   []LineVertex
	Grid   []LineVertex
	Trails [][]LineVertex
}

// BuildOverlay generates the bounds box, joint axes, a ground grid sized to
// the robot and one strip per enabled trail with at least two live points.
// tracker may be nil.
func BuildOverlay(r *kinematics.Robot, tracker *trajectory.Tracker, now time.Duration) Overlay {
	b := r.Bounds()
	half := gomath.Max(1, gomath.Ceil(b.Size()))
	o := Overlay{
		BBox: GenerateBBoxWireframe(b, DefaultBBoxPadding),
		Axes: GenerateJointAxes(r, AxisLength*gomath.Max(r.Scale(), 1)),
		Grid: GenerateGridLines(half, half/GridCells),
	}
	if tracker == nil {
		return o
	}
	for _, tr := range tracker.Tracks() {
		if !tr.Enabled {
			continue
		}
		if strip := GenerateTrailStrip(tr.Buffer, now); strip != nil {
			o.Trails = append(o.Trails, strip)
		}
	}
	return o
}

// VertexCount is the total number of line vertices in the overlay.
func (o Overlay) VertexCount() int {
	n := len(o.BBox)/3 + len(o.Axes) + len(o.Grid)
	for _, s := range o.Trails {
		n += len(s)
	}
	return n
}
