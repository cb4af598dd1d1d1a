package debug

import (
	"time"

	"github.com/Faultbox/urdf-viewer/internal/engine/kinematics"
	"github.com/Faultbox/urdf-viewer/internal/engine/trajectory"
	"github.com/Faultbox/urdf-viewer/pkg/math"
)

// LineVertex is a colored line endpoint.
type LineVertex struct {
	X, Y, Z float32
	R, G, B float32
}

func vertex(p math.Vec3, c [3]float32) LineVertex {
	return LineVertex{float32(p.X), float32(p.Y), float32(p.Z), c[0], c[1], c[2]}
}

// AxisLength is the length of joint frame axes in model units.
const AxisLength = 0.1

var (
	axisRed   = [3]float32{1, 0, 0}
	axisGreen = [3]float32{0, 1, 0}
	axisBlue  = [3]float32{0, 0, 1}
)

// GenerateJointAxes returns red/green/blue line pairs for the X/Y/Z axes of
// every joint frame, in scene coordinates.
func GenerateJointAxes(r *kinematics.Robot, length float64) []LineVertex {
	if length <= 0 {
		length = AxisLength
	}
	var vertices []LineVertex
	for i := range r.Model.Joints {
		j := &r.Model.Joints[i]
		frame := r.LinkWorldTransform(j.Parent).Mul(kinematics.LocalTransform(j))
		origin := frame.TransformPoint(math.Vec3{})
		vertices = append(vertices,
			vertex(origin, axisRed), vertex(frame.TransformPoint(math.Vec3{X: length}), axisRed),
			vertex(origin, axisGreen), vertex(frame.TransformPoint(math.Vec3{Y: length}), axisGreen),
			vertex(origin, axisBlue), vertex(frame.TransformPoint(math.Vec3{Z: length}), axisBlue),
		)
	}
	return vertices
}

// GroundGridOffset keeps the grid just under the origin to avoid z-fighting
// with the world axes.
const GroundGridOffset = -0.001

// GenerateGridLines generates a square grid on the XZ plane centred on the origin.
// halfSize is rounded down to a whole number of cells.
func GenerateGridLines(halfSize, spacing float64) []LineVertex {
	if spacing <= 0 || halfSize <= 0 {
		return nil
	}
	cells := int(halfSize / spacing)
	extent := float64(cells) * spacing
	gridColor := [3]float32{0.5, 0.5, 0.5}

	var vertices []LineVertex
	for i := -cells; i <= cells; i++ {
		c := float64(i) * spacing
		vertices = append(vertices,
			vertex(math.Vec3{X: c, Y: GroundGridOffset, Z: -extent}, gridColor),
			vertex(math.Vec3{X: c, Y: GroundGridOffset, Z: extent}, gridColor),
			vertex(math.Vec3{X: -extent, Y: GroundGridOffset, Z: c}, gridColor),
			vertex(math.Vec3{X: extent, Y: GroundGridOffset, Z: c}, gridColor),
		)
	}
	return vertices
}

// GenerateTrailStrip converts live trail points into a line strip colored by
// the buffer color. Nothing is returned until the trail has two points.
func GenerateTrailStrip(b *trajectory.Buffer, now time.Duration) []LineVertex {
	pts := b.Positions(now)
	if len(pts) < 2 {
		return nil
	}
	rgba := trajectory.Float(b.Color)
	c := [3]float32{float32(rgba[0]), float32(rgba[1]), float32(rgba[2])}
	out := make([]LineVertex, len(pts))
	for i, p := range pts {
		out[i] = vertex(p, c)
	}
	return out
}
