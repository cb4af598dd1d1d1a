package kinematics

import (
	gomath "math"

	"github.com/Faultbox/urdf-viewer/pkg/math"
	"github.com/Faultbox/urdf-viewer/pkg/urdf"
)

// meshRadius stands in for mesh extents, which are unknown until decoded.
const meshRadius = 0.1

// Bounds is an axis-aligned box.
type Bounds struct {
	Min, Max math.Vec3
}

// DefaultBounds is returned when a model yields no usable points.
var DefaultBounds = Bounds{
	Min: math.Vec3{X: -0.5, Y: -0.5, Z: -0.5},
	Max: math.Vec3{X: 0.5, Y: 0.5, Z: 0.5},
}

func emptyBounds() Bounds {
	inf := gomath.Inf(1)
	return Bounds{
		Min: math.Vec3{X: inf, Y: inf, Z: inf},
		Max: math.Vec3{X: -inf, Y: -inf, Z: -inf},
	}
}

// Valid reports whether Min <= Max on every axis.
func (b Bounds) Valid() bool {
	return b.Min.X <= b.Max.X && b.Min.Y <= b.Max.Y && b.Min.Z <= b.Max.Z
}

// Extend grows b to contain a sphere of radius r at p.
func (b Bounds) Extend(p math.Vec3, r float64) Bounds {
	d := math.Vec3{X: r, Y: r, Z: r}
	return Bounds{Min: b.Min.Min(p.Sub(d)), Max: b.Max.Max(p.Add(d))}
}

// Extent returns Max - Min.
func (b Bounds) Extent() math.Vec3 {
	return b.Max.Sub(b.Min)
}

// Size returns the length of the diagonal.
func (b Bounds) Size() float64 {
	return b.Extent().Length()
}

// Center returns the midpoint.
func (b Bounds) Center() math.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// MaxDimension returns the largest extent along any axis.
func (b Bounds) MaxDimension() float64 {
	e := b.Extent()
	return gomath.Max(e.X, gomath.Max(e.Y, e.Z))
}

// Transform returns the box containing all eight corners of b under m.
func (b Bounds) Transform(m math.Mat4) Bounds {
	out := emptyBounds()
	for i := 0; i < 8; i++ {
		c := b.Min
		if i&1 != 0 {
			c.X = b.Max.X
		}
		if i&2 != 0 {
			c.Y = b.Max.Y
		}
		if i&4 != 0 {
			c.Z = b.Max.Z
		}
		out = out.Extend(m.TransformPoint(c), 0)
	}
	return out
}

// BoundingBox estimates the model extent in its own frame from link origins
// and visual sizes. Links not reachable from the root are ignored.
func BoundingBox(m *urdf.Model) Bounds {
	b := emptyBounds()
	m.Walk(func(l *urdf.Link, _ *urdf.Joint) bool {
		world := LinkWorldTransform(m, l.Name)
		b = b.Extend(world.Translation(), 0)
		for _, v := range l.Visuals {
			b = b.Extend(world.TransformPoint(v.Origin.Position()), visualRadius(v.Geometry))
		}
		return true
	})
	if !b.Valid() {
		return DefaultBounds
	}
	return b
}

func visualRadius(g urdf.Geometry) float64 {
	switch g.Kind {
	case urdf.GeometryBox:
		return gomath.Max(g.Size[0], gomath.Max(g.Size[1], g.Size[2])) * 0.5
	case urdf.GeometryCylinder:
		return gomath.Max(g.Radius, g.Length*0.5)
	case urdf.GeometrySphere:
		return g.Radius
	case urdf.GeometryMesh:
		return meshRadius
	default:
		return 0
	}
}

// DefaultTargetSize is the diagonal auto-scaled models are fitted to.
const DefaultTargetSize = 2.0

// FitScale returns the uniform scale that gives b a diagonal of targetSize.
// Degenerate boxes get 1.
func FitScale(b Bounds, targetSize float64) float64 {
	size := b.Size()
	if size <= 0.001 || targetSize <= 0 {
		return 1
	}
	return targetSize / size
}
