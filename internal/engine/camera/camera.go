// Package camera frames a robot for the renderer.
package camera

import (
	gomath "math"

	"github.com/Faultbox/urdf-viewer/internal/engine/kinematics"
	"github.com/Faultbox/urdf-viewer/pkg/math"
)

// OrbitCamera orbits around a center point.
type OrbitCamera struct {
	// Center point to orbit around
	Center math.Vec3

	// Spherical coordinates
	Distance  float64 // Distance from center
	Elevation float64 // Vertical angle, radians
	Azimuth   float64 // Horizontal angle, radians

	// Vertical field of view, radians
	FOV float64

	// Constraints
	MinDistance  float64
	MaxDistance  float64
	MaxElevation float64

	// Sensitivity
	DragSensitivity float64
	ZoomSensitivity float64
	PanSensitivity  float64

	home struct {
		center                       math.Vec3
		distance, elevation, azimuth float64
	}
}

// NewOrbitCamera creates a new orbit camera with default settings.
func NewOrbitCamera() *OrbitCamera {
	c := &OrbitCamera{
		Distance:        5.0,
		Elevation:       degrees(30),
		Azimuth:         degrees(45),
		FOV:             degrees(45),
		MinDistance:     0.1,
		MaxDistance:     1000.0,
		MaxElevation:    degrees(89),
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
		PanSensitivity:  0.002,
	}
	c.saveHome()
	return c
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	x := c.Distance * gomath.Cos(c.Elevation) * gomath.Sin(c.Azimuth)
	y := c.Distance * gomath.Sin(c.Elevation)
	z := c.Distance * gomath.Cos(c.Elevation) * gomath.Cos(c.Azimuth)
	return c.Center.Add(math.Vec3{X: x, Y: y, Z: z})
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position(), c.Center, math.Vec3{Y: 1})
}

// ProjectionMatrix returns a perspective projection for the given aspect ratio.
// Clip planes scale with distance so small and large robots both fit.
func (c *OrbitCamera) ProjectionMatrix(aspect float64) math.Mat4 {
	near := gomath.Max(c.Distance*0.001, 0.001)
	far := gomath.Max(c.Distance*100, 10)
	return math.Perspective(c.FOV, aspect, near, far)
}

// HandleDrag updates rotation based on mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float64) {
	c.Azimuth -= deltaX * c.DragSensitivity
	c.Elevation += deltaY * c.DragSensitivity

	// Clamp elevation short of the poles
	c.Elevation = gomath.Max(-c.MaxElevation, gomath.Min(c.MaxElevation, c.Elevation))
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float64) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	c.Distance = gomath.Max(c.MinDistance, gomath.Min(c.MaxDistance, c.Distance))
}

// HandlePan moves the center in the view plane. Speed scales with distance.
func (c *OrbitCamera) HandlePan(deltaX, deltaY float64) {
	speed := c.Distance * c.PanSensitivity

	forward := c.Center.Sub(c.Position()).Normalize()
	right := forward.Cross(math.Vec3{Y: 1}).Normalize()
	up := right.Cross(forward)

	c.Center = c.Center.Add(right.Scale(-deltaX * speed)).Add(up.Scale(deltaY * speed))
}

// FitToBounds centers on b and backs off until the largest dimension fits
// the field of view with some margin. The new view becomes the home view.
func (c *OrbitCamera) FitToBounds(b kinematics.Bounds) {
	c.Center = b.Center()
	c.Distance = b.MaxDimension() / (2 * gomath.Tan(c.FOV/2)) * 1.5
	if c.Distance < 1 {
		c.Distance = 1
	}
	c.Azimuth = degrees(45)
	c.Elevation = degrees(30)
	c.saveHome()
}

// Reset returns to the last fitted view.
func (c *OrbitCamera) Reset() {
	c.Center = c.home.center
	c.Distance = c.home.distance
	c.Elevation = c.home.elevation
	c.Azimuth = c.home.azimuth
}

func (c *OrbitCamera) saveHome() {
	c.home.center = c.Center
	c.home.distance = c.Distance
	c.home.elevation = c.Elevation
	c.home.azimuth = c.Azimuth
}

func degrees(d float64) float64 {
	return d * gomath.Pi / 180
}
