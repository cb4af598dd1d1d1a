// Package debug provides debug visualization utilities.
package debug

import (
	"github.com/Faultbox/urdf-viewer/internal/engine/kinematics"
	"github.com/Faultbox/urdf-viewer/pkg/math"
)

// GenerateBBoxWireframeVertices creates line vertices for a wireframe bounding box.
// Returns 24 vertices (12 edges × 2 endpoints), format: [x, y, z] per vertex.
func GenerateBBoxWireframeVertices(min, max math.Vec3) []float32 {
	minX, minY, minZ := float32(min.X), float32(min.Y), float32(min.Z)
	maxX, maxY, maxZ := float32(max.X), float32(max.Y), float32(max.Z)
	return []float32{
		// Bottom face (4 edges)
		minX, minY, minZ, maxX, minY, minZ,
		maxX, minY, minZ, maxX, minY, maxZ,
		maxX, minY, maxZ, minX, minY, maxZ,
		minX, minY, maxZ, minX, minY, minZ,
		// Top face (4 edges)
		minX, maxY, minZ, maxX, maxY, minZ,
		maxX, maxY, minZ, maxX, maxY, maxZ,
		maxX, maxY, maxZ, minX, maxY, maxZ,
		minX, maxY, maxZ, minX, maxY, minZ,
		// Vertical edges (4 edges)
		minX, minY, minZ, minX, maxY, minZ,
		maxX, minY, minZ, maxX, maxY, minZ,
		maxX, minY, maxZ, maxX, maxY, maxZ,
		minX, minY, maxZ, minX, maxY, maxZ,
	}
}

// GenerateBBoxWireframe creates wireframe vertices for b grown by padding on all sides.
func GenerateBBoxWireframe(b kinematics.Bounds, padding float64) []float32 {
	p := math.Vec3{X: padding, Y: padding, Z: padding}
	return GenerateBBoxWireframeVertices(b.Min.Sub(p), b.Max.Add(p))
}

// BBoxWireframeVertexCount is the number of vertices for a bbox wireframe (12 edges × 2).
const BBoxWireframeVertexCount = 24

// DefaultBBoxPadding is the default padding for the robot bounds overlay.
const DefaultBBoxPadding = 0.01
