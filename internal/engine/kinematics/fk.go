// Package kinematics computes link poses from joint values.
package kinematics

import (
	gomath "math"

	"github.com/Faultbox/urdf-viewer/pkg/math"
	"github.com/Faultbox/urdf-viewer/pkg/urdf"
)

// JointTransform returns the motion of j at value, excluding its origin.
// Rotary joints rotate about the normalized axis, prismatic joints translate
// along it. Every other type, and a zero axis, yields identity.
func JointTransform(j *urdf.Joint, value float64) math.Mat4 {
	axis := math.V3(j.Axis).Normalize()
	if axis == (math.Vec3{}) {
		return math.Identity()
	}

	switch j.Type {
	case urdf.JointRevolute, urdf.JointContinuous:
		return math.RotateAxis(axis, value)
	case urdf.JointPrismatic:
		return math.TranslateVec(axis.Scale(value))
	default:
		return math.Identity()
	}
}

// SetJointValue stores value on j, clamped to the limits for revolute and
// prismatic joints. It returns false and leaves j untouched when value is
// NaN or infinite, or when the result equals the stored value.
func SetJointValue(j *urdf.Joint, value float64) bool {
	if gomath.IsNaN(value) || gomath.IsInf(value, 0) {
		return false
	}
	switch j.Type {
	case urdf.JointRevolute, urdf.JointPrismatic:
		value = clamp(value, j.Limits.Lower, j.Limits.Upper)
	}
	if fuzzyEqual(j.Value, value) {
		return false
	}
	j.Value = value
	return true
}

// LocalTransform is the joint origin followed by its current motion.
func LocalTransform(j *urdf.Joint) math.Mat4 {
	return j.Origin.Matrix().Mul(JointTransform(j, j.Value))
}

// LinkWorldTransform composes local transforms from the root down to link.
// The root and unknown links get identity. Each joint is used at most once,
// so malformed graphs still terminate with a partial chain.
func LinkWorldTransform(m *urdf.Model, link string) math.Mat4 {
	chain := make([]*urdf.Joint, 0, 8)
	seen := make(map[urdf.JointID]bool)
	current := link
	for len(chain) < len(m.Joints) {
		pj := m.ParentJoint(current)
		if pj == nil || seen[pj.ID] {
			break
		}
		seen[pj.ID] = true
		chain = append(chain, pj)
		current = pj.Parent
	}

	world := math.Identity()
	for i := len(chain) - 1; i >= 0; i-- {
		world = world.Mul(LocalTransform(chain[i]))
	}
	return world
}

// EndEffectorPosition is the origin of link in world space after correction.
func EndEffectorPosition(m *urdf.Model, link string, correction math.Mat4) math.Vec3 {
	return correction.Mul(LinkWorldTransform(m, link)).Translation()
}

// DetectEndEffector returns the first non-root link without child joints,
// or "" if there is none.
func DetectEndEffector(m *urdf.Model) string {
	for i := range m.Links {
		l := &m.Links[i]
		if l.ID != m.Root && len(m.ChildJoints(l.Name)) == 0 {
			return l.Name
		}
	}
	return ""
}

// Leaves returns every non-root link without child joints in document order.
func Leaves(m *urdf.Model) []string {
	var out []string
	for i := range m.Links {
		l := &m.Links[i]
		if l.ID != m.Root && len(m.ChildJoints(l.Name)) == 0 {
			out = append(out, l.Name)
		}
	}
	return out
}

// LinkGeometryCenter estimates the center of a link's visuals in the link frame.
// A single cylinder is centred half its length along Z; several visuals
// average their origins.
func LinkGeometryCenter(m *urdf.Model, link string) math.Vec3 {
	l := m.Link(link)
	if l == nil || len(l.Visuals) == 0 {
		return math.Vec3{}
	}
	if len(l.Visuals) == 1 {
		v := l.Visuals[0]
		center := v.Origin.Position()
		if v.Geometry.Kind == urdf.GeometryCylinder {
			center.Z += v.Geometry.Length * 0.5
		}
		return center
	}
	var sum math.Vec3
	for _, v := range l.Visuals {
		sum = sum.Add(v.Origin.Position())
	}
	return sum.Scale(1 / float64(len(l.Visuals)))
}

// clamp favours lo when the limits are inverted.
func clamp(v, lo, hi float64) float64 {
	return gomath.Max(lo, gomath.Min(hi, v))
}

// fuzzyEqual treats values within 1e-12 relative difference as equal.
func fuzzyEqual(a, b float64) bool {
	if a == b {
		return true
	}
	return gomath.Abs(a-b)*1e12 <= gomath.Min(gomath.Abs(a), gomath.Abs(b))
}
