// Package urdf parses robot descriptions into a typed kinematic model.
package urdf

import (
	"fmt"

	"github.com/Faultbox/urdf-viewer/pkg/math"
)

// Origin is a rigid offset: translation plus roll/pitch/yaw in radians.
type Origin struct {
	XYZ [3]float64
	RPY [3]float64
}

// Matrix returns translate(xyz) * Rz(yaw) * Ry(pitch) * Rx(roll).
func (o Origin) Matrix() math.Mat4 {
	return math.Translate(o.XYZ[0], o.XYZ[1], o.XYZ[2]).
		Mul(math.RotateZ(o.RPY[2])).
		Mul(math.RotateY(o.RPY[1])).
		Mul(math.RotateX(o.RPY[0]))
}

// Quaternion returns the rotation part of the origin.
func (o Origin) Quaternion() math.Quat {
	return math.QuatFromRPY(o.RPY[0], o.RPY[1], o.RPY[2])
}

// Position returns the translation as a vector.
func (o Origin) Position() math.Vec3 {
	return math.V3(o.XYZ)
}

// GeometryKind identifies a visual or collision shape.
type GeometryKind int

const (
	GeometryNone GeometryKind = iota
	GeometryBox
	GeometryCylinder
	GeometrySphere
	GeometryMesh
)

// String returns the URDF tag name of the geometry kind.
func (k GeometryKind) String() string {
	switch k {
	case GeometryNone:
		return "none"
	case GeometryBox:
		return "box"
	case GeometryCylinder:
		return "cylinder"
	case GeometrySphere:
		return "sphere"
	case GeometryMesh:
		return "mesh"
	default:
		return fmt.Sprintf("GeometryKind(%d)", int(k))
	}
}

// Geometry describes a shape. Only the fields relevant to Kind are meaningful.
type Geometry struct {
	Kind     GeometryKind
	Size     [3]float64 // box
	Radius   float64    // cylinder, sphere
	Length   float64    // cylinder
	Filename string     // mesh
	Scale    [3]float64 // mesh
}

// DefaultColor is the RGBA used when a material gives none.
var DefaultColor = [4]float64{0.8, 0.8, 0.8, 1.0}

// Material is a named color with an optional texture.
type Material struct {
	Name    string
	Color   [4]float64
	Texture string
}

// Visual is a renderable shape attached to a link.
type Visual struct {
	Name     string
	Origin   Origin
	Geometry Geometry
	Material Material
}

// Collision is a collision shape attached to a link.
type Collision struct {
	Name     string
	Origin   Origin
	Geometry Geometry
}

// Inertial holds mass properties. Parsed but unused by kinematics.
type Inertial struct {
	Origin                       Origin
	Mass                         float64
	Ixx, Ixy, Ixz, Iyy, Iyz, Izz float64
}

// LinkID indexes Model.Links.
type LinkID int

// JointID indexes Model.Joints.
type JointID int

const (
	NoLink  LinkID  = -1
	NoJoint JointID = -1
)

// Link is a rigid body.
type Link struct {
	ID         LinkID
	Name       string
	Inertial   Inertial
	Visuals    []Visual
	Collisions []Collision
}

// JointType identifies how a joint moves.
type JointType int

const (
	JointUnknown JointType = iota
	JointFixed
	JointRevolute
	JointContinuous
	JointPrismatic
	JointFloating
	JointPlanar
)

// ParseJointType maps a URDF type attribute to a JointType.
// Unrecognized names yield JointUnknown.
func ParseJointType(s string) JointType {
	switch s {
	case "fixed":
		return JointFixed
	case "revolute":
		return JointRevolute
	case "continuous":
		return JointContinuous
	case "prismatic":
		return JointPrismatic
	case "floating":
		return JointFloating
	case "planar":
		return JointPlanar
	default:
		return JointUnknown
	}
}

// String returns the URDF name of the joint type.
func (t JointType) String() string {
	switch t {
	case JointUnknown:
		return "unknown"
	case JointFixed:
		return "fixed"
	case JointRevolute:
		return "revolute"
	case JointContinuous:
		return "continuous"
	case JointPrismatic:
		return "prismatic"
	case JointFloating:
		return "floating"
	case JointPlanar:
		return "planar"
	default:
		return fmt.Sprintf("JointType(%d)", int(t))
	}
}

// Movable reports whether the joint has a settable value.
func (t JointType) Movable() bool {
	switch t {
	case JointRevolute, JointContinuous, JointPrismatic:
		return true
	default:
		return false
	}
}

// Limits bounds a joint's motion.
type Limits struct {
	Lower, Upper     float64
	Effort, Velocity float64
}

// Dynamics holds joint friction parameters.
type Dynamics struct {
	Damping, Friction float64
}

// Joint connects a parent link to a child link.
type Joint struct {
	ID       JointID
	Name     string
	Type     JointType
	Origin   Origin
	Parent   string
	Child    string
	Axis     [3]float64
	Limits   Limits
	Dynamics Dynamics

	// Value is the current position: radians for rotary joints, meters for prismatic.
	Value float64
}

// DefaultAxis is used when a joint has no valid axis.
var DefaultAxis = [3]float64{1, 0, 0}
