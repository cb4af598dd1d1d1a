package kinematics

import (
	"fmt"
	gomath "math"

	"go.uber.org/zap"

	"github.com/Faultbox/urdf-viewer/internal/logger"
	"github.com/Faultbox/urdf-viewer/pkg/math"
	"github.com/Faultbox/urdf-viewer/pkg/urdf"
)

// JointListener is called after a joint value actually changes.
type JointListener func(joint string, value float64)

// Robot is a model placed in the scene: a uniform scale plus an optional
// Z-up to Y-up rotation applied on top of the kinematic chain.
// Robot is not safe for concurrent use.
type Robot struct {
	Model *urdf.Model

	scale     float64
	zUp       bool
	listeners []JointListener
}

// NewRobot wraps m with unit scale and no axis correction.
func NewRobot(m *urdf.Model) *Robot {
	return &Robot{Model: m, scale: 1}
}

// SetScale sets the uniform scale. Non-positive values are ignored.
func (r *Robot) SetScale(s float64) {
	if s > 0 {
		r.scale = s
	}
}

// Scale returns the uniform scale.
func (r *Robot) Scale() float64 { return r.scale }

// SetZUp enables the -90 degree rotation about X used for Z-up descriptions.
func (r *Robot) SetZUp(enabled bool) { r.zUp = enabled }

// ZUp reports whether the Z-up rotation is applied.
func (r *Robot) ZUp() bool { return r.zUp }

// AutoScale fits the model to targetSize and returns the chosen scale.
func (r *Robot) AutoScale(targetSize float64) float64 {
	r.scale = FitScale(BoundingBox(r.Model), targetSize)
	return r.scale
}

// Correction maps model coordinates to scene coordinates.
func (r *Robot) Correction() math.Mat4 {
	m := math.Scale(r.scale, r.scale, r.scale)
	if r.zUp {
		m = math.RotateX(-gomath.Pi / 2).Mul(m)
	}
	return m
}

// OnJointChanged registers fn for joint value changes.
func (r *Robot) OnJointChanged(fn JointListener) {
	r.listeners = append(r.listeners, fn)
}

// SetJointValue sets a joint by name. It reports whether the stored value
// changed; unknown joints return an error.
func (r *Robot) SetJointValue(name string, value float64) (bool, error) {
	j := r.Model.Joint(name)
	if j == nil {
		return false, fmt.Errorf("unknown joint %q", name)
	}
	if !SetJointValue(j, value) {
		return false, nil
	}
	for _, fn := range r.listeners {
		fn(j.Name, j.Value)
	}
	return true, nil
}

// SetJointValues applies every entry of values. Unknown joints are logged
// and skipped. It returns the number of joints that changed.
func (r *Robot) SetJointValues(values map[string]float64) int {
	changed := 0
	for name, v := range values {
		ok, err := r.SetJointValue(name, v)
		if err != nil {
			logger.L("kinematics").Debug("skipping joint value", zap.String("joint", name), zap.Error(err))
			continue
		}
		if ok {
			changed++
		}
	}
	return changed
}

// JointValue returns the stored value of a joint, or 0 if unknown.
func (r *Robot) JointValue(name string) float64 {
	if j := r.Model.Joint(name); j != nil {
		return j.Value
	}
	return 0
}

// JointValues returns the values of all movable joints.
func (r *Robot) JointValues() map[string]float64 {
	out := make(map[string]float64)
	for _, j := range r.Model.MovableJoints() {
		out[j.Name] = j.Value
	}
	return out
}

// ResetJoints drives every joint toward zero, within its limits.
func (r *Robot) ResetJoints() {
	for i := range r.Model.Joints {
		j := &r.Model.Joints[i]
		if SetJointValue(j, 0) {
			for _, fn := range r.listeners {
				fn(j.Name, j.Value)
			}
		}
	}
}

// LinkWorldTransform returns the scene transform of link including the correction.
func (r *Robot) LinkWorldTransform(link string) math.Mat4 {
	return r.Correction().Mul(LinkWorldTransform(r.Model, link))
}

// EndEffectorPosition returns the scene position of link. An empty name
// selects the detected end effector.
func (r *Robot) EndEffectorPosition(link string) math.Vec3 {
	if link == "" {
		link = DetectEndEffector(r.Model)
		if link == "" {
			return math.Vec3{}
		}
	}
	return EndEffectorPosition(r.Model, link, r.Correction())
}

// Bounds returns the bounding box in scene coordinates.
func (r *Robot) Bounds() Bounds {
	return BoundingBox(r.Model).Transform(r.Correction())
}
