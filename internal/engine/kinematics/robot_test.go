package kinematics

import (
	gomath "math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/urdf-viewer/pkg/math"
)

func TestRobotSetJointValueNotifies(t *testing.T) {
	r := NewRobot(arm(t))

	type change struct {
		joint string
		value float64
	}
	var got []change
	r.OnJointChanged(func(joint string, value float64) {
		got = append(got, change{joint, value})
	})

	changed, err := r.SetJointValue("shoulder", 3)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = r.SetJointValue("shoulder", 1)
	require.NoError(t, err)
	assert.False(t, changed, "same clamped value")

	_, err = r.SetJointValue("ghost", 1)
	assert.Error(t, err)

	assert.Equal(t, []change{{"shoulder", 1}}, got)
}

func TestRobotJointValues(t *testing.T) {
	r := NewRobot(arm(t))
	n := r.SetJointValues(map[string]float64{"shoulder": -0.5, "slide": 0.2, "flange": 9, "ghost": 1})
	assert.Equal(t, 3, n)

	assert.Equal(t, map[string]float64{"shoulder": -0.5, "slide": 0.2}, r.JointValues())
	assert.Equal(t, 0.2, r.JointValue("slide"))
	assert.Equal(t, 0.0, r.JointValue("ghost"))

	var resets int
	r.OnJointChanged(func(string, float64) { resets++ })
	r.ResetJoints()
	assert.Equal(t, 3, resets)
	assert.Equal(t, map[string]float64{"shoulder": 0, "slide": 0}, r.JointValues())
	assert.Equal(t, 0.0, r.Model.Joint("flange").Value)
}

func TestRobotCorrection(t *testing.T) {
	r := NewRobot(arm(t))
	assert.True(t, r.Correction().ApproxEqual(math.Identity(), eps))

	r.SetScale(2)
	r.SetScale(-1)
	assert.Equal(t, 2.0, r.Scale())

	r.SetZUp(true)
	assert.True(t, r.ZUp())
	// Model +Z becomes scene +Y.
	p := r.Correction().TransformPoint(math.Vec3{Z: 1})
	assert.True(t, p.ApproxEqual(math.Vec3{Y: 2}, eps), "got %v", p)

	tool := r.EndEffectorPosition("")
	assert.True(t, tool.ApproxEqual(math.Vec3{X: 2, Y: 2.2}, eps), "got %v", tool)
	assert.True(t, r.LinkWorldTransform("tool").Translation().ApproxEqual(tool, eps))
}

func TestRobotAutoScale(t *testing.T) {
	r := NewRobot(arm(t))
	s := r.AutoScale(DefaultTargetSize)
	assert.InDelta(t, DefaultTargetSize, BoundingBox(r.Model).Size()*s, eps)
	assert.InDelta(t, DefaultTargetSize, r.Bounds().Size(), 1e-6)
	assert.False(t, gomath.IsNaN(s))
}
