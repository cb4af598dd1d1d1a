package kinematics

import (
	gomath "math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/urdf-viewer/pkg/math"
	"github.com/Faultbox/urdf-viewer/pkg/urdf"
)

const eps = 1e-9

// arm builds base -> upper (revolute about Z) -> fore (prismatic along X) -> tool (fixed).
func arm(t *testing.T) *urdf.Model {
	t.Helper()
	m := urdf.NewModel("arm")
	for _, n := range []string{"base", "upper", "fore", "tool"} {
		m.AddLink(urdf.Link{Name: n})
	}
	m.AddJoint(urdf.Joint{
		Name: "shoulder", Type: urdf.JointRevolute, Parent: "base", Child: "upper",
		Origin: urdf.Origin{XYZ: [3]float64{0, 0, 1}},
		Axis:   [3]float64{0, 0, 2},
		Limits: urdf.Limits{Lower: -1, Upper: 1},
	})
	m.AddJoint(urdf.Joint{
		Name: "slide", Type: urdf.JointPrismatic, Parent: "upper", Child: "fore",
		Origin: urdf.Origin{XYZ: [3]float64{1, 0, 0}, RPY: [3]float64{0, 0, gomath.Pi / 2}},
		Axis:   [3]float64{1, 0, 0},
		Limits: urdf.Limits{Lower: 0, Upper: 0.5},
	})
	m.AddJoint(urdf.Joint{
		Name: "flange", Type: urdf.JointFixed, Parent: "fore", Child: "tool",
		Origin: urdf.Origin{XYZ: [3]float64{0, 0, 0.1}},
		Axis:   urdf.DefaultAxis,
	})
	m.Finalize()
	require.Empty(t, m.Warnings)
	return m
}

func TestJointTransformFixedIsIdentity(t *testing.T) {
	j := &urdf.Joint{Type: urdf.JointFixed, Axis: [3]float64{0, 1, 0}}
	for _, v := range []float64{0, 1, -3.5, 1e6} {
		assert.True(t, JointTransform(j, v).ApproxEqual(math.Identity(), eps), "value %v", v)
	}
	for _, jt := range []urdf.JointType{urdf.JointFloating, urdf.JointPlanar, urdf.JointUnknown} {
		j := &urdf.Joint{Type: jt, Axis: urdf.DefaultAxis}
		assert.True(t, JointTransform(j, 2).ApproxEqual(math.Identity(), eps), jt.String())
	}
}

func TestJointTransformRevolute(t *testing.T) {
	j := &urdf.Joint{Type: urdf.JointRevolute, Axis: [3]float64{0, 0, 5}}
	m := JointTransform(j, gomath.Pi/2)

	assert.True(t, m.ApproxEqual(math.RotateZ(gomath.Pi/2), eps))
	p := m.TransformPoint(math.Vec3{X: 1})
	assert.True(t, p.ApproxEqual(math.Vec3{Y: 1}, eps), "got %v", p)
	assert.True(t, m.Translation().ApproxEqual(math.Vec3{}, eps), "pure rotation")

	// Rotation preserves lengths about an arbitrary axis.
	j.Axis = [3]float64{1, 1, 1}
	q := JointTransform(j, 0.7).TransformPoint(math.Vec3{X: 3, Y: -1, Z: 2})
	assert.InDelta(t, math.Vec3{X: 3, Y: -1, Z: 2}.Length(), q.Length(), eps)
}

func TestJointTransformPrismatic(t *testing.T) {
	j := &urdf.Joint{Type: urdf.JointPrismatic, Axis: [3]float64{0, 3, 4}}
	m := JointTransform(j, 2)

	assert.True(t, m.Translation().ApproxEqual(math.Vec3{Y: 1.2, Z: 1.6}, eps))
	d := m.TransformDirection(math.Vec3{X: 1, Y: 2, Z: 3})
	assert.True(t, d.ApproxEqual(math.Vec3{X: 1, Y: 2, Z: 3}, eps), "pure translation")
}

func TestJointTransformZeroAxis(t *testing.T) {
	j := &urdf.Joint{Type: urdf.JointRevolute}
	assert.True(t, JointTransform(j, 1).ApproxEqual(math.Identity(), eps))
}

func TestSetJointValue(t *testing.T) {
	tests := []struct {
		name    string
		jt      urdf.JointType
		lower   float64
		upper   float64
		value   float64
		want    float64
		changed bool
	}{
		{"revolute within", urdf.JointRevolute, -1, 1, 0.5, 0.5, true},
		{"revolute above", urdf.JointRevolute, -1, 1, 2, 1, true},
		{"revolute below", urdf.JointRevolute, -1, 1, -7, -1, true},
		{"prismatic above", urdf.JointPrismatic, 0, 0.2, 0.3, 0.2, true},
		{"prismatic below", urdf.JointPrismatic, 0.1, 0.2, -1, 0.1, true},
		{"continuous unclamped", urdf.JointContinuous, -1, 1, 10, 10, true},
		{"continuous negative", urdf.JointContinuous, 0, 0, -42, -42, true},
		{"fixed stored", urdf.JointFixed, 0, 0, 3, 3, true},
		{"unchanged", urdf.JointRevolute, -1, 1, 0, 0, false},
		{"clamped to stored", urdf.JointRevolute, 0, 0, 5, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j := &urdf.Joint{Type: tt.jt, Limits: urdf.Limits{Lower: tt.lower, Upper: tt.upper}}
			changed := SetJointValue(j, tt.value)
			assert.Equal(t, tt.changed, changed)
			assert.Equal(t, tt.want, j.Value)
		})
	}
}

func TestSetJointValueFuzzyNoop(t *testing.T) {
	j := &urdf.Joint{Type: urdf.JointContinuous, Value: 1}
	assert.False(t, SetJointValue(j, 1+1e-15))
	assert.Equal(t, 1.0, j.Value)
	assert.True(t, SetJointValue(j, 1.001))
}

func TestSetJointValueNonFinite(t *testing.T) {
	for _, jt := range []urdf.JointType{urdf.JointRevolute, urdf.JointPrismatic, urdf.JointContinuous} {
		for _, v := range []float64{gomath.NaN(), gomath.Inf(1), gomath.Inf(-1)} {
			j := &urdf.Joint{Type: jt, Axis: urdf.DefaultAxis, Limits: urdf.Limits{Lower: -1, Upper: 1}, Value: 0.5}
			assert.False(t, SetJointValue(j, v), "%s %v", jt, v)
			assert.Equal(t, 0.5, j.Value, "%s %v", jt, v)
			assert.False(t, gomath.IsNaN(JointTransform(j, j.Value)[5]), "%s %v", jt, v)
		}
	}
}

func TestLinkWorldTransformChain(t *testing.T) {
	m := arm(t)
	shoulder, slide := m.Joint("shoulder"), m.Joint("slide")
	require.True(t, SetJointValue(shoulder, 0.4))
	require.True(t, SetJointValue(slide, 0.25))

	want := shoulder.Origin.Matrix().Mul(JointTransform(shoulder, 0.4)).
		Mul(slide.Origin.Matrix().Mul(JointTransform(slide, 0.25)))
	got := LinkWorldTransform(m, "fore")
	assert.True(t, got.ApproxEqual(want, eps))

	assert.True(t, LinkWorldTransform(m, "base").ApproxEqual(math.Identity(), eps))
	assert.True(t, LinkWorldTransform(m, "nope").ApproxEqual(math.Identity(), eps))
}

func TestLinkWorldTransformPositions(t *testing.T) {
	m := arm(t)
	// Zero pose: shoulder at z=1, slide offset 1 along X, tool 0.1 above.
	assert.True(t, LinkWorldTransform(m, "tool").Translation().ApproxEqual(math.Vec3{X: 1, Z: 1.1}, eps))

	SetJointValue(m.Joint("shoulder"), gomath.Pi/2) // clamped to 1
	assert.Equal(t, 1.0, m.Joint("shoulder").Value)

	SetJointValue(m.Joint("shoulder"), 0)
	SetJointValue(m.Joint("slide"), 0.5)
	// The slide frame is yawed 90 degrees, so +X of the joint is world +Y.
	p := LinkWorldTransform(m, "tool").Translation()
	assert.True(t, p.ApproxEqual(math.Vec3{X: 1, Y: 0.5, Z: 1.1}, eps), "got %v", p)
}

func TestLinkWorldTransformCycleTerminates(t *testing.T) {
	m := urdf.NewModel("loop")
	m.AddLink(urdf.Link{Name: "a"})
	m.AddLink(urdf.Link{Name: "b"})
	m.AddLink(urdf.Link{Name: "c"})
	off := urdf.Origin{XYZ: [3]float64{1, 0, 0}}
	m.AddJoint(urdf.Joint{Name: "cb", Type: urdf.JointFixed, Parent: "c", Child: "b", Origin: off})
	m.AddJoint(urdf.Joint{Name: "bc", Type: urdf.JointFixed, Parent: "b", Child: "c", Origin: off})
	m.AddJoint(urdf.Joint{Name: "ab", Type: urdf.JointFixed, Parent: "a", Child: "b", Origin: off})
	m.Finalize()

	// b and c are each other's first parent; the walk must stop anyway.
	assert.Equal(t, "a", m.RootName())
	p := LinkWorldTransform(m, "c").Translation()
	assert.InDelta(t, 2.0, p.X, eps)
}

func TestEndEffector(t *testing.T) {
	m := arm(t)
	assert.Equal(t, "tool", DetectEndEffector(m))
	assert.Equal(t, []string{"tool"}, Leaves(m))

	pos := EndEffectorPosition(m, "tool", math.Scale(2, 2, 2))
	assert.True(t, pos.ApproxEqual(math.Vec3{X: 2, Z: 2.2}, eps))

	empty := urdf.NewModel("empty")
	empty.Finalize()
	assert.Equal(t, "", DetectEndEffector(empty))

	single := urdf.NewModel("single")
	single.AddLink(urdf.Link{Name: "only"})
	single.Finalize()
	assert.Equal(t, "", DetectEndEffector(single), "root is never an end effector")
}

func TestLinkGeometryCenter(t *testing.T) {
	m := urdf.NewModel("g")
	m.AddLink(urdf.Link{Name: "cyl", Visuals: []urdf.Visual{{
		Origin:   urdf.Origin{XYZ: [3]float64{1, 0, 0}},
		Geometry: urdf.Geometry{Kind: urdf.GeometryCylinder, Radius: 0.1, Length: 0.4},
	}}})
	m.AddLink(urdf.Link{Name: "pair", Visuals: []urdf.Visual{
		{Origin: urdf.Origin{XYZ: [3]float64{0, 0, 0}}},
		{Origin: urdf.Origin{XYZ: [3]float64{2, 4, 0}}},
	}})
	m.Finalize()

	assert.True(t, LinkGeometryCenter(m, "cyl").ApproxEqual(math.Vec3{X: 1, Z: 0.2}, eps))
	assert.True(t, LinkGeometryCenter(m, "pair").ApproxEqual(math.Vec3{X: 1, Y: 2}, eps))
	assert.Equal(t, math.Vec3{}, LinkGeometryCenter(m, "missing"))
}

// A two-link arm with one revolute joint limited to [-1, 1].
func TestRevoluteClampEndToEnd(t *testing.T) {
	m := urdf.NewModel("two")
	m.AddLink(urdf.Link{Name: "base"})
	m.AddLink(urdf.Link{Name: "link"})
	m.AddJoint(urdf.Joint{
		Name: "j", Type: urdf.JointRevolute, Parent: "base", Child: "link",
		Axis: [3]float64{0, 0, 1}, Limits: urdf.Limits{Lower: -1, Upper: 1},
	})
	m.Finalize()

	j := m.Joint("j")
	require.True(t, SetJointValue(j, 2.0))
	assert.Equal(t, 1.0, j.Value)
	assert.True(t, LocalTransform(j).ApproxEqual(math.RotateZ(1.0), eps))
	assert.True(t, LinkWorldTransform(m, "link").ApproxEqual(math.RotateZ(1.0), eps))
}
