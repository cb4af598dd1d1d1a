package debug

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/urdf-viewer/internal/engine/kinematics"
	"github.com/Faultbox/urdf-viewer/internal/engine/trajectory"
	"github.com/Faultbox/urdf-viewer/pkg/math"
	"github.com/Faultbox/urdf-viewer/pkg/urdf"
)

func TestBBoxWireframe(t *testing.T) {
	v := GenerateBBoxWireframe(kinematics.DefaultBounds, 0.5)
	require.Len(t, v, BBoxWireframeVertexCount*3)
	// First edge runs along X on the bottom face.
	assert.Equal(t, []float32{-1, -1, -1, 1, -1, -1}, v[:6])
}

func TestGenerateGridLines(t *testing.T) {
	v := GenerateGridLines(1.05, 0.5)
	// Two cells each side: 5 lines per direction, 2 vertices each.
	require.Len(t, v, 20)
	for _, p := range v {
		assert.Equal(t, float32(GroundGridOffset), p.Y)
		assert.LessOrEqual(t, p.X, float32(1))
	}
	assert.Nil(t, GenerateGridLines(1, 0))
}

func TestGenerateJointAxes(t *testing.T) {
	m := urdf.NewModel("axes")
	m.AddLink(urdf.Link{Name: "a"})
	m.AddLink(urdf.Link{Name: "b"})
	m.AddJoint(urdf.Joint{Name: "j", Type: urdf.JointFixed, Parent: "a", Child: "b", Origin: urdf.Origin{XYZ: [3]float64{0, 0, 1}}})
	m.Finalize()

	v := GenerateJointAxes(kinematics.NewRobot(m), 0)
	require.Len(t, v, 6)
	assert.Equal(t, LineVertex{0, 0, 1, 1, 0, 0}, v[0])
	assert.InDelta(t, AxisLength, float64(v[1].X), 1e-6)
	assert.Equal(t, float32(1), v[5].B)
	assert.InDelta(t, 1+AxisLength, float64(v[5].Z), 1e-6)
}

func trail(t *testing.T) *trajectory.Tracker {
	t.Helper()
	tr := trajectory.NewTracker(time.Second, 50*time.Millisecond)
	tr.Add(trajectory.EndEffector{Link: "tool", Name: "Tool", Enabled: true})
	tr.Add(trajectory.EndEffector{Link: "idle", Enabled: true})
	for i := 0; i < 5; i++ {
		at := time.Duration(i) * 50 * time.Millisecond
		tr.Track("tool").Buffer.Add(math.Vec3{X: float64(i), Y: float64(i * i), Z: 1}, at)
	}
	return tr
}

func TestGenerateTrailStrip(t *testing.T) {
	tr := trail(t)
	strip := GenerateTrailStrip(tr.Track("tool").Buffer, 200*time.Millisecond)
	require.Len(t, strip, 5)
	assert.Equal(t, LineVertex{4, 16, 1, 1, 1, 0}, strip[4])
	assert.Nil(t, GenerateTrailStrip(tr.Track("idle").Buffer, 0))
}

func TestTrailPlotSave(t *testing.T) {
	tr := trail(t)
	path := filepath.Join(t.TempDir(), "plots", "trail.png")

	tp := NewTrailPlot("tool", PlaneXY)
	require.NoError(t, tp.Save(tr.Tracks(), 200*time.Millisecond, path))

	fi, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, fi.Size(), int64(0))
}

func TestParsePlane(t *testing.T) {
	for s, want := range map[string]Plane{"xy": PlaneXY, "xz": PlaneXZ, "yz": PlaneYZ} {
		got, err := ParsePlane(s)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParsePlane("zz")
	assert.Error(t, err)

	x, y := PlaneYZ.project(math.Vec3{X: 1, Y: 2, Z: 3})
	assert.Equal(t, 2.0, x)
	assert.Equal(t, 3.0, y)
}

func TestBuildOverlay(t *testing.T) {
	m := urdf.NewModel("overlay")
	m.AddLink(urdf.Link{Name: "a"})
	m.AddLink(urdf.Link{Name: "b"})
	m.AddJoint(urdf.Joint{Name: "j", Type: urdf.JointRevolute, Parent: "a", Child: "b",
		Axis: urdf.DefaultAxis, Limits: urdf.Limits{Lower: -1, Upper: 1}})
	m.Finalize()
	r := kinematics.NewRobot(m)

	o := BuildOverlay(r, nil, 0)
	assert.Len(t, o.BBox, BBoxWireframeVertexCount*3)
	assert.Len(t, o.Axes, 6)
	assert.NotEmpty(t, o.Grid)
	assert.Empty(t, o.Trails)
	assert.Equal(t, BBoxWireframeVertexCount+6+len(o.Grid), o.VertexCount())

	tr := trail(t)
	o = BuildOverlay(r, tr, 200*time.Millisecond)
	require.Len(t, o.Trails, 1, "idle trail has no points")
	assert.Len(t, o.Trails[0], 5)
	assert.Equal(t, BBoxWireframeVertexCount+6+len(o.Grid)+5, o.VertexCount())
}
