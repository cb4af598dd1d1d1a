package debug

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/Faultbox/urdf-viewer/internal/engine/trajectory"
	"github.com/Faultbox/urdf-viewer/pkg/math"
)

// Plane selects the two coordinates a trail plot projects onto.
type Plane int

const (
	PlaneXY Plane = iota
	PlaneXZ
	PlaneYZ
)

// ParsePlane maps "xy", "xz" or "yz" to a Plane.
func ParsePlane(s string) (Plane, error) {
	switch s {
	case "xy":
		return PlaneXY, nil
	case "xz":
		return PlaneXZ, nil
	case "yz":
		return PlaneYZ, nil
	default:
		return 0, fmt.Errorf("unknown plane %q (want xy, xz or yz)", s)
	}
}

func (p Plane) project(v math.Vec3) (float64, float64) {
	switch p {
	case PlaneXZ:
		return v.X, v.Z
	case PlaneYZ:
		return v.Y, v.Z
	default:
		return v.X, v.Y
	}
}

func (p Plane) labels() (string, string) {
	switch p {
	case PlaneXZ:
		return "x", "z"
	case PlaneYZ:
		return "y", "z"
	default:
		return "x", "y"
	}
}

// TrailPlot renders end-effector trails to image files.
type TrailPlot struct {
	Title string
	Plane Plane
	Size  vg.Length
}

// NewTrailPlot creates a plot with a square default size.
func NewTrailPlot(title string, plane Plane) *TrailPlot {
	return &TrailPlot{Title: title, Plane: plane, Size: 6 * vg.Inch}
}

// Build assembles the plot for every track that has a drawable trail at now.
func (tp *TrailPlot) Build(tracks []*trajectory.Track, now time.Duration) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = tp.Title
	xl, yl := tp.Plane.labels()
	p.X.Label.Text = xl
	p.Y.Label.Text = yl
	p.Add(plotter.NewGrid())

	for _, tr := range tracks {
		pts := tr.Buffer.Positions(now)
		if len(pts) < 2 {
			continue
		}
		xys := make(plotter.XYs, len(pts))
		for i, v := range pts {
			xys[i].X, xys[i].Y = tp.Plane.project(v)
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return nil, fmt.Errorf("trail %s: %w", tr.Link, err)
		}
		line.LineStyle.Color = tr.Buffer.Color
		line.LineStyle.Width = vg.Points(1.5)
		p.Add(line)
		p.Legend.Add(tr.Name, line)
	}
	return p, nil
}

// Save writes the plot to path. The format follows the file extension
// (.png, .svg, .pdf, ...).
func (tp *TrailPlot) Save(tracks []*trajectory.Track, now time.Duration, path string) error {
	p, err := tp.Build(tracks, now)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output dir: %w", err)
		}
	}
	if err := p.Save(tp.Size, tp.Size, path); err != nil {
		return fmt.Errorf("saving plot: %w", err)
	}
	return nil
}
