package scene

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/urdf-viewer/internal/engine/kinematics"
	"github.com/Faultbox/urdf-viewer/internal/logger"
	"github.com/Faultbox/urdf-viewer/pkg/math"
	"github.com/Faultbox/urdf-viewer/pkg/urdf"
)

// DrawItem is one visual ready for the renderer.
type DrawItem struct {
	Link      string
	LinkIndex int // Build order, used for palette colors
	Visual    int // Index into the link's visuals
	World     math.Mat4
	Geometry  urdf.Geometry
	Color     [4]float64
	MeshPath  string
	Mesh      *MeshData
}

// Options controls how draw items are produced.
type Options struct {
	Colored bool // Color links from the palette instead of their materials
}

// LoadError records a visual that was skipped because its mesh failed to load.
type LoadError struct {
	Link string
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("link %s: load mesh %s: %v", e.Link, e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Build walks the robot from its root and emits one item per visual.
// A mesh that fails to load skips only that visual; all such failures are
// joined into the returned error and the items remain usable.
// A nil loader skips mesh loading and leaves Mesh nil.
func Build(r *kinematics.Robot, loader MeshLoader, opts Options) ([]DrawItem, error) {
	m := r.Model
	correction := r.Correction()
	log := logger.L("scene")

	var (
		items []DrawItem
		errs  []error
		index int
	)
	m.Walk(func(l *urdf.Link, _ *urdf.Joint) bool {
		linkIndex := index
		index++
		world := correction.Mul(kinematics.LinkWorldTransform(m, l.Name))

		for vi, v := range l.Visuals {
			item := DrawItem{
				Link:      l.Name,
				LinkIndex: linkIndex,
				Visual:    vi,
				World:     world.Mul(v.Origin.Matrix()),
				Geometry:  v.Geometry,
				Color:     v.Material.Color,
			}
			if opts.Colored {
				item.Color = rgbaFloat(LinkColor(linkIndex))
			}

			if v.Geometry.Kind == urdf.GeometryMesh {
				item.MeshPath = m.ResolveMeshPath(v.Geometry.Filename)
				if loader != nil {
					mesh, err := loader.Load(item.MeshPath, math.V3(v.Geometry.Scale))
					if err != nil {
						log.Warn("skipping visual", zap.String("link", l.Name), zap.String("mesh", item.MeshPath), zap.Error(err))
						errs = append(errs, &LoadError{Link: l.Name, Path: item.MeshPath, Err: err})
						continue
					}
					item.Mesh = mesh
				}
			}
			items = append(items, item)
		}
		return true
	})

	log.Debug("scene built", zap.Int("items", len(items)), zap.Int("failures", len(errs)))
	return items, errors.Join(errs...)
}

// Refresh recomputes world matrices of previously built items after joint
// changes, without reloading meshes.
func Refresh(r *kinematics.Robot, items []DrawItem) {
	correction := r.Correction()
	worlds := make(map[string]math.Mat4)
	for i := range items {
		it := &items[i]
		world, ok := worlds[it.Link]
		if !ok {
			world = correction.Mul(kinematics.LinkWorldTransform(r.Model, it.Link))
			worlds[it.Link] = world
		}
		l := r.Model.Link(it.Link)
		if l == nil || it.Visual >= len(l.Visuals) {
			continue
		}
		it.World = world.Mul(l.Visuals[it.Visual].Origin.Matrix())
	}
}
