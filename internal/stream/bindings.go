package stream

import (
	"fmt"
	gomath "math"

	"go.uber.org/zap"

	"github.com/Faultbox/urdf-viewer/internal/config"
	"github.com/Faultbox/urdf-viewer/internal/logger"
	"github.com/Faultbox/urdf-viewer/pkg/urdf"
)

// Binding maps an external variable path onto a joint.
type Binding struct {
	Joint   string
	Path    string
	Enabled bool
}

// Bindings translates frame values into joint values for one model.
type Bindings struct {
	// Degrees marks incoming rotary values as degrees.
	Degrees bool

	list  []Binding
	model *urdf.Model
}

// NewBindings validates cfg against m. Bindings to unknown joints are
// rejected; disabled or path-less bindings are kept but never match.
func NewBindings(cfg config.StreamConfig, m *urdf.Model) (*Bindings, error) {
	b := &Bindings{Degrees: cfg.Degrees, model: m}
	for i, bc := range cfg.Bindings {
		if m.Joint(bc.Joint) == nil {
			return nil, fmt.Errorf("binding %d: unknown joint %q", i, bc.Joint)
		}
		b.list = append(b.list, Binding{Joint: bc.Joint, Path: bc.Path, Enabled: bc.Enabled})
	}
	return b, nil
}

// List returns a copy of the bindings.
func (b *Bindings) List() []Binding {
	return append([]Binding(nil), b.list...)
}

// Resolve maps frame values to joint values in radians or meters.
// With no bindings, keys are taken as joint names.
func (b *Bindings) Resolve(values map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(values))
	if len(b.list) == 0 {
		for name, v := range values {
			j := b.model.Joint(name)
			if j == nil {
				continue
			}
			if !finite(v) {
				logger.L("stream").Debug("dropping non-finite value", zap.String("joint", name))
				continue
			}
			out[name] = b.convert(j, v)
		}
		return out
	}

	for _, bd := range b.list {
		if !bd.Enabled || bd.Path == "" {
			continue
		}
		v, ok := values[bd.Path]
		if !ok {
			continue
		}
		if !finite(v) {
			logger.L("stream").Debug("dropping non-finite value", zap.String("path", bd.Path))
			continue
		}
		out[bd.Joint] = b.convert(b.model.Joint(bd.Joint), v)
	}
	return out
}

func finite(v float64) bool {
	return !gomath.IsNaN(v) && !gomath.IsInf(v, 0)
}

func (b *Bindings) convert(j *urdf.Joint, v float64) float64 {
	if !b.Degrees {
		return v
	}
	switch j.Type {
	case urdf.JointRevolute, urdf.JointContinuous:
		return v * gomath.Pi / 180
	default:
		return v
	}
}
