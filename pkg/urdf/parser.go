package urdf

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/urdf-viewer/internal/logger"
)

// element is a parsed XML node. Only element children are kept.
type element struct {
	name     string
	attrs    map[string]string
	children []*element
	line     int
	column   int
}

func (e *element) attr(name string) string {
	return e.attrs[name]
}

func (e *element) child(name string) *element {
	for _, c := range e.children {
		if c.name == name {
			return c
		}
	}
	return nil
}

func (e *element) firstChild() *element {
	if len(e.children) == 0 {
		return nil
	}
	return e.children[0]
}

// ParseFile reads and parses a robot description. Mesh paths resolve
// relative to the file's directory.
func ParseFile(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Kind: ErrIO, Msg: "read " + path, Err: err}
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return Parse(data, filepath.Dir(abs))
}

// Parse builds a model from a robot description document.
func Parse(data []byte, baseDir string) (*Model, error) {
	root, err := readTree(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if root.name != "robot" {
		return nil, &Error{Kind: ErrSchema, Line: root.line, Column: root.column,
			Msg: fmt.Sprintf("root element is <%s>, want <robot>", root.name)}
	}

	p := &parser{model: NewModel(root.attr("name"))}
	p.model.BaseDir = baseDir

	materials := p.parseMaterials(root)
	for _, c := range root.children {
		switch c.name {
		case "link":
			if err := p.parseLink(c, materials); err != nil {
				return nil, err
			}
		case "joint":
			p.parseJoint(c)
		}
	}
	topo := p.model.Finalize()

	m := p.model
	m.Warnings = append(m.Warnings, p.warnings...)
	log := logger.L("urdf")
	for _, w := range m.Warnings {
		if w.Kind == WarnUnsupportedExpression {
			log.Debug("expression left unexpanded", zap.String("expr", w.Subject))
			continue
		}
		log.Warn(w.Msg, zap.Stringer("kind", w.Kind), zap.String("subject", w.Subject))
	}
	log.Debug("robot description parsed",
		zap.String("robot", m.Name),
		zap.Int("links", len(m.Links)),
		zap.Int("joints", len(m.Joints)),
		zap.String("root", m.RootName()),
		zap.Bool("tree", topo.Tree()))
	return m, nil
}

// readTree decodes the whole document, failing on any well-formedness error.
func readTree(r io.Reader) (*element, error) {
	d := xml.NewDecoder(r)
	var (
		root  *element
		stack []*element
	)
	for {
		line, col := d.InputPos()
		tok, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			line, col = d.InputPos()
			var se *xml.SyntaxError
			if errors.As(err, &se) {
				line = se.Line
			}
			return nil, &Error{Kind: ErrXMLSyntax, Line: line, Column: col, Msg: "document is not well-formed", Err: err}
		}

		switch t := tok.(type) {
		case xml.StartElement:
			e := &element{
				name:   t.Name.Local,
				attrs:  make(map[string]string, len(t.Attr)),
				line:   line,
				column: col,
			}
			for _, a := range t.Attr {
				e.attrs[a.Name.Local] = a.Value
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, &Error{Kind: ErrXMLSyntax, Line: line, Column: col, Msg: "multiple root elements"}
				}
				root = e
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, e)
			}
			stack = append(stack, e)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) == 0 && len(bytes.TrimSpace(t)) > 0 {
				return nil, &Error{Kind: ErrXMLSyntax, Line: line, Column: col, Msg: "text outside the root element"}
			}
		}
	}
	if root == nil {
		line, col := d.InputPos()
		return nil, &Error{Kind: ErrXMLSyntax, Line: line, Column: col, Msg: "document has no root element"}
	}
	return root, nil
}

type parser struct {
	model    *Model
	warnings []Warning
}

// parseMaterials collects the top-level material table.
func (p *parser) parseMaterials(root *element) map[string]Material {
	materials := make(map[string]Material)
	for _, c := range root.children {
		if c.name == "material" {
			mat := parseMaterial(c)
			materials[mat.Name] = mat
		}
	}
	return materials
}

func (p *parser) parseLink(e *element, materials map[string]Material) error {
	name := e.attr("name")
	if name == "" {
		return &Error{Kind: ErrSchema, Line: e.line, Column: e.column, Msg: "link without a name"}
	}
	link := Link{Name: name}
	for _, c := range e.children {
		switch c.name {
		case "visual":
			link.Visuals = append(link.Visuals, p.parseVisual(c, materials))
		case "collision":
			col := Collision{Name: c.attr("name"), Geometry: Geometry{Scale: [3]float64{1, 1, 1}}}
			if o := c.child("origin"); o != nil {
				col.Origin = p.parseOrigin(o)
			}
			if g := c.child("geometry"); g != nil {
				col.Geometry = parseGeometry(g)
			}
			link.Collisions = append(link.Collisions, col)
		case "inertial":
			link.Inertial = p.parseInertial(c)
		}
	}
	p.model.AddLink(link)
	return nil
}

func (p *parser) parseVisual(e *element, materials map[string]Material) Visual {
	v := Visual{
		Name:     e.attr("name"),
		Geometry: Geometry{Scale: [3]float64{1, 1, 1}},
		Material: Material{Color: DefaultColor},
	}
	if o := e.child("origin"); o != nil {
		v.Origin = p.parseOrigin(o)
	}
	if g := e.child("geometry"); g != nil {
		v.Geometry = parseGeometry(g)
	}
	if m := e.child("material"); m != nil {
		v.Material = parseMaterial(m)
		if global, ok := materials[v.Material.Name]; ok && v.Material.Color == DefaultColor {
			v.Material.Color = global.Color
			if v.Material.Texture == "" {
				v.Material.Texture = global.Texture
			}
		}
	}
	return v
}

func (p *parser) parseInertial(e *element) Inertial {
	var in Inertial
	if o := e.child("origin"); o != nil {
		in.Origin = p.parseOrigin(o)
	}
	if m := e.child("mass"); m != nil {
		in.Mass = parseFloat(m.attr("value"))
	}
	if i := e.child("inertia"); i != nil {
		in.Ixx = parseFloat(i.attr("ixx"))
		in.Ixy = parseFloat(i.attr("ixy"))
		in.Ixz = parseFloat(i.attr("ixz"))
		in.Iyy = parseFloat(i.attr("iyy"))
		in.Iyz = parseFloat(i.attr("iyz"))
		in.Izz = parseFloat(i.attr("izz"))
	}
	return in
}

func (p *parser) parseJoint(e *element) {
	j := Joint{
		Name: e.attr("name"),
		Type: ParseJointType(e.attr("type")),
		Axis: DefaultAxis,
	}
	for _, c := range e.children {
		switch c.name {
		case "origin":
			j.Origin = p.parseOrigin(c)
		case "parent":
			j.Parent = c.attr("link")
		case "child":
			j.Child = c.attr("link")
		case "axis":
			if axis, ok := parseTriple(c.attr("xyz")); ok {
				j.Axis = axis
			}
		case "limit":
			j.Limits = Limits{
				Lower:    parseFloat(c.attr("lower")),
				Upper:    parseFloat(c.attr("upper")),
				Effort:   parseFloat(c.attr("effort")),
				Velocity: parseFloat(c.attr("velocity")),
			}
		case "dynamics":
			j.Dynamics = Dynamics{
				Damping:  parseFloat(c.attr("damping")),
				Friction: parseFloat(c.attr("friction")),
			}
		}
	}
	p.model.AddJoint(j)
}

// parseOrigin expands macros in xyz and rpy. Values without exactly three
// components are treated as zero.
func (p *parser) parseOrigin(e *element) Origin {
	var o Origin
	if s := e.attr("xyz"); s != "" {
		o.XYZ, _ = parseTriple(p.expand(s))
	}
	if s := e.attr("rpy"); s != "" {
		o.RPY, _ = parseTriple(p.expand(s))
	}
	return o
}

func (p *parser) expand(s string) string {
	out, unresolved := expandMacros(s)
	for _, expr := range unresolved {
		p.warnings = append(p.warnings, Warning{Kind: WarnUnsupportedExpression, Subject: expr, Msg: "expression left unexpanded"})
	}
	return out
}

func parseGeometry(e *element) Geometry {
	g := Geometry{Scale: [3]float64{1, 1, 1}}
	shape := e.firstChild()
	if shape == nil {
		return g
	}
	switch shape.name {
	case "box":
		g.Kind = GeometryBox
		g.Size, _ = parseTriple(shape.attr("size"))
	case "cylinder":
		g.Kind = GeometryCylinder
		g.Radius = parseFloat(shape.attr("radius"))
		g.Length = parseFloat(shape.attr("length"))
	case "sphere":
		g.Kind = GeometrySphere
		g.Radius = parseFloat(shape.attr("radius"))
	case "mesh":
		g.Kind = GeometryMesh
		g.Filename = shape.attr("filename")
		fields := strings.Fields(shape.attr("scale"))
		switch len(fields) {
		case 3:
			g.Scale = [3]float64{parseFloat(fields[0]), parseFloat(fields[1]), parseFloat(fields[2])}
		case 1:
			s := parseFloat(fields[0])
			g.Scale = [3]float64{s, s, s}
		}
	}
	return g
}

func parseMaterial(e *element) Material {
	mat := Material{Name: e.attr("name"), Color: DefaultColor}
	if c := e.child("color"); c != nil {
		fields := strings.Fields(c.attr("rgba"))
		if len(fields) == 4 {
			for i, f := range fields {
				mat.Color[i] = parseFloat(f)
			}
		}
	}
	if t := e.child("texture"); t != nil {
		mat.Texture = t.attr("filename")
	}
	return mat
}

// parseTriple parses "a b c". ok is false unless all three parse.
// Components that fail to parse are zero.
func parseTriple(s string) (out [3]float64, ok bool) {
	fields := strings.Fields(s)
	if len(fields) != 3 {
		return out, false
	}
	ok = true
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			ok = false
			continue
		}
		out[i] = v
	}
	return out, ok
}

// parseFloat is lenient: malformed or missing numbers read as zero.
func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}
