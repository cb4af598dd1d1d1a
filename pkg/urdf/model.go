package urdf

import (
	"path/filepath"
	"strconv"
	"strings"
)

// Model is an arena of links and joints in document order.
// Names index into the arena; relations between links go through joints.
type Model struct {
	Name     string
	Links    []Link
	Joints   []Joint
	Root     LinkID
	BaseDir  string
	Warnings []Warning

	pending     []Warning // raised while adding, kept across Finalize calls
	linkByName  map[string]LinkID
	jointByName map[string]JointID
	parentJoint []JointID   // per link
	childJoints [][]JointID // per link, document order
}

// NewModel returns an empty model.
func NewModel(name string) *Model {
	return &Model{
		Name:        name,
		Root:        NoLink,
		linkByName:  make(map[string]LinkID),
		jointByName: make(map[string]JointID),
	}
}

// AddLink appends l, or replaces the content of an existing link with the
// same name in place. Call Finalize after the last mutation.
func (m *Model) AddLink(l Link) LinkID {
	if id, ok := m.linkByName[l.Name]; ok {
		l.ID = id
		m.Links[id] = l
		m.pending = append(m.pending, Warning{WarnDuplicateName, l.Name, "duplicate link replaces earlier definition"})
		return id
	}
	l.ID = LinkID(len(m.Links))
	m.Links = append(m.Links, l)
	m.linkByName[l.Name] = l.ID
	return l.ID
}

// AddJoint appends j, or replaces an existing joint with the same name in place.
// Call Finalize after the last mutation.
func (m *Model) AddJoint(j Joint) JointID {
	if id, ok := m.jointByName[j.Name]; ok {
		j.ID = id
		m.Joints[id] = j
		m.pending = append(m.pending, Warning{WarnDuplicateName, j.Name, "duplicate joint replaces earlier definition"})
		return id
	}
	j.ID = JointID(len(m.Joints))
	m.Joints = append(m.Joints, j)
	m.jointByName[j.Name] = j.ID
	return j.ID
}

// Finalize rebuilds adjacency, infers the root link and records dangling
// references. It returns the topology report for the finished model.
func (m *Model) Finalize() Topology {
	m.Warnings = append([]Warning(nil), m.pending...)
	m.parentJoint = make([]JointID, len(m.Links))
	for i := range m.parentJoint {
		m.parentJoint[i] = NoJoint
	}
	m.childJoints = make([][]JointID, len(m.Links))

	for i := range m.Joints {
		j := &m.Joints[i]
		if _, ok := m.linkByName[j.Parent]; !ok {
			m.warn(WarnDanglingReference, j.Name, "parent link "+strconv.Quote(j.Parent)+" does not exist")
		} else {
			pid := m.linkByName[j.Parent]
			m.childJoints[pid] = append(m.childJoints[pid], j.ID)
		}
		cid, ok := m.linkByName[j.Child]
		if !ok {
			m.warn(WarnDanglingReference, j.Name, "child link "+strconv.Quote(j.Child)+" does not exist")
			continue
		}
		if m.parentJoint[cid] == NoJoint {
			m.parentJoint[cid] = j.ID
		}
	}

	m.Root = m.inferRoot()
	topo := m.Topology()
	m.Warnings = append(m.Warnings, topo.Warnings()...)
	return topo
}

func (m *Model) inferRoot() LinkID {
	if len(m.Links) == 0 {
		return NoLink
	}
	for i := range m.Links {
		if m.parentJoint[i] == NoJoint {
			return LinkID(i)
		}
	}
	m.warn(WarnRootFallback, m.Links[0].Name, "every link is a joint child; using the first link as root")
	return 0
}

func (m *Model) warn(kind WarningKind, subject, msg string) {
	m.Warnings = append(m.Warnings, Warning{Kind: kind, Subject: subject, Msg: msg})
}

// Link returns the named link, or nil.
func (m *Model) Link(name string) *Link {
	id, ok := m.linkByName[name]
	if !ok {
		return nil
	}
	return &m.Links[id]
}

// Joint returns the named joint, or nil.
func (m *Model) Joint(name string) *Joint {
	id, ok := m.jointByName[name]
	if !ok {
		return nil
	}
	return &m.Joints[id]
}

// LinkID returns the ID of the named link, or NoLink.
func (m *Model) LinkID(name string) LinkID {
	if id, ok := m.linkByName[name]; ok {
		return id
	}
	return NoLink
}

// RootLink returns the root link, or nil for an empty model.
func (m *Model) RootLink() *Link {
	if m.Root == NoLink {
		return nil
	}
	return &m.Links[m.Root]
}

// RootName returns the root link name, or "" for an empty model.
func (m *Model) RootName() string {
	if l := m.RootLink(); l != nil {
		return l.Name
	}
	return ""
}

// MovableJoints returns revolute, continuous and prismatic joints in document order.
func (m *Model) MovableJoints() []*Joint {
	var out []*Joint
	for i := range m.Joints {
		if m.Joints[i].Type.Movable() {
			out = append(out, &m.Joints[i])
		}
	}
	return out
}

// ChildJoints returns the joints whose parent is the named link.
func (m *Model) ChildJoints(link string) []*Joint {
	id, ok := m.linkByName[link]
	if !ok || int(id) >= len(m.childJoints) {
		return nil
	}
	out := make([]*Joint, 0, len(m.childJoints[id]))
	for _, jid := range m.childJoints[id] {
		out = append(out, &m.Joints[jid])
	}
	return out
}

// ParentJoint returns the joint whose child is the named link.
// It returns nil for the root and for unknown links.
func (m *Model) ParentJoint(link string) *Joint {
	id, ok := m.linkByName[link]
	if !ok || id == m.Root || int(id) >= len(m.parentJoint) {
		return nil
	}
	if jid := m.parentJoint[id]; jid != NoJoint {
		return &m.Joints[jid]
	}
	return nil
}

// Walk visits links reachable from the root in depth-first pre-order,
// following child joints in document order. Each link is visited once.
// Returning false from fn stops the walk.
func (m *Model) Walk(fn func(l *Link, via *Joint) bool) {
	if m.Root == NoLink {
		return
	}
	type frame struct {
		link LinkID
		via  JointID
	}
	visited := make([]bool, len(m.Links))
	stack := []frame{{link: m.Root, via: NoJoint}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[f.link] {
			continue
		}
		visited[f.link] = true

		var via *Joint
		if f.via != NoJoint {
			via = &m.Joints[f.via]
		}
		if !fn(&m.Links[f.link], via) {
			return
		}

		children := m.childJoints[f.link]
		for i := len(children) - 1; i >= 0; i-- {
			j := &m.Joints[children[i]]
			if cid, ok := m.linkByName[j.Child]; ok && !visited[cid] {
				stack = append(stack, frame{link: cid, via: j.ID})
			}
		}
	}
}

// ResolveMeshPath maps a mesh filename to <BaseDir>/meshes/<base name>.
// Package and file:// prefixes and any directories are discarded.
func (m *Model) ResolveMeshPath(filename string) string {
	name := strings.TrimPrefix(filename, "file://")
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	return filepath.Clean(filepath.Join(m.BaseDir, "meshes", name))
}
