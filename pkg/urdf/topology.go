package urdf

import (
	"sort"
	"strings"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
	"gonum.org/v1/gonum/graph/traverse"
)

// Topology describes structural defects of the link graph. A well-formed
// tree has every field empty.
type Topology struct {
	Cycles          [][]string // link names per strongly connected cycle
	MultipleParents []string   // links named as child by more than one joint
	Unreachable     []string   // links not reachable from the root
	Order           []string   // parent-before-child order, nil when cyclic
}

// Warnings converts the report into model warnings.
func (t Topology) Warnings() []Warning {
	var out []Warning
	for _, c := range t.Cycles {
		out = append(out, Warning{Kind: WarnCycle, Subject: c[0], Msg: "cycle through " + strings.Join(c, ", ")})
	}
	for _, name := range t.MultipleParents {
		out = append(out, Warning{Kind: WarnMultipleParents, Subject: name, Msg: "link is the child of more than one joint; the first one wins"})
	}
	for _, name := range t.Unreachable {
		out = append(out, Warning{Kind: WarnUnreachable, Subject: name, Msg: "link is not reachable from the root"})
	}
	return out
}

// Tree reports whether the model is a single rooted tree.
func (t Topology) Tree() bool {
	return len(t.Cycles) == 0 && len(t.MultipleParents) == 0 && len(t.Unreachable) == 0
}

// Topology analyses the link graph formed by joints with resolvable ends.
func (m *Model) Topology() Topology {
	var t Topology
	g := m.graph()

	parents := make(map[string]int)
	for i := range m.Joints {
		j := &m.Joints[i]
		if _, ok := m.linkByName[j.Child]; ok {
			parents[j.Child]++
		}
		if j.Parent == j.Child && j.Parent != "" {
			if _, ok := m.linkByName[j.Parent]; ok {
				t.Cycles = append(t.Cycles, []string{j.Parent})
			}
		}
	}
	for i := range m.Links {
		if parents[m.Links[i].Name] > 1 {
			t.MultipleParents = append(t.MultipleParents, m.Links[i].Name)
		}
	}

	sorted, err := topo.SortStabilized(g, byID)
	if err != nil {
		if uo, ok := err.(topo.Unorderable); ok {
			for _, comp := range uo {
				if len(comp) > 1 {
					byID(comp)
					t.Cycles = append(t.Cycles, m.nodeNames(comp))
				}
			}
		}
	} else {
		t.Order = m.nodeNames(sorted)
	}

	if m.Root != NoLink {
		reached := make(map[int64]bool)
		bf := traverse.BreadthFirst{
			Visit: func(n graph.Node) { reached[n.ID()] = true },
		}
		bf.Walk(g, g.Node(int64(m.Root)), nil)
		for i := range m.Links {
			if !reached[int64(i)] {
				t.Unreachable = append(t.Unreachable, m.Links[i].Name)
			}
		}
	}
	return t
}

// graph builds a directed parent->child graph with one node per link.
// Self-joints are left out; simple graphs reject self edges.
func (m *Model) graph() *simple.DirectedGraph {
	g := simple.NewDirectedGraph()
	for i := range m.Links {
		g.AddNode(simple.Node(i))
	}
	for i := range m.Joints {
		j := &m.Joints[i]
		pid, okP := m.linkByName[j.Parent]
		cid, okC := m.linkByName[j.Child]
		if !okP || !okC || pid == cid {
			continue
		}
		g.SetEdge(g.NewEdge(simple.Node(pid), simple.Node(cid)))
	}
	return g
}

func (m *Model) nodeNames(nodes []graph.Node) []string {
	names := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if n != nil {
			names = append(names, m.Links[n.ID()].Name)
		}
	}
	return names
}

// byID keeps sort results and cycle members in document order.
func byID(nodes []graph.Node) {
	sort.Slice(nodes, func(a, b int) bool { return nodes[a].ID() < nodes[b].ID() })
}
