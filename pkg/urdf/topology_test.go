package urdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTopologyTree(t *testing.T) {
	m := chain(4)
	topo := m.Topology()
	assert.True(t, topo.Tree())
	assert.Equal(t, []string{"l0", "l1", "l2", "l3"}, topo.Order)
	assert.Empty(t, topo.Warnings())
}

func TestTopologyDefects(t *testing.T) {
	m := NewModel("bad")
	for _, n := range []string{"base", "a", "b", "c", "island"} {
		m.AddLink(Link{Name: n})
	}
	m.AddJoint(Joint{Name: "base_a", Parent: "base", Child: "a"})
	m.AddJoint(Joint{Name: "a_b", Parent: "a", Child: "b"})
	m.AddJoint(Joint{Name: "b_a", Parent: "b", Child: "a"})
	m.AddJoint(Joint{Name: "base_c", Parent: "base", Child: "c"})
	m.AddJoint(Joint{Name: "b_c", Parent: "b", Child: "c"})
	m.AddJoint(Joint{Name: "self", Parent: "island", Child: "island"})
	m.Finalize()

	topo := m.Topology()
	assert.False(t, topo.Tree())
	assert.Nil(t, topo.Order)
	assert.Contains(t, topo.Cycles, []string{"island"})
	assert.Contains(t, topo.Cycles, []string{"a", "b"})
	assert.Equal(t, []string{"a", "c"}, topo.MultipleParents)
	assert.Equal(t, []string{"island"}, topo.Unreachable)

	kinds := map[WarningKind]int{}
	for _, w := range m.Warnings {
		kinds[w.Kind]++
	}
	assert.Equal(t, 2, kinds[WarnCycle])
	assert.Equal(t, 2, kinds[WarnMultipleParents])
	assert.Equal(t, 1, kinds[WarnUnreachable])
}
