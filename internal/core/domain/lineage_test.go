package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func edge(src, dst string) ProvenanceEdge {
	return ProvenanceEdge{SourceID: src, TargetID: dst, Relationship: RelationshipDerivedFrom}
}

func TestLineageGraph_Acyclic(t *testing.T) {
	g := NewLineageGraph(edge("raw", "clean"), edge("clean", "train"), edge("clean", "test"))

	assert.NoError(t, g.CheckAcyclic())
	assert.Len(t, g.Edges(), 3)
}

func TestLineageGraph_Cycle(t *testing.T) {
	g := NewLineageGraph(edge("a", "b"), edge("b", "c"))
	g.Add(edge("c", "a"))

	err := g.CheckAcyclic()
	assert.ErrorIs(t, err, ErrCycle)

	var cycleErr *CycleError
	assert.ErrorAs(t, err, &cycleErr)
	assert.Equal(t, "a", cycleErr.Node)
}

func TestLineageGraph_SelfLoop(t *testing.T) {
	g := NewLineageGraph(edge("a", "a"))
	assert.ErrorIs(t, g.CheckAcyclic(), ErrCycle)
}

func TestLineageGraph_Empty(t *testing.T) {
	assert.NoError(t, NewLineageGraph().CheckAcyclic())
}
