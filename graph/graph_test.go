package graph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hollow-graph/bmssp/graph"
)

func TestAddEdge_RejectsNegativeWeight(t *testing.T) {
	g := graph.New(3)
	err := g.AddEdge(0, 1, -1)
	require.Error(t, err)
	assert.ErrorIs(t, err, graph.ErrNegativeWeight)
}

func TestAddEdge_RejectsOutOfRange(t *testing.T) {
	g := graph.New(2)
	err := g.AddEdge(0, 5, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, graph.ErrVertexOutOfRange)
}

func TestOutEdges_Triangle(t *testing.T) {
	g := graph.New(3)
	require.NoError(t, g.AddEdge(0, 1, 1))
	require.NoError(t, g.AddEdge(0, 2, 5))
	require.NoError(t, g.AddEdge(1, 2, 1))

	edges := g.OutEdges(0)
	assert.Len(t, edges, 2)

	assert.Empty(t, g.OutEdges(2))
}

func TestWithDeterministicOrder(t *testing.T) {
	g := graph.New(4, graph.WithDeterministicOrder())
	require.NoError(t, g.AddEdge(0, 3, 1))
	require.NoError(t, g.AddEdge(0, 1, 1))
	require.NoError(t, g.AddEdge(0, 2, 1))

	edges := g.OutEdges(0)
	require.Len(t, edges, 3)
	assert.Equal(t, graph.Vertex(1), edges[0].To)
	assert.Equal(t, graph.Vertex(2), edges[1].To)
	assert.Equal(t, graph.Vertex(3), edges[2].To)
}

func TestVertexSet(t *testing.T) {
	s := graph.NewVertexSet(1, 2)
	assert.True(t, s.Has(1))
	assert.False(t, s.Has(3))
	assert.Equal(t, 2, s.Len())

	s.Add(3)
	assert.True(t, s.Has(3))

	other := graph.NewVertexSet(4, 5)
	s.Union(other)
	assert.Equal(t, 5, s.Len())
	assert.ElementsMatch(t, []graph.Vertex{1, 2, 3, 4, 5}, s.Slice())
}

func TestToConstantDegree_VertexMappings(t *testing.T) {
	g := graph.New(3)
	require.NoError(t, g.AddEdge(0, 1, 1))
	require.NoError(t, g.AddEdge(0, 2, 5))
	require.NoError(t, g.AddEdge(1, 2, 1))

	tg := g.ToConstantDegree()
	assert.Greater(t, tg.G.N(), 0)
	assert.Len(t, tg.OriginalTo, 3)
	assert.Len(t, tg.NewToOrigin, tg.G.N())
}
