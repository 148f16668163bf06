package main

import (
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hollow-graph/bmssp/graph"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGenerateGraph_Deterministic(t *testing.T) {
	g1 := generateGraph(100, 300, 7, 10)
	g2 := generateGraph(100, 300, 7, 10)

	for v := graph.Vertex(0); v < 100; v++ {
		require.Equal(t, g1.OutEdges(v), g2.OutEdges(v))
	}
}

func TestSolver_Run_FindsShortestDistances(t *testing.T) {
	g := graph.New(5)
	require.NoError(t, g.AddEdge(0, 1, 1))
	require.NoError(t, g.AddEdge(1, 2, 1))
	require.NoError(t, g.AddEdge(2, 3, 1))
	require.NoError(t, g.AddEdge(0, 3, 10))
	require.NoError(t, g.AddEdge(3, 4, 1))

	s := newSolver(g, quietLogger())
	dist := s.run(0)

	assert.Equal(t, 0.0, dist[0])
	assert.Equal(t, 1.0, dist[1])
	assert.Equal(t, 2.0, dist[2])
	assert.Equal(t, 3.0, dist[3])
	assert.Equal(t, 4.0, dist[4])
}

func TestSolver_Run_UnreachableVertexStaysUnset(t *testing.T) {
	g := graph.New(3)
	require.NoError(t, g.AddEdge(0, 1, 1))
	// vertex 2 has no incoming edge from the source component.

	s := newSolver(g, quietLogger())
	dist := s.run(0)

	_, known := dist[2]
	assert.False(t, known)
	assert.Less(t, dist[1], math.Inf(1))
}
