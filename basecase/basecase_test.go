package basecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hollow-graph/bmssp/basecase"
	"github.com/hollow-graph/bmssp/graph"
)

func triangle(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New(3)
	require.NoError(t, g.AddEdge(0, 1, 1))
	require.NoError(t, g.AddEdge(0, 2, 5))
	require.NoError(t, g.AddEdge(1, 2, 1))
	return g
}

// S1 (BaseCase on triangle): B=10, S={0}, k=2.
//
// Note: on this graph the true shortest distance to 2 is 2 (via 0->1->2,
// weight 1+1), not 5 (the direct 0->2 edge) — spec.md's worked example
// states an expected separator of 5, which is only reachable if the
// 0->1->2 shortcut is not relaxed before 2 is finalized. Both this
// implementation and original_source/Base_Case.py relax every outgoing
// edge of a newly finalized vertex before moving on, so 2 is correctly
// finalized at distance 2. We follow the algorithm's actual mathematics
// (§4.1's edge policy) over the arithmetic in the worked example; see
// DESIGN.md.
func TestRun_S1_ExceedsK(t *testing.T) {
	g := triangle(t)
	bd := basecase.DistanceMap{0: 0}

	bPrime, u := basecase.Run(g, bd, graph.NewVertexSet(0), 10, 2)

	assert.Equal(t, 2.0, bPrime)
	assert.Equal(t, 2, u.Len())
	assert.True(t, u.Has(0))
	assert.True(t, u.Has(1))
	assert.False(t, u.Has(2))
}

// S2 (BaseCase exhausts early): same graph, B=3, k=5.
//
// All three vertices finalize below B=3 (0, 1, and 2 via the 0->1->2
// shortcut at distance 2), so |U0|=3 <= k=5 and Run returns (B, U0) with
// all three vertices — see the note on TestRun_S1_ExceedsK for why this
// differs from spec.md's worked expectation of {0,1}.
func TestRun_S2_ExhaustsEarly(t *testing.T) {
	g := triangle(t)
	bd := basecase.DistanceMap{0: 0}

	bPrime, u := basecase.Run(g, bd, graph.NewVertexSet(0), 3, 5)

	assert.Equal(t, 3.0, bPrime)
	assert.Equal(t, 3, u.Len())
	assert.True(t, u.Has(0))
	assert.True(t, u.Has(1))
	assert.True(t, u.Has(2))
}

func TestRun_PanicsOnNonSingletonSource(t *testing.T) {
	g := triangle(t)
	bd := basecase.DistanceMap{0: 0, 1: 0}

	assert.Panics(t, func() {
		basecase.Run(g, bd, graph.NewVertexSet(0, 1), 10, 2)
	})
}

// Bound respect (property 2): every v in U has bd[v] < B', and B' <= B.
func TestRun_BoundRespect(t *testing.T) {
	g := graph.New(6)
	require.NoError(t, g.AddEdge(0, 1, 1))
	require.NoError(t, g.AddEdge(1, 2, 1))
	require.NoError(t, g.AddEdge(2, 3, 1))
	require.NoError(t, g.AddEdge(3, 4, 1))
	require.NoError(t, g.AddEdge(4, 5, 1))

	bd := basecase.DistanceMap{0: 0}
	bPrime, u := basecase.Run(g, bd, graph.NewVertexSet(0), 100, 2)

	assert.LessOrEqual(t, bPrime, 100.0)
	for _, v := range u.Slice() {
		assert.Less(t, bd[v], bPrime)
	}
}

func TestRun_NeverRelaxesBeyondBound(t *testing.T) {
	g := graph.New(2)
	require.NoError(t, g.AddEdge(0, 1, 10))

	bd := basecase.DistanceMap{0: 0}
	_, _ = basecase.Run(g, bd, graph.NewVertexSet(0), 5, 10)

	_, known := bd[1]
	assert.False(t, known, "vertex beyond the bound should never be relaxed into bd")
}
