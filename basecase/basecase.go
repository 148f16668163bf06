// Package basecase implements the bounded, single-source, heap-driven
// relaxation used when the BMSSP recursion bottoms out (spec §4.1,
// "Algorithm 2" in the original construction).
package basecase

import (
	"container/heap"
	"math"

	"github.com/hollow-graph/bmssp/graph"
)

// DistanceMap is the shared tentative-distance map `bd`. Run mutates it in
// place; callers own the map and must serialize access across concurrent
// BMSSP calls themselves (this package assumes single-threaded use).
type DistanceMap map[graph.Vertex]float64

// Infinity is the initial tentative distance for every non-source vertex.
var Infinity = math.Inf(1)

// PreconditionViolation is the typed panic value used when Run is called
// with a source set whose cardinality is not 1 (spec §7: "implementation
// must assert" — BaseCase requires |S| = 1).
type PreconditionViolation struct {
	Reason string
}

func (e PreconditionViolation) Error() string { return "basecase: " + e.Reason }

// Run is base_case(B, S, graph, k) -> (B', U) from spec §4.1.
//
// S must be a singleton {x} where x is already complete: bd[x] must equal
// the true shortest-path distance from the originating sources. Calling Run
// with len(S) != 1 is a precondition violation and panics with a
// PreconditionViolation, per spec §7 ("implementation must assert").
//
// Run performs a bounded Dijkstra rooted at x, relaxing edges only when the
// new distance is strictly less than both the current bd[v] and B, and
// stops once k+1 vertices have been finalized (or the heap empties).
//
// Returns a new boundary B' <= B and the set U of vertices whose distance
// was established below B'.
func Run(g *graph.Graph, bd DistanceMap, s graph.VertexSet, B float64, k int) (bPrime float64, u graph.VertexSet) {
	if len(s) != 1 {
		panic(PreconditionViolation{Reason: "S must be a singleton {x}"})
	}
	var x graph.Vertex
	for v := range s {
		x = v
	}
	if _, ok := bd[x]; !ok {
		bd[x] = 0
	}

	finalized := make(map[graph.Vertex]struct{})
	h := &vertexHeap{}
	heap.Init(h)
	heap.Push(h, heapItem{vertex: x, dist: bd[x]})

	limit := k + 1
	for h.Len() > 0 && len(finalized) < limit {
		item := heap.Pop(h).(heapItem)
		v := item.vertex

		if _, done := finalized[v]; done {
			continue
		}
		// Stale entry: a better distance was already recorded for v.
		if item.dist > bd[v] {
			continue
		}

		finalized[v] = struct{}{}

		for _, e := range g.OutEdges(v) {
			newDist := bd[v] + float64(e.Weight)
			cur, known := bd[e.To]
			if !known {
				cur = Infinity
			}
			if newDist < cur && newDist < B {
				bd[e.To] = newDist
				heap.Push(h, heapItem{vertex: e.To, dist: newDist})
			}
		}
	}

	if len(finalized) <= k {
		u0 := graph.NewVertexSet()
		for v := range finalized {
			u0.Add(v)
		}
		return B, u0
	}

	bPrime = 0
	for v := range finalized {
		if bd[v] > bPrime {
			bPrime = bd[v]
		}
	}

	u = graph.NewVertexSet()
	for v := range finalized {
		if bd[v] < bPrime {
			u.Add(v)
		}
	}
	return bPrime, u
}

type heapItem struct {
	vertex graph.Vertex
	dist   float64
}

// vertexHeap is a lazy-decrease-key min-heap: stale entries are skipped on
// pop rather than removed eagerly (grounded in the same pattern used by
// katalvlaran-lvlath/dijkstra and phr3nzy-duan-sssp/sssp).
type vertexHeap []heapItem

func (h vertexHeap) Len() int            { return len(h) }
func (h vertexHeap) Less(i, j int) bool  { return h[i].dist < h[j].dist }
func (h vertexHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *vertexHeap) Push(x interface{}) { *h = append(*h, x.(heapItem)) }
func (h *vertexHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
