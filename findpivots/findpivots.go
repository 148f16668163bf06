// Package findpivots implements the bounded-depth multi-source relaxation
// that identifies pivots whose subtrees in the tight-edge forest are large
// enough to be worth recursing on (spec §4.2, "Algorithm 1" in the original
// construction).
package findpivots

import (
	"math"

	"github.com/hollow-graph/bmssp/graph"
)

// DistanceMap is the shared tentative-distance map `bd`.
type DistanceMap map[graph.Vertex]float64

// PredecessorMap records, for each vertex whose distance Run improved, the
// predecessor chosen. It exists only to break ties when extracting the
// tight-edge forest; it need not reconstruct a canonical shortest-path
// tree (spec §3).
type PredecessorMap map[graph.Vertex]graph.Vertex

const defaultTolerance = 1e-12

// config holds the options configurable via functional options.
type config struct {
	tolerance float64
}

// Option configures Run.
type Option func(*config)

// WithTolerance sets the absolute tolerance used when comparing bd[v] to
// bd[u]+w while building the tight-edge forest (spec §6, §9). Defaults to
// 1e-12.
func WithTolerance(eps float64) Option {
	return func(c *config) {
		c.tolerance = eps
	}
}

// Run is find_pivots(graph, bd, S, B, k) -> (P, W, bd, pred) from spec §4.2.
// bd and pred are mutated in place and are the same map objects passed in
// (logically); Run returns the pivot set P and the working set W it
// populated.
func Run(g *graph.Graph, bd DistanceMap, pred PredecessorMap, s graph.VertexSet, B float64, k int, opts ...Option) (pivots, working graph.VertexSet) {
	cfg := config{tolerance: defaultTolerance}
	for _, opt := range opts {
		opt(&cfg)
	}

	w := graph.NewVertexSet()
	w.Union(s)
	wPrev := graph.NewVertexSet()
	wPrev.Union(s)

	earlyExit := false
	for i := 0; i < k && !earlyExit; i++ {
		wi := graph.NewVertexSet()
		for _, u := range wPrev.Slice() {
			bu, ok := bd[u]
			if !ok {
				bu = math.Inf(1)
			}
			for _, e := range g.OutEdges(u) {
				newd := bu + float64(e.Weight)
				bv, ok := bd[e.To]
				if !ok {
					bv = math.Inf(1)
				}
				// Tie-break deliberately uses <=, not <: a later update
				// with an equal distance may still overwrite pred[v],
				// which is what makes the tight-edge forest deterministic
				// given a fixed edge-iteration order. Do not "optimize"
				// this to <.
				if newd <= bv {
					bd[e.To] = newd
					pred[e.To] = u
					if newd < B {
						wi.Add(e.To)
					}
				}
			}
		}
		w.Union(wi)
		wPrev = wi

		if w.Len() > k*s.Len() {
			earlyExit = true
		}
	}

	if earlyExit {
		p := graph.NewVertexSet()
		p.Union(s)
		return p, w
	}

	return extractPivots(g, bd, s, w, k, cfg.tolerance), w
}

// extractPivots builds the tight-edge forest F over W and returns every
// root (source with zero F-in-degree) whose reachable component has size
// >= k.
func extractPivots(g *graph.Graph, bd DistanceMap, s, w graph.VertexSet, k int, tolerance float64) graph.VertexSet {
	fAdj := make(map[graph.Vertex][]graph.Vertex)
	fIncoming := make(map[graph.Vertex]int)

	for _, u := range w.Slice() {
		bu, ok := bd[u]
		if !ok {
			bu = math.Inf(1)
		}
		for _, e := range g.OutEdges(u) {
			if !w.Has(e.To) {
				continue
			}
			bv, ok := bd[e.To]
			if !ok {
				bv = math.Inf(1)
			}
			if tightEdge(bv, bu+float64(e.Weight), tolerance) {
				fAdj[u] = append(fAdj[u], e.To)
				fIncoming[e.To]++
			}
		}
	}

	var roots []graph.Vertex
	for _, v := range s.Slice() {
		if fIncoming[v] == 0 && w.Has(v) {
			roots = append(roots, v)
		}
	}

	pivots := graph.NewVertexSet()
	visitedGlobal := graph.NewVertexSet()
	for _, r := range roots {
		if visitedGlobal.Has(r) {
			continue
		}
		comp := componentOf(r, fAdj)
		visitedGlobal.Union(comp)
		if comp.Len() >= k {
			pivots.Add(r)
		}
	}

	return pivots
}

// componentOf returns the set of vertices reachable from r by following F,
// via an explicit-stack depth-first traversal (spec §4.2: "traverse F
// depth-first, collecting the connected-component-reachable set comp(r)").
func componentOf(r graph.Vertex, fAdj map[graph.Vertex][]graph.Vertex) graph.VertexSet {
	comp := graph.NewVertexSet()
	stack := []graph.Vertex{r}
	for len(stack) > 0 {
		x := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if comp.Has(x) {
			continue
		}
		comp.Add(x)
		for _, y := range fAdj[x] {
			if !comp.Has(y) {
				stack = append(stack, y)
			}
		}
	}
	return comp
}

func tightEdge(bv, candidate, tolerance float64) bool {
	diff := bv - candidate
	if diff < 0 {
		diff = -diff
	}
	return diff < tolerance
}
