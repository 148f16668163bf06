package main

import (
	"log/slog"
	"math"

	"github.com/hollow-graph/bmssp/basecase"
	"github.com/hollow-graph/bmssp/blockstructure"
	"github.com/hollow-graph/bmssp/findpivots"
	"github.com/hollow-graph/bmssp/graph"
)

// solver drives the full recursive BMSSP over a fixed graph, holding the
// single shared distance map that basecase and findpivots mutate in place.
// This composition (Algorithm 3 of the original construction) is outside
// the CORE contract; FindPivots, BaseCase, and the block structure only
// know about the bounded sub-calls they are given.
type solver struct {
	g      *graph.Graph
	dist   map[graph.Vertex]float64
	k      int
	t      int
	logger *slog.Logger
}

func newSolver(g *graph.Graph, logger *slog.Logger) *solver {
	n := float64(g.N())
	logN := math.Log(n)

	k := int(math.Floor(math.Pow(logN, 1.0/3.0)))
	if k < 2 {
		k = 2
	}
	t := int(math.Floor(math.Pow(logN, 2.0/3.0)))
	if t < 2 {
		t = 2
	}

	dist := make(map[graph.Vertex]float64, g.N())
	return &solver{g: g, dist: dist, k: k, t: t, logger: logger}
}

func (s *solver) run(source graph.Vertex) map[graph.Vertex]float64 {
	s.dist[source] = 0

	n := float64(s.g.N())
	l := int(math.Ceil(math.Log(n) / float64(s.t)))
	if l < 0 {
		l = 0
	}

	s.logger.Debug("starting bmssp", "levels", l, "k", s.k, "t", s.t)
	s.bmssp(l, math.Inf(1), graph.NewVertexSet(source))
	return s.dist
}

// bmssp is Algorithm 3: a recursive bounded multi-source shortest path
// call. At level 0 it delegates straight to basecase.Run (which requires a
// singleton source, matching the recursion's invariant that level-0 calls
// only ever receive a single pivot). At higher levels it uses FindPivots to
// shrink the frontier to a small pivot set, then repeatedly pulls batches
// from a block structure sized for this level and recurses one level down.
func (s *solver) bmssp(l int, b float64, sourceSet graph.VertexSet) (bPrime float64, u graph.VertexSet) {
	if l == 0 {
		return basecase.Run(s.g, basecase.DistanceMap(s.dist), sourceSet, b, s.k)
	}

	pred := findpivots.PredecessorMap{}
	pivots, working := findpivots.Run(s.g, findpivots.DistanceMap(s.dist), pred, sourceSet, b, s.k)

	if pivots.Len() == 0 {
		return s.finalize(b, working, graph.NewVertexSet())
	}

	m := int(math.Pow(2, float64((l-1)*s.t)))
	if m < 1 {
		m = 1
	}
	d := blockstructure.New(m, blockstructure.Value(b))
	for _, x := range pivots.Slice() {
		d.Insert(blockstructure.Key(x), blockstructure.Value(s.dist[x]))
	}

	limit := s.k * int(math.Pow(2, float64(l*s.t)))
	result := graph.NewVertexSet()

	for result.Len() < limit {
		keys, bi := d.Pull()
		if len(keys) == 0 {
			break
		}
		si := graph.NewVertexSet()
		for _, k := range keys {
			si.Add(graph.Vertex(k))
		}

		biPrime, ui := s.bmssp(l-1, float64(bi), si)
		result.Union(ui)

		var batch []blockstructure.Pair
		for _, v := range ui.Slice() {
			for _, e := range s.g.OutEdges(v) {
				newDist := s.dist[v] + float64(e.Weight)
				old, known := s.dist[e.To]
				if known && newDist > old {
					continue
				}
				s.dist[e.To] = newDist

				if newDist >= float64(bi) && newDist < b {
					d.Insert(blockstructure.Key(e.To), blockstructure.Value(newDist))
				} else if newDist >= biPrime && newDist < float64(bi) {
					batch = append(batch, blockstructure.Pair{Key: blockstructure.Key(e.To), Value: blockstructure.Value(newDist)})
				}
			}
		}
		for _, x := range si.Slice() {
			if dv, ok := s.dist[x]; ok && dv >= biPrime && dv < float64(bi) {
				batch = append(batch, blockstructure.Pair{Key: blockstructure.Key(x), Value: blockstructure.Value(dv)})
			}
		}
		if len(batch) > 0 {
			d.BatchPrepend(batch)
		}

		if result.Len() > limit {
			return s.finalize(biPrime, working, result)
		}
	}

	return s.finalize(b, working, result)
}

// finalize folds any working-set vertex whose distance is still below the
// bound into the result, matching the teacher's finalizeBMSSP filter.
func (s *solver) finalize(b float64, working, u graph.VertexSet) (float64, graph.VertexSet) {
	for _, w := range working.Slice() {
		if dv, ok := s.dist[w]; ok && dv < b {
			u.Add(w)
		}
	}
	return b, u
}
