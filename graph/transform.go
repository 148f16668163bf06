package graph

import "fmt"

// TransformedGraph holds a constant-out-degree graph together with the
// mapping needed to translate distances back to the original vertex space.
type TransformedGraph struct {
	G           *Graph
	OriginalTo  []Vertex // original vertex -> start node of its cycle in G
	NewToOrigin []Vertex // new vertex -> original vertex
}

// ToConstantDegree rebuilds g as an equivalent graph in which every vertex
// has bounded in/out degree, by substituting each original vertex with a
// zero-weight cycle of auxiliary nodes (one per incident edge). This is the
// degree-bounding preprocessing step used ahead of the original BMSSP
// construction; it is not part of the CORE contract (graph construction is
// out of scope for BaseCase/FindPivots/BlockStructure) and exists purely to
// support the demo driver's end-to-end benchmark.
func (g *Graph) ToConstantDegree() *TransformedGraph {
	n := g.N()
	inDegree := make([]int, n)
	for u := 0; u < n; u++ {
		for _, e := range g.adj[u] {
			inDegree[e.To]++
		}
	}

	starts := make([]Vertex, n)
	sizes := make([]int, n)
	currentID := 0
	for u := 0; u < n; u++ {
		starts[u] = Vertex(currentID)
		sz := len(g.adj[u]) + inDegree[u]
		if sz == 0 {
			sz = 1
		}
		sizes[u] = sz
		currentID += sz
	}

	newG := New(currentID)
	newToOrigin := make([]Vertex, currentID)

	for u := 0; u < n; u++ {
		start := int(starts[u])
		sz := sizes[u]
		for i := 0; i < sz; i++ {
			curr := Vertex(start + i)
			next := Vertex(start + (i+1)%sz)
			if err := newG.AddEdge(curr, next, 0); err != nil {
				panic(fmt.Errorf("graph: internal cycle edge %d->%d: %w", curr, next, err))
			}
			newToOrigin[curr] = Vertex(u)
		}
	}

	slots := make([]int, n)
	for u := 0; u < n; u++ {
		for _, e := range g.adj[u] {
			v := int(e.To)

			uSlot := slots[u]
			slots[u]++
			uNode := Vertex(int(starts[u]) + uSlot)

			vSlot := slots[v]
			slots[v]++
			vNode := Vertex(int(starts[v]) + vSlot)

			if err := newG.AddEdge(uNode, vNode, e.Weight); err != nil {
				panic(fmt.Errorf("graph: transformed edge %d->%d: %w", uNode, vNode, err))
			}
		}
	}

	return &TransformedGraph{
		G:           newG,
		OriginalTo:  starts,
		NewToOrigin: newToOrigin,
	}
}

// MapDistances projects per-vertex distances in the transformed graph back
// onto the original vertex space: the distance to original vertex i is the
// distance to the start node of its cycle (internal cycle edges are zero
// weight, so this is exact). An original vertex whose start node has no
// entry in dist gets no entry in the result either.
func (tg *TransformedGraph) MapDistances(dist map[Vertex]float64) map[Vertex]float64 {
	res := make(map[Vertex]float64, len(tg.OriginalTo))
	for orig, start := range tg.OriginalTo {
		if d, ok := dist[start]; ok {
			res[Vertex(orig)] = d
		}
	}
	return res
}
