// Command bmsspdemo composes the graph, basecase, findpivots, and
// blockstructure packages into a full recursive BMSSP computation, runs it
// against a synthetic random graph, and reports the result. This driver,
// its flags, its logging, and its graph generator are all outside the CORE
// contract; they exist to exercise the CORE end to end.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"os"
	"time"

	"github.com/hollow-graph/bmssp/graph"
)

func main() {
	vertices := flag.Int("vertices", 2000, "number of vertices in the synthetic graph")
	edgeFactor := flag.Int("edge-factor", 4, "edges generated = vertices * edge-factor")
	seed := flag.Int64("seed", 42, "PRNG seed for synthetic graph generation")
	maxWeight := flag.Float64("max-weight", 50.0, "maximum edge weight (uniform in [1, max-weight])")
	source := flag.Int("source", 0, "source vertex")
	constantDegree := flag.Bool("constant-degree", false, "preprocess the graph into constant out-degree form before solving")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	logger := newLogger(*logLevel)

	g := generateGraph(*vertices, *vertices**edgeFactor, *seed, *maxWeight)
	logger.Info("generated synthetic graph", "vertices", *vertices, "edges", *vertices**edgeFactor)

	src := graph.Vertex(*source)
	workGraph := g
	var transform *graph.TransformedGraph
	if *constantDegree {
		transform = g.ToConstantDegree()
		workGraph = transform.G
		src = transform.OriginalTo[*source]
		logger.Info("rebuilt graph with constant out-degree", "new_vertices", workGraph.N())
	}

	start := time.Now()
	solver := newSolver(workGraph, logger)
	dist := solver.run(src)
	elapsed := time.Since(start)

	if transform != nil {
		dist = transform.MapDistances(dist)
	}

	reachable := 0
	for _, d := range dist {
		if d < math.Inf(1) {
			reachable++
		}
	}

	logger.Info("bmssp complete",
		"elapsed", elapsed,
		"reachable", reachable,
		"total_vertices", *vertices,
	)
	fmt.Printf("solved %d vertices (%d reachable from %d) in %s\n", *vertices, reachable, *source, elapsed)
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	return slog.New(h)
}

// generateGraph builds a random directed graph with n vertices and roughly
// edges edges, weights uniform in [1, maxWeight]. Deterministic given seed.
func generateGraph(n, edges int, seed int64, maxWeight float64) *graph.Graph {
	rng := rand.New(rand.NewSource(seed))
	g := graph.New(n, graph.WithCapacityHint(edges/n+1))
	for i := 0; i < edges; i++ {
		u := graph.Vertex(rng.Intn(n))
		v := graph.Vertex(rng.Intn(n))
		if u == v {
			v = graph.Vertex((int(v) + 1) % n)
		}
		w := graph.Weight(rng.Float64()*(maxWeight-1) + 1)
		_ = g.AddEdge(u, v, w)
	}
	return g
}
