// Package random implements the deterministic pseudo-random simple-graph
// generator: given (V, E, seed, directed, wmin, wmax) it always produces the
// same graph, with no self-loops and no duplicate edges.
package random

import (
	"fmt"
	"math/rand/v2"

	"graphflow/internal/domain/graph"
)

// Generate produces a simple graph with exactly edges distinct edges, each
// weight drawn uniformly from [wmin, wmax], using a PRNG seeded
// deterministically from seed. wmin is clamped to >= 1 and swapped with
// wmax if wmin > wmax, matching the protocol's documented defaults.
func Generate(vertices, edges int, seed int64, directed bool, wmin, wmax int64) (*graph.Graph, error) {
	if wmin > wmax {
		wmin, wmax = wmax, wmin
	}
	if wmin < 1 {
		wmin = 1
	}

	maxEdges := vertices * (vertices - 1)
	if !directed {
		maxEdges /= 2
	}
	if edges > maxEdges {
		return nil, fmt.Errorf("edge count %d exceeds maximum %d simple edges for %d vertices", edges, maxEdges, vertices)
	}
	if edges < 0 {
		return nil, fmt.Errorf("edge count must be non-negative, got %d", edges)
	}

	g, err := graph.New(vertices, directed)
	if err != nil {
		return nil, err
	}
	if edges == 0 {
		return g, nil
	}

	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
	weightSpan := uint64(wmax-wmin) + 1

	type pair struct{ u, v int }
	used := make(map[pair]bool, edges)

	added := 0
	for added < edges {
		u := rng.IntN(vertices)
		v := rng.IntN(vertices)
		if u == v {
			continue
		}

		key := pair{u, v}
		if !directed && u > v {
			key = pair{v, u}
		}
		if used[key] {
			continue
		}

		w := wmin + int64(rng.Uint64N(weightSpan))
		if err := g.AddEdge(u, v, w); err != nil {
			return nil, err
		}
		used[key] = true
		added++
	}

	return g, nil
}
