package algorithms

import (
	"fmt"

	"graphflow/internal/domain/graph"
)

// CliqueCount counts the unordered k-vertex subsets of an undirected graph
// that form a clique, by extending partial cliques in increasing vertex
// order: a candidate v extends the current clique only if v is greater than
// every current member and adjacent to all of them.
func CliqueCount(g *graph.Graph, k int) (int, error) {
	v := g.Vertices()
	if k < 2 || k > v {
		return 0, fmt.Errorf("k=%d out of range [2, %d]", k, v)
	}

	count := 0
	current := make([]int, 0, k)

	var extend func(start int)
	extend = func(start int) {
		if len(current) == k {
			count++
			return
		}
		for candidate := start; candidate < v; candidate++ {
			if adjacentToAll(g, candidate, current) {
				current = append(current, candidate)
				extend(candidate + 1)
				current = current[:len(current)-1]
			}
		}
	}

	extend(0)
	return count, nil
}

func adjacentToAll(g *graph.Graph, candidate int, clique []int) bool {
	for _, member := range clique {
		if !g.HasEdge(candidate, member) {
			return false
		}
	}
	return true
}
