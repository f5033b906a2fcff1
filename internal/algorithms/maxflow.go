// Package algorithms implements the four pure graph kernels dispatched by
// internal/registry: maximum s-t flow, strongly connected components,
// minimum spanning tree weight, and k-clique count.
package algorithms

import (
	"fmt"

	"graphflow/internal/domain/graph"
)

// MaxFlow computes the maximum flow from src to sink by Edmonds-Karp:
// repeated BFS augmenting paths over residual capacity until none remain.
// It operates on a cloned capacity matrix, never mutating g.
func MaxFlow(g *graph.Graph, src, sink int) (int64, error) {
	v := g.Vertices()
	if src < 0 || src >= v {
		return 0, fmt.Errorf("source %d out of range [0, %d)", src, v)
	}
	if sink < 0 || sink >= v {
		return 0, fmt.Errorf("sink %d out of range [0, %d)", sink, v)
	}
	if src == sink {
		return 0, fmt.Errorf("source equals sink (%d)", src)
	}

	residual := cloneMatrix(g.CapacityMatrix())

	var total int64
	for {
		parent, found := bfsAugmentingPath(residual, v, src, sink)
		if !found {
			break
		}

		bottleneck := bottleneckAlong(residual, parent, src, sink)
		augment(residual, parent, src, sink, bottleneck)
		total += bottleneck
	}

	return total, nil
}

func cloneMatrix(m [][]int64) [][]int64 {
	out := make([][]int64, len(m))
	for i := range m {
		out[i] = append([]int64(nil), m[i]...)
	}
	return out
}

// bfsAugmentingPath runs a deterministic BFS over residual capacity,
// returning the parent array of the first path found from src to sink.
func bfsAugmentingPath(residual [][]int64, v, src, sink int) ([]int, bool) {
	parent := make([]int, v)
	for i := range parent {
		parent[i] = -1
	}
	visited := make([]bool, v)
	visited[src] = true

	queue := []int{src}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]

		if u == sink {
			return parent, true
		}

		for next := 0; next < v; next++ {
			if !visited[next] && residual[u][next] > 0 {
				visited[next] = true
				parent[next] = u
				queue = append(queue, next)
			}
		}
	}

	return parent, visited[sink]
}

func bottleneckAlong(residual [][]int64, parent []int, src, sink int) int64 {
	bottleneck := int64(-1)
	for v := sink; v != src; v = parent[v] {
		u := parent[v]
		if bottleneck == -1 || residual[u][v] < bottleneck {
			bottleneck = residual[u][v]
		}
	}
	return bottleneck
}

func augment(residual [][]int64, parent []int, src, sink int, amount int64) {
	for v := sink; v != src; v = parent[v] {
		u := parent[v]
		residual[u][v] -= amount
		residual[v][u] += amount
	}
}
