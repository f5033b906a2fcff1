package algorithms

import (
	"sort"

	"graphflow/internal/domain/graph"
)

type mstEdge struct {
	u, v int
	w    int64
}

// MSTWeight computes the minimum spanning tree weight of an undirected
// graph by Kruskal's algorithm: edges sorted ascending by weight, accepted
// via union-find iff they join two distinct components. On a disconnected
// graph this returns the minimum spanning *forest* weight (see DESIGN.md,
// "Open Question decisions"), not an error.
func MSTWeight(g *graph.Graph) (int64, error) {
	edges := collectUndirectedEdges(g)
	sort.Slice(edges, func(i, j int) bool { return edges[i].w < edges[j].w })

	uf := newUnionFind(g.Vertices())

	var total int64
	for _, e := range edges {
		if uf.union(e.u, e.v) {
			total += e.w
		}
	}

	return total, nil
}

// collectUndirectedEdges returns each undirected edge exactly once (u < v).
func collectUndirectedEdges(g *graph.Graph) []mstEdge {
	matrix := g.CapacityMatrix()
	v := g.Vertices()

	var edges []mstEdge
	for u := 0; u < v; u++ {
		for w := u + 1; w < v; w++ {
			if matrix[u][w] > 0 {
				edges = append(edges, mstEdge{u: u, v: w, w: matrix[u][w]})
			}
		}
	}
	return edges
}

type unionFind struct {
	parent []int
	rank   []int
}

func newUnionFind(n int) *unionFind {
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	return &unionFind{parent: parent, rank: make([]int, n)}
}

func (uf *unionFind) find(x int) int {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}
	return x
}

// union merges the components containing a and b, returning true if they
// were distinct (i.e. the edge was accepted).
func (uf *unionFind) union(a, b int) bool {
	ra, rb := uf.find(a), uf.find(b)
	if ra == rb {
		return false
	}
	if uf.rank[ra] < uf.rank[rb] {
		ra, rb = rb, ra
	}
	uf.parent[rb] = ra
	if uf.rank[ra] == uf.rank[rb] {
		uf.rank[ra]++
	}
	return true
}
