package algorithms

import "graphflow/internal/domain/graph"

// SCC computes the strongly connected components of a directed graph by
// Kosaraju's algorithm: a first DFS records finish order, the adjacency is
// transposed, and a second DFS over finish order (descending) collects each
// component. Only the component count is required by the wire protocol.
func SCC(g *graph.Graph) (int, error) {
	v := g.Vertices()

	visited := make([]bool, v)
	var finishOrder []int
	for u := 0; u < v; u++ {
		if !visited[u] {
			dfsFillOrder(g, u, visited, &finishOrder)
		}
	}

	transpose := buildTranspose(g)

	visited = make([]bool, v)
	components := 0
	for i := len(finishOrder) - 1; i >= 0; i-- {
		u := finishOrder[i]
		if !visited[u] {
			dfsOnTranspose(transpose, u, visited)
			components++
		}
	}

	return components, nil
}

func dfsFillOrder(g *graph.Graph, start int, visited []bool, order *[]int) {
	visited[start] = true
	// Explicit post-order stack to avoid recursion depth issues on large V.
	type frame struct {
		node    int
		nextIdx int
	}
	frames := []frame{{node: start}}

	for len(frames) > 0 {
		top := &frames[len(frames)-1]
		neighbors, _ := g.Neighbors(top.node)

		advanced := false
		for top.nextIdx < len(neighbors) {
			next := neighbors[top.nextIdx]
			top.nextIdx++
			if !visited[next] {
				visited[next] = true
				frames = append(frames, frame{node: next})
				advanced = true
				break
			}
		}
		if advanced {
			continue
		}

		*order = append(*order, top.node)
		frames = frames[:len(frames)-1]
	}
}

func buildTranspose(g *graph.Graph) [][]int {
	v := g.Vertices()
	transpose := make([][]int, v)
	for u := 0; u < v; u++ {
		neighbors, _ := g.Neighbors(u)
		for _, n := range neighbors {
			transpose[n] = append(transpose[n], u)
		}
	}
	return transpose
}

func dfsOnTranspose(transpose [][]int, start int, visited []bool) {
	stack := []int{start}
	visited[start] = true
	for len(stack) > 0 {
		u := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, n := range transpose[u] {
			if !visited[n] {
				visited[n] = true
				stack = append(stack, n)
			}
		}
	}
}
