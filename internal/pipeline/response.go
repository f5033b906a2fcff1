package pipeline

import (
	"fmt"
	"strconv"
	"strings"

	"graphflow/internal/domain/graph"
)

// renderResponse builds the body the aggregator writes for a completed Job,
// per spec.md §4.7: PREVIEW emits the graph serialization; ALL emits the
// four RESULT lines in fixed order; every SINGLE_* emits the raw adapter
// output for its one algorithm. The aggregator is the only stage that
// serializes a graph, since a PREVIEW Job never visits a mutating kernel
// stage.
func renderResponse(j *Job) string {
	switch j.Kind {
	case KindPreview:
		return serializeGraph(j.Graph)
	case KindAll:
		var b strings.Builder
		b.WriteString("RESULT MAX_FLOW=" + resultValue(j.MaxFlow) + "\n")
		b.WriteString("RESULT SCC_COUNT=" + resultValue(j.SCC) + "\n")
		b.WriteString("RESULT MST_WEIGHT=" + resultValue(j.MST) + "\n")
		b.WriteString("RESULT CLIQUES=" + resultValue(j.Cliques))
		return b.String()
	case KindSingleMaxFlow:
		return j.MaxFlow
	case KindSingleSCC:
		return j.SCC
	case KindSingleMST:
		return j.MST
	case KindSingleCliques:
		return j.Cliques
	default:
		return "Error: unknown job kind"
	}
}

// resultValue strips the "RESULT " prefix an adapter emits, or passes an
// "Error: ..." string through unchanged, so ALL's per-field lines read
// "RESULT MAX_FLOW=<n>" rather than nesting "RESULT" twice.
func resultValue(s string) string {
	const prefix = "RESULT "
	if strings.HasPrefix(s, prefix) {
		return strings.TrimPrefix(s, prefix)
	}
	return s
}

// serializeGraph renders a PREVIEW body: "GRAPH V E" followed by one
// "EDGE u v w" line per edge. For undirected graphs each edge is emitted
// once with u < v, matching the original's serialize_graph_edges.
func serializeGraph(g *graph.Graph) string {
	var b strings.Builder
	b.WriteString("GRAPH " + strconv.Itoa(g.Vertices()) + " " + strconv.Itoa(g.EdgeCount()))

	matrix := g.CapacityMatrix()
	for u := 0; u < g.Vertices(); u++ {
		start := 0
		if !g.Directed() {
			start = u + 1
		}
		for v := start; v < g.Vertices(); v++ {
			if u == v {
				continue
			}
			if w := matrix[u][v]; w > 0 {
				fmt.Fprintf(&b, "\nEDGE %d %d %d", u, v, w)
			}
		}
	}
	return b.String()
}
