// Package protocol implements the line-oriented wire codec (spec.md §4.7)
// and the per-connection request loop (spec.md §4.8): read a frame,
// validate it, build a Graph, and enqueue a pipeline.Job.
package protocol

// request accumulates the directives of one inbound frame as it is parsed
// line by line.
type request struct {
	alg      string
	directed bool
	hasDir   bool
	vertices int
	hasV     bool
	edges    int
	hasE     bool
	random   bool
	hasSeed  bool
	seed     int64
	hasWMin  bool
	wmin     int64
	hasWMax  bool
	wmax     int64
	rawEdges []rawEdge
	params   map[string]int64
}

type rawEdge struct {
	u, v int
	w    int64
}

func newRequest() *request {
	return &request{params: make(map[string]int64)}
}
