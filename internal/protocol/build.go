package protocol

import (
	"fmt"

	"graphflow/internal/apperror"
	"graphflow/internal/config"
	"graphflow/internal/domain/graph"
	"graphflow/internal/domain/random"
	"graphflow/internal/pipeline"
)

// validate checks the accumulated request against spec.md §4.8 step 5:
// V >= 1, E >= 0, every EDGE in range, w >= 1, SINK != SRC if both given,
// and a recognized ALG identifier.
func (r *request) validate() error {
	if r.alg == "" {
		return apperror.NewWithField(apperror.CodeMissingField, "missing ALG", "ALG")
	}
	if _, ok := kindFor(r.alg); !ok {
		return apperror.NewWithField(apperror.CodeUnknownAlgorithm, "unknown ALG identifier: "+r.alg, "ALG")
	}
	if !r.hasV || r.vertices < 1 {
		return apperror.NewWithField(apperror.CodeInvalidVertexCount, "V must be >= 1", "V")
	}
	if r.hasE && r.edges < 0 {
		return apperror.NewWithField(apperror.CodeMissingField, "E must be >= 0", "E")
	}

	if !r.random {
		for _, e := range r.rawEdges {
			if e.u < 0 || e.u >= r.vertices || e.v < 0 || e.v >= r.vertices {
				return apperror.NewWithField(apperror.CodeInvalidEdgeEndpoint,
					fmt.Sprintf("EDGE endpoint out of range [0, %d)", r.vertices), "EDGE")
			}
			if e.w < 1 {
				return apperror.NewWithField(apperror.CodeInvalidWeight, "EDGE weight must be >= 1", "EDGE")
			}
		}
	}

	if src, hasSrc := r.params["SRC"]; hasSrc {
		if sink, hasSink := r.params["SINK"]; hasSink && src == sink {
			return apperror.New(apperror.CodeSourceEqualsSink, "SRC and SINK must differ")
		}
	}

	return nil
}

// buildGraph constructs the Graph named by the request: either from its
// explicit EDGE lines, or via the deterministic random generator with E
// clamped to the maximum number of simple edges for V (spec.md §4.8 step 6).
func (r *request) buildGraph(defaults config.RandomConfig) (*graph.Graph, error) {
	directed := r.directed // DIRECTED defaults to false (the zero value) when omitted

	if r.random {
		seed := defaults.DefaultSeed
		if r.hasSeed {
			seed = r.seed
		}
		wmin := defaults.DefaultWeightMin
		if r.hasWMin {
			wmin = r.wmin
		}
		wmax := defaults.DefaultWeightMax
		if r.hasWMax {
			wmax = r.wmax
		}

		edges := clampEdges(r.vertices, r.edges, directed)
		return random.Generate(r.vertices, edges, seed, directed, wmin, wmax)
	}

	g, err := graph.New(r.vertices, directed)
	if err != nil {
		return nil, err
	}
	for _, e := range r.rawEdges {
		if err := g.AddEdge(e.u, e.v, e.w); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func clampEdges(vertices, requested int, directed bool) int {
	max := vertices * (vertices - 1)
	if !directed {
		max /= 2
	}
	if requested < 0 {
		return 0
	}
	if requested > max {
		return max
	}
	return requested
}

// toJob builds the pipeline.Job for a validated, graph-built request.
func (r *request) toJob(g *graph.Graph) *pipeline.Job {
	kind, _ := kindFor(r.alg)
	return &pipeline.Job{
		Kind:     kind,
		Directed: r.directed,
		Graph:    g,
		Params:   r.params,
	}
}
