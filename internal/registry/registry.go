// Package registry implements the strategy dispatch table mapping an
// uppercased algorithm identifier to an adapter that runs the matching
// kernel and formats its result as wire text.
package registry

import (
	"fmt"
	"strconv"
	"strings"

	"graphflow/internal/algorithms"
	"graphflow/internal/domain/graph"
)

// Algorithm is the capability set every registered kernel exposes: an
// identifier and a single run operation producing wire-format text.
type Algorithm interface {
	ID() string
	Run(g *graph.Graph, params map[string]int64) string
}

// RequiresDirected reports the orientation a given algorithm identifier
// requires (spec.md §4.3/§4.4): MAX_FLOW and SCC need directed graphs; MST
// and CLIQUES need undirected graphs.
func RequiresDirected(id string) (directed bool, ok bool) {
	switch id {
	case "MAX_FLOW", "SCC":
		return true, true
	case "MST", "CLIQUES":
		return false, true
	default:
		return false, false
	}
}

type maxFlowAlgo struct{}

func (maxFlowAlgo) ID() string { return "MAX_FLOW" }

func (maxFlowAlgo) Run(g *graph.Graph, params map[string]int64) string {
	src := int(params["SRC"])
	sink := int(g.Vertices()) - 1
	if v, ok := params["SINK"]; ok {
		sink = int(v)
	}
	flow, err := algorithms.MaxFlow(g, src, sink)
	if err != nil {
		return "Error: " + err.Error()
	}
	return result(flow)
}

type sccAlgo struct{}

func (sccAlgo) ID() string { return "SCC" }

func (sccAlgo) Run(g *graph.Graph, _ map[string]int64) string {
	count, err := algorithms.SCC(g)
	if err != nil {
		return "Error: " + err.Error()
	}
	return result(int64(count))
}

type mstAlgo struct{}

func (mstAlgo) ID() string { return "MST" }

func (mstAlgo) Run(g *graph.Graph, _ map[string]int64) string {
	weight, err := algorithms.MSTWeight(g)
	if err != nil {
		return "Error: " + err.Error()
	}
	return result(weight)
}

type cliquesAlgo struct{}

func (cliquesAlgo) ID() string { return "CLIQUES" }

func (cliquesAlgo) Run(g *graph.Graph, params map[string]int64) string {
	k := 3
	if v, ok := params["K"]; ok {
		k = int(v)
	}
	count, err := algorithms.CliqueCount(g, k)
	if err != nil {
		return "Error: " + err.Error()
	}
	return result(int64(count))
}

func result(n int64) string {
	return "RESULT " + strconv.FormatInt(n, 10)
}

// registry is the identifier -> adapter dispatch table (spec.md §4.4).
var registry = map[string]Algorithm{
	"MAX_FLOW": maxFlowAlgo{},
	"SCC":      sccAlgo{},
	"MST":      mstAlgo{},
	"CLIQUES":  cliquesAlgo{},
}

// Lookup returns the adapter for an uppercased identifier, or nil if
// unknown.
func Lookup(id string) Algorithm {
	return registry[strings.ToUpper(id)]
}

// Run dispatches to the adapter for id, enforcing the directedness guard
// (spec.md §4.4): a mismatch produces the exact documented diagnostic
// rather than invoking the kernel.
func Run(id string, g *graph.Graph, params map[string]int64) string {
	algo := Lookup(id)
	if algo == nil {
		return fmt.Sprintf("Error: unknown algorithm %s", id)
	}

	wantsDirected, _ := RequiresDirected(strings.ToUpper(id))
	if g.Directed() != wantsDirected {
		orientation := "undirected"
		if g.Directed() {
			orientation = "directed"
		}
		return fmt.Sprintf("Error: cannot run %s on %s graph", strings.ToUpper(id), orientation)
	}

	return algo.Run(g, params)
}
