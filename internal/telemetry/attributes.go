package telemetry

import "go.opentelemetry.io/otel/attribute"

// Attribute key names, grouped by subject.
const (
	AttrGraphVertices = "graph.vertices"
	AttrGraphEdges    = "graph.edges"
	AttrGraphDirected = "graph.directed"

	AttrAlgorithm = "algorithm.name"
	AttrResult    = "algorithm.result"
	AttrParamSrc  = "algorithm.param.src"
	AttrParamSink = "algorithm.param.sink"
	AttrParamK    = "algorithm.param.k"
)

// GraphAttributes describes a graph's shape for a span.
func GraphAttributes(vertices, edges int, directed bool) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int(AttrGraphVertices, vertices),
		attribute.Int(AttrGraphEdges, edges),
		attribute.Bool(AttrGraphDirected, directed),
	}
}

// AlgorithmAttributes describes one kernel invocation's outcome for a span.
func AlgorithmAttributes(name, result string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrAlgorithm, name),
		attribute.String(AttrResult, result),
	}
}
