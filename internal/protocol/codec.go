package protocol

import (
	"fmt"
	"strconv"
	"strings"

	"graphflow/internal/apperror"
	"graphflow/internal/pipeline"
)

// signal marks a frame-terminating or connection-terminating directive
// encountered while accumulating a request.
type signal int

const (
	signalNone signal = iota
	signalEnd
	signalExit
	signalShutdown
)

// applyLine folds one inbound line into the request being built, or
// reports a signal line (END, EXIT, SHUTDOWN). A non-nil error is always a
// malformed or unknown directive: spec.md §4.7's "ERR <diagnostic>".
func (r *request) applyLine(line string) (signal, error) {
	line = strings.TrimRight(line, "\r")
	if line == "" {
		return signalNone, nil
	}

	fields := strings.Fields(line)
	directive := fields[0]

	switch directive {
	case "END":
		return signalEnd, nil
	case "EXIT":
		return signalExit, nil
	case "SHUTDOWN":
		return signalShutdown, nil
	case "ALG":
		if len(fields) < 2 {
			return signalNone, missingOperand(directive)
		}
		r.alg = strings.ToUpper(fields[1])
		return signalNone, nil
	case "DIRECTED":
		v, err := boolOperand(directive, fields)
		if err != nil {
			return signalNone, err
		}
		r.directed, r.hasDir = v, true
		return signalNone, nil
	case "V":
		v, err := intOperand(directive, fields)
		if err != nil {
			return signalNone, err
		}
		r.vertices, r.hasV = int(v), true
		return signalNone, nil
	case "E":
		v, err := intOperand(directive, fields)
		if err != nil {
			return signalNone, err
		}
		r.edges, r.hasE = int(v), true
		return signalNone, nil
	case "RANDOM":
		v, err := boolOperand(directive, fields)
		if err != nil {
			return signalNone, err
		}
		r.random = v
		return signalNone, nil
	case "SEED":
		v, err := intOperand(directive, fields)
		if err != nil {
			return signalNone, err
		}
		r.seed, r.hasSeed = v, true
		return signalNone, nil
	case "WMIN":
		v, err := intOperand(directive, fields)
		if err != nil {
			return signalNone, err
		}
		r.wmin, r.hasWMin = v, true
		return signalNone, nil
	case "WMAX":
		v, err := intOperand(directive, fields)
		if err != nil {
			return signalNone, err
		}
		r.wmax, r.hasWMax = v, true
		return signalNone, nil
	case "EDGE":
		return signalNone, r.applyEdge(fields)
	case "PARAM":
		return signalNone, r.applyParam(fields)
	default:
		return signalNone, apperror.New(apperror.CodeUnknownDirective, "Unknown directive: "+line)
	}
}

func (r *request) applyEdge(fields []string) error {
	if len(fields) < 3 {
		return missingOperand("EDGE")
	}
	u, err := strconv.Atoi(fields[1])
	if err != nil {
		return invalidOperand("EDGE", fields[1])
	}
	v, err := strconv.Atoi(fields[2])
	if err != nil {
		return invalidOperand("EDGE", fields[2])
	}
	w := int64(1)
	if len(fields) >= 4 {
		parsed, err := strconv.ParseInt(fields[3], 10, 64)
		if err != nil {
			return invalidOperand("EDGE", fields[3])
		}
		w = parsed
	}
	r.rawEdges = append(r.rawEdges, rawEdge{u: u, v: v, w: w})
	return nil
}

func (r *request) applyParam(fields []string) error {
	if len(fields) < 3 {
		return missingOperand("PARAM")
	}
	key := strings.ToUpper(fields[1])
	if key != "SRC" && key != "SINK" && key != "K" {
		return apperror.NewWithField(apperror.CodeUnknownDirective, "Unknown PARAM key: "+fields[1], "PARAM")
	}
	v, err := strconv.ParseInt(fields[2], 10, 64)
	if err != nil {
		return invalidOperand("PARAM", fields[2])
	}
	r.params[key] = v
	return nil
}

func boolOperand(directive string, fields []string) (bool, error) {
	v, err := intOperand(directive, fields)
	if err != nil {
		return false, err
	}
	return v != 0, nil
}

func intOperand(directive string, fields []string) (int64, error) {
	if len(fields) < 2 {
		return 0, missingOperand(directive)
	}
	v, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return 0, invalidOperand(directive, fields[1])
	}
	return v, nil
}

func missingOperand(directive string) error {
	return apperror.NewWithField(apperror.CodeMissingField, "missing operand for "+directive, directive)
}

func invalidOperand(directive, value string) error {
	return apperror.NewWithField(apperror.CodeInvalidArgument, fmt.Sprintf("invalid operand %q for %s", value, directive), directive)
}

// kindFor maps the ALG identifier to a pipeline.Kind, per spec.md §4.7's
// "ALG identifier selects kind (PREVIEW, ALL, or one SINGLE_*)".
func kindFor(alg string) (pipeline.Kind, bool) {
	switch alg {
	case "PREVIEW":
		return pipeline.KindPreview, true
	case "ALL":
		return pipeline.KindAll, true
	case "MAX_FLOW":
		return pipeline.KindSingleMaxFlow, true
	case "SCC":
		return pipeline.KindSingleSCC, true
	case "MST":
		return pipeline.KindSingleMST, true
	case "CLIQUES":
		return pipeline.KindSingleCliques, true
	default:
		return 0, false
	}
}
