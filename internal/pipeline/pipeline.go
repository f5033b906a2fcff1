package pipeline

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"graphflow/internal/logger"
	"graphflow/internal/metrics"
	"graphflow/internal/queue"
	"graphflow/internal/registry"
	"graphflow/internal/telemetry"
)

// Pipeline owns the five inter-stage queues and the goroutines draining
// them. Start is idempotent: only the first call spawns the stage
// goroutines. Stop closes every queue so each stage observes end-of-stream
// on its next Pop and exits.
type Pipeline struct {
	queueCapacity int

	qMaxFlow *queue.BlockingQueue[*Job]
	qSCC     *queue.BlockingQueue[*Job]
	qMST     *queue.BlockingQueue[*Job]
	qCliques *queue.BlockingQueue[*Job]
	qAgg     *queue.BlockingQueue[*Job]

	startOnce sync.Once
	group     *errgroup.Group
}

// New builds a Pipeline with the given per-queue capacity (0 = unbounded).
func New(queueCapacity int) *Pipeline {
	return &Pipeline{
		queueCapacity: queueCapacity,
		qMaxFlow:      queue.New[*Job](queueCapacity),
		qSCC:          queue.New[*Job](queueCapacity),
		qMST:          queue.New[*Job](queueCapacity),
		qCliques:      queue.New[*Job](queueCapacity),
		qAgg:          queue.New[*Job](queueCapacity),
	}
}

// Submit routes a Job to its entry queue per spec.md §4.6: PREVIEW goes
// straight to the aggregator; SINGLE_MAX_FLOW and ALL enter at MaxFlow;
// every other SINGLE_* enters at its own stage.
func (p *Pipeline) Submit(j *Job) bool {
	switch j.Kind {
	case KindPreview:
		return p.qAgg.Push(j)
	case KindAll, KindSingleMaxFlow:
		return p.qMaxFlow.Push(j)
	case KindSingleSCC:
		return p.qSCC.Push(j)
	case KindSingleMST:
		return p.qMST.Push(j)
	case KindSingleCliques:
		return p.qCliques.Push(j)
	default:
		return false
	}
}

// Start spawns the five stage goroutines exactly once.
func (p *Pipeline) Start() {
	p.startOnce.Do(func() {
		group, _ := errgroup.WithContext(context.Background())
		p.group = group

		group.Go(func() error { p.runMaxFlowStage(); return nil })
		group.Go(func() error { p.runSCCStage(); return nil })
		group.Go(func() error { p.runMSTStage(); return nil })
		group.Go(func() error { p.runCliquesStage(); return nil })
		group.Go(func() error { p.runAggregatorStage(); return nil })
	})
}

// Stop closes every queue, letting each stage drain and exit, then waits
// for all stage goroutines to return.
func (p *Pipeline) Stop() {
	p.qMaxFlow.Close()
	p.qSCC.Close()
	p.qMST.Close()
	p.qCliques.Close()
	p.qAgg.Close()
	if p.group != nil {
		_ = p.group.Wait()
	}
}

func (p *Pipeline) runMaxFlowStage() {
	for {
		j, ok := p.qMaxFlow.Pop()
		if !ok {
			return
		}
		p.reportDepth("max_flow", p.qMaxFlow.Len())

		runStage(j, "max_flow", func() {
			j.MaxFlow = registry.Run("MAX_FLOW", j.Graph, j.Params)
		})

		if j.Kind == KindSingleMaxFlow {
			p.qAgg.Push(j)
		} else {
			p.qSCC.Push(j)
		}
	}
}

func (p *Pipeline) runSCCStage() {
	for {
		j, ok := p.qSCC.Pop()
		if !ok {
			return
		}
		p.reportDepth("scc", p.qSCC.Len())

		runStage(j, "scc", func() {
			j.SCC = registry.Run("SCC", j.Graph, j.Params)
		})

		if j.Kind == KindSingleSCC {
			p.qAgg.Push(j)
		} else {
			p.qMST.Push(j)
		}
	}
}

func (p *Pipeline) runMSTStage() {
	for {
		j, ok := p.qMST.Pop()
		if !ok {
			return
		}
		p.reportDepth("mst", p.qMST.Len())

		runStage(j, "mst", func() {
			j.MST = registry.Run("MST", j.Graph, j.Params)
		})

		if j.Kind == KindSingleMST {
			p.qAgg.Push(j)
		} else {
			p.qCliques.Push(j)
		}
	}
}

func (p *Pipeline) runCliquesStage() {
	for {
		j, ok := p.qCliques.Pop()
		if !ok {
			return
		}
		p.reportDepth("cliques", p.qCliques.Len())

		runStage(j, "cliques", func() {
			j.Cliques = registry.Run("CLIQUES", j.Graph, j.Params)
		})

		p.qAgg.Push(j)
	}
}

func (p *Pipeline) runAggregatorStage() {
	for {
		j, ok := p.qAgg.Pop()
		if !ok {
			return
		}
		p.reportDepth("aggregator", p.qAgg.Len())

		ctx, span := telemetry.StartStageSpan(j.Ctx, "aggregate")
		body := renderResponse(j)
		if err := j.Conn.WriteResponse(body); err != nil {
			telemetry.SetError(ctx, err)
			logger.WithJob(j.ID, "aggregate").Warn("failed to write response", "error", err)
		}
		span.End()

		metrics.Get().RecordJobOutcome(j.Kind.String(), "completed")
	}
}

// runStage executes fn under a timed, traced child span: the Timer
// observes elapsed stage duration into JobDuration, independent of the
// JobsTotal outcome count.
func runStage(j *Job, stage string, fn func()) {
	timer := metrics.NewTimer(metrics.Get().JobDuration, stage)
	_, span := telemetry.StartStageSpan(j.Ctx, stage)
	fn()
	span.End()
	timer.ObserveDuration()
	metrics.Get().RecordJobOutcome(j.Kind.String(), "ok")
}

func (p *Pipeline) reportDepth(queueName string, depth int) {
	metrics.Get().SetQueueDepth(queueName, depth)
}
