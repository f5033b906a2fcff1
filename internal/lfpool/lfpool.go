// Package lfpool implements the Leader-Follower accept pool (spec.md
// §4.9): a fixed worker pool shares one listening socket so that at most
// one worker is ever inside Accept, with no thundering herd and no
// per-connection goroutine spawn cost. It follows the same
// mutex-plus-condition-variable discipline as internal/queue.
package lfpool

import (
	"context"
	"errors"
	"net"
	"runtime"
	"sync"

	"graphflow/internal/logger"
	"graphflow/internal/metrics"
)

// Handler serves one accepted connection. It must not return until the
// connection is fully drained (closed or EXIT/SHUTDOWN observed).
type Handler func(ctx context.Context, conn net.Conn)

// Pool runs the Leader-Follower worker loop described in spec.md §4.9: a
// mutex, a condition variable, a has_leader flag and a shutdown flag,
// shared by every worker, encapsulated here rather than held in package
// globals.
type Pool struct {
	mu        sync.Mutex
	cond      *sync.Cond
	hasLeader bool
	shutdown  bool

	listener net.Listener
	handler  Handler
	workers  int

	wg sync.WaitGroup
}

// New builds a Pool of workers (max(4, runtime.NumCPU()) when workers <= 0,
// per spec.md §4.9) accepting on listener and dispatching each connection
// to handler.
func New(listener net.Listener, handler Handler, workers int) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
		if workers < 4 {
			workers = 4
		}
	}
	p := &Pool{listener: listener, handler: handler, workers: workers}
	p.cond = sync.NewCond(&p.mu)
	return p
}

// Run starts the worker pool and blocks until Shutdown is called and every
// worker has returned.
func (p *Pool) Run(ctx context.Context) {
	p.wg.Add(p.workers)
	for i := 0; i < p.workers; i++ {
		go func(id int) {
			defer p.wg.Done()
			p.workerLoop(ctx, id)
		}(i)
	}
	p.wg.Wait()
}

// Shutdown flips the shutdown flag, wakes every worker waiting for
// leadership, and closes the listening socket so a worker blocked in
// Accept observes the closure and exits (spec.md §4.9 step 6, §5
// cancellation). It is safe to call more than once.
func (p *Pool) Shutdown() {
	p.mu.Lock()
	if p.shutdown {
		p.mu.Unlock()
		return
	}
	p.shutdown = true
	p.mu.Unlock()
	p.cond.Broadcast()
	p.listener.Close()
}

// workerLoop implements the seven numbered steps of spec.md §4.9.
func (p *Pool) workerLoop(ctx context.Context, id int) {
	log := logger.Log.With("worker", id)
	for {
		p.mu.Lock()
		for p.hasLeader && !p.shutdown {
			p.cond.Wait()
		}
		if p.shutdown {
			p.mu.Unlock()
			return
		}
		p.hasLeader = true
		p.mu.Unlock()
		metrics.Get().RecordLeaderElection()

		conn, err := p.listener.Accept()

		p.mu.Lock()
		p.hasLeader = false
		p.mu.Unlock()
		p.cond.Signal()

		if err != nil {
			if p.isShutdown() {
				return
			}
			if isTemporary(err) {
				continue
			}
			log.Error("accept failed, worker exiting", "error", err)
			return
		}

		p.handler(ctx, conn)
	}
}

func (p *Pool) isShutdown() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.shutdown
}

func isTemporary(err error) bool {
	var ne net.Error
	if errors.As(err, &ne) {
		return ne.Timeout()
	}
	return false
}
