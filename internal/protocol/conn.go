package protocol

import (
	"bufio"
	"context"
	"net"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"graphflow/internal/apperror"
	"graphflow/internal/config"
	"graphflow/internal/logger"
	"graphflow/internal/metrics"
	"graphflow/internal/pipeline"
	"graphflow/internal/telemetry"
)

// ShutdownNotifier is the subset of the Leader-Follower pool a Conn needs to
// trigger a graceful server-wide shutdown on the wire-level SHUTDOWN
// directive (spec.md §4.8 step 4).
type ShutdownNotifier interface {
	RequestShutdown()
}

// Conn drives one client connection's read-frame/validate/build/enqueue
// loop (spec.md §4.8). It implements pipeline.Responder so the aggregator
// stage can write a completed Job's response without internal/pipeline
// importing internal/protocol.
type Conn struct {
	id       string
	nc       net.Conn
	reader   *bufio.Reader
	writeMu  sync.Mutex
	writer   *bufio.Writer
	pipeline *pipeline.Pipeline
	shutdown ShutdownNotifier
	random   config.RandomConfig

	closed atomic.Bool
}

// NewConn wraps an accepted net.Conn. pl is the pipeline jobs are submitted
// to; shutdown is notified on a wire-level SHUTDOWN directive.
func NewConn(nc net.Conn, pl *pipeline.Pipeline, shutdown ShutdownNotifier, random config.RandomConfig) *Conn {
	return &Conn{
		id:       uuid.NewString(),
		nc:       nc,
		reader:   bufio.NewReader(nc),
		writer:   bufio.NewWriter(nc),
		pipeline: pl,
		shutdown: shutdown,
		random:   random,
	}
}

// WriteResponse satisfies pipeline.Responder: it frames body as an OK
// response per spec.md §4.7 ("OK\n<body>\nEND\n"). An algorithm-level
// "Error: ..." string still travels inside an OK frame.
func (c *Conn) WriteResponse(body string) error {
	return c.writeFrame("OK", body)
}

// writeFrame serializes one OK/ERR response frame. It is called both from
// Serve (for parse/validation errors) and, via WriteResponse, from the
// pipeline aggregator goroutine, so writes to the shared bufio.Writer are
// mutex-guarded even though the wire protocol's single-request-at-a-time
// discipline keeps them from actually overlapping in the common case.
func (c *Conn) writeFrame(status, body string) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if _, err := c.writer.WriteString(status); err != nil {
		return err
	}
	if body != "" {
		if err := c.writer.WriteByte('\n'); err != nil {
			return err
		}
		if _, err := c.writer.WriteString(body); err != nil {
			return err
		}
	}
	if _, err := c.writer.WriteString("\nEND\n"); err != nil {
		return err
	}
	return c.writer.Flush()
}

// Serve runs the connection's request loop until EXIT, SHUTDOWN, a socket
// error, or the client closing the connection.
func (c *Conn) Serve(ctx context.Context) {
	defer c.close()
	metrics.Get().ConnectionsActive.Inc()
	defer metrics.Get().ConnectionsActive.Dec()
	log := logger.WithConn(c.id)
	log.Info("connection accepted", "remote", c.nc.RemoteAddr().String())

	for {
		req, sig, err := c.readFrame()
		if err != nil {
			return
		}

		switch sig {
		case signalExit:
			c.writeFrame("OK", "BYE")
			return
		case signalShutdown:
			c.writeFrame("OK", "BYE")
			if c.shutdown != nil {
				c.shutdown.RequestShutdown()
			}
			return
		}

		if err := req.validate(); err != nil {
			c.writeError(err)
			continue
		}

		g, err := req.buildGraph(c.random)
		if err != nil {
			c.writeError(err)
			continue
		}

		jobID := uuid.NewString()
		jobCtx, span := telemetry.StartJobSpan(ctx, jobID, req.alg)
		job := req.toJob(g)
		job.ID = jobID
		job.Ctx = jobCtx
		job.Conn = c

		if !c.pipeline.Submit(job) {
			span.End()
			c.writeError(apperror.New(apperror.CodeInternal, "server is shutting down"))
			continue
		}
		span.End()
	}
}

// readFrame accumulates lines via request.applyLine until a terminating
// signal is seen or the socket errors/closes. A parse error on any one line
// (spec.md §8 S6) reports ERR immediately, then discards the remainder of
// that malformed frame up to its own terminating signal, so a later
// well-formed frame on the same connection starts clean.
func (c *Conn) readFrame() (*request, signal, error) {
	req := newRequest()
	tainted := false
	for {
		line, err := c.reader.ReadString('\n')
		if err != nil && line == "" {
			return nil, signalNone, err
		}
		// A non-nil err here means EOF with no trailing newline on the
		// last line; still process it before reporting the error above.

		sig, applyErr := req.applyLine(line)
		switch {
		case applyErr != nil:
			if !tainted {
				c.writeError(applyErr)
				tainted = true
			}
		case sig != signalNone:
			if tainted {
				// This frame was already reported; start the next one.
				req = newRequest()
				tainted = false
				if err != nil {
					return nil, signalNone, err
				}
				continue
			}
			return req, sig, nil
		}
		if err != nil {
			return nil, signalNone, err
		}
	}
}

func (c *Conn) writeError(err error) {
	msg := err.Error()
	if ae, ok := err.(*apperror.Error); ok {
		msg = ae.Message
	}
	c.writeFrame("ERR", msg)
}

func (c *Conn) close() {
	if c.closed.CompareAndSwap(false, true) {
		c.nc.Close()
		logger.WithConn(c.id).Info("connection closed")
	}
}
