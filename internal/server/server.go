// Package server wires together the listening socket, the Leader-Follower
// pool, and the pipeline into the process lifecycle described in spec.md
// §4.10: bind/listen, start the pipeline, run the LF pool, and on
// SHUTDOWN stop the pipeline and close the socket. It is grounded on the
// teacher's pkg/server.Server (TCP listener bring-up, signal-driven
// shutdown) generalized from one gRPC listener to the LF accept pool.
package server

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"graphflow/internal/config"
	"graphflow/internal/lfpool"
	"graphflow/internal/logger"
	"graphflow/internal/metrics"
	"graphflow/internal/pipeline"
	"graphflow/internal/protocol"
)

// Server owns the listening socket, the pipeline and the LF pool for one
// run of the process.
type Server struct {
	cfg      *config.Config
	listener net.Listener
	pipeline *pipeline.Pipeline
	pool     *lfpool.Pool

	shutdownOnce sync.Once
}

// New binds the listening socket on 0.0.0.0:port without starting anything
// yet. The listen backlog is the operating system's default;
// cfg.Server.Backlog is validated by config but not applied here.
func New(cfg *config.Config) (*Server, error) {
	lc := net.ListenConfig{}
	ln, err := lc.Listen(context.Background(), "tcp", fmt.Sprintf("0.0.0.0:%d", cfg.Server.Port))
	if err != nil {
		return nil, fmt.Errorf("listen: %w", err)
	}
	if tl, ok := ln.(*net.TCPListener); ok {
		ln = tcpKeepaliveListener{tl}
	}

	s := &Server{
		cfg:      cfg,
		listener: ln,
		pipeline: pipeline.New(cfg.Pipeline.QueueCapacity),
	}
	s.pool = lfpool.New(ln, s.handleConn, cfg.Server.Workers)
	return s, nil
}

// RequestShutdown satisfies protocol.ShutdownNotifier: a connection that
// observes the wire-level SHUTDOWN directive calls this to start the same
// teardown sequence as SIGINT/SIGTERM.
func (s *Server) RequestShutdown() {
	go s.Shutdown()
}

// Run starts the pipeline, runs the LF accept pool, and installs a
// SIGINT/SIGTERM handler that drives the identical shutdown path as a
// wire-level SHUTDOWN (spec.md §4.10 grounded on the teacher's
// signal.NotifyContext usage in cmd/main.go). It blocks until shutdown.
func (s *Server) Run() error {
	s.pipeline.Start()
	logger.Log.Info("server listening", "addr", s.listener.Addr().String(), "workers", s.cfg.Server.Workers)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		s.Shutdown()
	}()

	if s.cfg.Metrics.Enabled {
		go func() {
			if err := metrics.StartServer(s.cfg.Metrics.Port); err != nil {
				logger.Log.Warn("metrics server stopped", "error", err)
			}
		}()
	}

	s.pool.Run(context.Background())
	return nil
}

// Shutdown stops the pipeline and closes the listening socket, idempotently.
func (s *Server) Shutdown() {
	s.shutdownOnce.Do(func() {
		logger.Log.Info("shutdown requested")
		s.pool.Shutdown()
		s.pipeline.Stop()
	})
}

func (s *Server) handleConn(ctx context.Context, conn net.Conn) {
	c := protocol.NewConn(conn, s.pipeline, s, s.cfg.Random)
	c.Serve(ctx)
}

// tcpKeepaliveListener mirrors net/http's unexported keepaliveListener:
// long-lived client connections get TCP keepalive so idle clients don't
// wedge a worker's accept cycle forever.
type tcpKeepaliveListener struct {
	*net.TCPListener
}

func (ln tcpKeepaliveListener) Accept() (net.Conn, error) {
	tc, err := ln.AcceptTCP()
	if err != nil {
		return nil, err
	}
	_ = tc.SetKeepAlive(true)
	return tc, nil
}
