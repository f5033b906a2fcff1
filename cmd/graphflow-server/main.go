// Command graphflow-server runs the graphflow TCP service: a
// Leader-Follower accept pool in front of a staged pipeline of graph
// algorithm kernels (spec.md §1, §6, §10).
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"graphflow/internal/config"
	"graphflow/internal/logger"
	"graphflow/internal/metrics"
	"graphflow/internal/server"
	"graphflow/internal/telemetry"
)

func main() {
	os.Exit(run())
}

func run() int {
	port := 0
	if len(os.Args) > 1 {
		p, err := strconv.Atoi(os.Args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid port %q: %v\n", os.Args[1], err)
			return 1
		}
		port = p
	}

	cfg, err := config.Load(port)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		return 1
	}

	logger.Init(cfg.Log)
	logger.Log.Info("starting graphflow-server", "port", cfg.Server.Port, "workers", cfg.Server.Workers)

	if cfg.Metrics.Enabled {
		metrics.Init(cfg.Metrics.Namespace, cfg.Metrics.Subsystem)
	}

	if cfg.Tracing.Enabled {
		tp, err := telemetry.Init(context.Background(), cfg.Tracing)
		if err != nil {
			logger.Log.Warn("failed to init telemetry, continuing without it", "error", err)
		} else {
			defer tp.Shutdown(context.Background())
		}
	}

	srv, err := server.New(cfg)
	if err != nil {
		logger.Log.Error("failed to start server", "error", err)
		return 1
	}

	if err := srv.Run(); err != nil {
		logger.Log.Error("server exited with error", "error", err)
		return 1
	}

	logger.Log.Info("graphflow-server stopped")
	return 0
}
