// Package config holds the layered configuration for the graphflow server:
// network/pipeline sizing, logging, metrics, and tracing. Everything not
// covered by the single CLI port argument (SPEC §6, §10) lives here.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the top-level configuration value, populated by a Loader.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Pipeline PipelineConfig `koanf:"pipeline"`
	Log      LogConfig      `koanf:"log"`
	Metrics  MetricsConfig  `koanf:"metrics"`
	Tracing  TracingConfig  `koanf:"tracing"`
	Random   RandomConfig   `koanf:"random"`
}

// ServerConfig controls the listening socket and the Leader-Follower pool.
type ServerConfig struct {
	Port    int `koanf:"port"`
	Backlog int `koanf:"backlog"`
	// Workers is the LF worker count; 0 means max(4, runtime.NumCPU()).
	Workers int `koanf:"workers"`
}

// PipelineConfig controls the bounded queues between pipeline stages.
type PipelineConfig struct {
	// QueueCapacity bounds each of the five inter-stage queues; 0 means
	// unbounded.
	QueueCapacity int `koanf:"queue_capacity"`
}

// LogConfig mirrors the teacher's logger.Config shape.
type LogConfig struct {
	Level      string `koanf:"level"`
	Format     string `koanf:"format"` // json, text
	Output     string `koanf:"output"` // stdout, stderr, file
	FilePath   string `koanf:"file_path"`
	MaxSize    int    `koanf:"max_size"` // MB
	MaxBackups int    `koanf:"max_backups"`
	MaxAge     int    `koanf:"max_age"` // days
	Compress   bool   `koanf:"compress"`
}

// MetricsConfig controls the Prometheus exposition server.
type MetricsConfig struct {
	Enabled   bool   `koanf:"enabled"`
	Port      int    `koanf:"port"`
	Namespace string `koanf:"namespace"`
	Subsystem string `koanf:"subsystem"`
}

// TracingConfig controls the OpenTelemetry tracer provider.
type TracingConfig struct {
	Enabled     bool          `koanf:"enabled"`
	Endpoint    string        `koanf:"endpoint"`
	ServiceName string        `koanf:"service_name"`
	SampleRate  float64       `koanf:"sample_rate"`
	Timeout     time.Duration `koanf:"timeout"`
}

// RandomConfig supplies protocol-level defaults for SEED/WMIN/WMAX when a
// request omits them (spec.md §4.7).
type RandomConfig struct {
	DefaultSeed      int64 `koanf:"default_seed"`
	DefaultWeightMin int64 `koanf:"default_weight_min"`
	DefaultWeightMax int64 `koanf:"default_weight_max"`
}

// Validate checks the loaded configuration for internally-consistent values.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be between 1 and 65535, got %d", c.Server.Port))
	}
	if c.Server.Backlog <= 0 {
		errs = append(errs, "server.backlog must be positive")
	}
	if c.Server.Workers < 0 {
		errs = append(errs, "server.workers must be non-negative")
	}
	if c.Pipeline.QueueCapacity < 0 {
		errs = append(errs, "pipeline.queue_capacity must be non-negative")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		errs = append(errs, fmt.Sprintf("log.level must be one of: debug, info, warn, error, got %s", c.Log.Level))
	}

	if c.Random.DefaultWeightMin < 1 {
		errs = append(errs, "random.default_weight_min must be >= 1")
	}
	if c.Random.DefaultWeightMax < c.Random.DefaultWeightMin {
		errs = append(errs, "random.default_weight_max must be >= random.default_weight_min")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
