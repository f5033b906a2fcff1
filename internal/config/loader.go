package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const configEnvVar = "GRAPHFLOW_CONFIG"

// Loader assembles a Config from defaults, an optional YAML file, and
// environment overrides, in that precedence order.
type Loader struct {
	k           *koanf.Koanf
	configPaths []string
	envPrefix   string
}

// LoaderOption customizes a Loader.
type LoaderOption func(*Loader)

// WithConfigPaths overrides the list of candidate config file paths.
func WithConfigPaths(paths ...string) LoaderOption {
	return func(l *Loader) { l.configPaths = paths }
}

// WithEnvPrefix overrides the environment variable prefix.
func WithEnvPrefix(prefix string) LoaderOption {
	return func(l *Loader) { l.envPrefix = prefix }
}

// NewLoader builds a Loader with graphflow's defaults.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		k:           koanf.New("."),
		configPaths: []string{"config.yaml", "config/config.yaml", "/etc/graphflow/config.yaml"},
		envPrefix:   "GRAPHFLOW_",
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load resolves defaults, file, and env into a validated Config.
func (l *Loader) Load() (*Config, error) {
	if err := l.loadDefaults(); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}
	_ = l.loadConfigFile() // absence of a config file is not fatal

	if err := l.loadEnv(); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	var cfg Config
	if err := l.k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (l *Loader) loadDefaults() error {
	defaults := map[string]any{
		"server.port":    9090,
		"server.backlog": 64,
		"server.workers": 0,

		"pipeline.queue_capacity": 256,

		"log.level":       "info",
		"log.format":      "json",
		"log.output":      "stdout",
		"log.file_path":   "",
		"log.max_size":    100,
		"log.max_backups": 3,
		"log.max_age":     7,
		"log.compress":    true,

		"metrics.enabled":   true,
		"metrics.port":      9091,
		"metrics.namespace": "graphflow",
		"metrics.subsystem": "",

		"tracing.enabled":      false,
		"tracing.endpoint":     "localhost:4317",
		"tracing.service_name": "graphflow-server",
		"tracing.sample_rate":  0.1,
		"tracing.timeout":      5 * time.Second,

		"random.default_seed":       42,
		"random.default_weight_min": 1,
		"random.default_weight_max": 1,
	}

	return l.k.Load(confmap.Provider(defaults, "."), nil)
}

func (l *Loader) loadConfigFile() error {
	if configPath := os.Getenv(configEnvVar); configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return l.k.Load(file.Provider(configPath), yaml.Parser())
		}
	}

	for _, path := range l.configPaths {
		absPath, err := filepath.Abs(path)
		if err != nil {
			continue
		}
		if _, err := os.Stat(absPath); err == nil {
			return l.k.Load(file.Provider(absPath), yaml.Parser())
		}
	}

	return fmt.Errorf("config file not found in paths: %v", l.configPaths)
}

func (l *Loader) loadEnv() error {
	return l.k.Load(env.Provider(l.envPrefix, ".", func(s string) string {
		// GRAPHFLOW_SERVER_PORT -> server.port
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, l.envPrefix)),
			"_", ".",
		)
	}), nil)
}

// MustLoad loads a Config or panics.
func MustLoad(opts ...LoaderOption) *Config {
	cfg, err := NewLoader(opts...).Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}

// Load loads a Config with default settings, then applies the single CLI
// port override (spec.md §6/§10): a positive port wins over config/env.
func Load(cliPort int) (*Config, error) {
	cfg, err := NewLoader().Load()
	if err != nil {
		return nil, err
	}
	if cliPort > 0 {
		cfg.Server.Port = cliPort
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
