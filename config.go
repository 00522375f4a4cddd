package fsmkit

import (
	"errors"

	"github.com/dmitrymomot/fsmkit/pkg/config"
	"github.com/dmitrymomot/fsmkit/pkg/machine"
)

// Config is the complete kit configuration. Environment variables take
// precedence over the YAML file, which takes precedence over DefaultConfig.
type Config struct {
	Machine machine.Settings `envPrefix:"FSM_" yaml:"machine"`
	Log     LogConfig        `envPrefix:"LOG_" yaml:"log"`
	Metrics MetricsConfig    `envPrefix:"METRICS_" yaml:"metrics"`
	Events  EventsConfig     `envPrefix:"EVENTS_" yaml:"events"`
}

type LogConfig struct {
	// Env selects level and format defaults: development, staging or production.
	Env     string `env:"ENV" yaml:"env"`
	Service string `env:"SERVICE" yaml:"service"`
	// Level and Format override the Env defaults when set.
	Level  string `env:"LEVEL" yaml:"level"`
	Format string `env:"FORMAT" yaml:"format"`
}

type MetricsConfig struct {
	Enabled   bool   `env:"ENABLED" yaml:"enabled"`
	Namespace string `env:"NAMESPACE" yaml:"namespace"`
}

type EventsConfig struct {
	Enabled    bool `env:"ENABLED" yaml:"enabled"`
	BufferSize int  `env:"BUFFER_SIZE" yaml:"buffer_size"`
}

// DefaultConfig returns production defaults with metrics and events disabled.
func DefaultConfig() Config {
	return Config{
		Log: LogConfig{
			Env: "production",
		},
		Metrics: MetricsConfig{
			Namespace: "fsm",
		},
		Events: EventsConfig{
			BufferSize: 16,
		},
	}
}

type loadOptions struct {
	file     string
	envFiles []string
	vars     map[string]string
}

// LoadOption configures LoadConfig.
type LoadOption func(*loadOptions)

// WithConfigFile layers a YAML file over the defaults.
func WithConfigFile(path string) LoadOption {
	return func(o *loadOptions) { o.file = path }
}

// WithEnvFiles loads .env files into the process environment before parsing it.
func WithEnvFiles(files ...string) LoadOption {
	return func(o *loadOptions) { o.envFiles = append(o.envFiles, files...) }
}

// WithEnvVars parses the given variables instead of the process environment.
func WithEnvVars(vars map[string]string) LoadOption {
	return func(o *loadOptions) { o.vars = vars }
}

// LoadConfig builds a Config from defaults, an optional YAML file and the environment.
func LoadConfig(opts ...LoadOption) (Config, error) {
	o := &loadOptions{}
	for _, opt := range opts {
		opt(o)
	}

	cfg := DefaultConfig()
	if len(o.envFiles) > 0 {
		if err := config.LoadEnv(o.envFiles...); err != nil {
			return Config{}, errors.Join(ErrInvalidConfig, err)
		}
	}
	if o.file != "" {
		if err := config.LoadFile(o.file, &cfg); err != nil {
			return Config{}, errors.Join(ErrInvalidConfig, err)
		}
	}

	var envOpts []config.Option
	if o.vars != nil {
		envOpts = append(envOpts, config.WithEnvironment(o.vars))
	}
	if err := config.Load(&cfg, envOpts...); err != nil {
		return Config{}, errors.Join(ErrInvalidConfig, err)
	}
	return cfg, nil
}
