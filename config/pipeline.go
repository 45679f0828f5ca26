package config

import (
	"fmt"
	"time"

	"github.com/kbukum/streamkit/pipeline"
	"github.com/kbukum/streamkit/validation"
)

// PipelineConfig carries the stage defaults a service applies when it
// builds its streams: buffer capacity, transform fan-out and batch size.
// Durations are strings ("30s", "1m") so they read naturally in YAML.
type PipelineConfig struct {
	Capacity        int    `yaml:"capacity" mapstructure:"capacity" validate:"min=0"`
	Concurrency     int    `yaml:"concurrency" mapstructure:"concurrency" validate:"min=1"`
	BatchSize       int    `yaml:"batch_size" mapstructure:"batch_size" validate:"min=1"`
	ShutdownTimeout string `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout" validate:"omitempty,duration"`
}

// ApplyDefaults applies default values to pipeline configuration.
func (c *PipelineConfig) ApplyDefaults() {
	if c.Concurrency == 0 {
		c.Concurrency = 1
	}
	if c.BatchSize == 0 {
		c.BatchSize = 100
	}
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
}

// Validate validates pipeline configuration.
func (c *PipelineConfig) Validate() error {
	if err := validation.Validate(c); err != nil {
		return fmt.Errorf("config.pipeline: %w", err)
	}
	return nil
}

// GetShutdownTimeout parses the shutdown timeout, falling back to 30s.
func (c *PipelineConfig) GetShutdownTimeout() time.Duration {
	d, err := time.ParseDuration(c.ShutdownTimeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// StageOptions translates the configured defaults into stage options.
func (c *PipelineConfig) StageOptions() []pipeline.Option {
	var opts []pipeline.Option
	if c.Capacity > 0 {
		opts = append(opts, pipeline.WithCapacity(c.Capacity))
	}
	return opts
}
