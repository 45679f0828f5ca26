package config

import (
	"fmt"

	"github.com/kbukum/streamkit/connector/kafka"
	"github.com/kbukum/streamkit/connector/redis"
	"github.com/kbukum/streamkit/connector/sqlite"
	"github.com/kbukum/streamkit/observability"
)

// StreamConfig is the full configuration tree of a stream service:
// the base service fields plus pipeline defaults, connectors, and
// telemetry. Services that need less embed ServiceConfig directly and
// pick sections; this type is the load-everything convenience.
//
//	var cfg config.StreamConfig
//	if err := config.LoadConfig("worker-ingest", &cfg); err != nil { ... }
type StreamConfig struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Pipeline      PipelineConfig       `yaml:"pipeline" mapstructure:"pipeline"`
	Kafka         kafka.Config         `yaml:"kafka" mapstructure:"kafka"`
	Redis         redis.Config         `yaml:"redis" mapstructure:"redis"`
	SQLite        sqlite.Config        `yaml:"sqlite" mapstructure:"sqlite"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
}

// ApplyDefaults applies defaults to every section.
func (c *StreamConfig) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	c.Pipeline.ApplyDefaults()
	c.Kafka.ApplyDefaults()
	c.Redis.ApplyDefaults()
	c.SQLite.ApplyDefaults()
	c.Observability.ApplyDefaults()
}

// Validate validates every section. Disabled connectors validate
// trivially, so a minimal service needs only the base fields.
func (c *StreamConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Pipeline.Validate(); err != nil {
		return err
	}
	if err := c.Kafka.Validate(); err != nil {
		return fmt.Errorf("config.kafka: %w", err)
	}
	if err := c.Redis.Validate(); err != nil {
		return fmt.Errorf("config.redis: %w", err)
	}
	if err := c.SQLite.Validate(); err != nil {
		return fmt.Errorf("config.sqlite: %w", err)
	}
	if err := c.Observability.Validate(); err != nil {
		return err
	}
	return nil
}
