package observability

import (
	"fmt"
	"time"

	"github.com/kbukum/streamkit/validation"
)

// Config is the observability section of a service configuration tree.
// It feeds both the tracer and meter providers; per-signal settings are
// derived with TracerConfig and MeterConfig.
type Config struct {
	Enabled        bool    `yaml:"enabled" mapstructure:"enabled"`
	Endpoint       string  `yaml:"endpoint" mapstructure:"endpoint"`
	Insecure       bool    `yaml:"insecure" mapstructure:"insecure"`
	SampleRate     float64 `yaml:"sample_rate" mapstructure:"sample_rate" validate:"min=0,max=1"`
	MetricInterval string  `yaml:"metric_interval" mapstructure:"metric_interval" validate:"omitempty,duration"`
}

// ApplyDefaults applies default values to observability configuration.
// A zero sample rate defaults to 1.0; set Enabled to false to turn
// telemetry off entirely.
func (c *Config) ApplyDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = "localhost:4318"
	}
	if c.SampleRate == 0 {
		c.SampleRate = 1.0
	}
	if c.MetricInterval == "" {
		c.MetricInterval = "15s"
	}
}

// Validate validates observability configuration.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return fmt.Errorf("config.observability: %w", err)
	}
	return nil
}

// GetMetricInterval parses the metric export interval, falling back to 15s.
func (c *Config) GetMetricInterval() time.Duration {
	d, err := time.ParseDuration(c.MetricInterval)
	if err != nil || d <= 0 {
		return 15 * time.Second
	}
	return d
}

// TracerConfig derives the tracer settings for a service.
func (c *Config) TracerConfig(service, version, environment string) TracerConfig {
	return TracerConfig{
		ServiceName:    service,
		ServiceVersion: version,
		Environment:    environment,
		Endpoint:       c.Endpoint,
		Insecure:       c.Insecure,
		SampleRate:     c.SampleRate,
	}
}

// MeterConfig derives the meter settings for a service.
func (c *Config) MeterConfig(service, version, environment string) MeterConfig {
	return MeterConfig{
		ServiceName:    service,
		ServiceVersion: version,
		Environment:    environment,
		Endpoint:       c.Endpoint,
		Insecure:       c.Insecure,
		Interval:       c.GetMetricInterval(),
	}
}
