package redis

import (
	"fmt"

	"github.com/kbukum/streamkit/validation"
)

// Config holds Redis connection and stream configuration.
type Config struct {
	// Enabled controls whether the Redis connector is active.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`

	// Addr is the Redis server address (host:port).
	Addr string `yaml:"addr" mapstructure:"addr"`

	// Password is the Redis server password.
	Password string `yaml:"password" mapstructure:"password"`

	// DB is the Redis database number.
	DB int `yaml:"db" mapstructure:"db" validate:"min=0"`

	// Key is the default list key streams read from and write to.
	Key string `yaml:"key" mapstructure:"key"`

	// Pool settings
	PoolSize     int `yaml:"pool_size" mapstructure:"pool_size"`
	MinIdleConns int `yaml:"min_idle_conns" mapstructure:"min_idle_conns"`
	MaxRetries   int `yaml:"max_retries" mapstructure:"max_retries"`

	// Timeouts are strings ("5s", "300ms") so they read naturally in YAML.
	DialTimeout  string `yaml:"dial_timeout" mapstructure:"dial_timeout" validate:"omitempty,duration"`
	ReadTimeout  string `yaml:"read_timeout" mapstructure:"read_timeout" validate:"omitempty,duration"`
	WriteTimeout string `yaml:"write_timeout" mapstructure:"write_timeout" validate:"omitempty,duration"`

	// PollTimeout bounds each blocking pop, so the source loop can
	// notice cancellation between pops.
	PollTimeout string `yaml:"poll_timeout" mapstructure:"poll_timeout" validate:"omitempty,duration"`
}

// ApplyDefaults sets sensible defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Addr == "" {
		c.Addr = "localhost:6379"
	}
	if c.PoolSize <= 0 {
		c.PoolSize = 10
	}
	if c.MinIdleConns <= 0 {
		c.MinIdleConns = 2
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 3
	}
	if c.DialTimeout == "" {
		c.DialTimeout = "5s"
	}
	if c.ReadTimeout == "" {
		c.ReadTimeout = "3s"
	}
	if c.WriteTimeout == "" {
		c.WriteTimeout = "3s"
	}
	if c.PollTimeout == "" {
		c.PollTimeout = "1s"
	}
}

// Validate checks that required fields are present and parseable.
// A disabled connector always validates.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Addr == "" {
		return fmt.Errorf("redis addr is required")
	}
	if c.Key == "" {
		return fmt.Errorf("redis key is required")
	}
	if err := validation.Validate(c); err != nil {
		return fmt.Errorf("redis config: %w", err)
	}
	return nil
}
