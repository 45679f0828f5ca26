package kafka

import (
	"fmt"
	"time"

	"github.com/kbukum/streamkit/security"
	"github.com/kbukum/streamkit/util"
	"github.com/kbukum/streamkit/validation"
)

// Config holds Kafka connection and behavior configuration.
type Config struct {
	// Enabled controls whether the Kafka connector is active.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`

	// Brokers is the list of Kafka broker addresses.
	Brokers []string `yaml:"brokers" mapstructure:"brokers"`

	// Topic is the topic the source consumes from and the sink produces to.
	Topic string `yaml:"topic" mapstructure:"topic"`

	// GroupID is the consumer group identifier.
	GroupID string `yaml:"group_id" mapstructure:"group_id"`

	// TLS configures broker transport security.
	EnableTLS bool               `yaml:"enable_tls" mapstructure:"enable_tls"`
	TLS       security.TLSConfig `yaml:"tls" mapstructure:"tls"`

	// SASL
	EnableSASL    bool   `yaml:"enable_sasl" mapstructure:"enable_sasl"`
	SASLMechanism string `yaml:"sasl_mechanism" mapstructure:"sasl_mechanism"` // PLAIN, SCRAM-SHA-256, SCRAM-SHA-512
	Username      string `yaml:"username" mapstructure:"username"`
	Password      string `yaml:"password" mapstructure:"password"`

	// Producer settings
	Compression  string `yaml:"compression" mapstructure:"compression"` // none, gzip, snappy, lz4, zstd
	Retries      int    `yaml:"retries" mapstructure:"retries"`
	BatchSize    int    `yaml:"batch_size" mapstructure:"batch_size"`
	BatchTimeout string `yaml:"batch_timeout" mapstructure:"batch_timeout" validate:"omitempty,duration"`
	WriteTimeout string `yaml:"write_timeout" mapstructure:"write_timeout" validate:"omitempty,duration"`
	RequiredAcks int    `yaml:"required_acks" mapstructure:"required_acks"`

	// Consumer settings
	StartOffset       string `yaml:"start_offset" mapstructure:"start_offset"` // first, last
	MinBytes          string `yaml:"min_bytes" mapstructure:"min_bytes"`
	MaxBytes          string `yaml:"max_bytes" mapstructure:"max_bytes"`
	SessionTimeout    string `yaml:"session_timeout" mapstructure:"session_timeout" validate:"omitempty,duration"`
	HeartbeatInterval string `yaml:"heartbeat_interval" mapstructure:"heartbeat_interval" validate:"omitempty,duration"`
	RebalanceTimeout  string `yaml:"rebalance_timeout" mapstructure:"rebalance_timeout" validate:"omitempty,duration"`

	// Connection settings
	DialTimeout string `yaml:"dial_timeout" mapstructure:"dial_timeout" validate:"omitempty,duration"`
	IdleTimeout string `yaml:"idle_timeout" mapstructure:"idle_timeout" validate:"omitempty,duration"`
	MetadataTTL string `yaml:"metadata_ttl" mapstructure:"metadata_ttl" validate:"omitempty,duration"`
}

// ApplyDefaults sets sensible defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if len(c.Brokers) == 0 {
		c.Brokers = []string{"localhost:9092"}
	}
	c.Brokers = util.Unique(c.Brokers)
	if c.Compression == "" {
		c.Compression = "snappy"
	}
	if c.Retries <= 0 {
		c.Retries = 3
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 100
	}
	if c.BatchTimeout == "" {
		c.BatchTimeout = "1s"
	}
	if c.WriteTimeout == "" {
		c.WriteTimeout = "10s"
	}
	if c.RequiredAcks == 0 {
		c.RequiredAcks = -1 // all replicas
	}
	if c.StartOffset == "" {
		c.StartOffset = "first"
	}
	if c.MinBytes == "" {
		c.MinBytes = "1B"
	}
	if c.MaxBytes == "" {
		c.MaxBytes = "10MB"
	}
	if c.SessionTimeout == "" {
		c.SessionTimeout = "30s"
	}
	if c.HeartbeatInterval == "" {
		c.HeartbeatInterval = "3s"
	}
	if c.RebalanceTimeout == "" {
		c.RebalanceTimeout = "30s"
	}
	if c.DialTimeout == "" {
		c.DialTimeout = "10s"
	}
	if c.IdleTimeout == "" {
		c.IdleTimeout = "30s"
	}
	if c.MetadataTTL == "" {
		c.MetadataTTL = "6s"
	}
	if c.SASLMechanism == "" && c.EnableSASL {
		c.SASLMechanism = "PLAIN"
	}
}

// Validate checks that required fields are present and parseable.
// A disabled connector always validates.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if len(c.Brokers) == 0 {
		return fmt.Errorf("kafka brokers are required")
	}
	if c.Topic == "" {
		return fmt.Errorf("kafka topic is required")
	}
	if err := validation.Validate(c); err != nil {
		return fmt.Errorf("kafka config: %w", err)
	}
	switch c.StartOffset {
	case "first", "last":
	default:
		return fmt.Errorf("start_offset must be first or last (got: %s)", c.StartOffset)
	}
	if c.EnableTLS {
		if err := c.TLS.Validate(); err != nil {
			return fmt.Errorf("kafka tls: %w", err)
		}
	}
	if c.EnableSASL {
		switch c.SASLMechanism {
		case "PLAIN", "SCRAM-SHA-256", "SCRAM-SHA-512":
		default:
			return fmt.Errorf("unsupported SASL mechanism: %s", c.SASLMechanism)
		}
		if c.Username == "" {
			return fmt.Errorf("SASL username is required")
		}
	}
	return nil
}

// MinBytesValue returns the consumer fetch floor in bytes.
func (c *Config) MinBytesValue() int64 {
	return util.ParseSize(c.MinBytes, 1)
}

// MaxBytesValue returns the consumer fetch ceiling in bytes.
func (c *Config) MaxBytesValue() int64 {
	return util.ParseSize(c.MaxBytes, 10*1024*1024)
}

// ParseDuration parses a duration string, returning zero on empty input.
func ParseDuration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}
