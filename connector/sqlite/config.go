package sqlite

import (
	"fmt"
	"strings"
	"time"

	"github.com/kbukum/streamkit/validation"
)

// Memory is the path value for an in-memory, per-store database.
const Memory = ":memory:"

// Config holds spill store configuration.
type Config struct {
	// Enabled controls whether the sqlite connector is active.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`

	// Path is the database file path, or ":memory:" for an in-memory
	// store.
	Path string `yaml:"path" mapstructure:"path"`

	// ClaimLimit caps how many batches one Claim call returns.
	ClaimLimit int `yaml:"claim_limit" mapstructure:"claim_limit" validate:"min=0"`

	// Cooldown is how long a released batch stays ineligible for
	// re-claiming ("30s", "5m"). Empty means immediately eligible.
	Cooldown string `yaml:"cooldown" mapstructure:"cooldown" validate:"omitempty,duration"`

	// MaxConns bounds the connection pool for file-backed stores.
	MaxConns int `yaml:"max_conns" mapstructure:"max_conns" validate:"min=0"`
}

// ApplyDefaults sets sensible defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Path == "" {
		c.Path = Memory
	}
	if c.ClaimLimit <= 0 {
		c.ClaimLimit = 1
	}
	if c.MaxConns <= 0 {
		c.MaxConns = 4
	}
}

// Validate checks that the configuration is consistent. A disabled
// connector always validates.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if strings.Contains(c.Path, "?") {
		return fmt.Errorf("sqlite path must not carry query parameters (got: %s)", c.Path)
	}
	if err := validation.Validate(c); err != nil {
		return fmt.Errorf("sqlite config: %w", err)
	}
	return nil
}

// CooldownValue parses the cooldown, returning zero for empty or
// unparseable input.
func (c *Config) CooldownValue() time.Duration {
	d, _ := time.ParseDuration(c.Cooldown)
	return d
}
