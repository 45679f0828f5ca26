package config

import (
	"strings"
	"testing"
)

func TestStreamConfigDefaults(t *testing.T) {
	cfg := StreamConfig{}
	cfg.Name = "worker-ingest"
	cfg.ApplyDefaults()

	if cfg.Environment != "development" {
		t.Errorf("Environment = %q, want development", cfg.Environment)
	}
	if cfg.Pipeline.BatchSize != 100 {
		t.Errorf("Pipeline.BatchSize = %d, want 100", cfg.Pipeline.BatchSize)
	}
	if cfg.Kafka.Compression != "snappy" {
		t.Errorf("Kafka.Compression = %q, want snappy", cfg.Kafka.Compression)
	}
	if cfg.Redis.Addr != "localhost:6379" {
		t.Errorf("Redis.Addr = %q", cfg.Redis.Addr)
	}
	if cfg.SQLite.Path != ":memory:" {
		t.Errorf("SQLite.Path = %q", cfg.SQLite.Path)
	}
}

func TestStreamConfigValidate_DisabledConnectors(t *testing.T) {
	cfg := StreamConfig{}
	cfg.Name = "worker-ingest"
	cfg.ApplyDefaults()

	// All connectors disabled: only the base fields matter.
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestStreamConfigValidate_EnabledConnectorChecked(t *testing.T) {
	cfg := StreamConfig{}
	cfg.Name = "worker-ingest"
	cfg.Kafka.Enabled = true // no topic
	cfg.ApplyDefaults()

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected kafka validation failure")
	}
	if !strings.Contains(err.Error(), "kafka") {
		t.Errorf("error = %v, want kafka section named", err)
	}
}
