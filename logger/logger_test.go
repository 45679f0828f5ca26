package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

// bufLogger returns a JSON logger writing into buf so tests can decode
// what was emitted.
func bufLogger(buf *bytes.Buffer) *Logger {
	return &Logger{zl: zerolog.New(buf), service: "test"}
}

func lastEntry(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	var entry map[string]interface{}
	if err := json.Unmarshal([]byte(lines[len(lines)-1]), &entry); err != nil {
		t.Fatalf("log output is not JSON: %v\n%s", err, buf.String())
	}
	return entry
}

func TestNew_ServiceAndLevel(t *testing.T) {
	l := New(&Config{Level: "debug", Format: "json", Output: "stdout"}, "ingest")
	if l.service != "ingest" {
		t.Errorf("service = %q", l.service)
	}
	if l.zl.GetLevel() != zerolog.DebugLevel {
		t.Errorf("level = %v, want debug", l.zl.GetLevel())
	}
}

func TestNew_BadLevelFallsBackToInfo(t *testing.T) {
	l := New(&Config{Level: "chatty", Format: "json", Output: "stdout"}, "ingest")
	if l.zl.GetLevel() != zerolog.InfoLevel {
		t.Errorf("level = %v, want info fallback", l.zl.GetLevel())
	}
}

func TestNewDefault(t *testing.T) {
	l := NewDefault("ingest")
	if l == nil || l.service != "ingest" {
		t.Fatalf("NewDefault => %+v", l)
	}
}

func TestEmit_MessageAndFields(t *testing.T) {
	var buf bytes.Buffer
	l := bufLogger(&buf)
	l.Info("batch flushed", map[string]interface{}{
		FieldBatchSize: 64,
		FieldTopic:     "events",
	})

	entry := lastEntry(t, &buf)
	if entry["message"] != "batch flushed" {
		t.Errorf("message = %v", entry["message"])
	}
	if entry[FieldBatchSize] != float64(64) || entry[FieldTopic] != "events" {
		t.Errorf("fields missing: %v", entry)
	}
}

func TestEmit_MultipleFieldMaps(t *testing.T) {
	var buf bytes.Buffer
	l := bufLogger(&buf)
	l.Warn("retrying", map[string]interface{}{FieldAttempt: 2}, map[string]interface{}{FieldTopic: "events"})

	entry := lastEntry(t, &buf)
	if entry[FieldAttempt] != float64(2) || entry[FieldTopic] != "events" {
		t.Errorf("merged fields missing: %v", entry)
	}
}

func TestLevels(t *testing.T) {
	var buf bytes.Buffer
	l := bufLogger(&buf)
	l.Debug("d")
	l.Info("i")
	l.Warn("w")
	l.Error("e")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("emitted %d lines, want 4", len(lines))
	}
	for i, want := range []string{"debug", "info", "warn", "error"} {
		var entry map[string]interface{}
		if err := json.Unmarshal([]byte(lines[i]), &entry); err != nil {
			t.Fatal(err)
		}
		if entry["level"] != want {
			t.Errorf("line %d level = %v, want %s", i, entry["level"], want)
		}
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	bufLogger(&buf).WithComponent("kafka-source").Info("up")
	if e := lastEntry(t, &buf); e[FieldComponent] != "kafka-source" {
		t.Errorf("component field = %v", e[FieldComponent])
	}
}

func TestWithStage(t *testing.T) {
	var buf bytes.Buffer
	bufLogger(&buf).WithStage("batcher").Info("flush")
	if e := lastEntry(t, &buf); e[FieldStage] != "batcher" {
		t.Errorf("stage field = %v", e[FieldStage])
	}
}

func TestWithFieldsPersist(t *testing.T) {
	var buf bytes.Buffer
	l := bufLogger(&buf).WithFields(map[string]interface{}{FieldStreamID: "s-1"})
	l.Info("first")
	l.Info("second")

	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var entry map[string]interface{}
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatal(err)
		}
		if entry[FieldStreamID] != "s-1" {
			t.Errorf("stream_id lost on %q", entry["message"])
		}
	}
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	bufLogger(&buf).WithError(errors.New("broker down")).Error("produce failed")
	if e := lastEntry(t, &buf); e["error"] != "broker down" {
		t.Errorf("error field = %v", e["error"])
	}
}

func TestWithDoesNotMutateParent(t *testing.T) {
	var buf bytes.Buffer
	parent := bufLogger(&buf)
	parent.WithComponent("child")
	parent.Info("plain")
	if e := lastEntry(t, &buf); e[FieldComponent] != nil {
		t.Error("deriving a child logger leaked fields into the parent")
	}
}

func TestFieldsHelper(t *testing.T) {
	m := Fields(FieldTopic, "events", FieldBatchSize, 10)
	if m[FieldTopic] != "events" || m[FieldBatchSize] != 10 {
		t.Errorf("Fields = %v", m)
	}
	// Odd trailing value and non-string keys are dropped.
	m = Fields("a", 1, 2, "ignored", "b")
	if len(m) != 1 || m["a"] != 1 {
		t.Errorf("Fields with junk input = %v", m)
	}
}

func TestSink(t *testing.T) {
	if sink("stderr") != os.Stderr {
		t.Error("stderr not honored")
	}
	if sink("stdout") != os.Stdout || sink("") != os.Stdout {
		t.Error("default sink should be stdout")
	}
}

func TestInitSetsGlobal(t *testing.T) {
	prev := globalLogger
	prevLevel := zerolog.GlobalLevel()
	defer func() {
		globalLogger = prev
		zerolog.SetGlobalLevel(prevLevel)
	}()

	Init(&Config{Level: "warn", Format: "json", ServiceName: "ingest"})
	if globalLogger == nil || globalLogger.service != "ingest" {
		t.Fatalf("global logger = %+v", globalLogger)
	}
}

func TestGlobalLoggerLazyDefault(t *testing.T) {
	prev := globalLogger
	defer func() { globalLogger = prev }()

	globalLogger = nil
	if GetGlobalLogger() == nil {
		t.Fatal("lazy default not built")
	}

	custom := NewDefault("custom")
	SetGlobalLogger(custom)
	if GetGlobalLogger() != custom {
		t.Error("SetGlobalLogger ignored")
	}
}

func TestConfigDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.Level != "info" || cfg.Format != "console" || cfg.Output != "stdout" {
		t.Errorf("defaults = %+v", cfg)
	}
	if !cfg.Timestamp {
		t.Error("timestamps should default on")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid json", Config{Level: "info", Format: "json"}, false},
		{"valid console", Config{Level: "debug", Format: "console"}, false},
		{"bad level", Config{Level: "verbose", Format: "json"}, true},
		{"bad format", Config{Level: "info", Format: "xml"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.cfg.Validate(); (err != nil) != tc.wantErr {
				t.Errorf("Validate(%+v) err = %v", tc.cfg, err)
			}
		})
	}
}
