package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/kbukum/streamkit/logger"
	"github.com/kbukum/streamkit/pipeline"
	"github.com/kbukum/streamkit/resilience"
)

// fakeProducer records produced messages and can fail the first n calls.
type fakeProducer struct {
	mu       sync.Mutex
	msgs     []kafkago.Message
	failures int
	calls    int
}

func (p *fakeProducer) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.calls <= p.failures {
		return errors.New("broker unavailable")
	}
	p.msgs = append(p.msgs, msgs...)
	return nil
}

func (p *fakeProducer) Close() error { return nil }

func (p *fakeProducer) produced() []kafkago.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]kafkago.Message(nil), p.msgs...)
}

func testSink(p producer) *Sink {
	retry := resilience.DefaultRetryConfig()
	retry.InitialBackoff = time.Millisecond
	return &Sink{
		writer: p,
		topic:  "events",
		retry:  retry,
		log:    logger.New(&logger.Config{Level: "error"}, "test"),
	}
}

func TestSink_Run_ProducesEveryMessage(t *testing.T) {
	p := &fakeProducer{}
	sink := testSink(p)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	src := pipeline.FromSlice(ctx, []Message{
		{Key: []byte("a"), Value: []byte("1")},
		{Key: []byte("b"), Value: []byte("2")},
	})

	if err := sink.Run(ctx, src); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	msgs := p.produced()
	if len(msgs) != 2 {
		t.Fatalf("produced %d messages, want 2", len(msgs))
	}
	if msgs[0].Topic != "events" {
		t.Errorf("Topic = %q, want events (default applied)", msgs[0].Topic)
	}
	if string(msgs[0].Key) != "a" || string(msgs[1].Key) != "b" {
		t.Errorf("keys = %q,%q, want a,b", msgs[0].Key, msgs[1].Key)
	}
}

func TestSink_RunBatches_OneProducePerBatch(t *testing.T) {
	p := &fakeProducer{}
	sink := testSink(p)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	items := make([]Message, 5)
	for i := range items {
		items[i] = Message{Value: []byte{byte('0' + i)}}
	}
	batches, err := pipeline.Batch(pipeline.FromSlice(ctx, items), 2)
	if err != nil {
		t.Fatalf("Batch() error = %v", err)
	}

	if err := sink.RunBatches(ctx, batches); err != nil {
		t.Fatalf("RunBatches() error = %v", err)
	}

	if got := len(p.produced()); got != 5 {
		t.Errorf("produced %d messages, want 5", got)
	}
	// 2+2+1 batches.
	if p.calls != 3 {
		t.Errorf("produce calls = %d, want 3", p.calls)
	}
}

func TestSink_Run_RetriesTransientFailure(t *testing.T) {
	p := &fakeProducer{failures: 1}
	sink := testSink(p)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	src := pipeline.FromSlice(ctx, []Message{{Value: []byte("x")}})
	if err := sink.Run(ctx, src); err != nil {
		t.Fatalf("Run() error = %v, want retry to absorb the failure", err)
	}
	if got := len(p.produced()); got != 1 {
		t.Errorf("produced %d messages, want 1", got)
	}
}

func TestSink_Run_ExhaustedRetriesFail(t *testing.T) {
	p := &fakeProducer{failures: 100}
	sink := testSink(p)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	src := pipeline.FromSlice(ctx, []Message{{Value: []byte("x")}})
	if err := sink.Run(ctx, src); err == nil {
		t.Fatal("Run() = nil, want produce failure after retries")
	}
}

func TestJSONMessage_RoundTrip(t *testing.T) {
	type event struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}

	m, err := JSONMessage("k1", event{ID: 7, Name: "seven"})
	if err != nil {
		t.Fatalf("JSONMessage() error = %v", err)
	}
	if string(m.Key) != "k1" {
		t.Errorf("Key = %q, want k1", m.Key)
	}
	if m.Headers["content-type"] != "application/json" {
		t.Errorf("content-type header = %q", m.Headers["content-type"])
	}

	var got event
	if err := m.DecodeJSON(&got); err != nil {
		t.Fatalf("DecodeJSON() error = %v", err)
	}
	if got.ID != 7 || got.Name != "seven" {
		t.Errorf("decoded = %+v", got)
	}
}

func TestJSONMessage_GeneratesKey(t *testing.T) {
	m, err := JSONMessage("", 1)
	if err != nil {
		t.Fatalf("JSONMessage() error = %v", err)
	}
	if len(m.Key) == 0 {
		t.Error("expected a generated key for empty input")
	}
}
