package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
)

// Message is the unit a Kafka stream carries: the payload plus the
// metadata a pipeline stage may want to key or partition on. Offset and
// Partition are populated on consumed messages and ignored on produce.
type Message struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Time      time.Time
}

// JSONMessage marshals v into a Message value. An empty key gets a
// random UUID so partitioning stays spread without caller bookkeeping.
func JSONMessage(key string, v any) (Message, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return Message{}, fmt.Errorf("marshal JSON: %w", err)
	}
	if key == "" {
		key = uuid.NewString()
	}
	return Message{
		Key:     []byte(key),
		Value:   data,
		Headers: map[string]string{"content-type": "application/json"},
	}, nil
}

// DecodeJSON unmarshals the message value into out.
func (m Message) DecodeJSON(out any) error {
	return json.Unmarshal(m.Value, out)
}

func fromKafka(msg kafkago.Message) Message {
	out := Message{
		Key:       msg.Key,
		Value:     msg.Value,
		Topic:     msg.Topic,
		Partition: msg.Partition,
		Offset:    msg.Offset,
		Time:      msg.Time,
	}
	if len(msg.Headers) > 0 {
		out.Headers = make(map[string]string, len(msg.Headers))
		for _, h := range msg.Headers {
			out.Headers[h.Key] = string(h.Value)
		}
	}
	return out
}

// toKafka converts for produce. The sink's writer carries no static
// topic, so every message names its own; defaultTopic fills the gap.
func toKafka(m Message, defaultTopic string) kafkago.Message {
	msg := kafkago.Message{
		Topic: m.Topic,
		Key:   m.Key,
		Value: m.Value,
		Time:  m.Time,
	}
	if msg.Topic == "" {
		msg.Topic = defaultTopic
	}
	for k, v := range m.Headers {
		msg.Headers = append(msg.Headers, kafkago.Header{Key: k, Value: []byte(v)})
	}
	return msg
}
