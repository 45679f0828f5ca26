// Package kafka connects streamkit pipelines to Kafka topics.
//
// Source consumes a topic and exposes the messages as a channel read end,
// so they can flow through pipeline stages like any other stream. Sink
// drains a stream of messages and produces them to a topic, one network
// write per batch when paired with pipeline.Batch.
//
// The connector handles TLS/SASL broker transport, read backoff, and
// produce retries; the core pipeline packages stay transport-free.
package kafka
