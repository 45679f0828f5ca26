// Package sqlite provides a durable spill store for pipeline batches.
//
// Spill drains batches out of a stream into an embedded SQLite database;
// Replay claims them back for processing with at-least-once semantics:
// a batch is deleted only after its handler succeeds, and released for
// re-claiming (after an optional cooldown) when it fails. Payloads are
// stored as JSON blobs, optionally sealed with an encryption.Encryptor.
//
// The store survives process restarts when backed by a file; the
// default ":memory:" mode is for tests and single-run tools.
package sqlite
