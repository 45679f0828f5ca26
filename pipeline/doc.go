// Package pipeline provides composable streaming stages built on top of
// the channel package. Stages connect through channel read and write ends,
// so every stage inherits channel semantics: bounded or unbounded buffering,
// backpressure, and drained completion with an optional error.
//
// # Stages
//
//   - Transform: concurrent per-item transformation with fan-out
//   - Map: single-worker Transform convenience
//   - Batch: groups consecutive items into fixed-size slices
//   - Filter: drops items that fail a predicate
//   - Tap: observes items without modifying them
//   - Merge: combines multiple streams into one
//   - Broadcast: delivers every item to every subscriber
//
// # Sources and sinks
//
//   - FromSlice, FromFunc: produce a stream
//   - Collect, ForEach, Drain: consume a stream to completion
//
// Stages propagate failure downstream: when a source completes with an
// error, every stage reading from it completes its own output with the
// same error after flushing the items it already holds.
package pipeline
