// Package errors provides unified error handling for streaming pipelines.
// It implements structured error types with machine-readable codes and
// retryable detection so connectors and stage drivers can decide whether
// to retry, propagate, or surface a failure.
package errors
