// Package resilience provides retry with exponential backoff and jitter.
//
// Connector sinks use it around transport writes; the core pipeline
// stages never retry, so a failed transform surfaces immediately.
//
//	msgs, err := resilience.Retry(ctx, resilience.DefaultRetryConfig(), func() ([]Message, error) {
//	    return client.Fetch(ctx)
//	})
//
// The default retry predicate follows the errors package taxonomy:
// errors marked retryable are retried, cancellation never is.
package resilience
