// Package redis bridges streamkit pipelines to Redis lists.
//
// A list is a natural FIFO conduit between processes: Sink pushes items
// onto the head with LPUSH and Source pops them off the tail with BRPOP,
// so items cross the list in write order. Payloads travel as JSON.
//
// The Client wrapper carries connection pooling, timeouts, and logging;
// Component ties it into the service lifecycle registry.
package redis
