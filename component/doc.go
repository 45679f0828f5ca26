// Package component defines the lifecycle interface connectors implement
// and a registry that manages them.
//
// Components are started in registration order and stopped in reverse,
// so a sink registered after its source is still writable while the
// source drains during shutdown. The bootstrap package drives a
// Registry built from config.
package component
