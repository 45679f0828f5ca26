// Package util holds small generic helpers shared across streamkit:
// slice de-duplication and membership checks, plus parsing and masking
// helpers used when loading and echoing connector configuration.
package util
