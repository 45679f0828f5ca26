// Package version reports the running build: the ldflags-set module
// version plus the commit, dirty flag, and build date the Go toolchain
// embeds. bootstrap stamps it into the service logger and summary.
package version
