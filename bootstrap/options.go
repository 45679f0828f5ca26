package bootstrap

import (
	"time"

	"github.com/kbukum/streamkit/logger"
)

// settings collects option values before NewApp builds the app.
// Options stay non-generic so they work with any config type.
type settings struct {
	logger       *logger.Logger
	drainTimeout time.Duration
}

// Option adjusts app construction.
type Option func(*settings)

// WithLogger supplies a ready-made logger instead of initializing one
// from the config's Logging section.
func WithLogger(l *logger.Logger) Option {
	return func(s *settings) { s.logger = l }
}

// WithDrainTimeout bounds shutdown: OnStop hooks plus component stops
// share this budget. Default 15s.
func WithDrainTimeout(d time.Duration) Option {
	return func(s *settings) { s.drainTimeout = d }
}
