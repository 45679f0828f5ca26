package component

import "context"

// HealthStatus is a component's coarse health state.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusUnhealthy HealthStatus = "unhealthy"
	StatusDegraded  HealthStatus = "degraded"
)

// Health is one component's health snapshot. Details carries
// component-specific gauges (queue depths, spill counts) as strings.
type Health struct {
	Name    string            `json:"name"`
	Status  HealthStatus      `json:"status"`
	Message string            `json:"message,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// Component is the lifecycle contract the connectors implement so a
// service can bring its infrastructure up and down in order.
type Component interface {
	// Name identifies the component in the registry; must be unique.
	Name() string

	// Start brings the component up. Called once, before any use.
	Start(ctx context.Context) error

	// Stop releases the component's resources. ctx bounds the drain.
	Stop(ctx context.Context) error

	// Health reports the current state without side effects.
	Health(ctx context.Context) Health
}
