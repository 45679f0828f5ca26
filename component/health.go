package component

// ServiceHealth describes the overall health of a service and its components.
type ServiceHealth struct {
	Service    string       `json:"service"`
	Status     HealthStatus `json:"status"`
	Version    string       `json:"version,omitempty"`
	Components []Health     `json:"components,omitempty"`
}

// NewServiceHealth creates a ServiceHealth with status healthy.
func NewServiceHealth(service, version string) *ServiceHealth {
	return &ServiceHealth{
		Service: service,
		Status:  StatusHealthy,
		Version: version,
	}
}

// AddComponent adds a component health result and degrades overall status
// if needed. Unhealthy wins over degraded, degraded over healthy.
func (sh *ServiceHealth) AddComponent(h Health) {
	sh.Components = append(sh.Components, h)

	switch h.Status {
	case StatusUnhealthy:
		sh.Status = StatusUnhealthy
	case StatusDegraded:
		if sh.Status != StatusUnhealthy {
			sh.Status = StatusDegraded
		}
	}
}
