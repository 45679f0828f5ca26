package component

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/kbukum/streamkit/logger"
)

// stopTimeout bounds each component's Stop call so one stuck connector
// cannot eat the whole shutdown budget.
const stopTimeout = 10 * time.Second

// Registry owns the components of a service. StartAll brings them up in
// registration order; StopAll tears them down in reverse, so a sink
// registered after its source outlives it during shutdown.
type Registry struct {
	mu      sync.RWMutex
	order   []Component
	byName  map[string]Component
	started map[string]bool
}

func NewRegistry() *Registry {
	return &Registry{
		byName:  make(map[string]Component),
		started: make(map[string]bool),
	}
}

// Register adds c under its name. Names are unique; register
// dependencies before their dependents.
func (r *Registry) Register(c Component) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := c.Name()
	if _, dup := r.byName[name]; dup {
		return fmt.Errorf("component %s already registered", name)
	}
	r.order = append(r.order, c)
	r.byName[name] = c
	logger.Debug("Component registered", map[string]interface{}{logger.FieldComponent: name})
	return nil
}

// StartAll starts every component in registration order and stops at
// the first failure, leaving earlier components running for the caller
// to tear down.
func (r *Registry) StartAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	logger.Info("Starting components", map[string]interface{}{"count": len(r.order)})
	for _, c := range r.order {
		if err := c.Start(ctx); err != nil {
			logger.Error("Component start failed", map[string]interface{}{
				logger.FieldComponent: c.Name(),
				logger.FieldError:     err.Error(),
			})
			return fmt.Errorf("starting %s: %w", c.Name(), err)
		}
		r.started[c.Name()] = true
		logger.Debug("Component started", map[string]interface{}{logger.FieldComponent: c.Name()})
	}
	return nil
}

// StopAll stops started components in reverse registration order. Every
// component gets a stop attempt; the joined errors come back at the end.
func (r *Registry) StopAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for i := len(r.order) - 1; i >= 0; i-- {
		c := r.order[i]
		if !r.started[c.Name()] {
			continue
		}
		stopCtx, cancel := context.WithTimeout(ctx, stopTimeout)
		err := c.Stop(stopCtx)
		cancel()
		r.started[c.Name()] = false
		if err != nil {
			logger.Error("Component stop failed", map[string]interface{}{
				logger.FieldComponent: c.Name(),
				logger.FieldError:     err.Error(),
			})
			errs = append(errs, fmt.Errorf("stopping %s: %w", c.Name(), err))
			continue
		}
		logger.Debug("Component stopped", map[string]interface{}{logger.FieldComponent: c.Name()})
	}
	return errors.Join(errs...)
}

// HealthAll polls every component, in registration order.
func (r *Registry) HealthAll(ctx context.Context) []Health {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Health, 0, len(r.order))
	for _, c := range r.order {
		out = append(out, c.Health(ctx))
	}
	return out
}

// ServiceHealth folds the component healths into one service-level report.
func (r *Registry) ServiceHealth(ctx context.Context, service, version string) *ServiceHealth {
	sh := NewServiceHealth(service, version)
	for _, h := range r.HealthAll(ctx) {
		sh.AddComponent(h)
	}
	return sh
}

// Get returns the component registered under name, or nil.
func (r *Registry) Get(name string) Component {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byName[name]
}

// All returns the components in registration order.
func (r *Registry) All() []Component {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Component, len(r.order))
	copy(out, r.order)
	return out
}
