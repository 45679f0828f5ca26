package kafka

import (
	"context"
	"fmt"
	"sync"

	"github.com/kbukum/streamkit/component"
	"github.com/kbukum/streamkit/logger"
)

// closer is anything the component shuts down on Stop.
type closer interface {
	Close() error
}

// Component groups a service's Kafka sources and sinks under one
// lifecycle so the registry can start and stop them in order.
type Component struct {
	cfg Config
	log *logger.Logger

	mu      sync.Mutex
	closers []closer
	running bool
}

var _ component.Component = (*Component)(nil)

// NewComponent creates a Kafka component for use with the component
// registry. Sources and sinks are attached with Manage before Start.
func NewComponent(cfg Config, log *logger.Logger) *Component {
	cfg.ApplyDefaults()
	return &Component{
		cfg: cfg,
		log: log.WithComponent("kafka"),
	}
}

// Manage registers a source or sink for shutdown on Stop.
func (c *Component) Manage(cl closer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closers = append(c.closers, cl)
}

// Name returns the component name.
func (c *Component) Name() string { return "kafka" }

// Start marks the component running. Sources begin consuming when their
// streams are opened, so there is nothing to launch here.
func (c *Component) Start(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return nil
	}
	c.running = true
	c.log.Info("Kafka component started", map[string]interface{}{
		"brokers": c.cfg.Brokers,
	})
	return nil
}

// Stop closes every managed source and sink.
func (c *Component) Stop(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return nil
	}
	c.log.Info("Kafka component stopping")
	for _, cl := range c.closers {
		if err := cl.Close(); err != nil {
			c.log.Error("Close failed", map[string]interface{}{"error": err.Error()})
		}
	}
	c.closers = nil
	c.running = false
	return nil
}

// Health dials the first broker and asks for cluster metadata.
func (c *Component) Health(ctx context.Context) component.Health {
	c.mu.Lock()
	running := c.running
	cfg := c.cfg
	c.mu.Unlock()

	if !running {
		return component.Health{
			Name:    c.Name(),
			Status:  component.StatusUnhealthy,
			Message: "kafka not started",
		}
	}
	if len(cfg.Brokers) == 0 {
		return component.Health{
			Name:    c.Name(),
			Status:  component.StatusUnhealthy,
			Message: "no brokers configured",
		}
	}

	dialer, err := newDialer(&cfg)
	if err != nil {
		return component.Health{
			Name:    c.Name(),
			Status:  component.StatusUnhealthy,
			Message: fmt.Sprintf("dialer: %v", err),
		}
	}

	conn, err := dialer.DialContext(ctx, "tcp", cfg.Brokers[0])
	if err != nil {
		return component.Health{
			Name:    c.Name(),
			Status:  component.StatusUnhealthy,
			Message: fmt.Sprintf("broker unreachable: %v", err),
		}
	}
	defer conn.Close()

	if _, err := conn.Brokers(); err != nil {
		return component.Health{
			Name:    c.Name(),
			Status:  component.StatusDegraded,
			Message: fmt.Sprintf("broker metadata: %v", err),
		}
	}

	return component.Health{
		Name:   c.Name(),
		Status: component.StatusHealthy,
		Details: map[string]string{
			"brokers": fmt.Sprintf("%v", cfg.Brokers),
			"topic":   cfg.Topic,
		},
	}
}
