package redis

import (
	"context"
	"fmt"
	"sync"

	"github.com/kbukum/streamkit/component"
	"github.com/kbukum/streamkit/logger"
)

// Component manages the Redis client lifecycle for the component
// registry: connect and ping on Start, close on Stop.
type Component struct {
	cfg    Config
	log    *logger.Logger
	mu     sync.Mutex
	client *Client
}

var _ component.Component = (*Component)(nil)

// NewComponent creates a Redis component. The client is not connected
// until Start.
func NewComponent(cfg Config, log *logger.Logger) *Component {
	cfg.ApplyDefaults()
	return &Component{cfg: cfg, log: log}
}

// Client returns the connected client, or nil before Start.
func (c *Component) Client() *Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.client
}

// Name returns the component name.
func (c *Component) Name() string { return "redis" }

// Start connects and verifies the connection with a ping.
func (c *Component) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client != nil {
		return nil
	}

	client, err := New(c.cfg, c.log)
	if err != nil {
		return err
	}
	if err := client.Ping(ctx); err != nil {
		_ = client.Close()
		return fmt.Errorf("redis start: %w", err)
	}
	c.client = client
	return nil
}

// Stop closes the client.
func (c *Component) Stop(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client == nil {
		return nil
	}
	err := c.client.Close()
	c.client = nil
	return err
}

// Health pings the server.
func (c *Component) Health(ctx context.Context) component.Health {
	c.mu.Lock()
	client := c.client
	c.mu.Unlock()

	if client == nil {
		return component.Health{
			Name:    c.Name(),
			Status:  component.StatusUnhealthy,
			Message: "redis not started",
		}
	}
	if err := client.Ping(ctx); err != nil {
		return component.Health{
			Name:    c.Name(),
			Status:  component.StatusUnhealthy,
			Message: err.Error(),
		}
	}
	return component.Health{
		Name:   c.Name(),
		Status: component.StatusHealthy,
		Details: map[string]string{
			"addr": c.cfg.Addr,
			"key":  c.cfg.Key,
		},
	}
}
