package sqlite

import (
	"context"
	"strconv"
	"sync"

	"github.com/kbukum/streamkit/component"
	"github.com/kbukum/streamkit/logger"
)

// Component manages the spill store lifecycle for the component
// registry.
type Component struct {
	cfg  Config
	log  *logger.Logger
	opts []StoreOption

	mu    sync.Mutex
	store *Store
}

var _ component.Component = (*Component)(nil)

// NewComponent creates a sqlite component. The store is not opened
// until Start.
func NewComponent(cfg Config, log *logger.Logger, opts ...StoreOption) *Component {
	cfg.ApplyDefaults()
	return &Component{cfg: cfg, log: log, opts: opts}
}

// Store returns the open store, or nil before Start.
func (c *Component) Store() *Store {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store
}

// Name returns the component name.
func (c *Component) Name() string { return "sqlite" }

// Start opens the store.
func (c *Component) Start(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store != nil {
		return nil
	}
	store, err := Open(c.cfg, c.log, c.opts...)
	if err != nil {
		return err
	}
	c.store = store
	return nil
}

// Stop closes the store.
func (c *Component) Stop(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		return nil
	}
	err := c.store.Close()
	c.store = nil
	return err
}

// Health pings the database and reports the backlog size.
func (c *Component) Health(ctx context.Context) component.Health {
	c.mu.Lock()
	store := c.store
	c.mu.Unlock()

	if store == nil {
		return component.Health{
			Name:    c.Name(),
			Status:  component.StatusUnhealthy,
			Message: "store not opened",
		}
	}
	if err := store.Ping(ctx); err != nil {
		return component.Health{
			Name:    c.Name(),
			Status:  component.StatusUnhealthy,
			Message: err.Error(),
		}
	}

	h := component.Health{
		Name:    c.Name(),
		Status:  component.StatusHealthy,
		Details: map[string]string{"path": c.cfg.Path},
	}
	if st, err := store.Stats(ctx); err == nil {
		h.Details["batches"] = strconv.Itoa(st.Batches)
		h.Details["items"] = strconv.Itoa(st.Items)
	}
	return h
}
