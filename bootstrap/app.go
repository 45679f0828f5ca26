package bootstrap

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/kbukum/streamkit/component"
	"github.com/kbukum/streamkit/logger"
	"github.com/kbukum/streamkit/version"
)

// App ties a typed service config to the component registry and the
// lifecycle phases of a stream service. The type parameter C is the
// config type; any struct embedding config.ServiceConfig satisfies the
// Config constraint through promoted methods.
type App[C Config] struct {
	Name       string
	Version    string
	Cfg        C
	Components *component.Registry
	Logger     *logger.Logger
	Report     *Report

	drainTimeout time.Duration

	assemble []func(ctx context.Context, app *App[C]) error
	onStart  []Hook
	onReady  []Hook
	onStop   []Hook
}

// NewApp validates cfg (after applying its defaults) and builds an app
// around it. The logger comes from the config's Logging section unless
// WithLogger overrides it; a missing version falls back to build info.
func NewApp[C Config](cfg C, opts ...Option) (*App[C], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	base := cfg.GetServiceConfig()

	s := settings{drainTimeout: 15 * time.Second}
	for _, opt := range opts {
		opt(&s)
	}

	a := &App[C]{
		Name:         base.Name,
		Version:      base.Version,
		Cfg:          cfg,
		Components:   component.NewRegistry(),
		Logger:       s.logger,
		drainTimeout: s.drainTimeout,
	}
	if a.Version == "" {
		a.Version = version.Get().Version
	}
	if a.Logger == nil {
		logger.Init(&base.Logging)
		a.Logger = logger.GetGlobalLogger()
	}
	a.Report = newReport(a.Name, a.Version)
	return a, nil
}

// RegisterComponent adds c to the registry. Components start in
// registration order and stop in reverse, so register sinks after their
// sources to drain downstream first on shutdown.
func (a *App[C]) RegisterComponent(c component.Component) error {
	return a.Components.Register(c)
}

// OnAssemble registers a callback that wires pipeline stages together
// once every component is up. The typed app is passed in so callbacks
// reach cfg and components without globals.
func (a *App[C]) OnAssemble(fn func(ctx context.Context, app *App[C]) error) {
	a.assemble = append(a.assemble, fn)
}

// ReadyCheck fails when any registered component reports a status other
// than healthy.
func (a *App[C]) ReadyCheck(ctx context.Context) error {
	var failing []string
	for _, h := range a.Components.HealthAll(ctx) {
		if h.Status == component.StatusHealthy {
			continue
		}
		d := h.Name + "=" + string(h.Status)
		if h.Message != "" {
			d += "(" + h.Message + ")"
		}
		failing = append(failing, d)
	}
	if len(failing) > 0 {
		return fmt.Errorf("unhealthy components: %v", failing)
	}
	return nil
}

// Run brings the service up, blocks until SIGINT/SIGTERM or ctx
// cancellation, then drains and stops everything.
func (a *App[C]) Run(ctx context.Context) error {
	if err := a.up(ctx); err != nil {
		return err
	}

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	a.Logger.Info("Service ready")
	<-sigCtx.Done()
	if ctx.Err() == nil {
		a.Logger.Info("Shutdown signal received")
	}

	return a.down()
}

// RunTask brings the service up, runs one finite task, and tears down
// when the task returns or a shutdown signal cancels it. Meant for
// backfills and spill replays that want the same config, logger, and
// component lifecycle as a long-running service.
func (a *App[C]) RunTask(ctx context.Context, task func(ctx context.Context) error) error {
	if err := a.up(ctx); err != nil {
		return err
	}

	taskCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	taskErr := task(taskCtx)
	if downErr := a.down(); downErr != nil && taskErr == nil {
		return downErr
	}
	return taskErr
}

// Shutdown drains and stops everything. Use it when the caller owns the
// run loop instead of Run.
func (a *App[C]) Shutdown(ctx context.Context) error {
	return a.down()
}

func (a *App[C]) up(ctx context.Context) error {
	began := time.Now()
	a.Logger.Info("Starting service", map[string]interface{}{
		"name":    a.Name,
		"version": a.Version,
	})

	if err := a.Components.StartAll(ctx); err != nil {
		return fmt.Errorf("starting components: %w", err)
	}
	if err := runHooks(ctx, a.onStart); err != nil {
		return fmt.Errorf("onStart hook: %w", err)
	}

	for _, fn := range a.assemble {
		if err := fn(ctx, a); err != nil {
			return fmt.Errorf("assembling pipelines: %w", err)
		}
	}

	if err := a.ReadyCheck(ctx); err != nil {
		// Degraded connectors may still recover; report and continue.
		a.Logger.Warn("Ready check reported issues", map[string]interface{}{
			"error": err.Error(),
		})
	}
	if err := runHooks(ctx, a.onReady); err != nil {
		return fmt.Errorf("onReady hook: %w", err)
	}

	a.Report.startupDuration = time.Since(began)
	a.Report.Log(ctx, a.Components, a.Logger)
	return nil
}

func (a *App[C]) down() error {
	a.Logger.Info("Stopping service", map[string]interface{}{
		"drain_timeout": a.drainTimeout.String(),
	})
	ctx, cancel := context.WithTimeout(context.Background(), a.drainTimeout)
	defer cancel()

	var firstErr error
	if err := runHooks(ctx, a.onStop); err != nil {
		a.Logger.Error("OnStop hook failed", map[string]interface{}{"error": err.Error()})
		firstErr = err
	}
	if err := a.Components.StopAll(ctx); err != nil {
		a.Logger.Error("Component shutdown reported errors", map[string]interface{}{"error": err.Error()})
		if firstErr == nil {
			firstErr = err
		}
	}
	a.Logger.Info("Service stopped")
	return firstErr
}
