package bootstrap

import (
	"context"
	"fmt"
)

// Hook is a lifecycle callback. Hooks of one phase run sequentially in
// registration order; the first error aborts the phase.
type Hook func(ctx context.Context) error

// OnStart hooks run after components start, before pipeline assembly.
func (a *App[C]) OnStart(hooks ...Hook) { a.onStart = append(a.onStart, hooks...) }

// OnReady hooks run after the ready check, right before the service
// begins processing.
func (a *App[C]) OnReady(hooks ...Hook) { a.onReady = append(a.onReady, hooks...) }

// OnStop hooks run at the start of shutdown, while components are still
// up. Flush pending batches and complete open streams here.
func (a *App[C]) OnStop(hooks ...Hook) { a.onStop = append(a.onStop, hooks...) }

func runHooks(ctx context.Context, hooks []Hook) error {
	for i, h := range hooks {
		if err := h(ctx); err != nil {
			return fmt.Errorf("hook %d: %w", i, err)
		}
	}
	return nil
}
