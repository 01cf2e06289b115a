package setup

import (
	"context"
	"fmt"
)

// Hook is a callback run while the runtime shuts down.
type Hook func(ctx context.Context) error

// OnStop registers hooks that run at shutdown, before the telemetry
// providers are flushed, so anything they record is still exported.
func (r *Runtime) OnStop(hooks ...Hook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onStop = append(r.onStop, hooks...)
}

// runHooks executes hooks sequentially, returning the first error.
func runHooks(ctx context.Context, hooks []Hook) error {
	for i, h := range hooks {
		if err := h(ctx); err != nil {
			return fmt.Errorf("hook %d failed: %w", i, err)
		}
	}
	return nil
}
