package location

import (
	"context"
	"fmt"
	"sync"
)

// TaskBatch is what a provider hands to a registered task: either an error or
// a batch of coalesced fixes, oldest first.
type TaskBatch struct {
	Err       error
	Locations []Position
}

// TaskHandler consumes one batch. Handlers must not panic; the provider owns
// retry policy for background delivery and will not re-dispatch a batch.
type TaskHandler func(ctx context.Context, batch TaskBatch)

// Registry maps task names to handlers. It stands in for the OS task manager:
// defined once per process, consulted by providers when a batch arrives.
type Registry struct {
	mu    sync.Mutex
	tasks map[string]TaskHandler
}

// NewRegistry returns an empty task registry.
func NewRegistry() *Registry {
	return &Registry{tasks: make(map[string]TaskHandler)}
}

// IsDefined reports whether a task is already registered under name. Callers
// guard Define with this to tolerate re-initialization of the host.
func (r *Registry) IsDefined(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.tasks[name]
	return ok
}

// Define registers the handler for name, replacing any previous handler.
func (r *Registry) Define(name string, handler TaskHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks[name] = handler
}

// Dispatch invokes the handler registered under name with the batch. It
// returns an error only when no such task exists.
func (r *Registry) Dispatch(ctx context.Context, name string, batch TaskBatch) error {
	r.mu.Lock()
	handler, ok := r.tasks[name]
	r.mu.Unlock()
	if !ok {
		return fmt.Errorf("no task defined for %q", name)
	}
	handler(ctx, batch)
	return nil
}
