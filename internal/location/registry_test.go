package location

import (
	"context"
	"testing"
)

func TestRegistryDefineAndDispatch(t *testing.T) {
	ctx := context.Background()
	registry := NewRegistry()

	if registry.IsDefined("task-a") {
		t.Error("IsDefined = true on empty registry")
	}

	var got TaskBatch
	registry.Define("task-a", func(ctx context.Context, batch TaskBatch) {
		got = batch
	})

	if !registry.IsDefined("task-a") {
		t.Error("IsDefined = false after Define")
	}

	batch := TaskBatch{Locations: []Position{{Timestamp: 42}}}
	if err := registry.Dispatch(ctx, "task-a", batch); err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}
	if len(got.Locations) != 1 || got.Locations[0].Timestamp != 42 {
		t.Errorf("handler received %+v", got)
	}
}

func TestRegistryDispatchUnknownTask(t *testing.T) {
	registry := NewRegistry()
	if err := registry.Dispatch(context.Background(), "nope", TaskBatch{}); err == nil {
		t.Error("Dispatch to unknown task returned nil error")
	}
}
