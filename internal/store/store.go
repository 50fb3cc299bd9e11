package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a key has no value.
var ErrNotFound = errors.New("store: key not found")

// Store is a string-keyed JSON blob store. It is the only mutable resource
// shared between the foreground service and the background task handler,
// which may run in separate processes, so every key is last-writer-wins with
// no read-modify-write guarantee at this layer.
type Store interface {
	GetItem(ctx context.Context, key string) (string, error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
}
