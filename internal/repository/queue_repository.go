package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/swipesavvy/location-tracking-go/internal/models"
	"github.com/swipesavvy/location-tracking-go/internal/store"
)

// maxQueuedUpdates caps the offline queue; the oldest entry is evicted when a
// new entry would exceed it.
const maxQueuedUpdates = 100

// QueueRepository manages the persisted FIFO of undelivered location updates.
// The underlying store is last-writer-wins, so the read-modify-write in
// Append is serialized here with a mutex.
type QueueRepository struct {
	store store.Store
	limit int

	mu sync.Mutex
}

// NewQueueRepository creates a queue repository with the default size cap.
func NewQueueRepository(st store.Store) *QueueRepository {
	return &QueueRepository{store: st, limit: maxQueuedUpdates}
}

// Load returns the queued updates in insertion order. An absent or unparsable
// blob is treated as an empty queue, never as an error.
func (r *QueueRepository) Load(ctx context.Context) ([]models.QueuedUpdate, error) {
	raw, err := r.store.GetItem(ctx, store.KeyUpdateQueue)
	if err == store.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load update queue: %w", err)
	}

	var updates []models.QueuedUpdate
	if err := json.Unmarshal([]byte(raw), &updates); err != nil {
		return nil, nil
	}
	return updates, nil
}

// Append adds an update to the tail of the queue, evicting the oldest entry
// once the cap is reached.
func (r *QueueRepository) Append(ctx context.Context, update models.QueuedUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	updates, err := r.Load(ctx)
	if err != nil {
		updates = nil
	}

	updates = append(updates, update)
	if len(updates) > r.limit {
		updates = updates[1:]
	}

	return r.save(ctx, updates)
}

// Clear replaces the queue with an empty array.
func (r *QueueRepository) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.save(ctx, []models.QueuedUpdate{})
}

// Depth reports how many updates are waiting for replay.
func (r *QueueRepository) Depth(ctx context.Context) int {
	updates, err := r.Load(ctx)
	if err != nil {
		return 0
	}
	return len(updates)
}

func (r *QueueRepository) save(ctx context.Context, updates []models.QueuedUpdate) error {
	if updates == nil {
		updates = []models.QueuedUpdate{}
	}
	data, err := json.Marshal(updates)
	if err != nil {
		return fmt.Errorf("failed to encode update queue: %w", err)
	}
	if err := r.store.SetItem(ctx, store.KeyUpdateQueue, string(data)); err != nil {
		return fmt.Errorf("failed to persist update queue: %w", err)
	}
	return nil
}
