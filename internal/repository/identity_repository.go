package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/swipesavvy/location-tracking-go/internal/store"
)

// IdentityRepository resolves the user and device identity attached to every
// location update, plus the persisted "was tracking" flag used to restore
// state across restarts. The background task handler reads identity fresh on
// every invocation, so nothing is cached here.
type IdentityRepository struct {
	store store.Store
}

// NewIdentityRepository creates an identity repository over the store.
func NewIdentityRepository(st store.Store) *IdentityRepository {
	return &IdentityRepository{store: st}
}

// UserID returns the stored user id, or "" when no user is signed in.
func (r *IdentityRepository) UserID(ctx context.Context) (string, error) {
	id, err := r.store.GetItem(ctx, store.KeyUserID)
	if err == store.ErrNotFound {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to load user id: %w", err)
	}
	return id, nil
}

// SetUserID persists the signed-in user id.
func (r *IdentityRepository) SetUserID(ctx context.Context, id string) error {
	if err := r.store.SetItem(ctx, store.KeyUserID, id); err != nil {
		return fmt.Errorf("failed to persist user id: %w", err)
	}
	return nil
}

// DeviceID returns the stored device id, provisioning and persisting a new
// one on first use.
func (r *IdentityRepository) DeviceID(ctx context.Context) (string, error) {
	id, err := r.store.GetItem(ctx, store.KeyDeviceID)
	if err == nil {
		return id, nil
	}
	if err != store.ErrNotFound {
		return "", fmt.Errorf("failed to load device id: %w", err)
	}

	id = uuid.NewString()
	if err := r.store.SetItem(ctx, store.KeyDeviceID, id); err != nil {
		return "", fmt.Errorf("failed to persist device id: %w", err)
	}
	return id, nil
}

// TrackingFlag reports whether tracking was active the last time the flag was
// persisted. The flag is advisory: it records what the service believes, not
// what the provider confirms.
func (r *IdentityRepository) TrackingFlag(ctx context.Context) (bool, error) {
	v, err := r.store.GetItem(ctx, store.KeyTrackingFlag)
	if err == store.ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to load tracking flag: %w", err)
	}
	return v == "true", nil
}

// SetTrackingFlag persists the tracking flag.
func (r *IdentityRepository) SetTrackingFlag(ctx context.Context, active bool) error {
	v := "false"
	if active {
		v = "true"
	}
	if err := r.store.SetItem(ctx, store.KeyTrackingFlag, v); err != nil {
		return fmt.Errorf("failed to persist tracking flag: %w", err)
	}
	return nil
}
