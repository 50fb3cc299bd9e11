package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/swipesavvy/location-tracking-go/internal/models"
	"github.com/swipesavvy/location-tracking-go/internal/store"
)

// PreferenceRepository persists the user's tracking preferences.
type PreferenceRepository struct {
	store store.Store
}

// NewPreferenceRepository creates a preference repository over the store.
func NewPreferenceRepository(st store.Store) *PreferenceRepository {
	return &PreferenceRepository{store: st}
}

// Load returns the persisted preferences, or nil when nothing usable is
// stored. Malformed blobs are treated the same as absent ones; the caller
// decides what the defaults are.
func (r *PreferenceRepository) Load(ctx context.Context) (*models.TrackingPreferences, error) {
	raw, err := r.store.GetItem(ctx, store.KeyPreferences)
	if err == store.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load preferences: %w", err)
	}

	var prefs models.TrackingPreferences
	if err := json.Unmarshal([]byte(raw), &prefs); err != nil {
		return nil, nil
	}
	return &prefs, nil
}

// Save persists the preferences.
func (r *PreferenceRepository) Save(ctx context.Context, prefs models.TrackingPreferences) error {
	data, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}
	if err := r.store.SetItem(ctx, store.KeyPreferences, string(data)); err != nil {
		return fmt.Errorf("failed to persist preferences: %w", err)
	}
	return nil
}

// Merge applies a shallow patch to whatever is currently persisted and writes
// the result back. When nothing is persisted yet the patch is applied to a
// zero-value preferences object, matching the original merge-into-empty
// behavior rather than merge-into-defaults.
func (r *PreferenceRepository) Merge(ctx context.Context, patch models.PreferencePatch) (*models.TrackingPreferences, error) {
	current, err := r.Load(ctx)
	if err != nil {
		return nil, err
	}
	if current == nil {
		current = &models.TrackingPreferences{}
	}

	patch.Apply(current)
	if err := r.Save(ctx, *current); err != nil {
		return nil, err
	}
	return current, nil
}
