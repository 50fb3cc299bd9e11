package repository

import (
	"context"
	"testing"

	"github.com/swipesavvy/location-tracking-go/internal/models"
	"github.com/swipesavvy/location-tracking-go/internal/store"
)

func TestPreferencesLoadAbsent(t *testing.T) {
	ctx := context.Background()
	repo := NewPreferenceRepository(store.NewMemoryStore())

	prefs, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if prefs != nil {
		t.Errorf("Load = %+v for absent key, want nil", prefs)
	}
}

func TestPreferencesLoadMalformed(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	if err := st.SetItem(ctx, store.KeyPreferences, "not json"); err != nil {
		t.Fatalf("SetItem failed: %v", err)
	}

	repo := NewPreferenceRepository(st)
	prefs, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if prefs != nil {
		t.Errorf("Load = %+v for malformed blob, want nil", prefs)
	}
}

func TestPreferencesSaveRoundtrip(t *testing.T) {
	ctx := context.Background()
	repo := NewPreferenceRepository(store.NewMemoryStore())

	want := models.TrackingPreferences{
		EnableTracking:   true,
		EnableGeofencing: false,
		UpdateFrequency:  models.FrequencyBatterySaver,
		ShareLocation:    true,
	}
	if err := repo.Save(ctx, want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got == nil || *got != want {
		t.Errorf("Load = %+v, want %+v", got, want)
	}
}

func TestPreferencesMergeIntoEmpty(t *testing.T) {
	ctx := context.Background()
	repo := NewPreferenceRepository(store.NewMemoryStore())

	freq := models.FrequencyFrequent
	merged, err := repo.Merge(ctx, models.PreferencePatch{UpdateFrequency: &freq})
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}

	// With nothing persisted the patch lands on a zero-value object.
	if merged.UpdateFrequency != models.FrequencyFrequent {
		t.Errorf("UpdateFrequency = %q, want frequent", merged.UpdateFrequency)
	}
	if merged.EnableTracking || merged.EnableGeofencing || merged.ShareLocation {
		t.Errorf("unpatched fields = %+v, want zero values", merged)
	}
}

func TestPreferencesMergePreservesUnpatched(t *testing.T) {
	ctx := context.Background()
	repo := NewPreferenceRepository(store.NewMemoryStore())

	if err := repo.Save(ctx, models.DefaultPreferences()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	share := false
	merged, err := repo.Merge(ctx, models.PreferencePatch{ShareLocation: &share})
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}
	if merged.ShareLocation {
		t.Error("ShareLocation = true, want patched false")
	}
	if !merged.EnableTracking || !merged.EnableGeofencing {
		t.Errorf("unpatched toggles changed: %+v", merged)
	}
	if merged.UpdateFrequency != models.FrequencyNormal {
		t.Errorf("UpdateFrequency = %q, want normal", merged.UpdateFrequency)
	}

	persisted, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if persisted == nil || *persisted != *merged {
		t.Errorf("persisted = %+v, want merged result %+v", persisted, merged)
	}
}
