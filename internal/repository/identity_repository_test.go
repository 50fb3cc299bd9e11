package repository

import (
	"context"
	"testing"

	"github.com/swipesavvy/location-tracking-go/internal/store"
)

func TestUserIDAbsent(t *testing.T) {
	ctx := context.Background()
	repo := NewIdentityRepository(store.NewMemoryStore())

	id, err := repo.UserID(ctx)
	if err != nil {
		t.Fatalf("UserID failed: %v", err)
	}
	if id != "" {
		t.Errorf("UserID = %q when signed out, want empty", id)
	}
}

func TestUserIDRoundtrip(t *testing.T) {
	ctx := context.Background()
	repo := NewIdentityRepository(store.NewMemoryStore())

	if err := repo.SetUserID(ctx, "user-42"); err != nil {
		t.Fatalf("SetUserID failed: %v", err)
	}
	id, err := repo.UserID(ctx)
	if err != nil {
		t.Fatalf("UserID failed: %v", err)
	}
	if id != "user-42" {
		t.Errorf("UserID = %q, want user-42", id)
	}
}

func TestDeviceIDProvisionedOnce(t *testing.T) {
	ctx := context.Background()
	repo := NewIdentityRepository(store.NewMemoryStore())

	first, err := repo.DeviceID(ctx)
	if err != nil {
		t.Fatalf("DeviceID failed: %v", err)
	}
	if first == "" {
		t.Fatal("DeviceID empty on first use")
	}

	second, err := repo.DeviceID(ctx)
	if err != nil {
		t.Fatalf("DeviceID failed: %v", err)
	}
	if second != first {
		t.Errorf("DeviceID changed between calls: %q then %q", first, second)
	}
}

func TestTrackingFlag(t *testing.T) {
	ctx := context.Background()
	repo := NewIdentityRepository(store.NewMemoryStore())

	flag, err := repo.TrackingFlag(ctx)
	if err != nil {
		t.Fatalf("TrackingFlag failed: %v", err)
	}
	if flag {
		t.Error("TrackingFlag = true with nothing persisted")
	}

	if err := repo.SetTrackingFlag(ctx, true); err != nil {
		t.Fatalf("SetTrackingFlag failed: %v", err)
	}
	flag, err = repo.TrackingFlag(ctx)
	if err != nil {
		t.Fatalf("TrackingFlag failed: %v", err)
	}
	if !flag {
		t.Error("TrackingFlag = false after setting true")
	}

	if err := repo.SetTrackingFlag(ctx, false); err != nil {
		t.Fatalf("SetTrackingFlag failed: %v", err)
	}
	flag, err = repo.TrackingFlag(ctx)
	if err != nil {
		t.Fatalf("TrackingFlag failed: %v", err)
	}
	if flag {
		t.Error("TrackingFlag = true after setting false")
	}
}
