package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/swipesavvy/location-tracking-go/internal/backend"
	"github.com/swipesavvy/location-tracking-go/internal/models"
	"github.com/swipesavvy/location-tracking-go/internal/repository"
)

// Error strings surfaced to the host. These are user-facing and part of the
// control API contract.
const (
	ErrMsgPermissionDenied = "Location permission denied"
	ErrMsgStartFailed      = "Failed to start tracking"
	ErrMsgStopFailed       = "Failed to stop tracking"
)

// Snapshot is a point-in-time view of the controller state for a host
// surface (control API, CLI).
type Snapshot struct {
	IsTracking bool                   `json:"isTracking"`
	Location   *models.LocationSample `json:"location,omitempty"`
	Error      string                 `json:"error,omitempty"`
	LastUpdate *time.Time             `json:"lastUpdate,omitempty"`
}

// Controller mirrors the tracking service into host-visible state: the last
// known location, a tracking boolean and the last error message. It is the
// agent's analog of the wallet app's tracking hook, with the same imperative
// surface. No public method panics or returns an error; failures become
// sentinels plus the Error field.
type Controller struct {
	svc      *Service
	identity *repository.IdentityRepository
	prefs    *repository.PreferenceRepository
	logger   *slog.Logger

	mu       sync.Mutex
	userID   string
	tracking bool
	location *models.LocationSample
	lastErr  string
}

// NewController creates a controller over the shared tracking service.
func NewController(svc *Service, identity *repository.IdentityRepository, prefs *repository.PreferenceRepository, logger *slog.Logger) *Controller {
	return &Controller{
		svc:      svc,
		identity: identity,
		prefs:    prefs,
		logger:   logger,
	}
}

// Restore loads the persisted user id and the last tracking flag. A "true"
// flag only means the service believed tracking was active when the flag was
// written; the provider registration is deliberately not re-verified or
// re-issued here.
func (c *Controller) Restore(ctx context.Context) {
	userID, err := c.identity.UserID(ctx)
	if err != nil {
		c.logger.Error("failed to restore tracking state", "error", err)
		return
	}

	wasTracking, err := c.identity.TrackingFlag(ctx)
	if err != nil {
		c.logger.Error("failed to restore tracking state", "error", err)
		return
	}

	c.mu.Lock()
	c.userID = userID
	if wasTracking {
		c.tracking = true
	}
	c.mu.Unlock()
}

// SetUserID persists and adopts a new signed-in user id.
func (c *Controller) SetUserID(ctx context.Context, userID string) bool {
	if err := c.identity.SetUserID(ctx, userID); err != nil {
		c.logger.Error("failed to persist user id", "error", err)
		return false
	}
	c.mu.Lock()
	c.userID = userID
	c.mu.Unlock()
	return true
}

// StartTracking initializes the service with the backend client and starts
// tracking. On success the error state is cleared and one current location
// is fetched to seed the snapshot; a failed seed fetch does not affect the
// returned true.
func (c *Controller) StartTracking(ctx context.Context, client backend.Client) bool {
	if !c.svc.Init(ctx, client) {
		c.setError(ErrMsgPermissionDenied)
		return false
	}

	c.mu.Lock()
	userID := c.userID
	c.mu.Unlock()

	if !c.svc.StartTracking(ctx, userID) {
		c.setError(ErrMsgStartFailed)
		return false
	}

	c.mu.Lock()
	c.tracking = true
	c.lastErr = ""
	c.mu.Unlock()

	if loc := c.svc.GetCurrentLocation(ctx); loc != nil {
		c.mu.Lock()
		c.location = loc
		c.mu.Unlock()
	}

	return true
}

// StopTracking stops the service and mirrors the result.
func (c *Controller) StopTracking(ctx context.Context) bool {
	if !c.svc.StopTracking(ctx) {
		c.setError(ErrMsgStopFailed)
		return false
	}
	c.mu.Lock()
	c.tracking = false
	c.mu.Unlock()
	return true
}

// GetCurrentLocation fetches a one-shot fix and records it in the snapshot.
// Returns nil when no location is available.
func (c *Controller) GetCurrentLocation(ctx context.Context) *models.LocationSample {
	loc := c.svc.GetCurrentLocation(ctx)
	if loc != nil {
		c.mu.Lock()
		c.location = loc
		c.mu.Unlock()
	}
	return loc
}

// UpdatePreferences shallow-merges the patch into the persisted preferences
// and pushes the merged result into the service's in-memory cache so the
// next StartTracking sees it without a fresh store read.
func (c *Controller) UpdatePreferences(ctx context.Context, patch models.PreferencePatch) bool {
	merged, err := c.prefs.Merge(ctx, patch)
	if err != nil {
		c.logger.Error("failed to update preferences", "error", err)
		return false
	}
	c.svc.SetPreferences(merged)
	return true
}

// Preferences returns the effective preferences: the service's in-memory
// cache when warm, otherwise the persisted value, otherwise the defaults.
func (c *Controller) Preferences(ctx context.Context) models.TrackingPreferences {
	if cached := c.svc.Preferences(); cached != nil {
		return *cached
	}
	prefs, err := c.prefs.Load(ctx)
	if err != nil || prefs == nil {
		return models.DefaultPreferences()
	}
	return *prefs
}

// ProcessQueuedUpdates drains the offline queue for the current user.
func (c *Controller) ProcessQueuedUpdates(ctx context.Context) {
	c.mu.Lock()
	userID := c.userID
	c.mu.Unlock()
	c.svc.ProcessQueuedUpdates(ctx, userID)
}

// Snapshot returns the current host-visible state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		IsTracking: c.tracking,
		Location:   c.location,
		Error:      c.lastErr,
	}
	if last := c.svc.LastUpdate(); !last.IsZero() {
		snap.LastUpdate = &last
	}
	return snap
}

// UserID returns the current user id, "" when signed out.
func (c *Controller) UserID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.userID
}

func (c *Controller) setError(msg string) {
	c.mu.Lock()
	c.lastErr = msg
	c.mu.Unlock()
}
