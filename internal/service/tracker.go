// Package service implements the location tracking core: the tracking state
// machine, the offline replay path and the background batch handler that
// keeps reporting position while the host is suspended.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/swipesavvy/location-tracking-go/internal/backend"
	"github.com/swipesavvy/location-tracking-go/internal/location"
	"github.com/swipesavvy/location-tracking-go/internal/models"
	"github.com/swipesavvy/location-tracking-go/internal/repository"
)

const (
	// TrackingTaskName identifies the continuous-updates task with the
	// location provider and the task registry.
	TrackingTaskName = "location-tracking-task"

	minimumDistanceChangeMeters = 50
	deferredUpdatesInterval     = 5 * time.Second
	replayBatchSize             = 10
)

// Service owns the tracking state machine. One instance lives for the whole
// process; the controller, the control API and the background task handler
// all share it. State transitions are guarded by a mutex because the
// background dispatch and the control API genuinely run concurrently here.
type Service struct {
	provider location.Provider
	prefs    *repository.PreferenceRepository
	queue    *repository.QueueRepository
	identity *repository.IdentityRepository
	logger   *slog.Logger

	mu         sync.Mutex
	client     backend.Client
	tracking   bool
	cached     *models.TrackingPreferences
	lastUpdate time.Time
}

// NewService wires the tracking service. The backend client is injected later
// via Init, mirroring the host handing its API client over at startup.
func NewService(provider location.Provider, prefs *repository.PreferenceRepository, queue *repository.QueueRepository, identity *repository.IdentityRepository, logger *slog.Logger) *Service {
	return &Service{
		provider: provider,
		prefs:    prefs,
		queue:    queue,
		identity: identity,
		logger:   logger,
	}
}

// Init stores the backend client and acquires location permissions. A
// foreground denial fails init and skips the background request entirely. A
// background denial is logged and accepted: foreground-only operation is a
// supported degraded mode.
func (s *Service) Init(ctx context.Context, client backend.Client) bool {
	s.mu.Lock()
	s.client = client
	s.mu.Unlock()

	status, err := s.provider.RequestForegroundPermission(ctx)
	if err != nil || status != location.PermissionGranted {
		s.logger.Warn("foreground location permission not granted", "status", string(status), "error", err)
		return false
	}

	status, err = s.provider.RequestBackgroundPermission(ctx)
	if err != nil || status != location.PermissionGranted {
		s.logger.Warn("background location permission not granted, continuing foreground-only", "status", string(status), "error", err)
	}

	return true
}

// StartTracking loads preferences and registers continuous updates with the
// provider. Calling it while already tracking is a no-op that returns true.
// On any registration failure the state is left untouched and false is
// returned; StartTracking never panics the host.
func (s *Service) StartTracking(ctx context.Context, userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tracking {
		s.logger.Info("location tracking already active")
		return true
	}

	prefs, err := s.prefs.Load(ctx)
	if err != nil {
		s.logger.Error("failed to load tracking preferences", "error", err)
		return false
	}
	if prefs == nil {
		defaults := models.DefaultPreferences()
		prefs = &defaults
	}

	opts := location.ContinuousOptions{
		Accuracy:                location.AccuracyBalanced,
		TimeInterval:            prefs.UpdateFrequency.Interval(),
		DistanceInterval:        minimumDistanceChangeMeters,
		DeferredUpdatesInterval: deferredUpdatesInterval,
		Notification: location.Notification{
			Title: "SwipeSavvy Location Tracking",
			Body:  "Getting location for nearby deals",
			Color: "#FF6B6B",
		},
	}

	if err := s.provider.StartContinuousUpdates(ctx, TrackingTaskName, opts); err != nil {
		s.logger.Error("failed to start location tracking", "user_id", userID, "error", err)
		return false
	}

	s.tracking = true
	s.cached = prefs

	if err := s.identity.SetTrackingFlag(ctx, true); err != nil {
		s.logger.Error("failed to persist tracking flag", "error", err)
	}

	s.logger.Info("location tracking started", "user_id", userID, "interval", opts.TimeInterval)
	return true
}

// StopTracking de-registers continuous updates. When the provider call fails
// the tracking state is not flipped; callers should treat false as "state
// uncertain, retry".
func (s *Service) StopTracking(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.provider.StopContinuousUpdates(ctx, TrackingTaskName); err != nil {
		s.logger.Error("failed to stop location tracking", "error", err)
		return false
	}

	s.tracking = false

	if err := s.identity.SetTrackingFlag(ctx, false); err != nil {
		s.logger.Error("failed to persist tracking flag", "error", err)
	}

	s.logger.Info("location tracking stopped")
	return true
}

// IsTracking reports the current tracking state.
func (s *Service) IsTracking() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tracking
}

// LastUpdate returns when the last update was submitted or queued, zero when
// none has been.
func (s *Service) LastUpdate() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUpdate
}

// SetPreferences replaces the in-memory preference cache so the next
// StartTracking sees a fresh preference write without re-reading the store.
func (s *Service) SetPreferences(prefs *models.TrackingPreferences) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cached = prefs
}

// Preferences returns the cached preferences, nil before the first
// StartTracking or SetPreferences.
func (s *Service) Preferences() *models.TrackingPreferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cached
}

// GetCurrentLocation fetches a single fix at balanced accuracy. It returns
// nil on any failure: "no location available now" is not an error callers
// need to handle.
func (s *Service) GetCurrentLocation(ctx context.Context) *models.LocationSample {
	pos, err := s.provider.CurrentPosition(ctx, location.PositionOptions{Accuracy: location.AccuracyBalanced})
	if err != nil {
		s.logger.Error("failed to get current location", "error", err)
		return nil
	}
	return sampleFromPosition(pos)
}

// TrackLocationUpdate submits one update to the merchant platform. On any
// delivery failure the update is parked in the offline queue and nil is
// returned; a nil return is therefore ambiguous between "queued" and "no
// response", which callers accept by design. Calling before Init is a
// programmer error: it is logged and short-circuited without queuing.
func (s *Service) TrackLocationUpdate(ctx context.Context, userID string, sample *models.LocationSample, deviceID, appVersion string) *models.TrackLocationResponse {
	s.mu.Lock()
	client := s.client
	s.mu.Unlock()

	if client == nil {
		s.logger.Warn("api client not initialized")
		return nil
	}

	req := &models.TrackLocationRequest{
		UserID:         userID,
		Latitude:       sample.Latitude,
		Longitude:      sample.Longitude,
		AccuracyMeters: int(math.Round(sample.Accuracy)),
		LocationSource: models.LocationSourceGPS,
		DeviceID:       deviceID,
		AppVersion:     appVersion,
	}
	if sample.Address != "" {
		req.Address = &sample.Address
	}

	resp, err := client.TrackLocation(ctx, req)
	if err != nil {
		s.logger.Error("failed to track location, queueing for replay", "user_id", userID, "error", err)
		s.enqueueUpdate(ctx, userID, sample, deviceID, appVersion)
		s.touchLastUpdate()
		return nil
	}

	if resp.GeofenceTriggered && resp.CampaignQueued {
		// Hook for the host to surface a notification; the agent only logs it.
		s.logger.Info("campaign triggered at merchant", "merchant_id", resp.NearestMerchantID)
	}

	s.touchLastUpdate()
	return resp
}

// AddressFromCoords reverse-geocodes a coordinate into a single display
// string, omitting empty components. Returns "" on failure or when the
// provider has no result.
func (s *Service) AddressFromCoords(ctx context.Context, latitude, longitude float64) string {
	addresses, err := s.provider.ReverseGeocode(ctx, latitude, longitude)
	if err != nil {
		s.logger.Error("failed to reverse geocode", "error", err)
		return ""
	}
	if len(addresses) == 0 {
		return ""
	}
	return formatAddress(addresses[0])
}

// ProcessQueuedUpdates replays the offline queue against the track endpoint
// in batches of 10, sequentially, skipping entries that belong to another
// user. The queue is cleared unconditionally afterwards: replay is
// at-most-once per call, and entries whose re-POST failed are dropped along
// with everything else. Hosts decide when to call this, typically on
// connectivity-restored events.
func (s *Service) ProcessQueuedUpdates(ctx context.Context, userID string) {
	s.mu.Lock()
	client := s.client
	s.mu.Unlock()

	if client == nil {
		return
	}

	updates, err := s.queue.Load(ctx)
	if err != nil {
		s.logger.Error("failed to load update queue", "error", err)
		return
	}
	if len(updates) == 0 {
		return
	}

	for i := 0; i < len(updates); i += replayBatchSize {
		end := i + replayBatchSize
		if end > len(updates) {
			end = len(updates)
		}
		for _, update := range updates[i:end] {
			if update.UserID != userID {
				continue
			}
			if _, err := client.TrackLocation(ctx, update.Request()); err != nil {
				s.logger.Error("failed to replay queued update", "error", err)
			}
		}
	}

	if err := s.queue.Clear(ctx); err != nil {
		s.logger.Error("failed to clear update queue", "error", err)
		return
	}
	s.logger.Info("processed queued location updates", "count", len(updates))
}

// QueueDepth reports how many updates await replay.
func (s *Service) QueueDepth(ctx context.Context) int {
	return s.queue.Depth(ctx)
}

func (s *Service) enqueueUpdate(ctx context.Context, userID string, sample *models.LocationSample, deviceID, appVersion string) {
	update := models.QueuedUpdate{
		UserID:         userID,
		Latitude:       sample.Latitude,
		Longitude:      sample.Longitude,
		AccuracyMeters: int(math.Round(sample.Accuracy)),
		DeviceID:       deviceID,
		AppVersion:     appVersion,
		Timestamp:      time.Now().UnixMilli(),
	}
	if err := s.queue.Append(ctx, update); err != nil {
		s.logger.Error("failed to queue location update", "error", err)
	}
}

func (s *Service) touchLastUpdate() {
	s.mu.Lock()
	s.lastUpdate = time.Now()
	s.mu.Unlock()
}

func sampleFromPosition(pos *location.Position) *models.LocationSample {
	return &models.LocationSample{
		Latitude:  pos.Coords.Latitude,
		Longitude: pos.Coords.Longitude,
		Accuracy:  pos.Coords.Accuracy,
		Altitude:  pos.Coords.Altitude,
		Timestamp: pos.Timestamp,
	}
}

// formatAddress joins street, city, region and postal code the way the wallet
// app renders addresses. The separator layout is deliberate and pinned by a
// test; empty components collapse but keep their surrounding separators.
func formatAddress(addr location.Address) string {
	return strings.TrimSpace(fmt.Sprintf("%s %s, %s %s", addr.Street, addr.City, addr.Region, addr.PostalCode))
}
