package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/swipesavvy/location-tracking-go/internal/location"
	"github.com/swipesavvy/location-tracking-go/internal/models"
	"github.com/swipesavvy/location-tracking-go/internal/repository"
	"github.com/swipesavvy/location-tracking-go/internal/store"
)

// fakeProvider is a scriptable location.Provider for tests.
type fakeProvider struct {
	foreground  location.PermissionStatus
	background  location.PermissionStatus
	position    location.Position
	positionErr error
	addresses   []location.Address
	geocodeErr  error
	startErr    error
	stopErr     error

	foregroundCalls int
	backgroundCalls int
	startCalls      int
	stopCalls       int
	lastOpts        location.ContinuousOptions
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		foreground: location.PermissionGranted,
		background: location.PermissionGranted,
		position: location.Position{
			Coords:    location.Coordinates{Latitude: 30.2672, Longitude: -97.7431, Accuracy: 12.4},
			Timestamp: 1700000000000,
		},
	}
}

func (p *fakeProvider) RequestForegroundPermission(ctx context.Context) (location.PermissionStatus, error) {
	p.foregroundCalls++
	return p.foreground, nil
}

func (p *fakeProvider) RequestBackgroundPermission(ctx context.Context) (location.PermissionStatus, error) {
	p.backgroundCalls++
	return p.background, nil
}

func (p *fakeProvider) CurrentPosition(ctx context.Context, opts location.PositionOptions) (*location.Position, error) {
	if p.positionErr != nil {
		return nil, p.positionErr
	}
	pos := p.position
	return &pos, nil
}

func (p *fakeProvider) StartContinuousUpdates(ctx context.Context, taskName string, opts location.ContinuousOptions) error {
	p.startCalls++
	p.lastOpts = opts
	return p.startErr
}

func (p *fakeProvider) StopContinuousUpdates(ctx context.Context, taskName string) error {
	p.stopCalls++
	return p.stopErr
}

func (p *fakeProvider) ReverseGeocode(ctx context.Context, latitude, longitude float64) ([]location.Address, error) {
	if p.geocodeErr != nil {
		return nil, p.geocodeErr
	}
	return p.addresses, nil
}

// fakeClient is a scriptable backend.Client for tests.
type fakeClient struct {
	err   error
	resp  models.TrackLocationResponse
	calls []*models.TrackLocationRequest
}

func (c *fakeClient) TrackLocation(ctx context.Context, req *models.TrackLocationRequest) (*models.TrackLocationResponse, error) {
	c.calls = append(c.calls, req)
	if c.err != nil {
		return nil, c.err
	}
	resp := c.resp
	return &resp, nil
}

type testEnv struct {
	svc      *Service
	provider *fakeProvider
	queue    *repository.QueueRepository
	prefs    *repository.PreferenceRepository
	identity *repository.IdentityRepository
	store    store.Store
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	st := store.NewMemoryStore()
	provider := newFakeProvider()
	queue := repository.NewQueueRepository(st)
	prefs := repository.NewPreferenceRepository(st)
	identity := repository.NewIdentityRepository(st)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &testEnv{
		svc:      NewService(provider, prefs, queue, identity, logger),
		provider: provider,
		queue:    queue,
		prefs:    prefs,
		identity: identity,
		store:    st,
	}
}

func sample() *models.LocationSample {
	return &models.LocationSample{
		Latitude:  30.2672,
		Longitude: -97.7431,
		Accuracy:  12.4,
		Timestamp: 1700000000000,
	}
}

func TestStartTrackingUsesFrequencyInterval(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		frequency models.UpdateFrequency
		want      time.Duration
	}{
		{"frequent", models.FrequencyFrequent, 30 * time.Second},
		{"normal", models.FrequencyNormal, 60 * time.Second},
		{"battery saver", models.FrequencyBatterySaver, 5 * time.Minute},
		{"unset falls back to normal", "", 60 * time.Second},
		{"unrecognized falls back to normal", "turbo", 60 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			prefs := models.DefaultPreferences()
			prefs.UpdateFrequency = tt.frequency
			if err := env.prefs.Save(ctx, prefs); err != nil {
				t.Fatalf("Save failed: %v", err)
			}

			if !env.svc.StartTracking(ctx, "user-1") {
				t.Fatal("StartTracking returned false")
			}
			if got := env.provider.lastOpts.TimeInterval; got != tt.want {
				t.Errorf("TimeInterval = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStartTrackingDefaultsWhenNoPreferences(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	if !env.svc.StartTracking(ctx, "user-1") {
		t.Fatal("StartTracking returned false")
	}
	if got := env.provider.lastOpts.TimeInterval; got != 60*time.Second {
		t.Errorf("TimeInterval = %v, want 60s", got)
	}
	if got := env.provider.lastOpts.DistanceInterval; got != 50 {
		t.Errorf("DistanceInterval = %v, want 50", got)
	}
	if env.provider.lastOpts.Notification.Title != "SwipeSavvy Location Tracking" {
		t.Errorf("unexpected notification title %q", env.provider.lastOpts.Notification.Title)
	}
}

func TestStartTrackingIdempotent(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	if !env.svc.StartTracking(ctx, "user-1") {
		t.Fatal("first StartTracking returned false")
	}
	if !env.svc.StartTracking(ctx, "user-1") {
		t.Fatal("second StartTracking returned false")
	}
	if env.provider.startCalls != 1 {
		t.Errorf("provider registrations = %d, want 1", env.provider.startCalls)
	}
}

func TestStartTrackingProviderFailure(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.provider.startErr = errors.New("platform refused")

	if env.svc.StartTracking(ctx, "user-1") {
		t.Fatal("StartTracking returned true despite provider failure")
	}
	if env.svc.IsTracking() {
		t.Error("IsTracking true after failed start")
	}
	flag, err := env.identity.TrackingFlag(ctx)
	if err != nil {
		t.Fatalf("TrackingFlag failed: %v", err)
	}
	if flag {
		t.Error("tracking flag persisted after failed start")
	}
}

func TestStartTrackingPersistsFlag(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	if !env.svc.StartTracking(ctx, "user-1") {
		t.Fatal("StartTracking returned false")
	}
	flag, err := env.identity.TrackingFlag(ctx)
	if err != nil {
		t.Fatalf("TrackingFlag failed: %v", err)
	}
	if !flag {
		t.Error("tracking flag not persisted")
	}
}

func TestStopTrackingProviderFailure(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	if !env.svc.StartTracking(ctx, "user-1") {
		t.Fatal("StartTracking returned false")
	}
	env.provider.stopErr = errors.New("platform refused")

	if env.svc.StopTracking(ctx) {
		t.Fatal("StopTracking returned true despite provider failure")
	}
	if !env.svc.IsTracking() {
		t.Error("tracking state flipped despite failed stop")
	}
}

func TestInitForegroundDenied(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.provider.foreground = location.PermissionDenied

	if env.svc.Init(ctx, &fakeClient{}) {
		t.Fatal("Init returned true with foreground permission denied")
	}
	if env.provider.backgroundCalls != 0 {
		t.Errorf("background permission requested %d times after foreground denial, want 0", env.provider.backgroundCalls)
	}
}

func TestInitBackgroundDeniedIsDegradedNotFatal(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.provider.background = location.PermissionDenied

	if !env.svc.Init(ctx, &fakeClient{}) {
		t.Fatal("Init returned false on background-only denial")
	}
}

func TestTrackLocationUpdateQueuesOnFailure(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	client := &fakeClient{err: errors.New("connection refused")}
	if !env.svc.Init(ctx, client) {
		t.Fatal("Init failed")
	}

	resp := env.svc.TrackLocationUpdate(ctx, "user-1", sample(), "device-1", "1.0.0")
	if resp != nil {
		t.Errorf("response = %+v, want nil on delivery failure", resp)
	}

	updates, err := env.queue.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(updates) != 1 {
		t.Fatalf("queue depth = %d, want 1", len(updates))
	}
	got := updates[0]
	if got.UserID != "user-1" || got.DeviceID != "device-1" || got.AppVersion != "1.0.0" {
		t.Errorf("queued identity = %q/%q/%q", got.UserID, got.DeviceID, got.AppVersion)
	}
	if got.AccuracyMeters != 12 {
		t.Errorf("AccuracyMeters = %d, want 12 (rounded)", got.AccuracyMeters)
	}
	if env.svc.LastUpdate().IsZero() {
		t.Error("LastUpdate not touched after queueing")
	}
}

func TestTrackLocationUpdateWithoutClient(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	if resp := env.svc.TrackLocationUpdate(ctx, "user-1", sample(), "device-1", "1.0.0"); resp != nil {
		t.Errorf("response = %+v, want nil before Init", resp)
	}
	if depth := env.svc.QueueDepth(ctx); depth != 0 {
		t.Errorf("queue depth = %d, want 0 before Init", depth)
	}
}

func TestTrackLocationUpdateAddressField(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	client := &fakeClient{}
	if !env.svc.Init(ctx, client) {
		t.Fatal("Init failed")
	}

	env.svc.TrackLocationUpdate(ctx, "user-1", sample(), "device-1", "1.0.0")
	if client.calls[0].Address != nil {
		t.Errorf("Address = %q, want nil for empty address", *client.calls[0].Address)
	}

	withAddr := sample()
	withAddr.Address = "1 Main St Springfield, IL 62704"
	env.svc.TrackLocationUpdate(ctx, "user-1", withAddr, "device-1", "1.0.0")
	if client.calls[1].Address == nil || *client.calls[1].Address != withAddr.Address {
		t.Errorf("Address = %v, want %q", client.calls[1].Address, withAddr.Address)
	}
	if client.calls[1].LocationSource != models.LocationSourceGPS {
		t.Errorf("LocationSource = %q, want gps", client.calls[1].LocationSource)
	}
}

func TestProcessQueuedUpdatesFiltersAndClears(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	for i := 0; i < 3; i++ {
		if err := env.queue.Append(ctx, models.QueuedUpdate{UserID: "user-1", Timestamp: int64(i)}); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}
	for i := 0; i < 2; i++ {
		if err := env.queue.Append(ctx, models.QueuedUpdate{UserID: "user-2", Timestamp: int64(i)}); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	client := &fakeClient{}
	if !env.svc.Init(ctx, client) {
		t.Fatal("Init failed")
	}
	env.svc.ProcessQueuedUpdates(ctx, "user-1")

	if len(client.calls) != 3 {
		t.Errorf("replayed %d updates, want 3 (other user skipped)", len(client.calls))
	}
	for _, call := range client.calls {
		if call.UserID != "user-1" {
			t.Errorf("replayed update for %q", call.UserID)
		}
	}
	if depth := env.svc.QueueDepth(ctx); depth != 0 {
		t.Errorf("queue depth = %d after replay, want 0", depth)
	}
}

func TestProcessQueuedUpdatesClearsOnReplayFailure(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	for i := 0; i < 4; i++ {
		if err := env.queue.Append(ctx, models.QueuedUpdate{UserID: "user-1", Timestamp: int64(i)}); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	client := &fakeClient{err: errors.New("still offline")}
	if !env.svc.Init(ctx, client) {
		t.Fatal("Init failed")
	}
	env.svc.ProcessQueuedUpdates(ctx, "user-1")

	// Replay is at-most-once: failed entries are dropped with the rest.
	if depth := env.svc.QueueDepth(ctx); depth != 0 {
		t.Errorf("queue depth = %d after failed replay, want 0", depth)
	}
}

func TestProcessQueuedUpdatesWithoutClient(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	if err := env.queue.Append(ctx, models.QueuedUpdate{UserID: "user-1"}); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	env.svc.ProcessQueuedUpdates(ctx, "user-1")

	if depth := env.svc.QueueDepth(ctx); depth != 1 {
		t.Errorf("queue depth = %d, want 1 (untouched before Init)", depth)
	}
}

func TestFormatAddress(t *testing.T) {
	tests := []struct {
		name string
		addr location.Address
		want string
	}{
		{
			"all components",
			location.Address{Street: "1 Main St", City: "Springfield", Region: "IL", PostalCode: "62704"},
			"1 Main St Springfield, IL 62704",
		},
		{
			"missing region keeps separators",
			location.Address{Street: "1 Main St", City: "Springfield", PostalCode: "00000"},
			"1 Main St Springfield,  00000",
		},
		{
			"empty address collapses to comma",
			location.Address{},
			",",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatAddress(tt.addr); got != tt.want {
				t.Errorf("formatAddress = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAddressFromCoords(t *testing.T) {
	ctx := context.Background()

	env := newTestEnv(t)
	env.provider.geocodeErr = errors.New("no geocoder")
	if got := env.svc.AddressFromCoords(ctx, 1, 2); got != "" {
		t.Errorf("AddressFromCoords = %q on error, want empty", got)
	}

	env = newTestEnv(t)
	if got := env.svc.AddressFromCoords(ctx, 1, 2); got != "" {
		t.Errorf("AddressFromCoords = %q with no results, want empty", got)
	}

	env = newTestEnv(t)
	env.provider.addresses = []location.Address{
		{Street: "1 Main St", City: "Springfield", Region: "IL", PostalCode: "62704"},
		{Street: "2 Elm St", City: "Springfield", Region: "IL", PostalCode: "62704"},
	}
	if got := env.svc.AddressFromCoords(ctx, 1, 2); got != "1 Main St Springfield, IL 62704" {
		t.Errorf("AddressFromCoords = %q, want first result formatted", got)
	}
}

func TestGetCurrentLocation(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	loc := env.svc.GetCurrentLocation(ctx)
	if loc == nil {
		t.Fatal("GetCurrentLocation returned nil")
	}
	if loc.Latitude != 30.2672 || loc.Longitude != -97.7431 {
		t.Errorf("location = %v/%v", loc.Latitude, loc.Longitude)
	}
	if loc.Timestamp != 1700000000000 {
		t.Errorf("Timestamp = %d", loc.Timestamp)
	}

	env.provider.positionErr = errors.New("gps off")
	if loc := env.svc.GetCurrentLocation(ctx); loc != nil {
		t.Errorf("GetCurrentLocation = %+v on provider error, want nil", loc)
	}
}
