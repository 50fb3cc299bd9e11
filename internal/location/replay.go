package location

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/swipesavvy/location-tracking-go/internal/spatial"
)

// defaultAccuracyMeters is reported on simulated fixes that carry no
// accuracy of their own.
const defaultAccuracyMeters = 15.0

// ReplayProvider simulates the platform location capability by walking a
// route of waypoints at a fixed ground speed. It honors the time interval,
// minimum distance change and deferred batching of ContinuousOptions, so the
// rest of the stack behaves exactly as it would against a real provider.
// Used for development, demos and tests; permissions default to granted.
type ReplayProvider struct {
	registry *Registry
	logger   *slog.Logger

	mu         sync.Mutex
	waypoints  []Coordinates
	leg        int
	position   Coordinates
	speedMPS   float64
	foreground PermissionStatus
	background PermissionStatus
	addresses  []Address
	active     map[string]chan struct{}
}

// NewReplayProvider creates a provider that loops over waypoints at speedMPS.
// At least two waypoints are required to make progress; with fewer the
// provider stays put and emits identical fixes.
func NewReplayProvider(registry *Registry, waypoints []Coordinates, speedMPS float64, logger *slog.Logger) *ReplayProvider {
	p := &ReplayProvider{
		registry:   registry,
		logger:     logger,
		waypoints:  waypoints,
		speedMPS:   speedMPS,
		foreground: PermissionGranted,
		background: PermissionGranted,
		active:     make(map[string]chan struct{}),
	}
	if len(waypoints) > 0 {
		p.position = waypoints[0]
	}
	if p.position.Accuracy == 0 {
		p.position.Accuracy = defaultAccuracyMeters
	}
	return p
}

// SetPermissions overrides the simulated permission outcomes.
func (p *ReplayProvider) SetPermissions(foreground, background PermissionStatus) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.foreground = foreground
	p.background = background
}

// SetAddresses sets the results returned by ReverseGeocode.
func (p *ReplayProvider) SetAddresses(addresses []Address) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.addresses = addresses
}

// RequestForegroundPermission returns the configured foreground outcome.
func (p *ReplayProvider) RequestForegroundPermission(context.Context) (PermissionStatus, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.foreground, nil
}

// RequestBackgroundPermission returns the configured background outcome.
func (p *ReplayProvider) RequestBackgroundPermission(context.Context) (PermissionStatus, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.background, nil
}

// CurrentPosition returns the current simulated position.
func (p *ReplayProvider) CurrentPosition(context.Context, PositionOptions) (*Position, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return &Position{Coords: p.position, Timestamp: time.Now().UnixMilli()}, nil
}

// ReverseGeocode returns the configured addresses regardless of coordinates.
func (p *ReplayProvider) ReverseGeocode(context.Context, float64, float64) ([]Address, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.addresses, nil
}

// StartContinuousUpdates begins walking the route, dispatching batches to the
// task registered under taskName until StopContinuousUpdates is called.
func (p *ReplayProvider) StartContinuousUpdates(_ context.Context, taskName string, opts ContinuousOptions) error {
	if opts.TimeInterval <= 0 {
		return fmt.Errorf("time interval must be positive")
	}

	p.mu.Lock()
	if _, running := p.active[taskName]; running {
		p.mu.Unlock()
		return fmt.Errorf("continuous updates already running for %q", taskName)
	}
	stop := make(chan struct{})
	p.active[taskName] = stop
	p.mu.Unlock()

	flushInterval := opts.DeferredUpdatesInterval
	if flushInterval <= 0 {
		flushInterval = opts.TimeInterval
	}

	go p.run(taskName, opts, flushInterval, stop)
	return nil
}

// StopContinuousUpdates stops delivery for taskName.
func (p *ReplayProvider) StopContinuousUpdates(_ context.Context, taskName string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	stop, running := p.active[taskName]
	if !running {
		return fmt.Errorf("no continuous updates running for %q", taskName)
	}
	close(stop)
	delete(p.active, taskName)
	return nil
}

func (p *ReplayProvider) run(taskName string, opts ContinuousOptions, flushInterval time.Duration, stop chan struct{}) {
	ticker := time.NewTicker(opts.TimeInterval)
	defer ticker.Stop()
	flush := time.NewTicker(flushInterval)
	defer flush.Stop()

	var pending []Position
	var lastEmitted *Coordinates

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			fix := p.advance(opts.TimeInterval)
			if lastEmitted != nil && opts.DistanceInterval > 0 {
				moved := spatial.HaversineDistance(lastEmitted.Latitude, lastEmitted.Longitude, fix.Latitude, fix.Longitude)
				if moved < opts.DistanceInterval {
					continue
				}
			}
			pending = append(pending, Position{Coords: fix, Timestamp: time.Now().UnixMilli()})
			lastEmitted = &fix
		case <-flush.C:
			if len(pending) == 0 {
				continue
			}
			batch := pending
			pending = nil
			if err := p.registry.Dispatch(context.Background(), taskName, TaskBatch{Locations: batch}); err != nil {
				p.logger.Error("dispatch location batch", "task", taskName, "error", err)
			}
		}
	}
}

// advance moves the simulated position along the route by speed * dt,
// wrapping back to the first waypoint at the end of the route.
func (p *ReplayProvider) advance(dt time.Duration) Coordinates {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.waypoints) < 2 || p.speedMPS <= 0 {
		return p.position
	}

	remaining := p.speedMPS * dt.Seconds()
	for remaining > 0 {
		next := p.waypoints[(p.leg+1)%len(p.waypoints)]
		toNext := spatial.HaversineDistance(p.position.Latitude, p.position.Longitude, next.Latitude, next.Longitude)
		if toNext <= remaining {
			p.position.Latitude = next.Latitude
			p.position.Longitude = next.Longitude
			p.leg = (p.leg + 1) % len(p.waypoints)
			remaining -= toNext
			if toNext == 0 {
				break
			}
			continue
		}
		bearing := spatial.Bearing(p.position.Latitude, p.position.Longitude, next.Latitude, next.Longitude)
		p.position.Latitude, p.position.Longitude = spatial.DestinationPoint(p.position.Latitude, p.position.Longitude, bearing, remaining)
		remaining = 0
	}
	return p.position
}
