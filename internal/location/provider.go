// Package location abstracts the platform location capability: permission
// requests, one-shot fixes, continuous background-survivable updates and
// reverse geocoding. The tracking service only ever talks to this interface.
package location

import (
	"context"
	"time"
)

// PermissionStatus is the outcome of a permission request. Only "granted" is
// ever checked; everything else is treated as a denial.
type PermissionStatus string

const (
	PermissionGranted      PermissionStatus = "granted"
	PermissionDenied       PermissionStatus = "denied"
	PermissionUndetermined PermissionStatus = "undetermined"
)

// Accuracy selects the positioning accuracy tier for a fix.
type Accuracy int

const (
	AccuracyLow Accuracy = iota
	AccuracyBalanced
	AccuracyHigh
)

// Coordinates is a raw position as reported by a provider.
type Coordinates struct {
	Latitude  float64
	Longitude float64
	Accuracy  float64 // meters
	Altitude  *float64
}

// Position is a timestamped fix.
type Position struct {
	Coords    Coordinates
	Timestamp int64 // milliseconds since epoch
}

// Address is one reverse-geocoding result.
type Address struct {
	Street     string
	City       string
	Region     string
	PostalCode string
}

// Notification describes the foreground-service notification some platforms
// require while continuous updates run.
type Notification struct {
	Title string
	Body  string
	Color string
}

// PositionOptions configures a one-shot fix.
type PositionOptions struct {
	Accuracy Accuracy
}

// ContinuousOptions configures continuous updates. Providers may coalesce
// fixes and deliver them in batches no more often than
// DeferredUpdatesInterval.
type ContinuousOptions struct {
	Accuracy                Accuracy
	TimeInterval            time.Duration
	DistanceInterval        float64 // meters; fixes closer than this are suppressed
	DeferredUpdatesInterval time.Duration
	Notification            Notification
}

// Provider is the platform location capability. Continuous updates are
// delivered by dispatching batches to the task registered under taskName,
// which may happen outside the lifecycle of the code that called Start.
type Provider interface {
	RequestForegroundPermission(ctx context.Context) (PermissionStatus, error)
	RequestBackgroundPermission(ctx context.Context) (PermissionStatus, error)
	CurrentPosition(ctx context.Context, opts PositionOptions) (*Position, error)
	StartContinuousUpdates(ctx context.Context, taskName string, opts ContinuousOptions) error
	StopContinuousUpdates(ctx context.Context, taskName string) error
	ReverseGeocode(ctx context.Context, latitude, longitude float64) ([]Address, error)
}
