// Package backend talks to the merchant platform REST API. The platform is
// an external collaborator; this package implements exactly one call of its
// contract, the location track endpoint.
package backend

import (
	"context"

	"github.com/swipesavvy/location-tracking-go/internal/models"
)

// Client submits location updates to the merchant platform. Any non-nil error
// is treated uniformly by callers: transport failures, non-2xx statuses and
// an open circuit breaker all route the update to the offline queue.
type Client interface {
	TrackLocation(ctx context.Context, req *models.TrackLocationRequest) (*models.TrackLocationResponse, error)
}
