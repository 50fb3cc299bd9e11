package service

import (
	"context"
	"log/slog"

	"github.com/swipesavvy/location-tracking-go/internal/location"
	"github.com/swipesavvy/location-tracking-go/internal/repository"
)

// RegisterBackgroundTask defines the handler the provider invokes with each
// batch of coalesced fixes. Registration is guarded so re-initializing the
// host does not define the task twice. The handler never propagates an error
// or panic into the provider's delivery loop.
//
// A batch may run in a context with no foreground state at all, so user and
// device identity are resolved fresh from the store on every invocation.
func RegisterBackgroundTask(registry *location.Registry, svc *Service, identity *repository.IdentityRepository, appVersion string, logger *slog.Logger) {
	if registry.IsDefined(TrackingTaskName) {
		return
	}

	registry.Define(TrackingTaskName, func(ctx context.Context, batch location.TaskBatch) {
		if batch.Err != nil {
			logger.Error("location tracking task error", "error", batch.Err)
			return
		}
		if len(batch.Locations) == 0 {
			return
		}

		// Only the freshest fix matters for merchant proximity; earlier fixes
		// in a coalesced batch are discarded, not queued.
		pos := batch.Locations[len(batch.Locations)-1]

		userID, err := identity.UserID(ctx)
		if err != nil {
			logger.Error("failed to resolve user id", "error", err)
			return
		}
		deviceID, err := identity.DeviceID(ctx)
		if err != nil {
			logger.Error("failed to resolve device id", "error", err)
			return
		}

		sample := sampleFromPosition(&pos)
		sample.Address = svc.AddressFromCoords(ctx, sample.Latitude, sample.Longitude)

		svc.TrackLocationUpdate(ctx, userID, sample, deviceID, appVersion)

		logger.Debug("location updated",
			"latitude", sample.Latitude,
			"longitude", sample.Longitude,
			"accuracy", sample.Accuracy,
		)
	})
}
