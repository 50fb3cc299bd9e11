package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/swipesavvy/location-tracking-go/internal/backend"
	"github.com/swipesavvy/location-tracking-go/internal/models"
	"github.com/swipesavvy/location-tracking-go/internal/service"
	"github.com/swipesavvy/location-tracking-go/pkg/response"
)

// TrackingHandler exposes the tracking controller over the control API. It
// plays the role the wallet app's settings screen plays against the hook.
type TrackingHandler struct {
	controller *service.Controller
	svc        *service.Service
	client     backend.Client
}

// NewTrackingHandler creates a handler bound to the shared controller and
// backend client.
func NewTrackingHandler(controller *service.Controller, svc *service.Service, client backend.Client) *TrackingHandler {
	return &TrackingHandler{
		controller: controller,
		svc:        svc,
		client:     client,
	}
}

// statusResponse is the body of GET /tracking/status.
type statusResponse struct {
	service.Snapshot
	QueueDepth int    `json:"queueDepth"`
	UserID     string `json:"userId,omitempty"`
}

// Status handles GET /api/v1/tracking/status.
func (h *TrackingHandler) Status(c *gin.Context) {
	response.Success(c, statusResponse{
		Snapshot:   h.controller.Snapshot(),
		QueueDepth: h.svc.QueueDepth(c.Request.Context()),
		UserID:     h.controller.UserID(),
	})
}

// Start handles POST /api/v1/tracking/start.
func (h *TrackingHandler) Start(c *gin.Context) {
	if h.controller.StartTracking(c.Request.Context(), h.client) {
		response.Success(c, h.controller.Snapshot())
		return
	}

	msg := h.controller.Snapshot().Error
	if msg == service.ErrMsgPermissionDenied {
		response.Forbidden(c, msg)
		return
	}
	response.InternalError(c, msg)
}

// Stop handles POST /api/v1/tracking/stop.
func (h *TrackingHandler) Stop(c *gin.Context) {
	if !h.controller.StopTracking(c.Request.Context()) {
		response.InternalError(c, h.controller.Snapshot().Error)
		return
	}
	response.Success(c, h.controller.Snapshot())
}

// Location handles GET /api/v1/tracking/location.
func (h *TrackingHandler) Location(c *gin.Context) {
	loc := h.controller.GetCurrentLocation(c.Request.Context())
	if loc == nil {
		response.NotFound(c, "No location available")
		return
	}
	response.Success(c, loc)
}

// GetPreferences handles GET /api/v1/preferences. When nothing is persisted
// yet the effective defaults are returned.
func (h *TrackingHandler) GetPreferences(c *gin.Context) {
	response.Success(c, h.controller.Preferences(c.Request.Context()))
}

// UpdatePreferences handles PUT /api/v1/preferences with a partial patch.
func (h *TrackingHandler) UpdatePreferences(c *gin.Context) {
	var patch models.PreferencePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.BadRequest(c, "Invalid preference patch")
		return
	}
	if patch.UpdateFrequency != nil {
		switch *patch.UpdateFrequency {
		case models.FrequencyFrequent, models.FrequencyNormal, models.FrequencyBatterySaver:
		default:
			response.BadRequest(c, "Invalid update frequency")
			return
		}
	}

	if !h.controller.UpdatePreferences(c.Request.Context(), patch) {
		response.InternalError(c, "Failed to update preferences")
		return
	}
	response.Success(c, h.controller.Preferences(c.Request.Context()))
}

// DrainQueue handles POST /api/v1/queue/drain.
func (h *TrackingHandler) DrainQueue(c *gin.Context) {
	h.controller.ProcessQueuedUpdates(c.Request.Context())
	response.Success(c, gin.H{"queueDepth": h.svc.QueueDepth(c.Request.Context())})
}
