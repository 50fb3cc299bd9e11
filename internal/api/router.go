package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/swipesavvy/location-tracking-go/internal/config"
	"github.com/swipesavvy/location-tracking-go/internal/handler"
	"github.com/swipesavvy/location-tracking-go/internal/middleware"
)

// SetupRouter wires the control API routes.
func SetupRouter(cfg *config.Config, tracking *handler.TrackingHandler, logger *slog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Location tracking agent is running",
		})
	})

	api := r.Group("/api/v1")
	if cfg.AuthSecret != "" {
		api.Use(middleware.Auth(cfg.AuthSecret))
	}
	{
		tr := api.Group("/tracking")
		{
			tr.GET("/status", tracking.Status)
			tr.GET("/location", tracking.Location)
			tr.POST("/start", tracking.Start)
			tr.POST("/stop", tracking.Stop)
		}

		api.GET("/preferences", tracking.GetPreferences)
		api.PUT("/preferences", tracking.UpdatePreferences)

		api.POST("/queue/drain", tracking.DrainQueue)
	}

	return r
}
