package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/meetscribe-team/meetscribe/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg            *config.Config
	meetingHandler *Meeting
}

// NewRouter creates a new router with all handlers
func NewRouter(cfg *config.Config, meetingHandler *Meeting) *Router {
	return &Router{
		cfg:            cfg,
		meetingHandler: meetingHandler,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	e.GET("/health", rt.healthCheck)

	if rt.cfg.Upload.ServeLocal {
		e.Static("/uploads", rt.cfg.Upload.Dir)
	}

	v1 := e.Group("/v1")
	rt.setupMeetingRoutes(v1)
	rt.setupExternalRoutes(v1)
}

func (rt *Router) setupMeetingRoutes(g *echo.Group) {
	meetings := g.Group("/meetings")
	meetings.POST("", rt.meetingHandler.Upload)
	meetings.GET("", rt.meetingHandler.List)
	meetings.GET("/:id", rt.meetingHandler.Get)
	meetings.GET("/:id/detail", rt.meetingHandler.Detail)
	meetings.POST("/:id/share", rt.meetingHandler.Share)
	meetings.POST("/:id/download", rt.meetingHandler.Download)
}

func (rt *Router) setupExternalRoutes(g *echo.Group) {
	external := g.Group("/external")
	external.POST("/recordings", rt.meetingHandler.ReceiveRecording)
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"environment": rt.cfg.Server.Environment,
	})
}
