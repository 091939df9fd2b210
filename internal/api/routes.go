package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"poiviewer/internal/api/handlers"
	"poiviewer/internal/api/middleware"
	"poiviewer/internal/metrics"
	"poiviewer/internal/services"
)

type Router struct {
	poiHandler     *handlers.POIHandler
	sessionHandler *handlers.SessionHandler
	deviceHandler  *handlers.DeviceHandler
	streamHandler  *handlers.StreamHandler
	sessions       *services.SessionService
}

func NewRouter(
	poiHandler *handlers.POIHandler,
	sessionHandler *handlers.SessionHandler,
	deviceHandler *handlers.DeviceHandler,
	streamHandler *handlers.StreamHandler,
	sessions *services.SessionService,
) *Router {
	return &Router{
		poiHandler:     poiHandler,
		sessionHandler: sessionHandler,
		deviceHandler:  deviceHandler,
		streamHandler:  streamHandler,
		sessions:       sessions,
	}
}

func (r *Router) Setup(engine *gin.Engine) {
	engine.Use(middleware.RequestLogger())

	// Health check endpoint
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": r.sessions.Count()})
	})
	engine.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Catalog endpoints (no session needed)
	engine.GET("/config/map", r.poiHandler.MapConfig)
	pois := engine.Group("/pois")
	{
		pois.GET("", r.poiHandler.List)
		pois.GET("/nearby", r.poiHandler.Nearby)
		pois.GET("/geojson", r.poiHandler.GeoJSON)
		pois.GET("/clusters", r.poiHandler.Clusters)
		pois.GET("/:id", r.poiHandler.Get)
	}

	engine.POST("/sessions", r.sessionHandler.Create)

	// Session routes
	session := engine.Group("/session")
	session.Use(middleware.SessionAuth(r.sessions))
	{
		session.GET("", r.sessionHandler.Get)
		session.DELETE("", r.sessionHandler.Delete)
		session.GET("/stream", r.streamHandler.Stream)

		session.PUT("/selection", r.sessionHandler.Select)
		session.DELETE("/selection", r.sessionHandler.ClosePanel)
		session.POST("/ar/enter", r.sessionHandler.EnterAR)
		session.POST("/ar/exit", r.sessionHandler.ExitAR)
		session.POST("/locate", r.sessionHandler.Locate)

		// Device reports from the browser
		session.POST("/ar/ready", r.deviceHandler.SceneReady)
		session.POST("/permissions/camera", r.deviceHandler.Camera)
		session.POST("/location/samples", r.deviceHandler.Sample)
		session.POST("/location/errors", r.deviceHandler.Error)
	}
}
