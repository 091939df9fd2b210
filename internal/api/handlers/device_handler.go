package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"poiviewer/internal/api/middleware"
	"poiviewer/internal/bridge"
	"poiviewer/internal/domain/entities"
	"poiviewer/internal/services"
)

// DeviceHandler receives the browser's reports about the device: scene
// readiness, the camera prompt answer and location samples and errors.
type DeviceHandler struct {
	registry *bridge.Registry
}

func NewDeviceHandler(registry *bridge.Registry) *DeviceHandler {
	return &DeviceHandler{registry: registry}
}

func (h *DeviceHandler) browser(c *gin.Context) (*bridge.Browser, bool) {
	b, ok := h.registry.Browser(middleware.GetSessionID(c))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session has no browser"})
		return nil, false
	}
	return b, true
}

// SceneReady handles POST /session/ar/ready.
func (h *DeviceHandler) SceneReady(c *gin.Context) {
	b, ok := h.browser(c)
	if !ok {
		return
	}
	if err := b.ReportSceneReady(); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CameraRequest is the body of POST /session/permissions/camera.
type CameraRequest struct {
	Outcome services.PermissionOutcome `json:"outcome" binding:"required"`
}

// Camera handles POST /session/permissions/camera.
func (h *DeviceHandler) Camera(c *gin.Context) {
	var req CameraRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	b, ok := h.browser(c)
	if !ok {
		return
	}
	if err := b.ReportCamera(req.Outcome); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SampleRequest is the body of POST /session/location/samples.
type SampleRequest struct {
	Lat       *float64 `json:"lat" binding:"required"`
	Lon       *float64 `json:"lon" binding:"required"`
	AccuracyM float64  `json:"accuracy_m" binding:"min=0"`
}

// Sample handles POST /session/location/samples.
func (h *DeviceHandler) Sample(c *gin.Context) {
	var req SampleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	coord := entities.NewCoordinate(*req.Lat, *req.Lon)
	if err := coord.Validate(); err != nil {
		respondError(c, err)
		return
	}

	b, ok := h.browser(c)
	if !ok {
		return
	}
	if err := b.ReportSample(services.Sample{Coordinate: coord, AccuracyM: req.AccuracyM}); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ErrorRequest is the body of POST /session/location/errors.
type ErrorRequest struct {
	Message string `json:"message" binding:"required"`
}

// Error handles POST /session/location/errors.
func (h *DeviceHandler) Error(c *gin.Context) {
	var req ErrorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	b, ok := h.browser(c)
	if !ok {
		return
	}
	if err := b.ReportError(req.Message); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
