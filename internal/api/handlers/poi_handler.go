package handlers

import (
	"math"
	"net/http"

	"github.com/gin-gonic/gin"

	"poiviewer/internal/catalog"
	"poiviewer/internal/config"
	"poiviewer/internal/domain/entities"
	"poiviewer/internal/geo"
	"poiviewer/internal/services"
)

// POIHandler serves the read-only catalog endpoints: the POI list, proximity
// queries and the map marker layers.
type POIHandler struct {
	catalog   *catalog.Catalog
	proximity *services.ProximityService
	mapConfig config.MapConfig
}

func NewPOIHandler(c *catalog.Catalog, proximity *services.ProximityService, mapConfig config.MapConfig) *POIHandler {
	return &POIHandler{
		catalog:   c,
		proximity: proximity,
		mapConfig: mapConfig,
	}
}

// List handles GET /pois.
func (h *POIHandler) List(c *gin.Context) {
	pois := h.catalog.All()
	c.JSON(http.StatusOK, gin.H{
		"pois":  pois,
		"count": len(pois),
	})
}

// Get handles GET /pois/:id.
func (h *POIHandler) Get(c *gin.Context) {
	poi, err := h.catalog.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, poi)
}

// NearbyQuery is the query string of GET /pois/nearby. Pointers tell a
// missing coordinate apart from a zero one.
type NearbyQuery struct {
	Lat      *float64 `form:"lat" binding:"required"`
	Lon      *float64 `form:"lon" binding:"required"`
	RadiusKm float64  `form:"radius_km"`
}

// Nearby handles GET /pois/nearby. Without radius_km the default radius is
// used.
func (h *POIHandler) Nearby(c *gin.Context) {
	var q NearbyQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	origin := entities.NewCoordinate(*q.Lat, *q.Lon)
	if err := origin.Validate(); err != nil {
		respondError(c, err)
		return
	}

	radius := q.RadiusKm
	if math.IsNaN(radius) || math.IsInf(radius, 0) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "radius_km must be a finite number"})
		return
	}
	if radius <= 0 {
		radius = h.proximity.DefaultRadiusKm()
	}

	results := h.proximity.Nearby(origin, radius)
	c.JSON(http.StatusOK, gin.H{
		"origin":    origin,
		"radius_km": radius,
		"results":   results,
		"count":     len(results),
	})
}

// GeoJSON handles GET /pois/geojson, the marker layer of the map.
func (h *POIHandler) GeoJSON(c *gin.Context) {
	fc, err := h.catalog.FeatureCollection()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fc)
}

// ClusterQuery is the query string of GET /pois/clusters. Precision wins
// over zoom; with neither, the initial map zoom decides.
type ClusterQuery struct {
	Precision int `form:"precision" binding:"omitempty,min=1,max=12"`
	Zoom      int `form:"zoom" binding:"omitempty,min=0,max=22"`
}

// Clusters handles GET /pois/clusters.
func (h *POIHandler) Clusters(c *gin.Context) {
	var q ClusterQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	precision := q.Precision
	if precision == 0 {
		zoom := q.Zoom
		if zoom == 0 {
			zoom = h.mapConfig.InitialZoom
		}
		precision = geo.PrecisionForZoom(zoom)
	}

	clusters := h.catalog.Clusters(precision)
	c.JSON(http.StatusOK, gin.H{
		"precision": precision,
		"clusters":  clusters,
	})
}

// MapConfig handles GET /config/map: the map's initial view and zoom limits.
func (h *POIHandler) MapConfig(c *gin.Context) {
	c.JSON(http.StatusOK, h.mapConfig)
}
