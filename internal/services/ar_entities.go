package services

import (
	"poiviewer/internal/catalog"
	"poiviewer/internal/domain/entities"
	"poiviewer/internal/geo"
)

// AREntity is one POI as the AR renderer places it: the geographic anchor,
// its Web Mercator projection, a label and the presentation payload.
type AREntity struct {
	POIID        string                `json:"poi_id"`
	Name         string                `json:"name"`
	Coordinate   entities.Coordinate   `json:"coordinate"`
	MercatorX    float64               `json:"mercator_x"`
	MercatorY    float64               `json:"mercator_y"`
	Presentation entities.Presentation `json:"presentation"`
}

// BuildAREntities converts every catalog POI into an AR entity, in catalog
// order. The AR scene shows all POIs, not only the selected one.
func BuildAREntities(c *catalog.Catalog) []AREntity {
	pois := c.All()
	out := make([]AREntity, 0, len(pois))
	for _, poi := range pois {
		x, y := geo.ToWebMercator(poi.Coordinate)
		out = append(out, AREntity{
			POIID:        poi.ID,
			Name:         poi.Name,
			Coordinate:   poi.Coordinate,
			MercatorX:    x,
			MercatorY:    y,
			Presentation: poi.Presentation,
		})
	}
	return out
}
