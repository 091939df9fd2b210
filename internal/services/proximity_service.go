package services

import (
	"sort"

	"poiviewer/internal/catalog"
	"poiviewer/internal/domain/entities"
	"poiviewer/internal/geo"
	"poiviewer/internal/metrics"
)

// ProximityService answers "which POIs are near this point" against the
// catalog.
type ProximityService struct {
	catalog       *catalog.Catalog
	defaultRadius float64
}

func NewProximityService(c *catalog.Catalog, defaultRadiusKm float64) *ProximityService {
	return &ProximityService{
		catalog:       c,
		defaultRadius: defaultRadiusKm,
	}
}

// Nearby returns every POI within radiusKm of origin, nearest first. POIs at
// equal distance keep their catalog order. A radius <= 0 selects the default
// radius.
//
// The whole catalog is scanned on every call. Catalogs are small and static,
// and recomputing avoids serving stale results; the returned slice is always
// newly allocated.
//
// Go Learning Note — sort.SliceStable:
// sort.Slice makes no promise about the relative order of equal elements.
// SliceStable does, which is what keeps ties in catalog order here.
func (s *ProximityService) Nearby(origin entities.Coordinate, radiusKm float64) []entities.POIWithDistance {
	if radiusKm <= 0 {
		radiusKm = s.defaultRadius
	}

	results := make([]entities.POIWithDistance, 0)
	for _, poi := range s.catalog.All() {
		d := geo.DistanceKm(origin, poi.Coordinate)
		if d <= radiusKm {
			results = append(results, entities.POIWithDistance{POI: poi, DistanceKm: d})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].DistanceKm < results[j].DistanceKm
	})

	metrics.NearbyQueriesTotal.Inc()
	metrics.NearbyResultSize.Observe(float64(len(results)))
	return results
}

// NearbyIDs returns only the POI ids of Nearby, in the same order.
func (s *ProximityService) NearbyIDs(origin entities.Coordinate, radiusKm float64) []string {
	nearby := s.Nearby(origin, radiusKm)
	ids := make([]string, len(nearby))
	for i, n := range nearby {
		ids[i] = n.POI.ID
	}
	return ids
}

// DistanceTo returns the distance in km from origin to the POI with the given id.
func (s *ProximityService) DistanceTo(poiID string, origin entities.Coordinate) (float64, error) {
	poi, err := s.catalog.Get(poiID)
	if err != nil {
		return 0, err
	}
	return geo.DistanceKm(origin, poi.Coordinate), nil
}

// DefaultRadiusKm is the radius used when a query passes none.
func (s *ProximityService) DefaultRadiusKm() float64 {
	return s.defaultRadius
}
