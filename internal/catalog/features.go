package catalog

import (
	"fmt"

	geom "github.com/peterstace/simplefeatures/geom"

	"poiviewer/internal/domain/entities"
	"poiviewer/internal/geo"
)

// Feature is one GeoJSON marker. geom.Point marshals itself as a GeoJSON
// geometry.
type Feature struct {
	Type       string         `json:"type"`
	ID         string         `json:"id"`
	Geometry   geom.Point     `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

// FeatureCollection is a GeoJSON FeatureCollection.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// FeatureCollection exports the catalog as GeoJSON for the map surface's
// marker layer. Each feature carries the POI id plus name and description
// properties for the popup.
func (c *Catalog) FeatureCollection() (FeatureCollection, error) {
	features := make([]Feature, 0, len(c.pois))
	for _, p := range c.pois {
		point, err := geo.Point(p.Coordinate)
		if err != nil {
			return FeatureCollection{}, fmt.Errorf("feature %s: %w", p.ID, err)
		}
		features = append(features, Feature{
			Type:     "Feature",
			ID:       p.ID,
			Geometry: point,
			Properties: map[string]any{
				"name":        p.Name,
				"description": p.Description,
				"geohash":     geo.Encode(p.Coordinate, geo.DefaultPrecision),
			},
		})
	}
	return FeatureCollection{Type: "FeatureCollection", Features: features}, nil
}

// Cluster is a group of markers sharing one geohash cell.
type Cluster struct {
	Geohash string              `json:"geohash"`
	Center  entities.Coordinate `json:"center"`
	Count   int                 `json:"count"`
	POIIDs  []string            `json:"poi_ids"`
}

// Clusters groups POIs by geohash cell at the given precision. Clusters are
// returned in the order their first member appears in the catalog; the center
// is the mean position of the members.
func (c *Catalog) Clusters(precision int) []Cluster {
	var clusters []Cluster
	byHash := make(map[string]int)

	for _, p := range c.pois {
		hash := geo.Encode(p.Coordinate, precision)
		i, ok := byHash[hash]
		if !ok {
			i = len(clusters)
			byHash[hash] = i
			clusters = append(clusters, Cluster{Geohash: hash})
		}
		cl := &clusters[i]
		cl.Count++
		cl.POIIDs = append(cl.POIIDs, p.ID)
		// Running mean keeps the center exact without a second pass.
		n := float64(cl.Count)
		cl.Center.Latitude += (p.Coordinate.Latitude - cl.Center.Latitude) / n
		cl.Center.Longitude += (p.Coordinate.Longitude - cl.Center.Longitude) / n
	}
	return clusters
}
