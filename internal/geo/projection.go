package geo

import (
	"fmt"

	geom "github.com/peterstace/simplefeatures/geom"
	"github.com/wroge/wgs84"

	"poiviewer/internal/domain/entities"
)

// webMercator converts EPSG:4326 (lon, lat) to EPSG:3857 meters. The AR
// renderer places GPS-projected entities in this plane.
var webMercator = wgs84.EPSG().Transform(4326, 3857)

// ToWebMercator projects a coordinate to Web Mercator x/y in meters.
func ToWebMercator(c entities.Coordinate) (x, y float64) {
	x, y, _ = webMercator(c.Longitude, c.Latitude, 0)
	return x, y
}

// Point builds a 2D lon/lat point for GeoJSON output. Non-finite coordinates
// are rejected by simplefeatures' validation.
func Point(c entities.Coordinate) (geom.Point, error) {
	p, err := geom.NewPoint(geom.Coordinates{
		XY:   geom.XY{X: c.Longitude, Y: c.Latitude},
		Type: geom.DimXY,
	})
	if err != nil {
		return geom.Point{}, fmt.Errorf("point for %v: %w", c, err)
	}
	return p, nil
}
