package entities

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidCoordinate is returned when a latitude or longitude falls outside
// the WGS84 range.
var ErrInvalidCoordinate = errors.New("invalid coordinate")

// Coordinate is a WGS84 latitude/longitude pair in degrees.
//
// Go Learning Note — Value Types vs Reference Types:
// Coordinate is a small, immutable data holder (two float64s, 16 bytes). It is
// passed and returned by value everywhere, so no caller can ever mutate a POI's
// position through a shared pointer.
type Coordinate struct {
	Latitude  float64 `json:"lat" mapstructure:"lat"`
	Longitude float64 `json:"lon" mapstructure:"lon"`
}

// NewCoordinate creates a Coordinate value from latitude and longitude.
func NewCoordinate(lat, lon float64) Coordinate {
	return Coordinate{
		Latitude:  lat,
		Longitude: lon,
	}
}

// Validate reports whether the coordinate is finite and lies in
// [-90,90] x [-180,180]. Distance math never calls this; it is for input
// boundaries only.
func (c Coordinate) Validate() error {
	if !isFinite(c.Latitude) || !isFinite(c.Longitude) {
		return fmt.Errorf("%w: non-finite value (%v, %v)", ErrInvalidCoordinate, c.Latitude, c.Longitude)
	}
	if c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("%w: latitude %v out of range", ErrInvalidCoordinate, c.Latitude)
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("%w: longitude %v out of range", ErrInvalidCoordinate, c.Longitude)
	}
	return nil
}

// isFinite rejects NaN, which fails every range comparison, and ±Inf.
func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// UserPosition is the device's last reported fix. The geohash is pre-computed
// by the geo package so status displays and clustering can use it directly.
type UserPosition struct {
	Coordinate Coordinate `json:"coordinate"`
	AccuracyM  float64    `json:"accuracy_m"`
	Geohash    string     `json:"geohash"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// NewUserPosition creates a UserPosition stamped with the current time.
func NewUserPosition(c Coordinate, accuracyM float64, geohash string) UserPosition {
	return UserPosition{
		Coordinate: c,
		AccuracyM:  accuracyM,
		Geohash:    geohash,
		UpdatedAt:  time.Now(),
	}
}
