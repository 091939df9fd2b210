// Package geo holds the coordinate math of the viewer: great-circle distance,
// geohash cells for marker clustering and position labelling, and the Web
// Mercator projection used to place AR entities.
//
// Geohash precision determines the cell size:
//
//	1 → ~5000 km    4 → ~39 km     7 → ~153 m
//	2 → ~1250 km    5 → ~5 km      8 → ~19 m
//	3 → ~156 km     6 → ~1.2 km    9 → ~2.4 m
//
// Positions are labelled at precision 7; marker clusters pick a precision from
// the map zoom level.
package geo

import (
	"strings"

	"poiviewer/internal/domain/entities"
)

const (
	base32 = "0123456789bcdefghjkmnpqrstuvwxyz"

	// DefaultPrecision is used when a caller passes a precision outside 1..12.
	DefaultPrecision  = 6
	maxPrecision      = 12
	PositionPrecision = 7
)

var base32Index = func() map[byte]int {
	m := make(map[byte]int, len(base32))
	for i := 0; i < len(base32); i++ {
		m[base32[i]] = i
	}
	return m
}()

// Encode converts a coordinate to a geohash of the given precision.
//
// Longitude and latitude ranges are bisected alternately (longitude first);
// every five bits become one base32 character.
func Encode(c entities.Coordinate, precision int) string {
	if precision <= 0 || precision > maxPrecision {
		precision = DefaultPrecision
	}

	latRange := [2]float64{-90, 90}
	lonRange := [2]float64{-180, 180}

	var hash strings.Builder
	hash.Grow(precision)
	lonBit := true
	bit, ch := 0, 0

	for hash.Len() < precision {
		if lonBit {
			ch = bisect(&lonRange, c.Longitude, ch, bit)
		} else {
			ch = bisect(&latRange, c.Latitude, ch, bit)
		}
		lonBit = !lonBit
		if bit++; bit == 5 {
			hash.WriteByte(base32[ch])
			bit, ch = 0, 0
		}
	}
	return hash.String()
}

func bisect(r *[2]float64, v float64, ch, bit int) int {
	mid := (r[0] + r[1]) / 2
	if v >= mid {
		r[0] = mid
		return ch | 1<<(4-bit)
	}
	r[1] = mid
	return ch
}

// Bounds returns the south-west and north-east corners of a geohash cell.
// Characters outside the geohash alphabet are skipped.
func Bounds(hash string) (sw, ne entities.Coordinate) {
	latRange := [2]float64{-90, 90}
	lonRange := [2]float64{-180, 180}
	lonBit := true

	for i := 0; i < len(hash); i++ {
		cd, ok := base32Index[strings.ToLower(hash[i : i+1])[0]]
		if !ok {
			continue
		}
		for j := 4; j >= 0; j-- {
			r := &latRange
			if lonBit {
				r = &lonRange
			}
			mid := (r[0] + r[1]) / 2
			if (cd>>j)&1 == 1 {
				r[0] = mid
			} else {
				r[1] = mid
			}
			lonBit = !lonBit
		}
	}
	return entities.NewCoordinate(latRange[0], lonRange[0]), entities.NewCoordinate(latRange[1], lonRange[1])
}

// Decode returns the center of a geohash cell.
func Decode(hash string) entities.Coordinate {
	sw, ne := Bounds(hash)
	return entities.NewCoordinate((sw.Latitude+ne.Latitude)/2, (sw.Longitude+ne.Longitude)/2)
}

// PrecisionForZoom maps a web map zoom level to a clustering precision: one
// geohash character per roughly three zoom levels, clamped to 1..8.
func PrecisionForZoom(zoom int) int {
	p := zoom/3 + 1
	if p < 1 {
		return 1
	}
	if p > 8 {
		return 8
	}
	return p
}
