package geo

import (
	"math"
	"testing"

	"poiviewer/internal/domain/entities"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name      string
		c         entities.Coordinate
		precision int
		want      string
	}{
		{"Brandenburger Tor", brandenburgerTor, 6, "u33db2"},
		{"Eiffelturm at position precision", eiffelturm, PositionPrecision, "u09tunq"},
		{"Freiheitsstatue", freiheitsstatue, 6, "dr5r7p"},
		{"zero precision uses default", brandenburgerTor, 0, "u33db2"},
		{"precision above 12 uses default", freiheitsstatue, 40, "dr5r7p"},
		{"single cell", eiffelturm, 1, "u"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Encode(tt.c, tt.precision); got != tt.want {
				t.Errorf("Encode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name      string
		hash      string
		wantLat   float64
		wantLon   float64
		tolerance float64
	}{
		{"Brandenburger Tor", "u33db2", 52.5163, 13.3777, 0.01},
		{"Freiheitsstatue", "dr5r7p", 40.6892, -74.0445, 0.01},
		{"upper case", "U09TUNQ", 48.8584, 2.2945, 0.002},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decode(tt.hash)
			if math.Abs(got.Latitude-tt.wantLat) > tt.tolerance {
				t.Errorf("Decode() lat = %v, want %v", got.Latitude, tt.wantLat)
			}
			if math.Abs(got.Longitude-tt.wantLon) > tt.tolerance {
				t.Errorf("Decode() lon = %v, want %v", got.Longitude, tt.wantLon)
			}
		})
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	points := []entities.Coordinate{
		brandenburgerTor,
		eiffelturm,
		freiheitsstatue,
		entities.NewCoordinate(-33.8568, 151.2153), // Sydney Opera House
	}

	for _, p := range points {
		got := Decode(Encode(p, 8))
		if math.Abs(got.Latitude-p.Latitude) > 0.001 || math.Abs(got.Longitude-p.Longitude) > 0.001 {
			t.Errorf("round trip of %v gave %v", p, got)
		}
	}
}

func TestBoundsContainsPoint(t *testing.T) {
	p := brandenburgerTor
	sw, ne := Bounds(Encode(p, 5))

	if p.Latitude < sw.Latitude || p.Latitude > ne.Latitude {
		t.Errorf("latitude %v outside cell [%v, %v]", p.Latitude, sw.Latitude, ne.Latitude)
	}
	if p.Longitude < sw.Longitude || p.Longitude > ne.Longitude {
		t.Errorf("longitude %v outside cell [%v, %v]", p.Longitude, sw.Longitude, ne.Longitude)
	}
}

func TestPrecisionForZoom(t *testing.T) {
	cases := map[int]int{0: 1, 3: 2, 6: 3, 15: 6, 18: 7, 30: 8, -5: 1}
	for zoom, want := range cases {
		if got := PrecisionForZoom(zoom); got != want {
			t.Errorf("PrecisionForZoom(%d) = %d, want %d", zoom, got, want)
		}
	}
}

func BenchmarkEncode(b *testing.B) {
	for i := 0; i < b.N; i++ {
		Encode(brandenburgerTor, PositionPrecision)
	}
}
