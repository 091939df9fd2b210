package catalog

import "poiviewer/internal/domain/entities"

// defaultPresentation mirrors the render hints the sample POIs ship with.
func defaultPresentation(image, native string) entities.Presentation {
	return entities.Presentation{
		ImageRef:     image,
		NativeARFile: native,
		Scale:        10,
		Rotation:     0,
		Opacity:      0.9,
	}
}

// DefaultPOIs returns the built-in sample POIs used when no catalog file is
// configured.
func DefaultPOIs() []entities.POI {
	return []entities.POI{
		entities.NewPOI("1", "Brandenburger Tor", "Historisches Wahrzeichen Berlins",
			entities.NewCoordinate(52.5163, 13.3777),
			defaultPresentation("https://via.placeholder.com/512/0066FF/FFFFFF?text=Brandenburg+Gate", "ar-models/brandenburger-tor.usdz")),
		entities.NewPOI("2", "Eiffelturm", "Pariser Wahrzeichen und Aussichtsturm",
			entities.NewCoordinate(48.8584, 2.2945),
			defaultPresentation("https://via.placeholder.com/512/FF6600/FFFFFF?text=Eiffel+Tower", "ar-models/eiffelturm.usdz")),
		entities.NewPOI("3", "Freiheitsstatue", "Symbol der Freiheit in New York",
			entities.NewCoordinate(40.6892, -74.0445),
			defaultPresentation("https://via.placeholder.com/512/00CC66/FFFFFF?text=Statue+of+Liberty", "ar-models/freiheitsstatue.usdz")),
	}
}

// Default builds a catalog from DefaultPOIs. The sample data is known to be
// valid, so construction cannot fail.
func Default() *Catalog {
	c, err := New(DefaultPOIs())
	if err != nil {
		panic(err)
	}
	return c
}
