// Package entities defines the core domain models of the POI viewer: points of
// interest, coordinates, the user's position and the Map/AR view state. These
// types live in the innermost layer and have no dependencies on HTTP, the
// browser bridge or any storage.
//
// Go Learning Note — "internal/" directory:
// Packages under internal/ cannot be imported by code outside this module. Go
// enforces this at the compiler level.
package entities

import (
	"fmt"
)

// Presentation describes how a POI is rendered in AR. ImageRef and ModelRef
// point at assets the AR scene loads; NativeARFile is an opaque reference
// handed to the platform's native AR viewer and is never interpreted here.
type Presentation struct {
	ImageRef     string  `json:"image_ref,omitempty" mapstructure:"image_ref"`
	ModelRef     string  `json:"model_ref,omitempty" mapstructure:"model_ref"`
	NativeARFile string  `json:"native_ar_file,omitempty" mapstructure:"native_ar_file"`
	Scale        float64 `json:"scale" mapstructure:"scale"`
	Rotation     float64 `json:"rotation" mapstructure:"rotation"` // degrees, [0,360)
	Opacity      float64 `json:"opacity" mapstructure:"opacity"`   // [0,1]
}

// Validate checks the render hints.
func (p Presentation) Validate() error {
	if p.Scale <= 0 {
		return fmt.Errorf("scale must be positive, got %v", p.Scale)
	}
	if p.Rotation < 0 || p.Rotation >= 360 {
		return fmt.Errorf("rotation must be in [0,360), got %v", p.Rotation)
	}
	if p.Opacity < 0 || p.Opacity > 1 {
		return fmt.Errorf("opacity must be in [0,1], got %v", p.Opacity)
	}
	return nil
}

// POI is a named location with descriptive metadata and an AR payload.
// POIs are created once from static configuration and never mutated.
type POI struct {
	ID           string       `json:"id" mapstructure:"id"`
	Name         string       `json:"name" mapstructure:"name"`
	Description  string       `json:"description" mapstructure:"description"`
	Coordinate   Coordinate   `json:"coordinate" mapstructure:"coordinate"`
	Presentation Presentation `json:"presentation" mapstructure:"presentation"`
}

// NewPOI creates a POI value.
func NewPOI(id, name, description string, c Coordinate, p Presentation) POI {
	return POI{
		ID:           id,
		Name:         name,
		Description:  description,
		Coordinate:   c,
		Presentation: p,
	}
}

// Validate checks identity, position and presentation of a POI.
func (p POI) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("poi %q: empty id", p.Name)
	}
	if err := p.Coordinate.Validate(); err != nil {
		return fmt.Errorf("poi %s: %w", p.ID, err)
	}
	if err := p.Presentation.Validate(); err != nil {
		return fmt.Errorf("poi %s: %w", p.ID, err)
	}
	return nil
}

// POIWithDistance pairs a POI with its distance from a query origin.
type POIWithDistance struct {
	POI        POI     `json:"poi"`
	DistanceKm float64 `json:"distance_km"`
}
