package models

import (
	"fmt"

	"lunarview/internal/shared"
)

// Coordinate is a latitude/longitude pair identifying a point on Earth.
//
// A Coordinate is validated at every boundary before any fetch is attempted;
// values from geocoding responses are never trusted as-is.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Validate checks that the coordinate is within valid ranges.
func (c Coordinate) Validate() error {
	if c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("%w: latitude %v out of range [-90, 90]", shared.ErrInvalidInput, c.Latitude)
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("%w: longitude %v out of range [-180, 180]", shared.ErrInvalidInput, c.Longitude)
	}
	return nil
}

// String formats the coordinate for display, e.g. "52.3676, 4.9041".
func (c Coordinate) String() string {
	return fmt.Sprintf("%.4f, %.4f", c.Latitude, c.Longitude)
}

// ResolvedLocation is a coordinate plus a human-readable label.
//
// The label is best-effort: reverse geocoding failures degrade to a generic
// label or the coordinate string rather than failing resolution.
type ResolvedLocation struct {
	Coordinate Coordinate
	Label      string
}

// DisplayLabel returns the label, falling back to the coordinate string.
func (l ResolvedLocation) DisplayLabel() string {
	if l.Label != "" {
		return l.Label
	}
	return l.Coordinate.String()
}
