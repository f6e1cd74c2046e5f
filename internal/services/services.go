// package services defines HTTP clients for the external collaborators of the
// Lunar View client
//
// Backend API (auth, astronomy, favorites), Nominatim geocoding, IP geolocation
package services

import (
	"context"

	"lunarview/internal/models"
)

// Geocoder converts between coordinates and place names. Results are
// best-effort and non-authoritative; callers re-validate coordinates.
type Geocoder interface {
	// Reverse converts a coordinate to address components.
	Reverse(ctx context.Context, coord models.Coordinate) (*ReverseResult, error)

	// Search converts a free-text place name to a ranked list of candidates.
	Search(ctx context.Context, query string) ([]SearchResult, error)
}

// LocateProvider obtains the device's current position.
type LocateProvider interface {
	// CurrentPosition returns the device coordinate, or ErrPermissionDenied
	// when the provider refuses the lookup.
	CurrentPosition(ctx context.Context) (models.Coordinate, error)
}

// ReverseResult carries the address components of a reverse geocode lookup.
type ReverseResult struct {
	Address Address `json:"address"`
}

// Address holds the subset of Nominatim address fields used for labels.
type Address struct {
	City    string `json:"city"`
	Town    string `json:"town"`
	Village string `json:"village"`
	Country string `json:"country"`
}

// Locality returns the most specific populated-place name present.
func (a Address) Locality() string {
	switch {
	case a.City != "":
		return a.City
	case a.Town != "":
		return a.Town
	default:
		return a.Village
	}
}

// SearchResult is one forward-geocode candidate. Nominatim returns lat/lon as
// strings; callers parse and validate before use.
type SearchResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}
