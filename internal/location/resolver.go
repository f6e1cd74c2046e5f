// package location implements the coordinate source adapter: three ways of
// obtaining a position (device lookup, manual coordinates, place search)
// normalized into one [models.ResolvedLocation].
package location

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"lunarview/internal/models"
	"lunarview/internal/services"
	"lunarview/internal/shared"
)

// Mode selects how a coordinate is obtained.
type Mode int

const (
	ModeDevice      Mode = iota // device position + reverse geocoded label
	ModeCoordinates             // user-entered latitude/longitude, no network
	ModePlace                   // forward geocoded free-text place name
)

func (m Mode) String() string {
	switch m {
	case ModeDevice:
		return "device"
	case ModeCoordinates:
		return "coordinates"
	case ModePlace:
		return "place"
	default:
		return ""
	}
}

// deviceLabel is the fallback label when reverse geocoding yields nothing.
const deviceLabel = "Current Location"

// Request carries the raw inputs for one resolution.
type Request struct {
	Mode      Mode
	Latitude  string // ModeCoordinates
	Longitude string // ModeCoordinates
	Place     string // ModePlace
}

// Resolver normalizes all three acquisition modes into a ResolvedLocation.
// Label enrichment is best-effort; only the coordinate itself is load-bearing.
type Resolver struct {
	locator  services.LocateProvider
	geocoder services.Geocoder
	logger   *log.Logger
}

// NewResolver creates a Resolver. The logger defaults to a stderr logger.
func NewResolver(locator services.LocateProvider, geocoder services.Geocoder, logger *log.Logger) *Resolver {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Resolver{locator: locator, geocoder: geocoder, logger: logger}
}

// Resolve produces a validated ResolvedLocation for the request, or a typed
// error: ErrPermissionDenied (device refusal), ErrInvalidInput (bad manual
// coordinates), ErrPlaceNotFound (zero search results).
func (r *Resolver) Resolve(ctx context.Context, req Request) (*models.ResolvedLocation, error) {
	switch req.Mode {
	case ModeDevice:
		return r.resolveDevice(ctx)
	case ModeCoordinates:
		return r.resolveCoordinates(req.Latitude, req.Longitude)
	case ModePlace:
		return r.resolvePlace(ctx, req.Place)
	default:
		return nil, fmt.Errorf("%w: unknown resolution mode %d", shared.ErrInvalidArgument, req.Mode)
	}
}

func (r *Resolver) resolveDevice(ctx context.Context) (*models.ResolvedLocation, error) {
	if r.locator == nil {
		return nil, fmt.Errorf("%w: locate provider not configured", shared.ErrUnsupported)
	}

	coord, err := r.locator.CurrentPosition(ctx)
	if err != nil {
		return nil, err
	}

	return &models.ResolvedLocation{Coordinate: coord, Label: r.labelFor(ctx, coord)}, nil
}

// labelFor reverse geocodes a label for the device position. Failures degrade
// to the generic label; they never fail the resolution.
func (r *Resolver) labelFor(ctx context.Context, coord models.Coordinate) string {
	if r.geocoder == nil {
		return deviceLabel
	}

	result, err := r.geocoder.Reverse(ctx, coord)
	if err != nil {
		r.logger.Warn("reverse geocoding failed", "error", err)
		return deviceLabel
	}

	locality := result.Address.Locality()
	if locality == "" {
		return deviceLabel
	}
	if result.Address.Country == "" {
		return locality
	}
	return fmt.Sprintf("%s, %s", locality, result.Address.Country)
}

func (r *Resolver) resolveCoordinates(lat, long string) (*models.ResolvedLocation, error) {
	latitude, err := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	if err != nil {
		return nil, fmt.Errorf("%w: latitude %q is not numeric", shared.ErrInvalidInput, lat)
	}

	longitude, err := strconv.ParseFloat(strings.TrimSpace(long), 64)
	if err != nil {
		return nil, fmt.Errorf("%w: longitude %q is not numeric", shared.ErrInvalidInput, long)
	}

	coord := models.Coordinate{Latitude: latitude, Longitude: longitude}
	if err := coord.Validate(); err != nil {
		return nil, err
	}

	return &models.ResolvedLocation{Coordinate: coord, Label: coord.String()}, nil
}

func (r *Resolver) resolvePlace(ctx context.Context, place string) (*models.ResolvedLocation, error) {
	place = strings.TrimSpace(place)
	if place == "" {
		return nil, fmt.Errorf("%w: empty place name", shared.ErrInvalidInput)
	}
	if r.geocoder == nil {
		return nil, fmt.Errorf("%w: geocoder not configured", shared.ErrUnsupported)
	}

	results, err := r.geocoder.Search(ctx, place)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("%w: %q", shared.ErrPlaceNotFound, place)
	}

	first := results[0]

	latitude, err := strconv.ParseFloat(first.Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: geocoder latitude %q is not numeric", shared.ErrService, first.Lat)
	}
	longitude, err := strconv.ParseFloat(first.Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: geocoder longitude %q is not numeric", shared.ErrService, first.Lon)
	}

	// Geocoder output is not trusted; validate before any fetch is attempted.
	coord := models.Coordinate{Latitude: latitude, Longitude: longitude}
	if err := coord.Validate(); err != nil {
		return nil, err
	}

	return &models.ResolvedLocation{Coordinate: coord, Label: shortName(first.DisplayName, coord)}, nil
}

// shortName takes the text before the first comma of a display name.
func shortName(displayName string, coord models.Coordinate) string {
	name, _, _ := strings.Cut(displayName, ",")
	name = strings.TrimSpace(name)
	if name == "" {
		return coord.String()
	}
	return name
}
