package models

import "time"

// AstronomySnapshot is the sun/moon ephemeris payload returned by the backend
// for a single coordinate and fetch time. It is read-only from the client's
// perspective; the client holds at most one snapshot at a time and a new fetch
// supersedes, never merges with, the previous one.
type AstronomySnapshot struct {
	Location             SnapshotLocation `json:"location"`
	Date                 string           `json:"date"`
	CurrentTime          string           `json:"current_time"`
	Sunrise              string           `json:"sunrise"`
	Sunset               string           `json:"sunset"`
	SunStatus            string           `json:"sun_status"`
	SolarNoon            string           `json:"solar_noon"`
	DayLength            string           `json:"day_length"`
	SunAltitude          float64          `json:"sun_altitude"`
	SunAzimuth           float64          `json:"sun_azimuth"`
	Moonrise             string           `json:"moonrise"`
	Moonset              string           `json:"moonset"`
	MoonStatus           string           `json:"moon_status"`
	MoonAltitude         float64          `json:"moon_altitude"`
	MoonAzimuth          float64          `json:"moon_azimuth"`
	MoonDistance         float64          `json:"moon_distance"`
	MoonParallacticAngle float64          `json:"moon_parallactic_angle"`

	// FetchedAt is set by the client when the snapshot is received.
	FetchedAt time.Time `json:"-"`
}

// SnapshotLocation echoes the coordinate the snapshot was computed for.
type SnapshotLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// FavoriteEntry is a user-saved named coordinate, persisted server-side per
// account. The id is server-assigned; entries are never mutated in place.
type FavoriteEntry struct {
	ID           string    `json:"id"`
	LocationName string    `json:"location_name"`
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`
	SavedAt      time.Time `json:"saved_at"`
}

// Coordinate returns the entry's position as a Coordinate value.
func (f FavoriteEntry) Coordinate() Coordinate {
	return Coordinate{Latitude: f.Latitude, Longitude: f.Longitude}
}
