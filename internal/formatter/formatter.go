// package formatter renders astronomy snapshots and favorite lists to various
// formats (plain text, CSV, Markdown, JSON)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"lunarview/internal/models"
	"lunarview/internal/shared"
)

// SnapshotToText renders a snapshot as the card shown on the CLI dashboard.
func SnapshotToText(snapshot *models.AstronomySnapshot, label string) string {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "%s (%.4f, %.4f)\n", label, snapshot.Location.Latitude, snapshot.Location.Longitude)
	fmt.Fprintf(&buf, "%s %s\n\n", snapshot.Date, snapshot.CurrentTime)

	fmt.Fprintf(&buf, "Sun   %s\n", snapshot.SunStatus)
	fmt.Fprintf(&buf, "  Sunrise     %s\n", snapshot.Sunrise)
	fmt.Fprintf(&buf, "  Sunset      %s\n", snapshot.Sunset)
	fmt.Fprintf(&buf, "  Solar noon  %s\n", snapshot.SolarNoon)
	fmt.Fprintf(&buf, "  Day length  %s\n", snapshot.DayLength)
	fmt.Fprintf(&buf, "  Altitude    %.2f°  Azimuth %.2f°\n\n", snapshot.SunAltitude, snapshot.SunAzimuth)

	fmt.Fprintf(&buf, "Moon  %s\n", snapshot.MoonStatus)
	fmt.Fprintf(&buf, "  Moonrise    %s\n", snapshot.Moonrise)
	fmt.Fprintf(&buf, "  Moonset     %s\n", snapshot.Moonset)
	fmt.Fprintf(&buf, "  Altitude    %.2f°  Azimuth %.2f°\n", snapshot.MoonAltitude, snapshot.MoonAzimuth)
	fmt.Fprintf(&buf, "  Distance    %.0f km\n", snapshot.MoonDistance)

	return buf.String()
}

// SnapshotToCSV renders a snapshot as a two-row CSV (header plus values).
func SnapshotToCSV(snapshot *models.AstronomySnapshot) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{
		"Latitude", "Longitude", "Date", "Sunrise", "Sunset", "SunStatus",
		"SolarNoon", "DayLength", "SunAltitude", "SunAzimuth",
		"Moonrise", "Moonset", "MoonStatus", "MoonAltitude", "MoonAzimuth", "MoonDistance",
	}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	record := []string{
		formatFloat(snapshot.Location.Latitude),
		formatFloat(snapshot.Location.Longitude),
		snapshot.Date,
		snapshot.Sunrise,
		snapshot.Sunset,
		snapshot.SunStatus,
		snapshot.SolarNoon,
		snapshot.DayLength,
		formatFloat(snapshot.SunAltitude),
		formatFloat(snapshot.SunAzimuth),
		snapshot.Moonrise,
		snapshot.Moonset,
		snapshot.MoonStatus,
		formatFloat(snapshot.MoonAltitude),
		formatFloat(snapshot.MoonAzimuth),
		formatFloat(snapshot.MoonDistance),
	}
	if err := writer.Write(record); err != nil {
		return nil, fmt.Errorf("failed to write CSV record: %w", err)
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// SnapshotToMarkdown renders a snapshot as a Markdown document.
func SnapshotToMarkdown(snapshot *models.AstronomySnapshot, label string) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", label))
	buf.WriteString(fmt.Sprintf("**Coordinates**: %.4f, %.4f\n", snapshot.Location.Latitude, snapshot.Location.Longitude))
	buf.WriteString(fmt.Sprintf("**Date**: %s %s\n\n", snapshot.Date, snapshot.CurrentTime))

	buf.WriteString("## Sun\n\n")
	buf.WriteString(fmt.Sprintf("- Status: %s\n", snapshot.SunStatus))
	buf.WriteString(fmt.Sprintf("- Sunrise: %s\n", snapshot.Sunrise))
	buf.WriteString(fmt.Sprintf("- Sunset: %s\n", snapshot.Sunset))
	buf.WriteString(fmt.Sprintf("- Solar noon: %s\n", snapshot.SolarNoon))
	buf.WriteString(fmt.Sprintf("- Day length: %s\n", snapshot.DayLength))
	buf.WriteString(fmt.Sprintf("- Altitude: %.2f° / Azimuth: %.2f°\n\n", snapshot.SunAltitude, snapshot.SunAzimuth))

	buf.WriteString("## Moon\n\n")
	buf.WriteString(fmt.Sprintf("- Status: %s\n", snapshot.MoonStatus))
	buf.WriteString(fmt.Sprintf("- Moonrise: %s\n", snapshot.Moonrise))
	buf.WriteString(fmt.Sprintf("- Moonset: %s\n", snapshot.Moonset))
	buf.WriteString(fmt.Sprintf("- Altitude: %.2f° / Azimuth: %.2f°\n", snapshot.MoonAltitude, snapshot.MoonAzimuth))
	buf.WriteString(fmt.Sprintf("- Distance: %.0f km\n", snapshot.MoonDistance))

	return buf.Bytes()
}

// FavoritesToText renders favorites as an aligned table for the CLI.
func FavoritesToText(entries []models.FavoriteEntry) string {
	if len(entries) == 0 {
		return "No favorites saved.\n"
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%-36s  %-30s  %10s  %11s\n", "ID", "Name", "Latitude", "Longitude")
	for _, entry := range entries {
		fmt.Fprintf(&buf, "%-36s  %-30s  %10.4f  %11.4f\n",
			entry.ID, entry.LocationName, entry.Latitude, entry.Longitude)
	}
	return buf.String()
}

// WriteSnapshotExport writes a snapshot to base plus a format-appropriate
// extension and returns the file path written.
func WriteSnapshotExport(snapshot *models.AstronomySnapshot, format, base string) (string, error) {
	label := fmt.Sprintf("%.4f, %.4f", snapshot.Location.Latitude, snapshot.Location.Longitude)

	var path string
	var data []byte
	var err error

	switch format {
	case "csv":
		path = base + ".csv"
		data, err = SnapshotToCSV(snapshot)
		if err != nil {
			return "", err
		}
	case "markdown":
		path = base + ".md"
		data = SnapshotToMarkdown(snapshot, label)
	case "txt":
		path = base + ".txt"
		data = []byte(SnapshotToText(snapshot, label))
	case "json", "":
		path = base + ".json"
		data, err = shared.MarshalJSON(snapshot, true)
		if err != nil {
			return "", fmt.Errorf("JSON marshal failed: %w", err)
		}
	default:
		return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export: %w", err)
	}
	return path, nil
}

// Slug converts a location name into a filesystem-safe file name fragment.
func Slug(name string) string {
	mapped := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '_'
		}
	}, name)

	for strings.Contains(mapped, "__") {
		mapped = strings.ReplaceAll(mapped, "__", "_")
	}
	mapped = strings.Trim(mapped, "_")
	if mapped == "" {
		return "location"
	}
	return mapped
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
