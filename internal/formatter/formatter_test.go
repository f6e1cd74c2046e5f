package formatter

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"lunarview/internal/models"
	"lunarview/internal/shared"
	tu "lunarview/internal/testing"
)

func sampleSnapshot() *models.AstronomySnapshot {
	return &models.AstronomySnapshot{
		Location:     models.SnapshotLocation{Latitude: 52.3676, Longitude: 4.9041},
		Date:         "2026-08-30",
		CurrentTime:  "14:05:22",
		Sunrise:      "06:45",
		Sunset:       "20:32",
		SunStatus:    "Above horizon",
		SolarNoon:    "13:38",
		DayLength:    "13:47",
		SunAltitude:  41.2,
		SunAzimuth:   210.5,
		Moonrise:     "19:12",
		Moonset:      "04:50",
		MoonStatus:   "Below horizon",
		MoonAltitude: -12.4,
		MoonAzimuth:  95.1,
		MoonDistance: 384400,
	}
}

func TestSnapshotRendering(t *testing.T) {
	snapshot := sampleSnapshot()

	t.Run("text card contains both bodies", func(t *testing.T) {
		out := SnapshotToText(snapshot, "Amsterdam, Netherlands")

		for _, want := range []string{
			"Amsterdam, Netherlands (52.3676, 4.9041)",
			"Sun   Above horizon",
			"Sunrise     06:45",
			"Moon  Below horizon",
			"Distance    384400 km",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("expected output to contain %q\n%s", want, out)
			}
		}
	})

	t.Run("csv is a header row plus one record", func(t *testing.T) {
		out, err := SnapshotToCSV(snapshot)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		lines := strings.Split(strings.TrimSpace(string(out)), "\n")
		if len(lines) != 2 {
			t.Fatalf("expected 2 lines, got %d", len(lines))
		}
		if !strings.HasPrefix(lines[0], "Latitude,Longitude,Date") {
			t.Errorf("unexpected header: %s", lines[0])
		}
		if !strings.Contains(lines[1], "52.3676,4.9041,2026-08-30") {
			t.Errorf("unexpected record: %s", lines[1])
		}
	})

	t.Run("markdown has sun and moon sections", func(t *testing.T) {
		out := string(SnapshotToMarkdown(snapshot, "Amsterdam"))

		if !strings.HasPrefix(out, "# Amsterdam\n") {
			t.Errorf("expected title heading, got %s", out)
		}
		if !strings.Contains(out, "## Sun") || !strings.Contains(out, "## Moon") {
			t.Errorf("expected both sections\n%s", out)
		}
	})
}

func TestFavoritesToText(t *testing.T) {
	t.Run("empty list", func(t *testing.T) {
		if got := FavoritesToText(nil); got != "No favorites saved.\n" {
			t.Errorf("unexpected output: %q", got)
		}
	})

	t.Run("table rows", func(t *testing.T) {
		out := FavoritesToText([]models.FavoriteEntry{
			{ID: "f1", LocationName: "Amsterdam", Latitude: 52.3676, Longitude: 4.9041},
			{ID: "f2", LocationName: "Reykjavik", Latitude: 64.1466, Longitude: -21.9426},
		})

		if !strings.Contains(out, "Amsterdam") || !strings.Contains(out, "-21.9426") {
			t.Errorf("unexpected table:\n%s", out)
		}
		if lines := strings.Split(strings.TrimSpace(out), "\n"); len(lines) != 3 {
			t.Errorf("expected header plus 2 rows, got %d lines", len(lines))
		}
	})
}

func TestWriteSnapshotExport(t *testing.T) {
	snapshot := sampleSnapshot()

	t.Run("json is the default format", func(t *testing.T) {
		base := filepath.Join(t.TempDir(), "amsterdam")

		path, err := WriteSnapshotExport(snapshot, "", base)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if path != base+".json" {
			t.Errorf("unexpected path: %s", path)
		}
		tu.AssertFileExists(t, path)
		if content := tu.MustReadFile(t, path); !strings.Contains(content, "\"sunrise\"") {
			t.Errorf("expected JSON content, got %s", content)
		}
	})

	t.Run("extension follows the format", func(t *testing.T) {
		cases := map[string]string{
			"csv":      ".csv",
			"markdown": ".md",
			"txt":      ".txt",
			"json":     ".json",
		}
		for format, ext := range cases {
			base := filepath.Join(t.TempDir(), "out")
			path, err := WriteSnapshotExport(snapshot, format, base)
			if err != nil {
				t.Fatalf("format %s: %v", format, err)
			}
			if path != base+ext {
				t.Errorf("format %s: unexpected path %s", format, path)
			}
			tu.AssertFileExists(t, path)
		}
	})

	t.Run("unknown format is rejected", func(t *testing.T) {
		_, err := WriteSnapshotExport(snapshot, "yaml", filepath.Join(t.TempDir(), "out"))
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestSlug(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Amsterdam", "amsterdam"},
		{"spaces and comma", "Amsterdam, Netherlands", "amsterdam_netherlands"},
		{"squashes repeats", "San  Francisco", "san_francisco"},
		{"trims underscores", "  Oslo  ", "oslo"},
		{"digits survive", "Area 51", "area_51"},
		{"all symbols fall back", "***", "location"},
		{"empty falls back", "", "location"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Slug(tc.in); got != tc.want {
				t.Errorf("Slug(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
