package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"lunarview/internal/models"
	"lunarview/internal/shared"
	tu "lunarview/internal/testing"
)

type flakyAPI struct {
	failFor map[string]bool
}

func (f *flakyAPI) Astronomy(ctx context.Context, coord models.Coordinate) (*models.AstronomySnapshot, error) {
	key := fmt.Sprintf("%.4f", coord.Latitude)
	if f.failFor[key] {
		return nil, fmt.Errorf("%w: provider unavailable", shared.ErrService)
	}
	return &models.AstronomySnapshot{
		Location: models.SnapshotLocation{Latitude: coord.Latitude, Longitude: coord.Longitude},
		Date:     "2026-08-30",
		Sunrise:  "06:45",
	}, nil
}

func TestBulkExport(t *testing.T) {
	ctx := context.Background()
	entries := []models.FavoriteEntry{
		{ID: "f1", LocationName: "Amsterdam", Latitude: 52.3676, Longitude: 4.9041},
		{ID: "f2", LocationName: "Reykjavik", Latitude: 64.1466, Longitude: -21.9426},
	}

	t.Run("writes one file per favorite plus a manifest", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "export")
		result, err := BulkExport(ctx, nil, &flakyAPI{}, entries, BulkExportOpts{
			Format:    "json",
			OutputDir: dir,
			RateLimit: 1000,
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if result.SuccessfulExports != 2 || result.FailedExports != 0 {
			t.Errorf("unexpected counts: %+v", result)
		}

		tu.AssertFileExists(t, filepath.Join(dir, "amsterdam.json"))
		tu.AssertFileExists(t, filepath.Join(dir, "reykjavik.json"))
		tu.AssertFileExists(t, result.ManifestPath)

		var manifest BulkExportResult
		if err := json.Unmarshal([]byte(tu.MustReadFile(t, result.ManifestPath)), &manifest); err != nil {
			t.Fatalf("manifest is not valid JSON: %v", err)
		}
		if manifest.TotalFavorites != 2 {
			t.Errorf("unexpected manifest totals: %+v", manifest)
		}
	})

	t.Run("partial failure is recorded, not fatal", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "export")
		api := &flakyAPI{failFor: map[string]bool{"64.1466": true}}

		progress := make(chan ProgressUpdate, 10)
		result, err := BulkExport(ctx, progress, api, entries, BulkExportOpts{
			OutputDir: dir,
			RateLimit: 1000,
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if result.SuccessfulExports != 1 || result.FailedExports != 1 {
			t.Errorf("unexpected counts: success=%d failed=%d", result.SuccessfulExports, result.FailedExports)
		}

		var failed *FavoriteExportResult
		for i := range result.Results {
			if !result.Results[i].Success {
				failed = &result.Results[i]
			}
		}
		if failed == nil || failed.LocationName != "Reykjavik" {
			t.Fatalf("expected Reykjavik to fail, got %+v", failed)
		}
		if failed.Message == "" {
			t.Error("expected failure message in manifest entry")
		}
	})

	t.Run("rejects a missing service", func(t *testing.T) {
		if _, err := BulkExport(ctx, nil, nil, entries, BulkExportOpts{OutputDir: t.TempDir()}); err == nil {
			t.Error("expected error for nil service")
		}
	})

	t.Run("default output directory is created", func(t *testing.T) {
		wd, err := os.Getwd()
		if err != nil {
			t.Fatalf("getwd failed: %v", err)
		}
		defer os.Chdir(wd)
		if err := os.Chdir(t.TempDir()); err != nil {
			t.Fatalf("chdir failed: %v", err)
		}

		result, err := BulkExport(ctx, nil, &flakyAPI{}, entries[:1], BulkExportOpts{RateLimit: 1000})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.OutputDirectory == "" {
			t.Error("expected a generated output directory")
		}
	})
}
