package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/time/rate"
	"lunarview/internal/formatter"
	"lunarview/internal/models"
	"lunarview/internal/shared"
)

// BulkExportOpts contains configuration for bulk snapshot exports.
type BulkExportOpts struct {
	Format     string  // Export format: json, csv, markdown, txt
	OutputDir  string  // Base output directory (default: sky_export_{epoch})
	NumWorkers int     // Concurrent workers (default: 4)
	RateLimit  float64 // Requests per second (default: 2)
}

// FavoriteExportResult records the outcome of exporting one favorite.
type FavoriteExportResult struct {
	FavoriteID   string `json:"favorite_id"`
	LocationName string `json:"location_name"`
	Success      bool   `json:"success"`
	File         string `json:"file,omitempty"`
	Message      string `json:"error,omitempty"`
	Err          error  `json:"-"`
}

// BulkExportResult summarizes a bulk export across all favorites.
type BulkExportResult struct {
	TotalFavorites    int                    `json:"total_favorites"`
	SuccessfulExports int                    `json:"successful_exports"`
	FailedExports     int                    `json:"failed_exports"`
	OutputDirectory   string                 `json:"output_directory"`
	ManifestPath      string                 `json:"manifest_path,omitempty"`
	Results           []FavoriteExportResult `json:"results"`
}

type exportJob struct {
	entry models.FavoriteEntry
}

// BulkExport fetches a fresh snapshot for each favorite and writes one file
// per location, using a worker pool bounded by a shared rate limiter so the
// astronomy service is not hammered. Partial failures are recorded in the
// manifest instead of aborting the run.
func BulkExport(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	api AstronomyAPI,
	entries []models.FavoriteEntry,
	opts BulkExportOpts,
) (*BulkExportResult, error) {
	if api == nil {
		return nil, fmt.Errorf("%w: astronomy service not initialized", shared.ErrService)
	}

	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("sky_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 4
	}
	if opts.NumWorkers > 8 {
		opts.NumWorkers = 8
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 2.0
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &BulkExportResult{
		TotalFavorites:  len(entries),
		OutputDirectory: opts.OutputDir,
		Results:         make([]FavoriteExportResult, 0, len(entries)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan exportJob, len(entries))
	results := make(chan FavoriteExportResult, len(entries))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go exportWorker(ctx, &wg, limiter, api, jobs, results, opts)
	}

	for _, entry := range entries {
		jobs <- exportJob{entry: entry}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Success {
			result.SuccessfulExports++
			sendProgress(prog, ProgressUpdate{
				Phase:   PhaseExport,
				Message: fmt.Sprintf("exported %s", res.LocationName),
				Current: completed,
				Total:   len(entries),
			})
		} else {
			result.FailedExports++
			sendProgress(prog, ProgressUpdate{
				Phase:   PhaseExport,
				Message: fmt.Sprintf("failed %s: %s", res.LocationName, res.Message),
				Current: completed,
				Total:   len(entries),
				Err:     res.Err,
			})
		}
	}

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	data, err := shared.MarshalJSON(result, true)
	if err != nil {
		return result, fmt.Errorf("export completed but failed to build manifest: %w", err)
	}
	if err := os.WriteFile(manifestPath, data, 0644); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	return result, nil
}

// exportWorker fetches and writes snapshots from the jobs channel.
func exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	limiter *rate.Limiter,
	api AstronomyAPI,
	jobs <-chan exportJob,
	results chan<- FavoriteExportResult,
	opts BulkExportOpts,
) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		results <- exportSingleFavorite(ctx, limiter, api, job.entry, opts)
	}
}

func exportSingleFavorite(
	ctx context.Context,
	limiter *rate.Limiter,
	api AstronomyAPI,
	entry models.FavoriteEntry,
	opts BulkExportOpts,
) FavoriteExportResult {
	result := FavoriteExportResult{
		FavoriteID:   entry.ID,
		LocationName: entry.LocationName,
	}

	fail := func(err error) FavoriteExportResult {
		result.Err = err
		result.Message = err.Error()
		return result
	}

	if err := limiter.Wait(ctx); err != nil {
		return fail(fmt.Errorf("rate limiter interrupted: %w", err))
	}

	snapshot, err := api.Astronomy(ctx, entry.Coordinate())
	if err != nil {
		return fail(fmt.Errorf("failed to fetch snapshot: %w", err))
	}

	base := filepath.Join(opts.OutputDir, formatter.Slug(entry.LocationName))
	path, err := formatter.WriteSnapshotExport(snapshot, opts.Format, base)
	if err != nil {
		return fail(fmt.Errorf("export failed: %w", err))
	}

	result.File = path
	result.Success = true
	return result
}
