package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
	"lunarview/internal/formatter"
	"lunarview/internal/location"
	"lunarview/internal/notify"
	"lunarview/internal/repositories"
	"lunarview/internal/shared"
	"lunarview/internal/tasks"
)

// Sky resolves a location and prints the current astronomy snapshot.
//
// Resolution mode is picked from flags: --lat/--long for manual coordinates,
// --place for a geocoded search, device lookup otherwise.
func (r *Runner) Sky(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(ctx); err != nil {
		return err
	}

	req, err := requestFromFlags(cmd)
	if err != nil {
		return err
	}

	var notifier tasks.Notifier
	if gate := r.notificationGate(); gate != nil {
		notifier = gate
	}

	orc := tasks.NewOrchestrator(r.resolver, r.lunar, notifier, r.logger)
	run := orc.Begin(req)

	progress := make(chan tasks.ProgressUpdate, 16)
	done := make(chan tasks.Outcome, 1)
	go func() {
		done <- run.Do(ctx, progress)
		close(progress)
	}()

	for update := range progress {
		if update.Err == nil {
			r.logger.Info(update.Message)
		}
	}

	out := <-done
	orc.Apply(out)
	if out.Err != nil {
		return out.Err
	}

	label := out.Location.DisplayLabel()
	snapshot := out.Snapshot

	switch format := cmd.String("format"); format {
	case "json":
		return r.writeJSON(snapshot, true)
	case "text", "":
		return r.writePlain("%s", formatter.SnapshotToText(snapshot, label))
	case "markdown":
		return r.writePlain("%s", formatter.SnapshotToMarkdown(snapshot, label))
	case "csv":
		data, err := formatter.SnapshotToCSV(snapshot)
		if err != nil {
			return err
		}
		return r.writePlain("%s", data)
	default:
		return fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
	}
}

// SkyExport fetches a snapshot for every favorite and writes one file each.
func (r *Runner) SkyExport(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(ctx); err != nil {
		return err
	}

	store, err := r.favoritesStore()
	if err != nil {
		return err
	}

	entries, err := store.List(ctx)
	if err != nil && len(entries) == 0 {
		return err
	}
	if len(entries) == 0 {
		return r.writePlain("No favorites to export.\n")
	}

	opts := tasks.BulkExportOpts{
		Format:     cmd.String("format"),
		OutputDir:  cmd.String("output-dir"),
		NumWorkers: cmd.Int("workers"),
		RateLimit:  cmd.Float("rate"),
	}

	progress := make(chan tasks.ProgressUpdate, len(entries)*2)
	type exportDone struct {
		result *tasks.BulkExportResult
		err    error
	}
	done := make(chan exportDone, 1)
	go func() {
		result, err := tasks.BulkExport(ctx, progress, r.lunar, entries, opts)
		close(progress)
		done <- exportDone{result, err}
	}()

	for update := range progress {
		r.logger.Info(update.Message, "progress", fmt.Sprintf("%d/%d", update.Current, update.Total))
	}

	res := <-done
	if res.err != nil {
		return res.err
	}

	r.writePlain("✓ Exported %d/%d favorites to %s\n",
		res.result.SuccessfulExports, res.result.TotalFavorites, res.result.OutputDirectory)
	if res.result.FailedExports > 0 {
		r.writePlain("✗ %d failed, see %s\n", res.result.FailedExports, res.result.ManifestPath)
	}
	return nil
}

// notificationGate builds the desktop gate. A failure to load preferences only
// disables notifications, it never blocks the sky lookup.
func (r *Runner) notificationGate() *notify.Gate {
	db, err := r.database()
	if err != nil {
		r.logger.Warn("notifications disabled", "error", err)
		return nil
	}

	gate, err := notify.NewGate(notify.NewDesktopPlatform(), repositories.NewSettingsRepository(db), r.logger)
	if err != nil {
		r.logger.Warn("notifications disabled", "error", err)
		return nil
	}
	return gate
}

func requestFromFlags(cmd *cli.Command) (location.Request, error) {
	lat := cmd.String("lat")
	long := cmd.String("long")
	place := cmd.String("place")

	switch {
	case place != "" && (lat != "" || long != ""):
		return location.Request{}, fmt.Errorf("%w: --place cannot be combined with --lat/--long", shared.ErrInvalidArgument)
	case place != "":
		return location.Request{Mode: location.ModePlace, Place: place}, nil
	case lat != "" || long != "":
		if lat == "" || long == "" {
			return location.Request{}, fmt.Errorf("%w: --lat and --long must be given together", shared.ErrMissingArgument)
		}
		return location.Request{Mode: location.ModeCoordinates, Latitude: lat, Longitude: long}, nil
	default:
		return location.Request{Mode: location.ModeDevice}, nil
	}
}

// skyCommand shows the astronomy dashboard and exports snapshots
func skyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "sky",
		Usage: "Show sun and moon data for a location",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "lat",
				Usage: "Latitude in decimal degrees",
			},
			&cli.StringFlag{
				Name:  "long",
				Usage: "Longitude in decimal degrees",
			},
			&cli.StringFlag{
				Name:    "place",
				Aliases: []string{"p"},
				Usage:   "Place name to search for",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, json, csv, markdown",
				Value:   "text",
			},
		},
		Action: r.Sky,
		Commands: []*cli.Command{
			{
				Name:  "export",
				Usage: "Export snapshots for every favorite",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format: json, csv, markdown, txt",
						Value:   "json",
					},
					&cli.StringFlag{
						Name:    "output-dir",
						Aliases: []string{"o"},
						Usage:   "Output directory",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent export workers",
						Value: 4,
					},
					&cli.FloatFlag{
						Name:  "rate",
						Usage: "Requests per second against the astronomy API",
						Value: 2,
					},
				},
				Action: r.SkyExport,
			},
		},
	}
}
