package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
	"lunarview/internal/formatter"
	"lunarview/internal/location"
	"lunarview/internal/shared"
)

// FavoritesList prints the saved locations, falling back to the offline cache
// when the server is unreachable.
func (r *Runner) FavoritesList(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(ctx); err != nil {
		return err
	}

	store, err := r.favoritesStore()
	if err != nil {
		return err
	}

	entries, err := store.List(ctx)
	if err != nil {
		if len(entries) == 0 {
			return err
		}
		r.logger.Warn("showing cached favorites", "error", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(entries, true)
	}
	return r.writePlain("%s", formatter.FavoritesToText(entries))
}

// FavoritesAdd saves a location as a favorite. The location comes from
// --lat/--long or --place, mirroring the sky command.
func (r *Runner) FavoritesAdd(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(ctx); err != nil {
		return err
	}

	req, err := requestFromFlags(cmd)
	if err != nil {
		return err
	}
	if req.Mode == location.ModeDevice && !cmd.Bool("here") {
		return fmt.Errorf("%w: provide --lat/--long, --place or --here", shared.ErrMissingArgument)
	}

	loc, err := r.resolver.Resolve(ctx, req)
	if err != nil {
		return err
	}

	if name := cmd.String("name"); name != "" {
		loc.Label = name
	}

	store, err := r.favoritesStore()
	if err != nil {
		return err
	}

	entry, err := store.Save(ctx, *loc)
	if err != nil {
		return err
	}

	return r.writePlain("✓ Saved %s (%.4f, %.4f)\n", entry.LocationName, entry.Latitude, entry.Longitude)
}

// FavoritesRemove deletes a favorite after confirmation. The local list only
// changes once the server confirms.
func (r *Runner) FavoritesRemove(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: favorite id required", shared.ErrMissingArgument)
	}

	if err := r.requireAuth(ctx); err != nil {
		return err
	}

	store, err := r.favoritesStore()
	if err != nil {
		return err
	}

	if !cmd.Bool("yes") {
		entry := r.describeFavorite(ctx, id)
		if !r.confirm(fmt.Sprintf("Remove favorite %s? This cannot be undone.", entry)) {
			return r.writePlain("Aborted.\n")
		}
	}

	if err := store.Remove(ctx, id); err != nil {
		return err
	}

	return r.writePlain("✓ Removed favorite %s\n", id)
}

// describeFavorite names a favorite for the confirmation prompt, falling back
// to the raw id.
func (r *Runner) describeFavorite(ctx context.Context, id string) string {
	entries, err := r.lunar.Favorites(ctx)
	if err != nil {
		return id
	}
	for _, entry := range entries {
		if entry.ID == id {
			return fmt.Sprintf("'%s'", entry.LocationName)
		}
	}
	return id
}

// favoritesCommand handles saved location operations
func favoritesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "favorites",
		Aliases: []string{"fav"},
		Usage:   "Manage saved locations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List saved locations",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.FavoritesList,
			},
			{
				Name:  "add",
				Usage: "Save a location",
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
					&cli.BoolFlag{
						Name:  "here",
						Usage: "Use the device location",
					},
					&cli.StringFlag{
						Name:    "name",
						Aliases: []string{"n"},
						Usage:   "Override the saved location name",
					},
				},
				Action: r.FavoritesAdd,
			},
			{
				Name:  "remove",
				Usage: "Remove a saved location",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "yes",
						Aliases: []string{"y"},
						Usage:   "Skip the confirmation prompt",
					},
				},
				Action: r.FavoritesRemove,
			},
		},
	}
}
