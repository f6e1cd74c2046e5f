package tasks

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"lunarview/internal/models"
	"lunarview/internal/shared"
)

// FavoritesAPI is the server side of favorite management.
type FavoritesAPI interface {
	Favorites(ctx context.Context) ([]models.FavoriteEntry, error)
	CreateFavorite(ctx context.Context, name string, coord models.Coordinate) (*models.FavoriteEntry, error)
	DeleteFavorite(ctx context.Context, id string) error
}

// FavoritesCache is the local mirror of the server list, kept for offline
// listing between syncs.
type FavoritesCache interface {
	Entries() ([]models.FavoriteEntry, error)
	Reconcile(entries []models.FavoriteEntry) error
}

// FavoritesStore keeps the server list and the local cache in step. The
// server is authoritative: a favorite only leaves the local list once the
// server has confirmed the removal.
type FavoritesStore struct {
	api    FavoritesAPI
	cache  FavoritesCache
	logger *log.Logger
}

func NewFavoritesStore(api FavoritesAPI, cache FavoritesCache, logger *log.Logger) *FavoritesStore {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &FavoritesStore{api: api, cache: cache, logger: logger}
}

// List fetches the server list and refreshes the cache. When the server is
// unreachable the cached list is returned alongside the fetch error so the
// caller can still render something.
func (f *FavoritesStore) List(ctx context.Context) ([]models.FavoriteEntry, error) {
	entries, err := f.api.Favorites(ctx)
	if err != nil {
		cached, cacheErr := f.cachedList()
		if cacheErr != nil {
			return nil, fmt.Errorf("failed to list favorites: %w", err)
		}
		return cached, fmt.Errorf("failed to refresh favorites: %w", err)
	}

	f.reconcile(entries)
	return entries, nil
}

// Save persists a location as a favorite on the server and mirrors it
// locally.
func (f *FavoritesStore) Save(ctx context.Context, loc models.ResolvedLocation) (*models.FavoriteEntry, error) {
	entry, err := f.api.CreateFavorite(ctx, loc.DisplayLabel(), loc.Coordinate)
	if err != nil {
		return nil, fmt.Errorf("failed to save favorite: %w", err)
	}

	f.refresh(ctx)
	return entry, nil
}

// Remove deletes a favorite on the server. The local entry is only dropped
// after the server confirms, so a failed delete leaves the list unchanged.
func (f *FavoritesStore) Remove(ctx context.Context, id string) error {
	if err := f.api.DeleteFavorite(ctx, id); err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}

	f.refresh(ctx)
	return nil
}

func (f *FavoritesStore) cachedList() ([]models.FavoriteEntry, error) {
	if f.cache == nil {
		return nil, fmt.Errorf("no favorites cache configured")
	}
	return f.cache.Entries()
}

func (f *FavoritesStore) refresh(ctx context.Context) {
	entries, err := f.api.Favorites(ctx)
	if err != nil {
		f.logger.Warn("favorites refresh failed", "error", err)
		return
	}
	f.reconcile(entries)
}

func (f *FavoritesStore) reconcile(entries []models.FavoriteEntry) {
	if f.cache == nil {
		return
	}
	if err := f.cache.Reconcile(entries); err != nil {
		f.logger.Warn("favorites cache reconcile failed", "error", err)
	}
}
