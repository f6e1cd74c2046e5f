package tasks

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"lunarview/internal/models"
	"lunarview/internal/shared"
)

type stubFavoritesAPI struct {
	entries   []models.FavoriteEntry
	listErr   error
	createErr error
	deleteErr error
	deleted   []string
}

func (s *stubFavoritesAPI) Favorites(ctx context.Context) ([]models.FavoriteEntry, error) {
	return s.entries, s.listErr
}

func (s *stubFavoritesAPI) CreateFavorite(ctx context.Context, name string, coord models.Coordinate) (*models.FavoriteEntry, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	entry := models.FavoriteEntry{
		ID:           fmt.Sprintf("f%d", len(s.entries)+1),
		LocationName: name,
		Latitude:     coord.Latitude,
		Longitude:    coord.Longitude,
	}
	s.entries = append(s.entries, entry)
	return &entry, nil
}

func (s *stubFavoritesAPI) DeleteFavorite(ctx context.Context, id string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deleted = append(s.deleted, id)
	kept := s.entries[:0]
	for _, entry := range s.entries {
		if entry.ID != id {
			kept = append(kept, entry)
		}
	}
	s.entries = kept
	return nil
}

type memoryCache struct {
	entries []models.FavoriteEntry
	err     error
}

func (m *memoryCache) Entries() ([]models.FavoriteEntry, error) {
	return m.entries, m.err
}

func (m *memoryCache) Reconcile(entries []models.FavoriteEntry) error {
	m.entries = append([]models.FavoriteEntry(nil), entries...)
	return nil
}

func TestFavoritesStore(t *testing.T) {
	ctx := context.Background()
	amsterdam := models.FavoriteEntry{ID: "f1", LocationName: "Amsterdam", Latitude: 52.3676, Longitude: 4.9041}

	t.Run("List reconciles the cache", func(t *testing.T) {
		api := &stubFavoritesAPI{entries: []models.FavoriteEntry{amsterdam}}
		cache := &memoryCache{}
		store := NewFavoritesStore(api, cache, nil)

		entries, err := store.List(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(entries) != 1 || len(cache.entries) != 1 {
			t.Errorf("expected server list mirrored to cache, got %d/%d", len(entries), len(cache.entries))
		}
	})

	t.Run("List falls back to the cache when the server is down", func(t *testing.T) {
		api := &stubFavoritesAPI{listErr: fmt.Errorf("%w: connection refused", shared.ErrNetwork)}
		cache := &memoryCache{entries: []models.FavoriteEntry{amsterdam}}
		store := NewFavoritesStore(api, cache, nil)

		entries, err := store.List(ctx)
		if err == nil {
			t.Fatal("expected the fetch error to be surfaced")
		}
		if len(entries) != 1 {
			t.Errorf("expected cached entries, got %d", len(entries))
		}
	})

	t.Run("Save creates on the server", func(t *testing.T) {
		api := &stubFavoritesAPI{}
		cache := &memoryCache{}
		store := NewFavoritesStore(api, cache, nil)

		loc := models.ResolvedLocation{
			Coordinate: models.Coordinate{Latitude: 52.3676, Longitude: 4.9041},
			Label:      "Amsterdam",
		}
		entry, err := store.Save(ctx, loc)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if entry.LocationName != "Amsterdam" {
			t.Errorf("unexpected entry name: %s", entry.LocationName)
		}
		if len(cache.entries) != 1 {
			t.Errorf("expected cache refresh after save, got %d entries", len(cache.entries))
		}
	})

	t.Run("failed remove keeps the entry", func(t *testing.T) {
		api := &stubFavoritesAPI{
			entries:   []models.FavoriteEntry{amsterdam},
			deleteErr: fmt.Errorf("%w: delete rejected (status 502)", shared.ErrService),
		}
		cache := &memoryCache{entries: []models.FavoriteEntry{amsterdam}}
		store := NewFavoritesStore(api, cache, nil)

		err := store.Remove(ctx, "f1")
		if !errors.Is(err, shared.ErrService) {
			t.Fatalf("expected ErrService, got %v", err)
		}

		if len(api.entries) != 1 {
			t.Error("expected server entry untouched")
		}
		if len(cache.entries) != 1 {
			t.Error("expected local entry untouched after failed remove")
		}
	})

	t.Run("successful remove drops the entry", func(t *testing.T) {
		api := &stubFavoritesAPI{entries: []models.FavoriteEntry{amsterdam}}
		cache := &memoryCache{entries: []models.FavoriteEntry{amsterdam}}
		store := NewFavoritesStore(api, cache, nil)

		if err := store.Remove(ctx, "f1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(cache.entries) != 0 {
			t.Errorf("expected empty cache, got %d entries", len(cache.entries))
		}
	})
}
