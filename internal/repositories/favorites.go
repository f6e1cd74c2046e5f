package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"lunarview/internal/models"
	"lunarview/internal/shared"
)

// FavoriteCacheRepository implements models.Repository[*models.CachedFavorite]
// for the offline favorites mirror.
//
// The server owns identity; rows are reconciled against server responses,
// never treated as authoritative.
type FavoriteCacheRepository struct {
	db *sql.DB
}

// NewFavoriteCacheRepository creates a new FavoriteCacheRepository with the given database connection
func NewFavoriteCacheRepository(db *sql.DB) *FavoriteCacheRepository {
	return &FavoriteCacheRepository{db: db}
}

// Create inserts a cached favorite with generated ID and sequence
func (r *FavoriteCacheRepository) Create(favorite *models.CachedFavorite) error {
	sequence, err := NextSequence(r.db, "favorites")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	favorite.SetID(id)

	if err := favorite.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	entry := favorite.Entry()
	query := `
		INSERT INTO favorites (id, sequence, remote_id, location_name, latitude, longitude, saved_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		favorite.RemoteID(),
		entry.LocationName,
		entry.Latitude,
		entry.Longitude,
		entry.SavedAt,
		favorite.CreatedAt(),
		favorite.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert favorite: %w", err)
	}

	return nil
}

// Get retrieves a cached favorite by ID, excluding soft-deleted rows
func (r *FavoriteCacheRepository) Get(id string) (*models.CachedFavorite, error) {
	query := `
		SELECT id, sequence, remote_id, location_name, latitude, longitude, saved_at, created_at, updated_at, deleted_at
		FROM favorites
		WHERE id = ? AND deleted_at IS NULL
	`

	row := r.db.QueryRow(query, id)
	favorite, err := scanFavorite(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("favorite not found: %s", id)
	}
	if err != nil {
		return nil, err
	}

	return favorite, nil
}

// GetByRemoteID retrieves a cached favorite by its server id, excluding soft-deleted rows
func (r *FavoriteCacheRepository) GetByRemoteID(remoteID string) (*models.CachedFavorite, error) {
	query := `
		SELECT id, sequence, remote_id, location_name, latitude, longitude, saved_at, created_at, updated_at, deleted_at
		FROM favorites
		WHERE remote_id = ? AND deleted_at IS NULL
	`

	row := r.db.QueryRow(query, remoteID)
	favorite, err := scanFavorite(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("favorite not found: %s", remoteID)
	}
	if err != nil {
		return nil, err
	}

	return favorite, nil
}

// Update modifies an existing cached favorite in the database
func (r *FavoriteCacheRepository) Update(favorite *models.CachedFavorite) error {
	if err := favorite.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	favorite.SetUpdatedAt(now)
	entry := favorite.Entry()

	query := `
		UPDATE favorites
		SET location_name = ?, latitude = ?, longitude = ?, saved_at = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		entry.LocationName,
		entry.Latitude,
		entry.Longitude,
		entry.SavedAt,
		now,
		favorite.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update favorite: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("favorite not found or already deleted: %s", favorite.ID())
	}

	return nil
}

// Delete soft-deletes a cached favorite by ID
func (r *FavoriteCacheRepository) Delete(id string) error {
	return r.softDelete("id", id)
}

// DeleteByRemoteID soft-deletes a cached favorite by its server id
func (r *FavoriteCacheRepository) DeleteByRemoteID(remoteID string) error {
	return r.softDelete("remote_id", remoteID)
}

func (r *FavoriteCacheRepository) softDelete(column, value string) error {
	now := time.Now()

	query := fmt.Sprintf(`
		UPDATE favorites
		SET deleted_at = ?
		WHERE %s = ? AND deleted_at IS NULL
	`, column)

	result, err := r.db.Exec(query, now, value)
	if err != nil {
		return fmt.Errorf("failed to delete favorite: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("favorite not found or already deleted: %s", value)
	}

	return nil
}

// List retrieves all cached favorites matching the given criteria in sequence
// order, excluding soft-deleted rows
func (r *FavoriteCacheRepository) List(criteria map[string]any) ([]*models.CachedFavorite, error) {
	query := `
		SELECT id, sequence, remote_id, location_name, latitude, longitude, saved_at, created_at, updated_at, deleted_at
		FROM favorites
		WHERE deleted_at IS NULL
	`

	args := []any{}

	if name, ok := criteria["location_name"].(string); ok && name != "" {
		query += " AND location_name = ?"
		args = append(args, name)
	}

	if remoteID, ok := criteria["remote_id"].(string); ok && remoteID != "" {
		query += " AND remote_id = ?"
		args = append(args, remoteID)
	}

	query += " ORDER BY sequence ASC"

	return r.queryFavorites(query, args...)
}

// listAll retrieves every row including soft-deleted ones, for reconciliation.
func (r *FavoriteCacheRepository) listAll() ([]*models.CachedFavorite, error) {
	query := `
		SELECT id, sequence, remote_id, location_name, latitude, longitude, saved_at, created_at, updated_at, deleted_at
		FROM favorites
		ORDER BY sequence ASC
	`
	return r.queryFavorites(query)
}

func (r *FavoriteCacheRepository) queryFavorites(query string, args ...any) ([]*models.CachedFavorite, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query favorites: %w", err)
	}
	defer rows.Close()

	var favorites []*models.CachedFavorite
	for rows.Next() {
		favorite, err := scanFavorite(rows.Scan)
		if err != nil {
			return nil, err
		}
		favorites = append(favorites, favorite)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return favorites, nil
}

// Entries returns the cached favorites as plain entries for display.
func (r *FavoriteCacheRepository) Entries() ([]models.FavoriteEntry, error) {
	cached, err := r.List(nil)
	if err != nil {
		return nil, err
	}

	entries := make([]models.FavoriteEntry, 0, len(cached))
	for _, favorite := range cached {
		entries = append(entries, favorite.Entry())
	}
	return entries, nil
}

// Reconcile replaces the cache contents with the server's list.
//
// Live rows absent from the server list are soft-deleted; new server entries
// are inserted. A remote id that was soft-deleted locally and reappears in the
// server list is restored in place, so the remote_id uniqueness constraint
// never trips. Existing rows keep their sequence so ordering stays stable.
func (r *FavoriteCacheRepository) Reconcile(entries []models.FavoriteEntry) error {
	cached, err := r.listAll()
	if err != nil {
		return err
	}

	remote := make(map[string]models.FavoriteEntry, len(entries))
	for _, entry := range entries {
		remote[entry.ID] = entry
	}

	for _, favorite := range cached {
		entry, ok := remote[favorite.RemoteID()]
		delete(remote, favorite.RemoteID())

		switch {
		case !ok && favorite.DeletedAt() == nil:
			if err := r.DeleteByRemoteID(favorite.RemoteID()); err != nil {
				return err
			}
		case ok && favorite.DeletedAt() != nil:
			if err := r.restore(entry); err != nil {
				return err
			}
		}
	}

	for _, entry := range remote {
		if err := r.Create(models.NewCachedFavorite(0, entry)); err != nil {
			return err
		}
	}

	return nil
}

// restore un-deletes a row whose remote id came back in a server list,
// refreshing its fields from the server entry.
func (r *FavoriteCacheRepository) restore(entry models.FavoriteEntry) error {
	query := `
		UPDATE favorites
		SET deleted_at = NULL, location_name = ?, latitude = ?, longitude = ?, saved_at = ?, updated_at = ?
		WHERE remote_id = ?
	`

	_, err := r.db.Exec(query,
		entry.LocationName,
		entry.Latitude,
		entry.Longitude,
		entry.SavedAt,
		time.Now(),
		entry.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to restore favorite: %w", err)
	}

	return nil
}

// scanFavorite builds a CachedFavorite from either a Row or Rows scan function.
func scanFavorite(scan func(dest ...any) error) (*models.CachedFavorite, error) {
	var (
		id           string
		sequence     int
		remoteID     string
		locationName string
		latitude     float64
		longitude    float64
		savedAt      time.Time
		createdAt    time.Time
		updatedAt    time.Time
		deletedAt    sql.NullTime
	)

	err := scan(&id, &sequence, &remoteID, &locationName, &latitude, &longitude, &savedAt, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan favorite: %w", err)
	}

	entry := models.FavoriteEntry{
		ID:           remoteID,
		LocationName: locationName,
		Latitude:     latitude,
		Longitude:    longitude,
		SavedAt:      savedAt,
	}

	favorite := models.NewCachedFavorite(sequence, entry)
	favorite.SetID(id)
	favorite.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		favorite.SetDeletedAt(&deletedAt.Time)
	}

	return favorite, nil
}
