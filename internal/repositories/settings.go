package repositories

import (
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"lunarview/internal/models"
)

// Setting keys. Each is a simple durable key/value read once at startup and
// written on every change.
const (
	KeyTheme                  = "theme"
	KeyAutoTheme              = "auto_theme"
	KeyNotificationsEnabled   = "notifications_enabled"
	KeyNotificationPermission = "notification_permission"
)

// SettingsRepository persists key/value preferences in the settings table.
type SettingsRepository struct {
	db *sql.DB
}

// NewSettingsRepository creates a new SettingsRepository with the given database connection
func NewSettingsRepository(db *sql.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get retrieves a setting value. Missing keys return ok=false, not an error.
func (r *SettingsRepository) Get(key string) (string, bool, error) {
	var value string
	err := r.db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to query setting %s: %w", key, err)
	}
	return value, true, nil
}

// Set upserts a setting value.
func (r *SettingsRepository) Set(key, value string) error {
	query := `
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := r.db.Exec(query, key, value, time.Now()); err != nil {
		return fmt.Errorf("failed to write setting %s: %w", key, err)
	}
	return nil
}

// ThemeState loads the persisted theme selection, defaulting to the dark
// palette with auto mode off when nothing has been stored yet.
func (r *SettingsRepository) ThemeState() (models.ThemeState, error) {
	state := models.ThemeState{ThemeID: models.ThemeDark}

	if value, ok, err := r.Get(KeyTheme); err != nil {
		return state, err
	} else if ok {
		if id, err := models.ParseThemeID(value); err == nil {
			state.ThemeID = id
		}
	}

	if value, ok, err := r.Get(KeyAutoTheme); err != nil {
		return state, err
	} else if ok {
		state.AutoFollowSystem, _ = strconv.ParseBool(value)
	}

	return state, nil
}

// SaveThemeState persists both theme fields.
func (r *SettingsRepository) SaveThemeState(state models.ThemeState) error {
	if err := r.Set(KeyTheme, string(state.ThemeID)); err != nil {
		return err
	}
	return r.Set(KeyAutoTheme, strconv.FormatBool(state.AutoFollowSystem))
}

// NotificationPreference loads persisted notification state, defaulting to
// disabled with an undecided platform permission.
func (r *SettingsRepository) NotificationPreference() (models.NotificationPreference, error) {
	pref := models.NotificationPreference{Permission: models.PermissionDefault}

	if value, ok, err := r.Get(KeyNotificationsEnabled); err != nil {
		return pref, err
	} else if ok {
		pref.Enabled, _ = strconv.ParseBool(value)
	}

	if value, ok, err := r.Get(KeyNotificationPermission); err != nil {
		return pref, err
	} else if ok {
		switch models.Permission(value) {
		case models.PermissionGranted, models.PermissionDenied, models.PermissionDefault:
			pref.Permission = models.Permission(value)
		}
	}

	return pref, nil
}

// SaveNotificationPreference persists both notification fields.
func (r *SettingsRepository) SaveNotificationPreference(pref models.NotificationPreference) error {
	if err := r.Set(KeyNotificationsEnabled, strconv.FormatBool(pref.Enabled)); err != nil {
		return err
	}
	return r.Set(KeyNotificationPermission, string(pref.Permission))
}
