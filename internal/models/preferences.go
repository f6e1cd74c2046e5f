package models

import (
	"fmt"

	"lunarview/internal/shared"
)

// ThemeID names one of the three fixed palettes.
type ThemeID string

const (
	ThemeDark   ThemeID = "dark"
	ThemeLight  ThemeID = "light"
	ThemeCosmic ThemeID = "cosmic"
)

// ParseThemeID validates a theme identifier string.
func ParseThemeID(s string) (ThemeID, error) {
	switch ThemeID(s) {
	case ThemeDark, ThemeLight, ThemeCosmic:
		return ThemeID(s), nil
	default:
		return "", fmt.Errorf("%w: unknown theme %q", shared.ErrInvalidInput, s)
	}
}

// ThemeState is the persisted theme selection. When AutoFollowSystem is true,
// ThemeID is derived from the system preference and recomputed on every
// system-preference change.
type ThemeState struct {
	ThemeID          ThemeID
	AutoFollowSystem bool
}

// Permission is the platform's actual notification grant state. It is
// authoritative: user intent alone never implies capability.
type Permission string

const (
	PermissionDefault Permission = "default"
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

// NotificationPreference pairs persisted user intent with the platform grant.
type NotificationPreference struct {
	Enabled    bool
	Permission Permission
}

// CanNotify reports whether a notification may actually be dispatched.
func (p NotificationPreference) CanNotify() bool {
	return p.Enabled && p.Permission == PermissionGranted
}
