// package notify implements the permission-aware notification gate.
//
// User intent (enabled) and the platform grant (permission) are independent:
// intent is persisted locally, the grant belongs to the platform, and a
// notification is dispatched only when both hold at call time.
package notify

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"lunarview/internal/models"
	"lunarview/internal/shared"
)

// Platform abstracts the desktop notification capability.
type Platform interface {
	// Supported reports whether notifications can be shown at all.
	Supported() bool

	// RequestPermission prompts for the platform grant. Implementations that
	// have no prompt concept return their effective grant state.
	RequestPermission(ctx context.Context) (models.Permission, error)

	// Show displays a notification.
	Show(title, body string) error
}

// PrefStore persists the notification preference.
type PrefStore interface {
	NotificationPreference() (models.NotificationPreference, error)
	SaveNotificationPreference(models.NotificationPreference) error
}

// Gate converts astronomy results into user-visible alerts only when enabled
// and permitted. Both flags are re-checked on every call, never cached from
// enable time.
type Gate struct {
	platform Platform
	store    PrefStore
	logger   *log.Logger
	pref     models.NotificationPreference
}

// NewGate creates a Gate, loading the persisted preference once.
func NewGate(platform Platform, store PrefStore, logger *log.Logger) (*Gate, error) {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	pref := models.NotificationPreference{Permission: models.PermissionDefault}
	if store != nil {
		loaded, err := store.NotificationPreference()
		if err != nil {
			return nil, fmt.Errorf("failed to load notification preference: %w", err)
		}
		pref = loaded
	}

	return &Gate{platform: platform, store: store, logger: logger, pref: pref}, nil
}

// Preference returns the current preference state.
func (g *Gate) Preference() models.NotificationPreference {
	return g.pref
}

// RequestEnable turns notifications on, prompting for the platform grant when
// it is still undecided. Already-granted permission is not re-prompted. Returns
// whether notifications are now actually deliverable.
func (g *Gate) RequestEnable(ctx context.Context) (bool, error) {
	if g.platform == nil || !g.platform.Supported() {
		return false, fmt.Errorf("%w: notifications unavailable", shared.ErrUnsupported)
	}

	if g.pref.Permission != models.PermissionGranted {
		permission, err := g.platform.RequestPermission(ctx)
		if err != nil {
			return false, fmt.Errorf("permission request failed: %w", err)
		}
		g.pref.Permission = permission
	}

	g.pref.Enabled = g.pref.Permission == models.PermissionGranted
	if err := g.persist(); err != nil {
		return false, err
	}

	if g.pref.CanNotify() {
		// Immediate feedback that enabling worked.
		if err := g.Notify("Lunar View", "Notifications are now enabled!"); err != nil {
			g.logger.Warn("confirmation notification failed", "error", err)
		}
	}

	return g.pref.CanNotify(), nil
}

// Disable turns off user intent. The platform grant is left as-is.
func (g *Gate) Disable() error {
	g.pref.Enabled = false
	return g.persist()
}

// Notify displays a notification, or silently does nothing unless both user
// intent and the platform grant hold right now.
func (g *Gate) Notify(title, body string) error {
	if !g.pref.CanNotify() {
		return nil
	}
	if g.platform == nil {
		return nil
	}
	return g.platform.Show(title, body)
}

func (g *Gate) persist() error {
	if g.store == nil {
		return nil
	}
	if err := g.store.SaveNotificationPreference(g.pref); err != nil {
		return fmt.Errorf("failed to persist notification preference: %w", err)
	}
	return nil
}
