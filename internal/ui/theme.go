package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"lunarview/internal/models"
)

// ThemeStore persists theme selection between runs.
type ThemeStore interface {
	ThemeState() (models.ThemeState, error)
	SaveThemeState(models.ThemeState) error
}

// SystemPreference reports the host's dark-mode hint.
type SystemPreference interface {
	PrefersDark() bool
}

// TerminalPreference derives the system hint from the terminal background.
type TerminalPreference struct{}

func (TerminalPreference) PrefersDark() bool {
	return lipgloss.HasDarkBackground()
}

// Engine owns the active palette. Views read Palette() at render time, so a
// theme change repaints on the next frame with no stale styles.
//
// Like the Orchestrator it belongs to the single UI loop and takes no lock.
type Engine struct {
	store   ThemeStore
	system  SystemPreference
	state   models.ThemeState
	palette Palette
}

// NewEngine loads the persisted theme state. When auto-follow is on, the
// effective theme is recomputed from the system preference before the first
// render.
func NewEngine(store ThemeStore, system SystemPreference) (*Engine, error) {
	if system == nil {
		system = TerminalPreference{}
	}

	state := models.ThemeState{ThemeID: models.ThemeDark}
	if store != nil {
		loaded, err := store.ThemeState()
		if err != nil {
			return nil, fmt.Errorf("failed to load theme state: %w", err)
		}
		state = loaded
	}

	e := &Engine{store: store, system: system, state: state}
	if e.state.AutoFollowSystem {
		e.state.ThemeID = e.systemTheme()
	}
	e.palette = PaletteFor(e.state.ThemeID)
	return e, nil
}

// Palette returns the active palette.
func (e *Engine) Palette() Palette { return e.palette }

// State returns the current theme state.
func (e *Engine) State() models.ThemeState { return e.state }

// SetTheme selects an explicit theme. An explicit choice always turns
// auto-follow off.
func (e *Engine) SetTheme(id models.ThemeID) error {
	e.state.ThemeID = id
	e.state.AutoFollowSystem = false
	e.palette = PaletteFor(id)
	return e.persist()
}

// SetAutoFollowSystem toggles following the system preference. Enabling it
// recomputes the effective theme immediately.
func (e *Engine) SetAutoFollowSystem(enabled bool) error {
	e.state.AutoFollowSystem = enabled
	if enabled {
		e.state.ThemeID = e.systemTheme()
		e.palette = PaletteFor(e.state.ThemeID)
	}
	return e.persist()
}

// SystemChanged feeds a system preference change event. Ignored unless
// auto-follow is on.
func (e *Engine) SystemChanged(dark bool) error {
	if !e.state.AutoFollowSystem {
		return nil
	}

	if dark {
		e.state.ThemeID = models.ThemeDark
	} else {
		e.state.ThemeID = models.ThemeLight
	}
	e.palette = PaletteFor(e.state.ThemeID)
	return e.persist()
}

// ResyncSystem re-reads the system preference and applies it through
// SystemChanged. Terminals deliver no change events of their own, so the UI
// calls this whenever focus comes back.
func (e *Engine) ResyncSystem() error {
	return e.SystemChanged(e.system.PrefersDark())
}

func (e *Engine) systemTheme() models.ThemeID {
	if e.system.PrefersDark() {
		return models.ThemeDark
	}
	return models.ThemeLight
}

func (e *Engine) persist() error {
	if e.store == nil {
		return nil
	}
	if err := e.store.SaveThemeState(e.state); err != nil {
		return fmt.Errorf("failed to persist theme state: %w", err)
	}
	return nil
}
