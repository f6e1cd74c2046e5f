package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
	"lunarview/internal/models"
	"lunarview/internal/repositories"
	"lunarview/internal/shared"
	"lunarview/internal/ui"
)

// themeEngine builds the theme engine over the settings repository.
func (r *Runner) themeEngine() (*ui.Engine, error) {
	db, err := r.database()
	if err != nil {
		return nil, err
	}
	return ui.NewEngine(repositories.NewSettingsRepository(db), nil)
}

// ThemeStatus prints the persisted theme selection.
func (r *Runner) ThemeStatus(ctx context.Context, cmd *cli.Command) error {
	engine, err := r.themeEngine()
	if err != nil {
		return err
	}

	state := engine.State()
	r.writePlain("Theme: %s\n", state.ThemeID)
	r.writePlain("Follow system: %v\n", state.AutoFollowSystem)
	return nil
}

// ThemeSet selects an explicit theme, turning auto-follow off.
func (r *Runner) ThemeSet(ctx context.Context, cmd *cli.Command) error {
	id, err := models.ParseThemeID(cmd.StringArg("theme"))
	if err != nil {
		return fmt.Errorf("%w (expected dark, light or cosmic)", err)
	}

	engine, err := r.themeEngine()
	if err != nil {
		return err
	}

	if err := engine.SetTheme(id); err != nil {
		return err
	}
	return r.writePlain("✓ Theme set to %s\n", id)
}

// ThemeAuto toggles following the system preference.
func (r *Runner) ThemeAuto(ctx context.Context, cmd *cli.Command) error {
	engine, err := r.themeEngine()
	if err != nil {
		return err
	}

	enabled := !cmd.Bool("off")
	if err := engine.SetAutoFollowSystem(enabled); err != nil {
		return err
	}

	if enabled {
		return r.writePlain("✓ Following the system theme (currently %s)\n", engine.State().ThemeID)
	}
	return r.writePlain("✓ System theme following disabled\n")
}

// NotifyEnable turns notifications on, requesting the platform grant if
// needed.
func (r *Runner) NotifyEnable(ctx context.Context, cmd *cli.Command) error {
	gate := r.notificationGate()
	if gate == nil {
		return fmt.Errorf("%w: notification gate unavailable", shared.ErrUnsupported)
	}

	active, err := gate.RequestEnable(ctx)
	if err != nil {
		return err
	}

	if !active {
		return r.writePlain("✗ Notifications enabled but permission was denied\n")
	}
	return r.writePlain("✓ Notifications enabled\n")
}

// NotifyDisable turns notifications off.
func (r *Runner) NotifyDisable(ctx context.Context, cmd *cli.Command) error {
	gate := r.notificationGate()
	if gate == nil {
		return fmt.Errorf("%w: notification gate unavailable", shared.ErrUnsupported)
	}

	if err := gate.Disable(); err != nil {
		return err
	}
	return r.writePlain("✓ Notifications disabled\n")
}

// NotifyStatus prints the notification preference and platform grant.
func (r *Runner) NotifyStatus(ctx context.Context, cmd *cli.Command) error {
	gate := r.notificationGate()
	if gate == nil {
		return fmt.Errorf("%w: notification gate unavailable", shared.ErrUnsupported)
	}

	pref := gate.Preference()
	r.writePlain("Enabled: %v\n", pref.Enabled)
	r.writePlain("Permission: %s\n", pref.Permission)
	r.writePlain("Deliverable: %v\n", pref.CanNotify())
	return nil
}

// themeCommand handles palette selection
func themeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "theme",
		Usage: "Select the dashboard theme",
		Commands: []*cli.Command{
			{
				Name:   "status",
				Usage:  "Show the current theme",
				Action: r.ThemeStatus,
			},
			{
				Name:  "set",
				Usage: "Set the theme: dark, light or cosmic",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "theme",
					},
				},
				Action: r.ThemeSet,
			},
			{
				Name:  "auto",
				Usage: "Follow the system light/dark preference",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "off",
						Usage: "Stop following the system preference",
					},
				},
				Action: r.ThemeAuto,
			},
		},
	}
}

// notifyCommand handles notification preferences
func notifyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "notify",
		Usage: "Manage sky event notifications",
		Commands: []*cli.Command{
			{
				Name:   "enable",
				Usage:  "Enable notifications (prompts for permission)",
				Action: r.NotifyEnable,
			},
			{
				Name:   "disable",
				Usage:  "Disable notifications",
				Action: r.NotifyDisable,
			},
			{
				Name:   "status",
				Usage:  "Show notification preference and permission",
				Action: r.NotifyStatus,
			},
		},
	}
}
