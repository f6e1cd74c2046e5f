package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"
	"lunarview/internal/shared"
	"lunarview/internal/tasks"
	"lunarview/internal/ui"
)

// TUI launches the interactive terminal dashboard.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(ctx); err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/lunarview-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	themes, err := r.themeEngine()
	if err != nil {
		return err
	}

	store, err := r.favoritesStore()
	if err != nil {
		return err
	}

	gate := r.notificationGate()

	var notifier tasks.Notifier
	var toggle ui.NotificationToggle
	if gate != nil {
		notifier = gate
		toggle = gate
	}

	orc := tasks.NewOrchestrator(r.resolver, r.lunar, notifier, r.logger)

	model := ui.NewModel(ctx, orc, store, themes, toggle)
	// Focus reporting feeds the theme engine's system re-probe.
	p := tea.NewProgram(model, tea.WithReportFocus())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "tui",
		Usage:  "Launch the interactive dashboard",
		Action: r.TUI,
	}
}
