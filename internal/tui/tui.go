// Package tui is the interactive developer roster: an edit form beside a paginated table.
package tui

import (
	"context"
	"errors"
	"time"

	"devroster/internal/controller"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
)

// Options configure Run.
type Options struct {
	Context  context.Context
	Service  controller.Service
	Settings controller.Settings
	// PageSizeExplicit keeps Settings.PageSize even when a saved choice exists.
	PageSizeExplicit bool
	BannerDelay      time.Duration
	StateDir         string
	Log              zerolog.Logger
}

// Run starts the program and blocks until the user quits.
func Run(opts Options) error {
	applyThemePreference()
	applyColorProfilePreference()

	m := newAppModel(opts)
	progOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if opts.Context != nil {
		progOpts = append(progOpts, tea.WithContext(opts.Context))
	}
	_, err := tea.NewProgram(m, progOpts...).Run()
	if errors.Is(err, tea.ErrProgramKilled) && opts.Context != nil && opts.Context.Err() != nil {
		// Interrupted from outside (signal); not a failure.
		return nil
	}
	return err
}
