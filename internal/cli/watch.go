package cli

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wanhsuan/healthstash/internal/scheduler"
	"github.com/wanhsuan/healthstash/internal/tui"
)

type WatchCmd struct{}

// Run launches the live dashboard. The scheduler is restored first so
// reminders fire while the dashboard is open.
func (c *WatchCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	if _, err := ctx.Scheduler.RestoreAll(ctx.Store); err != nil &&
		!errors.Is(err, scheduler.ErrApproximateTiming) {
		return err
	}
	defer ctx.Scheduler.Stop()

	p := tea.NewProgram(tui.NewModel(ctx.Store, ctx.Scheduler, ctx.App), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Alas, there's been an error: %v", err)
		os.Exit(1)
	}
	return nil
}
