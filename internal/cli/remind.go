package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wanhsuan/healthstash/internal/scheduler"
)

type RemindStartCmd struct{}

// Run restores every medication's reminder schedule and blocks until
// interrupted. Wake-ups live in this process, so reminders fire only
// while it runs.
func (c *RemindStartCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	if !ctx.Notifier.Available() {
		fmt.Println("⚠ Tray notifier is not running; reminders will only be logged.")
	}

	count, err := ctx.Scheduler.RestoreAll(ctx.Store)
	if err != nil {
		if !errors.Is(err, scheduler.ErrApproximateTiming) {
			return err
		}
		fmt.Println("⚠ Exact reminders are unavailable; reminder timing will be approximate.")
	}
	fmt.Printf("Watching %d reminder(s). Press Ctrl+C to stop.\n", count)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	ctx.Scheduler.Stop()
	fmt.Println("Reminders stopped")
	return nil
}

type RemindListCmd struct{}

func (c *RemindListCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	if _, err := ctx.Scheduler.RestoreAll(ctx.Store); err != nil &&
		!errors.Is(err, scheduler.ErrApproximateTiming) {
		return err
	}
	defer ctx.Scheduler.Stop()

	upcoming := ctx.Scheduler.UpcomingReminders()
	if len(upcoming) == 0 {
		fmt.Println("No reminders scheduled")
		return nil
	}

	fmt.Println("Upcoming reminders:")
	now := time.Now()
	for _, u := range upcoming {
		fmt.Printf("  %s at %s (in %s)\n",
			u.Name, u.Time, u.NextFire.Sub(now).Round(time.Minute))
	}
	return nil
}
