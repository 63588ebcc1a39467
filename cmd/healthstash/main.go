package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/wanhsuan/healthstash/internal/app"
	"github.com/wanhsuan/healthstash/internal/cli"
	"github.com/wanhsuan/healthstash/internal/constants"
	"github.com/wanhsuan/healthstash/internal/errors"
	"github.com/wanhsuan/healthstash/internal/logger"
	"github.com/wanhsuan/healthstash/internal/notifier"
	"github.com/wanhsuan/healthstash/internal/scheduler"
	"github.com/wanhsuan/healthstash/internal/storage/sqlite"
)

var CLI struct {
	Version     kong.VersionFlag
	Config      string `help:"Database file path." type:"path" default:"~/.config/healthstash/healthstash.db"`
	Debug       bool   `help:"Enable debug logging."`
	Approximate bool   `help:"Use minute-granularity reminder timing."`

	Init  cli.InitCmd  `cmd:"" help:"Initialize healthstash storage."`
	Watch cli.WatchCmd `cmd:"" help:"Launch the live dashboard." default:"1"`
	Med   struct {
		Add    cli.MedAddCmd    `cmd:"" help:"Add a medication."`
		Edit   cli.MedEditCmd   `cmd:"" help:"Edit a medication."`
		Delete cli.MedDeleteCmd `cmd:"" help:"Delete a medication."`
		List   cli.MedListCmd   `cmd:"" help:"List all medications."`
	} `cmd:"" help:"Manage medications."`
	Take cli.TakeCmd `cmd:"" help:"Record taking a dose."`
	Log  struct {
		List  cli.LogListCmd  `cmd:"" help:"Show the dose history."`
		Clear cli.LogClearCmd `cmd:"" help:"Clear the dose history."`
	} `cmd:"" help:"Manage the dose history."`
	Remind struct {
		Start cli.RemindStartCmd `cmd:"" help:"Run the reminder daemon."`
		List  cli.RemindListCmd  `cmd:"" help:"List upcoming reminders."`
	} `cmd:"" help:"Medication reminders."`
	Doctor cli.DoctorCmd `cmd:"" help:"Run diagnostics."`
	Notify cli.NotifyCmd `cmd:"" hidden:"" help:"Send a test notification."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Personal medication tracker with stock counts and reminders"),
		kong.UsageOnError(),
		kong.Vars{"version": constants.Version},
	)

	if err := logger.Init(logger.Config{
		Debug:     CLI.Debug,
		ConfigDir: filepath.Dir(CLI.Config),
	}); err != nil {
		fmt.Fprintln(os.Stderr, errors.Formatf("failed to initialize logging: %v", err))
		os.Exit(1)
	}

	store := sqlite.NewStore(CLI.Config)
	defer store.Close()

	notif := notifier.New()
	sched := scheduler.New(scheduler.Options{
		Notifier:     notif,
		ExactWakeups: !CLI.Approximate,
	})

	appCtx := &cli.Context{
		Store:     store,
		Scheduler: sched,
		App:       app.NewService(store, sched, notif),
		Notifier:  notif,
	}

	errors.Fatal(ctx.Run(appCtx))
}
