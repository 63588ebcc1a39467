package cli

import (
	"fmt"

	"github.com/wanhsuan/healthstash/internal/constants"
)

type LogListCmd struct {
	Limit int `short:"n" default:"0" help:"Show at most this many entries (0 = all)."`
}

func (c *LogListCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	logs, err := ctx.Store.GetAllLogs()
	if err != nil {
		return err
	}
	if len(logs) == 0 {
		fmt.Println("No doses logged yet")
		return nil
	}
	if c.Limit > 0 && len(logs) > c.Limit {
		logs = logs[:c.Limit]
	}

	// Newest first, matching store order.
	for _, entry := range logs {
		fmt.Printf("%s  %s  %s\n",
			entry.Timestamp.Format(constants.TimestampFormat), entry.MedicationName, entry.Dosage)
	}
	return nil
}

type LogClearCmd struct {
	Force bool `short:"f" help:"Clear without confirmation."`
}

func (c *LogClearCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	if !c.Force {
		ok, err := confirm("Clear the entire dose history?")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Aborted")
			return nil
		}
	}

	if err := ctx.App.ClearLogs(); err != nil {
		return err
	}
	fmt.Println("Dose history cleared")
	return nil
}
