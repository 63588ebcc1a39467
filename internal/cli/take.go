package cli

import (
	"fmt"
)

type TakeCmd struct {
	Med    string `arg:"" help:"Medication id or name."`
	Amount int    `short:"n" default:"1" help:"Units taken."`
}

func (c *TakeCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	id, err := resolveMedication(ctx, c.Med)
	if err != nil {
		return err
	}

	med, advisories, err := ctx.App.TakeDose(id, c.Amount)
	if err != nil {
		return err
	}

	fmt.Printf("Took %s: %d/%d units remaining\n", med.Name, med.RemainingQuantity, med.TotalQuantity)
	printAdvisories(advisories)
	return nil
}
