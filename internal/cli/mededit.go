package cli

import (
	"fmt"

	"github.com/wanhsuan/healthstash/internal/app"
	"github.com/wanhsuan/healthstash/internal/models"
)

type MedEditCmd struct {
	Med         string  `arg:"" help:"Medication id or name."`
	Rename      *string `help:"New name."`
	Quantity    *int    `short:"q" help:"New total quantity (1-500). Remaining stock is reconciled."`
	Times       *string `short:"t" help:"New comma-separated reminder times (HH:MM). Empty string clears them."`
	Image       string  `short:"i" type:"existingfile" help:"Replace the icon with an image file."`
	RemoveIcon  bool    `help:"Remove the current icon."`
	Interactive bool    `short:"I" help:"Edit details interactively."`
}

func (c *MedEditCmd) Validate() error {
	if c.Image != "" && c.RemoveIcon {
		return fmt.Errorf("--image and --remove-icon are mutually exclusive")
	}
	return nil
}

func (c *MedEditCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	id, err := resolveMedication(ctx, c.Med)
	if err != nil {
		return err
	}
	old, err := ctx.Store.GetMedication(id)
	if err != nil {
		return err
	}

	// Start from the current record, then layer the requested changes.
	input := app.MedicationInput{
		Name:          old.Name,
		Icon:          old.Icon,
		UsageTimes:    old.UsageTimes,
		TotalQuantity: old.TotalQuantity,
	}
	if c.Rename != nil {
		input.Name = *c.Rename
	}
	if c.Quantity != nil {
		input.TotalQuantity = *c.Quantity
	}
	if c.Times != nil {
		times, err := parseUsageTimes(*c.Times)
		if err != nil {
			return err
		}
		input.UsageTimes = times
	}

	oldIcon := old.Icon
	iconReplaced := false
	if c.RemoveIcon {
		input.Icon = models.NoIcon()
		iconReplaced = true
	}
	if c.Image != "" {
		imported, err := app.ImportIcon(ctx.Store.GetConfigPath(), c.Image)
		if err != nil {
			return err
		}
		input.Icon = imported
		iconReplaced = true
	}

	if c.Interactive {
		filled, err := medicationForm(ctx, input, id)
		if err != nil {
			return err
		}
		input = filled
	}

	med, advisories, err := ctx.App.EditMedication(id, input)
	if err != nil {
		if c.Image != "" {
			app.RemoveIcon(input.Icon)
		}
		return err
	}
	if iconReplaced {
		app.RemoveIcon(oldIcon)
	}

	fmt.Printf("Updated %s: %d/%d units, %s\n",
		med.Name, med.RemainingQuantity, med.TotalQuantity, formatUsageTimes(med.UsageTimes))
	printAdvisories(advisories)
	return nil
}
