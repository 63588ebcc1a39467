package cli

import (
	"fmt"

	"github.com/wanhsuan/healthstash/internal/app"
	"github.com/wanhsuan/healthstash/internal/models"
)

type MedAddCmd struct {
	Name        string `arg:"" optional:"" help:"Medication name (max 10 characters)."`
	Quantity    int    `short:"q" help:"Total units in the pack (1-500)."`
	Times       string `short:"t" help:"Comma-separated reminder times (HH:MM), up to 4."`
	Image       string `short:"i" type:"existingfile" help:"Image file to use as the medication icon."`
	Icon        string `help:"Bundled icon name."`
	Interactive bool   `short:"I" help:"Fill in details interactively."`
}

func (c *MedAddCmd) Validate() error {
	if c.Image != "" && c.Icon != "" {
		return fmt.Errorf("--image and --icon are mutually exclusive")
	}
	if !c.Interactive {
		if c.Name == "" {
			return fmt.Errorf("name is required (or use --interactive)")
		}
		if c.Quantity == 0 {
			return fmt.Errorf("--quantity is required (or use --interactive)")
		}
	}
	return nil
}

func (c *MedAddCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	icon := models.NoIcon()
	if c.Icon != "" {
		icon = models.BundledIcon(c.Icon)
	}
	if c.Image != "" {
		imported, err := app.ImportIcon(ctx.Store.GetConfigPath(), c.Image)
		if err != nil {
			return err
		}
		icon = imported
	}

	input := app.MedicationInput{
		Name:          c.Name,
		Icon:          icon,
		TotalQuantity: c.Quantity,
	}
	if c.Times != "" {
		times, err := parseUsageTimes(c.Times)
		if err != nil {
			return err
		}
		input.UsageTimes = times
	}

	if c.Interactive {
		filled, err := medicationForm(ctx, input, "")
		if err != nil {
			return err
		}
		input = filled
	}

	med, advisories, err := ctx.App.AddMedication(input)
	if err != nil {
		// The imported icon copy is orphaned if the add fails.
		app.RemoveIcon(icon)
		return err
	}

	fmt.Printf("Added %s: %d units, %s (ID: %s)\n",
		med.Name, med.TotalQuantity, formatUsageTimes(med.UsageTimes), med.ID)
	if len(med.UsageTimes) > 0 {
		fmt.Println("Run 'healthstash remind start' to receive reminders.")
	}
	printAdvisories(advisories)
	return nil
}
