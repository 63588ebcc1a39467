package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/wanhsuan/healthstash/internal/constants"
)

var (
	medNameStyle  = lipgloss.NewStyle().Bold(true)
	lowStockStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	emptyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	detailStyle   = lipgloss.NewStyle().Faint(true)
)

type MedListCmd struct {
	LowOnly bool `help:"Show only medications that are running low."`
}

func (c *MedListCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	meds, err := ctx.Store.GetAllMedications()
	if c.LowOnly {
		meds, err = ctx.Store.GetLowStock(constants.LowStockThreshold)
	}
	if err != nil {
		return err
	}
	if len(meds) == 0 {
		fmt.Println("No medications found")
		return nil
	}

	for _, med := range meds {
		stock := fmt.Sprintf("%d/%d units", med.RemainingQuantity, med.TotalQuantity)
		switch {
		case med.RemainingQuantity == 0:
			stock = emptyStyle.Render(stock + " (out of stock)")
		case med.RemainingQuantity <= constants.LowStockThreshold:
			stock = lowStockStyle.Render(stock + " (low)")
		}

		fmt.Printf("%s  %s\n", medNameStyle.Render(med.Name), stock)
		fmt.Printf("  %s\n", detailStyle.Render(formatUsageTimes(med.UsageTimes)))
	}
	return nil
}
