package cli

import (
	"fmt"

	"github.com/wanhsuan/healthstash/internal/app"
)

type MedDeleteCmd struct {
	Med   string `arg:"" help:"Medication id or name."`
	Force bool   `short:"f" help:"Delete without confirmation."`
}

func (c *MedDeleteCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	id, err := resolveMedication(ctx, c.Med)
	if err != nil {
		return err
	}
	med, err := ctx.Store.GetMedication(id)
	if err != nil {
		return err
	}

	if !c.Force {
		ok, err := confirm(fmt.Sprintf("Delete %s? Its dose history is kept.", med.Name))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Aborted")
			return nil
		}
	}

	if err := ctx.App.DeleteMedication(id); err != nil {
		return err
	}
	app.RemoveIcon(med.Icon)

	fmt.Printf("Deleted %s\n", med.Name)
	return nil
}
