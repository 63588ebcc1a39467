package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/wanhsuan/healthstash/internal/app"
	"github.com/wanhsuan/healthstash/internal/constants"
	"github.com/wanhsuan/healthstash/internal/models"
	"github.com/wanhsuan/healthstash/internal/validation"
)

// medicationForm runs the interactive add/edit form. excludeID is the
// medication being edited, empty for the add flow. The prior values seed
// the fields so an edit starts from the current record.
func medicationForm(ctx *Context, prior app.MedicationInput, excludeID string) (app.MedicationInput, error) {
	name := prior.Name
	quantity := ""
	if prior.TotalQuantity > 0 {
		quantity = strconv.Itoa(prior.TotalQuantity)
	}
	times := strings.Join(prior.UsageTimes, ", ")

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Description(fmt.Sprintf("Up to %d characters.", constants.NameMaxLen)).
				Value(&name).
				Validate(func(s string) error {
					if err := validation.Name(s); err != nil {
						return err
					}
					exists, err := ctx.Store.NameExists(strings.TrimSpace(s), excludeID)
					if err != nil {
						return err
					}
					if exists {
						return validation.ErrDuplicateName
					}
					return nil
				}),
			huh.NewInput().
				Title("Total quantity").
				Description(fmt.Sprintf("%d-%d units in the pack.", constants.QuantityMin, constants.QuantityMax)).
				Value(&quantity).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("quantity is required")
					}
					return validation.Quantity(s)
				}),
			huh.NewInput().
				Title("Reminder times").
				Description(fmt.Sprintf("Comma-separated HH:MM, up to %d. Leave empty for none.", constants.MaxUsageTimes)).
				Value(&times).
				Validate(func(s string) error {
					parsed, err := parseUsageTimes(s)
					if err != nil {
						return err
					}
					if len(parsed) > constants.MaxUsageTimes {
						return fmt.Errorf("at most %d usage times are allowed", constants.MaxUsageTimes)
					}
					return nil
				}),
		),
	)

	if err := form.Run(); err != nil {
		return app.MedicationInput{}, err
	}

	total, err := strconv.Atoi(quantity)
	if err != nil {
		return app.MedicationInput{}, validation.ErrNotANumber
	}
	usageTimes, err := parseUsageTimes(times)
	if err != nil {
		return app.MedicationInput{}, err
	}

	icon := prior.Icon
	if icon.Kind == "" {
		icon = models.NoIcon()
	}
	return app.MedicationInput{
		Name:          strings.TrimSpace(name),
		Icon:          icon,
		UsageTimes:    usageTimes,
		TotalQuantity: total,
	}, nil
}

func confirm(prompt string) (bool, error) {
	var ok bool
	err := huh.NewConfirm().
		Title(prompt).
		Affirmative("Yes").
		Negative("No").
		Value(&ok).
		Run()
	return ok, err
}
