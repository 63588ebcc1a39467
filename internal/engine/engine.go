package engine

import (
	"errors"

	"github.com/wanhsuan/healthstash/internal/models"
)

var ErrInsufficientStock = errors.New("not enough stock remaining")

// ApplyDose returns the medication with amount deducted from remaining
// stock. It fails without mutating anything if the amount exceeds what is
// left. The caller must persist the result and append exactly one dose log
// in the same transaction.
func ApplyDose(med models.Medication, amount int) (models.Medication, error) {
	if amount > med.RemainingQuantity {
		return models.Medication{}, ErrInsufficientStock
	}
	med.RemainingQuantity -= amount
	return med, nil
}

// ReconcileOnEdit maps an edited total quantity to the updated remaining
// quantity:
//   - shrinking the pack caps remaining at the new total;
//   - growing the pack credits the entire increase as additional remaining
//     stock, which can leave remaining above what was ever physically held
//     across repeated edits (kept as-is, see DESIGN.md);
//   - an unchanged total leaves remaining untouched.
//
// The result is clamped to [0, newTotal] as a final bound.
func ReconcileOnEdit(old models.Medication, newTotal int) int {
	var remaining int
	switch {
	case newTotal < old.TotalQuantity:
		remaining = min(old.RemainingQuantity, newTotal)
	case newTotal > old.TotalQuantity:
		remaining = old.RemainingQuantity + (newTotal - old.TotalQuantity)
	default:
		remaining = old.RemainingQuantity
	}

	if remaining < 0 {
		remaining = 0
	}
	if remaining > newTotal {
		remaining = newTotal
	}
	return remaining
}

// DeriveSchedule produces one reminder per usage-time entry, slot index
// equal to its position in the list. Duplicate times yield independent
// reminders that will both fire.
func DeriveSchedule(med models.Medication) []models.ScheduledReminder {
	reminders := make([]models.ScheduledReminder, 0, len(med.UsageTimes))
	for i, t := range med.UsageTimes {
		if t == "" {
			continue
		}
		reminders = append(reminders, models.ScheduledReminder{
			Key:  models.ReminderKey{MedicationID: med.ID, Slot: i},
			Time: t,
		})
	}
	return reminders
}
