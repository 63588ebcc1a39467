package models

import "fmt"

// ReminderKey identifies one scheduled wake-up: a (medication, slot) pair
// where Slot is the position of the time entry within UsageTimes at
// registration time. Cancellation re-derives the same keys, so it never
// needs to know the original times.
type ReminderKey struct {
	MedicationID string
	Slot         int
}

func (k ReminderKey) String() string {
	return fmt.Sprintf("%s#%d", k.MedicationID, k.Slot)
}

// ScheduledReminder pairs a registration key with its time of day.
type ScheduledReminder struct {
	Key  ReminderKey
	Time string // HH:MM format
}
