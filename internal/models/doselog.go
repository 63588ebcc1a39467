package models

import "time"

// DoseLog is an append-only audit record of a dose taken. MedicationName is
// a denormalized copy of the name at dose time; renames and deletes of the
// medication do not rewrite history.
type DoseLog struct {
	ID             string    `json:"id"`
	MedicationName string    `json:"medication_name"`
	Timestamp      time.Time `json:"timestamp"`
	Dosage         string    `json:"dosage"`
}
