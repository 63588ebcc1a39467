package storage

import (
	"context"

	"github.com/wanhsuan/healthstash/internal/models"
)

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Medications
	GetAllMedications() ([]models.Medication, error)
	GetMedication(id string) (models.Medication, error)
	GetMedicationByName(name string) (models.Medication, error)
	// InsertMedication stores a new medication and returns its assigned id.
	InsertMedication(models.Medication) (string, error)
	UpdateMedication(models.Medication) error
	DeleteMedication(id string) error
	// NameExists reports whether another medication already uses the name.
	// excludeID is the record being edited, empty for the add flow.
	NameExists(name string, excludeID string) (bool, error)
	GetLowStock(threshold int) ([]models.Medication, error)

	// Dose logs
	GetAllLogs() ([]models.DoseLog, error)
	InsertLog(models.DoseLog) error
	ClearAllLogs() error

	// Transact runs fn against a transactional view of the store. Every
	// write fn performs is committed as one atomic unit, or rolled back
	// entirely if fn returns an error.
	Transact(fn func(Provider) error) error

	// Change feeds: the returned channel carries the current snapshot
	// first, then a fresh snapshot after every committed write, until ctx
	// is done.
	ObserveMedications(ctx context.Context) (<-chan []models.Medication, error)
	ObserveLogs(ctx context.Context) (<-chan []models.DoseLog, error)

	// Utils
	GetConfigPath() string
}
