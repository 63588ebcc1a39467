// Package app orchestrates validation, the inventory engine, persistence,
// and the reminder scheduler in response to user actions.
package app

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/wanhsuan/healthstash/internal/constants"
	"github.com/wanhsuan/healthstash/internal/engine"
	"github.com/wanhsuan/healthstash/internal/logger"
	"github.com/wanhsuan/healthstash/internal/models"
	"github.com/wanhsuan/healthstash/internal/scheduler"
	"github.com/wanhsuan/healthstash/internal/storage"
	"github.com/wanhsuan/healthstash/internal/utils"
	"github.com/wanhsuan/healthstash/internal/validation"
)

// Notifier is used for best-effort advisories (low stock).
type Notifier interface {
	Notify(text string) error
}

type Service struct {
	store    storage.Provider
	sched    *scheduler.Scheduler
	notifier Notifier
}

func NewService(store storage.Provider, sched *scheduler.Scheduler, notifier Notifier) *Service {
	return &Service{store: store, sched: sched, notifier: notifier}
}

// MedicationInput carries the validated-at-the-edge user input for the add
// and edit flows.
type MedicationInput struct {
	Name          string
	Icon          models.Icon
	UsageTimes    []string // HH:MM entries, order preserved, may repeat
	TotalQuantity int
}

func (s *Service) validateInput(in MedicationInput, excludeID string) error {
	if err := validation.Name(in.Name); err != nil {
		return err
	}
	if err := validation.Quantity(strconv.Itoa(in.TotalQuantity)); err != nil {
		return err
	}
	if err := in.Icon.Validate(); err != nil {
		return err
	}
	if len(in.UsageTimes) > constants.MaxUsageTimes {
		return fmt.Errorf("at most %d usage times are allowed", constants.MaxUsageTimes)
	}
	for _, t := range in.UsageTimes {
		if !utils.ValidTimeFormat(t) {
			return fmt.Errorf("invalid usage time %q (expected HH:MM)", t)
		}
	}

	exists, err := s.store.NameExists(in.Name, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check name uniqueness: %w", err)
	}
	if exists {
		return validation.ErrDuplicateName
	}
	return nil
}

// register arms the schedule and converts degraded timing into an
// advisory instead of a failure.
func (s *Service) register(med models.Medication) (advisory string, err error) {
	if !med.HasSchedule() {
		return "", nil
	}
	if err := s.sched.Register(med); err != nil {
		if errors.Is(err, scheduler.ErrApproximateTiming) {
			return "Exact reminders are unavailable; reminder timing will be approximate.", nil
		}
		return "", err
	}
	return "", nil
}

// AddMedication validates the input, stores the medication with remaining
// stock initialized to the full pack, and registers its reminders.
// Advisories are non-fatal notices for the user.
func (s *Service) AddMedication(in MedicationInput) (models.Medication, []string, error) {
	if err := s.validateInput(in, ""); err != nil {
		return models.Medication{}, nil, err
	}

	med := models.Medication{
		Name:              in.Name,
		Icon:              in.Icon,
		UsageTimes:        in.UsageTimes,
		TotalQuantity:     in.TotalQuantity,
		RemainingQuantity: in.TotalQuantity,
	}

	id, err := s.store.InsertMedication(med)
	if err != nil {
		return models.Medication{}, nil, err
	}
	med.ID = id

	var advisories []string
	if !med.HasSchedule() {
		advisories = append(advisories, "No reminder times set; you will not be notified.")
	}
	advisory, err := s.register(med)
	if err != nil {
		return models.Medication{}, advisories, err
	}
	if advisory != "" {
		advisories = append(advisories, advisory)
	}

	logger.Info("Medication added", "id", med.ID, "name", med.Name)
	return med, advisories, nil
}

// EditMedication applies the edit: remaining stock is reconciled against
// the new total, old reminders are cancelled before the record is updated,
// and the new schedule is registered only after the update. That ordering
// guarantees stale and fresh reminders for the same medication are never
// both active.
func (s *Service) EditMedication(id string, in MedicationInput) (models.Medication, []string, error) {
	if err := s.validateInput(in, id); err != nil {
		return models.Medication{}, nil, err
	}

	old, err := s.store.GetMedication(id)
	if err != nil {
		return models.Medication{}, nil, err
	}

	updated := models.Medication{
		ID:                old.ID,
		Name:              in.Name,
		Icon:              in.Icon,
		UsageTimes:        in.UsageTimes,
		TotalQuantity:     in.TotalQuantity,
		RemainingQuantity: engine.ReconcileOnEdit(old, in.TotalQuantity),
	}

	s.sched.Cancel(old.ID)
	if err := s.store.UpdateMedication(updated); err != nil {
		return models.Medication{}, nil, err
	}

	var advisories []string
	advisory, err := s.register(updated)
	if err != nil {
		return models.Medication{}, nil, err
	}
	if advisory != "" {
		advisories = append(advisories, advisory)
	}

	logger.Info("Medication updated", "id", updated.ID, "name", updated.Name)
	return updated, advisories, nil
}

// DeleteMedication cancels the medication's reminders, then removes it.
// Historical dose logs keep the denormalized name.
func (s *Service) DeleteMedication(id string) error {
	s.sched.Cancel(id)
	if err := s.store.DeleteMedication(id); err != nil {
		return err
	}
	logger.Info("Medication deleted", "id", id)
	return nil
}

// TakeDose decrements remaining stock and appends exactly one dose log,
// as a single transaction: either both happen or neither does. The
// schedule is untouched. A low-stock advisory is returned (and a
// best-effort notification sent) when remaining stock falls to the
// threshold.
func (s *Service) TakeDose(id string, amount int) (models.Medication, []string, error) {
	if amount < 1 {
		return models.Medication{}, nil, fmt.Errorf("dose amount must be at least 1")
	}

	var updated models.Medication
	err := s.store.Transact(func(tx storage.Provider) error {
		med, err := tx.GetMedication(id)
		if err != nil {
			return err
		}

		med, err = engine.ApplyDose(med, amount)
		if err != nil {
			return err
		}
		if err := tx.UpdateMedication(med); err != nil {
			return err
		}

		dosage := constants.DefaultDoseText
		if amount != 1 {
			dosage = fmt.Sprintf("%d units", amount)
		}
		if err := tx.InsertLog(models.DoseLog{
			MedicationName: med.Name,
			Timestamp:      time.Now(),
			Dosage:         dosage,
		}); err != nil {
			return err
		}

		updated = med
		return nil
	})
	if err != nil {
		return models.Medication{}, nil, err
	}

	var advisories []string
	if updated.RemainingQuantity <= constants.LowStockThreshold {
		msg := fmt.Sprintf("%s is running low (%d remaining)", updated.Name, updated.RemainingQuantity)
		advisories = append(advisories, msg)
		if s.notifier != nil {
			if err := s.notifier.Notify(msg); err != nil {
				logger.Warn("Low-stock notification failed", "medication", updated.Name, "error", err)
			}
		}
	}

	logger.Info("Dose taken", "id", updated.ID, "name", updated.Name, "amount", amount, "remaining", updated.RemainingQuantity)
	return updated, advisories, nil
}

// ClearLogs removes the entire dose history. The only mutation dose logs
// ever see besides insertion.
func (s *Service) ClearLogs() error {
	return s.store.ClearAllLogs()
}
