package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/wanhsuan/healthstash/internal/constants"
	"github.com/wanhsuan/healthstash/internal/models"
)

const medicationColumns = "id, name, icon_kind, icon_ref, usage_times, total_quantity, remaining_quantity"

func scanMedication(scan func(dest ...any) error) (models.Medication, error) {
	var m models.Medication
	var iconKind, iconRef, usageTimes string

	err := scan(&m.ID, &m.Name, &iconKind, &iconRef, &usageTimes, &m.TotalQuantity, &m.RemainingQuantity)
	if err != nil {
		return models.Medication{}, err
	}

	m.Icon = models.Icon{Kind: models.IconKind(iconKind), Ref: iconRef}
	m.UsageTimes = splitUsageTimes(usageTimes)
	return m, nil
}

func joinUsageTimes(times []string) string {
	return strings.Join(times, constants.UsageTimeSeparator)
}

func splitUsageTimes(s string) []string {
	var times []string
	for _, part := range strings.Split(s, constants.UsageTimeSeparator) {
		part = strings.TrimSpace(part)
		if part != "" {
			times = append(times, part)
		}
	}
	return times
}

func (s *Store) GetAllMedications() ([]models.Medication, error) {
	rows, err := s.q.Query(`SELECT ` + medicationColumns + ` FROM medications ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query medications: %w", err)
	}
	defer rows.Close()

	var meds []models.Medication
	for rows.Next() {
		m, err := scanMedication(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan medication: %w", err)
		}
		meds = append(meds, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating medications: %w", err)
	}

	return meds, nil
}

func (s *Store) GetMedication(id string) (models.Medication, error) {
	row := s.q.QueryRow(`SELECT `+medicationColumns+` FROM medications WHERE id = ?`, id)
	m, err := scanMedication(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Medication{}, fmt.Errorf("medication with id %s not found", id)
	}
	if err != nil {
		return models.Medication{}, fmt.Errorf("failed to get medication: %w", err)
	}
	return m, nil
}

func (s *Store) GetMedicationByName(name string) (models.Medication, error) {
	row := s.q.QueryRow(`SELECT `+medicationColumns+` FROM medications WHERE name = ?`, name)
	m, err := scanMedication(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Medication{}, fmt.Errorf("medication %q not found", name)
	}
	if err != nil {
		return models.Medication{}, fmt.Errorf("failed to get medication: %w", err)
	}
	return m, nil
}

func (s *Store) InsertMedication(med models.Medication) (string, error) {
	if med.ID == "" {
		med.ID = uuid.New().String()
	}

	_, err := s.q.Exec(`
		INSERT INTO medications (`+medicationColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		med.ID, med.Name, string(med.Icon.Kind), med.Icon.Ref,
		joinUsageTimes(med.UsageTimes), med.TotalQuantity, med.RemainingQuantity,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert medication: %w", err)
	}

	s.notifyChanged()
	return med.ID, nil
}

func (s *Store) UpdateMedication(med models.Medication) error {
	result, err := s.q.Exec(`
		UPDATE medications SET
			name = ?, icon_kind = ?, icon_ref = ?, usage_times = ?,
			total_quantity = ?, remaining_quantity = ?
		WHERE id = ?`,
		med.Name, string(med.Icon.Kind), med.Icon.Ref, joinUsageTimes(med.UsageTimes),
		med.TotalQuantity, med.RemainingQuantity, med.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update medication: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("medication with id %s not found", med.ID)
	}

	s.notifyChanged()
	return nil
}

func (s *Store) DeleteMedication(id string) error {
	result, err := s.q.Exec(`DELETE FROM medications WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete medication: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("medication with id %s not found", id)
	}

	s.notifyChanged()
	return nil
}

// NameExists checks exact-match (case-sensitive) name uniqueness.
func (s *Store) NameExists(name string, excludeID string) (bool, error) {
	var exists bool
	var err error
	if excludeID == "" {
		err = s.q.QueryRow(
			`SELECT EXISTS(SELECT 1 FROM medications WHERE name = ? LIMIT 1)`, name,
		).Scan(&exists)
	} else {
		err = s.q.QueryRow(
			`SELECT EXISTS(SELECT 1 FROM medications WHERE name = ? AND id != ? LIMIT 1)`, name, excludeID,
		).Scan(&exists)
	}
	if err != nil {
		return false, fmt.Errorf("failed to check name existence: %w", err)
	}
	return exists, nil
}

func (s *Store) GetLowStock(threshold int) ([]models.Medication, error) {
	rows, err := s.q.Query(
		`SELECT `+medicationColumns+` FROM medications WHERE remaining_quantity <= ? ORDER BY name ASC`,
		threshold,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query low-stock medications: %w", err)
	}
	defer rows.Close()

	var meds []models.Medication
	for rows.Next() {
		m, err := scanMedication(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan medication: %w", err)
		}
		meds = append(meds, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating medications: %w", err)
	}

	return meds, nil
}
