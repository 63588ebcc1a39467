package sqlite

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wanhsuan/healthstash/internal/models"
)

func (s *Store) GetAllLogs() ([]models.DoseLog, error) {
	rows, err := s.q.Query(`
		SELECT id, medication_name, timestamp, dosage
		FROM medication_logs
		ORDER BY timestamp DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query dose logs: %w", err)
	}
	defer rows.Close()

	var logs []models.DoseLog
	for rows.Next() {
		var l models.DoseLog
		var ts string
		if err := rows.Scan(&l.ID, &l.MedicationName, &ts, &l.Dosage); err != nil {
			return nil, fmt.Errorf("failed to scan dose log: %w", err)
		}
		t, err := time.Parse(time.RFC3339, ts)
		if err != nil {
			return nil, fmt.Errorf("failed to parse log timestamp: %w", err)
		}
		l.Timestamp = t
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating dose logs: %w", err)
	}

	return logs, nil
}

func (s *Store) InsertLog(log models.DoseLog) error {
	if log.ID == "" {
		log.ID = uuid.New().String()
	}

	_, err := s.q.Exec(`
		INSERT INTO medication_logs (id, medication_name, timestamp, dosage)
		VALUES (?, ?, ?, ?)`,
		log.ID, log.MedicationName, log.Timestamp.Format(time.RFC3339), log.Dosage,
	)
	if err != nil {
		return fmt.Errorf("failed to insert dose log: %w", err)
	}

	s.notifyChanged()
	return nil
}

func (s *Store) ClearAllLogs() error {
	if _, err := s.q.Exec(`DELETE FROM medication_logs`); err != nil {
		return fmt.Errorf("failed to clear dose logs: %w", err)
	}

	s.notifyChanged()
	return nil
}
