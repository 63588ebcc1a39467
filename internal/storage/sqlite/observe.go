package sqlite

import (
	"context"
	"fmt"

	"github.com/wanhsuan/healthstash/internal/logger"
	"github.com/wanhsuan/healthstash/internal/models"
)

// ObserveMedications returns a channel that delivers the current
// medication list immediately and again after every committed write,
// until ctx is done. A subscriber must observe either the pre-write or
// post-write state; snapshots are read outside any open transaction.
func (s *Store) ObserveMedications(ctx context.Context) (<-chan []models.Medication, error) {
	if s.inTx {
		return nil, fmt.Errorf("cannot observe from inside a transaction")
	}

	out := make(chan []models.Medication, 1)
	signals := s.feed.Subscribe(ctx)

	snapshot, err := s.GetAllMedications()
	if err != nil {
		return nil, err
	}
	out <- snapshot

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case <-signals:
				meds, err := s.GetAllMedications()
				if err != nil {
					logger.Warn("Medication snapshot failed", "error", err)
					continue
				}
				select {
				case out <- meds:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

// ObserveLogs is the dose-log counterpart of ObserveMedications.
func (s *Store) ObserveLogs(ctx context.Context) (<-chan []models.DoseLog, error) {
	if s.inTx {
		return nil, fmt.Errorf("cannot observe from inside a transaction")
	}

	out := make(chan []models.DoseLog, 1)
	signals := s.feed.Subscribe(ctx)

	snapshot, err := s.GetAllLogs()
	if err != nil {
		return nil, err
	}
	out <- snapshot

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case <-signals:
				logs, err := s.GetAllLogs()
				if err != nil {
					logger.Warn("Dose log snapshot failed", "error", err)
					continue
				}
				select {
				case out <- logs:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}
