package scheduler

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/wanhsuan/healthstash/internal/constants"
	"github.com/wanhsuan/healthstash/internal/engine"
	"github.com/wanhsuan/healthstash/internal/logger"
	"github.com/wanhsuan/healthstash/internal/models"
	"github.com/wanhsuan/healthstash/internal/utils"
)

// ErrApproximateTiming is reported when exact wake-ups are unavailable and
// reminders degrade to minute-granularity timing. The registration still
// succeeds; callers surface this as a one-time advisory.
var ErrApproximateTiming = errors.New("exact wake-ups unavailable, reminders use approximate timing")

// Notifier is the delivery surface for fired reminders.
type Notifier interface {
	Notify(text string) error
}

// Store is the slice of persistence the scheduler reads when restoring
// registrations after a restart.
type Store interface {
	GetAllMedications() ([]models.Medication, error)
}

type registration struct {
	key       models.ReminderKey
	medName   string
	timeOfDay string // HH:MM
	hour      int
	minute    int
	nextFire  time.Time
	timer     Timer
}

// Scheduler owns one wake-up per (medication, slot) pair. Registrations
// repeat daily until cancelled. All methods are safe for concurrent use;
// fire callbacks run on the clock's trigger path and re-arm themselves.
type Scheduler struct {
	clock    Clock
	notifier Notifier
	exact    bool

	mu      sync.Mutex
	regs    map[models.ReminderKey]*registration
	stopped bool
}

// Options configures a Scheduler. A nil Clock means the system clock;
// ExactWakeups false degrades every wake-up to minute granularity.
type Options struct {
	Clock        Clock
	Notifier     Notifier
	ExactWakeups bool
}

func New(opts Options) *Scheduler {
	clock := opts.Clock
	if clock == nil {
		clock = SystemClock()
	}
	return &Scheduler{
		clock:    clock,
		notifier: opts.Notifier,
		exact:    opts.ExactWakeups,
		regs:     make(map[models.ReminderKey]*registration),
	}
}

// Register derives the medication's reminder schedule and arms one
// wake-up per slot, each at the next future occurrence of its time of
// day. Re-registering replaces any prior registrations for the same
// medication. The returned error is ErrApproximateTiming when timing is
// degraded; the registrations are armed either way.
func (s *Scheduler) Register(med models.Medication) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return fmt.Errorf("scheduler is stopped")
	}

	// Replace rather than duplicate any existing registrations.
	s.cancelLocked(med.ID)

	for _, rem := range engine.DeriveSchedule(med) {
		hour, minute, err := utils.ParseTime(rem.Time)
		if err != nil {
			return fmt.Errorf("invalid usage time %q: %w", rem.Time, err)
		}

		reg := &registration{
			key:       rem.Key,
			medName:   med.Name,
			timeOfDay: rem.Time,
			hour:      hour,
			minute:    minute,
		}
		s.armLocked(reg)
		s.regs[rem.Key] = reg
		logger.Debug("Reminder registered", "key", rem.Key.String(), "time", rem.Time, "next", reg.nextFire)
	}

	if !s.exact && med.HasSchedule() {
		return ErrApproximateTiming
	}
	return nil
}

// Cancel removes every registration for the medication. Keys are
// re-derived from the id alone, so cancellation never needs the original
// times.
func (s *Scheduler) Cancel(medicationID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked(medicationID)
}

func (s *Scheduler) cancelLocked(medicationID string) {
	for key, reg := range s.regs {
		if key.MedicationID != medicationID {
			continue
		}
		if reg.timer != nil {
			reg.timer.Stop()
		}
		delete(s.regs, key)
		logger.Debug("Reminder cancelled", "key", key.String())
	}
}

// RestoreAll re-derives and re-registers the full reminder set for every
// medication with a non-empty schedule. Wake-ups do not survive a process
// restart, so this runs at daemon start. Returns the number of armed
// registrations; the error is ErrApproximateTiming when degraded.
func (s *Scheduler) RestoreAll(store Store) (int, error) {
	meds, err := store.GetAllMedications()
	if err != nil {
		return 0, fmt.Errorf("failed to load medications: %w", err)
	}

	degraded := false
	count := 0
	for _, med := range meds {
		if !med.HasSchedule() {
			continue
		}
		if err := s.Register(med); err != nil {
			if errors.Is(err, ErrApproximateTiming) {
				degraded = true
			} else {
				logger.Warn("Failed to restore reminders", "medication", med.Name, "error", err)
				continue
			}
		}
		count += len(med.UsageTimes)
	}

	if degraded {
		return count, ErrApproximateTiming
	}
	return count, nil
}

// Stop cancels every registration. Used on daemon shutdown.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, reg := range s.regs {
		if reg.timer != nil {
			reg.timer.Stop()
		}
		delete(s.regs, key)
	}
	s.stopped = true
}

// armLocked schedules reg's next wake-up strictly in the future.
func (s *Scheduler) armLocked(reg *registration) {
	now := s.clock.Now()
	next := utils.NextOccurrence(now, reg.hour, reg.minute)
	wait := next.Sub(now)

	if !s.exact {
		// Best effort: round the wait up to the polling granularity.
		interval := constants.ApproximatePollInterval
		wait = ((wait + interval - 1) / interval) * interval
		next = now.Add(wait)
	}

	reg.nextFire = next
	key := reg.key
	reg.timer = s.clock.AfterFunc(wait, func() { s.fire(key) })
}

// fire runs on the timer trigger path. It must be safe with no ambient
// context: look up the registration, notify, re-arm for tomorrow. Firing
// is advisory only and never touches remaining quantity.
func (s *Scheduler) fire(key models.ReminderKey) {
	s.mu.Lock()
	reg, ok := s.regs[key]
	if !ok || s.stopped {
		// Cancelled between trigger and handling.
		s.mu.Unlock()
		return
	}
	name := reg.medName
	s.armLocked(reg)
	s.mu.Unlock()

	if s.notifier != nil {
		if err := s.notifier.Notify(fmt.Sprintf("Time to take %s", name)); err != nil {
			logger.Warn("Reminder notification failed", "key", key.String(), "error", err)
		}
	}
	logger.Info("Reminder fired", "key", key.String(), "medication", name)
}

// Upcoming describes one armed registration, for listings.
type Upcoming struct {
	Key      models.ReminderKey
	Name     string
	Time     string // HH:MM
	NextFire time.Time
}

// UpcomingReminders returns all armed registrations ordered by next fire
// instant, then key.
func (s *Scheduler) UpcomingReminders() []Upcoming {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := make([]Upcoming, 0, len(s.regs))
	for _, reg := range s.regs {
		list = append(list, Upcoming{
			Key:      reg.key,
			Name:     reg.medName,
			Time:     reg.timeOfDay,
			NextFire: reg.nextFire,
		})
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].NextFire.Equal(list[j].NextFire) {
			return list[i].NextFire.Before(list[j].NextFire)
		}
		if list[i].Key.MedicationID != list[j].Key.MedicationID {
			return list[i].Key.MedicationID < list[j].Key.MedicationID
		}
		return list[i].Key.Slot < list[j].Key.Slot
	})
	return list
}
