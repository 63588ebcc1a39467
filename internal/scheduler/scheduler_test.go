package scheduler

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/wanhsuan/healthstash/internal/models"
)

type fakeTimer struct {
	clock   *fakeClock
	when    time.Time
	f       func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	was := t.stopped
	t.stopped = true
	return !was
}

// fakeClock runs timers synchronously from Advance, so tests never sleep.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, when: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due []*fakeTimer
	var rest []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.when.After(c.now) {
			due = append(due, t)
		} else {
			rest = append(rest, t)
		}
	}
	c.timers = rest
	c.mu.Unlock()

	// Callbacks re-arm through AfterFunc, so run them unlocked.
	for _, t := range due {
		t.f()
	}
}

type fakeNotifier struct {
	mu    sync.Mutex
	texts []string
}

func (n *fakeNotifier) Notify(text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.texts = append(n.texts, text)
	return nil
}

func (n *fakeNotifier) sent() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.texts...)
}

type fakeStore struct {
	meds []models.Medication
}

func (s *fakeStore) GetAllMedications() ([]models.Medication, error) {
	return s.meds, nil
}

var noon = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestScheduler(clock Clock, notifier Notifier) *Scheduler {
	return New(Options{Clock: clock, Notifier: notifier, ExactWakeups: true})
}

func TestRegister_ArmsOneWakeupPerSlot(t *testing.T) {
	clock := newFakeClock(noon)
	s := newTestScheduler(clock, &fakeNotifier{})

	med := models.Medication{ID: "m1", Name: "Aspirin", UsageTimes: []string{"08:00", "13:00", "20:00"}}
	if err := s.Register(med); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	upcoming := s.UpcomingReminders()
	if len(upcoming) != 3 {
		t.Fatalf("Expected 3 armed reminders, got %d", len(upcoming))
	}

	// 13:00 is next today, 20:00 follows, 08:00 already passed so it
	// lands tomorrow.
	if upcoming[0].Time != "13:00" || upcoming[0].NextFire.Day() != 10 {
		t.Errorf("Expected 13:00 today first, got %s at %v", upcoming[0].Time, upcoming[0].NextFire)
	}
	if upcoming[1].Time != "20:00" || upcoming[1].NextFire.Day() != 10 {
		t.Errorf("Expected 20:00 today second, got %s at %v", upcoming[1].Time, upcoming[1].NextFire)
	}
	if upcoming[2].Time != "08:00" || upcoming[2].NextFire.Day() != 11 {
		t.Errorf("Expected 08:00 tomorrow last, got %s at %v", upcoming[2].Time, upcoming[2].NextFire)
	}
}

func TestFire_NotifiesAndRearmsForTomorrow(t *testing.T) {
	clock := newFakeClock(noon)
	notifier := &fakeNotifier{}
	s := newTestScheduler(clock, notifier)

	med := models.Medication{ID: "m1", Name: "Aspirin", UsageTimes: []string{"13:00"}}
	if err := s.Register(med); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	clock.Advance(time.Hour)

	sent := notifier.sent()
	if len(sent) != 1 {
		t.Fatalf("Expected 1 notification, got %d", len(sent))
	}
	if sent[0] != "Time to take Aspirin" {
		t.Errorf("Unexpected notification text: %q", sent[0])
	}

	upcoming := s.UpcomingReminders()
	if len(upcoming) != 1 {
		t.Fatalf("Expected the reminder to stay armed, got %d", len(upcoming))
	}
	next := time.Date(2026, 3, 11, 13, 0, 0, 0, time.UTC)
	if !upcoming[0].NextFire.Equal(next) {
		t.Errorf("Expected re-arm for %v, got %v", next, upcoming[0].NextFire)
	}
}

func TestRegister_ReplacesExistingRegistrations(t *testing.T) {
	clock := newFakeClock(noon)
	notifier := &fakeNotifier{}
	s := newTestScheduler(clock, notifier)

	med := models.Medication{ID: "m1", Name: "Aspirin", UsageTimes: []string{"13:00", "20:00"}}
	if err := s.Register(med); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	med.UsageTimes = []string{"15:00"}
	if err := s.Register(med); err != nil {
		t.Fatalf("Re-register failed: %v", err)
	}

	upcoming := s.UpcomingReminders()
	if len(upcoming) != 1 {
		t.Fatalf("Expected old registrations to be replaced, got %d", len(upcoming))
	}
	if upcoming[0].Time != "15:00" {
		t.Errorf("Expected 15:00, got %s", upcoming[0].Time)
	}

	// The superseded 13:00 wake-up must not fire.
	clock.Advance(time.Hour + time.Minute)
	if len(notifier.sent()) != 0 {
		t.Error("Cancelled registration fired")
	}
}

func TestCancel_RemovesAllSlotsForMedication(t *testing.T) {
	clock := newFakeClock(noon)
	notifier := &fakeNotifier{}
	s := newTestScheduler(clock, notifier)

	a := models.Medication{ID: "m1", Name: "Aspirin", UsageTimes: []string{"13:00", "20:00"}}
	b := models.Medication{ID: "m2", Name: "Iron", UsageTimes: []string{"13:00"}}
	if err := s.Register(a); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := s.Register(b); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	s.Cancel("m1")

	upcoming := s.UpcomingReminders()
	if len(upcoming) != 1 {
		t.Fatalf("Expected only the other medication's reminder, got %d", len(upcoming))
	}
	if upcoming[0].Name != "Iron" {
		t.Errorf("Wrong survivor: %s", upcoming[0].Name)
	}

	clock.Advance(time.Hour)
	sent := notifier.sent()
	if len(sent) != 1 || sent[0] != "Time to take Iron" {
		t.Errorf("Expected only Iron to fire, got %v", sent)
	}
}

func TestRestoreAll_IsIdempotent(t *testing.T) {
	clock := newFakeClock(noon)
	s := newTestScheduler(clock, &fakeNotifier{})

	store := &fakeStore{meds: []models.Medication{
		{ID: "m1", Name: "Aspirin", UsageTimes: []string{"08:00", "20:00"}},
		{ID: "m2", Name: "Iron", UsageTimes: []string{"13:00"}},
		{ID: "m3", Name: "NoTimes"},
	}}

	count, err := s.RestoreAll(store)
	if err != nil {
		t.Fatalf("RestoreAll failed: %v", err)
	}
	if count != 3 {
		t.Errorf("Expected 3 restored reminders, got %d", count)
	}

	// A second restore replaces rather than duplicates.
	if _, err := s.RestoreAll(store); err != nil {
		t.Fatalf("Second RestoreAll failed: %v", err)
	}
	if got := len(s.UpcomingReminders()); got != 3 {
		t.Errorf("Expected 3 reminders after repeated restore, got %d", got)
	}
}

func TestApproximateTiming_DegradesButStillArms(t *testing.T) {
	clock := newFakeClock(noon.Add(30 * time.Second))
	notifier := &fakeNotifier{}
	s := New(Options{Clock: clock, Notifier: notifier, ExactWakeups: false})

	med := models.Medication{ID: "m1", Name: "Aspirin", UsageTimes: []string{"13:00"}}
	err := s.Register(med)
	if !errors.Is(err, ErrApproximateTiming) {
		t.Fatalf("Expected ErrApproximateTiming, got %v", err)
	}

	upcoming := s.UpcomingReminders()
	if len(upcoming) != 1 {
		t.Fatalf("Degraded registration must still arm, got %d", len(upcoming))
	}
	// The wait is rounded up to minute granularity, never early.
	exact := time.Date(2026, 3, 10, 13, 0, 0, 0, time.UTC)
	if upcoming[0].NextFire.Before(exact) {
		t.Errorf("Approximate wake-up %v fires before the exact time %v", upcoming[0].NextFire, exact)
	}

	clock.Advance(time.Hour)
	if len(notifier.sent()) != 1 {
		t.Errorf("Expected the degraded reminder to fire, got %v", notifier.sent())
	}
}

func TestStop_CancelsEverything(t *testing.T) {
	clock := newFakeClock(noon)
	notifier := &fakeNotifier{}
	s := newTestScheduler(clock, notifier)

	med := models.Medication{ID: "m1", Name: "Aspirin", UsageTimes: []string{"13:00"}}
	if err := s.Register(med); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	s.Stop()

	clock.Advance(2 * time.Hour)
	if len(notifier.sent()) != 0 {
		t.Error("Reminder fired after Stop")
	}
	if err := s.Register(med); err == nil {
		t.Error("Register must fail on a stopped scheduler")
	}
}
