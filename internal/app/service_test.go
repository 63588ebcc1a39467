package app

import (
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/wanhsuan/healthstash/internal/engine"
	"github.com/wanhsuan/healthstash/internal/models"
	"github.com/wanhsuan/healthstash/internal/scheduler"
	"github.com/wanhsuan/healthstash/internal/storage/sqlite"
	"github.com/wanhsuan/healthstash/internal/validation"
)

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

func newTestService(t *testing.T) (*Service, *sqlite.Store, *scheduler.Scheduler, *fakeNotifier) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "healthstash.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	notif := &fakeNotifier{}
	sched := scheduler.New(scheduler.Options{Notifier: notif, ExactWakeups: true})
	t.Cleanup(sched.Stop)

	return NewService(store, sched, notif), store, sched, notif
}

func TestAddMedication_InitializesFullStock(t *testing.T) {
	svc, store, sched, _ := newTestService(t)

	med, advisories, err := svc.AddMedication(MedicationInput{
		Name:          "Aspirin",
		Icon:          models.NoIcon(),
		UsageTimes:    []string{"08:00", "20:00"},
		TotalQuantity: 30,
	})
	if err != nil {
		t.Fatalf("AddMedication failed: %v", err)
	}
	if med.RemainingQuantity != 30 {
		t.Errorf("Expected remaining to start at the full pack, got %d", med.RemainingQuantity)
	}
	if len(advisories) != 0 {
		t.Errorf("Unexpected advisories: %v", advisories)
	}

	stored, err := store.GetMedication(med.ID)
	if err != nil {
		t.Fatalf("Stored medication missing: %v", err)
	}
	if stored.RemainingQuantity != 30 {
		t.Errorf("Persisted remaining is %d", stored.RemainingQuantity)
	}

	if got := len(sched.UpcomingReminders()); got != 2 {
		t.Errorf("Expected 2 armed reminders, got %d", got)
	}
}

func TestAddMedication_NoScheduleAdvisory(t *testing.T) {
	svc, _, sched, _ := newTestService(t)

	_, advisories, err := svc.AddMedication(MedicationInput{
		Name:          "Aspirin",
		Icon:          models.NoIcon(),
		TotalQuantity: 30,
	})
	if err != nil {
		t.Fatalf("AddMedication failed: %v", err)
	}
	if len(advisories) != 1 || !strings.Contains(advisories[0], "No reminder times") {
		t.Errorf("Expected a no-reminders advisory, got %v", advisories)
	}
	if got := len(sched.UpcomingReminders()); got != 0 {
		t.Errorf("Expected no reminders, got %d", got)
	}
}

func TestAddMedication_RejectsInvalidInput(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	if _, _, err := svc.AddMedication(MedicationInput{Name: "", TotalQuantity: 30, Icon: models.NoIcon()}); !errors.Is(err, validation.ErrEmptyName) {
		t.Errorf("Empty name: got %v", err)
	}
	if _, _, err := svc.AddMedication(MedicationInput{Name: "abcdefghijk", TotalQuantity: 30, Icon: models.NoIcon()}); !errors.Is(err, validation.ErrNameTooLong) {
		t.Errorf("Long name: got %v", err)
	}
	if _, _, err := svc.AddMedication(MedicationInput{Name: "Aspirin", TotalQuantity: 501, Icon: models.NoIcon()}); !errors.Is(err, validation.ErrOutOfRange) {
		t.Errorf("Quantity: got %v", err)
	}
	if _, _, err := svc.AddMedication(MedicationInput{
		Name: "Aspirin", TotalQuantity: 30, Icon: models.NoIcon(),
		UsageTimes: []string{"08:00", "09:00", "10:00", "11:00", "12:00"},
	}); err == nil || !strings.Contains(err.Error(), "at most 4") {
		t.Errorf("Too many times: got %v", err)
	}
	if _, _, err := svc.AddMedication(MedicationInput{
		Name: "Aspirin", TotalQuantity: 30, Icon: models.NoIcon(),
		UsageTimes: []string{"25:00"},
	}); err == nil {
		t.Error("Invalid time accepted")
	}
}

func TestAddMedication_RejectsDuplicateName(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	if _, _, err := svc.AddMedication(MedicationInput{Name: "Aspirin", TotalQuantity: 30, Icon: models.NoIcon()}); err != nil {
		t.Fatalf("First add failed: %v", err)
	}
	_, _, err := svc.AddMedication(MedicationInput{Name: "Aspirin", TotalQuantity: 10, Icon: models.NoIcon()})
	if !errors.Is(err, validation.ErrDuplicateName) {
		t.Errorf("Expected ErrDuplicateName, got %v", err)
	}
}

func TestEditMedication_ReconcilesStock(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	med, _, err := svc.AddMedication(MedicationInput{Name: "Aspirin", TotalQuantity: 30, Icon: models.NoIcon()})
	if err != nil {
		t.Fatalf("AddMedication failed: %v", err)
	}

	// Shrink: remaining capped at the new total.
	updated, _, err := svc.EditMedication(med.ID, MedicationInput{
		Name: "Aspirin", TotalQuantity: 10, Icon: models.NoIcon(),
	})
	if err != nil {
		t.Fatalf("EditMedication failed: %v", err)
	}
	if updated.RemainingQuantity != 10 {
		t.Errorf("Shrink: expected remaining 10, got %d", updated.RemainingQuantity)
	}

	// Drain some stock, then grow: the increase is credited.
	if _, _, err := svc.TakeDose(med.ID, 5); err != nil {
		t.Fatalf("TakeDose failed: %v", err)
	}
	updated, _, err = svc.EditMedication(med.ID, MedicationInput{
		Name: "Aspirin", TotalQuantity: 30, Icon: models.NoIcon(),
	})
	if err != nil {
		t.Fatalf("EditMedication failed: %v", err)
	}
	if updated.RemainingQuantity != 25 {
		t.Errorf("Grow: expected remaining 25, got %d", updated.RemainingQuantity)
	}
}

func TestEditMedication_ReplacesSchedule(t *testing.T) {
	svc, _, sched, _ := newTestService(t)

	med, _, err := svc.AddMedication(MedicationInput{
		Name: "Aspirin", TotalQuantity: 30, Icon: models.NoIcon(),
		UsageTimes: []string{"08:00", "20:00"},
	})
	if err != nil {
		t.Fatalf("AddMedication failed: %v", err)
	}

	if _, _, err := svc.EditMedication(med.ID, MedicationInput{
		Name: "Aspirin", TotalQuantity: 30, Icon: models.NoIcon(),
		UsageTimes: []string{"13:00"},
	}); err != nil {
		t.Fatalf("EditMedication failed: %v", err)
	}

	upcoming := sched.UpcomingReminders()
	if len(upcoming) != 1 {
		t.Fatalf("Expected the schedule to be replaced, got %d reminders", len(upcoming))
	}
	if upcoming[0].Time != "13:00" {
		t.Errorf("Expected 13:00, got %s", upcoming[0].Time)
	}
}

func TestEditMedication_AllowsKeepingOwnName(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	med, _, err := svc.AddMedication(MedicationInput{Name: "Aspirin", TotalQuantity: 30, Icon: models.NoIcon()})
	if err != nil {
		t.Fatalf("AddMedication failed: %v", err)
	}

	if _, _, err := svc.EditMedication(med.ID, MedicationInput{
		Name: "Aspirin", TotalQuantity: 20, Icon: models.NoIcon(),
	}); err != nil {
		t.Errorf("Editing without renaming failed: %v", err)
	}

	// Renaming onto another medication's name still collides.
	other, _, err := svc.AddMedication(MedicationInput{Name: "Iron", TotalQuantity: 30, Icon: models.NoIcon()})
	if err != nil {
		t.Fatalf("AddMedication failed: %v", err)
	}
	if _, _, err := svc.EditMedication(other.ID, MedicationInput{
		Name: "Aspirin", TotalQuantity: 30, Icon: models.NoIcon(),
	}); !errors.Is(err, validation.ErrDuplicateName) {
		t.Errorf("Expected ErrDuplicateName, got %v", err)
	}
}

func TestDeleteMedication_CancelsReminders(t *testing.T) {
	svc, store, sched, _ := newTestService(t)

	med, _, err := svc.AddMedication(MedicationInput{
		Name: "Aspirin", TotalQuantity: 30, Icon: models.NoIcon(),
		UsageTimes: []string{"08:00"},
	})
	if err != nil {
		t.Fatalf("AddMedication failed: %v", err)
	}

	if err := svc.DeleteMedication(med.ID); err != nil {
		t.Fatalf("DeleteMedication failed: %v", err)
	}
	if got := len(sched.UpcomingReminders()); got != 0 {
		t.Errorf("Expected reminders cancelled, got %d", got)
	}
	if _, err := store.GetMedication(med.ID); err == nil {
		t.Error("Medication still present after delete")
	}
}

func TestTakeDose_DecrementsAndLogsAtomically(t *testing.T) {
	svc, store, _, _ := newTestService(t)

	med, _, err := svc.AddMedication(MedicationInput{Name: "Aspirin", TotalQuantity: 30, Icon: models.NoIcon()})
	if err != nil {
		t.Fatalf("AddMedication failed: %v", err)
	}

	updated, advisories, err := svc.TakeDose(med.ID, 1)
	if err != nil {
		t.Fatalf("TakeDose failed: %v", err)
	}
	if updated.RemainingQuantity != 29 {
		t.Errorf("Expected remaining 29, got %d", updated.RemainingQuantity)
	}
	if len(advisories) != 0 {
		t.Errorf("Unexpected advisories: %v", advisories)
	}

	logs, err := store.GetAllLogs()
	if err != nil {
		t.Fatalf("GetAllLogs failed: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("Expected exactly 1 log, got %d", len(logs))
	}
	if logs[0].MedicationName != "Aspirin" || logs[0].Dosage != "1 unit" {
		t.Errorf("Log mismatch: %+v", logs[0])
	}

	if _, _, err := svc.TakeDose(med.ID, 2); err != nil {
		t.Fatalf("TakeDose failed: %v", err)
	}
	logs, _ = store.GetAllLogs()
	if len(logs) != 2 {
		t.Fatalf("Expected 2 logs, got %d", len(logs))
	}
	found := false
	for _, l := range logs {
		if l.Dosage == "2 units" {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected a '2 units' log, got %+v", logs)
	}
}

func TestTakeDose_InsufficientStockLeavesNoTrace(t *testing.T) {
	svc, store, _, _ := newTestService(t)

	med, _, err := svc.AddMedication(MedicationInput{Name: "Aspirin", TotalQuantity: 2, Icon: models.NoIcon()})
	if err != nil {
		t.Fatalf("AddMedication failed: %v", err)
	}

	_, _, err = svc.TakeDose(med.ID, 3)
	if !errors.Is(err, engine.ErrInsufficientStock) {
		t.Fatalf("Expected ErrInsufficientStock, got %v", err)
	}

	got, _ := store.GetMedication(med.ID)
	if got.RemainingQuantity != 2 {
		t.Errorf("Failed dose changed remaining to %d", got.RemainingQuantity)
	}
	logs, _ := store.GetAllLogs()
	if len(logs) != 0 {
		t.Errorf("Failed dose left %d log(s)", len(logs))
	}
}

func TestTakeDose_LowStockAdvisory(t *testing.T) {
	svc, _, _, notif := newTestService(t)

	med, _, err := svc.AddMedication(MedicationInput{Name: "Aspirin", TotalQuantity: 3, Icon: models.NoIcon()})
	if err != nil {
		t.Fatalf("AddMedication failed: %v", err)
	}

	_, advisories, err := svc.TakeDose(med.ID, 1)
	if err != nil {
		t.Fatalf("TakeDose failed: %v", err)
	}
	if len(advisories) != 1 || !strings.Contains(advisories[0], "running low") {
		t.Errorf("Expected a low-stock advisory at 2 remaining, got %v", advisories)
	}
	sent := notif.sent()
	if len(sent) != 1 || !strings.Contains(sent[0], "running low") {
		t.Errorf("Expected a low-stock notification, got %v", sent)
	}
}

func TestTakeDose_RejectsNonPositiveAmount(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	med, _, err := svc.AddMedication(MedicationInput{Name: "Aspirin", TotalQuantity: 30, Icon: models.NoIcon()})
	if err != nil {
		t.Fatalf("AddMedication failed: %v", err)
	}
	if _, _, err := svc.TakeDose(med.ID, 0); err == nil {
		t.Error("Amount 0 accepted")
	}
	if _, _, err := svc.TakeDose(med.ID, -1); err == nil {
		t.Error("Negative amount accepted")
	}
}

func TestClearLogs(t *testing.T) {
	svc, store, _, _ := newTestService(t)

	med, _, err := svc.AddMedication(MedicationInput{Name: "Aspirin", TotalQuantity: 30, Icon: models.NoIcon()})
	if err != nil {
		t.Fatalf("AddMedication failed: %v", err)
	}
	if _, _, err := svc.TakeDose(med.ID, 1); err != nil {
		t.Fatalf("TakeDose failed: %v", err)
	}

	if err := svc.ClearLogs(); err != nil {
		t.Fatalf("ClearLogs failed: %v", err)
	}
	logs, _ := store.GetAllLogs()
	if len(logs) != 0 {
		t.Errorf("Expected empty history, got %d", len(logs))
	}
}
