// Package tui is the live dashboard: medications with stock levels, the
// dose history, and the upcoming reminder schedule, refreshed as the
// store changes underneath it.
package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/wanhsuan/healthstash/internal/app"
	"github.com/wanhsuan/healthstash/internal/constants"
	"github.com/wanhsuan/healthstash/internal/models"
	"github.com/wanhsuan/healthstash/internal/scheduler"
	"github.com/wanhsuan/healthstash/internal/storage"
	"github.com/wanhsuan/healthstash/internal/validation"
)

type SessionState int

const (
	StateMeds SessionState = iota
	StateHistory
	StateReminders
	StateAdding
	StateConfirmDelete
)

// tabCount covers the cycling tabs only; form and confirm states are
// overlays.
const tabCount = 3

type medItem struct {
	Med models.Medication
}

func (i medItem) Title() string {
	if i.Med.RemainingQuantity == 0 {
		return "⚠ " + i.Med.Name + " (out of stock)"
	}
	return i.Med.Name
}

func (i medItem) Description() string {
	desc := fmt.Sprintf("%d/%d units | %s",
		i.Med.RemainingQuantity, i.Med.TotalQuantity, formatTimes(i.Med.UsageTimes))
	if i.Med.RemainingQuantity > 0 && i.Med.RemainingQuantity <= constants.LowStockThreshold {
		desc += " | running low"
	}
	return desc
}

func (i medItem) FilterValue() string { return i.Med.Name }

// medFormValues backs the add form; huh binds to these fields, so they
// must outlive individual Update calls.
type medFormValues struct {
	Name     string
	Quantity string
	Times    string
}

type Model struct {
	store storage.Provider
	sched *scheduler.Scheduler
	app   *app.Service

	state SessionState
	keys  KeyMap
	help  help.Model

	medList  list.Model
	logs     []models.DoseLog
	upcoming []scheduler.Upcoming

	ctx    context.Context
	cancel context.CancelFunc
	medCh  <-chan []models.Medication
	logCh  <-chan []models.DoseLog

	checker     *validation.NameChecker
	nameCh      chan error
	lastChecked string
	nameWarning string

	form     *huh.Form
	formVals *medFormValues

	deleteID   string
	deleteName string

	status   string
	quitting bool
	width    int
	height   int
}

func NewModel(store storage.Provider, sched *scheduler.Scheduler, svc *app.Service) Model {
	ctx, cancel := context.WithCancel(context.Background())

	medCh, err := store.ObserveMedications(ctx)
	if err != nil {
		medCh = nil
	}
	logCh, err := store.ObserveLogs(ctx)
	if err != nil {
		logCh = nil
	}

	ml := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	ml.Title = "Medications"
	ml.SetShowHelp(false)

	return Model{
		store:    store,
		sched:    sched,
		app:      svc,
		state:    StateMeds,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		medList:  ml,
		ctx:      ctx,
		cancel:   cancel,
		medCh:    medCh,
		logCh:    logCh,
		checker:  validation.NewNameChecker(store),
		nameCh:   make(chan error, 4),
		upcoming: sched.UpcomingReminders(),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		listenMeds(m.medCh),
		listenLogs(m.logCh),
		listenNameCheck(m.nameCh),
		tick(),
	)
}

func (m *Model) setMedications(meds []models.Medication) {
	items := make([]list.Item, len(meds))
	for i, med := range meds {
		items[i] = medItem{Med: med}
	}
	m.medList.SetItems(items)
}

func (m Model) selectedMedication() (models.Medication, bool) {
	item, ok := m.medList.SelectedItem().(medItem)
	if !ok {
		return models.Medication{}, false
	}
	return item.Med, true
}

func (m *Model) newAddForm() {
	vals := &medFormValues{}
	m.formVals = vals
	m.lastChecked = ""
	m.nameWarning = ""
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("name").
				Title("Name").
				Value(&vals.Name).
				Validate(validation.Name),
			huh.NewInput().
				Key("quantity").
				Title("Total quantity").
				Value(&vals.Quantity).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("quantity is required")
					}
					return validation.Quantity(s)
				}),
			huh.NewInput().
				Key("times").
				Title("Reminder times (HH:MM, comma-separated)").
				Value(&vals.Times).
				Validate(validateTimesInput),
		),
	).WithShowHelp(false)
}
