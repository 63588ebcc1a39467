package tui

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/wanhsuan/healthstash/internal/app"
	"github.com/wanhsuan/healthstash/internal/models"
	"github.com/wanhsuan/healthstash/internal/validation"
)

type (
	medsMsg      []models.Medication
	logsMsg      []models.DoseLog
	nameCheckMsg struct{ err error }
	tickMsg      time.Time
)

func listenMeds(ch <-chan []models.Medication) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		meds, ok := <-ch
		if !ok {
			return nil
		}
		return medsMsg(meds)
	}
}

func listenLogs(ch <-chan []models.DoseLog) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		logs, ok := <-ch
		if !ok {
			return nil
		}
		return logsMsg(logs)
	}
}

func listenNameCheck(ch chan error) tea.Cmd {
	return func() tea.Msg {
		return nameCheckMsg{err: <-ch}
	}
}

func tick() tea.Cmd {
	return tea.Tick(20*time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.medList.SetSize(msg.Width-2, msg.Height-6)
		return m, nil

	case medsMsg:
		m.setMedications(msg)
		return m, listenMeds(m.medCh)

	case logsMsg:
		m.logs = msg
		return m, listenLogs(m.logCh)

	case tickMsg:
		m.upcoming = m.sched.UpcomingReminders()
		return m, tick()

	case nameCheckMsg:
		if m.state == StateAdding {
			if errors.Is(msg.err, validation.ErrDuplicateName) {
				m.nameWarning = "A medication with this name already exists"
			} else {
				m.nameWarning = ""
			}
		}
		return m, listenNameCheck(m.nameCh)

	case tea.KeyMsg:
		switch m.state {
		case StateAdding:
			return m.updateAddForm(msg)
		case StateConfirmDelete:
			return m.updateConfirmDelete(msg)
		default:
			return m.updateDashboard(msg)
		}
	}

	if m.state == StateAdding {
		return m.updateAddForm(msg)
	}
	return m, nil
}

func (m Model) updateDashboard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.cancel()
		m.checker.Stop()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Tab):
		m.state = (m.state + 1) % tabCount
		return m, nil

	case key.Matches(msg, m.keys.ShiftTab):
		m.state = (m.state - 1 + tabCount) % tabCount
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	if m.state == StateMeds {
		switch {
		case key.Matches(msg, m.keys.Add):
			m.newAddForm()
			m.state = StateAdding
			return m, m.form.Init()

		case key.Matches(msg, m.keys.Take):
			if med, ok := m.selectedMedication(); ok {
				m.takeDose(med)
			}
			return m, nil

		case key.Matches(msg, m.keys.Delete):
			if med, ok := m.selectedMedication(); ok {
				m.deleteID = med.ID
				m.deleteName = med.Name
				m.state = StateConfirmDelete
			}
			return m, nil
		}

		var cmd tea.Cmd
		m.medList, cmd = m.medList.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) takeDose(med models.Medication) {
	updated, advisories, err := m.app.TakeDose(med.ID, 1)
	if err != nil {
		m.status = fmt.Sprintf("⚠ %v", err)
		return
	}
	m.status = fmt.Sprintf("Took %s, %d remaining", updated.Name, updated.RemainingQuantity)
	if len(advisories) > 0 {
		m.status = "⚠ " + advisories[0]
	}
}

func (m Model) updateAddForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "esc" {
		m.checker.Stop()
		m.state = StateMeds
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	// Live duplicate check: every keystroke lands here, the checker
	// debounces and keeps only the latest result.
	if name := m.formVals.Name; name != m.lastChecked {
		m.lastChecked = name
		m.checker.Check(name, "", func(err error) {
			select {
			case m.nameCh <- err:
			default:
			}
		})
	}

	if m.form.State == huh.StateCompleted {
		m.submitAddForm()
		m.state = StateMeds
		return m, nil
	}
	if m.form.State == huh.StateAborted {
		m.checker.Stop()
		m.state = StateMeds
		return m, nil
	}
	return m, cmd
}

func (m *Model) submitAddForm() {
	m.checker.Stop()

	total, err := strconv.Atoi(m.formVals.Quantity)
	if err != nil {
		m.status = "⚠ quantity must be a number"
		return
	}
	times, err := parseTimes(m.formVals.Times)
	if err != nil {
		m.status = fmt.Sprintf("⚠ %v", err)
		return
	}

	med, advisories, err := m.app.AddMedication(app.MedicationInput{
		Name:          m.formVals.Name,
		Icon:          models.NoIcon(),
		UsageTimes:    times,
		TotalQuantity: total,
	})
	if err != nil {
		m.status = fmt.Sprintf("⚠ %v", err)
		return
	}

	m.status = fmt.Sprintf("Added %s", med.Name)
	if len(advisories) > 0 {
		m.status = "⚠ " + advisories[0]
	}
	m.upcoming = m.sched.UpcomingReminders()
}

func (m Model) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		if err := m.app.DeleteMedication(m.deleteID); err != nil {
			m.status = fmt.Sprintf("⚠ %v", err)
		} else {
			m.status = fmt.Sprintf("Deleted %s", m.deleteName)
			m.upcoming = m.sched.UpcomingReminders()
		}
		m.state = StateMeds
	case "n", "N", "esc":
		m.state = StateMeds
	}
	return m, nil
}
