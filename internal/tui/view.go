package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/wanhsuan/healthstash/internal/constants"
	"github.com/wanhsuan/healthstash/internal/validation"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateMeds:
		content = docStyle.Render(m.medList.View())
	case StateHistory:
		content = docStyle.Render(m.viewHistory())
	case StateReminders:
		content = docStyle.Render(m.viewReminders())
	case StateAdding:
		content = m.viewAddForm()
	case StateConfirmDelete:
		content = m.viewConfirmDelete()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		content,
		statusStyle.Render(m.status),
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	var tabs []string
	for i, title := range []string{"Medications", "History", "Reminders"} {
		if m.state == SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewHistory() string {
	if len(m.logs) == 0 {
		return "No doses logged yet"
	}

	var b strings.Builder
	b.WriteString("Dose history (newest first):\n\n")
	for _, entry := range m.logs {
		fmt.Fprintf(&b, "%s  %s  %s\n",
			entry.Timestamp.Format(constants.TimestampFormat), entry.MedicationName, entry.Dosage)
	}
	return b.String()
}

func (m Model) viewReminders() string {
	if len(m.upcoming) == 0 {
		return "No reminders scheduled"
	}

	var b strings.Builder
	b.WriteString("Upcoming reminders:\n\n")
	now := time.Now()
	for _, u := range m.upcoming {
		fmt.Fprintf(&b, "%s at %s (in %s)\n",
			u.Name, u.Time, u.NextFire.Sub(now).Round(time.Minute))
	}
	return b.String()
}

func (m Model) viewAddForm() string {
	view := m.form.View()
	if m.nameWarning != "" {
		view += "\n" + warningStyle.Render("⚠ "+m.nameWarning)
	}
	return view
}

func (m Model) viewConfirmDelete() string {
	return lipgloss.Place(m.width, m.height-4,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			fmt.Sprintf("Delete %s? Its dose history is kept.", m.deleteName),
			"",
			"[y] Delete  [n] Cancel",
		),
	)
}

func formatTimes(times []string) string {
	if len(times) == 0 {
		return "no reminders"
	}
	return strings.Join(times, ", ")
}

// parseTimes splits a comma-separated HH:MM list, dropping blanks.
func parseTimes(s string) ([]string, error) {
	var times []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		ti, ok := validation.TimeInputFromString(part)
		if !ok {
			return nil, fmt.Errorf("invalid time %q", part)
		}
		if err := ti.Validate(); err != nil {
			return nil, fmt.Errorf("invalid time %q: %w", part, err)
		}
		times = append(times, part)
	}
	if len(times) > constants.MaxUsageTimes {
		return nil, fmt.Errorf("at most %d usage times are allowed", constants.MaxUsageTimes)
	}
	return times, nil
}

func validateTimesInput(s string) error {
	_, err := parseTimes(s)
	return err
}
