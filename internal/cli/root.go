package cli

import (
	"fmt"
	"strings"

	"github.com/wanhsuan/healthstash/internal/app"
	"github.com/wanhsuan/healthstash/internal/notifier"
	"github.com/wanhsuan/healthstash/internal/scheduler"
	"github.com/wanhsuan/healthstash/internal/storage"
	"github.com/wanhsuan/healthstash/internal/validation"
)

type Context struct {
	Store     storage.Provider
	Scheduler *scheduler.Scheduler
	App       *app.Service
	Notifier  *notifier.Notifier
}

// resolveMedication accepts either a medication id or an exact name.
// Names are what users type day to day; ids come from scripts.
func resolveMedication(ctx *Context, ref string) (string, error) {
	if med, err := ctx.Store.GetMedication(ref); err == nil {
		return med.ID, nil
	}
	med, err := ctx.Store.GetMedicationByName(ref)
	if err != nil {
		return "", fmt.Errorf("no medication with id or name %q", ref)
	}
	return med.ID, nil
}

// parseUsageTimes splits a comma-separated list of HH:MM entries,
// preserving order and duplicates. Blank entries are dropped.
func parseUsageTimes(s string) ([]string, error) {
	var times []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		ti, ok := validation.TimeInputFromString(part)
		if !ok {
			return nil, fmt.Errorf("invalid time %q: %w", part, validation.ErrIncompleteTime)
		}
		if err := ti.Validate(); err != nil {
			return nil, fmt.Errorf("invalid time %q: %w", part, err)
		}
		times = append(times, part)
	}
	return times, nil
}

func formatUsageTimes(times []string) string {
	if len(times) == 0 {
		return "no reminders"
	}
	return strings.Join(times, ", ")
}

func printAdvisories(advisories []string) {
	for _, a := range advisories {
		fmt.Printf("⚠ %s\n", a)
	}
}
