package models

import "fmt"

type IconKind string

const (
	IconKindNone     IconKind = "none"
	IconKindExternal IconKind = "external"
	IconKindBundled  IconKind = "bundled"
)

// Icon is a tagged variant: Ref is a file path for IconKindExternal, a
// bundled icon name for IconKindBundled, and empty for IconKindNone.
type Icon struct {
	Kind IconKind `json:"kind"`
	Ref  string   `json:"ref,omitempty"`
}

func NoIcon() Icon { return Icon{Kind: IconKindNone} }

func ExternalIcon(p string) Icon { return Icon{Kind: IconKindExternal, Ref: p} }

func BundledIcon(n string) Icon { return Icon{Kind: IconKindBundled, Ref: n} }

func (i Icon) Validate() error {
	switch i.Kind {
	case IconKindNone:
		if i.Ref != "" {
			return fmt.Errorf("icon kind %q must not carry a reference", i.Kind)
		}
		return nil
	case IconKindExternal, IconKindBundled:
		if i.Ref == "" {
			return fmt.Errorf("icon kind %q requires a reference", i.Kind)
		}
		return nil
	default:
		return fmt.Errorf("unknown icon kind: %q", i.Kind)
	}
}

type Medication struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Icon              Icon     `json:"icon"`
	UsageTimes        []string `json:"usage_times"` // HH:MM format, 0-4 entries
	TotalQuantity     int      `json:"total_quantity"`
	RemainingQuantity int      `json:"remaining_quantity"`
}

// HasSchedule reports whether the medication has any usage times to remind on.
func (m Medication) HasSchedule() bool {
	return len(m.UsageTimes) > 0
}
