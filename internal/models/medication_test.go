package models

import "testing"

func TestIconValidate(t *testing.T) {
	tests := []struct {
		name    string
		icon    Icon
		wantErr bool
	}{
		{"none", NoIcon(), false},
		{"external", ExternalIcon("/tmp/x.png"), false},
		{"bundled", BundledIcon("pill"), false},
		{"none with ref", Icon{Kind: IconKindNone, Ref: "x"}, true},
		{"external without ref", Icon{Kind: IconKindExternal}, true},
		{"bundled without ref", Icon{Kind: IconKindBundled}, true},
		{"unknown kind", Icon{Kind: "emoji", Ref: "💊"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.icon.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate(%+v) = %v, wantErr %v", tt.icon, err, tt.wantErr)
			}
		})
	}
}

func TestHasSchedule(t *testing.T) {
	if (Medication{}).HasSchedule() {
		t.Error("No usage times should mean no schedule")
	}
	if !(Medication{UsageTimes: []string{"08:00"}}).HasSchedule() {
		t.Error("Usage times should mean a schedule")
	}
}

func TestReminderKeyString(t *testing.T) {
	key := ReminderKey{MedicationID: "med-1", Slot: 2}
	if key.String() != "med-1#2" {
		t.Errorf("Unexpected key string: %s", key.String())
	}
}
