package constants

import "time"

const (
	AppName           = "healthstash"
	DefaultConfigPath = "~/.config/healthstash/healthstash.db"
	Version           = "v0.2.0"

	// TimeFormat is the standard time-of-day format used throughout the
	// application (HH:MM, 24-hour, zero-padded)
	TimeFormat = "15:04"

	// TimestampFormat is used when rendering dose log timestamps
	TimestampFormat = "2006-01-02 15:04"

	// Medication input limits
	NameMaxLen      = 10
	QuantityMin     = 1
	QuantityMax     = 500
	MaxUsageTimes   = 4
	DefaultDoseText = "1 unit"

	// UsageTimeSeparator joins the usage-time list in the medications table
	UsageTimeSeparator = ","

	// LowStockThreshold triggers the low-stock advisory after a dose
	LowStockThreshold = 2

	// NameCheckDebounce is how long the duplicate-name checker waits for
	// input to settle before querying the store
	NameCheckDebounce = 500 * time.Millisecond

	// ApproximatePollInterval is the polling granularity the scheduler
	// degrades to when exact wake-ups are unavailable
	ApproximatePollInterval = time.Minute

	// ImageDirName holds copied medication icon images under the config dir
	ImageDirName = "medication_images"

	// Notify constants
	NotifierLockfileName   = "healthstash-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.wanhsuan.healthstash"
	TrayAppExecutable      = "healthstash-tray"
)
