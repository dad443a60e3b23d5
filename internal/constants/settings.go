package constants

const (
	// Default Preferences Values
	DefaultIntervalInSeconds = 60 * 5
	DefaultShuffle           = false
	DefaultRepeat            = true
	DefaultPaused            = false

	// RandomIntervalCeilingSeconds bounds "prefs randomize"
	RandomIntervalCeilingSeconds = 300
)

// IntervalPreset is one entry of the interval picker.
type IntervalPreset struct {
	Label   string
	Seconds float64
}

// IntervalPresets lists the cadences offered by the interval picker, in display order.
var IntervalPresets = []IntervalPreset{
	{Label: "Every 5 seconds", Seconds: 5},
	{Label: "Every 10 seconds", Seconds: 10},
	{Label: "Every 30 seconds", Seconds: 30},
	{Label: "Every minute", Seconds: 60},
	{Label: "Every 5 minutes", Seconds: 5 * 60},
	{Label: "Every 10 minutes", Seconds: 10 * 60},
	{Label: "Every 30 minutes", Seconds: 30 * 60},
	{Label: "Every hour", Seconds: 60 * 60},
}
