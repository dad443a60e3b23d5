package models

import (
	"errors"
	"fmt"
	"math"

	"github.com/julianstephens/flashnote/internal/constants"
)

var ErrInvalidInterval = errors.New("interval must be a positive number of seconds")

// Preferences are the user-tunable scheduling parameters.
type Preferences struct {
	IntervalInSeconds float64 `json:"intervalInSeconds"`
	Shuffle           bool    `json:"shuffle"`
	Repeat            bool    `json:"repeat"`
	// Paused is surfaced to the user only; scheduling ignores it.
	Paused bool `json:"paused"`
}

func DefaultPreferences() Preferences {
	return Preferences{
		IntervalInSeconds: constants.DefaultIntervalInSeconds,
		Shuffle:           constants.DefaultShuffle,
		Repeat:            constants.DefaultRepeat,
		Paused:            constants.DefaultPaused,
	}
}

// Validate reports whether the interval is usable for scheduling.
func (p Preferences) Validate() error {
	return ValidateInterval(p.IntervalInSeconds)
}

func ValidateInterval(seconds float64) error {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds <= 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidInterval, seconds)
	}
	return nil
}

// PreferencesPatch is a partial update. Nil fields are left untouched.
type PreferencesPatch struct {
	IntervalInSeconds *float64
	Shuffle           *bool
	Repeat            *bool
	Paused            *bool
}

// IsEmpty reports whether the patch changes nothing.
func (pp PreferencesPatch) IsEmpty() bool {
	return pp.IntervalInSeconds == nil && pp.Shuffle == nil && pp.Repeat == nil && pp.Paused == nil
}

// Apply shallow-merges the patch over p and returns the result.
func (pp PreferencesPatch) Apply(p Preferences) (Preferences, error) {
	if pp.IntervalInSeconds != nil {
		if err := ValidateInterval(*pp.IntervalInSeconds); err != nil {
			return p, err
		}
		p.IntervalInSeconds = *pp.IntervalInSeconds
	}
	if pp.Shuffle != nil {
		p.Shuffle = *pp.Shuffle
	}
	if pp.Repeat != nil {
		p.Repeat = *pp.Repeat
	}
	if pp.Paused != nil {
		p.Paused = *pp.Paused
	}
	return p, nil
}
