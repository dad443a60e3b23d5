package models

import (
	"errors"
	"math"
	"testing"
)

func ptr[T any](v T) *T { return &v }

func TestDefaultPreferences(t *testing.T) {
	p := DefaultPreferences()
	if p.IntervalInSeconds != 300 || p.Shuffle || !p.Repeat || p.Paused {
		t.Errorf("DefaultPreferences() = %+v, want {300 false true false}", p)
	}
	if err := p.Validate(); err != nil {
		t.Errorf("DefaultPreferences().Validate() = %v, want nil", err)
	}
}

func TestValidateInterval(t *testing.T) {
	tests := []struct {
		name    string
		seconds float64
		wantErr bool
	}{
		{"positive", 10, false},
		{"fractional", 0.5, false},
		{"zero", 0, true},
		{"negative", -5, true},
		{"nan", math.NaN(), true},
		{"inf", math.Inf(1), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateInterval(tt.seconds)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateInterval(%v) error = %v, wantErr %v", tt.seconds, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidInterval) {
				t.Errorf("error %v does not wrap ErrInvalidInterval", err)
			}
		})
	}
}

func TestPreferencesPatch_Apply(t *testing.T) {
	base := Preferences{IntervalInSeconds: 60, Shuffle: false, Repeat: true, Paused: false}

	tests := []struct {
		name  string
		patch PreferencesPatch
		want  Preferences
	}{
		{"empty", PreferencesPatch{}, base},
		{"shuffle only", PreferencesPatch{Shuffle: ptr(true)}, Preferences{60, true, true, false}},
		{"interval only", PreferencesPatch{IntervalInSeconds: ptr(5.0)}, Preferences{5, false, true, false}},
		{"all fields", PreferencesPatch{
			IntervalInSeconds: ptr(3600.0),
			Shuffle:           ptr(true),
			Repeat:            ptr(false),
			Paused:            ptr(true),
		}, Preferences{3600, true, false, true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.patch.Apply(base)
			if err != nil {
				t.Fatalf("Apply() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Apply() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestPreferencesPatch_ApplyRejectsInvalidInterval(t *testing.T) {
	base := DefaultPreferences()
	got, err := PreferencesPatch{IntervalInSeconds: ptr(-1.0), Shuffle: ptr(true)}.Apply(base)
	if !errors.Is(err, ErrInvalidInterval) {
		t.Fatalf("Apply() error = %v, want ErrInvalidInterval", err)
	}
	if got != base {
		t.Errorf("Apply() = %+v, want unchanged %+v", got, base)
	}
}

func TestPreferencesPatch_IsEmpty(t *testing.T) {
	if !(PreferencesPatch{}).IsEmpty() {
		t.Error("zero patch should be empty")
	}
	if (PreferencesPatch{Paused: ptr(false)}).IsEmpty() {
		t.Error("patch with Paused set should not be empty")
	}
}
