package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/flashnote/internal/constants"
	"github.com/julianstephens/flashnote/internal/models"
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	LabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Width(12)

	DimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	HighlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86"))

	WarnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))
)

// FormatInterval renders seconds the way the interval presets are labelled.
func FormatInterval(seconds float64) string {
	for _, p := range constants.IntervalPresets {
		if p.Seconds == seconds {
			return strings.ToLower(p.Label)
		}
	}
	d := time.Duration(seconds * float64(time.Second)).Round(time.Millisecond)
	return "every " + d.String()
}

// ParseInterval accepts a preset label, a Go duration ("90s", "5m") or a
// plain number of seconds.
func ParseInterval(s string) (float64, error) {
	trimmed := strings.TrimSpace(s)
	for _, p := range constants.IntervalPresets {
		if strings.EqualFold(p.Label, trimmed) {
			return p.Seconds, nil
		}
	}

	var seconds float64
	if n, err := strconv.ParseFloat(trimmed, 64); err == nil {
		seconds = n
	} else if d, err := time.ParseDuration(trimmed); err == nil {
		seconds = d.Seconds()
	} else {
		return 0, fmt.Errorf("invalid interval %q: use seconds, a duration like 5m, or a preset", s)
	}
	if err := models.ValidateInterval(seconds); err != nil {
		return 0, err
	}
	return seconds, nil
}

func FormatPreferences(p models.Preferences) []string {
	return []string{
		LabelStyle.Render("Interval") + FormatInterval(p.IntervalInSeconds),
		LabelStyle.Render("Shuffle") + onOff(p.Shuffle),
		LabelStyle.Render("Repeat") + onOff(p.Repeat),
		LabelStyle.Render("Paused") + yesNo(p.Paused),
	}
}

func FormatTime(t time.Time) string {
	return t.Local().Format("15:04:05")
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
