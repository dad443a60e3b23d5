package prefs

import (
	"errors"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/flashnote/internal/cli"
	"github.com/julianstephens/flashnote/internal/constants"
	"github.com/julianstephens/flashnote/internal/models"
)

var ErrNoInterval = errors.New("no interval chosen")

// pickInterval is swapped out in tests; the real one needs a terminal.
var pickInterval = func(current float64) (float64, error) {
	options := make([]huh.Option[float64], 0, len(constants.IntervalPresets))
	for _, p := range constants.IntervalPresets {
		options = append(options, huh.NewOption(p.Label, p.Seconds))
	}

	chosen := current
	err := huh.NewSelect[float64]().
		Title("Notification interval").
		Options(options...).
		Value(&chosen).
		Run()
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return 0, ErrNoInterval
		}
		return 0, err
	}
	return chosen, nil
}

type PrefsIntervalCmd struct {
	Value string `arg:"" optional:"" help:"Seconds, a duration like 5m, or a preset label. Omit to pick from a list."`
}

func (c *PrefsIntervalCmd) Run(ctx *cli.Context) error {
	var seconds float64
	var err error
	if c.Value == "" {
		seconds, err = pickInterval(ctx.Prefs.Get().IntervalInSeconds)
	} else {
		seconds, err = cli.ParseInterval(c.Value)
	}
	if err != nil {
		return err
	}

	updated, err := ctx.Prefs.Patch(models.PreferencesPatch{IntervalInSeconds: &seconds})
	if err != nil {
		return err
	}
	ctx.Printf("Notifications will arrive %s.\n", cli.FormatInterval(updated.IntervalInSeconds))
	return replayHint(ctx)
}
