package prefs

import (
	"math/rand/v2"

	"github.com/julianstephens/flashnote/internal/cli"
	"github.com/julianstephens/flashnote/internal/constants"
	"github.com/julianstephens/flashnote/internal/models"
)

// randomSource is nil outside tests.
var randomSource *rand.Rand

type PrefsRandomizeCmd struct{}

func (c *PrefsRandomizeCmd) Run(ctx *cli.Context) error {
	updated, err := ctx.Prefs.Patch(RandomPatch(randomSource))
	if err != nil {
		return err
	}
	printPreferences(ctx, updated)
	return replayHint(ctx)
}

// RandomPatch picks an interval in (0, 300] seconds and flips a coin for
// shuffle and repeat. A nil rng uses the global source.
func RandomPatch(rng *rand.Rand) models.PreferencesPatch {
	float := rand.Float64
	if rng != nil {
		float = rng.Float64
	}
	interval := constants.RandomIntervalCeilingSeconds * (1 - float())
	repeat := float() < 0.5
	shuffle := float() < 0.5
	return models.PreferencesPatch{
		IntervalInSeconds: &interval,
		Repeat:            &repeat,
		Shuffle:           &shuffle,
	}
}
