package prefs

import (
	"fmt"

	"github.com/julianstephens/flashnote/internal/cli"
	"github.com/julianstephens/flashnote/internal/models"
)

// PrefsCmd groups the preference commands. Bare "prefs" runs set.
type PrefsCmd struct {
	Set       PrefsSetCmd       `cmd:"" default:"withargs" help:"Show or change preferences."`
	Interval  PrefsIntervalCmd  `cmd:"" help:"Pick the notification interval."`
	Randomize PrefsRandomizeCmd `cmd:"" help:"Pick a random interval, shuffle and repeat."`
}

type PrefsSetCmd struct {
	List bool `help:"List current preferences."`

	Interval *float64 `help:"Seconds between notifications."`
	Shuffle  *bool    `help:"Shuffle the queue when playing."`
	Repeat   *bool    `help:"Loop the queue to fill the schedule."`
	Paused   *bool    `help:"Mark playback as paused."`
}

func (c *PrefsSetCmd) Run(ctx *cli.Context) error {
	patch := models.PreferencesPatch{
		IntervalInSeconds: c.Interval,
		Shuffle:           c.Shuffle,
		Repeat:            c.Repeat,
		Paused:            c.Paused,
	}

	if c.List || patch.IsEmpty() {
		printPreferences(ctx, ctx.Prefs.Get())
		if !c.List {
			ctx.Println(cli.DimStyle.Render("Use flags such as --shuffle or --interval=60 to change them."))
		}
		return nil
	}

	updated, err := ctx.Prefs.Patch(patch)
	if err != nil {
		return fmt.Errorf("failed to update preferences: %w", err)
	}
	ctx.Println("Preferences updated.")
	printPreferences(ctx, updated)
	return replayHint(ctx)
}

// PauseCmd toggles the paused flag.
type PauseCmd struct{}

func (c *PauseCmd) Run(ctx *cli.Context) error {
	paused := !ctx.Prefs.Get().Paused
	if _, err := ctx.Prefs.Patch(models.PreferencesPatch{Paused: &paused}); err != nil {
		return err
	}
	if paused {
		ctx.Println("Paused.")
	} else {
		ctx.Println("Resumed.")
	}
	return nil
}

func printPreferences(ctx *cli.Context, p models.Preferences) {
	ctx.Println(cli.TitleStyle.Render("Preferences"))
	for _, line := range cli.FormatPreferences(p) {
		ctx.Println("  " + line)
	}
}

// replayHint reminds the user that a running schedule keeps its old settings.
func replayHint(ctx *cli.Context) error {
	if q, ok := ctx.Queue.Get(); ok && !q.IsEmpty() {
		ctx.Println(cli.DimStyle.Render(fmt.Sprintf("Run 'flashnote play %q' to reschedule with the new settings.", q.AlbumName())))
	}
	return nil
}
