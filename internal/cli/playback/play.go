package playback

import (
	"context"
	"errors"
	"fmt"

	"github.com/julianstephens/flashnote/internal/albums"
	"github.com/julianstephens/flashnote/internal/cli"
	"github.com/julianstephens/flashnote/internal/config"
	"github.com/julianstephens/flashnote/internal/notifier"
)

type PlayCmd struct {
	Album string `arg:"" optional:"" help:"Built-in album name, or the album title when --file is given."`
	File  string `help:"Newline-separated notes file to play instead of a built-in album." short:"f" type:"existingfile"`
}

func (c *PlayCmd) Run(ctx *cli.Context) error {
	album, err := c.resolve()
	if err != nil {
		return err
	}

	summary, err := ctx.Scheduler.Plan(context.Background(), album.Name, album.Notes)
	if err != nil {
		return err
	}

	prefs := ctx.Prefs.Get()
	ctx.Printf("%s %s\n", cli.TitleStyle.Render("Playing"), album.Name)
	if summary.Items > 0 {
		ctx.Printf("  %d notes %s, first at %s, last at %s\n",
			summary.Items, cli.FormatInterval(prefs.IntervalInSeconds),
			cli.FormatTime(summary.FirstFire), cli.FormatTime(summary.LastFire))
	} else {
		ctx.Println("  Album is empty, only the end marker was scheduled")
	}
	ctx.Printf("  Ends at %s\n", cli.FormatTime(summary.EndFire))

	if summary.Failed > 0 {
		ctx.Println(cli.WarnStyle.Render(fmt.Sprintf("  %d of %d notifications could not be scheduled", summary.Failed, summary.Failed+summary.Submitted)))
	}
	if prefs.Paused {
		ctx.Println(cli.WarnStyle.Render("  Playback is marked paused. Run 'flashnote pause' to resume."))
	}
	if ctx.Config.Sender == config.SenderTray {
		if err := notifier.TrayStatus(); err != nil {
			ctx.Println(cli.WarnStyle.Render("  flashnote-tray is not reachable: " + err.Error()))
		}
	}
	return nil
}

func (c *PlayCmd) resolve() (albums.Album, error) {
	if c.File != "" {
		return albums.LoadFile(c.File, c.Album)
	}
	if c.Album == "" {
		return albums.Album{}, errors.New("name an album or pass --file; run 'flashnote albums' to see the built-in ones")
	}
	return albums.Lookup(c.Album)
}
