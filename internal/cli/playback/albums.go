package playback

import (
	"fmt"

	"github.com/julianstephens/flashnote/internal/albums"
	"github.com/julianstephens/flashnote/internal/cli"
)

type AlbumsCmd struct {
	Notes bool `help:"Print every note in each album." short:"n"`
}

func (c *AlbumsCmd) Run(ctx *cli.Context) error {
	for _, album := range albums.Builtin() {
		ctx.Printf("%s %s\n", cli.TitleStyle.Render(album.Name), cli.DimStyle.Render(fmt.Sprintf("(%d notes)", len(album.Notes))))
		if c.Notes {
			for _, note := range album.Notes {
				ctx.Printf("  %s\n", note)
			}
		}
	}
	return nil
}
