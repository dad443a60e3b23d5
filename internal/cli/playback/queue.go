package playback

import (
	"context"
	"fmt"

	"github.com/julianstephens/flashnote/internal/cli"
	"github.com/julianstephens/flashnote/internal/models"
	"github.com/julianstephens/flashnote/internal/queue"
)

type QueueCmd struct {
	ComingUp   bool `help:"Show only what is still to come, starting at the next scheduled note." short:"c"`
	Unshuffled bool `help:"Show the album order instead of the playing order." short:"u"`
}

func (c *QueueCmd) Run(ctx *cli.Context) error {
	q, ok := ctx.Queue.Get()
	if !ok || q.IsEmpty() {
		ctx.Println("Nothing is queued. Run 'flashnote play <album>' first.")
		return nil
	}

	items := q.Shuffled
	heading := "Playing order"
	if c.Unshuffled {
		items = q.Unshuffled
		heading = "Album order"
	}

	if c.ComingUp {
		next, err := nextScheduled(context.Background(), ctx)
		if err != nil {
			return err
		}
		items = queue.Upcoming(q, next)
		heading = "Coming up"
		if len(items) == 0 {
			ctx.Println("Nothing coming up.")
			return nil
		}
	}

	ctx.Printf("%s %s\n", cli.TitleStyle.Render(q.AlbumName()), cli.DimStyle.Render(heading))
	printItems(ctx, items)
	return nil
}

// nextScheduled returns the tag of the earliest pending notification.
func nextScheduled(bg context.Context, ctx *cli.Context) (string, error) {
	pending, err := ctx.Notifier.Scheduled(bg)
	if err != nil {
		return "", fmt.Errorf("failed to list scheduled notifications: %w", err)
	}
	if len(pending) == 0 {
		return "", nil
	}
	return pending[0].Tag, nil
}

func printItems(ctx *cli.Context, items []models.QueueItem) {
	width := len(fmt.Sprint(len(items)))
	for i, item := range items {
		ctx.Printf("  %s %s\n", cli.DimStyle.Render(fmt.Sprintf("%*d.", width, i+1)), item.NoteText)
	}
}
