package notifications

import (
	"context"
	"strconv"

	"github.com/julianstephens/flashnote/internal/cli"
	"github.com/julianstephens/flashnote/internal/notifier"
)

// NotifyCmd runs one dispatch pass. It is meant for cron or the tray app.
type NotifyCmd struct {
	Quiet bool `help:"Print nothing unless something was delivered." short:"q"`
}

func (c *NotifyCmd) Run(ctx *cli.Context) error {
	result, err := ctx.Notifier.Dispatch(context.Background(), ctx.Clock.Now())
	if err != nil {
		return err
	}
	report(ctx, result, c.Quiet)
	return nil
}

func report(ctx *cli.Context, result notifier.DispatchResult, quiet bool) {
	for _, d := range result.Delivered {
		ctx.Printf("%s %s: %s\n", cli.DimStyle.Render(cli.FormatTime(d.DeliveredAt)), d.Title, d.Message)
	}
	if result.Failed > 0 {
		ctx.Println(cli.WarnStyle.Render("failed to deliver " + plural(result.Failed)))
	}
	if result.Dropped > 0 {
		ctx.Println(cli.WarnStyle.Render("dropped " + plural(result.Dropped) + " without permission"))
	}
	if !quiet && len(result.Delivered) == 0 && result.Failed == 0 && result.Dropped == 0 {
		ctx.Println("Nothing due.")
	}
}

func plural(n int) string {
	if n == 1 {
		return "1 notification"
	}
	return strconv.Itoa(n) + " notifications"
}
