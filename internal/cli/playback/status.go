package playback

import (
	"context"
	"fmt"

	"github.com/julianstephens/flashnote/internal/cli"
	"github.com/julianstephens/flashnote/internal/config"
	"github.com/julianstephens/flashnote/internal/notifier"
)

type StatusCmd struct{}

func (c *StatusCmd) Run(ctx *cli.Context) error {
	bg := context.Background()

	ctx.Println(cli.TitleStyle.Render("Preferences"))
	for _, line := range cli.FormatPreferences(ctx.Prefs.Get()) {
		ctx.Println("  " + line)
	}

	ctx.Println(cli.TitleStyle.Render("Queue"))
	if q, ok := ctx.Queue.Get(); ok && !q.IsEmpty() {
		ctx.Printf("  %s%s (%d notes)\n", cli.LabelStyle.Render("Album"), q.AlbumName(), q.Len())
	} else {
		ctx.Printf("  %snothing queued\n", cli.LabelStyle.Render("Album"))
	}

	pending, err := ctx.Notifier.Scheduled(bg)
	if err != nil {
		return fmt.Errorf("failed to list scheduled notifications: %w", err)
	}
	ctx.Printf("  %s%d\n", cli.LabelStyle.Render("Pending"), len(pending))
	if len(pending) > 0 {
		next := pending[0]
		ctx.Printf("  %s%s %s\n", cli.LabelStyle.Render("Next"), cli.HighlightStyle.Render(cli.FormatTime(next.FiresAt)), next.Message)
	}

	ctx.Println(cli.TitleStyle.Render("Delivery"))
	perms, err := ctx.Notifier.CheckPermission(bg)
	if err != nil {
		return fmt.Errorf("failed to check permissions: %w", err)
	}
	ctx.Printf("  %s%s\n", cli.LabelStyle.Render("Permission"), grantedLabel(perms.Alert))
	ctx.Printf("  %s%s\n", cli.LabelStyle.Render("Sender"), ctx.Config.Sender)
	if ctx.Config.Sender == config.SenderTray {
		if err := notifier.TrayStatus(); err != nil {
			ctx.Printf("  %s%s\n", cli.LabelStyle.Render("Tray"), cli.WarnStyle.Render(err.Error()))
		} else {
			ctx.Printf("  %srunning\n", cli.LabelStyle.Render("Tray"))
		}
	}
	ctx.Printf("  %s%s\n", cli.LabelStyle.Render("Storage"), ctx.Store.GetConfigPath())
	return nil
}

func grantedLabel(granted bool) string {
	if granted {
		return "granted"
	}
	return cli.WarnStyle.Render("not granted (run 'flashnote notifications permissions request')")
}
