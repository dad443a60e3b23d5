package notifications

import (
	"context"
	"fmt"
	"strings"

	"github.com/julianstephens/flashnote/internal/cli"
	"github.com/julianstephens/flashnote/internal/constants"
	"github.com/julianstephens/flashnote/internal/notifier"
)

type NotificationsCmd struct {
	List        ListCmd        `cmd:"" default:"1" help:"List pending notifications."`
	Delivered   DeliveredCmd   `cmd:"" help:"List delivered notifications."`
	Cancel      CancelCmd      `cmd:"" help:"Cancel pending notifications."`
	Local       LocalCmd       `cmd:"" help:"Show a notification right now."`
	Permissions PermissionsCmd `cmd:"" help:"Manage notification permissions."`
	Channel     ChannelCmd     `cmd:"" help:"Create or update the notification channel."`
	PopInitial  PopInitialCmd  `cmd:"" name:"pop-initial" help:"Open the newest unopened delivered notification."`
}

type ListCmd struct {
	Limit int `help:"Show at most this many." default:"0"`
}

func (c *ListCmd) Run(ctx *cli.Context) error {
	pending, err := ctx.Notifier.Scheduled(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list scheduled notifications: %w", err)
	}
	if len(pending) == 0 {
		ctx.Println("No notifications scheduled.")
		return nil
	}

	ctx.Printf("%s %s\n", cli.TitleStyle.Render("Scheduled"), cli.DimStyle.Render(fmt.Sprintf("(%d)", len(pending))))
	shown := pending
	if c.Limit > 0 && c.Limit < len(shown) {
		shown = shown[:c.Limit]
	}
	for _, req := range shown {
		ctx.Printf("  %s %s %s\n", cli.HighlightStyle.Render(cli.FormatTime(req.FiresAt)), req.Message, cli.DimStyle.Render(fmt.Sprintf("#%d", req.ID)))
	}
	if len(shown) < len(pending) {
		ctx.Println(cli.DimStyle.Render(fmt.Sprintf("  ... %d more", len(pending)-len(shown))))
	}
	return nil
}

type DeliveredCmd struct{}

func (c *DeliveredCmd) Run(ctx *cli.Context) error {
	delivered, err := ctx.Notifier.Delivered(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list delivered notifications: %w", err)
	}
	if len(delivered) == 0 {
		ctx.Println("Nothing delivered yet.")
		return nil
	}
	ctx.Println(cli.TitleStyle.Render("Delivered"))
	for _, d := range delivered {
		marker := " "
		if !d.Opened {
			marker = cli.HighlightStyle.Render("•")
		}
		ctx.Printf("  %s %s %s: %s\n", marker, cli.DimStyle.Render(cli.FormatTime(d.DeliveredAt)), d.Title, d.Message)
	}
	return nil
}

type CancelCmd struct {
	Last bool `help:"Cancel only the most recently scheduled notification."`
}

func (c *CancelCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	if c.Last {
		if err := ctx.Notifier.CancelLast(bg); err != nil {
			return fmt.Errorf("failed to cancel notification: %w", err)
		}
		ctx.Println("Cancelled the last scheduled notification.")
		return nil
	}
	if err := ctx.Notifier.CancelAll(bg); err != nil {
		return fmt.Errorf("failed to cancel notifications: %w", err)
	}
	ctx.Println("Cancelled all scheduled notifications.")
	return nil
}

type LocalCmd struct {
	Sound string `help:"Sound file to play with the notification."`
}

func (c *LocalCmd) Run(ctx *cli.Context) error {
	if err := ctx.Notifier.LocalNotif(context.Background(), c.Sound); err != nil {
		return err
	}
	ctx.Println("Notification sent.")
	return nil
}

type PermissionsCmd struct {
	Check   PermissionsCheckCmd   `cmd:"" default:"1" help:"Show granted permissions."`
	Request PermissionsRequestCmd `cmd:"" help:"Grant notification permissions."`
	Abandon PermissionsAbandonCmd `cmd:"" help:"Revoke notification permissions."`
}

type PermissionsCheckCmd struct{}

func (c *PermissionsCheckCmd) Run(ctx *cli.Context) error {
	perms, err := ctx.Notifier.CheckPermission(context.Background())
	if err != nil {
		return err
	}
	printPermissions(ctx, perms)
	return nil
}

type PermissionsRequestCmd struct{}

func (c *PermissionsRequestCmd) Run(ctx *cli.Context) error {
	perms, err := ctx.Notifier.RequestPermissions(context.Background())
	if err != nil {
		return err
	}
	printPermissions(ctx, perms)
	return nil
}

type PermissionsAbandonCmd struct{}

func (c *PermissionsAbandonCmd) Run(ctx *cli.Context) error {
	if err := ctx.Notifier.AbandonPermissions(context.Background()); err != nil {
		return err
	}
	ctx.Println("Notification permissions revoked. Scheduled notes will be dropped when due.")
	return nil
}

func printPermissions(ctx *cli.Context, perms notifier.Permissions) {
	var granted []string
	if perms.Alert {
		granted = append(granted, "alert")
	}
	if perms.Badge {
		granted = append(granted, "badge")
	}
	if perms.Sound {
		granted = append(granted, "sound")
	}
	if len(granted) == 0 {
		ctx.Println("No notification permissions granted.")
		return
	}
	ctx.Printf("Granted: %s\n", strings.Join(granted, ", "))
}

type ChannelCmd struct {
	ID          string `help:"Channel id." default:"${channel_id}"`
	Name        string `help:"Channel name shown by the tray." default:"${channel_name}"`
	Description string `help:"Channel description."`
	Sound       string `help:"Default sound for notifications on this channel."`
}

func (c *ChannelCmd) Run(ctx *cli.Context) error {
	ch := notifier.Channel{ID: c.ID, Name: c.Name, Description: c.Description, SoundName: c.Sound}
	if ch.ID == "" {
		ch.ID = constants.DefaultChannelID
	}
	if err := ctx.Notifier.CreateOrUpdateChannel(context.Background(), ch); err != nil {
		return err
	}
	ctx.Printf("Channel %q ready.\n", ch.ID)
	return nil
}

type PopInitialCmd struct{}

func (c *PopInitialCmd) Run(ctx *cli.Context) error {
	d, err := ctx.Notifier.PopInitialNotification(context.Background())
	if err != nil {
		return err
	}
	if d == nil {
		ctx.Println("No unopened notification.")
		return nil
	}
	ctx.Printf("%s %s\n", cli.TitleStyle.Render(d.Title), d.Message)
	return nil
}
