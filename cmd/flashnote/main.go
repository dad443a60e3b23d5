package main

import (
	"context"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/flashnote/internal/cli"
	"github.com/julianstephens/flashnote/internal/cli/notifications"
	"github.com/julianstephens/flashnote/internal/cli/playback"
	"github.com/julianstephens/flashnote/internal/cli/prefs"
	"github.com/julianstephens/flashnote/internal/cli/system"
	"github.com/julianstephens/flashnote/internal/config"
	"github.com/julianstephens/flashnote/internal/constants"
	"github.com/julianstephens/flashnote/internal/errors"
	"github.com/julianstephens/flashnote/internal/logger"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path." type:"path" default:"${config_path}"`
	Storage string `help:"SQLite path, .json file, or PostgreSQL connection string. PostgreSQL credentials must NOT be embedded; use the keyring or FLASHNOTE_DB_CONNECTION instead."`
	Debug   bool   `help:"Log debug output to stderr."`

	Init          system.InitCmd                 `cmd:"" help:"Initialize flashnote storage."`
	Albums        playback.AlbumsCmd             `cmd:"" help:"List built-in albums."`
	Play          playback.PlayCmd               `cmd:"" help:"Schedule an album as notifications."`
	Status        playback.StatusCmd             `cmd:"" help:"Show preferences, queue and delivery status." default:"1"`
	Queue         playback.QueueCmd              `cmd:"" help:"Show the current queue."`
	Prefs         prefs.PrefsCmd                 `cmd:"" help:"Show or change preferences."`
	Pause         prefs.PauseCmd                 `cmd:"" help:"Toggle the paused flag."`
	Notifications notifications.NotificationsCmd `cmd:"" help:"Inspect and manage notifications."`
	Watch         notifications.WatchCmd         `cmd:"" help:"Deliver due notifications until interrupted."`
	Notify        notifications.NotifyCmd        `cmd:"" hidden:"" help:"Deliver due notifications once (used by cron and the tray)."`
	Backup        system.BackupCmd               `cmd:"" help:"Snapshot and restore stored values."`
	Keyring       system.KeyringCmd              `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
}

// Commands that never touch the store.
var storeless = []string{"albums", "keyring"}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Play lists of notes as timed desktop notifications"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":      constants.Version,
			"config_path":  constants.DefaultConfigPath,
			"channel_id":   constants.DefaultChannelID,
			"channel_name": constants.DefaultChannelName,
		},
	)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		errors.Fatal(err)
	}
	if err := logger.Init(logger.Config{Debug: CLI.Debug || cfg.Debug, ConfigDir: cfg.Dir}); err != nil {
		errors.Fatalf("failed to initialize logger: %v", err)
	}

	store, err := cli.OpenStore(cli.ResolveLocation(CLI.Storage, cfg))
	if err != nil {
		errors.Fatal(err)
	}

	appCtx := cli.NewContext(store, cfg, cli.NewSender(cfg), nil)

	command := ctx.Command()
	if !strings.HasPrefix(command, "init") && !isStoreless(command) {
		if err := store.Load(); err != nil {
			errors.Fatal(err)
		}
		if err := appCtx.LoadState(context.Background()); err != nil {
			logger.Warn("failed to load saved state, using defaults", "error", err)
		}
	}

	runErr := ctx.Run(appCtx)
	if err := appCtx.Close(); err != nil && runErr == nil {
		runErr = err
	}
	errors.Fatal(runErr)
}

func isStoreless(command string) bool {
	for _, name := range storeless {
		if strings.HasPrefix(command, name) {
			return true
		}
	}
	return false
}
