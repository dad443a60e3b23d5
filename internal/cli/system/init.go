package system

import (
	"context"
	"fmt"

	"github.com/julianstephens/flashnote/internal/cli"
	"github.com/julianstephens/flashnote/internal/constants"
	"github.com/julianstephens/flashnote/internal/models"
	"github.com/julianstephens/flashnote/internal/notifier"
)

type InitCmd struct {
	Force bool `help:"Erase every stored value before initializing."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	bg := context.Background()

	if err := ctx.Store.Init(); err != nil {
		return err
	}

	if c.Force {
		keys, err := ctx.Store.Keys(bg)
		if err != nil {
			return fmt.Errorf("failed to list stored keys: %w", err)
		}
		if len(keys) > 0 {
			path, err := newManager(ctx).Create(bg)
			if err != nil {
				return fmt.Errorf("failed to back up before erasing: %w", err)
			}
			ctx.Printf("Saved a backup to %s\n", path)
		}
		for _, key := range keys {
			if err := ctx.Store.Delete(bg, key); err != nil {
				return fmt.Errorf("failed to delete %s: %w", key, err)
			}
		}
		ctx.Queue.Clear()
		if len(keys) > 0 {
			ctx.Printf("Erased %d stored values\n", len(keys))
		}
	} else if err := ctx.LoadState(bg); err != nil {
		return err
	}

	if err := ctx.Prefs.Set(forceOrCurrent(c.Force, ctx.Prefs.Get())); err != nil {
		return err
	}
	if _, err := ctx.Notifier.RequestPermissions(bg); err != nil {
		return fmt.Errorf("failed to grant notification permissions: %w", err)
	}
	channel := notifier.Channel{ID: constants.DefaultChannelID, Name: constants.DefaultChannelName}
	if err := ctx.Notifier.CreateOrUpdateChannel(bg, channel); err != nil {
		return fmt.Errorf("failed to create notification channel: %w", err)
	}
	if err := ctx.Prefs.Flush(bg); err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}

	ctx.Printf("Initialized flashnote storage at: %s\n", ctx.Store.GetConfigPath())
	return nil
}

func forceOrCurrent(force bool, current models.Preferences) models.Preferences {
	if force {
		return models.DefaultPreferences()
	}
	return current
}
