package notifications

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/julianstephens/flashnote/internal/cli"
	"github.com/julianstephens/flashnote/internal/logger"
)

// WatchCmd dispatches due notifications on a fixed tick until interrupted.
type WatchCmd struct {
	Interval time.Duration `help:"Polling interval. Defaults to the config value."`
}

func (c *WatchCmd) Run(ctx *cli.Context) error {
	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return c.watch(sigCtx, ctx)
}

func (c *WatchCmd) watch(runCtx context.Context, ctx *cli.Context) error {
	interval := c.Interval
	if interval <= 0 {
		interval = ctx.Config.PollInterval
	}

	ctx.Printf("Watching for due notifications every %s. Press Ctrl+C to stop.\n", interval)
	ticker := ctx.Clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		c.tick(runCtx, ctx)
		select {
		case <-runCtx.Done():
			return nil
		case <-ticker.Chan():
		}
	}
}

func (c *WatchCmd) tick(runCtx context.Context, ctx *cli.Context) {
	result, err := ctx.Notifier.Dispatch(runCtx, ctx.Clock.Now())
	if err != nil {
		if runCtx.Err() == nil {
			logger.Warn("dispatch failed", "error", err)
		}
		return
	}
	report(ctx, result, true)
}
