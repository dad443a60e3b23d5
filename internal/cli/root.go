package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/julianstephens/flashnote/internal/config"
	"github.com/julianstephens/flashnote/internal/logger"
	"github.com/julianstephens/flashnote/internal/notifier"
	"github.com/julianstephens/flashnote/internal/queue"
	"github.com/julianstephens/flashnote/internal/scheduler"
	"github.com/julianstephens/flashnote/internal/state"
	"github.com/julianstephens/flashnote/internal/storage"
)

const shutdownTimeout = 5 * time.Second

type Context struct {
	Store     storage.Provider
	Prefs     *state.PreferencesStore
	Queue     *state.QueueStore
	Builder   *queue.Builder
	Scheduler *scheduler.Planner
	Notifier  *notifier.Center
	Config    config.Config
	Clock     clockwork.Clock
	Out       io.Writer
}

// NewContext wires the stores, builder, planner and notification center
// around store. A nil clock uses the real clock.
func NewContext(store storage.Provider, cfg config.Config, sender notifier.Sender, clock clockwork.Clock) *Context {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	prefs := state.NewPreferencesStore(store)
	queueStore := state.NewQueueStore(store)
	builder := queue.NewBuilder(prefs, queueStore, nil)
	center := notifier.NewCenter(store, sender, clock)

	return &Context{
		Store:     store,
		Prefs:     prefs,
		Queue:     queueStore,
		Builder:   builder,
		Scheduler: scheduler.New(center, builder, prefs, clock),
		Notifier:  center,
		Config:    cfg,
		Clock:     clock,
		Out:       os.Stdout,
	}
}

// NewSender returns the Sender named in the config.
func NewSender(cfg config.Config) notifier.Sender {
	if cfg.Sender == config.SenderLog {
		return notifier.NewLogSender(os.Stdout)
	}
	return notifier.NewTraySender()
}

// LoadState reads preferences and the last queue into memory.
func (c *Context) LoadState(ctx context.Context) error {
	if err := c.Prefs.Load(ctx); err != nil {
		return err
	}
	return c.Queue.Load(ctx)
}

// Close flushes pending writes and closes the store.
func (c *Context) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error
	if err := c.Prefs.Close(ctx); err != nil {
		logger.Warn("preferences not persisted", "error", err)
		errs = append(errs, fmt.Errorf("preferences: %w", err))
	}
	if err := c.Queue.Close(ctx); err != nil {
		logger.Warn("queue not persisted", "error", err)
		errs = append(errs, fmt.Errorf("queue: %w", err))
	}
	if err := c.Store.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Printf writes to the command output.
func (c *Context) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.out(), format, args...)
}

func (c *Context) Println(args ...interface{}) {
	fmt.Fprintln(c.out(), args...)
}

func (c *Context) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}
