package state

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/julianstephens/flashnote/internal/logger"
	"github.com/julianstephens/flashnote/internal/storage"
)

// ErrWriterClosed is returned by Flush after Close has finished.
var ErrWriterClosed = errors.New("writer closed")

const writeTimeout = 5 * time.Second

type op struct {
	value  string
	delete bool
}

type waiter struct {
	gen uint64
	ch  chan struct{}
}

// Writer persists values for a single key on its own goroutine. Enqueued
// values coalesce so only the newest pending one is written, and writes
// reach the provider in enqueue order.
type Writer struct {
	key      string
	provider storage.Provider
	log      *log.Logger

	mu      sync.Mutex
	pending *op
	queued  uint64
	written uint64
	lastErr error
	waiters []waiter
	closed  bool

	wake chan struct{}
	stop chan struct{}
	done chan struct{}
}

func NewWriter(provider storage.Provider, key string) *Writer {
	w := &Writer{
		key:      key,
		provider: provider,
		log:      logger.Component("state"),
		wake:     make(chan struct{}, 1),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go w.run()
	return w
}

// Enqueue schedules value to be written. It never blocks.
func (w *Writer) Enqueue(value string) {
	w.enqueue(op{value: value})
}

// EnqueueDelete schedules removal of the key.
func (w *Writer) EnqueueDelete() {
	w.enqueue(op{delete: true})
}

func (w *Writer) enqueue(o op) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		w.log.Warn("dropping write after close", "key", w.key)
		return
	}
	w.pending = &o
	w.queued++
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
}

// Flush waits until everything enqueued before the call has been written
// and returns the error of the most recent write, if it failed.
func (w *Writer) Flush(ctx context.Context) error {
	w.mu.Lock()
	target := w.queued
	if w.written >= target {
		err := w.lastErr
		w.mu.Unlock()
		return err
	}
	if w.closed && w.isDone() {
		w.mu.Unlock()
		return ErrWriterClosed
	}
	ch := make(chan struct{})
	w.waiters = append(w.waiters, waiter{gen: target, ch: ch})
	w.mu.Unlock()

	select {
	case <-ch:
		w.mu.Lock()
		defer w.mu.Unlock()
		return w.lastErr
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close writes any pending value and stops the goroutine.
func (w *Writer) Close(ctx context.Context) error {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.stop)
	}
	w.mu.Unlock()

	select {
	case <-w.done:
	case <-ctx.Done():
		return ctx.Err()
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastErr
}

func (w *Writer) isDone() bool {
	select {
	case <-w.done:
		return true
	default:
		return false
	}
}

func (w *Writer) run() {
	defer close(w.done)
	for {
		select {
		case <-w.wake:
			w.drain()
		case <-w.stop:
			w.drain()
			return
		}
	}
}

func (w *Writer) drain() {
	for {
		w.mu.Lock()
		if w.pending == nil {
			w.mu.Unlock()
			return
		}
		o, gen := *w.pending, w.queued
		w.pending = nil
		w.mu.Unlock()

		err := w.write(o)
		if err != nil {
			w.log.Warn("persist failed", "key", w.key, "error", err)
		}

		w.mu.Lock()
		w.written = gen
		w.lastErr = err
		remaining := w.waiters[:0]
		for _, wt := range w.waiters {
			if wt.gen <= gen {
				close(wt.ch)
			} else {
				remaining = append(remaining, wt)
			}
		}
		w.waiters = remaining
		w.mu.Unlock()
	}
}

func (w *Writer) write(o op) error {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	if o.delete {
		return w.provider.Delete(ctx, w.key)
	}
	return w.provider.Set(ctx, w.key, o.value)
}
