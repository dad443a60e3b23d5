package state

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/julianstephens/flashnote/internal/storage"
)

var errDiskFull = errors.New("disk full")

// recordingProvider wraps a memory store and records every write.
type recordingProvider struct {
	*storage.JSONStore

	mu     sync.Mutex
	writes []string
	delay  time.Duration
	fail   bool
}

func newRecordingProvider() *recordingProvider {
	return &recordingProvider{JSONStore: storage.NewMemoryStore()}
}

func (p *recordingProvider) Set(ctx context.Context, key, value string) error {
	p.mu.Lock()
	delay, fail := p.delay, p.fail
	p.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if fail {
		return errDiskFull
	}

	p.mu.Lock()
	p.writes = append(p.writes, value)
	p.mu.Unlock()
	return p.JSONStore.Set(ctx, key, value)
}

func (p *recordingProvider) setFail(fail bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fail = fail
}

func (p *recordingProvider) recorded() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.writes...)
}
