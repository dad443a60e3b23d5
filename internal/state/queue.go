package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/julianstephens/flashnote/internal/constants"
	"github.com/julianstephens/flashnote/internal/logger"
	"github.com/julianstephens/flashnote/internal/models"
	"github.com/julianstephens/flashnote/internal/storage"
)

// QueueStore keeps the most recently built Queue so it can be shown again
// after a restart. Planning never reads from it.
type QueueStore struct {
	provider storage.Provider
	writer   *Writer
	log      *log.Logger

	mu      sync.RWMutex
	queue   models.Queue
	ok      bool
	mutated bool
}

func NewQueueStore(provider storage.Provider) *QueueStore {
	return &QueueStore{
		provider: provider,
		writer:   NewWriter(provider, constants.QueueKey),
		log:      logger.Component("state"),
	}
}

func (s *QueueStore) Load(ctx context.Context) error {
	raw, err := s.provider.Get(ctx, constants.QueueKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to load queue: %w", err)
	}

	var loaded models.Queue
	if err := json.Unmarshal([]byte(raw), &loaded); err != nil {
		s.log.Warn("stored queue is malformed, ignoring it", "key", constants.QueueKey, "error", err)
		return nil
	}
	if len(loaded.Shuffled) != len(loaded.Unshuffled) {
		s.log.Warn("stored queue orderings differ in length, ignoring it",
			"unshuffled", len(loaded.Unshuffled), "shuffled", len(loaded.Shuffled))
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.mutated {
		s.queue = loaded
		s.ok = true
	}
	return nil
}

// Get returns the current queue and whether one has been built or loaded.
func (s *QueueStore) Get() (models.Queue, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queue, s.ok
}

// Set replaces the queue. The previous one is discarded.
func (s *QueueStore) Set(q models.Queue) {
	data, err := json.Marshal(q)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = q
	s.ok = true
	s.mutated = true
	if err != nil {
		s.log.Error("failed to encode queue", "error", err)
		return
	}
	s.writer.Enqueue(string(data))
}

func (s *QueueStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = models.Queue{}
	s.ok = false
	s.mutated = true
	s.writer.EnqueueDelete()
}

func (s *QueueStore) Flush(ctx context.Context) error {
	return s.writer.Flush(ctx)
}

func (s *QueueStore) Close(ctx context.Context) error {
	return s.writer.Close(ctx)
}
