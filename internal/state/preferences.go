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

// PreferencesStore owns the process-wide Preferences value. Reads come from
// memory; every mutation is persisted through a single Writer.
type PreferencesStore struct {
	provider storage.Provider
	writer   *Writer
	log      *log.Logger

	mu      sync.RWMutex
	prefs   models.Preferences
	mutated bool
}

func NewPreferencesStore(provider storage.Provider) *PreferencesStore {
	return &PreferencesStore{
		provider: provider,
		writer:   NewWriter(provider, constants.PreferencesKey),
		log:      logger.Component("state"),
		prefs:    models.DefaultPreferences(),
	}
}

// Load reads the persisted value. A missing or malformed value leaves the
// defaults in place; only provider failures are returned. If the store was
// mutated before Load ran, the in-memory value wins.
func (s *PreferencesStore) Load(ctx context.Context) error {
	raw, err := s.provider.Get(ctx, constants.PreferencesKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to load preferences: %w", err)
	}

	loaded := models.DefaultPreferences()
	if err := json.Unmarshal([]byte(raw), &loaded); err != nil {
		s.log.Warn("stored preferences are malformed, using defaults", "key", constants.PreferencesKey, "error", err)
		return nil
	}
	if err := loaded.Validate(); err != nil {
		s.log.Warn("stored interval is invalid, using default", "interval", loaded.IntervalInSeconds)
		loaded.IntervalInSeconds = constants.DefaultIntervalInSeconds
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.mutated {
		s.prefs = loaded
	}
	return nil
}

func (s *PreferencesStore) Get() models.Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs
}

// Patch merges patch over the current value and persists the result.
// An invalid interval leaves the value unchanged.
func (s *PreferencesStore) Patch(patch models.PreferencesPatch) (models.Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := patch.Apply(s.prefs)
	if err != nil {
		return s.prefs, err
	}
	s.commitLocked(next)
	return next, nil
}

// Set replaces the whole value.
func (s *PreferencesStore) Set(prefs models.Preferences) error {
	if err := prefs.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commitLocked(prefs)
	return nil
}

// commitLocked enqueues under the lock so persisted order matches memory order.
func (s *PreferencesStore) commitLocked(prefs models.Preferences) {
	s.prefs = prefs
	s.mutated = true

	data, err := json.Marshal(prefs)
	if err != nil {
		s.log.Error("failed to encode preferences", "error", err)
		return
	}
	s.writer.Enqueue(string(data))
}

func (s *PreferencesStore) Flush(ctx context.Context) error {
	return s.writer.Flush(ctx)
}

func (s *PreferencesStore) Close(ctx context.Context) error {
	return s.writer.Close(ctx)
}
