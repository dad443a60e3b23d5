package backup

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/julianstephens/flashnote/internal/logger"
	"github.com/julianstephens/flashnote/internal/storage"
)

const (
	// MaxBackups is the number of snapshots kept after rotation
	MaxBackups = 14
	DirName    = "backups"
	FilePrefix = "flashnote-"
	FileSuffix = ".json"

	minuteLayout = "20060102-1504"
	secondLayout = "20060102-150405"
)

var ErrNoBackup = errors.New("backup file does not exist")

// Info describes one snapshot on disk.
type Info struct {
	Path      string
	Timestamp time.Time
	Size      int64
}

// Manager snapshots every key of a Provider into a JSON file and restores
// them. Snapshots work the same for SQLite, PostgreSQL and JSON stores.
type Manager struct {
	provider storage.Provider
	dir      string
	clock    clockwork.Clock
}

// NewManager keeps snapshots in dir. A nil clock uses the real clock.
func NewManager(provider storage.Provider, dir string, clock clockwork.Clock) *Manager {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Manager{provider: provider, dir: dir, clock: clock}
}

func (m *Manager) Dir() string {
	return m.dir
}

// Create writes a snapshot and prunes old ones beyond MaxBackups.
func (m *Manager) Create(ctx context.Context) (string, error) {
	path, err := m.create(ctx)
	if err != nil {
		return "", err
	}
	if err := m.rotate(); err != nil {
		logger.Warn("failed to rotate old backups", "dir", m.dir, "error", err)
	}
	return path, nil
}

func (m *Manager) create(ctx context.Context) (string, error) {
	if err := os.MkdirAll(m.dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	path, err := m.uniquePath()
	if err != nil {
		return "", err
	}

	keys, err := m.provider.Keys(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list stored keys: %w", err)
	}

	snapshot := storage.NewJSONStore(path)
	if err := snapshot.Init(); err != nil {
		return "", fmt.Errorf("failed to create backup file: %w", err)
	}
	for _, key := range keys {
		value, err := m.provider.Get(ctx, key)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			_ = os.Remove(path)
			return "", fmt.Errorf("failed to read %s: %w", key, err)
		}
		if err := snapshot.Set(ctx, key, value); err != nil {
			_ = os.Remove(path)
			return "", fmt.Errorf("failed to write backup: %w", err)
		}
	}
	return path, nil
}

// uniquePath names the snapshot by minute, falling back to seconds and then
// a counter when that name is taken.
func (m *Manager) uniquePath() (string, error) {
	now := m.clock.Now()
	path := m.fileName(now.Format(minuteLayout))
	if !exists(path) {
		return path, nil
	}

	stamp := now.Format(secondLayout)
	path = m.fileName(stamp)
	for counter := 1; exists(path); counter++ {
		if counter > 100 {
			return "", fmt.Errorf("failed to generate unique backup filename")
		}
		path = m.fileName(fmt.Sprintf("%s-%d", stamp, counter))
	}
	return path, nil
}

func (m *Manager) fileName(stamp string) string {
	return filepath.Join(m.dir, FilePrefix+stamp+FileSuffix)
}

// List returns the snapshots in dir, newest first.
func (m *Manager) List() ([]Info, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Info{}, nil
		}
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var backups []Info
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, FilePrefix) || !strings.HasSuffix(name, FileSuffix) {
			continue
		}
		ts, ok := parseStamp(strings.TrimSuffix(strings.TrimPrefix(name, FilePrefix), FileSuffix))
		if !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, Info{Path: filepath.Join(m.dir, name), Timestamp: ts, Size: info.Size()})
	}

	sort.SliceStable(backups, func(i, j int) bool {
		if !backups[i].Timestamp.Equal(backups[j].Timestamp) {
			return backups[i].Timestamp.After(backups[j].Timestamp)
		}
		return backups[i].Path > backups[j].Path
	})
	return backups, nil
}

// parseStamp accepts YYYYMMDD-HHMM and YYYYMMDD-HHMMSS, each with an
// optional -N counter.
func parseStamp(stamp string) (time.Time, bool) {
	parts := strings.Split(stamp, "-")
	if len(parts) == 3 {
		stamp = parts[0] + "-" + parts[1]
	} else if len(parts) != 2 {
		return time.Time{}, false
	}
	for _, layout := range []string{minuteLayout, secondLayout} {
		if ts, err := time.ParseInLocation(layout, stamp, time.Local); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

func (m *Manager) rotate() error {
	backups, err := m.List()
	if err != nil {
		return err
	}
	for i := MaxBackups; i < len(backups); i++ {
		if err := os.Remove(backups[i].Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", backups[i].Path, err)
		}
	}
	return nil
}

// Resolve finds name as given or inside the backup directory.
func (m *Manager) Resolve(name string) (string, error) {
	if exists(name) {
		return filepath.Abs(name)
	}
	if !filepath.IsAbs(name) {
		if candidate := filepath.Join(m.dir, name); exists(candidate) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s and %s", ErrNoBackup, name, m.dir)
}

// Restore replaces every stored key with the snapshot at path. The current
// values are snapshotted first; that snapshot's path is returned.
func (m *Manager) Restore(ctx context.Context, path string) (string, error) {
	if !exists(path) {
		return "", fmt.Errorf("%w: %s", ErrNoBackup, path)
	}
	snapshot := storage.NewJSONStore(path)
	if err := snapshot.Load(); err != nil {
		return "", fmt.Errorf("backup file is corrupted or invalid: %w", err)
	}
	wanted, err := snapshot.Keys(ctx)
	if err != nil {
		return "", err
	}

	safety, err := m.create(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to backup current state before restore: %w", err)
	}

	current, err := m.provider.Keys(ctx)
	if err != nil {
		return safety, fmt.Errorf("failed to list stored keys: %w", err)
	}
	keep := make(map[string]bool, len(wanted))
	for _, key := range wanted {
		keep[key] = true
	}
	for _, key := range current {
		if keep[key] {
			continue
		}
		if err := m.provider.Delete(ctx, key); err != nil {
			return safety, fmt.Errorf("failed to delete %s: %w", key, err)
		}
	}
	for _, key := range wanted {
		value, err := snapshot.Get(ctx, key)
		if err != nil {
			return safety, err
		}
		if err := m.provider.Set(ctx, key, value); err != nil {
			return safety, fmt.Errorf("failed to restore %s: %w", key, err)
		}
	}
	return safety, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
