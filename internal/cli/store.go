package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/julianstephens/flashnote/internal/config"
	"github.com/julianstephens/flashnote/internal/keyring"
	"github.com/julianstephens/flashnote/internal/storage"
	"github.com/julianstephens/flashnote/internal/storage/postgres"
	"github.com/julianstephens/flashnote/internal/storage/sqlite"
)

// Location is where the key-value store lives.
type Location struct {
	Path string
	// Secret is true when Path came from the environment or the OS keyring,
	// where an embedded password is acceptable.
	Secret bool
}

// ResolveLocation picks the storage location: the --storage flag, then the
// config file, then FLASHNOTE_DB_CONNECTION or the keyring, then the default
// SQLite file.
func ResolveLocation(flag string, cfg config.Config) Location {
	if s := strings.TrimSpace(flag); s != "" {
		return Location{Path: s}
	}
	if cfg.StorageSet {
		return Location{Path: cfg.Storage}
	}
	if connStr, ok := keyring.ResolveConnectionString(); ok {
		return Location{Path: connStr, Secret: true}
	}
	return Location{Path: cfg.Storage}
}

// OpenStore builds the Provider for loc without touching the backend.
func OpenStore(loc Location) (storage.Provider, error) {
	if storage.IsPostgres(loc.Path) || strings.Contains(loc.Path, "host=") {
		if !loc.Secret && storage.HasEmbeddedCredentials(loc.Path) {
			return nil, storage.ErrEmbeddedCredentials
		}
		return postgres.New(loc.Path), nil
	}

	path, err := config.ExpandPath(loc.Path)
	if err != nil {
		return nil, fmt.Errorf("invalid storage path: %w", err)
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return storage.NewJSONStore(path), nil
	}
	return sqlite.NewStore(path), nil
}
