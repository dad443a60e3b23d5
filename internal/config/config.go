package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/julianstephens/flashnote/internal/constants"
)

// Sender names accepted in the config file.
const (
	SenderTray = "tray"
	SenderLog  = "log"
)

// Config is the resolved flashnote configuration.
type Config struct {
	// Storage is a sqlite file path or a postgres:// connection string.
	Storage string
	// StorageSet reports whether Storage came from the file rather than the default.
	StorageSet   bool
	Debug        bool
	PollInterval time.Duration
	Sender       string
	// Dir holds logs and the default database.
	Dir string
}

type rawConfig struct {
	Storage             string  `toml:"storage"`
	Debug               bool    `toml:"debug"`
	PollIntervalSeconds float64 `toml:"poll_interval_seconds"`
	Sender              string  `toml:"sender"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Storage:      mustExpand(constants.DefaultStoragePath),
		PollInterval: constants.DefaultPollInterval,
		Sender:       SenderTray,
		Dir:          mustExpand(constants.DefaultConfigDir),
	}
}

// Load reads the TOML config at path (the default location when empty),
// falling back to defaults when the file is missing or a field is empty.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if storage := strings.TrimSpace(raw.Storage); storage != "" {
		if strings.HasPrefix(storage, "postgres://") || strings.HasPrefix(storage, "postgresql://") {
			cfg.Storage = storage
		} else {
			cfg.Storage = mustExpand(storage)
		}
		cfg.StorageSet = true
	}
	cfg.Debug = raw.Debug
	if raw.PollIntervalSeconds > 0 {
		cfg.PollInterval = time.Duration(raw.PollIntervalSeconds * float64(time.Second))
	}

	switch sender := strings.ToLower(strings.TrimSpace(raw.Sender)); sender {
	case "":
	case SenderTray, SenderLog:
		cfg.Sender = sender
	default:
		return Config{}, fmt.Errorf("parse config: unknown sender %q (want %q or %q)", raw.Sender, SenderTray, SenderLog)
	}

	return cfg, nil
}

// ExpandPath resolves a leading ~ and returns an absolute path.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(constants.DefaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
