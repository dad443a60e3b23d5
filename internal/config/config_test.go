package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/flashnote/internal/constants"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Sender != SenderTray {
		t.Fatalf("Sender = %q, want %q", cfg.Sender, SenderTray)
	}
	if cfg.PollInterval != constants.DefaultPollInterval {
		t.Fatalf("PollInterval = %v, want %v", cfg.PollInterval, constants.DefaultPollInterval)
	}
	if !strings.HasPrefix(cfg.Storage, home) {
		t.Fatalf("Storage = %q, want it under HOME %q", cfg.Storage, home)
	}
	if cfg.StorageSet {
		t.Fatal("StorageSet = true, want false without a config file")
	}
	if !strings.HasPrefix(cfg.Dir, home) {
		t.Fatalf("Dir = %q, want it under HOME %q", cfg.Dir, home)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := writeConfig(t, `
storage = "  ~/notes/flash.db  "
debug = true
poll_interval_seconds = 0.5
sender = " LOG "
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Storage != filepath.Join(home, "notes/flash.db") {
		t.Fatalf("Storage = %q, want expanded path", cfg.Storage)
	}
	if !cfg.StorageSet {
		t.Fatal("StorageSet = false, want true")
	}
	if !cfg.Debug {
		t.Fatal("Debug = false, want true")
	}
	if cfg.PollInterval != 500*time.Millisecond {
		t.Fatalf("PollInterval = %v, want 500ms", cfg.PollInterval)
	}
	if cfg.Sender != SenderLog {
		t.Fatalf("Sender = %q, want %q", cfg.Sender, SenderLog)
	}
}

func TestLoad_PostgresStorageIsNotExpanded(t *testing.T) {
	path := writeConfig(t, `storage = "postgres://flash@localhost:5432/flashnote"`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Storage != "postgres://flash@localhost:5432/flashnote" {
		t.Fatalf("Storage = %q, want connection string unchanged", cfg.Storage)
	}
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := writeConfig(t, `
storage = "   "
poll_interval_seconds = 0
sender = ""
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	want := Default()
	if cfg.Storage != want.Storage || cfg.PollInterval != want.PollInterval || cfg.Sender != want.Sender {
		t.Fatalf("Load = %+v, want defaults %+v", cfg, want)
	}
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	path := writeConfig(t, `storage = [`)

	_, err := Load(path)
	if err == nil {
		t.Fatalf("Load returned nil error, want parse error")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Load error = %q, want it to mention parse config", err.Error())
	}
}

func TestLoad_UnknownSenderFails(t *testing.T) {
	path := writeConfig(t, `sender = "pigeon"`)

	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "unknown sender") {
		t.Fatalf("Load error = %v, want unknown sender", err)
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := ExpandPath("~/a/b")
	if err != nil {
		t.Fatalf("ExpandPath returned error: %v", err)
	}
	if want := filepath.Join(home, "a/b"); got != want {
		t.Fatalf("ExpandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := ExpandPath("   "); err == nil {
		t.Fatalf("ExpandPath returned nil error, want error")
	}
}
