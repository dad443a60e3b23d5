package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/julianstephens/flashnote/internal/storage"
)

func setupTestStore(t *testing.T) *Store {
	dbPath := filepath.Join(t.TempDir(), "nested", "test.db")

	store := NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})
	return store
}

func TestStore_GetMissingKey(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.Get(context.Background(), "missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestStore_SetOverwrites(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	if err := store.Set(ctx, "FlashNoteApp::Preferences", `{"shuffle":false}`); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	if err := store.Set(ctx, "FlashNoteApp::Preferences", `{"shuffle":true}`); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	got, err := store.Get(ctx, "FlashNoteApp::Preferences")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if got != `{"shuffle":true}` {
		t.Errorf("Get() = %q, want last written value", got)
	}
}

func TestStore_DeleteAndKeys(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	for _, key := range []string{"b", "a", "c"} {
		if err := store.Set(ctx, key, "1"); err != nil {
			t.Fatalf("Set(%q) failed: %v", key, err)
		}
	}
	if err := store.Delete(ctx, "b"); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	// Deleting a missing key is not an error
	if err := store.Delete(ctx, "zzz"); err != nil {
		t.Fatalf("Delete(missing) failed: %v", err)
	}

	keys, err := store.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys() failed: %v", err)
	}
	if len(keys) != 2 || keys[0] != "a" || keys[1] != "c" {
		t.Errorf("Keys() = %v, want [a c]", keys)
	}
}

func TestStore_LoadUninitialized(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "absent.db"))

	err := store.Load()
	if !errors.Is(err, storage.ErrNotInitialized) {
		t.Errorf("Load() error = %v, want ErrNotInitialized", err)
	}
}

func TestStore_ReloadPersists(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	first := NewStore(dbPath)
	if err := first.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	if err := first.Set(ctx, "FlashNoteApp::Queue", `{"unshuffled":[],"shuffled":[]}`); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	second := NewStore(dbPath)
	if err := second.Load(); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	defer second.Close()

	got, err := second.Get(ctx, "FlashNoteApp::Queue")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if got != `{"unshuffled":[],"shuffled":[]}` {
		t.Errorf("Get() = %q after reload", got)
	}
}

func TestStore_NotLoaded(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "test.db"))

	if _, err := store.Get(context.Background(), "k"); err == nil {
		t.Error("Get() on unloaded store should fail")
	}
	if err := store.Set(context.Background(), "k", "v"); err == nil {
		t.Error("Set() on unloaded store should fail")
	}
}
