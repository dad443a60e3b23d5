package system

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jonboulle/clockwork"

	"github.com/julianstephens/flashnote/internal/backup"
	"github.com/julianstephens/flashnote/internal/cli"
	"github.com/julianstephens/flashnote/internal/config"
	"github.com/julianstephens/flashnote/internal/constants"
	"github.com/julianstephens/flashnote/internal/models"
	"github.com/julianstephens/flashnote/internal/notifier"
	"github.com/julianstephens/flashnote/internal/storage"
	"github.com/julianstephens/flashnote/internal/storage/sqlite"
)

func newContext(t *testing.T, store storage.Provider) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	ctx := cli.NewContext(store, config.Config{Sender: config.SenderLog, Dir: t.TempDir()}, notifier.NewLogSender(io.Discard), clockwork.NewFakeClock())
	out := &bytes.Buffer{}
	ctx.Out = out
	return ctx, out
}

func TestInitCmd_FreshStore(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "flash.db")
	ctx, out := newContext(t, sqlite.NewStore(dbPath))

	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("InitCmd.Run() error = %v", err)
	}
	if !strings.Contains(out.String(), dbPath) {
		t.Errorf("output = %q", out.String())
	}
	if err := ctx.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	store := sqlite.NewStore(dbPath)
	if err := store.Load(); err != nil {
		t.Fatalf("Load() after init error = %v", err)
	}
	reopened, _ := newContext(t, store)
	defer reopened.Close()
	if err := reopened.LoadState(context.Background()); err != nil {
		t.Fatalf("LoadState() error = %v", err)
	}

	if got := reopened.Prefs.Get(); got != models.DefaultPreferences() {
		t.Errorf("preferences = %+v, want defaults", got)
	}
	perms, err := reopened.Notifier.CheckPermission(context.Background())
	if err != nil || !perms.Alert {
		t.Errorf("permissions = %+v, %v; want granted", perms, err)
	}
	ch, err := reopened.Notifier.Channel(context.Background())
	if err != nil || ch.ID != constants.DefaultChannelID || ch.Name != constants.DefaultChannelName {
		t.Errorf("channel = %+v, %v", ch, err)
	}
}

func TestInitCmd_KeepsPreferences(t *testing.T) {
	store := storage.NewMemoryStore()
	ctx, _ := newContext(t, store)
	defer ctx.Close()

	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("first init error = %v", err)
	}
	shuffle := true
	if _, err := ctx.Prefs.Patch(models.PreferencesPatch{Shuffle: &shuffle}); err != nil {
		t.Fatalf("Patch() error = %v", err)
	}
	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("second init error = %v", err)
	}
	if !ctx.Prefs.Get().Shuffle {
		t.Error("init without --force reset preferences")
	}
}

func TestInitCmd_Force(t *testing.T) {
	store := storage.NewMemoryStore()
	ctx, out := newContext(t, store)
	defer ctx.Close()
	bg := context.Background()

	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("init error = %v", err)
	}
	shuffle := true
	if _, err := ctx.Prefs.Patch(models.PreferencesPatch{Shuffle: &shuffle}); err != nil {
		t.Fatalf("Patch() error = %v", err)
	}
	if _, err := ctx.Scheduler.Plan(bg, "Greek", []string{"alpha", "beta"}); err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if err := ctx.Prefs.Flush(bg); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if err := ctx.Queue.Flush(bg); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	if err := (&InitCmd{Force: true}).Run(ctx); err != nil {
		t.Fatalf("init --force error = %v", err)
	}
	if !strings.Contains(out.String(), "Erased") || !strings.Contains(out.String(), "Saved a backup") {
		t.Errorf("output = %q", out.String())
	}
	backups, err := backup.NewManager(store, filepath.Join(ctx.Config.Dir, backup.DirName), nil).List()
	if err != nil || len(backups) != 1 {
		t.Errorf("backups before erase = %d, %v; want 1", len(backups), err)
	}
	if got := ctx.Prefs.Get(); got != models.DefaultPreferences() {
		t.Errorf("preferences after force = %+v", got)
	}
	if _, ok := ctx.Queue.Get(); ok {
		t.Error("queue survived init --force")
	}
	pending, err := ctx.Notifier.Scheduled(bg)
	if err != nil || len(pending) != 0 {
		t.Errorf("pending after force = %d, %v", len(pending), err)
	}
	if err := ctx.Queue.Flush(bg); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if _, err := store.Get(bg, constants.QueueKey); err == nil {
		t.Error("persisted queue survived init --force")
	}
}
