package system

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/flashnote/internal/backup"
	"github.com/julianstephens/flashnote/internal/cli"
)

// BackupCmd groups the snapshot commands.
type BackupCmd struct {
	Create  BackupCreateCmd  `cmd:"" default:"1" help:"Snapshot every stored value."`
	List    BackupListCmd    `cmd:"" help:"List snapshots."`
	Restore BackupRestoreCmd `cmd:"" help:"Replace stored values with a snapshot."`
}

func newManager(ctx *cli.Context) *backup.Manager {
	return backup.NewManager(ctx.Store, filepath.Join(ctx.Config.Dir, backup.DirName), ctx.Clock)
}

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	// pending preference and queue writes belong in the snapshot
	if err := flushState(bg, ctx); err != nil {
		return err
	}
	path, err := newManager(ctx).Create(bg)
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}
	ctx.Printf("✓ Backup created: %s\n", filepath.Base(path))
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *cli.Context) error {
	mgr := newManager(ctx)
	backups, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		ctx.Println("No backups found.")
		ctx.Printf("Backups are stored in: %s\n", mgr.Dir())
		return nil
	}

	ctx.Printf("Available backups (%d total, keeping most recent %d):\n\n", len(backups), backup.MaxBackups)
	for _, b := range backups {
		ctx.Printf("  %s  %s  %s\n",
			b.Timestamp.Format("2006-01-02 15:04"),
			filepath.Base(b.Path),
			cli.DimStyle.Render(fmt.Sprintf("(%.1f KB)", float64(b.Size)/1024.0)))
	}
	ctx.Printf("\nBackup directory: %s\n", mgr.Dir())
	return nil
}

// confirmRestore is swapped out in tests; the real one needs a terminal.
var confirmRestore = func(path string) (bool, error) {
	var ok bool
	err := huh.NewConfirm().
		Title("Replace all stored values with " + filepath.Base(path) + "?").
		Description("Stop 'flashnote watch' first. A snapshot of the current values is taken before restoring.").
		Affirmative("Restore").
		Negative("Cancel").
		Value(&ok).
		Run()
	return ok, err
}

type BackupRestoreCmd struct {
	BackupFile string `arg:"" help:"Path or filename of the snapshot to restore."`
	Yes        bool   `help:"Skip the confirmation prompt." short:"y"`
}

func (c *BackupRestoreCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	mgr := newManager(ctx)

	path, err := mgr.Resolve(c.BackupFile)
	if err != nil {
		return err
	}
	if !c.Yes {
		ok, err := confirmRestore(path)
		if err != nil {
			return err
		}
		if !ok {
			ctx.Println("Restore cancelled.")
			return nil
		}
	}

	if err := flushState(bg, ctx); err != nil {
		return err
	}
	safety, err := mgr.Restore(bg, path)
	if safety != "" {
		ctx.Printf("Created backup of current values: %s\n", filepath.Base(safety))
	}
	if err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}
	ctx.Printf("✓ Restored %s\n", filepath.Base(path))
	return nil
}

func flushState(bg context.Context, ctx *cli.Context) error {
	if err := ctx.Prefs.Flush(bg); err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	if err := ctx.Queue.Flush(bg); err != nil {
		return fmt.Errorf("failed to save queue: %w", err)
	}
	return nil
}
