package nota

import (
	"context"
	"fmt"
	"os"

	"github.com/nota-app/nota/pkg/pages"
	"github.com/nota-app/nota/pkg/store"
)

// Export writes a snapshot of the whole workspace to the command's path.
func (a *App) Export(ctx context.Context, cmd *ExportCommand) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	snap, err := a.store.Export(ctx)
	if err != nil {
		return fmt.Errorf("failed to capture workspace: %w", err)
	}
	f, err := os.Create(cmd.Path)
	if err != nil {
		return fmt.Errorf("failed to create snapshot file: %w", err)
	}
	if err := store.WriteSnapshot(f, snap); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close snapshot file: %w", err)
	}
	a.logger.Info().Str("path", cmd.Path).Int("pages", len(snap.Pages)).Msg("workspace exported")
	return nil
}

// Import restores the workspace from the command's snapshot file,
// replacing current contents. Any open editing session is dropped, since
// the page it was on may not exist afterwards.
func (a *App) Import(ctx context.Context, cmd *ImportCommand) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	f, err := os.Open(cmd.Path)
	if err != nil {
		return fmt.Errorf("failed to open snapshot file: %w", err)
	}
	snap, err := store.ReadSnapshot(f)
	f.Close()
	if err != nil {
		return err
	}
	if err := a.store.Import(ctx, snap); err != nil {
		return fmt.Errorf("failed to restore workspace: %w", err)
	}

	directory, err := pages.NewDirectory(ctx, a.store, a.logger)
	if err != nil {
		return fmt.Errorf("failed to reload directory: %w", err)
	}
	a.directory = directory
	a.session, a.interp = nil, nil

	a.logger.Info().Str("path", cmd.Path).Int("pages", len(snap.Pages)).Msg("workspace imported")
	return nil
}

// Copy moves the workspace into the command's destination backend by
// exporting from the configured backend and importing into the other
// one. The destination is migrated first, so a fresh database works as a
// target without a separate migrate run.
func (a *App) Copy(ctx context.Context, cmd *CopyCommand) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	snap, err := a.store.Export(ctx)
	if err != nil {
		return fmt.Errorf("failed to capture workspace: %w", err)
	}

	backend, err := newKV(cmd.Target)
	if err != nil {
		return fmt.Errorf("failed to open %s destination: %w", cmd.Target.Backend, err)
	}
	dst := store.New(backend)
	defer dst.Close()

	if err := dst.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to migrate %s destination: %w", cmd.Target.Backend, err)
	}
	if err := dst.Import(ctx, snap); err != nil {
		return fmt.Errorf("failed to copy workspace: %w", err)
	}

	a.logger.Info().
		Str("from", a.config.Backend).
		Str("to", cmd.Target.Backend).
		Int("pages", len(snap.Pages)).
		Msg("workspace copied")
	return nil
}
