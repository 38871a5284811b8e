package store

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/nota-app/nota/pkg/models"
)

// SnapshotVersion is bumped when the snapshot layout changes.
const SnapshotVersion = 1

// Snapshot is a complete workspace capture: every page, every block list,
// and the auxiliary settings. Snapshots are the unit of export/import and
// of copying a workspace between backends.
type Snapshot struct {
	Version   int                       `json:"version"`
	Taken     time.Time                 `json:"taken"`
	Pages     []models.Page             `json:"pages"`
	Blocks    map[string][]models.Block `json:"blocks"`
	Favorites []string                  `json:"favorites"`
	Recents   []string                  `json:"recents"`
	Theme     string                    `json:"theme"`
}

// Export captures the whole workspace.
func (s *Store) Export(ctx context.Context) (*Snapshot, error) {
	pages, err := s.LoadPages(ctx)
	if err != nil {
		return nil, err
	}
	snap := &Snapshot{
		Version: SnapshotVersion,
		Taken:   time.Now().UTC(),
		Pages:   pages,
		Blocks:  make(map[string][]models.Block, len(pages)),
	}
	for _, page := range pages {
		blocks, err := s.LoadBlocks(ctx, page.Name)
		if err != nil {
			return nil, fmt.Errorf("page %q: %w", page.Name, err)
		}
		snap.Blocks[page.Name] = blocks
	}
	if snap.Favorites, err = s.LoadFavorites(ctx); err != nil {
		return nil, err
	}
	if snap.Recents, err = s.LoadRecents(ctx); err != nil {
		return nil, err
	}
	if snap.Theme, err = s.LoadTheme(ctx); err != nil {
		return nil, err
	}
	return snap, nil
}

// Import replaces the store's contents with the snapshot. Block lists of
// pages that exist in the store but not in the snapshot are removed first.
func (s *Store) Import(ctx context.Context, snap *Snapshot) error {
	if snap.Version != SnapshotVersion {
		return fmt.Errorf("unsupported snapshot version %d", snap.Version)
	}
	existing, err := s.LoadPages(ctx)
	if err != nil {
		return err
	}
	keep := make(map[string]bool, len(snap.Pages))
	for _, page := range snap.Pages {
		keep[page.Name] = true
	}
	for _, page := range existing {
		if !keep[page.Name] {
			if err := s.RemoveBlocks(ctx, page.Name); err != nil {
				return err
			}
		}
	}
	if err := s.SavePages(ctx, snap.Pages); err != nil {
		return err
	}
	for _, page := range snap.Pages {
		if err := s.SaveBlocks(ctx, page.Name, snap.Blocks[page.Name]); err != nil {
			return fmt.Errorf("page %q: %w", page.Name, err)
		}
	}
	if err := s.SaveFavorites(ctx, snap.Favorites); err != nil {
		return err
	}
	if err := s.SaveRecents(ctx, snap.Recents); err != nil {
		return err
	}
	theme := snap.Theme
	if theme == "" {
		theme = DefaultTheme
	}
	return s.SaveTheme(ctx, theme)
}

// WriteSnapshot encodes a snapshot as CBOR.
func WriteSnapshot(w io.Writer, snap *Snapshot) error {
	if err := cbor.NewEncoder(w).Encode(snap); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return nil
}

// ReadSnapshot decodes a CBOR snapshot and checks its version.
func ReadSnapshot(r io.Reader) (*Snapshot, error) {
	var snap Snapshot
	if err := cbor.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	if snap.Version != SnapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", snap.Version)
	}
	return &snap, nil
}
