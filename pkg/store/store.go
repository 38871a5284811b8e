// Package store persists the document entities through a
// [github.com/nota-app/nota/pkg/kv.KV] backend.
//
// The key scheme is fixed and closed:
//
//	"pages"        the directory's ordered page list
//	"page-"+name   the serialized block list of one page
//	"favorites"    ordered favorite page names
//	"recentPages"  most-recent-first page names, capped by the directory
//	"theme"        the UI theme setting
//
// Every save serializes the full value and writes it immediately; there is
// no batching or debounce. Loads of absent keys return empty values, never
// errors. The stored block format keeps the legacy overloaded content
// encoding (see codec.go) so existing workspaces round-trip unchanged.
package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nota-app/nota/pkg/kv"
	"github.com/nota-app/nota/pkg/models"
)

const (
	keyPages      = "pages"
	keyFavorites  = "favorites"
	keyRecents    = "recentPages"
	keyTheme      = "theme"
	pageKeyPrefix = "page-"
)

// DefaultTheme is stored implicitly: a workspace without a theme key is
// light.
const DefaultTheme = "light"

// PageKey returns the storage key holding a page's block list.
func PageKey(name string) string { return pageKeyPrefix + name }

// Store is the typed persistence layer shared by the directory and the
// editing session.
type Store struct {
	kv kv.KV
}

// New wraps a KV backend.
func New(backend kv.KV) *Store {
	return &Store{kv: backend}
}

// LoadPages returns the stored page list, or nil when none exists yet.
func (s *Store) LoadPages(ctx context.Context) ([]models.Page, error) {
	value, ok, err := s.kv.Get(ctx, keyPages)
	if err != nil || !ok {
		return nil, err
	}
	return DecodePages(value)
}

// SavePages writes the full page list.
func (s *Store) SavePages(ctx context.Context, pages []models.Page) error {
	value, err := EncodePages(pages)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, keyPages, value)
}

// LoadBlocks returns a page's block list, or nil when the page has never
// been written.
func (s *Store) LoadBlocks(ctx context.Context, name string) ([]models.Block, error) {
	value, ok, err := s.kv.Get(ctx, PageKey(name))
	if err != nil || !ok {
		return nil, err
	}
	return DecodeBlocks(value)
}

// SaveBlocks writes a page's full block list.
func (s *Store) SaveBlocks(ctx context.Context, name string, blocks []models.Block) error {
	value, err := EncodeBlocks(blocks)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, PageKey(name), value)
}

// RemoveBlocks deletes a page's block list.
func (s *Store) RemoveBlocks(ctx context.Context, name string) error {
	return s.kv.Remove(ctx, PageKey(name))
}

// RenameBlocks migrates a block list from the old page name's key to the
// new one. A page that was never written has nothing to migrate.
func (s *Store) RenameBlocks(ctx context.Context, oldName, newName string) error {
	value, ok, err := s.kv.Get(ctx, PageKey(oldName))
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	if err := s.kv.Set(ctx, PageKey(newName), value); err != nil {
		return err
	}
	return s.kv.Remove(ctx, PageKey(oldName))
}

// LoadFavorites returns the ordered favorite page names.
func (s *Store) LoadFavorites(ctx context.Context) ([]string, error) {
	return s.loadNames(ctx, keyFavorites)
}

// SaveFavorites writes the favorite page names.
func (s *Store) SaveFavorites(ctx context.Context, names []string) error {
	return s.saveNames(ctx, keyFavorites, names)
}

// LoadRecents returns the most-recent-first page names.
func (s *Store) LoadRecents(ctx context.Context) ([]string, error) {
	return s.loadNames(ctx, keyRecents)
}

// SaveRecents writes the recent page names.
func (s *Store) SaveRecents(ctx context.Context, names []string) error {
	return s.saveNames(ctx, keyRecents, names)
}

// LoadTheme returns the stored theme, defaulting to light.
func (s *Store) LoadTheme(ctx context.Context) (string, error) {
	value, ok, err := s.kv.Get(ctx, keyTheme)
	if err != nil {
		return "", err
	}
	if !ok || value == "" {
		return DefaultTheme, nil
	}
	return value, nil
}

// SaveTheme stores the theme setting verbatim.
func (s *Store) SaveTheme(ctx context.Context, theme string) error {
	return s.kv.Set(ctx, keyTheme, theme)
}

func (s *Store) loadNames(ctx context.Context, key string) ([]string, error) {
	value, ok, err := s.kv.Get(ctx, key)
	if err != nil || !ok {
		return nil, err
	}
	var names []string
	if err := json.Unmarshal([]byte(value), &names); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return names, nil
}

func (s *Store) saveNames(ctx context.Context, key string, names []string) error {
	if names == nil {
		names = []string{}
	}
	raw, err := json.Marshal(names)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return s.kv.Set(ctx, key, string(raw))
}

// Migrate prepares the underlying backend.
func (s *Store) Migrate(ctx context.Context) error {
	return s.kv.Migrate(ctx)
}

// Close releases the underlying backend.
func (s *Store) Close() error {
	return s.kv.Close()
}
