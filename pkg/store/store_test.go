package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nota-app/nota/pkg/kv/memory"
	"github.com/nota-app/nota/pkg/models"
)

func newTestStore() *Store {
	return New(memory.NewMemoryStore())
}

func TestPageKey(t *testing.T) {
	assert.Equal(t, "page-Home", PageKey("Home"))
	assert.Equal(t, "page-A/B", PageKey("A/B"))
}

func TestStorePagesAndBlocks(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()

	pages, err := s.LoadPages(ctx)
	require.NoError(t, err)
	assert.Nil(t, pages, "fresh store has no page list")

	home := models.NewPage("Home", nil)
	require.NoError(t, s.SavePages(ctx, []models.Page{home}))

	b := models.NewBlock(models.BlockTypeText)
	b.Text = "hello"
	require.NoError(t, s.SaveBlocks(ctx, "Home", []models.Block{b}))

	pages, err = s.LoadPages(ctx)
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, "Home", pages[0].Name)

	blocks, err := s.LoadBlocks(ctx, "Home")
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, b.ID, blocks[0].ID)
	assert.Equal(t, "hello", blocks[0].Text)

	require.NoError(t, s.RemoveBlocks(ctx, "Home"))
	blocks, err = s.LoadBlocks(ctx, "Home")
	require.NoError(t, err)
	assert.Nil(t, blocks)
}

func TestStoreRenameBlocksMigratesKey(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()

	b := models.NewBlock(models.BlockTypeText)
	b.Text = "content"
	require.NoError(t, s.SaveBlocks(ctx, "Old", []models.Block{b}))

	require.NoError(t, s.RenameBlocks(ctx, "Old", "New"))

	gone, err := s.LoadBlocks(ctx, "Old")
	require.NoError(t, err)
	assert.Nil(t, gone, "old key must be removed")

	moved, err := s.LoadBlocks(ctx, "New")
	require.NoError(t, err)
	require.Len(t, moved, 1)
	assert.Equal(t, b.ID, moved[0].ID)

	// Renaming a page that was never written is fine.
	require.NoError(t, s.RenameBlocks(ctx, "Ghost", "Whatever"))
}

func TestStoreFavoritesAndRecents(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()

	favorites, err := s.LoadFavorites(ctx)
	require.NoError(t, err)
	assert.Nil(t, favorites)

	require.NoError(t, s.SaveFavorites(ctx, []string{"Home", "Inbox"}))
	favorites, err = s.LoadFavorites(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Home", "Inbox"}, favorites)

	require.NoError(t, s.SaveRecents(ctx, nil))
	recents, err := s.LoadRecents(ctx)
	require.NoError(t, err)
	assert.Empty(t, recents)
}

func TestStoreThemeDefault(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()

	theme, err := s.LoadTheme(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultTheme, theme)

	require.NoError(t, s.SaveTheme(ctx, "dark"))
	theme, err = s.LoadTheme(ctx)
	require.NoError(t, err)
	assert.Equal(t, "dark", theme)
}
