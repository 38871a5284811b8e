package store

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nota-app/nota/pkg/models"
)

func seedWorkspace(t *testing.T, s *Store) (models.Page, models.Block) {
	t.Helper()
	ctx := context.Background()

	home := models.NewPage("Home", nil)
	notes := models.NewPage("Notes", &home.ID)
	require.NoError(t, s.SavePages(ctx, []models.Page{home, notes}))

	b := models.NewBlock(models.BlockTypeTodo)
	b.Text = "pack bags"
	b.Checked = true
	require.NoError(t, s.SaveBlocks(ctx, "Home", []models.Block{b}))
	require.NoError(t, s.SaveBlocks(ctx, "Notes", nil))
	require.NoError(t, s.SaveFavorites(ctx, []string{"Home"}))
	require.NoError(t, s.SaveRecents(ctx, []string{"Notes", "Home"}))
	require.NoError(t, s.SaveTheme(ctx, "dark"))
	return home, b
}

func TestSnapshotExportImport(t *testing.T) {
	ctx := context.Background()
	source := newTestStore()
	_, b := seedWorkspace(t, source)

	snap, err := source.Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, SnapshotVersion, snap.Version)
	assert.Len(t, snap.Pages, 2)
	assert.Equal(t, []string{"Home"}, snap.Favorites)
	assert.Equal(t, "dark", snap.Theme)

	// Round-trip through the CBOR encoding.
	var buf bytes.Buffer
	require.NoError(t, WriteSnapshot(&buf, snap))
	restored, err := ReadSnapshot(&buf)
	require.NoError(t, err)

	target := newTestStore()
	// Pre-existing content not covered by the snapshot must not survive.
	require.NoError(t, target.SavePages(ctx, []models.Page{models.NewPage("Stale", nil)}))
	require.NoError(t, target.SaveBlocks(ctx, "Stale", []models.Block{models.NewBlock(models.BlockTypeText)}))

	require.NoError(t, target.Import(ctx, restored))

	pages, err := target.LoadPages(ctx)
	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.Equal(t, "Home", pages[0].Name)

	blocks, err := target.LoadBlocks(ctx, "Home")
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, b.ID, blocks[0].ID)
	assert.True(t, blocks[0].Checked)

	stale, err := target.LoadBlocks(ctx, "Stale")
	require.NoError(t, err)
	assert.Nil(t, stale)

	theme, err := target.LoadTheme(ctx)
	require.NoError(t, err)
	assert.Equal(t, "dark", theme)
}

func TestReadSnapshotRejectsWrongVersion(t *testing.T) {
	snap := &Snapshot{Version: SnapshotVersion + 1}
	var buf bytes.Buffer
	require.NoError(t, WriteSnapshot(&buf, snap))

	_, err := ReadSnapshot(&buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported snapshot version")
}

func TestImportRejectsWrongVersion(t *testing.T) {
	err := newTestStore().Import(context.Background(), &Snapshot{Version: 99})
	require.Error(t, err)
}
