package editor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nota-app/nota/pkg/models"
)

func TestSplitBlockMidText(t *testing.T) {
	ctx := context.Background()
	b := models.NewBlock(models.BlockTypeHeading2)
	b.Text = "hello"
	b.Indent = 2
	s, st := newTestSession(t, b)

	res, err := s.SplitBlock(ctx, b.ID, 2)
	require.NoError(t, err)

	require.Len(t, s.Blocks(), 2)
	left, right := s.Blocks()[0], s.Blocks()[1]
	assert.Equal(t, "he", left.Text)
	assert.Equal(t, "llo", right.Text)
	assert.Equal(t, models.BlockTypeHeading2, right.Type, "mid split keeps the type")
	assert.Equal(t, 2, right.Indent, "mid split keeps the indent")
	require.NotNil(t, res.Focus)
	assert.Equal(t, right.ID, *res.Focus)
	requirePersisted(t, s, st)
}

func TestSplitBlockConcatenationLaw(t *testing.T) {
	ctx := context.Background()
	const text = "hello world"
	for offset := 1; offset < len(text); offset++ {
		b := textBlock(text)
		s, _ := newTestSession(t, b)
		_, err := s.SplitBlock(ctx, b.ID, offset)
		require.NoError(t, err)
		assert.Equal(t, text, s.Blocks()[0].Text+s.Blocks()[1].Text, "offset %d", offset)
	}
}

func TestSplitBlockAtEndKeepsStickyType(t *testing.T) {
	ctx := context.Background()
	b := todoBlock("buy milk", true)
	b.Indent = 1
	s, _ := newTestSession(t, b)

	res, err := s.SplitBlock(ctx, b.ID, len([]rune(b.Text)))
	require.NoError(t, err)

	require.Len(t, s.Blocks(), 2)
	assert.Equal(t, "buy milk", s.Blocks()[0].Text, "edge split leaves the text alone")
	created := s.Blocks()[1]
	assert.Equal(t, models.BlockTypeTodo, created.Type, "sticky type carries over")
	assert.Empty(t, created.Text)
	assert.False(t, created.Checked, "the new todo starts unchecked")
	assert.Equal(t, 1, created.Indent, "edge split inherits the indent")
	require.NotNil(t, res.Focus)
	assert.Equal(t, created.ID, *res.Focus)
}

func TestSplitBlockAtEdgeUsesLastType(t *testing.T) {
	ctx := context.Background()
	b := models.NewBlock(models.BlockTypeHeading1)
	b.Text = "Title"
	s, _ := newTestSession(t, b)

	_, err := s.SplitBlock(ctx, b.ID, 0)
	require.NoError(t, err)
	require.Len(t, s.Blocks(), 2)
	assert.Equal(t, "Title", s.Blocks()[0].Text, "caret at start still opens the new block after")
	assert.Equal(t, models.BlockTypeText, s.Blocks()[1].Type, "non-sticky falls back to the last-used type")

	s.CreateBlock(models.BlockTypeQuote, "", 0, nil)
	_, err = s.SplitBlock(ctx, b.ID, len([]rune("Title")))
	require.NoError(t, err)
	assert.Equal(t, models.BlockTypeQuote, s.Blocks()[1].Type)
}

func TestSplitBlockUnicode(t *testing.T) {
	ctx := context.Background()
	b := textBlock("héllo")
	s, _ := newTestSession(t, b)

	_, err := s.SplitBlock(ctx, b.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, "hé", s.Blocks()[0].Text, "offsets count runes, not bytes")
	assert.Equal(t, "llo", s.Blocks()[1].Text)
}

func TestSplitBlockClampsOffset(t *testing.T) {
	ctx := context.Background()
	b := textBlock("abc")
	s, _ := newTestSession(t, b)

	_, err := s.SplitBlock(ctx, b.ID, 99)
	require.NoError(t, err)
	require.Len(t, s.Blocks(), 2)
	assert.Equal(t, "abc", s.Blocks()[0].Text, "an oversized offset is an end-of-text split")
	assert.Empty(t, s.Blocks()[1].Text)
}

func TestSplitBlockMissing(t *testing.T) {
	s, _ := newTestSession(t, textBlock("a"))
	_, err := s.SplitBlock(context.Background(), models.NewBlockID(), 0)
	assert.ErrorIs(t, err, models.ErrBlockNotFound)
}
