package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockTypeValid(t *testing.T) {
	for _, bt := range []BlockType{
		BlockTypeText, BlockTypeHeading1, BlockTypeHeading2, BlockTypeHeading3,
		BlockTypeTodo, BlockTypeBullet, BlockTypeNumbered, BlockTypeToggle,
		BlockTypeQuote, BlockTypeDivider, BlockTypeCode, BlockTypeImage,
		BlockTypeEmbed, BlockTypeTable,
	} {
		assert.True(t, bt.Valid(), "type %q should be valid", bt)
	}
	assert.False(t, BlockType("paragraph").Valid())
	assert.False(t, BlockType("").Valid())
}

func TestBlockTypeSticky(t *testing.T) {
	assert.True(t, BlockTypeTodo.Sticky())
	assert.True(t, BlockTypeBullet.Sticky())
	assert.True(t, BlockTypeNumbered.Sticky())

	assert.False(t, BlockTypeText.Sticky())
	assert.False(t, BlockTypeHeading1.Sticky())
	assert.False(t, BlockTypeQuote.Sticky())
	assert.False(t, BlockTypeToggle.Sticky())
}

func TestClampIndent(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{-3, 0},
		{-1, 0},
		{0, 0},
		{2, 2},
		{4, 4},
		{5, 4},
		{100, 4},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClampIndent(tt.in), "clamp(%d)", tt.in)
	}
}

func TestNewBlockIdentity(t *testing.T) {
	b := NewBlock(BlockTypeTodo)
	require.False(t, b.ID.IsZero())
	assert.Equal(t, BlockTypeTodo, b.Type)
	assert.False(t, b.CreatedAt.IsZero())
	assert.Equal(t, b.CreatedAt, b.UpdatedAt)

	// Identities are unique per creation.
	assert.NotEqual(t, b.ID, NewBlock(BlockTypeTodo).ID)
}

func TestBlockCloneIsDeep(t *testing.T) {
	child := NewBlock(BlockTypeText)
	child.Text = "nested"

	b := NewBlock(BlockTypeTable)
	b.Rows = [][]string{{"a", "b"}, {"c", "d"}}
	b.Children = []Block{child}

	c := b.Clone()
	require.Equal(t, b, c)

	c.Rows[0][0] = "mutated"
	c.Children[0].Text = "mutated"

	assert.Equal(t, "a", b.Rows[0][0])
	assert.Equal(t, "nested", b.Children[0].Text)
}
