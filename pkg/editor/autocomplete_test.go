package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nota-app/nota/pkg/models"
)

func TestMatchAutocomplete(t *testing.T) {
	triggers := map[string]models.BlockType{
		"# ":   models.BlockTypeHeading1,
		"## ":  models.BlockTypeHeading2,
		"### ": models.BlockTypeHeading3,
		"* ":   models.BlockTypeBullet,
		"1. ":  models.BlockTypeNumbered,
		"> ":   models.BlockTypeQuote,
		"[] ":  models.BlockTypeTodo,
		"---":  models.BlockTypeDivider,
		"``` ": models.BlockTypeCode,
	}
	for content, want := range triggers {
		got, ok := MatchAutocomplete(content)
		require.True(t, ok, "content %q", content)
		assert.Equal(t, want, got, "content %q", content)
	}
}

func TestMatchAutocompleteRequiresExactContent(t *testing.T) {
	for _, content := range []string{
		"",
		"#",
		"# heading",
		" # ",
		"#  ",
		"--- ",
		"----",
		"2. ",
		"[x] ",
	} {
		_, ok := MatchAutocomplete(content)
		assert.False(t, ok, "content %q", content)
	}
}
