package editor

import "github.com/nota-app/nota/pkg/models"

// autocompleteTriggers maps the exact strings that convert a block to the
// type they imply. Matching requires the trigger to be the block's entire
// content, so "# heading" stays plain text while "# " converts. The
// conversion clears the content, which makes every trigger one-shot.
var autocompleteTriggers = map[string]models.BlockType{
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

// MatchAutocomplete reports the block type a content string triggers, if
// any.
func MatchAutocomplete(content string) (models.BlockType, bool) {
	t, ok := autocompleteTriggers[content]
	return t, ok
}
