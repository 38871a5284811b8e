package editor

import (
	"context"

	"github.com/nota-app/nota/pkg/models"
)

// SplitBlock implements the Enter behavior. The caret offset is counted in
// runes and clamped to the text bounds.
//
// A caret strictly inside the text splits it: the block keeps the left
// half, and a new block of the same type and indent carries the right
// half. A caret at either edge leaves the text alone and opens an empty
// block instead, which keeps the type only when the split block's type is
// sticky (todo, bullet, numbered) and otherwise takes the session's
// last-used type. The new block always sits immediately after the split
// block, inherits its indent, and receives focus.
func (s *Session) SplitBlock(ctx context.Context, id models.BlockID, offset int) (Result, error) {
	idx := s.indexOf(id)
	if idx < 0 {
		return Result{}, models.ErrBlockNotFound
	}
	b := s.blocks[idx]
	runes := []rune(b.Text)
	if offset < 0 {
		offset = 0
	}
	if offset > len(runes) {
		offset = len(runes)
	}

	var blocks []models.Block
	var created models.Block
	if offset > 0 && offset < len(runes) {
		b.Text = string(runes[:offset])
		b.UpdatedAt = now()
		created = s.CreateBlock(b.Type, string(runes[offset:]), b.Indent, nil)
		blocks = insertAt(replaceAt(s.blocks, idx, b), idx+1, created)
	} else {
		t := s.lastType
		if b.Type.Sticky() {
			t = b.Type
		}
		created = s.CreateBlock(t, "", b.Indent, nil)
		blocks = insertAt(s.blocks, idx+1, created)
	}
	if err := s.apply(ctx, blocks); err != nil {
		return Result{}, err
	}
	s.logOp("split").Str("block", id.String()).Int("offset", offset).Str("created", created.ID.String()).Send()
	return Result{Focus: focusOn(created.ID), Created: &created}, nil
}
