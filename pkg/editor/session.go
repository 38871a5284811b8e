// Package editor implements the document editing state machine: a session
// owning the block list of exactly one open page, the mutation operations,
// and the input interpreter that turns view-layer events into operations.
//
// Every operation is synchronous and runs to completion: it mutates a copy
// of the block list, persists the full page, and only then swaps the new
// list in, so a failed write never leaves memory and storage disagreeing.
// Operations return a [Result] carrying the post-render focus hint; the
// view applies it on its own schedule.
//
// A session is not safe for concurrent use. The application serializes all
// access, which preserves the run-to-completion model the operations
// assume.
package editor

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/nota-app/nota/pkg/models"
	"github.com/nota-app/nota/pkg/store"
)

// Result reports what the view layer needs after an operation: which block
// should receive focus once the next render completes, the block the
// operation created (if any), and whether the type-chooser menu should
// open.
type Result struct {
	Focus   *models.BlockID
	Created *models.Block
	Menu    bool
}

func focusOn(id models.BlockID) *models.BlockID {
	c := id
	return &c
}

// Patch carries the optional field updates of UpdateBlock. Nil fields stay
// untouched. Type changes are not patches; they go through Retype, which
// also clears the fields the old type leaves behind.
type Patch struct {
	Text    *string
	Checked *bool
	Rows    *[][]string
	Indent  *int
}

// Session owns the in-memory block list of one open page plus the
// last-used block type, the default for new non-sticky blocks.
type Session struct {
	store  *store.Store
	logger zerolog.Logger

	page     string
	blocks   []models.Block
	lastType models.BlockType
}

// NewSession opens a session for the named page over its loaded blocks.
func NewSession(st *store.Store, logger zerolog.Logger, page string, blocks []models.Block) *Session {
	return &Session{
		store:    st,
		logger:   logger.With().Str("page", page).Logger(),
		page:     page,
		blocks:   blocks,
		lastType: models.BlockTypeText,
	}
}

// Page returns the open page's name.
func (s *Session) Page() string { return s.page }

// Blocks returns the ordered block list. Callers must treat it as
// read-only.
func (s *Session) Blocks() []models.Block { return s.blocks }

// LastType returns the type of the most recently created block.
func (s *Session) LastType() models.BlockType { return s.lastType }

// Rename repoints the session after a directory rename. The block list is
// unchanged; only the page key differs.
func (s *Session) Rename(name string) {
	s.page = name
	s.logger = s.logger.With().Str("page", name).Logger()
}

// Block returns the block with the given id.
func (s *Session) Block(id models.BlockID) (models.Block, bool) {
	idx := s.indexOf(id)
	if idx < 0 {
		return models.Block{}, false
	}
	return s.blocks[idx], true
}

func (s *Session) indexOf(id models.BlockID) int {
	for i := range s.blocks {
		if s.blocks[i].ID == id {
			return i
		}
	}
	return -1
}

// CreateBlock builds a block without inserting it and records its type as
// the session's last-used type.
func (s *Session) CreateBlock(t models.BlockType, text string, indent int, children []models.Block) models.Block {
	b := models.NewBlock(t)
	b.Text = text
	b.Indent = models.ClampIndent(indent)
	b.Children = children
	s.lastType = t
	return b
}

// InsertBlock places b into the sequence. A nil position appends; otherwise
// the block is inserted before the block currently at that index, and an
// index equal to the length appends. The new block receives focus.
func (s *Session) InsertBlock(ctx context.Context, b models.Block, position *int) (Result, error) {
	idx := len(s.blocks)
	if position != nil {
		idx = *position
		if idx < 0 {
			idx = 0
		}
		if idx > len(s.blocks) {
			idx = len(s.blocks)
		}
	}
	if err := s.apply(ctx, insertAt(s.blocks, idx, b)); err != nil {
		return Result{}, err
	}
	s.logOp("insert").Str("block", b.ID.String()).Int("position", idx).Send()
	return Result{Focus: focusOn(b.ID), Created: &b}, nil
}

// UpdateBlock merges the patch into the block with the given id and stamps
// its update time. Focus stays where it is.
func (s *Session) UpdateBlock(ctx context.Context, id models.BlockID, patch Patch) (Result, error) {
	idx := s.indexOf(id)
	if idx < 0 {
		return Result{}, models.ErrBlockNotFound
	}
	b := s.blocks[idx]
	if patch.Checked != nil && b.Type != models.BlockTypeTodo {
		return Result{}, models.NewValidationError("checked", "only todo blocks have a checkbox")
	}
	if patch.Rows != nil && b.Type != models.BlockTypeTable {
		return Result{}, models.NewValidationError("rows", "only table blocks have rows")
	}
	if patch.Text != nil {
		b.Text = *patch.Text
	}
	if patch.Checked != nil {
		b.Checked = *patch.Checked
	}
	if patch.Rows != nil {
		b.Rows = *patch.Rows
	}
	if patch.Indent != nil {
		b.Indent = models.ClampIndent(*patch.Indent)
	}
	b.UpdatedAt = now()
	blocks := replaceAt(s.blocks, idx, b)
	if err := s.apply(ctx, blocks); err != nil {
		return Result{}, err
	}
	s.logOp("update").Str("block", id.String()).Send()
	return Result{}, nil
}

// DeleteBlock removes the block. When the list stays non-empty, focus
// moves to the block now sitting at max(0, removedIndex-1).
func (s *Session) DeleteBlock(ctx context.Context, id models.BlockID) (Result, error) {
	idx := s.indexOf(id)
	if idx < 0 {
		return Result{}, models.ErrBlockNotFound
	}
	blocks := removeAt(s.blocks, idx)
	if err := s.apply(ctx, blocks); err != nil {
		return Result{}, err
	}
	s.logOp("delete").Str("block", id.String()).Send()
	if len(s.blocks) == 0 {
		return Result{}, nil
	}
	focusIdx := idx - 1
	if focusIdx < 0 {
		focusIdx = 0
	}
	return Result{Focus: focusOn(s.blocks[focusIdx].ID)}, nil
}

// DuplicateBlock clones the block under a fresh identity and inserts the
// copy immediately after the source. The copy receives focus.
func (s *Session) DuplicateBlock(ctx context.Context, id models.BlockID) (Result, error) {
	idx := s.indexOf(id)
	if idx < 0 {
		return Result{}, models.ErrBlockNotFound
	}
	src := s.blocks[idx]
	clone := src.Clone()
	clone.ID = models.NewBlockID()
	clone.CreatedAt = now()
	clone.UpdatedAt = clone.CreatedAt
	s.lastType = clone.Type
	if err := s.apply(ctx, insertAt(s.blocks, idx+1, clone)); err != nil {
		return Result{}, err
	}
	s.logOp("duplicate").Str("source", id.String()).Str("block", clone.ID.String()).Send()
	return Result{Focus: focusOn(clone.ID), Created: &clone}, nil
}

// MoveBlock removes the block from its current index and reinserts it at
// targetIndex, interpreted against the list without the moved block.
func (s *Session) MoveBlock(ctx context.Context, id models.BlockID, targetIndex int) (Result, error) {
	idx := s.indexOf(id)
	if idx < 0 {
		return Result{}, models.ErrBlockNotFound
	}
	b := s.blocks[idx]
	rest := removeAt(s.blocks, idx)
	if targetIndex < 0 {
		targetIndex = 0
	}
	if targetIndex > len(rest) {
		targetIndex = len(rest)
	}
	if err := s.apply(ctx, insertAt(rest, targetIndex, b)); err != nil {
		return Result{}, err
	}
	s.logOp("move").Str("block", id.String()).Int("to", targetIndex).Send()
	return Result{Focus: focusOn(id)}, nil
}

// MoveBlockBefore is the drag-drop form of MoveBlock: the block ends up
// immediately before beforeID, or at the end when beforeID is zero.
func (s *Session) MoveBlockBefore(ctx context.Context, id, beforeID models.BlockID) (Result, error) {
	idx := s.indexOf(id)
	if idx < 0 {
		return Result{}, models.ErrBlockNotFound
	}
	if beforeID.IsZero() {
		return s.MoveBlock(ctx, id, len(s.blocks)-1)
	}
	target := -1
	for i, b := range s.blocks {
		if b.ID == beforeID {
			target = i
			break
		}
	}
	if target < 0 {
		return Result{}, models.ErrBlockNotFound
	}
	// The target index addresses the list without the moved block.
	if idx < target {
		target--
	}
	return s.MoveBlock(ctx, id, target)
}

// Reindent shifts the block's indent by delta, clamped to the allowed
// range. A fully clamped no-change skips persistence.
func (s *Session) Reindent(ctx context.Context, id models.BlockID, delta int) (Result, error) {
	idx := s.indexOf(id)
	if idx < 0 {
		return Result{}, models.ErrBlockNotFound
	}
	b := s.blocks[idx]
	indent := models.ClampIndent(b.Indent + delta)
	if indent == b.Indent {
		return Result{Focus: focusOn(id)}, nil
	}
	b.Indent = indent
	b.UpdatedAt = now()
	if err := s.apply(ctx, replaceAt(s.blocks, idx, b)); err != nil {
		return Result{}, err
	}
	s.logOp("reindent").Str("block", id.String()).Int("indent", indent).Send()
	return Result{Focus: focusOn(id)}, nil
}

// Retype changes the block's type and keeps its text. Fields the new type
// gives no meaning to are cleared: leaving todo drops the checkbox state,
// leaving table drops the rows, leaving toggle drops the children.
func (s *Session) Retype(ctx context.Context, id models.BlockID, newType models.BlockType) (Result, error) {
	if !newType.Valid() {
		return Result{}, models.NewValidationError("type", "unknown block type")
	}
	idx := s.indexOf(id)
	if idx < 0 {
		return Result{}, models.ErrBlockNotFound
	}
	b := s.blocks[idx]
	b.Type = newType
	if newType != models.BlockTypeTodo {
		b.Checked = false
	}
	if newType != models.BlockTypeTable {
		b.Rows = nil
	}
	if newType != models.BlockTypeToggle {
		b.Children = nil
	}
	b.UpdatedAt = now()
	if err := s.apply(ctx, replaceAt(s.blocks, idx, b)); err != nil {
		return Result{}, err
	}
	s.logOp("retype").Str("block", id.String()).Str("type", string(newType)).Send()
	return Result{Focus: focusOn(id)}, nil
}

// ConvertBlock is the markdown-autocomplete transition: retype and clear
// the text in one persisted step.
func (s *Session) ConvertBlock(ctx context.Context, id models.BlockID, newType models.BlockType) (Result, error) {
	if !newType.Valid() {
		return Result{}, models.NewValidationError("type", "unknown block type")
	}
	idx := s.indexOf(id)
	if idx < 0 {
		return Result{}, models.ErrBlockNotFound
	}
	b := s.blocks[idx]
	b.Type = newType
	b.Text = ""
	b.Checked = false
	b.Rows = nil
	b.UpdatedAt = now()
	if err := s.apply(ctx, replaceAt(s.blocks, idx, b)); err != nil {
		return Result{}, err
	}
	s.logOp("convert").Str("block", id.String()).Str("type", string(newType)).Send()
	return Result{Focus: focusOn(id)}, nil
}

// ToggleCheck flips a todo block's checkbox. Toggling twice restores the
// block exactly.
func (s *Session) ToggleCheck(ctx context.Context, id models.BlockID) (Result, error) {
	idx := s.indexOf(id)
	if idx < 0 {
		return Result{}, models.ErrBlockNotFound
	}
	b := s.blocks[idx]
	if b.Type != models.BlockTypeTodo {
		return Result{}, models.NewValidationError("type", "only todo blocks have a checkbox")
	}
	b.Checked = !b.Checked
	b.UpdatedAt = now()
	if err := s.apply(ctx, replaceAt(s.blocks, idx, b)); err != nil {
		return Result{}, err
	}
	s.logOp("toggle").Str("block", id.String()).Bool("checked", b.Checked).Send()
	return Result{Focus: focusOn(id)}, nil
}

// FocusNeighbor returns the focus hint for moving to the previous or next
// block by index. Focus stays put at the edges. No mutation happens.
func (s *Session) FocusNeighbor(id models.BlockID, delta int) Result {
	idx := s.indexOf(id)
	if idx < 0 || len(s.blocks) == 0 {
		return Result{}
	}
	target := idx + delta
	if target < 0 {
		target = 0
	}
	if target > len(s.blocks)-1 {
		target = len(s.blocks) - 1
	}
	return Result{Focus: focusOn(s.blocks[target].ID)}
}

// apply persists the updated list and swaps it in only on success.
func (s *Session) apply(ctx context.Context, blocks []models.Block) error {
	if err := s.store.SaveBlocks(ctx, s.page, blocks); err != nil {
		return err
	}
	s.blocks = blocks
	return nil
}

func (s *Session) logOp(op string) *zerolog.Event {
	return s.logger.Debug().Str("op", op)
}

func now() time.Time { return time.Now().UTC() }

func insertAt(blocks []models.Block, idx int, b models.Block) []models.Block {
	out := make([]models.Block, 0, len(blocks)+1)
	out = append(out, blocks[:idx]...)
	out = append(out, b)
	out = append(out, blocks[idx:]...)
	return out
}

func removeAt(blocks []models.Block, idx int) []models.Block {
	out := make([]models.Block, 0, len(blocks)-1)
	out = append(out, blocks[:idx]...)
	out = append(out, blocks[idx+1:]...)
	return out
}

func replaceAt(blocks []models.Block, idx int, b models.Block) []models.Block {
	out := append([]models.Block(nil), blocks...)
	out[idx] = b
	return out
}
