package editor

import (
	"context"

	"github.com/nota-app/nota/pkg/models"
	"github.com/nota-app/nota/pkg/nav"
)

// Interpreter turns view-layer input events into session operations. It
// holds no state of its own beyond the keymap; everything durable lives in
// the session.
type Interpreter struct {
	session *Session
	keymap  Keymap
}

// NewInterpreter wraps a session with the default keymap.
func NewInterpreter(s *Session) *Interpreter {
	return &Interpreter{session: s, keymap: DefaultKeymap()}
}

// Session returns the wrapped session.
func (it *Interpreter) Session() *Session { return it.session }

// HandleKey resolves one keystroke against the keymap and applies the
// resulting command. Unbound keys do nothing and return an empty result;
// they are ordinary typing, which reaches the model through HandleInput
// once the content settles.
func (it *Interpreter) HandleKey(ctx context.Context, id models.BlockID, caret int, ev KeyEvent) (Result, error) {
	b, ok := it.session.Block(id)
	if !ok {
		return Result{}, models.ErrBlockNotFound
	}
	switch it.keymap.Resolve(ev, b) {
	case CommandSplit:
		return it.session.SplitBlock(ctx, id, caret)
	case CommandIndent:
		return it.session.Reindent(ctx, id, 1)
	case CommandOutdent:
		return it.session.Reindent(ctx, id, -1)
	case CommandDeleteEmpty:
		return it.session.DeleteBlock(ctx, id)
	case CommandFocusPrev:
		return it.session.FocusNeighbor(id, -1), nil
	case CommandFocusNext:
		return it.session.FocusNeighbor(id, 1), nil
	case CommandDuplicate:
		return it.session.DuplicateBlock(ctx, id)
	case CommandOpenMenu:
		return Result{Menu: true}, nil
	}
	return Result{}, nil
}

// HandleInput applies a settled content change. A content string that
// exactly matches an autocomplete trigger converts the block instead of
// updating its text.
func (it *Interpreter) HandleInput(ctx context.Context, id models.BlockID, content string) (Result, error) {
	if t, ok := MatchAutocomplete(content); ok {
		return it.session.ConvertBlock(ctx, id, t)
	}
	return it.session.UpdateBlock(ctx, id, Patch{Text: &content})
}

// HandleToggle flips a todo block's checkbox.
func (it *Interpreter) HandleToggle(ctx context.Context, id models.BlockID) (Result, error) {
	return it.session.ToggleCheck(ctx, id)
}

// HandlePaste inspects pasted text for a block link. On a match the view
// should render a named link to the target instead of inserting the raw
// text; otherwise the paste is plain text and the model hears about it
// through the ordinary content-change path.
func (it *Interpreter) HandlePaste(text string) (nav.Fragment, bool) {
	return nav.ParseBlockLink(text)
}
