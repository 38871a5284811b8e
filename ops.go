package nota

import (
	"context"

	"github.com/nota-app/nota/pkg/editor"
	"github.com/nota-app/nota/pkg/models"
	"github.com/nota-app/nota/pkg/nav"
	"github.com/nota-app/nota/pkg/pages"
)

// DocumentView is the rendered shape of the open page: its record, its
// blocks, the fragment addressing it, and the focus hint of the operation
// that produced the view.
type DocumentView struct {
	Page     models.Page     `json:"page"`
	Blocks   []models.Block  `json:"blocks"`
	Fragment string          `json:"fragment"`
	Focus    *models.BlockID `json:"focus,omitempty"`
}

// BlockPatch is the API-level partial update for a block. A type change
// runs as a retype (clearing fields the old type leaves behind) before the
// remaining fields apply, so a single patch can convert and fill a block.
type BlockPatch struct {
	Text    *string           `json:"text,omitempty"`
	Type    *models.BlockType `json:"type,omitempty"`
	Checked *bool             `json:"checked,omitempty"`
	Rows    *[][]string       `json:"rows,omitempty"`
	Indent  *int              `json:"indent,omitempty"`
}

// ResolvedFragment is the answer to fragment resolution: the page record
// and, when the fragment carried one, the target block id.
type ResolvedFragment struct {
	Page  models.Page     `json:"page"`
	Block *models.BlockID `json:"blockId,omitempty"`
}

// Pages returns the page records in stored order.
func (a *App) Pages() []models.Page {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]models.Page(nil), a.directory.Pages()...)
}

// PageTree returns the pages grouped under their parents.
func (a *App) PageTree() []pages.Node {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.directory.Tree()
}

// Page returns the record for the named page.
func (a *App) Page(name string) (models.Page, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.directory.Page(name)
}

// Current returns the current page's name, or "" when none is open.
func (a *App) Current() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.directory.Current()
}

// Favorites returns the favorite page names.
func (a *App) Favorites() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.directory.Favorites()...)
}

// Recents returns the recently opened page names, most recent first.
func (a *App) Recents() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.directory.Recents()...)
}

// CreatePage creates the page and opens an editing session on it.
func (a *App) CreatePage(ctx context.Context, name string, parentID *models.PageID) (models.Page, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	page, err := a.directory.Create(ctx, name, parentID)
	if err != nil {
		return models.Page{}, err
	}
	if _, err := a.openLocked(ctx, name); err != nil {
		return models.Page{}, err
	}
	return page, nil
}

// DeletePage cascade-deletes the page and its descendants. The confirmed
// flag is the caller's answer to the confirmation step; false aborts with
// ErrConfirmationRequired. The editing session follows the current page,
// closing when no page remains.
func (a *App) DeletePage(ctx context.Context, name string, confirmed bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	err := a.directory.Delete(ctx, name, func(models.Page, int) bool { return confirmed })
	if err != nil {
		return err
	}
	current := a.directory.Current()
	switch {
	case current == "":
		a.session, a.interp = nil, nil
	case a.session == nil || a.session.Page() != current:
		if _, err := a.openLocked(ctx, current); err != nil {
			return err
		}
	}
	return nil
}

// RenamePage renames the page, migrating every stored reference. An open
// session on the old name follows to the new one.
func (a *App) RenamePage(ctx context.Context, oldName, newName string) (models.Page, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	page, err := a.directory.Rename(ctx, oldName, newName)
	if err != nil {
		return models.Page{}, err
	}
	if a.session != nil && a.session.Page() == oldName {
		a.session.Rename(newName)
	}
	return page, nil
}

// ToggleFavorite flips the page's favorite membership, reporting the new
// state.
func (a *App) ToggleFavorite(ctx context.Context, name string) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.directory.ToggleFavorite(ctx, name)
}

// OpenPage loads the page, makes it current, and swaps the editing session
// to it.
func (a *App) OpenPage(ctx context.Context, name string) (DocumentView, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.openLocked(ctx, name)
}

func (a *App) openLocked(ctx context.Context, name string) (DocumentView, error) {
	blocks, err := a.directory.Load(ctx, name)
	if err != nil {
		return DocumentView{}, err
	}
	a.session = editor.NewSession(a.store, a.logger, name, blocks)
	a.interp = editor.NewInterpreter(a.session)
	return a.viewLocked(editor.Result{}), nil
}

// Document returns the open page's view. ErrPageNotFound means no page is
// open yet.
func (a *App) Document() (DocumentView, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.session == nil {
		return DocumentView{}, models.ErrPageNotFound
	}
	return a.viewLocked(editor.Result{}), nil
}

func (a *App) viewLocked(res editor.Result) DocumentView {
	name := a.session.Page()
	page, _ := a.directory.Page(name)
	return DocumentView{
		Page:     page,
		Blocks:   a.session.Blocks(),
		Fragment: nav.Fragment{Page: name}.String(),
		Focus:    res.Focus,
	}
}

// InsertBlock adds a block to the open page. An empty type means text; a
// nil position appends.
func (a *App) InsertBlock(ctx context.Context, t models.BlockType, text string, indent int, position *int) (models.Block, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.session == nil {
		return models.Block{}, models.ErrPageNotFound
	}
	if t == "" {
		t = models.BlockTypeText
	}
	if !t.Valid() {
		return models.Block{}, models.NewValidationError("type", "unknown block type")
	}
	b := a.session.CreateBlock(t, text, indent, nil)
	res, err := a.session.InsertBlock(ctx, b, position)
	if err != nil {
		return models.Block{}, err
	}
	return *res.Created, nil
}

// UpdateBlock applies a partial update to a block of the open page and
// returns the updated block.
func (a *App) UpdateBlock(ctx context.Context, id models.BlockID, patch BlockPatch) (models.Block, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.session == nil {
		return models.Block{}, models.ErrPageNotFound
	}
	if patch.Type != nil {
		if _, err := a.session.Retype(ctx, id, *patch.Type); err != nil {
			return models.Block{}, err
		}
	}
	fields := editor.Patch{Text: patch.Text, Checked: patch.Checked, Rows: patch.Rows, Indent: patch.Indent}
	if fields != (editor.Patch{}) {
		if _, err := a.session.UpdateBlock(ctx, id, fields); err != nil {
			return models.Block{}, err
		}
	}
	b, ok := a.session.Block(id)
	if !ok {
		return models.Block{}, models.ErrBlockNotFound
	}
	return b, nil
}

// DeleteBlock removes a block from the open page; the view's focus hint
// points at the block before it.
func (a *App) DeleteBlock(ctx context.Context, id models.BlockID) (DocumentView, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.session == nil {
		return DocumentView{}, models.ErrPageNotFound
	}
	res, err := a.session.DeleteBlock(ctx, id)
	if err != nil {
		return DocumentView{}, err
	}
	return a.viewLocked(res), nil
}

// DuplicateBlock clones a block of the open page and returns the copy.
func (a *App) DuplicateBlock(ctx context.Context, id models.BlockID) (models.Block, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.session == nil {
		return models.Block{}, models.ErrPageNotFound
	}
	res, err := a.session.DuplicateBlock(ctx, id)
	if err != nil {
		return models.Block{}, err
	}
	return *res.Created, nil
}

// MoveBlock repositions a block, either before another block or to an
// absolute index. Exactly one of before and index applies; before wins.
func (a *App) MoveBlock(ctx context.Context, id models.BlockID, before *models.BlockID, index *int) (DocumentView, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.session == nil {
		return DocumentView{}, models.ErrPageNotFound
	}
	var res editor.Result
	var err error
	switch {
	case before != nil:
		res, err = a.session.MoveBlockBefore(ctx, id, *before)
	case index != nil:
		res, err = a.session.MoveBlock(ctx, id, *index)
	default:
		return DocumentView{}, models.NewValidationError("move", "either before or index is required")
	}
	if err != nil {
		return DocumentView{}, err
	}
	return a.viewLocked(res), nil
}

// SplitBlock splits a block of the open page at a caret offset.
func (a *App) SplitBlock(ctx context.Context, id models.BlockID, offset int) (DocumentView, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.session == nil {
		return DocumentView{}, models.ErrPageNotFound
	}
	res, err := a.session.SplitBlock(ctx, id, offset)
	if err != nil {
		return DocumentView{}, err
	}
	return a.viewLocked(res), nil
}

// ToggleBlock flips a todo block's checkbox and returns the block.
func (a *App) ToggleBlock(ctx context.Context, id models.BlockID) (models.Block, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.session == nil {
		return models.Block{}, models.ErrPageNotFound
	}
	if _, err := a.session.ToggleCheck(ctx, id); err != nil {
		return models.Block{}, err
	}
	b, _ := a.session.Block(id)
	return b, nil
}

// BlockLink builds the shareable absolute link to a block of the open
// page.
func (a *App) BlockLink(id models.BlockID) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.session == nil {
		return "", models.ErrPageNotFound
	}
	if _, ok := a.session.Block(id); !ok {
		return "", models.ErrBlockNotFound
	}
	return nav.BlockLink(a.config.BaseURL, a.session.Page(), id), nil
}

// HandleKey runs one keystroke through the input interpreter against the
// open page.
func (a *App) HandleKey(ctx context.Context, id models.BlockID, caret int, ev editor.KeyEvent) (DocumentView, editor.Result, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.session == nil {
		return DocumentView{}, editor.Result{}, models.ErrPageNotFound
	}
	res, err := a.interp.HandleKey(ctx, id, caret, ev)
	if err != nil {
		return DocumentView{}, editor.Result{}, err
	}
	return a.viewLocked(res), res, nil
}

// HandleInput applies a settled content change, running autocomplete.
func (a *App) HandleInput(ctx context.Context, id models.BlockID, content string) (DocumentView, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.session == nil {
		return DocumentView{}, models.ErrPageNotFound
	}
	res, err := a.interp.HandleInput(ctx, id, content)
	if err != nil {
		return DocumentView{}, err
	}
	return a.viewLocked(res), nil
}

// HandlePaste reports whether pasted text is a block link.
func (a *App) HandlePaste(text string) (nav.Fragment, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.interp == nil {
		return nav.Fragment{}, false
	}
	return a.interp.HandlePaste(text)
}

// ResolveFragment parses a fragment and resolves its page against the
// directory. An unknown page name is ErrPageNotFound and no block
// resolution happens; navigation treats that as a no-op. A block id is
// passed through as addressed; a stale id simply scrolls nowhere.
func (a *App) ResolveFragment(fragment string) (ResolvedFragment, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	f, ok := nav.ParseFragment(fragment)
	if !ok {
		return ResolvedFragment{}, models.NewValidationError("fragment", "not a page fragment")
	}
	page, ok := a.directory.Page(f.Page)
	if !ok {
		return ResolvedFragment{}, models.ErrPageNotFound
	}
	out := ResolvedFragment{Page: page}
	if !f.Block.IsZero() {
		id := f.Block
		out.Block = &id
	}
	return out, nil
}

// Theme reads the stored UI theme, defaulting to light.
func (a *App) Theme(ctx context.Context) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.store.LoadTheme(ctx)
}

// SetTheme stores the UI theme; only light and dark exist.
func (a *App) SetTheme(ctx context.Context, theme string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if theme != "light" && theme != "dark" {
		return models.NewValidationError("theme", `must be "light" or "dark"`)
	}
	return a.store.SaveTheme(ctx, theme)
}
