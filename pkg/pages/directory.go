// Package pages implements the page directory: the record of every page
// in the workspace, the favorites and recents lists, and the notion of the
// current page. Every mutation persists through the store before the
// in-memory state changes, so a failed write never leaves the directory
// claiming something storage does not hold.
package pages

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog"

	"github.com/nota-app/nota/pkg/models"
	"github.com/nota-app/nota/pkg/store"
)

// RecentsLimit caps the recents list; the oldest entry falls off the end.
const RecentsLimit = 5

const maxPageName = 120

// ConfirmFunc decides a cascade delete. It receives the page about to die
// and how many descendant pages die with it; returning false aborts.
type ConfirmFunc func(page models.Page, descendants int) bool

// Directory holds the page records plus the favorites, recents, and
// current-page state. It is not safe for concurrent use; the application
// serializes access alongside the editing session.
type Directory struct {
	store  *store.Store
	logger zerolog.Logger

	pages     []models.Page
	favorites []string
	recents   []string
	current   string
}

// NewDirectory loads the page records and the favorites and recents lists
// from storage. No page is current until Load or Create selects one.
func NewDirectory(ctx context.Context, st *store.Store, logger zerolog.Logger) (*Directory, error) {
	pages, err := st.LoadPages(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load pages: %w", err)
	}
	favorites, err := st.LoadFavorites(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load favorites: %w", err)
	}
	recents, err := st.LoadRecents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load recents: %w", err)
	}
	return &Directory{
		store:     st,
		logger:    logger,
		pages:     pages,
		favorites: favorites,
		recents:   recents,
	}, nil
}

// Pages returns the page records in stored order.
func (d *Directory) Pages() []models.Page { return d.pages }

// Favorites returns the favorite page names in toggle order.
func (d *Directory) Favorites() []string { return d.favorites }

// Recents returns the recently opened page names, most recent first.
func (d *Directory) Recents() []string { return d.recents }

// Current returns the current page's name, or "" when none is open.
func (d *Directory) Current() string { return d.current }

// Page returns the record for the named page.
func (d *Directory) Page(name string) (models.Page, bool) {
	return d.byName(name)
}

// Create adds a page and makes it current. Names are unique across the
// whole workspace; a parent, when given, must exist. The page starts with
// one placeholder text block so the editor always has somewhere to type.
func (d *Directory) Create(ctx context.Context, name string, parentID *models.PageID) (models.Page, error) {
	if err := validateName(name); err != nil {
		return models.Page{}, err
	}
	if _, ok := d.byName(name); ok {
		return models.Page{}, models.ErrPageExists
	}
	if parentID != nil {
		if _, ok := d.byID(*parentID); !ok {
			return models.Page{}, models.ErrPageNotFound
		}
	}

	page := models.NewPage(name, parentID)
	seed := []models.Block{models.NewBlock(models.BlockTypeText)}
	if err := d.store.SaveBlocks(ctx, name, seed); err != nil {
		return models.Page{}, fmt.Errorf("failed to seed page %q: %w", name, err)
	}
	pages := append(append([]models.Page(nil), d.pages...), page)
	if err := d.store.SavePages(ctx, pages); err != nil {
		return models.Page{}, fmt.Errorf("failed to save pages: %w", err)
	}
	d.pages = pages
	d.current = name
	if err := d.touchRecent(ctx, name); err != nil {
		return models.Page{}, err
	}
	d.logger.Info().Str("page", name).Msg("page created")
	return page, nil
}

// Delete removes a page, every descendant, their block lists, and any
// favorites or recents references. The confirm callback sees the page and
// its descendant count first; declining (or a nil callback) aborts with
// ErrConfirmationRequired and no mutation. When the current page dies,
// the first remaining page becomes current, or none.
func (d *Directory) Delete(ctx context.Context, name string, confirm ConfirmFunc) error {
	page, ok := d.byName(name)
	if !ok {
		return models.ErrPageNotFound
	}
	doomed := d.subtree(page.ID)
	if confirm == nil || !confirm(page, len(doomed)-1) {
		return models.ErrConfirmationRequired
	}

	dead := make(map[string]bool, len(doomed))
	for _, p := range doomed {
		dead[p.Name] = true
	}
	for _, p := range doomed {
		if err := d.store.RemoveBlocks(ctx, p.Name); err != nil {
			return fmt.Errorf("failed to remove blocks of %q: %w", p.Name, err)
		}
	}
	remaining := make([]models.Page, 0, len(d.pages)-len(doomed))
	for _, p := range d.pages {
		if !dead[p.Name] {
			remaining = append(remaining, p)
		}
	}
	if err := d.store.SavePages(ctx, remaining); err != nil {
		return fmt.Errorf("failed to save pages: %w", err)
	}
	favorites := dropNames(d.favorites, dead)
	if len(favorites) != len(d.favorites) {
		if err := d.store.SaveFavorites(ctx, favorites); err != nil {
			return fmt.Errorf("failed to save favorites: %w", err)
		}
	}
	recents := dropNames(d.recents, dead)
	if len(recents) != len(d.recents) {
		if err := d.store.SaveRecents(ctx, recents); err != nil {
			return fmt.Errorf("failed to save recents: %w", err)
		}
	}

	d.pages = remaining
	d.favorites = favorites
	d.recents = recents
	if dead[d.current] {
		d.current = ""
		if len(remaining) > 0 {
			d.current = remaining[0].Name
		}
	}
	d.logger.Info().Str("page", name).Int("descendants", len(doomed)-1).Msg("page deleted")
	return nil
}

// Rename changes a page's name and migrates every reference: the persisted
// block list moves to the new key, favorites and recents entries update in
// place, and the current pointer follows. Renaming a page to its own name
// is a no-op.
func (d *Directory) Rename(ctx context.Context, oldName, newName string) (models.Page, error) {
	if err := validateName(newName); err != nil {
		return models.Page{}, err
	}
	page, ok := d.byName(oldName)
	if !ok {
		return models.Page{}, models.ErrPageNotFound
	}
	if newName == oldName {
		return page, nil
	}
	if _, ok := d.byName(newName); ok {
		return models.Page{}, models.ErrPageExists
	}

	pages := append([]models.Page(nil), d.pages...)
	for i := range pages {
		if pages[i].Name == oldName {
			pages[i].Name = newName
			pages[i].UpdatedAt = time.Now().UTC()
			page = pages[i]
			break
		}
	}
	if err := d.store.SavePages(ctx, pages); err != nil {
		return models.Page{}, fmt.Errorf("failed to save pages: %w", err)
	}
	if err := d.store.RenameBlocks(ctx, oldName, newName); err != nil {
		return models.Page{}, fmt.Errorf("failed to migrate blocks of %q: %w", oldName, err)
	}
	favorites := replaceName(d.favorites, oldName, newName)
	if favorites != nil {
		if err := d.store.SaveFavorites(ctx, favorites); err != nil {
			return models.Page{}, fmt.Errorf("failed to save favorites: %w", err)
		}
		d.favorites = favorites
	}
	recents := replaceName(d.recents, oldName, newName)
	if recents != nil {
		if err := d.store.SaveRecents(ctx, recents); err != nil {
			return models.Page{}, fmt.Errorf("failed to save recents: %w", err)
		}
		d.recents = recents
	}

	d.pages = pages
	if d.current == oldName {
		d.current = newName
	}
	d.logger.Info().Str("from", oldName).Str("to", newName).Msg("page renamed")
	return page, nil
}

// ToggleFavorite adds the page to favorites or removes it, reporting the
// new state.
func (d *Directory) ToggleFavorite(ctx context.Context, name string) (bool, error) {
	if _, ok := d.byName(name); !ok {
		return false, models.ErrPageNotFound
	}
	on := true
	favorites := make([]string, 0, len(d.favorites)+1)
	for _, n := range d.favorites {
		if n == name {
			on = false
			continue
		}
		favorites = append(favorites, n)
	}
	if on {
		favorites = append(favorites, name)
	}
	if err := d.store.SaveFavorites(ctx, favorites); err != nil {
		return false, fmt.Errorf("failed to save favorites: %w", err)
	}
	d.favorites = favorites
	return on, nil
}

// Load makes the page current and returns its blocks, seeding one
// placeholder text block when the stored list is empty so the editor
// always has a focus target. The page moves to the front of recents.
func (d *Directory) Load(ctx context.Context, name string) ([]models.Block, error) {
	if _, ok := d.byName(name); !ok {
		return nil, models.ErrPageNotFound
	}
	blocks, err := d.store.LoadBlocks(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to load blocks of %q: %w", name, err)
	}
	if len(blocks) == 0 {
		blocks = []models.Block{models.NewBlock(models.BlockTypeText)}
		if err := d.store.SaveBlocks(ctx, name, blocks); err != nil {
			return nil, fmt.Errorf("failed to seed page %q: %w", name, err)
		}
	}
	d.current = name
	if err := d.touchRecent(ctx, name); err != nil {
		return nil, err
	}
	return blocks, nil
}

// Node is one page with its children, the sidebar tree shape.
type Node struct {
	Page     models.Page `json:"page"`
	Children []Node      `json:"children,omitempty"`
}

// Tree groups pages under their parents, preserving stored order at every
// level. A page whose parent is missing surfaces at the root rather than
// disappearing.
func (d *Directory) Tree() []Node {
	known := make(map[models.PageID]bool, len(d.pages))
	for _, p := range d.pages {
		known[p.ID] = true
	}
	children := make(map[models.PageID][]models.Page)
	var roots []models.Page
	for _, p := range d.pages {
		if p.ParentID == nil || !known[*p.ParentID] {
			roots = append(roots, p)
			continue
		}
		children[*p.ParentID] = append(children[*p.ParentID], p)
	}
	var build func(p models.Page) Node
	build = func(p models.Page) Node {
		n := Node{Page: p}
		for _, c := range children[p.ID] {
			n.Children = append(n.Children, build(c))
		}
		return n
	}
	nodes := make([]Node, 0, len(roots))
	for _, p := range roots {
		nodes = append(nodes, build(p))
	}
	return nodes
}

// subtree returns the page and all its descendants, parents before
// children.
func (d *Directory) subtree(id models.PageID) []models.Page {
	var out []models.Page
	var walk func(models.PageID)
	walk = func(pid models.PageID) {
		for _, p := range d.pages {
			if p.ParentID != nil && *p.ParentID == pid {
				out = append(out, p)
				walk(p.ID)
			}
		}
	}
	if p, ok := d.byID(id); ok {
		out = append(out, p)
		walk(id)
	}
	return out
}

// touchRecent moves name to the front of the recents list, dropping
// duplicates and trimming to RecentsLimit.
func (d *Directory) touchRecent(ctx context.Context, name string) error {
	recents := make([]string, 0, len(d.recents)+1)
	recents = append(recents, name)
	for _, n := range d.recents {
		if n != name {
			recents = append(recents, n)
		}
	}
	if len(recents) > RecentsLimit {
		recents = recents[:RecentsLimit]
	}
	if err := d.store.SaveRecents(ctx, recents); err != nil {
		return fmt.Errorf("failed to save recents: %w", err)
	}
	d.recents = recents
	return nil
}

func (d *Directory) byName(name string) (models.Page, bool) {
	for _, p := range d.pages {
		if p.Name == name {
			return p, true
		}
	}
	return models.Page{}, false
}

func (d *Directory) byID(id models.PageID) (models.Page, bool) {
	for _, p := range d.pages {
		if p.ID == id {
			return p, true
		}
	}
	return models.Page{}, false
}

func validateName(name string) error {
	err := validation.Validate(name,
		validation.Required,
		validation.Length(1, maxPageName),
		validation.By(func(value interface{}) error {
			if strings.TrimSpace(value.(string)) == "" {
				return errors.New("must not be only whitespace")
			}
			return nil
		}),
	)
	if err != nil {
		return models.NewValidationError("name", err.Error())
	}
	return nil
}

func dropNames(names []string, dead map[string]bool) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if !dead[n] {
			out = append(out, n)
		}
	}
	return out
}

// replaceName swaps old for new in place, returning nil when nothing
// changed.
func replaceName(names []string, oldName, newName string) []string {
	changed := false
	out := append([]string(nil), names...)
	for i, n := range out {
		if n == oldName {
			out[i] = newName
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return out
}
