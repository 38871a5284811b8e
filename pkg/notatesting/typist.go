// Package notatesting provides testing utilities for the nota
// application.
//
// The package is built around [Typist], a stateful simulated writer that
// drives the HTTP API the way a person drives the editor: it creates
// pages, types blocks of varied kinds, splits and toggles and moves them,
// marks favorites, and renames pages. Every mutation a typist performs is
// tracked, and [Typist.Verify] later re-reads the workspace through the
// API and checks the observed state is still exactly what the typist left
// behind.
//
// # Deterministic Behavior
//
// Typists use seeded random number generators: the typist index seeds the
// RNG, so operation sequences replay exactly for debugging. Page names
// carry a per-run timestamp, which keeps repeated runs against a
// persistent backend from colliding.
//
// # The Single-Session Model
//
// The editor opens one page at a time, server-wide: block operations
// always target the current page. Typists therefore take turns driving a
// scenario rather than running concurrently; interleaved typists would
// retarget each other's block operations mid-scenario. Verification may
// run at any later point, since it re-opens each page explicitly, which
// also exercises session swapping and recents tracking.
//
// # Usage
//
//	typist := notatesting.NewTypist(0, "http://localhost:8080")
//	if err := typist.RunScenario(ctx); err != nil {
//		t.Fatalf("scenario failed: %v", err)
//	}
//	if err := typist.Verify(ctx); err != nil {
//		t.Fatalf("verification failed: %v", err)
//	}
package notatesting

import (
	"context"
	"fmt"
	"math/rand"
	"time"
	"unicode/utf8"

	"github.com/nota-app/nota/pkg/client"
	"github.com/nota-app/nota/pkg/models"
)

// typePalette is the set of block kinds a typist reaches for. Weighted
// toward text the way real notes are.
var typePalette = []models.BlockType{
	models.BlockTypeText,
	models.BlockTypeText,
	models.BlockTypeTodo,
	models.BlockTypeBullet,
	models.BlockTypeNumbered,
	models.BlockTypeHeading2,
	models.BlockTypeQuote,
}

// Typist is a simulated writer. Each typist works on its own set of
// pages, named after its index, and records the exact final state of
// every page for later verification.
type Typist struct {
	Index  int
	Client *client.Client
	RNG    *rand.Rand

	// Pages lists this typist's page names in creation order, with
	// renames applied.
	Pages []string
	// Favorites lists the names this typist marked favorite.
	Favorites []string
	// Expected holds the final observed block list per page, captured at
	// the end of the scenario.
	Expected map[string][]models.Block

	stamp int64
}

// NewTypist creates a typist whose behavior is determined by its index.
func NewTypist(index int, baseURL string) *Typist {
	return &Typist{
		Index:    index,
		Client:   client.NewClient(baseURL),
		RNG:      rand.New(rand.NewSource(int64(index))),
		Expected: make(map[string][]models.Block),
		stamp:    time.Now().UnixNano(),
	}
}

// pageName builds a page name unique to this typist and run. The slash
// makes every scenario exercise nested-name routing.
func (t *Typist) pageName(n int) string {
	return fmt.Sprintf("typist-%d-%d/note %d", t.Index, t.stamp, n)
}

// RunScenario drives one complete editing session: create one to three
// pages, fill each with blocks, then edit them the way the keyboard
// would: split, toggle, duplicate, move, delete. Odd-numbered pages get
// favorited and the first page gets renamed, so directory migration runs
// in every scenario.
func (t *Typist) RunScenario(ctx context.Context) error {
	numPages := 1 + t.RNG.Intn(3)
	for i := 0; i < numPages; i++ {
		name := t.pageName(i)
		if _, err := t.Client.CreatePage(ctx, name, nil); err != nil {
			return fmt.Errorf("failed to create page %q: %w", name, err)
		}
		t.Pages = append(t.Pages, name)
		if err := t.fillPage(ctx, name); err != nil {
			return err
		}
		if i%2 == 1 {
			on, err := t.Client.ToggleFavorite(ctx, name)
			if err != nil {
				return fmt.Errorf("failed to favorite %q: %w", name, err)
			}
			if !on {
				return fmt.Errorf("favoriting %q reported off", name)
			}
			t.Favorites = append(t.Favorites, name)
		}
	}

	renamed := t.Pages[0] + " (renamed)"
	if _, err := t.Client.RenamePage(ctx, t.Pages[0], renamed); err != nil {
		return fmt.Errorf("failed to rename %q: %w", t.Pages[0], err)
	}
	t.Pages[0] = renamed

	// Capture the settled state of every page for Verify.
	for _, name := range t.Pages {
		doc, err := t.Client.OpenPage(ctx, name)
		if err != nil {
			return fmt.Errorf("failed to reopen %q: %w", name, err)
		}
		t.Expected[name] = doc.Blocks
	}
	return nil
}

// fillPage types content into the page just created (and therefore open)
// and runs one round of edits over it.
func (t *Typist) fillPage(ctx context.Context, name string) error {
	numBlocks := 2 + t.RNG.Intn(6)
	var created []models.Block
	for j := 0; j < numBlocks; j++ {
		typ := typePalette[t.RNG.Intn(len(typePalette))]
		text := fmt.Sprintf("line %d from typist %d", j, t.Index)
		block, err := t.Client.InsertBlock(ctx, typ, text, t.RNG.Intn(3), nil)
		if err != nil {
			return fmt.Errorf("failed to insert block on %q: %w", name, err)
		}
		created = append(created, *block)
	}

	// Split the first created block down the middle; any kind splits.
	first := created[0]
	offset := utf8.RuneCountInString(first.Text) / 2
	if _, err := t.Client.SplitBlock(ctx, first.ID, offset); err != nil {
		return fmt.Errorf("failed to split block on %q: %w", name, err)
	}

	// Check off every todo that was typed.
	for _, b := range created {
		if b.Type != models.BlockTypeTodo {
			continue
		}
		toggled, err := t.Client.ToggleBlock(ctx, b.ID)
		if err != nil {
			return fmt.Errorf("failed to toggle block on %q: %w", name, err)
		}
		if !toggled.Checked {
			return fmt.Errorf("toggled todo on %q still unchecked", name)
		}
	}

	// Duplicate one block and move the copy to the top.
	source := created[t.RNG.Intn(len(created))]
	dup, err := t.Client.DuplicateBlock(ctx, source.ID)
	if err != nil {
		return fmt.Errorf("failed to duplicate block on %q: %w", name, err)
	}
	index := 0
	if _, err := t.Client.MoveBlock(ctx, dup.ID, nil, &index); err != nil {
		return fmt.Errorf("failed to move block on %q: %w", name, err)
	}

	// Every new page seeds a placeholder; delete it like a person
	// backspacing over the empty first line.
	doc, err := t.Client.Document(ctx)
	if err != nil {
		return fmt.Errorf("failed to read document %q: %w", name, err)
	}
	for _, b := range doc.Blocks {
		if b.Text == "" && b.Type == models.BlockTypeText {
			if _, err := t.Client.DeleteBlock(ctx, b.ID); err != nil {
				return fmt.Errorf("failed to delete placeholder on %q: %w", name, err)
			}
			break
		}
	}
	return nil
}

// Verify re-reads everything this typist created and checks it survived:
// every page is listed, every page's blocks match the captured state
// exactly (ids, order, content, and per-kind fields), and every favorite
// is still marked. Returns the first discrepancy found.
func (t *Typist) Verify(ctx context.Context) error {
	listed, err := t.Client.ListPages(ctx)
	if err != nil {
		return fmt.Errorf("failed to list pages: %w", err)
	}
	byName := make(map[string]bool, len(listed))
	for _, p := range listed {
		byName[p.Name] = true
	}
	for _, name := range t.Pages {
		if !byName[name] {
			return fmt.Errorf("page %q missing from directory", name)
		}
	}

	for _, name := range t.Pages {
		doc, err := t.Client.OpenPage(ctx, name)
		if err != nil {
			return fmt.Errorf("failed to open %q: %w", name, err)
		}
		want := t.Expected[name]
		if len(doc.Blocks) != len(want) {
			return fmt.Errorf("page %q has %d blocks, expected %d", name, len(doc.Blocks), len(want))
		}
		for i, b := range doc.Blocks {
			w := want[i]
			if b.ID != w.ID || b.Type != w.Type || b.Text != w.Text || b.Checked != w.Checked || b.Indent != w.Indent {
				return fmt.Errorf("page %q block %d diverged: got %+v, expected %+v", name, i, b, w)
			}
		}
	}

	favorites, err := t.Client.Favorites(ctx)
	if err != nil {
		return fmt.Errorf("failed to list favorites: %w", err)
	}
	marked := make(map[string]bool, len(favorites))
	for _, name := range favorites {
		marked[name] = true
	}
	for _, name := range t.Favorites {
		if !marked[name] {
			return fmt.Errorf("favorite %q lost", name)
		}
	}
	return nil
}
