package models

import "time"

// BlockType identifies the rendering and editing behavior of a block.
type BlockType string

const (
	BlockTypeText     BlockType = "text"
	BlockTypeHeading1 BlockType = "heading1"
	BlockTypeHeading2 BlockType = "heading2"
	BlockTypeHeading3 BlockType = "heading3"
	BlockTypeTodo     BlockType = "todo"
	BlockTypeBullet   BlockType = "bullet"
	BlockTypeNumbered BlockType = "numbered"
	BlockTypeToggle   BlockType = "toggle"
	BlockTypeQuote    BlockType = "quote"
	BlockTypeDivider  BlockType = "divider"
	BlockTypeCode     BlockType = "code"
	BlockTypeImage    BlockType = "image"
	BlockTypeEmbed    BlockType = "embed"
	BlockTypeTable    BlockType = "table"
)

// Valid reports whether t is a known block type.
func (t BlockType) Valid() bool {
	switch t {
	case BlockTypeText, BlockTypeHeading1, BlockTypeHeading2, BlockTypeHeading3,
		BlockTypeTodo, BlockTypeBullet, BlockTypeNumbered, BlockTypeToggle,
		BlockTypeQuote, BlockTypeDivider, BlockTypeCode, BlockTypeImage,
		BlockTypeEmbed, BlockTypeTable:
		return true
	}
	return false
}

// Sticky reports whether the type propagates to the next block created by an
// edge split. List-like types continue the list instead of falling back to
// the last-used type.
func (t BlockType) Sticky() bool {
	switch t {
	case BlockTypeTodo, BlockTypeBullet, BlockTypeNumbered:
		return true
	}
	return false
}

// MaxIndent is the deepest nesting level a block can reach.
const MaxIndent = 4

// ClampIndent forces an indent level into the allowed [0, MaxIndent] range.
func ClampIndent(indent int) int {
	if indent < 0 {
		return 0
	}
	if indent > MaxIndent {
		return MaxIndent
	}
	return indent
}

// Block is one content unit on a page.
//
// Within a page the slice order is the authoritative order. Indent is purely
// cosmetic nesting and never affects sibling relationships. Checked and Rows
// are tagged fields decoupled from the text payload; the persisted form still
// folds them into the legacy content encoding (see the store package).
type Block struct {
	ID   BlockID   `json:"id"`
	Type BlockType `json:"type"`

	// Text holds the content payload. For image and embed blocks it is the
	// source URL.
	Text string `json:"text,omitempty"`

	// Checked is meaningful for todo blocks only.
	Checked bool `json:"checked,omitempty"`

	// Rows is meaningful for table blocks only; outer slice is rows, inner
	// slice is cells.
	Rows [][]string `json:"rows,omitempty"`

	// Indent is the nesting depth in [0, MaxIndent].
	Indent int `json:"indent"`

	// Children carries the read-only nested blocks of a toggle block. They
	// are display payload, not independently editable.
	Children []Block `json:"children,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewBlock returns a block of the given type with a fresh identity and
// creation timestamps.
func NewBlock(t BlockType) Block {
	now := time.Now().UTC()
	return Block{
		ID:        NewBlockID(),
		Type:      t,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Clone returns a deep copy sharing no mutable state with the original. The
// copy keeps the same ID; callers wanting a new identity assign one
// explicitly.
func (b Block) Clone() Block {
	out := b
	if b.Rows != nil {
		out.Rows = make([][]string, len(b.Rows))
		for i, row := range b.Rows {
			out.Rows[i] = append([]string(nil), row...)
		}
	}
	if b.Children != nil {
		out.Children = make([]Block, len(b.Children))
		for i, child := range b.Children {
			out.Children[i] = child.Clone()
		}
	}
	return out
}
