package models

import "time"

// Page is a named container of an ordered block sequence.
//
// Name is the primary lookup key and must be unique across the directory at
// all times; storage keys and URL fragments are derived from it. ID is the
// stable identity used for parent references, which is why a rename never
// has to rewrite the tree.
type Page struct {
	ID       PageID  `json:"id"`
	Name     string  `json:"name"`
	ParentID *PageID `json:"parentId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewPage returns a page with a fresh identity and creation timestamps.
func NewPage(name string, parent *PageID) Page {
	now := time.Now().UTC()
	return Page{
		ID:        NewPageID(),
		Name:      name,
		ParentID:  parent,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
