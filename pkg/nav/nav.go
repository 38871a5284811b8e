// Package nav implements the address forms the app navigates by: the hash
// fragment naming the open page and optionally one block inside it, and
// the absolute block-link URL the editor recognizes on paste.
//
// Fragments are deliberately the only routing state. They survive copy and
// paste, bookmark cleanly, and need no server-side route table: the single
// page app reads the fragment on load and after every hashchange.
package nav

import (
	"net/url"
	"strings"

	"github.com/nota-app/nota/pkg/models"
)

// Fragment addresses a page and optionally one block inside it. It is the
// part of the URL after "#".
type Fragment struct {
	Page  string
	Block models.BlockID
}

// String renders the fragment including the leading "#". The page name is
// query-encoded; the block parameter appears only when set.
func (f Fragment) String() string {
	s := "#page=" + url.QueryEscape(f.Page)
	if !f.Block.IsZero() {
		s += "&block=" + f.Block.String()
	}
	return s
}

// ParseFragment parses a fragment with or without the leading "#". It
// reports false when the page parameter is missing or empty, or when the
// block parameter is present but not a valid id.
func ParseFragment(s string) (Fragment, bool) {
	s = strings.TrimPrefix(s, "#")
	values, err := url.ParseQuery(s)
	if err != nil {
		return Fragment{}, false
	}
	f := Fragment{Page: values.Get("page")}
	if f.Page == "" {
		return Fragment{}, false
	}
	if raw := values.Get("block"); raw != "" {
		id, err := models.ParseBlockID(raw)
		if err != nil {
			return Fragment{}, false
		}
		f.Block = id
	}
	return f, true
}

// BlockLink renders the absolute link to one block, the form a paste is
// matched against.
func BlockLink(base string, page string, block models.BlockID) string {
	return strings.TrimRight(base, "/") + "/" + Fragment{Page: page, Block: block}.String()
}

// ParseBlockLink reports whether text is a block link: an absolute http or
// https URL whose fragment names both a page and a block. A fragment
// without a block is an ordinary page link and does not match, nor does
// anything that is not a URL.
func ParseBlockLink(text string) (Fragment, bool) {
	u, err := url.Parse(strings.TrimSpace(text))
	if err != nil {
		return Fragment{}, false
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return Fragment{}, false
	}
	f, ok := ParseFragment(u.EscapedFragment())
	if !ok || f.Block.IsZero() {
		return Fragment{}, false
	}
	return f, true
}
