package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nota-app/nota/pkg/models"
)

func TestFragmentString(t *testing.T) {
	f := Fragment{Page: "My Notes"}
	assert.Equal(t, "#page=My+Notes", f.String())

	id := models.NewBlockID()
	f.Block = id
	assert.Equal(t, "#page=My+Notes&block="+id.String(), f.String())
}

func TestParseFragment(t *testing.T) {
	id := models.NewBlockID()

	f, ok := ParseFragment("#page=Notes")
	require.True(t, ok)
	assert.Equal(t, "Notes", f.Page)
	assert.True(t, f.Block.IsZero())

	f, ok = ParseFragment("page=Notes&block=" + id.String())
	require.True(t, ok)
	assert.Equal(t, "Notes", f.Page)
	assert.Equal(t, id, f.Block)

	_, ok = ParseFragment("#block=" + id.String())
	assert.False(t, ok, "missing page parameter")

	_, ok = ParseFragment("#page=")
	assert.False(t, ok, "empty page name")

	_, ok = ParseFragment("#page=Notes&block=not-a-uuid")
	assert.False(t, ok, "malformed block id")
}

func TestFragmentRoundTrip(t *testing.T) {
	names := []string{"Notes", "My Notes", "A&B", "50% done", "café", "a/b"}
	for _, name := range names {
		f := Fragment{Page: name, Block: models.NewBlockID()}
		parsed, ok := ParseFragment(f.String())
		require.True(t, ok, "name %q", name)
		assert.Equal(t, f, parsed, "name %q", name)
	}
}

func TestBlockLinkRoundTrip(t *testing.T) {
	id := models.NewBlockID()
	for _, base := range []string{"http://localhost:8080", "http://localhost:8080/"} {
		link := BlockLink(base, "My Notes", id)
		f, ok := ParseBlockLink(link)
		require.True(t, ok, "base %q link %q", base, link)
		assert.Equal(t, "My Notes", f.Page)
		assert.Equal(t, id, f.Block)
	}
}

func TestParseBlockLinkRejectsNonLinks(t *testing.T) {
	id := models.NewBlockID()
	for _, text := range []string{
		"just some pasted text",
		"#page=Notes&block=" + id.String(),
		"http://localhost:8080/",
		"http://localhost:8080/#page=Notes",
		"ftp://host/#page=Notes&block=" + id.String(),
	} {
		_, ok := ParseBlockLink(text)
		assert.False(t, ok, "text %q", text)
	}
}
