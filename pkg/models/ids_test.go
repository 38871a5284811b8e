package models

import (
	"encoding/json"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockIDRoundTrip(t *testing.T) {
	id := NewBlockID()
	require.False(t, id.IsZero())

	parsed, err := ParseBlockID(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	data, err := json.Marshal(id)
	require.NoError(t, err)
	assert.JSONEq(t, `"`+id.String()+`"`, string(data))

	var decoded BlockID
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, id, decoded)
}

func TestBlockIDCBORRoundTrip(t *testing.T) {
	id := NewBlockID()

	data, err := cbor.Marshal(id)
	require.NoError(t, err)

	var decoded BlockID
	require.NoError(t, cbor.Unmarshal(data, &decoded))
	assert.Equal(t, id, decoded)
}

func TestPageIDParseRejectsGarbage(t *testing.T) {
	_, err := ParsePageID("not-a-uuid")
	require.Error(t, err)

	var id PageID
	require.Error(t, id.UnmarshalJSON([]byte(`"also not a uuid"`)))
	assert.True(t, id.IsZero())
}

func TestIDsAreDistinctTypes(t *testing.T) {
	// Two fresh IDs never collide, and zero values stay zero.
	assert.NotEqual(t, NewBlockID(), NewBlockID())
	assert.NotEqual(t, NewPageID().String(), NewPageID().String())
	assert.True(t, BlockID{}.IsZero())
	assert.True(t, PageID{}.IsZero())
}
