// Package models defines the document entities shared by every layer of the
// application: typed identifiers, pages, blocks, and the domain errors.
//
// Blocks carry tagged fields (Text, Checked, Rows) instead of an overloaded
// content string; the legacy content encoding survives only at the storage
// boundary, implemented by the store package. Typed IDs wrap a UUID so a
// page id can never be passed where a block id belongs, and marshal as the
// canonical UUID string in both JSON and CBOR.
package models
