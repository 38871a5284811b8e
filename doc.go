// Package nota is the application layer of a block-based note-taking
// engine. Notes are pages; a page is an ordered sequence of typed,
// optionally indented blocks. The package wires the page directory, the
// single editing session, and the keystroke interpreter behind one HTTP
// surface: a REST API for the document and directory operations, and a
// WebSocket session for live editing.
//
// Everything below the application layer lives in pkg: the block and
// page types in [github.com/nota-app/nota/pkg/models], the string
// key-value contract and its four backends under
// [github.com/nota-app/nota/pkg/kv], the typed store and its wire codec
// in [github.com/nota-app/nota/pkg/store], the session and interpreter
// in [github.com/nota-app/nota/pkg/editor], the page directory in
// [github.com/nota-app/nota/pkg/pages], and fragment addressing in
// [github.com/nota-app/nota/pkg/nav].
//
// # Getting Started
//
// The application is a single binary with sub-commands. For detailed
// usage see [Main].
//
//	# Build and serve an in-memory workspace on :8080
//	go build ./cmd/nota
//	./nota run
//
//	# Persist to a single JSON file
//	./nota -backend file -data notes.json run
//
//	# Persist to a database
//	./nota -backend sqlite -data notes.db run
//	./nota -backend postgres -postgres-dsn $DSN migrate
//	./nota -backend postgres -postgres-dsn $DSN run
//
// # Basic Usage
//
//	# Back up and restore the workspace
//	./nota -backend sqlite -data notes.db export backup.cbor
//	./nota -backend sqlite -data notes.db import backup.cbor
//
//	# Move a workspace between backends
//	./nota -backend file -data notes.json -to-backend sqlite -to-data notes.db copy
//
// The editor model is deliberately single-writer: one page is open at a
// time, every operation runs to completion including its storage write,
// and the caller sees either the old state or the new one. [App] holds
// that invariant behind a mutex once HTTP and WebSocket handlers bring
// in concurrency.
package nota
