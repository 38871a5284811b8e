package nota

// Command represents a discrete application operation with its specific
// configuration.
//
// The Command interface separates command parsing from execution: Parse
// turns command-line arguments into a Command plus the shared [Config],
// and Main routes the Command to the matching method on [App]. Each
// implementation carries only the options its operation needs, so adding
// an operation never touches the existing ones.
//
// Current command implementations:
//   - [RunCommand]: HTTP server startup and operation
//   - [MigrateCommand]: storage backend preparation
//   - [ExportCommand]: workspace snapshot to a file
//   - [ImportCommand]: workspace snapshot from a file
//   - [CopyCommand]: workspace copy into another backend
type Command interface {
	// Name returns the command identifier used for routing. The returned
	// name matches the CLI sub-command that produced the Command.
	Name() string
}

// RunCommand starts the HTTP server that carries the whole application:
// the REST API for pages, blocks, navigation and appearance, plus the
// WebSocket editor session.
//
// The server runs until its context is cancelled, then drains in-flight
// requests before closing the storage backend. All configuration comes
// from the shared [Config]; the struct stays empty until a run-specific
// option (TLS, connection limits) earns a field.
//
// Example usage:
//
//	nota run                                    # in-memory workspace
//	nota -backend file -data notes.json run     # single-file persistence
type RunCommand struct{}

// Name returns "run", matching the CLI sub-command.
func (c *RunCommand) Name() string {
	return "run"
}

// MigrateCommand prepares the configured storage backend: table creation
// for the database backends, file materialization for the file backend.
//
// Migration is structural only; it never moves or rewrites workspace
// data, and it is safe to run repeatedly. The memory backend needs no
// preparation, so migrate is a no-op there. The server also prepares its
// backend at startup; the command exists for deploy pipelines that
// migrate before rollout and for validating connectivity.
//
// Example usage:
//
//	nota -backend postgres -postgres-dsn $DSN migrate
type MigrateCommand struct{}

// Name returns "migrate", matching the CLI sub-command.
func (c *MigrateCommand) Name() string {
	return "migrate"
}

// ExportCommand captures the whole workspace into a CBOR snapshot file:
// every page, every block list, favorites, recents, and the theme.
//
// Snapshots are the backup and transfer format. They are versioned, so a
// future layout change fails loudly on import instead of silently
// misreading old files.
//
// Example usage:
//
//	nota -backend sqlite -data notes.db export backup.cbor
type ExportCommand struct {
	// Path is the file the snapshot is written to. An existing file is
	// overwritten.
	Path string
}

// Name returns "export", matching the CLI sub-command.
func (c *ExportCommand) Name() string {
	return "export"
}

// ImportCommand replaces the workspace with the contents of a snapshot
// file. Pages present in the backend but absent from the snapshot are
// removed, so an import is a restore, not a merge.
//
// Example usage:
//
//	nota -backend file -data notes.json import backup.cbor
type ImportCommand struct {
	// Path is the snapshot file to read.
	Path string
}

// Name returns "import", matching the CLI sub-command.
func (c *ImportCommand) Name() string {
	return "import"
}

// CopyCommand copies the workspace into another storage backend: the
// source is the shared [Config], the destination is Target. The copy
// goes through the snapshot format, so source and destination may be any
// backend pairing, including the same kind twice.
//
// The destination backend is migrated before the copy lands, which makes
// copy the one-step way to move a workspace off the file backend onto
// SQLite or PostgreSQL.
//
// Example usage:
//
//	nota -backend file -data notes.json -to-backend sqlite -to-data notes.db copy
type CopyCommand struct {
	// Target configures the destination backend. Only the storage fields
	// (Backend, DataPath, PostgresDSN) are consulted.
	Target *Config
}

// Name returns "copy", matching the CLI sub-command.
func (c *CopyCommand) Name() string {
	return "copy"
}
