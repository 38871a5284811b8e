package nota

import (
	"context"
	"fmt"
)

// Main is the entry point for the nota application. It takes a context
// for cancellation and the command-line arguments, then executes the
// selected command. Tests call it directly without building the binary;
// the context is how both tests and the binary stop the server.
//
// # Command Line Usage
//
// All flags go before the sub-command:
//
//	# Serve an in-memory workspace on :8080
//	nota run
//
//	# Persist to a single JSON file
//	nota -backend file -data notes.json run
//
//	# Persist to SQLite or PostgreSQL
//	nota -backend sqlite -data notes.db run
//	nota -backend postgres -postgres-dsn postgres://localhost/nota run
//
//	# Snapshots and backend moves
//	nota -backend sqlite -data notes.db export backup.cbor
//	nota -backend sqlite -data notes.db import backup.cbor
//	nota -backend file -data notes.json -to-backend sqlite -to-data notes.db copy
//
// # Environment Variables
//
// Every flag has an environment form, applied between the config file
// and the flags:
//
//	NOTA_ADDR          - HTTP listen address (default :8080)
//	NOTA_BACKEND       - storage backend: memory, file, sqlite, postgres
//	NOTA_DATA_PATH     - data file for the file and sqlite backends
//	NOTA_POSTGRES_DSN  - PostgreSQL connection string
//	NOTA_BASE_URL      - public origin used when building block links
//	NOTA_LOG_LEVEL     - zerolog level name (default info)
//	NOTA_LOG_PATH      - append JSON logs to this file instead of the console
func Main(ctx context.Context, args []string) error {
	cmd, config, err := Parse(args)
	if err != nil {
		return fmt.Errorf("failed to parse configuration: %w", err)
	}

	app, err := New(ctx, config)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}
	defer app.Close()

	switch c := cmd.(type) {
	case *RunCommand:
		if err := app.Run(ctx, c); err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case *MigrateCommand:
		if err := app.Migrate(ctx, c); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	case *ExportCommand:
		if err := app.Export(ctx, c); err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
	case *ImportCommand:
		if err := app.Import(ctx, c); err != nil {
			return fmt.Errorf("import failed: %w", err)
		}
	case *CopyCommand:
		if err := app.Copy(ctx, c); err != nil {
			return fmt.Errorf("copy failed: %w", err)
		}
	default:
		return fmt.Errorf("unknown command type: %T", cmd)
	}

	return nil
}
