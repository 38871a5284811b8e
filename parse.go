package nota

import (
	"flag"
	"fmt"
)

// Parse parses command-line arguments and returns the command to execute
// plus the application configuration. Configuration resolves in layers:
// built-in defaults, then the YAML file named by -config, then NOTA_*
// environment variables, then explicitly set flags. Flag parsing stops at
// the sub-command, so all flags go before it.
func Parse(args []string) (Command, *Config, error) {
	flagSet := flag.NewFlagSet("nota", flag.ContinueOnError)

	var (
		configPath  = flagSet.String("config", "", "Path to a YAML config file")
		addr        = flagSet.String("addr", "", "HTTP listen address")
		backend     = flagSet.String("backend", "", "Storage backend: memory, file, sqlite, or postgres")
		dataPath    = flagSet.String("data", "", "Data file for the file and sqlite backends")
		postgresDSN = flagSet.String("postgres-dsn", "", "PostgreSQL connection string")
		baseURL     = flagSet.String("base-url", "", "Public origin used when building block links")
		logLevel    = flagSet.String("log-level", "", "Log level: trace, debug, info, warn, or error")
		logPath     = flagSet.String("log-path", "", "Append JSON log lines to this file instead of the console")
		toBackend   = flagSet.String("to-backend", "", "Destination backend for the copy command")
		toData      = flagSet.String("to-data", "", "Destination data file for the copy command")
		toDSN       = flagSet.String("to-postgres-dsn", "", "Destination PostgreSQL connection string for the copy command")
	)

	if err := flagSet.Parse(args); err != nil {
		return nil, nil, err
	}

	remainingArgs := flagSet.Args()
	if len(remainingArgs) == 0 {
		return nil, nil, fmt.Errorf(`subcommand required

Usage: nota [flags] <command>

Commands:
  run       Start the nota server
  migrate   Prepare the storage backend
  export    Write a workspace snapshot to a file
  import    Restore a workspace snapshot from a file
  copy      Copy the workspace into another backend

Examples:
  # Serve an in-memory workspace
  nota run

  # Persist to a single JSON file
  nota -backend file -data notes.json run

  # Persist to a database
  nota -backend sqlite -data notes.db run
  nota -backend postgres -postgres-dsn postgres://localhost/nota migrate
  nota -backend postgres -postgres-dsn postgres://localhost/nota run

  # Back up and restore
  nota -backend sqlite -data notes.db export backup.cbor
  nota -backend sqlite -data notes.db import backup.cbor

  # Move a workspace between backends
  nota -backend file -data notes.json -to-backend sqlite -to-data notes.db copy`)
	}

	config := DefaultConfig()
	if err := LoadConfigFile(config, *configPath); err != nil {
		return nil, nil, err
	}
	applyEnv(config)

	// Only flags the user actually set override the lower layers; a flag
	// left at its zero default must not blank out a file or env value.
	flagSet.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "addr":
			config.Addr = *addr
		case "backend":
			config.Backend = *backend
		case "data":
			config.DataPath = *dataPath
		case "postgres-dsn":
			config.PostgresDSN = *postgresDSN
		case "base-url":
			config.BaseURL = *baseURL
		case "log-level":
			config.LogLevel = *logLevel
		case "log-path":
			config.LogPath = *logPath
		}
	})

	var cmd Command
	switch remainingArgs[0] {
	case "run":
		cmd = &RunCommand{}
	case "migrate":
		cmd = &MigrateCommand{}
	case "export":
		if len(remainingArgs) < 2 {
			return nil, nil, fmt.Errorf("export requires a snapshot path: nota [flags] export <file>")
		}
		cmd = &ExportCommand{Path: remainingArgs[1]}
	case "import":
		if len(remainingArgs) < 2 {
			return nil, nil, fmt.Errorf("import requires a snapshot path: nota [flags] import <file>")
		}
		cmd = &ImportCommand{Path: remainingArgs[1]}
	case "copy":
		if *toBackend == "" {
			return nil, nil, fmt.Errorf("copy requires a destination: nota [flags] -to-backend <backend> copy")
		}
		cmd = &CopyCommand{Target: &Config{
			Backend:     *toBackend,
			DataPath:    *toData,
			PostgresDSN: *toDSN,
		}}
	default:
		return nil, nil, fmt.Errorf("unknown command: %s\n\nValid commands: run, migrate, export, import, copy", remainingArgs[0])
	}

	return cmd, config, nil
}
