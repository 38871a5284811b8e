package nota

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/nota-app/nota/pkg/editor"
	"github.com/nota-app/nota/pkg/kv"
	"github.com/nota-app/nota/pkg/kv/file"
	"github.com/nota-app/nota/pkg/kv/memory"
	"github.com/nota-app/nota/pkg/kv/postgres"
	"github.com/nota-app/nota/pkg/kv/sqlite"
	"github.com/nota-app/nota/pkg/logger"
	"github.com/nota-app/nota/pkg/pages"
	"github.com/nota-app/nota/pkg/store"
)

// Config holds the application configuration. Values resolve in layers:
// built-in defaults, then an optional YAML config file, then NOTA_*
// environment variables, then command-line flags (highest).
type Config struct {
	// Addr is the listen address of the HTTP server.
	Addr string `mapstructure:"addr"`
	// Backend selects the storage backend: memory, file, sqlite, or
	// postgres.
	Backend string `mapstructure:"backend"`
	// DataPath locates the backing file for the file and sqlite backends.
	DataPath string `mapstructure:"data_path"`
	// PostgresDSN is the connection string for the postgres backend.
	PostgresDSN string `mapstructure:"postgres_dsn"`
	// BaseURL is the public origin used when building block links.
	BaseURL string `mapstructure:"base_url"`
	// LogLevel is a zerolog level name; LogPath, when set, appends JSON
	// log lines to a file instead of the console.
	LogLevel string `mapstructure:"log_level"`
	LogPath  string `mapstructure:"log_path"`
}

// App wires the storage backend, the page directory, and at most one open
// editing session behind a single mutex. The mutex is what keeps the
// single-writer, run-to-completion model intact once HTTP handlers and the
// WebSocket session introduce OS threads: every operation locks, runs to
// completion including its storage write, and unlocks. There is no queue
// and no partial progress to observe.
type App struct {
	config *Config
	logger zerolog.Logger
	logs   *logger.LogData
	store  *store.Store

	mu        sync.Mutex
	directory *pages.Directory
	session   *editor.Session
	interp    *editor.Interpreter
}

// New builds the application: logger, storage backend, typed store, and
// the page directory loaded from it. No page is open until OpenPage or
// CreatePage selects one.
func New(ctx context.Context, config *Config) (*App, error) {
	build := logger.New().WithLevel(config.LogLevel)
	if config.LogPath != "" {
		build = build.FromPath(config.LogPath)
	} else {
		build = build.Console()
	}
	logs, err := build.Make()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	backend, err := newKV(config)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s backend: %w", config.Backend, err)
	}
	st := store.New(backend)

	// Backend preparation is idempotent, so a fresh database works
	// without a separate migrate run. The directory load below would
	// otherwise fail before the migrate command could reach it.
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("failed to prepare %s backend: %w", config.Backend, err)
	}

	directory, err := pages.NewDirectory(ctx, st, logs.Logger)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	logs.Logger.Info().Str("backend", config.Backend).Int("pages", len(directory.Pages())).Msg("workspace opened")
	return &App{
		config:    config,
		logger:    logs.Logger,
		logs:      logs,
		store:     st,
		directory: directory,
	}, nil
}

// newKV opens the KV backend the config selects.
func newKV(config *Config) (kv.KV, error) {
	switch config.Backend {
	case "", "memory":
		return memory.NewMemoryStore(), nil
	case "file":
		if config.DataPath == "" {
			return nil, fmt.Errorf("the file backend requires a data path")
		}
		return file.NewFileStore(config.DataPath)
	case "sqlite":
		if config.DataPath == "" {
			return nil, fmt.Errorf("the sqlite backend requires a data path")
		}
		return sqlite.NewSQLiteStore(config.DataPath)
	case "postgres":
		if config.PostgresDSN == "" {
			return nil, fmt.Errorf("the postgres backend requires a DSN")
		}
		return postgres.NewPostgresStore(config.PostgresDSN)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", config.Backend)
	}
}

// Close releases the storage backend and the log file, if one was opened.
func (a *App) Close() error {
	err := a.store.Close()
	if a.logs != nil && a.logs.LogFile != nil {
		if cerr := a.logs.LogFile.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// Store returns the underlying typed store (useful for testing).
func (a *App) Store() *store.Store {
	return a.store
}

// Migrate prepares the configured backend: schema creation for the
// database backends, file materialization for the file backend. Safe to
// run repeatedly.
func (a *App) Migrate(ctx context.Context, cmd *MigrateCommand) error {
	if err := a.store.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to migrate %s backend: %w", a.config.Backend, err)
	}
	a.logger.Info().Str("backend", a.config.Backend).Msg("backend migrated")
	return nil
}
