// Package kv defines the persistence contract shared by every storage
// backend: a synchronous string key-value store.
//
// The document layers above never talk to a database directly; they
// serialize into strings and hand them to a KV. That keeps the storage
// surface small enough that an in-memory map, a JSON file, SQLite, and
// PostgreSQL are all interchangeable backends, selected by configuration.
//
// # Key policies
//
//   - Get reports absence through its ok return value; a missing key is
//     never an error. Errors mean the backend itself failed.
//   - Set overwrites unconditionally; there is no compare-and-swap.
//   - Remove of a missing key is a no-op, not an error.
//   - Values are opaque strings. No backend inspects or validates them.
//   - There are no transactions; every call is an independent write.
//
// # Implementations
//
//   - [github.com/nota-app/nota/pkg/kv/memory]: a map guarded by a mutex,
//     the baseline backend and the test double.
//   - [github.com/nota-app/nota/pkg/kv/file]: one JSON file rewritten
//     atomically on every change, the local single-user backend.
//   - [github.com/nota-app/nota/pkg/kv/sqlite]: a single table in an
//     embedded SQLite database, no cgo required.
//   - [github.com/nota-app/nota/pkg/kv/postgres]: a single table managed
//     through GORM for shared deployments.
package kv

import "context"

// KV is the storage contract. All methods are safe for concurrent use.
type KV interface {
	// Get returns the value stored under key. ok is false when the key is
	// absent; absence is not an error.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set stores value under key, overwriting any previous value.
	Set(ctx context.Context, key, value string) error

	// Remove deletes key. Removing an absent key succeeds silently.
	Remove(ctx context.Context, key string) error

	// Migrate prepares backend schema. Backends without schema treat it as
	// a no-op.
	Migrate(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}
