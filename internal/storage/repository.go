// Package storage contains storage-agnostic contracts and the backend
// factory. Concrete backends (postgres, sqlite) register themselves at init
// time via their adapter packages; callers obtain a Repository through New
// and stay backend-agnostic from then on.
package storage

import (
	"context"
	"fmt"
	"sync"
)

// Repository is the sink finalized rows are written to.
type Repository interface {
	// CopyFrom bulk-inserts rows aligned to the columns order and returns the
	// number of rows inserted.
	CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error)

	// Truncate empties the destination table ahead of a full reload.
	Truncate(ctx context.Context) error

	// Exec runs an arbitrary SQL statement (typically DDL).
	Exec(ctx context.Context, sql string) error

	// Close releases the underlying connection resources.
	Close()
}

// Config carries the backend-independent settings needed to open a Repository.
type Config struct {
	// Kind selects the registered backend ("postgres", "sqlite").
	Kind string

	// DSN is the backend connection string.
	DSN string

	// Table is the destination table, possibly schema-qualified.
	Table string
}

// Factory constructs a Repository for one backend kind.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	factoryMu sync.RWMutex
	factories = map[string]Factory{}
)

// Register registers (or replaces) the factory for a backend kind. It is
// typically called from backend packages' init() functions.
func Register(kind string, fn Factory) {
	factoryMu.Lock()
	defer factoryMu.Unlock()
	factories[kind] = fn
}

// New opens a Repository for cfg.Kind using the registered factory.
func New(ctx context.Context, cfg Config) (Repository, error) {
	factoryMu.RLock()
	fn, ok := factories[cfg.Kind]
	factoryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("storage: no backend registered for kind %q", cfg.Kind)
	}
	return fn(ctx, cfg)
}
