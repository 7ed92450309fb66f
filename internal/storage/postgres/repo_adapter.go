// Package postgres provides a Postgres-backed storage.Repository implementation.
// This adapter wires the Postgres backend into the storage-agnostic factory by
// registering a constructor at init time. The CLI (cmd/flightetl) and other
// callers can then obtain a Repository via storage.New(...) without importing
// this package directly.
//
// The adapter also registers a DDL bootstrapper so that callers can apply
// backend-specific DDL based only on storage.Kind, without branching on the
// backend themselves.
package postgres

import (
	"context"
	"fmt"

	"flightetl/internal/ddl"
	"flightetl/internal/finalize"
	"flightetl/internal/storage"
)

// newRepository is a test hook that points to NewRepository by default.
// Tests may replace this variable to avoid real DB connections.
var newRepository = NewRepository

// wrappedRepo implements storage.Repository by delegating to the concrete
// *postgres.Repository while providing a Close method that calls the close
// function returned by NewRepository.
type wrappedRepo struct {
	*Repository
	closeFn func()
}

// Ensure wrappedRepo satisfies storage.Repository at compile time.
var _ storage.Repository = (*wrappedRepo)(nil)

// Close implements storage.Repository.Close.
func (w *wrappedRepo) Close() {
	if w.closeFn != nil {
		w.closeFn()
	}
}

// mapType normalizes the row schema's logical types to Postgres SQL types.
func mapType(kind string) string {
	switch kind {
	case "integer":
		return "BIGINT"
	case "real":
		return "DOUBLE PRECISION"
	default:
		return "TEXT"
	}
}

// tableDef builds the destination table definition from the row schema.
// Every column is nullable; padding columns are always NULL.
func tableDef(fqn string) ddl.TableDef {
	cols := make([]ddl.ColumnDef, 0, len(finalize.Schema))
	for _, c := range finalize.Schema {
		cols = append(cols, ddl.ColumnDef{
			Name:     c.Name,
			SQLType:  mapType(c.SQLType),
			Nullable: true,
		})
	}
	return ddl.TableDef{FQN: fqn, Columns: cols}
}

// init registers the "postgres" backend with the storage factory and a DDL
// bootstrapper for storage.Kind == "postgres". This keeps the wiring in one
// place and allows callers to remain backend-agnostic.
func init() {
	storage.Register("postgres", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		r, closeFn, err := newRepository(ctx, Config{
			DSN:   cfg.DSN,
			Table: cfg.Table,
		})
		if err != nil {
			return nil, err
		}
		return &wrappedRepo{Repository: r, closeFn: closeFn}, nil
	})

	storage.RegisterDDL("postgres",
		func(ctx context.Context, repo storage.Repository, cfg storage.Config) error {
			stmt, err := ddl.BuildCreateTableSQL(tableDef(cfg.Table))
			if err != nil {
				return fmt.Errorf("render DDL: %w", err)
			}
			if err := repo.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("apply DDL: %w", err)
			}
			return nil
		})
}
