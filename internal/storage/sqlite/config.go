// Package sqlite implements a SQLite-backed storage.Repository.
package sqlite

// Config holds SQLite repository configuration derived from storage.Config.
type Config struct {
	// DSN is a SQLite connection string or file path, e.g.:
	//   "file:flights.db?cache=shared&_fk=1"
	//   "flights.db" (interpreted by the driver)
	DSN string

	// Table is the target table name for inserts, e.g. "flights".
	// SQLite does not use schemas the way Postgres does; FQN values such as
	// "main.flights" are still accepted and passed through.
	Table string
}
