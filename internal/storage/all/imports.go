// Package all wires all built-in storage backends into the storage factory.
//
// This package exists purely for side effects: importing it (even as a blank
// import) causes the init functions of each concrete storage backend to run,
// which in turn register their factories and DDL bootstrappers with the
// storage package.
//
// In other words, importing this package makes the following storage kinds
// available at runtime:
//
//   - "postgres" (flightetl/internal/storage/postgres)
//   - "sqlite"   (flightetl/internal/storage/sqlite)
//
// Typical usage (in cmd/flightetl/main.go or a similar wiring layer):
//
//	import (
//	    _ "flightetl/internal/storage/all" // enable all built-in backends
//
//	    "flightetl/internal/storage"
//	)
//
//	repo, err := storage.New(ctx, storage.Config{Kind: "postgres", ...})
//	if err != nil {
//	    // handle error
//	}
//	defer repo.Close()
//
// This pattern keeps backend-specific wiring in a single, small package and
// allows the rest of the application to depend only on the storage
// abstraction rather than individual backends.
//
// Note: if you want a binary that supports only one backend, you can define
// alternative wiring packages that import only the required backend instead
// of this package.
package all

import (
	_ "flightetl/internal/storage/postgres"
	_ "flightetl/internal/storage/sqlite"
)
