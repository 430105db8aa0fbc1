// Package sqlite provides a SQLite-based implementation of the
// driven.SampleStore port.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation
// that requires no CGO, enabling easy cross-compilation. It persists
// experiment definitions, their ordered weighted-sample sequences and the
// divergence curves computed from them.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in
// the migrations/ directory as .up.sql files. Samples carry an explicit
// position column so the append order the diagnostic depends on survives
// the round trip.
//
// # Data Location
//
// By default, the database is stored at ~/.crp-aide/data/experiments.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking
// provided by SQLite in WAL mode.
package sqlite
