// Package sqlite provides a SQLite-backed implementation of driven.VectorIndex.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. Each node is one row keyed by its chunk identity, with the
// embedding stored as a little-endian float32 blob. Search is a brute-force
// cosine scan, which is adequate for a personal document collection.
//
// # Schema
//
// The schema is managed through versioned migrations embedded from the
// migrations/ directory. Each NNN_name.up.sql file records its own version in
// schema_migrations.
//
// # Data Location
//
// By default, the database is stored at ~/.ragline/storage/index/nodes.db
//
// # Thread Safety
//
// All operations are thread-safe. The store relies on SQLite in WAL mode.
package sqlite
