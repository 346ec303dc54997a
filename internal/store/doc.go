// Package store provides durable storage for sampling runs and the
// individuals they produce.
//
// Storage is SQLite with WAL mode so readers can inspect a database while
// a run is still writing. Two tables back the package: runs records the
// configuration of each sampling run, individuals records the generated
// expressions with their structural metadata and fitness.
//
// Writes are idempotent: re-inserting a run or an individual with the same
// identity is a no-op, so interrupted runs can be resumed safely.
package store
