// Package repository defines the data access contracts for the tracker.
//
// Storage is pluggable: the memory subpackage keeps everything in
// process-lifetime maps, the sqlite subpackage persists to disk. Both
// implement the same interfaces with identical semantics, so every
// caller goes through the provider without knowing which backend was
// selected at startup.
//
// # Error conventions
//
// GetByID returns (nil, nil) for an unknown id; a missing record on
// lookup is an ordinary outcome. Mutating a missing record (Update) is
// exceptional and yields a NotFoundError. Delete and Unlink are
// idempotent. Backend failures are wrapped with %w and propagate to the
// caller unmodified.
package repository
