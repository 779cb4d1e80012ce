// Package dataset defines the row and snapshot value types shared by
// the snapshot provider and the sync engine.
//
// A Snapshot is an immutable capture of authoritative rows keyed by a
// natural-key column. Validation happens once at the boundary (the key
// column must exist); the sync algorithms never re-validate shape.
package dataset
