// Package catalog owns the static message registry.
//
// Ownership boundary:
// - identifier derivation (Hash)
// - the embedded message table and its validation
// - identifier -> name resolution
//
// The catalog is built once and never mutated; a *Catalog is safe for
// concurrent readers.
package catalog
