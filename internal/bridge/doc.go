// Package bridge runs the per-tick pipeline: decode the host's record
// stream, resolve identifiers against the catalog, serialize one snapshot,
// and publish it into the shared memory channel.
//
// A Bridge is an explicit context object. The host shim holds the only
// instance; nothing here keeps package state.
package bridge
