// Package shm owns the shared memory channel the bridge publishes into.
//
// Ownership boundary:
// - region creation and mapping (named, platform specific, or in-process)
// - the single-writer publish protocol
// - the consistent read protocol for consumers
//
// Region layout:
//
//	[0, capacity)              document area, NUL-terminated UTF-8 JSON
//	[capacity, capacity+8)     sequence (u64, odd while a write is in progress)
//	[capacity+8, capacity+12)  document length without the NUL (u32)
//	[capacity+12, capacity+16) trailer magic "AF4B"
//
// The document sits at offset 0 so readers that only know "NUL-terminated
// JSON at the start of the mapping" keep working; sequence-aware readers use
// the trailer to reject torn reads.
package shm
