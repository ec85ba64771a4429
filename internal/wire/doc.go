// Package wire reads the host's inbound record stream.
//
// Ownership boundary:
// - record header layout and kind tags
// - bounds-checked payload extraction
// - record encoding for tests and outbound use
//
// Record layout (little-endian):
//
//	offset  size  field
//	0       8     identifier
//	8       1     kind tag
//	9       8     flags
//	17      4     payload length N
//	21      N     payload
//
// Decoding is a pure function of (buffer, cursor, count); it never looks
// identifiers up and never reads outside the buffer.
package wire
