package catalog

const (
	hashOffset uint64 = 14695981039346656037
	hashPrime  uint64 = 1099511628211
)

// Hash derives the stable identifier of a dotted message name.
//
// It is 64-bit FNV-1a over the UTF-8 bytes of name, with no normalization:
// "Aircraft.Altitude" and "aircraft.altitude" are different identifiers.
// The catalog table stores names only, so regenerating identifiers is a
// matter of re-running Hash over the table.
func Hash(name string) uint64 {
	h := hashOffset
	for i := 0; i < len(name); i++ {
		h ^= uint64(name[i])
		h *= hashPrime
	}
	return h
}
