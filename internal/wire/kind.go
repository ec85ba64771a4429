package wire

import (
	"fmt"
	"strings"
)

// Kind is the value type tag carried in every record header.
type Kind uint8

const (
	KindNone Kind = iota
	KindInt
	KindDouble
	KindVector2
	KindVector3
	KindVector4
	KindString
	// KindBinary is 8-bit text without an encoding guarantee. It is
	// serialized like KindString.
	KindBinary
)

var kindNames = [...]string{
	KindNone:    "none",
	KindInt:     "int",
	KindDouble:  "double",
	KindVector2: "vector2",
	KindVector3: "vector3",
	KindVector4: "vector4",
	KindString:  "string",
	KindBinary:  "binary",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Known reports whether k is one of the tags this reader interprets.
func (k Kind) Known() bool {
	return int(k) < len(kindNames)
}

// Components is the vector width of k, 0 for non-vector kinds.
func (k Kind) Components() int {
	switch k {
	case KindVector2:
		return 2
	case KindVector3:
		return 3
	case KindVector4:
		return 4
	default:
		return 0
	}
}

// ParseKind maps a kind name as used in the catalog table to a Kind.
func ParseKind(raw string) (Kind, bool) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	for i, name := range kindNames {
		if name == raw {
			return Kind(i), true
		}
	}
	return KindNone, false
}
