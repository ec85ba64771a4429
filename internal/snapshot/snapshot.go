// Package snapshot renders one tick of decoded records as a JSON document.
package snapshot

import (
	"math"
	"strconv"
	"unicode/utf8"

	"github.com/max8938/FinalCallATC/internal/wire"
)

// Precision is the number of fractional digits of every float in a document.
const Precision = 6

// Field is a decoded record paired with its resolved name.
type Field struct {
	Name    string
	Message wire.Message
}

// Serialize renders timestamp and fields as one JSON object.
func Serialize(timestamp float64, fields []Field) []byte {
	return AppendDocument(nil, timestamp, fields)
}

// AppendDocument appends the document to dst.
//
// Fields keep arrival order and duplicate names are written as they come;
// the object may therefore repeat keys.
func AppendDocument(dst []byte, timestamp float64, fields []Field) []byte {
	dst = append(dst, `{"timestamp":`...)
	dst = appendFixed(dst, timestamp)
	for i := range fields {
		dst = append(dst, ',')
		dst = appendString(dst, fields[i].Name)
		dst = append(dst, ':')
		dst = AppendValue(dst, fields[i].Message)
	}
	return append(dst, '}')
}

// AppendValue appends the JSON encoding of one message value.
func AppendValue(dst []byte, m wire.Message) []byte {
	switch m.Kind {
	case wire.KindInt:
		return strconv.AppendInt(dst, m.Int, 10)
	case wire.KindDouble:
		return appendFixed(dst, m.Vec[0])
	case wire.KindVector2, wire.KindVector3, wire.KindVector4:
		dst = append(dst, '[')
		for i, v := range m.Vector() {
			if i > 0 {
				dst = append(dst, ',')
			}
			dst = appendFixed(dst, v)
		}
		return append(dst, ']')
	case wire.KindString, wire.KindBinary:
		return appendString(dst, m.Text)
	default:
		return append(dst, "null"...)
	}
}

// appendFixed writes v with Precision fractional digits. NaN and the
// infinities have no JSON number form and become null.
func appendFixed(dst []byte, v float64) []byte {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return append(dst, "null"...)
	}
	return strconv.AppendFloat(dst, v, 'f', Precision, 64)
}

const hexDigits = "0123456789abcdef"

// appendString writes s as a quoted JSON string. Quote and backslash get
// their short escapes, other control bytes the \u00XX form, and invalid
// UTF-8 is replaced with U+FFFD.
func appendString(dst []byte, s string) []byte {
	dst = append(dst, '"')
	start := 0
	for i := 0; i < len(s); {
		c := s[i]
		if c < utf8.RuneSelf {
			if c >= 0x20 && c != '"' && c != '\\' {
				i++
				continue
			}
			dst = append(dst, s[start:i]...)
			switch c {
			case '"', '\\':
				dst = append(dst, '\\', c)
			default:
				dst = append(dst, '\\', 'u', '0', '0', hexDigits[c>>4], hexDigits[c&0xF])
			}
			i++
			start = i
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			dst = append(dst, s[start:i]...)
			dst = append(dst, `�`...)
			i += size
			start = i
			continue
		}
		i += size
	}
	dst = append(dst, s[start:]...)
	return append(dst, '"')
}
