package wire

import (
	"encoding/binary"
	"math"
)

// AppendRecord appends the wire encoding of m to dst.
func AppendRecord(dst []byte, m Message) []byte {
	payload := payloadLen(m)
	dst = binary.LittleEndian.AppendUint64(dst, m.ID)
	dst = append(dst, byte(m.Kind))
	dst = binary.LittleEndian.AppendUint64(dst, m.Flags)
	dst = binary.LittleEndian.AppendUint32(dst, uint32(payload))
	switch m.Kind {
	case KindInt:
		dst = binary.LittleEndian.AppendUint64(dst, uint64(m.Int))
	case KindDouble:
		dst = binary.LittleEndian.AppendUint64(dst, math.Float64bits(m.Vec[0]))
	case KindVector2, KindVector3, KindVector4:
		for _, v := range m.Vector() {
			dst = binary.LittleEndian.AppendUint64(dst, math.Float64bits(v))
		}
	case KindString, KindBinary:
		dst = append(dst, m.Text...)
	default:
		dst = append(dst, m.Raw...)
	}
	return dst
}

// AppendRecords appends every message and returns the stream with its
// record count, the pair the host passes per tick.
func AppendRecords(dst []byte, msgs ...Message) ([]byte, int) {
	for _, m := range msgs {
		dst = AppendRecord(dst, m)
	}
	return dst, len(msgs)
}

func payloadLen(m Message) int {
	switch m.Kind {
	case KindInt, KindDouble:
		return 8
	case KindVector2, KindVector3, KindVector4:
		return 8 * m.Kind.Components()
	case KindString, KindBinary:
		return len(m.Text)
	default:
		return len(m.Raw)
	}
}
