package wire

import (
	"bytes"
	"encoding/binary"
	"math"
)

// HeaderLen is the fixed size of a record header.
const HeaderLen = 8 + 1 + 8 + 4

// Decode reads count records starting at *cursor and advances *cursor past
// each decoded record. A nil cursor starts at offset 0.
//
// On error the records decoded so far are returned together with a
// *RecordError, and *cursor points at the start of the failing record.
func Decode(buf []byte, cursor *int, count int) ([]Message, error) {
	return DecodeInto(nil, buf, cursor, count)
}

// DecodeInto is Decode appending into dst[:0], so a caller decoding every
// tick can reuse one slice.
func DecodeInto(dst []Message, buf []byte, cursor *int, count int) ([]Message, error) {
	out := dst[:0]
	var start int
	if cursor == nil {
		cursor = &start
	}
	pos := *cursor
	if pos < 0 || pos > len(buf) {
		return out, &RecordError{Index: 0, Offset: pos, Err: ErrInvalidCursor}
	}
	for i := 0; i < count; i++ {
		m, next, err := decodeRecord(buf, pos)
		if err != nil {
			*cursor = pos
			return out, &RecordError{Index: i, Offset: pos, Err: err}
		}
		out = append(out, m)
		pos = next
	}
	*cursor = pos
	return out, nil
}

func decodeRecord(buf []byte, pos int) (Message, int, error) {
	if len(buf)-pos < HeaderLen {
		return Message{}, pos, ErrTruncatedStream
	}
	h := buf[pos : pos+HeaderLen]
	m := Message{
		ID:    binary.LittleEndian.Uint64(h[0:8]),
		Kind:  Kind(h[8]),
		Flags: binary.LittleEndian.Uint64(h[9:17]),
	}
	n := binary.LittleEndian.Uint32(h[17:21])
	start := pos + HeaderLen
	if uint64(n) > uint64(len(buf)-start) {
		return Message{}, pos, ErrTruncatedStream
	}
	end := start + int(n)
	if err := decodePayload(&m, buf[start:end]); err != nil {
		return Message{}, pos, err
	}
	return m, end, nil
}

func decodePayload(m *Message, p []byte) error {
	switch m.Kind {
	case KindInt:
		if len(p) != 8 {
			return ErrPayloadSize
		}
		m.Int = int64(binary.LittleEndian.Uint64(p))
	case KindDouble, KindVector2, KindVector3, KindVector4:
		n := m.Kind.Components()
		if n == 0 {
			n = 1
		}
		if len(p) != 8*n {
			return ErrPayloadSize
		}
		for i := 0; i < n; i++ {
			m.Vec[i] = math.Float64frombits(binary.LittleEndian.Uint64(p[8*i:]))
		}
	case KindString, KindBinary:
		if i := bytes.IndexByte(p, 0); i >= 0 {
			p = p[:i]
		}
		m.Text = string(p)
	default:
		if len(p) > 0 {
			m.Raw = bytes.Clone(p)
		}
	}
	return nil
}
