package wire

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func mixedStream() ([]byte, []Message) {
	msgs := []Message{
		IntMessage(1, -42),
		DoubleMessage(2, 123.456789),
		Vector2Message(3, 0.5, -0.25),
		Vector3Message(4, 1, 2, 3),
		Vector4Message(5, 1, 0, 0, 1),
		StringMessage(6, "D-EFGH"),
		{ID: 7, Kind: KindBinary, Text: "raw8"},
		{ID: 8, Kind: KindNone, Flags: 3, Raw: []byte{0xAA, 0xBB}},
	}
	buf, _ := AppendRecords(nil, msgs...)
	return buf, msgs
}

func TestDecodeMixedStream(t *testing.T) {
	buf, want := mixedStream()
	cursor := 0
	got, err := Decode(buf, &cursor, len(want))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("decoded messages mismatch (-want +got):\n%s", diff)
	}
	if cursor != len(buf) {
		t.Fatalf("cursor not at end: %d of %d", cursor, len(buf))
	}
}

func TestDecodeStartsAtCursor(t *testing.T) {
	prefix := []byte{0xFF, 0xFF, 0xFF}
	buf := AppendRecord(append([]byte(nil), prefix...), DoubleMessage(9, 1.5))
	buf = AppendRecord(buf, DoubleMessage(10, 2.5))

	cursor := len(prefix)
	got, err := Decode(buf, &cursor, 1)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 || got[0].ID != 9 || got[0].Double() != 1.5 {
		t.Fatalf("unexpected first record: %+v", got)
	}
	got, err = Decode(buf, &cursor, 1)
	if err != nil {
		t.Fatalf("decode second: %v", err)
	}
	if got[0].ID != 10 || cursor != len(buf) {
		t.Fatalf("unexpected second record: %+v cursor=%d", got, cursor)
	}
}

func TestDecodeTruncatedPayloadKeepsDecodedRecords(t *testing.T) {
	buf, want := mixedStream()
	third := len(AppendRecord(AppendRecord(nil, want[0]), want[1]))
	cut := buf[:third+HeaderLen+3]

	cursor := 0
	got, err := Decode(cut, &cursor, len(want))
	if !errors.Is(err, ErrTruncatedStream) {
		t.Fatalf("expected ErrTruncatedStream, got %v", err)
	}
	var recErr *RecordError
	if !errors.As(err, &recErr) || recErr.Index != 2 || recErr.Offset != third {
		t.Fatalf("unexpected record error: %#v", err)
	}
	if diff := cmp.Diff(want[:2], got); diff != "" {
		t.Fatalf("partial result mismatch (-want +got):\n%s", diff)
	}
	if cursor != third {
		t.Fatalf("cursor must stop at failing record: %d want %d", cursor, third)
	}
}

func TestDecodeTruncatedHeader(t *testing.T) {
	buf := AppendRecord(nil, IntMessage(1, 1))
	buf = append(buf, 1, 2, 3)
	got, err := Decode(buf, nil, 2)
	if !errors.Is(err, ErrTruncatedStream) {
		t.Fatalf("expected ErrTruncatedStream, got %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 decoded record, got %d", len(got))
	}
}

func TestDecodeHugeLengthDoesNotOverflow(t *testing.T) {
	buf := AppendRecord(nil, StringMessage(1, "x"))
	binary.LittleEndian.PutUint32(buf[17:21], math.MaxUint32)
	if _, err := Decode(buf, nil, 1); !errors.Is(err, ErrTruncatedStream) {
		t.Fatalf("expected ErrTruncatedStream, got %v", err)
	}
}

func TestDecodePayloadSizeMismatch(t *testing.T) {
	buf := AppendRecord(nil, StringMessage(1, "abcd"))
	buf[8] = byte(KindDouble)
	if _, err := Decode(buf, nil, 1); !errors.Is(err, ErrPayloadSize) {
		t.Fatalf("expected ErrPayloadSize, got %v", err)
	}
	buf[8] = byte(KindVector3)
	if _, err := Decode(buf, nil, 1); !errors.Is(err, ErrPayloadSize) {
		t.Fatalf("expected ErrPayloadSize for vector, got %v", err)
	}
}

func TestDecodeStringStopsAtNUL(t *testing.T) {
	buf := AppendRecord(nil, StringMessage(1, "EDDM\x00\x00garbage"))
	got, err := Decode(buf, nil, 1)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got[0].Text != "EDDM" {
		t.Fatalf("unexpected text: %q", got[0].Text)
	}
}

func TestDecodeUnknownKindKeepsCopyOfPayload(t *testing.T) {
	buf := AppendRecord(nil, Message{ID: 1, Kind: Kind(42), Raw: []byte{1, 2, 3}})
	got, err := Decode(buf, nil, 1)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got[0].Kind.Known() {
		t.Fatalf("kind 42 must be unknown")
	}
	buf[HeaderLen] = 9
	if got[0].Raw[0] != 1 {
		t.Fatalf("raw payload must not alias the input buffer")
	}
}

func TestDecodeZeroCountAndBadCursor(t *testing.T) {
	got, err := Decode(nil, nil, 0)
	if err != nil || len(got) != 0 {
		t.Fatalf("expected empty result, got %v %v", got, err)
	}
	cursor := 5
	if _, err := Decode([]byte{1}, &cursor, 1); !errors.Is(err, ErrInvalidCursor) {
		t.Fatalf("expected ErrInvalidCursor, got %v", err)
	}
}

func TestDecodeIntoReusesSlice(t *testing.T) {
	buf, want := mixedStream()
	dst := make([]Message, 0, 16)
	got, err := DecodeInto(dst, buf, nil, len(want))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if &got[0] != &dst[:1][0] {
		t.Fatalf("expected DecodeInto to reuse dst backing array")
	}
}

func TestKindNames(t *testing.T) {
	for k := KindNone; k <= KindBinary; k++ {
		parsed, ok := ParseKind(k.String())
		if !ok || parsed != k {
			t.Fatalf("ParseKind(%q) = %v,%v", k.String(), parsed, ok)
		}
	}
	if Kind(99).String() != "kind(99)" {
		t.Fatalf("unexpected unknown kind name: %s", Kind(99))
	}
}
