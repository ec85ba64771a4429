package wire

import (
	"errors"
	"fmt"
)

var (
	// ErrTruncatedStream means a record header or payload extends past the
	// end of the buffer.
	ErrTruncatedStream = errors.New("wire: truncated stream")

	// ErrPayloadSize means a fixed-size kind declared the wrong payload length.
	ErrPayloadSize = errors.New("wire: payload size does not match kind")

	ErrInvalidCursor = errors.New("wire: cursor outside buffer")
)

// RecordError locates a decode failure in the stream.
type RecordError struct {
	Index  int
	Offset int
	Err    error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("wire: record %d at offset %d: %v", e.Index, e.Offset, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}
