package bridge

// Stats is a point-in-time view of the bridge counters.
type Stats struct {
	InstanceID         string  `json:"instance_id"`
	Channel            string  `json:"channel"`
	Capacity           int     `json:"capacity"`
	Timestamp          float64 `json:"timestamp"`
	Ticks              uint64  `json:"ticks"`
	RecordsDecoded     uint64  `json:"records_decoded"`
	DecodeErrors       uint64  `json:"decode_errors"`
	Published          uint64  `json:"published"`
	Dropped            uint64  `json:"dropped"`
	KindMismatches     uint64  `json:"kind_mismatches"`
	UnknownIdentifiers uint64  `json:"unknown_identifiers"`
	DocumentBytes      int64   `json:"document_bytes"`
	Sequence           uint64  `json:"sequence"`
	Closed             bool    `json:"closed"`
}

func (b *Bridge) Stats() Stats {
	s := Stats{
		InstanceID:         b.id,
		Channel:            b.name,
		Capacity:           b.size,
		Timestamp:          b.Timestamp(),
		Ticks:              b.counter.ticks.Load(),
		RecordsDecoded:     b.counter.recordsDecoded.Load(),
		DecodeErrors:       b.counter.decodeErrors.Load(),
		Published:          b.counter.published.Load(),
		Dropped:            b.counter.dropped.Load(),
		KindMismatches:     b.counter.kindMismatches.Load(),
		UnknownIdentifiers: b.counter.unknownIDs.Load(),
		DocumentBytes:      b.counter.documentBytes.Load(),
		Closed:             b.closed.Load(),
	}
	b.mu.Lock()
	if !b.closed.Load() {
		s.Sequence = b.ch.Sequence()
	}
	b.mu.Unlock()
	return s
}

// Report satisfies observability.Source.
func (b *Bridge) Report() any { return b.Stats() }
