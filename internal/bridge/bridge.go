package bridge

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/max8938/FinalCallATC/internal/catalog"
	"github.com/max8938/FinalCallATC/internal/config"
	"github.com/max8938/FinalCallATC/internal/logging"
	"github.com/max8938/FinalCallATC/internal/observability"
	"github.com/max8938/FinalCallATC/internal/shm"
	"github.com/max8938/FinalCallATC/internal/snapshot"
	"github.com/max8938/FinalCallATC/internal/wire"
)

var ErrClosed = errors.New("bridge: closed")

// TickResult reports what one Update did. Outbound counts are always zero;
// the bridge never sends records to the host.
type TickResult struct {
	Decoded       int
	Published     bool
	DocumentBytes int
	SentBytes     uint32
	SentCount     uint32
	// Err collects decode and publish problems. They are logged and
	// counted; the host shim does not act on them.
	Err error
}

type Option func(*options)

type options struct {
	catalog *catalog.Catalog
	channel *shm.Channel
	metrics *observability.Metrics
}

// WithCatalog replaces the embedded or configured catalog.
func WithCatalog(c *catalog.Catalog) Option {
	return func(o *options) { o.catalog = c }
}

// WithChannel publishes into ch instead of creating one. The bridge takes
// ownership and closes it.
func WithChannel(ch *shm.Channel) Option {
	return func(o *options) { o.channel = ch }
}

func WithMetrics(m *observability.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

type Bridge struct {
	id      string
	name    string
	size    int
	cfg     config.Bridge
	cat     *catalog.Catalog
	ch      *shm.Channel
	metrics *observability.Metrics
	limiter *logging.Limiter

	// tick state, owned by the Update caller
	timestamp  float64
	msgs       []wire.Message
	fields     []snapshot.Field
	doc        []byte
	mismatched map[uint64]struct{}

	tsBits  atomic.Uint64
	closed  atomic.Bool
	counter counters

	// mu guards last and the channel. Publish holds it, so a Close
	// racing an Update never unmaps the region mid write.
	mu   sync.Mutex
	last []byte
}

type counters struct {
	ticks          atomic.Uint64
	recordsDecoded atomic.Uint64
	decodeErrors   atomic.Uint64
	published      atomic.Uint64
	dropped        atomic.Uint64
	kindMismatches atomic.Uint64
	unknownIDs     atomic.Uint64
	documentBytes  atomic.Int64
}

// New builds the catalog and channel described by cfg. A channel that
// cannot be created fails with shm.ErrChannelUnavailable.
func New(cfg config.Bridge, opts ...Option) (*Bridge, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if err := config.ValidateBridge(cfg); err != nil {
		if o.channel != nil {
			_ = o.channel.Close()
		}
		return nil, err
	}

	cat := o.catalog
	if cat == nil {
		var err error
		if cfg.CatalogPath != "" {
			cat, err = catalog.LoadFile(cfg.CatalogPath)
		} else {
			cat, err = catalog.Default()
		}
		if err != nil {
			if o.channel != nil {
				_ = o.channel.Close()
			}
			return nil, fmt.Errorf("bridge catalog: %w", err)
		}
	}

	ch := o.channel
	if ch == nil {
		var err error
		if cfg.MemoryChannel {
			ch, err = shm.NewMemoryChannel(cfg.Capacity)
			if err != nil {
				err = fmt.Errorf("%w: %w", shm.ErrChannelUnavailable, err)
			}
		} else {
			ch, err = shm.Create(cfg.ChannelOptions())
		}
		if err != nil {
			return nil, err
		}
	}

	b := &Bridge{
		id:         uuid.NewString(),
		name:       ch.Name(),
		size:       ch.Capacity(),
		cfg:        cfg,
		cat:        cat,
		ch:         ch,
		metrics:    o.metrics,
		limiter:    logging.NewLimiter(cfg.LogInterval),
		msgs:       make([]wire.Message, 0, 64),
		fields:     make([]snapshot.Field, 0, 64),
		doc:        make([]byte, 0, ch.Capacity()),
		mismatched: make(map[uint64]struct{}),
	}
	logging.Infof("bridge started instance=%s channel=%s capacity=%d catalog_entries=%d",
		b.id, ch.Name(), ch.Capacity(), cat.Len())
	if ch.Legacy() {
		logging.Warnf("bridge channel %s predates this bridge; publishing without sequence trailer", ch.Name())
	}
	return b, nil
}

// Update handles one simulator frame. received holds receivedCount records;
// sent is the host's outbound buffer and is left untouched.
func (b *Bridge) Update(deltaTime float64, received []byte, receivedCount uint32, sent []byte) TickResult {
	var res TickResult
	if b.closed.Load() {
		res.Err = ErrClosed
		return res
	}
	start := time.Now()

	cursor := 0
	msgs, decodeErr := wire.DecodeInto(b.msgs, received, &cursor, int(receivedCount))
	b.msgs = msgs
	res.Decoded = len(msgs)
	if decodeErr != nil {
		b.noteDecodeError(decodeErr, receivedCount)
	}

	b.timestamp += deltaTime
	b.tsBits.Store(math.Float64bits(b.timestamp))

	var publishErr error
	if len(msgs) > 0 {
		res.Published, res.DocumentBytes, publishErr = b.publish(msgs)
	}

	b.counter.ticks.Add(1)
	b.counter.recordsDecoded.Add(uint64(len(msgs)))
	b.metrics.RecordTick(len(msgs), time.Since(start))
	res.Err = errors.Join(decodeErr, publishErr)
	return res
}

func (b *Bridge) publish(msgs []wire.Message) (bool, int, error) {
	b.fields = b.fields[:0]
	unknown := 0
	for _, m := range msgs {
		name := catalog.UnknownName
		if e, ok := b.cat.Lookup(m.ID); ok {
			name = e.Name
			if e.Kind != wire.KindNone && e.Kind != m.Kind {
				b.noteKindMismatch(e, m)
			}
		} else {
			unknown++
		}
		b.fields = append(b.fields, snapshot.Field{Name: name, Message: m})
	}
	if unknown > 0 {
		b.counter.unknownIDs.Add(uint64(unknown))
		b.metrics.RecordUnknown(unknown)
		if b.limiter.Allow("unknown") {
			logging.Debugf("bridge tick resolved %d unknown identifiers", unknown)
		}
	}

	b.doc = snapshot.AppendDocument(b.doc[:0], b.timestamp, b.fields)
	n := len(b.doc)
	b.counter.documentBytes.Store(int64(n))

	b.mu.Lock()
	if b.closed.Load() {
		b.mu.Unlock()
		return false, n, ErrClosed
	}
	if err := b.ch.Publish(b.doc); err != nil {
		b.mu.Unlock()
		b.counter.dropped.Add(1)
		b.metrics.RecordDropped("too_large", n)
		if b.limiter.Allow("publish") {
			logging.Warnf("bridge dropped snapshot: %v", err)
		}
		return false, n, err
	}
	b.last = append(b.last[:0], b.doc...)
	b.mu.Unlock()
	b.counter.published.Add(1)
	b.metrics.RecordPublished(n)
	return true, n, nil
}

func (b *Bridge) noteDecodeError(err error, want uint32) {
	b.counter.decodeErrors.Add(1)
	reason := "other"
	switch {
	case errors.Is(err, wire.ErrTruncatedStream):
		reason = "truncated"
	case errors.Is(err, wire.ErrPayloadSize):
		reason = "payload_size"
	}
	b.metrics.RecordDecodeError(reason)
	if b.limiter.Allow("decode") {
		logging.Warnf("bridge decode stopped early (want %d records): %v", want, err)
	}
}

// noteKindMismatch warns once per identifier; the value is still
// serialized by its own kind.
func (b *Bridge) noteKindMismatch(e catalog.Entry, m wire.Message) {
	b.counter.kindMismatches.Add(1)
	b.metrics.RecordKindMismatch()
	if _, seen := b.mismatched[m.ID]; seen {
		return
	}
	b.mismatched[m.ID] = struct{}{}
	logging.Warnf("bridge kind mismatch name=%s catalog=%s record=%s", e.Name, e.Kind, m.Kind)
}

// Close releases the channel. It may run concurrently with Update; an
// Update that loses the race reports ErrClosed and publishes nothing.
func (b *Bridge) Close() error {
	if !b.closed.CompareAndSwap(false, true) {
		return nil
	}
	logging.Infof("bridge stopped instance=%s published=%d dropped=%d",
		b.id, b.counter.published.Load(), b.counter.dropped.Load())
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ch.Close()
}

func (b *Bridge) InstanceID() string { return b.id }

func (b *Bridge) Catalog() *catalog.Catalog { return b.cat }

func (b *Bridge) Metrics() *observability.Metrics { return b.metrics }

func (b *Bridge) Config() config.Bridge { return b.cfg }

// Timestamp is the accumulated simulator time.
func (b *Bridge) Timestamp() float64 {
	return math.Float64frombits(b.tsBits.Load())
}

// LastDocument returns a copy of the last published snapshot, or nil.
func (b *Bridge) LastDocument() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.last) == 0 {
		return nil
	}
	return append([]byte(nil), b.last...)
}

// Ready reports whether the bridge still owns its channel.
func (b *Bridge) Ready() bool { return !b.closed.Load() }
