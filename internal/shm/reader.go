package shm

import (
	"context"
	"fmt"
	"math/rand"
	"sync/atomic"
	"time"
)

// DefaultReadAttempts bounds how often Read retries a document that keeps
// changing underneath it.
const DefaultReadAttempts = 8

// Reader copies consistent documents out of a channel written by another
// process.
type Reader struct {
	region   Region
	doc      []byte
	tr       trailer
	backoff  BackoffConfig
	attempts int
	rng      *rand.Rand
	sleep    func(context.Context, time.Duration) error
}

// ReaderOption adjusts a Reader.
type ReaderOption func(*Reader)

// WithBackoff replaces the retry delay schedule.
func WithBackoff(cfg BackoffConfig) ReaderOption {
	return func(r *Reader) { r.backoff = cfg }
}

// WithAttempts sets the retry bound; values below one mean a single try.
func WithAttempts(n int) ReaderOption {
	return func(r *Reader) {
		if n < 1 {
			n = 1
		}
		r.attempts = n
	}
}

// OpenReader maps an existing channel for reading.
func OpenReader(opts Options, ro ...ReaderOption) (*Reader, error) {
	opts = opts.withDefaults()
	if !validCapacity(opts.Capacity) {
		return nil, fmt.Errorf("%w: %w: %d", ErrChannelUnavailable, ErrInvalidCapacity, opts.Capacity)
	}
	region, err := openRegion(opts, RegionSize(opts.Capacity))
	if err != nil {
		return nil, fmt.Errorf("%w: open %q: %w", ErrChannelUnavailable, opts.Name, err)
	}
	r, err := NewReader(region, opts.Capacity, ro...)
	if err != nil {
		_ = region.Close()
		return nil, err
	}
	return r, nil
}

// NewReader reads from region without clearing it. The region must carry
// the trailer magic written by NewChannel.
func NewReader(region Region, capacity int, ro ...ReaderOption) (*Reader, error) {
	b := region.Bytes()
	tr, err := bindTrailer(b, capacity)
	if err != nil {
		return nil, err
	}
	if atomic.LoadUint32(tr.magic) != trailerMagic {
		return nil, ErrBadTrailer
	}
	r := &Reader{
		region:   region,
		doc:      b[:capacity:capacity],
		tr:       tr,
		backoff:  DefaultBackoff(),
		attempts: DefaultReadAttempts,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		sleep:    sleepContext,
	}
	for _, opt := range ro {
		opt(r)
	}
	return r, nil
}

// Read appends the current document to dst[:0] and returns it with the
// sequence it was published under.
func (r *Reader) Read(ctx context.Context, dst []byte) ([]byte, uint64, error) {
	for attempt := 1; ; attempt++ {
		out, seq, ok := r.tryRead(dst)
		if ok {
			if seq == 0 {
				return out[:0], 0, ErrNoDocument
			}
			return out, seq, nil
		}
		if attempt >= r.attempts {
			return out[:0], seq, fmt.Errorf("%w after %d attempts", ErrTornRead, attempt)
		}
		if err := r.sleep(ctx, NextBackoffDelay(r.backoff, attempt, r.rng)); err != nil {
			return out[:0], seq, err
		}
	}
}

func (r *Reader) tryRead(dst []byte) ([]byte, uint64, bool) {
	before := atomic.LoadUint64(r.tr.seq)
	if before&1 == 1 {
		return dst[:0], before, false
	}
	n := int(atomic.LoadUint32(r.tr.length))
	if n >= len(r.doc) {
		return dst[:0], before, false
	}
	out := append(dst[:0], r.doc[:n]...)
	after := atomic.LoadUint64(r.tr.seq)
	return out, after, before == after
}

// Sequence reports the trailer sequence without reading the document.
func (r *Reader) Sequence() uint64 { return atomic.LoadUint64(r.tr.seq) }

func (r *Reader) Close() error {
	if r.region == nil {
		return nil
	}
	err := r.region.Close()
	r.region = nil
	r.doc = nil
	return err
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil || d <= 0 {
		return err
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
