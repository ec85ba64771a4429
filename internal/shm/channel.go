package shm

import (
	"fmt"
	"sync/atomic"
	"unsafe"
)

// TrailerLen is the size of the sequence trailer after the document area.
const TrailerLen = 16

// trailerMagic is "AF4B" read as a little-endian u32.
const trailerMagic uint32 = 0x42344641

type trailer struct {
	seq    *uint64
	length *uint32
	magic  *uint32
}

func bindTrailer(b []byte, capacity int) (trailer, error) {
	if !validCapacity(capacity) {
		return trailer{}, fmt.Errorf("%w: %d", ErrInvalidCapacity, capacity)
	}
	if len(b) < RegionSize(capacity) {
		return trailer{}, fmt.Errorf("%w: have %d need %d", ErrRegionTooSmall, len(b), RegionSize(capacity))
	}
	if uintptr(unsafe.Pointer(&b[capacity]))%8 != 0 {
		return trailer{}, fmt.Errorf("%w: trailer not 8-byte aligned", ErrRegionTooSmall)
	}
	return trailer{
		seq:    (*uint64)(unsafe.Pointer(&b[capacity])),
		length: (*uint32)(unsafe.Pointer(&b[capacity+8])),
		magic:  (*uint32)(unsafe.Pointer(&b[capacity+12])),
	}, nil
}

// Channel is the writer side of a shared memory channel. It is meant for a
// single goroutine; concurrent Publish calls are not supported.
type Channel struct {
	name   string
	region Region
	doc    []byte
	tr     trailer

	published atomic.Uint64
	dropped   atomic.Uint64
}

// Create maps a named region and prepares it for publishing. Any failure
// is reported as ErrChannelUnavailable.
func Create(opts Options) (*Channel, error) {
	opts = opts.withDefaults()
	if !validCapacity(opts.Capacity) {
		return nil, fmt.Errorf("%w: %w: %d", ErrChannelUnavailable, ErrInvalidCapacity, opts.Capacity)
	}
	region, err := createRegion(opts, RegionSize(opts.Capacity))
	if err != nil {
		return nil, fmt.Errorf("%w: create %q: %w", ErrChannelUnavailable, opts.Name, err)
	}
	ch, err := attachChannel(opts.Name, region, opts.Capacity)
	if err != nil {
		_ = region.Close()
		return nil, fmt.Errorf("%w: %w", ErrChannelUnavailable, err)
	}
	return ch, nil
}

// NewMemoryChannel returns a channel over an in-process region.
func NewMemoryChannel(capacity int) (*Channel, error) {
	return NewChannel("memory", NewMemoryRegion(RegionSize(capacity)), capacity)
}

// attachChannel is NewChannel, except that a region smaller than the
// trailer layout but holding at least MinCapacity bytes becomes a legacy
// channel. That happens when a consumer created the mapping first at its
// own size.
func attachChannel(name string, region Region, capacity int) (*Channel, error) {
	b := region.Bytes()
	if len(b) >= RegionSize(capacity) {
		return NewChannel(name, region, capacity)
	}
	if !validCapacity(capacity) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCapacity, capacity)
	}
	if len(b) < MinCapacity {
		return nil, fmt.Errorf("%w: have %d need %d", ErrRegionTooSmall, len(b), MinCapacity)
	}
	n := min(len(b), capacity)
	clear(b[:n])
	return &Channel{
		name:   name,
		region: region,
		doc:    b[:n:n],
	}, nil
}

// NewChannel takes ownership of region and zero-fills it.
func NewChannel(name string, region Region, capacity int) (*Channel, error) {
	b := region.Bytes()
	tr, err := bindTrailer(b, capacity)
	if err != nil {
		return nil, err
	}
	clear(b[:RegionSize(capacity)])
	atomic.StoreUint32(tr.magic, trailerMagic)
	return &Channel{
		name:   name,
		region: region,
		doc:    b[:capacity:capacity],
		tr:     tr,
	}, nil
}

// Publish replaces the channel document with doc.
//
// A document that does not fit together with its NUL terminator is dropped
// with ErrFrameTooLarge and the channel keeps its previous contents.
// Otherwise the sequence goes odd, the whole document area is zeroed, doc
// and its terminator are written, and the sequence goes even again. Legacy
// channels skip the sequence steps.
func (c *Channel) Publish(doc []byte) error {
	if len(doc)+1 > len(c.doc) {
		c.dropped.Add(1)
		return fmt.Errorf("%w: %d bytes, capacity %d", ErrFrameTooLarge, len(doc)+1, len(c.doc))
	}
	if c.tr.seq == nil {
		clear(c.doc)
		copy(c.doc, doc)
		c.published.Add(1)
		return nil
	}
	seq := atomic.LoadUint64(c.tr.seq)
	if seq&1 == 1 {
		seq++
	}
	atomic.StoreUint64(c.tr.seq, seq+1)
	clear(c.doc)
	copy(c.doc, doc)
	atomic.StoreUint32(c.tr.length, uint32(len(doc)))
	atomic.StoreUint64(c.tr.seq, seq+2)
	c.published.Add(1)
	return nil
}

func (c *Channel) Name() string { return c.name }

// Capacity is the document area size, terminator included.
func (c *Channel) Capacity() int { return len(c.doc) }

// Sequence is the current trailer sequence; even when no write is in
// progress. Legacy channels have no trailer and report 0.
func (c *Channel) Sequence() uint64 {
	if c.tr.seq == nil {
		return 0
	}
	return atomic.LoadUint64(c.tr.seq)
}

// Legacy reports whether the channel publishes without a trailer, so only
// NUL-terminated readers can consume it.
func (c *Channel) Legacy() bool { return c.tr.seq == nil }

func (c *Channel) Published() uint64 { return c.published.Load() }

// Dropped counts documents rejected by Publish for size.
func (c *Channel) Dropped() uint64 { return c.dropped.Load() }

// Region exposes the underlying mapping.
func (c *Channel) Region() Region { return c.region }

// Close unmaps the region. The channel must not be used afterwards.
func (c *Channel) Close() error {
	if c.region == nil {
		return nil
	}
	err := c.region.Close()
	c.region = nil
	c.doc = nil
	return err
}
