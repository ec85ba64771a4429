package shm

import (
	"strings"
	"unsafe"
)

const (
	DefaultName     = "AeroflyFS4Data"
	DefaultCapacity = 64 * 1024
	MinCapacity     = 256
	MaxCapacity     = 16 * 1024 * 1024
)

// Options names and sizes a channel.
type Options struct {
	// Name identifies the region across processes. On Windows it is the
	// file mapping name (a bare name gets the Local\ prefix); elsewhere it
	// is a file name inside Dir.
	Name string
	// Dir holds the backing file on unix; empty selects /dev/shm when
	// present and the temp directory otherwise.
	Dir string
	// Capacity is the size of the document area in bytes.
	Capacity int
}

func (o Options) withDefaults() Options {
	if strings.TrimSpace(o.Name) == "" {
		o.Name = DefaultName
	}
	if o.Capacity == 0 {
		o.Capacity = DefaultCapacity
	}
	return o
}

// RegionSize is the mapping size needed for a document area of capacity bytes.
func RegionSize(capacity int) int {
	return capacity + TrailerLen
}

// Region is a mapped block of memory shared with other processes.
type Region interface {
	Bytes() []byte
	Close() error
}

type memoryRegion struct {
	words []uint64
	b     []byte
}

// NewMemoryRegion returns an in-process region of size bytes, 8-byte
// aligned like a real mapping.
func NewMemoryRegion(size int) Region {
	if size <= 0 {
		return &memoryRegion{}
	}
	words := make([]uint64, (size+7)/8)
	return &memoryRegion{
		words: words,
		b:     unsafe.Slice((*byte)(unsafe.Pointer(&words[0])), size),
	}
}

func (r *memoryRegion) Bytes() []byte { return r.b }
func (r *memoryRegion) Close() error  { return nil }

func validCapacity(capacity int) bool {
	return capacity >= MinCapacity && capacity <= MaxCapacity && capacity%8 == 0
}
