package shm

import "errors"

var (
	ErrChannelUnavailable = errors.New("shm: channel unavailable")
	ErrFrameTooLarge      = errors.New("shm: frame exceeds channel capacity")
	ErrInvalidCapacity    = errors.New("shm: invalid capacity")
	ErrRegionTooSmall     = errors.New("shm: region smaller than capacity plus trailer")
	ErrTornRead           = errors.New("shm: document changed while reading")
	ErrNoDocument         = errors.New("shm: nothing published yet")
	ErrBadTrailer         = errors.New("shm: region has no sequence trailer")
	ErrUnsupported        = errors.New("shm: shared memory not supported on this platform")
)
