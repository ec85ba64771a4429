//go:build !unix && !windows

package shm

// RegionPath returns the bare name; named regions are unavailable here.
func RegionPath(opts Options) string { return opts.withDefaults().Name }

func createRegion(Options, int) (Region, error) { return nil, ErrUnsupported }

func openRegion(Options, int) (Region, error) { return nil, ErrUnsupported }
