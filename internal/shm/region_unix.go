//go:build unix

package shm

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"
)

type mappedFile struct {
	b      []byte
	path   string
	remove bool
}

func (m *mappedFile) Bytes() []byte { return m.b }

func (m *mappedFile) Close() error {
	if m.b == nil {
		return nil
	}
	err := unix.Munmap(m.b)
	m.b = nil
	if m.remove {
		if rmErr := os.Remove(m.path); rmErr != nil && !os.IsNotExist(rmErr) && err == nil {
			err = rmErr
		}
	}
	return err
}

// RegionPath is where a named region lives on this platform.
func RegionPath(opts Options) string {
	opts = opts.withDefaults()
	dir := opts.Dir
	if dir == "" {
		dir = os.TempDir()
		if st, err := os.Stat("/dev/shm"); err == nil && st.IsDir() {
			dir = "/dev/shm"
		}
	}
	name := strings.TrimPrefix(opts.Name, `Local\`)
	return filepath.Join(dir, filepath.Base(name))
}

func createRegion(opts Options, size int) (Region, error) {
	path := RegionPath(opts)
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if err := f.Truncate(int64(size)); err != nil {
		return nil, fmt.Errorf("size %s: %w", path, err)
	}
	b, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mmap %s: %w", path, err)
	}
	return &mappedFile{b: b, path: path, remove: true}, nil
}

func openRegion(opts Options, size int) (Region, error) {
	path := RegionPath(opts)
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	st, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if st.Size() < int64(size) {
		return nil, fmt.Errorf("%w: %s is %d bytes", ErrRegionTooSmall, path, st.Size())
	}
	b, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mmap %s: %w", path, err)
	}
	return &mappedFile{b: b, path: path}, nil
}
