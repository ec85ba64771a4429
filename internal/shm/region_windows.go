//go:build windows

package shm

import (
	"strings"
	"unsafe"

	"golang.org/x/sys/windows"
)

type mappedView struct {
	b      []byte
	addr   uintptr
	handle windows.Handle
}

func (m *mappedView) Bytes() []byte { return m.b }

func (m *mappedView) Close() error {
	if m.addr == 0 {
		return nil
	}
	err := windows.UnmapViewOfFile(m.addr)
	if cerr := windows.CloseHandle(m.handle); err == nil {
		err = cerr
	}
	m.addr = 0
	m.b = nil
	return err
}

// RegionPath is the file mapping name used for opts.
func RegionPath(opts Options) string {
	opts = opts.withDefaults()
	if strings.Contains(opts.Name, `\`) {
		return opts.Name
	}
	return `Local\` + opts.Name
}

func createRegion(opts Options, size int) (Region, error) {
	return mapRegion(opts, size, windows.FILE_MAP_WRITE)
}

// openRegion attaches to an existing mapping. Mapping a name nobody created
// yields a zeroed view, which NewReader rejects by its missing magic.
func openRegion(opts Options, size int) (Region, error) {
	return mapRegion(opts, size, windows.FILE_MAP_READ)
}

// mapRegion maps the named section. A section that already exists keeps
// the size its creator chose, so the view covers min(section, size) and
// the caller decides whether that is enough.
func mapRegion(opts Options, size int, access uint32) (Region, error) {
	name, err := windows.UTF16PtrFromString(RegionPath(opts))
	if err != nil {
		return nil, err
	}
	h, err := windows.CreateFileMapping(windows.InvalidHandle, nil, windows.PAGE_READWRITE, 0, uint32(size), name)
	if h == 0 {
		return nil, err
	}
	addr, err := windows.MapViewOfFile(h, access, 0, 0, 0)
	if err != nil {
		_ = windows.CloseHandle(h)
		return nil, err
	}
	var info windows.MemoryBasicInformation
	if err := windows.VirtualQuery(addr, &info, unsafe.Sizeof(info)); err != nil {
		_ = windows.UnmapViewOfFile(addr)
		_ = windows.CloseHandle(h)
		return nil, err
	}
	n := min(int(info.RegionSize), size)
	return &mappedView{
		b:      unsafe.Slice((*byte)(unsafe.Pointer(addr)), n),
		addr:   addr,
		handle: h,
	}, nil
}
