//go:build windows

package region

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

// Alloc obtains a zeroed region of size bytes from the operating system.
//
// VirtualAlloc with MEM_COMMIT uses demand-paging: pages are only backed
// by physical memory when first accessed, similar to Unix mmap behavior.
func Alloc(size int) ([]byte, func() error, error) {
	addr, err := windows.VirtualAlloc(0, uintptr(size),
		windows.MEM_RESERVE|windows.MEM_COMMIT, windows.PAGE_READWRITE)
	if err != nil {
		return nil, nil, err
	}
	data := unsafe.Slice((*byte)(unsafe.Pointer(addr)), size)
	release := func() error {
		// MEM_RELEASE frees the entire reservation; size must be 0.
		return windows.VirtualFree(addr, 0, windows.MEM_RELEASE)
	}
	return data, release, nil
}
