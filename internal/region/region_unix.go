//go:build unix

package region

import (
	"errors"

	"golang.org/x/sys/unix"
)

// Alloc obtains a zeroed region of size bytes from the operating system
// via an anonymous private mapping. The region lives outside the Go heap,
// so addresses derived from it are stable until the release func runs.
func Alloc(size int) ([]byte, func() error, error) {
	data, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, nil, err
	}
	release := func() error {
		if data == nil {
			return nil
		}
		err := unix.Munmap(data)
		if errors.Is(err, unix.EINVAL) {
			// Treat double-unmap as no-op for callers.
			return nil
		}
		return err
	}
	return data, release, nil
}
