package arena

import (
	"fmt"
	"os"
	"unsafe"

	"github.com/TheLumbee/memarena/internal/region"
)

// memArena is one contiguous backing region with a bump cursor. Arenas are
// identified by index in the Handler's list, never by address: the list may
// relocate its records when it grows.
type memArena struct {
	data    []byte       // backing region, len(data) = capacity
	release func() error // unmaps the region on Handler close
	cursor  uintptr      // first byte never handed out by bump allocation
}

func (a *memArena) base() uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(a.data)))
}

func (a *memArena) limit() uintptr {
	return a.base() + uintptr(len(a.data))
}

// alignForward rounds addr up to the next multiple of align. align must be a
// power of two in [1, 255]; anything else is undefined.
func alignForward(addr uintptr, align uint8) uintptr {
	mask := uintptr(align) - 1
	return (addr + mask) &^ mask
}

// tryBump serves size bytes from the arena's cursor, aligned to align.
// Returns 0 when the aligned request does not fit. The returned interval
// can never be handed out again by a later bump from this arena.
func (a *memArena) tryBump(size uintptr, align uint8) uintptr {
	p := alignForward(a.cursor, align)
	if p+size > a.limit() {
		return 0
	}
	a.cursor = p + size
	return p
}

// appendArena maps a fresh region, serves the request from its start, and
// appends the arena to the list. The caller must have ensured list capacity.
// Returns 0 when the system refuses the mapping.
//
// The request is served from the new arena unconditionally, even when older
// arenas still have tail room; those tails stay stranded until a matching
// Free exposes them.
func (h *Handler) appendArena(size uintptr, align uint8, useDefault bool) uintptr {
	// Arenas exist for throughput, so map more than requested. Small
	// requests get the default arena size unless the caller opts out.
	bytes := size * 3
	if useDefault && bytes < DefaultArenaSize {
		bytes = DefaultArenaSize
	}

	data, release, err := region.Alloc(int(bytes))
	if err != nil {
		fmt.Fprintf(os.Stderr, "memarena: failed to map %d bytes for new arena: %v\n", bytes, err)
		return 0
	}

	a := memArena{data: data, release: release}
	p := alignForward(a.base(), align)
	a.cursor = p + size
	h.arenas = append(h.arenas, a)

	h.stats.ArenasCreated++
	h.stats.BytesReserved += uint64(bytes)

	if logAlloc {
		fmt.Fprintf(os.Stderr, "[ARENA] mapped %d bytes (arena %d) for request of %d\n",
			bytes, len(h.arenas)-1, size)
	}
	return p
}
