package arena

import (
	"fmt"
	"os"
	"unsafe"
)

// Runtime debug flag for allocation logging - controlled by MEMARENA_LOG_ALLOC env var.
var logAlloc = os.Getenv("MEMARENA_LOG_ALLOC") != ""

// Contractual constants. The index ceilings are what 12-bit arena and
// 20-bit free-block length fields can hold; they are enforced at the
// resize sites rather than bit-packed.
const (
	// DefaultArenaSize is the minimum size of a new arena when default
	// sizing is requested (1 MiB).
	DefaultArenaSize = 1 << 20

	// MinFreeBlockSize is the smallest tail worth keeping on the free list.
	// First-fit consumption strands anything smaller.
	MinFreeBlockSize = 256

	// InitialArenas is the arena-list capacity on first allocation.
	InitialArenas = 3

	// InitialFreeBlocks is the free-list capacity on first insertion.
	InitialFreeBlocks = 50

	// ArenasMax is the hard ceiling on arena-list capacity.
	ArenasMax = 1<<12 - 1

	// FreeBlocksMax is the hard ceiling on free-list capacity.
	FreeBlocksMax = 1<<20 - 1
)

// Handler owns an ordered arena list and a sorted free-block index. All
// fields are unexported; across language boundaries a *Handler is an opaque
// handle. Not safe for concurrent use.
type Handler struct {
	arenas     []memArena
	freeBlocks []freeBlock
	stats      allocatorStats
}

// New returns an empty Handler. Both index lists stay unallocated until
// first use.
func New() *Handler {
	return &Handler{}
}

// Close unmaps every arena region and drops both index lists. Every address
// ever returned by Request becomes invalid. Close is idempotent.
func (h *Handler) Close() error {
	var firstErr error
	for i := range h.arenas {
		if rel := h.arenas[i].release; rel != nil {
			if err := rel(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	h.arenas = nil
	h.freeBlocks = nil
	return firstErr
}

// Request returns an align-aligned address of size usable bytes, or nil on
// exhaustion. align must be a power of two in [1, 255]. useDefault raises
// the sizing of any newly created arena to DefaultArenaSize.
//
// The search order is contractual: free list first, then bump allocation
// from existing arenas in creation order, then a fresh arena. The returned
// interval is disjoint from every outstanding interval, and stays valid
// until it is freed or the Handler is closed.
func (h *Handler) Request(size uintptr, align uint8, useDefault bool) unsafe.Pointer {
	h.stats.RequestCalls++
	if size == 0 {
		return nil
	}

	if p := h.firstFit(size, align); p != 0 {
		h.stats.FreeListHits++
		h.stats.BytesRequested += uint64(size)
		// Arena regions never move, so an address previously derived from
		// one converts back losslessly.
		return unsafe.Pointer(p) //nolint:govet // address points into a live region
	}

	for i := range h.arenas {
		if p := h.arenas[i].tryBump(size, align); p != 0 {
			h.stats.BumpHits++
			h.stats.BytesRequested += uint64(size)
			return unsafe.Pointer(p) //nolint:govet // address points into a live region
		}
	}

	if len(h.arenas) == cap(h.arenas) {
		switch err := h.growArenaList(); err {
		case nil:
		case ErrInsufficientResource:
			fmt.Fprintf(os.Stderr, "memarena: arena index at hard ceiling (%d entries)\n", ArenasMax)
			return nil
		default:
			fmt.Fprintf(os.Stderr, "memarena: failed to grow arena index: %v\n", err)
			return nil
		}
	}

	p := h.appendArena(size, align, useDefault)
	if p == 0 {
		return nil
	}
	h.stats.BytesRequested += uint64(size)
	return unsafe.Pointer(p) //nolint:govet // address points into a live region
}

// growArenaList raises the arena-list capacity: unallocated lists start at
// InitialArenas, allocated ones double, saturating at ArenasMax. Arena
// records keep their values across the relocation.
func (h *Handler) growArenaList() error {
	if cap(h.arenas) >= ArenasMax {
		return ErrInsufficientResource
	}
	if h.arenas == nil {
		h.arenas = make([]memArena, 0, InitialArenas)
		return nil
	}
	newCap := cap(h.arenas) * 2
	if newCap > ArenasMax {
		newCap = ArenasMax
	}
	grown := make([]memArena, len(h.arenas), newCap)
	copy(grown, h.arenas)
	h.arenas = grown
	return nil
}

// growFreeList mirrors growArenaList for the free-block index.
func (h *Handler) growFreeList() error {
	if cap(h.freeBlocks) >= FreeBlocksMax {
		return ErrInsufficientResource
	}
	if h.freeBlocks == nil {
		h.freeBlocks = make([]freeBlock, 0, InitialFreeBlocks)
		return nil
	}
	newCap := cap(h.freeBlocks) * 2
	if newCap > FreeBlocksMax {
		newCap = FreeBlocksMax
	}
	grown := make([]freeBlock, len(h.freeBlocks), newCap)
	copy(grown, h.freeBlocks)
	h.freeBlocks = grown
	return nil
}
