// Package arena implements a bump-pointer arena allocator with a coalescing
// free-list overlay.
//
// # Overview
//
// A Handler owns an ordered list of memory arenas and a sorted free-block
// index. Allocation prefers the free list (first-fit with alignment), then
// bump-advances the first arena with room, and finally maps a fresh arena
// sized at three times the request (raised to 1 MiB when default sizing is
// enabled). Freeing inserts the range back into the index, merging with
// abutting neighbors on the left, right, or both sides.
//
// The allocator stores no per-allocation metadata: Free requires the caller
// to pass back the exact size it requested. This keeps live allocations
// header-free at the cost of trusting the caller's bookkeeping.
//
// # Allocation Strategy
//
//	p := h.Request(size, alignment, useDefault)
//	    → first-fit scan of the free list
//	    → bump allocation from existing arenas, in creation order
//	    → new arena: max(size*3, 1 MiB when useDefault)
//
// When a first-fit consumption would leave a tail smaller than
// MinFreeBlockSize, the whole block is consumed and the tail stranded. This
// bounds free-list growth at the cost of leaking small amounts of arena
// memory until the Handler is closed.
//
// # Free List
//
// The free list is a contiguous array of blocks sorted strictly ascending by
// start address. No two entries ever abut: insertion coalesces with adjacent
// ranges, so a freed range either extends a neighbor or becomes a new entry.
// Insert position is found by binary search; inserts and deletes shift the
// array tail in place.
//
// # Resource Ceilings
//
// Both index lists grow by saturating doubling: arenas from 3 up to 4095
// entries, free blocks from 50 up to 1048575. A grow request at the ceiling
// fails with ErrInsufficientResource; the Handler stays usable and keeps its
// pre-operation state.
//
// # Usage Example
//
//	h := arena.New()
//	defer h.Close()
//
//	p := h.Request(512, 8, true)
//	if p == nil {
//	    return arena.ErrOutOfMemory
//	}
//	buf := unsafe.Slice((*byte)(p), 512)
//	// ... use buf ...
//	if err := h.Free(p, 512); err != nil {
//	    return err
//	}
//
// # Thread Safety
//
// Handler instances are not thread-safe. A Handler is a single-owner,
// single-goroutine object; callers must synchronize access externally.
// Memory returned by Request is borrowed and becomes invalid when the
// Handler is closed.
package arena
