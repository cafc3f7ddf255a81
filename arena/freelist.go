package arena

import (
	"fmt"
	"os"
	"unsafe"
)

// freeBlock describes one reclaimable range inside some arena's region.
type freeBlock struct {
	start uintptr // first byte of the range
	size  uintptr // byte count at start
}

func (b freeBlock) end() uintptr { return b.start + b.size }

// findInsertIndex returns the leftmost index i such that
// freeBlocks[i].start >= p. i is in [0, len(freeBlocks)].
func (h *Handler) findInsertIndex(p uintptr) int {
	lo, hi := 0, len(h.freeBlocks)
	for lo < hi {
		mid := lo + (hi-lo)/2
		if h.freeBlocks[mid].start < p {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// firstFit scans the free list in ascending address order and consumes the
// first block that can hold size bytes at the requested alignment.
// Returns 0 on miss.
//
// Head padding between the block start and the aligned address is always
// stranded. When the tail left after consumption is smaller than
// MinFreeBlockSize, the whole entry is dropped and the tail stranded too;
// tracking slivers that small would bloat the list faster than it pays back.
func (h *Handler) firstFit(size uintptr, align uint8) uintptr {
	for i := range h.freeBlocks {
		b := &h.freeBlocks[i]

		p := alignForward(b.start, align)
		if p+size > b.end() {
			continue
		}

		tail := b.end() - (p + size)
		if tail < MinFreeBlockSize {
			h.freeBlocks = append(h.freeBlocks[:i], h.freeBlocks[i+1:]...)
			h.stats.BlocksElided++
		} else {
			b.start = p + size
			b.size = tail
		}
		return p
	}
	return 0
}

// Free returns the interval [ptr, ptr+size) to the free list, merging with
// abutting neighbors. size must be the exact value passed to the Request
// that produced ptr; the allocator keeps no per-allocation record and does
// not validate that ptr belongs to this Handler.
//
// Free fails only when a non-coalescing insert needs the list to grow and
// growth fails: ErrOutOfMemory or ErrInsufficientResource. The list is
// unchanged in that case.
func (h *Handler) Free(ptr unsafe.Pointer, size uintptr) error {
	h.stats.FreeCalls++

	p := uintptr(ptr)
	idx := h.findInsertIndex(p)

	mergeLeft := false
	if idx > 0 {
		mergeLeft = h.freeBlocks[idx-1].end() == p
	}

	mergeRight := false
	if idx < len(h.freeBlocks) {
		mergeRight = p+size == h.freeBlocks[idx].start
	}

	switch {
	case mergeLeft && mergeRight:
		// [left][freed][right] collapse into left; right's slot closes up.
		h.freeBlocks[idx-1].size += size + h.freeBlocks[idx].size
		h.freeBlocks = append(h.freeBlocks[:idx], h.freeBlocks[idx+1:]...)
		h.stats.CoalesceBoth++

	case mergeLeft:
		h.freeBlocks[idx-1].size += size
		h.stats.CoalesceLeft++

	case mergeRight:
		h.freeBlocks[idx].start = p
		h.freeBlocks[idx].size += size
		h.stats.CoalesceRight++

	default:
		if len(h.freeBlocks) == cap(h.freeBlocks) {
			if err := h.growFreeList(); err != nil {
				if err == ErrInsufficientResource {
					fmt.Fprintf(os.Stderr, "memarena: free-block index at hard ceiling (%d entries)\n", FreeBlocksMax)
				} else {
					fmt.Fprintf(os.Stderr, "memarena: failed to grow free-block index: %v\n", err)
				}
				return err
			}
		}
		h.freeBlocks = append(h.freeBlocks, freeBlock{})
		copy(h.freeBlocks[idx+1:], h.freeBlocks[idx:])
		h.freeBlocks[idx] = freeBlock{start: p, size: size}
		h.stats.FreeBlockInserts++
	}
	return nil
}
