package arena

// allocatorStats holds internal allocator counters. The Handler is a
// single-owner object, so plain ints suffice.
type allocatorStats struct {
	RequestCalls     int    // Total Request() calls
	FreeCalls        int    // Total Free() calls
	FreeListHits     int    // Requests served from the free list
	BumpHits         int    // Requests served by bump allocation
	ArenasCreated    int    // Arenas mapped over the Handler's life
	BytesReserved    uint64 // Total region bytes mapped
	BytesRequested   uint64 // Bytes handed out (before alignment padding)
	CoalesceLeft     int    // Frees merged into the left neighbor
	CoalesceRight    int    // Frees merged into the right neighbor
	CoalesceBoth     int    // Frees that collapsed three ranges into one
	FreeBlockInserts int    // Frees that created a new list entry
	BlocksElided     int    // Free blocks dropped for sub-minimum tails
}

// Stats is a point-in-time snapshot of allocator activity.
type Stats struct {
	RequestCalls     int
	FreeCalls        int
	FreeListHits     int
	BumpHits         int
	ArenasCreated    int
	BytesReserved    uint64
	BytesRequested   uint64
	CoalesceLeft     int
	CoalesceRight    int
	CoalesceBoth     int
	FreeBlockInserts int
	BlocksElided     int

	ArenaCount     int // Live arenas
	FreeBlockCount int // Current free-list entries
}

// Stats returns a snapshot of the Handler's counters and list lengths.
func (h *Handler) Stats() Stats {
	return Stats{
		RequestCalls:     h.stats.RequestCalls,
		FreeCalls:        h.stats.FreeCalls,
		FreeListHits:     h.stats.FreeListHits,
		BumpHits:         h.stats.BumpHits,
		ArenasCreated:    h.stats.ArenasCreated,
		BytesReserved:    h.stats.BytesReserved,
		BytesRequested:   h.stats.BytesRequested,
		CoalesceLeft:     h.stats.CoalesceLeft,
		CoalesceRight:    h.stats.CoalesceRight,
		CoalesceBoth:     h.stats.CoalesceBoth,
		FreeBlockInserts: h.stats.FreeBlockInserts,
		BlocksElided:     h.stats.BlocksElided,
		ArenaCount:       len(h.arenas),
		FreeBlockCount:   len(h.freeBlocks),
	}
}
