package arena

import (
	"sort"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

// ============================================================================
// Request/Free Utilities
// ============================================================================

// newTestHandler returns a Handler that is closed when the test ends.
func newTestHandler(t testing.TB) *Handler {
	t.Helper()
	h := New()
	t.Cleanup(func() { h.Close() })
	return h
}

// mustRequest performs a Request and fails the test on exhaustion.
// It returns the address as a uintptr for arithmetic in assertions.
func mustRequest(t testing.TB, h *Handler, size uintptr, align uint8, useDefault bool) uintptr {
	t.Helper()
	p := h.Request(size, align, useDefault)
	require.NotNil(t, p, "Request(%d, %d, %v) exhausted", size, align, useDefault)
	return uintptr(p)
}

// mustFree frees an address previously returned by mustRequest.
func mustFree(t testing.TB, h *Handler, p uintptr, size uintptr) {
	t.Helper()
	require.NoError(t, h.Free(unsafe.Pointer(p), size)) //nolint:govet // test address round-trip
}

// ============================================================================
// Invariant Checking
// ============================================================================

// assertInvariants validates the free-list and arena invariants:
// strictly ascending starts, no abutting entries, and every block contained
// in exactly one arena's region.
func assertInvariants(t testing.TB, h *Handler) {
	t.Helper()

	for i, b := range h.freeBlocks {
		require.Positive(t, b.size, "free block %d has zero size", i)

		if i > 0 {
			prev := h.freeBlocks[i-1]
			require.Less(t, prev.start, b.start,
				"free list not strictly ascending at %d", i)
			require.Less(t, prev.end(), b.start,
				"free blocks %d and %d abut or overlap", i-1, i)
		}

		inArena := false
		for j := range h.arenas {
			a := &h.arenas[j]
			if b.start >= a.base() && b.end() <= a.limit() {
				inArena = true
				break
			}
		}
		require.True(t, inArena, "free block %d [%#x, %#x) outside every arena",
			i, b.start, b.end())
	}
}

// span is an outstanding allocation interval used by disjointness checks.
type span struct {
	start uintptr
	size  uintptr
}

// assertDisjoint verifies that no two outstanding intervals intersect and
// that no free block overlaps an outstanding interval.
func assertDisjoint(t testing.TB, h *Handler, outstanding []span) {
	t.Helper()

	sorted := make([]span, len(outstanding))
	copy(sorted, outstanding)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].start < sorted[j].start })

	for i := 1; i < len(sorted); i++ {
		require.GreaterOrEqual(t, sorted[i].start, sorted[i-1].start+sorted[i-1].size,
			"outstanding intervals overlap: [%#x+%d) and [%#x+%d)",
			sorted[i-1].start, sorted[i-1].size, sorted[i].start, sorted[i].size)
	}

	for _, b := range h.freeBlocks {
		for _, s := range sorted {
			overlap := b.start < s.start+s.size && s.start < b.end()
			require.False(t, overlap,
				"free block [%#x, %#x) overlaps outstanding [%#x+%d)",
				b.start, b.end(), s.start, s.size)
		}
	}
}
