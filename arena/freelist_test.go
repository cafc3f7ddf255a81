package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFreeAndReuse(t *testing.T) {
	h := newTestHandler(t)

	p := mustRequest(t, h, 512, 1, true)
	mustFree(t, h, p, 512)
	require.Equal(t, 1, len(h.freeBlocks))

	// First-fit hands the exact same interval back and the fully consumed
	// entry disappears.
	q := mustRequest(t, h, 512, 1, true)
	assert.Equal(t, p, q)
	assert.Zero(t, len(h.freeBlocks))
}

func TestSmallRemainderElision(t *testing.T) {
	h := newTestHandler(t)

	p := mustRequest(t, h, 1000, 1, true)
	mustFree(t, h, p, 1000)
	require.Equal(t, 1, len(h.freeBlocks))

	// 200 bytes would remain; below MinFreeBlockSize the entry is dropped
	// and the tail stranded.
	q := mustRequest(t, h, 800, 1, true)
	assert.Equal(t, p, q)
	assert.Zero(t, len(h.freeBlocks))
}

func TestLargeRemainderRetained(t *testing.T) {
	h := newTestHandler(t)

	p := mustRequest(t, h, 1000, 1, true)
	mustFree(t, h, p, 1000)

	// 500 bytes remain, which is worth keeping: the entry becomes the tail.
	q := mustRequest(t, h, 500, 1, true)
	assert.Equal(t, p, q)
	require.Equal(t, 1, len(h.freeBlocks))
	assert.Equal(t, uintptr(500), h.freeBlocks[0].size)
	assert.Equal(t, p+500, h.freeBlocks[0].start)
	assertInvariants(t, h)
}

func TestFreeListResize(t *testing.T) {
	h := newTestHandler(t)

	// Alternate payload and padding allocations so the freed payloads can
	// never coalesce, then free all payloads to push the list past its
	// initial capacity of 50.
	const numBlocks = 60
	var ptrs [numBlocks]uintptr
	for i := 0; i < numBlocks; i++ {
		ptrs[i] = mustRequest(t, h, 100, 1, true)
		mustRequest(t, h, 100, 1, true) // padding
	}

	for i := 0; i < numBlocks; i++ {
		mustFree(t, h, ptrs[i], 100)
	}

	require.Equal(t, numBlocks, len(h.freeBlocks))
	assert.Equal(t, 2*InitialFreeBlocks, cap(h.freeBlocks), "capacity should have doubled")
	assertInvariants(t, h)

	// The index still works after relocation.
	q := mustRequest(t, h, 100, 1, true)
	assert.Equal(t, ptrs[0], q)
	assert.Equal(t, numBlocks-1, len(h.freeBlocks))
}

func TestFreeListPreferredOverBump(t *testing.T) {
	h := newTestHandler(t)

	p := mustRequest(t, h, 2048, 1, true)
	mustRequest(t, h, 64, 1, true) // keep the arena cursor past p
	mustFree(t, h, p, 2048)

	// The freed range is earlier than the cursor; first-fit must win even
	// though the arena has plenty of bump room left.
	q := mustRequest(t, h, 1024, 1, true)
	assert.Equal(t, p, q)
	require.Equal(t, 1, len(h.freeBlocks))
	assert.Equal(t, uintptr(1024), h.freeBlocks[0].size)
}
