package main

import (
	"fmt"
	"math/rand"
	"unsafe"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/TheLumbee/memarena/arena"
)

var (
	stressOps     int
	stressSeed    int64
	stressMaxSize int
	stressLive    int
	stressNoDef   bool
)

func init() {
	cmd := newStressCmd()
	cmd.Flags().IntVar(&stressOps, "ops", 100000, "Number of request operations")
	cmd.Flags().Int64Var(&stressSeed, "seed", 1, "Workload RNG seed")
	cmd.Flags().IntVar(&stressMaxSize, "max-size", 4096, "Largest request size in bytes")
	cmd.Flags().IntVar(&stressLive, "live", 64, "Allocations kept live at any time")
	cmd.Flags().BoolVar(&stressNoDef, "no-default", false, "Size new arenas at request*3 instead of 1 MiB")
	rootCmd.AddCommand(cmd)
}

func newStressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stress",
		Short: "Run a random request/free workload and report statistics",
		Long: `The stress command allocates and frees randomly sized blocks against a
single Handler, touching the first and last byte of every returned block,
then prints the allocator's
counters.

Example:
  arenactl stress --ops 500000 --max-size 8192
  arenactl stress --seed 42 --live 256 --no-default`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStress()
		},
	}
}

type allocation struct {
	ptr  unsafe.Pointer
	size uintptr
}

func runStress() error {
	h := arena.New()
	defer h.Close()

	rng := rand.New(rand.NewSource(stressSeed))
	aligns := []uint8{1, 2, 4, 8, 16, 32, 64}
	live := make([]allocation, 0, stressLive)

	printVerbose("running %d operations (seed %d, max size %d)\n",
		stressOps, stressSeed, stressMaxSize)

	for i := 0; i < stressOps; i++ {
		size := uintptr(1 + rng.Intn(stressMaxSize))
		align := aligns[rng.Intn(len(aligns))]

		p := h.Request(size, align, !stressNoDef)
		if p == nil {
			return fmt.Errorf("request of %d bytes exhausted after %d operations", size, i)
		}

		// Touch the block so demand-paged arena memory is really committed.
		buf := unsafe.Slice((*byte)(p), size)
		buf[0] = byte(i)
		buf[len(buf)-1] = byte(i >> 8)

		live = append(live, allocation{ptr: p, size: size})
		for len(live) > stressLive {
			j := rng.Intn(len(live))
			a := live[j]
			if err := h.Free(a.ptr, a.size); err != nil {
				return fmt.Errorf("free failed with status %d: %w", arena.Status(err), err)
			}
			live = append(live[:j], live[j+1:]...)
		}
	}

	printStats(h.Stats())
	return nil
}

func printStats(s arena.Stats) {
	if quiet {
		return
	}
	p := message.NewPrinter(language.English)

	p.Printf("requests          %d (free-list hits %d, bump hits %d)\n",
		s.RequestCalls, s.FreeListHits, s.BumpHits)
	p.Printf("frees             %d (inserts %d, left %d, right %d, both %d)\n",
		s.FreeCalls, s.FreeBlockInserts, s.CoalesceLeft, s.CoalesceRight, s.CoalesceBoth)
	p.Printf("arenas            %d live, %d created, %d bytes reserved\n",
		s.ArenaCount, s.ArenasCreated, s.BytesReserved)
	p.Printf("free blocks       %d live, %d elided\n", s.FreeBlockCount, s.BlocksElided)
	p.Printf("bytes requested   %d\n", s.BytesRequested)
	if s.RequestCalls > 0 {
		p.Printf("reuse rate        %.1f%%\n",
			float64(s.FreeListHits)/float64(s.RequestCalls)*100)
	}
}
