package dgmesh

import (
	"fmt"
	"iter"
	"sync"

	"github.com/notargets/dgamr/dgtree"
	"github.com/notargets/dgamr/types"
	"github.com/notargets/dgamr/utils"
)

// Partitions splits the root indices into np balanced contiguous buckets
func (m *Mesh) Partitions(np int) (parts [][]int) {
	pm := utils.NewPartitionMap(np, m.Tree.NRoots())
	parts = make([][]int, pm.ParallelDegree)
	for n := range parts {
		parts[n] = pm.BucketIndex(n)
	}
	return
}

/*
ParallelLeafSweep runs fn on every leaf, one goroutine per root partition. Each
goroutine walks only the leaves of its own roots, so fn may write to per-leaf
state without locking. The tree must not be refined during the sweep.
*/
func (m *Mesh) ParallelLeafSweep(np int, fn func(part int, h dgtree.Handle, c *Cell)) (err error) {
	if np < 1 {
		return fmt.Errorf("%w: parallel degree %d", types.ErrInvalidArgument, np)
	}
	var (
		wg    sync.WaitGroup
		parts = m.Partitions(np)
		seqs  = make([]iter.Seq2[dgtree.Handle, *Cell], len(parts))
	)
	for n, part := range parts {
		if len(part) == 0 {
			continue
		}
		if seqs[n], err = m.Tree.Leaves(part...); err != nil {
			return
		}
	}
	for n, seq := range seqs {
		if seq == nil {
			continue
		}
		wg.Add(1)
		go func(n int, seq iter.Seq2[dgtree.Handle, *Cell]) {
			defer wg.Done()
			for h, c := range seq {
				fn(n, h, c)
			}
		}(n, seq)
	}
	wg.Wait()
	return
}
