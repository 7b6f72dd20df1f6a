package dgmesh

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/notargets/dgamr/dgtree"
	"github.com/notargets/dgamr/element"
	"github.com/notargets/dgamr/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func refineAll(t *testing.T, m *Mesh) {
	_, err := m.RefineWhere(func(dgtree.Handle, *Cell) bool { return true })
	require.NoError(t, err)
}

func TestLineMesh(t *testing.T) {
	reg := element.NewRegistry()
	m, err := NewLineMesh(0, 2, 4, 3, reg)
	require.NoError(t, err)
	{ // Root connectivity
		assert.Equal(t, [][]int{{-1, 1}, {0, 2}, {1, 3}, {2, -1}}, m.EToE)
		assert.Equal(t, [][]int{{-1, 0}, {1, 0}, {1, 0}, {1, -1}}, m.EToF)
		rot, err := m.FaceRotation(1, 0)
		require.NoError(t, err)
		assert.Equal(t, 0, rot)
		_, err = m.FaceRotation(0, 0)
		assert.True(t, errors.Is(err, types.ErrInvalidArgument))
		_, err = m.FaceRotation(7, 0)
		assert.True(t, errors.Is(err, types.ErrInvalidArgument))
	}
	{ // Root geometry
		c, err := m.Tree.Payload(1)
		require.NoError(t, err)
		assert.InDelta(t, 0.6381966011, c.DofLoc[1][0], 1.e-9)
		for _, J := range c.J {
			assert.InDelta(t, 0.25, J, 1.e-12)
		}
		assert.InDelta(t, 0.75, c.Centre()[0], 1.e-12)
	}
	{ // Volume and integrals survive refinement
		for level := 0; level < 3; level++ {
			vol, err := m.Volume()
			require.NoError(t, err)
			assert.InDelta(t, 2., vol, 1.e-12)
			integral, err := m.Integrate(func(x types.Vector) float64 { return x[0] * x[0] })
			require.NoError(t, err)
			assert.InDelta(t, 8./3., integral, 1.e-12)
			flux, err := m.NetFlux(func(x types.Vector) types.Vector { return types.Vector{x[0]} })
			require.NoError(t, err)
			assert.InDelta(t, 2., flux, 1.e-12)
			refineAll(t, m)
		}
		assert.Equal(t, 32, m.Tree.LeafSize())
		assert.Equal(t, 4+8+16+32, m.Tree.Size())
	}
	{ // Registry shares one element across every cell
		assert.Equal(t, 1, reg.Len())
		seq, err := m.Tree.All()
		require.NoError(t, err)
		se, err := reg.Get(3, types.Line)
		require.NoError(t, err)
		for _, c := range seq {
			assert.True(t, c.Std == se)
		}
	}
	{
		_, err := NewLineMesh(1, 0, 4, 3, reg)
		assert.True(t, errors.Is(err, types.ErrInvalidArgument))
		_, err = NewLineMesh(0, 1, 4, 11, reg)
		assert.True(t, types.IsFatal(err))
	}
}

func TestTriMesh(t *testing.T) {
	reg := element.NewRegistry()
	m, err := NewTriMesh(0, 1, 0, 1, 2, 2, 2, reg)
	require.NoError(t, err)
	require.Equal(t, 8, m.Tree.NRoots())
	{ // Connectivity is symmetric with reversed shared faces
		var boundary int
		for k := range m.EToE {
			for f, kn := range m.EToE[k] {
				if kn < 0 {
					boundary++
					continue
				}
				fn := m.EToF[k][f]
				assert.Equal(t, k, m.EToE[kn][fn])
				assert.Equal(t, f, m.EToF[kn][fn])
				rot, err := m.FaceRotation(k, f)
				require.NoError(t, err)
				assert.Equal(t, 1, rot)
			}
		}
		assert.Equal(t, 8, boundary)
		assert.Equal(t, 1, m.EToE[0][2])
		assert.Equal(t, 0, m.EToF[0][2])
	}
	{ // Volume, integrals and the divergence theorem under refinement
		for level := 0; level < 3; level++ {
			vol, err := m.Volume()
			require.NoError(t, err)
			assert.InDelta(t, 1., vol, 1.e-12)
			integral, err := m.Integrate(func(x types.Vector) float64 { return x[0] * x[1] })
			require.NoError(t, err)
			assert.InDelta(t, 0.25, integral, 1.e-12)
			flux, err := m.NetFlux(func(x types.Vector) types.Vector { return types.Vector{x[0], x[1]} })
			require.NoError(t, err)
			assert.InDelta(t, 2., flux, 1.e-12)
			n, err := m.RefineWhere(func(_ dgtree.Handle, c *Cell) bool { return c.Centre()[0] < 0.5 })
			require.NoError(t, err)
			assert.Greater(t, n, 0)
		}
		units, leaves, err := m.Tree.Count()
		require.NoError(t, err)
		assert.Equal(t, m.Tree.Size(), units)
		assert.Equal(t, m.Tree.LeafSize(), leaves)
	}
}

func TestCellRefine(t *testing.T) {
	reg := element.NewRegistry()
	se, err := reg.Get(2, types.Tri)
	require.NoError(t, err)
	c, err := NewCell([]types.Vector{{0, 0}, {2, 0}, {0, 2}}, se)
	require.NoError(t, err)
	children, err := c.Refine()
	require.NoError(t, err)
	require.Equal(t, 4, len(children))
	var total float64
	for _, ch := range children {
		vol, err := ch.Volume()
		require.NoError(t, err)
		assert.InDelta(t, 0.5, vol, 1.e-12)
		total += vol
		for _, J := range ch.J {
			assert.Greater(t, J, 0.)
		}
		assert.True(t, ch.Std == se)
	}
	assert.InDelta(t, 2., total, 1.e-12)
	{
		_, err := NewCell([]types.Vector{{0, 0}, {0, 2}, {2, 0}}, se)
		assert.True(t, errors.Is(err, types.ErrInvalidArgument)) // clockwise
		_, err = NewCell([]types.Vector{{0, 0}, {2, 0}}, se)
		assert.True(t, errors.Is(err, types.ErrInvalidArgument))
	}
}

func TestCellElevate(t *testing.T) {
	reg := element.NewRegistry()
	se2, err := reg.Get(2, types.Tri)
	require.NoError(t, err)
	se4, err := reg.Get(4, types.Tri)
	require.NoError(t, err)
	c, err := NewCell([]types.Vector{{0, 0}, {2, 0}, {0, 2}}, se2)
	require.NoError(t, err)
	require.NoError(t, c.Elevate(se4))
	assert.True(t, c.Std == se4)
	assert.Equal(t, se4.NDofPerCell(), len(c.DofLoc))
	assert.Equal(t, se4.NDofPerCell(), len(c.J))
	vol, err := c.Volume()
	require.NoError(t, err)
	assert.InDelta(t, 2., vol, 1.e-12)
	{ // A failed elevation leaves the cell as it was
		dofLoc, xr, J := c.DofLoc, c.Xr, c.J
		c.Vertices[1], c.Vertices[2] = c.Vertices[2], c.Vertices[1]
		err = c.Elevate(se2)
		assert.True(t, errors.Is(err, types.ErrInvalidArgument))
		assert.True(t, c.Std == se4)
		assert.Equal(t, dofLoc, c.DofLoc)
		assert.Equal(t, xr, c.Xr)
		assert.Equal(t, J, c.J)
		line, err := reg.Get(2, types.Line)
		require.NoError(t, err)
		assert.True(t, errors.Is(c.Elevate(line), types.ErrInvalidArgument))
		assert.True(t, c.Std == se4)
	}
}

func TestElevate(t *testing.T) {
	reg := element.NewRegistry()
	m, err := NewTriMesh(0, 1, 0, 1, 1, 1, 2, reg)
	require.NoError(t, err)
	{
		R, err := m.NeighborGaussInterp(0, 2)
		require.NoError(t, err)
		nr, nc := R.Dims()
		assert.Equal(t, 3, nr)
		assert.Equal(t, 3, nc)
	}
	require.NoError(t, m.Elevate(1, 4))
	{ // Neighbor now integrates at order 4 face points
		R, err := m.NeighborGaussInterp(0, 2)
		require.NoError(t, err)
		nr, nc := R.Dims()
		assert.Equal(t, 5, nr)
		assert.Equal(t, 3, nc)
		R, err = m.NeighborGaussInterp(1, 0)
		require.NoError(t, err)
		nr, nc = R.Dims()
		assert.Equal(t, 3, nr)
		assert.Equal(t, 5, nc)
		assert.Equal(t, 2, reg.Len())
		vol, err := m.Volume()
		require.NoError(t, err)
		assert.InDelta(t, 1., vol, 1.e-12)
	}
	{
		assert.True(t, types.IsFatal(m.Elevate(0, 10)))
		_, err := m.Tree.Refine(0)
		require.NoError(t, err)
		assert.True(t, errors.Is(m.Elevate(0, 3), types.ErrInvalidState))
		assert.True(t, errors.Is(m.Elevate(99, 3), types.ErrInvalidArgument))
		_, err = m.NeighborGaussInterp(0, 0)
		assert.True(t, errors.Is(err, types.ErrInvalidArgument)) // boundary
	}
}

func TestParallelLeafSweep(t *testing.T) {
	reg := element.NewRegistry()
	m, err := NewTriMesh(0, 1, 0, 1, 2, 2, 1, reg)
	require.NoError(t, err)
	refineAll(t, m)
	_, err = m.Tree.Refine(m.Tree.Children(0)[3])
	require.NoError(t, err)
	assert.Equal(t, [][]int{{0, 1, 2}, {3, 4, 5}, {6, 7}}, m.Partitions(3))
	for _, np := range []int{1, 3, 8, 12} {
		var (
			count atomic.Int64
			mu    sync.Mutex
			seen  = make(map[dgtree.Handle]int)
		)
		err := m.ParallelLeafSweep(np, func(part int, h dgtree.Handle, c *Cell) {
			count.Add(1)
			mu.Lock()
			seen[h]++
			mu.Unlock()
		})
		require.NoError(t, err)
		assert.Equal(t, int64(m.Tree.LeafSize()), count.Load())
		for h, n := range seen {
			assert.Equal(t, 1, n)
			assert.True(t, m.Tree.IsLeaf(h))
		}
	}
	assert.True(t, errors.Is(m.ParallelLeafSweep(0, func(int, dgtree.Handle, *Cell) {}),
		types.ErrInvalidArgument))
}
