package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/dgamr/InputParameters"
	"github.com/notargets/dgamr/dgtree"
	"github.com/notargets/dgamr/types"
)

func parseInput(t *testing.T, fileInput []byte) *InputParameters.InputParameters {
	ip := &InputParameters.InputParameters{}
	require.NoError(t, ip.Parse(fileInput))
	ip.SetDefaults()
	require.NoError(t, ip.Validate())
	return ip
}

func TestRunModel(t *testing.T) {
	{ // Line mesh, root refinement and elevation
		ip := parseInput(t, []byte(`
Title: Line Case
CellShape: line
PolynomialOrder: 2
Mesh:
  Kx: 4
Refine:
  Levels: 2
  Roots: [1]
Elevate:
  Order: 3
  Roots: [2]
Parallel: 2
`))
		m, rs, err := RunModel(ip)
		require.NoError(t, err)
		assert.Equal(t, 4, rs.Roots)
		assert.Equal(t, 10, rs.Size)
		assert.Equal(t, 7, rs.LeafSize)
		assert.Equal(t, 3, rs.Refined)
		assert.Equal(t, 1, rs.Elevated)
		assert.InDelta(t, 1., rs.Volume, 1.e-12)
		require.Len(t, rs.PartVolume, 2)
		assert.InDelta(t, 0.5, rs.PartVolume[0], 1.e-12)
		assert.InDelta(t, 0.5, rs.PartVolume[1], 1.e-12)

		// Root 2 is still a leaf and now carries the elevated element
		h := m.Tree.BaseLst()[2]
		c, err := m.Tree.Payload(h)
		require.NoError(t, err)
		assert.Equal(t, 3, c.Std.NOrder())
		assert.Equal(t, 2, m.Registry().Len())

		// Everything under root 1 is two levels down
		leaves, err := m.Tree.LeafHandles(1)
		require.NoError(t, err)
		assert.Len(t, leaves, 4)
		for _, l := range leaves {
			assert.Equal(t, 2, m.Tree.Level(l))
		}
	}
	{ // Triangle mesh, fractional refinement
		ip := parseInput(t, []byte(`
CellShape: tri
PolynomialOrder: 1
Mesh:
  Kx: 2
  Ky: 1
Refine:
  Levels: 1
  Fraction: 0.5
Parallel: 3
`))
		m, rs, err := RunModel(ip)
		require.NoError(t, err)
		assert.Equal(t, 4, rs.Roots)
		assert.Equal(t, 12, rs.Size)
		assert.Equal(t, 10, rs.LeafSize)
		assert.Equal(t, 2, rs.Refined)
		assert.InDelta(t, 1., rs.Volume, 1.e-10)
		var sum float64
		for _, v := range rs.PartVolume {
			sum += v
		}
		assert.InDelta(t, rs.Volume, sum, 1.e-10)
		// The leading half of the roots were refined
		assert.False(t, m.Tree.IsLeaf(m.Tree.BaseLst()[0]))
		assert.False(t, m.Tree.IsLeaf(m.Tree.BaseLst()[1]))
		assert.True(t, m.Tree.IsLeaf(m.Tree.BaseLst()[2]))
	}
	{ // Bad elevation roots are reported
		ip := parseInput(t, []byte(`
PolynomialOrder: 1
Elevate:
  Order: 2
  Roots: [7]
`))
		_, _, err := RunModel(ip)
		assert.ErrorIs(t, err, types.ErrInvalidArgument)
	}
}

func TestRefinePolicy(t *testing.T) {
	ip := parseInput(t, []byte(`
Mesh:
  Kx: 5
Refine:
  Fraction: 0.3
`))
	m, _, err := RunModel(ip)
	require.NoError(t, err)
	pred := refinePolicy(m, ip.Refine)
	var picked []dgtree.Handle
	for _, h := range m.Tree.BaseLst() {
		c, err := m.Tree.Payload(h)
		require.NoError(t, err)
		if pred(h, c) {
			picked = append(picked, h)
		}
	}
	// ceil(0.3*5) leaves
	assert.Equal(t, m.Tree.BaseLst()[:2], picked)
}

func TestRunModelGridFile(t *testing.T) {
	gridFile := filepath.Join(t.TempDir(), "square.su2")
	require.NoError(t, os.WriteFile(gridFile, []byte(`% unit square
NDIME= 2
NELEM= 1
9 0 1 2 3 0
NPOIN= 4
0 0 0
1 0 1
1 1 2
0 1 3
NMARK= 2
MARKER_TAG= wall
MARKER_ELEMS= 2
3 0 1
3 2 3
MARKER_TAG= side
MARKER_ELEMS= 2
3 1 2
3 3 0
`), 0644))
	ip := parseInput(t, []byte(fmt.Sprintf(`
CellShape: tri
PolynomialOrder: 2
Mesh:
  File: %s
Refine:
  Levels: 1
`, gridFile)))
	m, rs, err := RunModel(ip)
	require.NoError(t, err)
	assert.Equal(t, 2, rs.Roots)
	assert.Equal(t, 8, rs.LeafSize)
	assert.Equal(t, map[string]int{"wall": 2, "side": 2}, rs.Boundary)
	assert.Empty(t, m.Untagged())
	assert.InDelta(t, 1., rs.Volume, 1.e-12)

	// The grid holds triangles
	ip.CellShape = "line"
	_, _, err = RunModel(ip)
	assert.ErrorIs(t, err, types.ErrInvalidArgument)
}
