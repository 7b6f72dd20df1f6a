package dgmesh

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/dgamr/element"
	"github.com/notargets/dgamr/readfiles"
	"github.com/notargets/dgamr/types"
)

// Unit square, the second triangle listed clockwise
const squareSU2 = `NDIME= 2
NELEM= 2
5 0 1 2 0
5 0 3 2 1
NPOIN= 4
0 0 0
1 0 1
1 1 2
0 1 3
NMARK= 2
MARKER_TAG= wall
MARKER_ELEMS= 2
3 0 1
3 2 1
MARKER_TAG= side
MARKER_ELEMS= 1
3 3 0
`

func TestMeshFromGrid(t *testing.T) {
	g, err := readfiles.ReadSU2(strings.NewReader(squareSU2))
	require.NoError(t, err)
	m, err := NewMesh(g.Shape, 2, g.VX, g.EToV, element.NewRegistry())
	require.NoError(t, err)
	{ // Orientation and connectivity
		assert.Equal(t, [][]int{{0, 1, 2}, {0, 2, 3}}, m.EToV)
		assert.Equal(t, [][]int{{-1, -1, 1}, {0, -1, -1}}, m.EToE)
		assert.Equal(t, [][]int{{-1, -1, 0}, {2, -1, -1}}, m.EToF)
		rot, err := m.FaceRotation(0, 2)
		require.NoError(t, err)
		assert.Equal(t, 1, rot)
		vol, err := m.Volume()
		require.NoError(t, err)
		assert.InDelta(t, 1., vol, 1.e-12)
	}
	{ // Boundary tags
		tags, err := m.TagBoundary(g.Markers)
		require.NoError(t, err)
		assert.Equal(t, []FaceRef{{0, 0}, {0, 1}}, tags["wall"])
		assert.Equal(t, []FaceRef{{1, 2}}, tags["side"])
		assert.Equal(t, tags, m.Boundary)
		assert.Equal(t, []FaceRef{{1, 1}}, m.Untagged())
	}
	{ // Bad markers
		_, err := m.TagBoundary(map[string][][]int{"inside": {{0, 2}}})
		assert.ErrorIs(t, err, types.ErrInvalidArgument)
		_, err = m.TagBoundary(map[string][][]int{"short": {{0}}})
		assert.ErrorIs(t, err, types.ErrInvalidArgument)
	}
	{ // Bad root lists
		_, err := NewMesh(types.Tri, 1, g.VX, [][]int{{0, 1}}, element.NewRegistry())
		assert.ErrorIs(t, err, types.ErrInvalidArgument)
		_, err = NewMesh(types.Tri, 1, g.VX, [][]int{{0, 1, 4}}, element.NewRegistry())
		assert.ErrorIs(t, err, types.ErrInvalidArgument)
		_, err = NewMesh(types.Tri, 1, g.VX, nil, element.NewRegistry())
		assert.ErrorIs(t, err, types.ErrInvalidArgument)
	}
}

func TestLineMeshFromGrid(t *testing.T) {
	// Right to left cells are flipped
	VX := []types.Vector{{0, 0, 0}, {0.25, 0, 0}, {1, 0, 0}}
	m, err := NewMesh(types.Line, 1, VX, [][]int{{1, 0}, {1, 2}}, element.NewRegistry())
	require.NoError(t, err)
	assert.Equal(t, [][]int{{0, 1}, {1, 2}}, m.EToV)
	assert.Equal(t, [][]int{{-1, 1}, {0, -1}}, m.EToE)
	tags, err := m.TagBoundary(map[string][][]int{"left": {{0}}, "right": {{2}}})
	require.NoError(t, err)
	assert.Equal(t, []FaceRef{{0, 0}}, tags["left"])
	assert.Equal(t, []FaceRef{{1, 1}}, tags["right"])
	assert.Empty(t, m.Untagged())
}
