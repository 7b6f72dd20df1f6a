package readfiles

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/dgamr/types"
)

func TestReadSU2(t *testing.T) {
	{ // Test reading the file structure
		g, err := ReadSU2(bytes.NewReader(inputFile))
		require.NoError(t, err)
		assert.Equal(t, 2, g.Dim)
		assert.Equal(t, types.Tri, g.Shape)
		assert.Equal(t, 22, len(g.EToV))
		assert.Equal(t, []int{15, 11, 17}, g.EToV[21])
		require.Equal(t, 18, len(g.VX))
		assert.Equal(t, -7.100939331382065, g.VX[17][0])
		assert.Equal(t, 2.889910324036197, g.VX[17][1])
		assert.Equal(t, 0., g.VX[17][2])
	}
	{ // Test read markers
		g, err := ReadSU2(bytes.NewReader(inputFile))
		require.NoError(t, err)
		labels := []string{"periodic-left", "periodic-right", "top", "bottom"}
		nptsBC := []int{2, 2, 4, 4}
		require.Len(t, g.Markers, 4)
		for n, label := range labels {
			assert.Len(t, g.Markers[label], nptsBC[n])
		}
		assert.Equal(t, []int{2, 8}, g.Markers["top"][0])
		assert.Equal(t, []int{6, 1}, g.Markers["bottom"][3])
	}
	{ // Quadrilaterals split along the first diagonal, sections in any order
		g, err := ReadSU2(strings.NewReader(quadFile))
		require.NoError(t, err)
		assert.Equal(t, [][]int{{0, 1, 2}, {0, 2, 3}, {1, 4, 2}}, g.EToV)
		assert.Equal(t, types.Vector{1, 1, 0}, g.VX[2])
		assert.Empty(t, g.Markers)
	}
	{ // One dimensional grids
		g, err := ReadSU2(strings.NewReader(lineFile))
		require.NoError(t, err)
		assert.Equal(t, types.Line, g.Shape)
		assert.Equal(t, [][]int{{0, 1}, {1, 2}}, g.EToV)
		assert.Equal(t, types.Vector{0.5, 0, 0}, g.VX[1])
		assert.Equal(t, [][]int{{0}}, g.Markers["left"])
	}
}

func TestReadSU2Errors(t *testing.T) {
	bad := map[string]string{
		"truncated":     "NDIME= 2\nNELEM= 2\n5 0 1 2 0\n",
		"no equals":     "NDIME 2\n",
		"element type":  "NDIME= 2\nNELEM= 1\n7 0 1 2\nNPOIN= 3\n0 0\n1 0\n0 1\n",
		"vertex range":  "NDIME= 2\nNELEM= 1\n5 0 1 3\nNPOIN= 3\n0 0\n1 0\n0 1\n",
		"line in 2D":    "NDIME= 2\nNELEM= 1\n3 0 1\nNPOIN= 2\n0 0\n1 0\n",
		"dimension":     "NDIME= 3\nNELEM= 1\n10 0 1 2 3\nNPOIN= 4\n0 0 0\n1 0 0\n0 1 0\n0 0 1\n",
		"points first":  "NPOIN= 1\n0 0\n",
		"marker tag":    "NDIME= 1\nNELEM= 1\n3 0 1\nNPOIN= 2\n0\n1\nNMARK= 1\nMARKER_ELEMS= 1\n1 0\n",
		"empty":         "% nothing here\n",
		"short element": "NDIME= 2\nNELEM= 1\n5 0 1\n",
	}
	for name, file := range bad {
		_, err := ReadSU2(strings.NewReader(file))
		assert.Truef(t, errors.Is(err, types.ErrInvalidArgument), "%s: %v", name, err)
	}
	_, err := ReadSU2File("does-not-exist.su2")
	assert.Error(t, err)
}

const (
	quadFile = `NDIME= 2
% points may precede the elements
NPOIN= 5
0 0 0
1 0 1
1 1 2
0 1 3
2 0.5 4
NELEM= 2
9 0 1 2 3 0
5 1 4 2 1
`
	lineFile = `NDIME= 1
NELEM= 2
3 0 1 0
3 1 2 1
NPOIN= 3
0 0
0.5 1
1 2
NMARK= 2
MARKER_TAG= left
MARKER_ELEMS= 1
1 0
MARKER_TAG= right
MARKER_ELEMS= 1
1 2`
)

var (
	inputFile = []byte(` %This is an example input file in SU2 format, output from gmsh
% Comments can appear outside of data areas
NDIME= 2
% Comments can appear outside of data areas
NELEM= 22
5 5 6 13 0
5 9 10 12 1
5 12 5 13 2
5 9 12 13 3
5 13 6 14 4
5 12 10 15 5
5 8 9 13 6
5 4 5 12 7
5 1 7 14 8
5 6 1 14 9
5 3 11 15 10
5 10 3 15 11
5 8 13 16 12
5 4 12 17 13
5 13 14 16 14
5 12 15 17 15
5 7 2 16 16
5 11 0 17 17
5 2 8 16 18
5 0 4 17 19
5 14 7 16 20
5 15 11 17 21
% Comments can appear outside of data areas
NPOIN= 18
-10 0 0
10 0 1
10 10 2
-10 10 3
-5.000000000004944 0 4
-1.231725832440134e-11 0 5
4.99999999999384 0 6
10 4.999999999992398 7
5.000000000004944 10 8
1.231725832440134e-11 10 9
-4.99999999999384 10 10
-10 5 11
-2.500000000008632 4.330127018915808 12
2.50000000000863 5.669872981084192 13
6.712741669205853 3.668411415814691 14
-6.712741669205681 6.331588584184096 15
7.100939331384343 7.110089675963254 16
-7.100939331382065 2.889910324036197 17
NMARK= 4
% Comments can appear outside of data areas
MARKER_TAG= periodic-left
% Comments can appear outside of data areas
MARKER_ELEMS= 2
3 3 11
3 11 0
% Comments can appear outside of data areas
MARKER_TAG= periodic-right
MARKER_ELEMS= 2
3 1 7
3 7 2
% Comments can appear outside of data areas
MARKER_TAG= top
MARKER_ELEMS= 4
3 2 8
3 8 9
3 9 10
3 10 3
MARKER_TAG= bottom
% Comments can appear outside of data areas
MARKER_ELEMS= 4
3 0 4
3 4 5
3 5 6
3 6 1
% Comments can appear outside of data areas
`)
)
