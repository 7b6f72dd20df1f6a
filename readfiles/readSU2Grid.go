package readfiles

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/golang/glog"

	"github.com/notargets/dgamr/types"
)

// From here: https://su2code.github.io/docs_v7/Mesh-File/
type SU2ElementType uint8

const (
	ELType_Vertex        SU2ElementType = 1
	ELType_LINE          SU2ElementType = 3
	ELType_Triangle      SU2ElementType = 5
	ELType_Quadrilateral SU2ElementType = 9
	ELType_Tetrahedral   SU2ElementType = 10
	ELType_Hexahedral    SU2ElementType = 12
	ELType_Prism         SU2ElementType = 13
	ELType_Pyramid       SU2ElementType = 14
)

var su2VertexCount = map[SU2ElementType]int{
	ELType_Vertex:        1,
	ELType_LINE:          2,
	ELType_Triangle:      3,
	ELType_Quadrilateral: 4,
	ELType_Tetrahedral:   4,
	ELType_Hexahedral:    8,
	ELType_Prism:         6,
	ELType_Pyramid:       5,
}

/*
Grid is a root mesh read from a file. Quadrilaterals are split into two
triangles along their first diagonal. Markers map each boundary tag to its
boundary faces, given as vertex index lists.
*/
type Grid struct {
	Dim     int
	Shape   types.CellShape
	VX      []types.Vector
	EToV    [][]int
	Markers map[string][][]int
}

type su2Reader struct {
	reader *bufio.Reader
	lineNo int
}

func (sr *su2Reader) getLine() (line string, err error) {
	line, err = sr.reader.ReadString('\n')
	if err == io.EOF && len(line) != 0 {
		err = nil
	}
	if err != nil {
		return
	}
	sr.lineNo++
	line = strings.TrimSpace(line)
	return
}

func (sr *su2Reader) getLineNoComments() (line string, err error) {
	for {
		if line, err = sr.getLine(); err != nil {
			return
		}
		if len(line) != 0 && !strings.HasPrefix(line, "%") {
			return
		}
	}
}

// dataLine reads a line inside a section, where the file may not end
func (sr *su2Reader) dataLine() (line string, err error) {
	if line, err = sr.getLineNoComments(); err == io.EOF {
		err = sr.errorf("early end of file")
	}
	return
}

func (sr *su2Reader) errorf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: su2 line %d: %s", types.ErrInvalidArgument, sr.lineNo,
		fmt.Sprintf(format, args...))
}

// getToken splits a "KEY= value" line
func (sr *su2Reader) getToken() (key, value string, err error) {
	var line string
	if line, err = sr.getLineNoComments(); err != nil {
		return
	}
	ind := strings.Index(line, "=")
	if ind < 0 {
		err = sr.errorf("badly formed input line [%s], should have an =", line)
		return
	}
	key, value = strings.TrimSpace(line[:ind]), strings.TrimSpace(line[ind+1:])
	return
}

func (sr *su2Reader) readNumber(key string) (num int, err error) {
	var k, value string
	if k, value, err = sr.getToken(); err == io.EOF {
		err = sr.errorf("early end of file, expected %s", key)
	}
	if err != nil {
		return
	}
	if k != key {
		err = sr.errorf("expected %s, found %s", key, k)
		return
	}
	return sr.parseCount(value)
}

func (sr *su2Reader) readLabel(key string) (label string, err error) {
	var k string
	if k, label, err = sr.getToken(); err == io.EOF {
		err = sr.errorf("early end of file, expected %s", key)
	}
	if err != nil {
		return
	}
	if k != key {
		err = sr.errorf("expected %s, found %s", key, k)
	}
	return
}

// parseCount reads the leading count of a value, NPOIN may carry a second one
func (sr *su2Reader) parseCount(value string) (num int, err error) {
	fields := strings.Fields(value)
	if len(fields) == 0 {
		err = sr.errorf("missing count")
		return
	}
	if num, err = strconv.Atoi(fields[0]); err != nil || num < 0 {
		err = sr.errorf("unable to read number from token: [%s]", value)
	}
	return
}

// readElement returns the type and vertex indices of one element line
func (sr *su2Reader) readElement() (elType SU2ElementType, verts []int, err error) {
	var line string
	if line, err = sr.dataLine(); err != nil {
		return
	}
	fields := strings.Fields(line)
	if len(fields) == 0 {
		err = sr.errorf("empty element line")
		return
	}
	var nType int
	if nType, err = strconv.Atoi(fields[0]); err != nil {
		err = sr.errorf("bad element type [%s]", fields[0])
		return
	}
	elType = SU2ElementType(nType)
	nv, ok := su2VertexCount[elType]
	if !ok {
		err = sr.errorf("unknown element type %d", nType)
		return
	}
	if len(fields) < nv+1 {
		err = sr.errorf("element type %d needs %d vertices, line is [%s]", nType, nv, line)
		return
	}
	verts = make([]int, nv)
	for i := range verts {
		if verts[i], err = strconv.Atoi(fields[i+1]); err != nil {
			err = sr.errorf("bad vertex index [%s]", fields[i+1])
			return
		}
	}
	return
}

func (sr *su2Reader) readElements(n int) (elTypes []SU2ElementType, elems [][]int, err error) {
	elTypes, elems = make([]SU2ElementType, n), make([][]int, n)
	for k := 0; k < n; k++ {
		if elTypes[k], elems[k], err = sr.readElement(); err != nil {
			return
		}
	}
	return
}

func (sr *su2Reader) readVertices(n, dim int) (VX []types.Vector, err error) {
	VX = make([]types.Vector, n)
	for i := 0; i < n; i++ {
		var line string
		if line, err = sr.dataLine(); err != nil {
			return
		}
		fields := strings.Fields(line)
		if len(fields) < dim {
			err = sr.errorf("unable to read %d coordinates from [%s]", dim, line)
			return
		}
		for j := 0; j < dim; j++ {
			if VX[i][j], err = strconv.ParseFloat(fields[j], 64); err != nil {
				err = sr.errorf("bad coordinate [%s]", fields[j])
				return
			}
		}
	}
	return
}

func (sr *su2Reader) readMarkers(n int) (markers map[string][][]int, err error) {
	markers = make(map[string][][]int, n)
	for m := 0; m < n; m++ {
		var (
			label  string
			nElems int
		)
		if label, err = sr.readLabel("MARKER_TAG"); err != nil {
			return
		}
		if nElems, err = sr.readNumber("MARKER_ELEMS"); err != nil {
			return
		}
		// Duplicate tags, like periodic pairs, accumulate
		for i := 0; i < nElems; i++ {
			var verts []int
			if _, verts, err = sr.readElement(); err != nil {
				return
			}
			markers[label] = append(markers[label], verts)
		}
	}
	return
}

// ReadSU2 reads a one or two dimensional SU2 mesh
func ReadSU2(r io.Reader) (g *Grid, err error) {
	var (
		sr      = &su2Reader{reader: bufio.NewReader(r)}
		elTypes []SU2ElementType
		elems   [][]int
		n       int
	)
	g = &Grid{Markers: make(map[string][][]int)}
	for {
		var key, value string
		if key, value, err = sr.getToken(); err != nil {
			if errors.Is(err, io.EOF) {
				err = nil
				break
			}
			return nil, err
		}
		switch key {
		case "NDIME":
			if g.Dim, err = sr.parseCount(value); err != nil {
				return nil, err
			}
			if g.Dim < 1 || g.Dim > 3 {
				return nil, sr.errorf("dimension %d", g.Dim)
			}
		case "NELEM":
			if n, err = sr.parseCount(value); err != nil {
				return nil, err
			}
			if elTypes, elems, err = sr.readElements(n); err != nil {
				return nil, err
			}
		case "NPOIN":
			if g.Dim == 0 {
				return nil, sr.errorf("NPOIN before NDIME")
			}
			if n, err = sr.parseCount(value); err != nil {
				return nil, err
			}
			if g.VX, err = sr.readVertices(n, g.Dim); err != nil {
				return nil, err
			}
		case "NMARK":
			if n, err = sr.parseCount(value); err != nil {
				return nil, err
			}
			if g.Markers, err = sr.readMarkers(n); err != nil {
				return nil, err
			}
		default:
			glog.V(1).Infof("su2: skipping keyword %s", key)
		}
	}
	if err = g.setCells(elTypes, elems); err != nil {
		return nil, err
	}
	glog.V(1).Infof("read su2 grid: %d dimensional, %d vertices, %d cells, %d markers",
		g.Dim, len(g.VX), len(g.EToV), len(g.Markers))
	return
}

func ReadSU2File(fileName string) (g *Grid, err error) {
	var file *os.File
	if file, err = os.Open(fileName); err != nil {
		return
	}
	defer file.Close()
	if g, err = ReadSU2(file); err != nil {
		err = fmt.Errorf("%s: %w", fileName, err)
	}
	return
}

func (g *Grid) setCells(elTypes []SU2ElementType, elems [][]int) (err error) {
	switch g.Dim {
	case 1:
		g.Shape = types.Line
	case 2:
		g.Shape = types.Tri
	default:
		return fmt.Errorf("%w: su2 grid of dimension %d", types.ErrInvalidArgument, g.Dim)
	}
	if len(elems) == 0 || len(g.VX) == 0 {
		return fmt.Errorf("%w: su2 grid without cells or vertices", types.ErrInvalidArgument)
	}
	g.EToV = make([][]int, 0, len(elems))
	for k, ev := range elems {
		for _, v := range ev {
			if v < 0 || v >= len(g.VX) {
				return fmt.Errorf("%w: cell %d references vertex %d of %d",
					types.ErrInvalidArgument, k, v, len(g.VX))
			}
		}
		switch {
		case g.Dim == 1 && elTypes[k] == ELType_LINE,
			g.Dim == 2 && elTypes[k] == ELType_Triangle:
			g.EToV = append(g.EToV, ev)
		case g.Dim == 2 && elTypes[k] == ELType_Quadrilateral:
			g.EToV = append(g.EToV, []int{ev[0], ev[1], ev[2]}, []int{ev[0], ev[2], ev[3]})
		default:
			return fmt.Errorf("%w: element type %d in a %d dimensional grid",
				types.ErrInvalidArgument, elTypes[k], g.Dim)
		}
	}
	return
}
