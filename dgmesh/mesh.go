package dgmesh

import (
	"fmt"
	"iter"

	"github.com/golang/glog"

	"github.com/notargets/dgamr/dgtree"
	"github.com/notargets/dgamr/element"
	"github.com/notargets/dgamr/types"
	"github.com/notargets/dgamr/utils"
)

/*
Mesh is a forest of cells built over a conforming root mesh. Root connectivity
(EToE, EToF) refers to root indices; refinement below the roots does not change it.
*/
type Mesh struct {
	Shape      types.CellShape
	Tree       *dgtree.Tree[*Cell]
	VX         []types.Vector // root vertices
	EToV       [][]int        // root cell -> vertex indices
	EToE, EToF [][]int        // root cell, face -> neighbor root and face, -1 on the boundary
	Boundary   map[string][]FaceRef
	reg        *element.Registry
}

func newMesh(shape types.CellShape, order int, VX []types.Vector, EToV [][]int,
	reg *element.Registry) (m *Mesh, err error) {
	var se *element.StdElement
	if se, err = reg.Get(order, shape); err != nil {
		return
	}
	m = &Mesh{
		Shape: shape,
		VX:    VX,
		EToV:  EToV,
		reg:   reg,
	}
	roots := make([]*Cell, len(EToV))
	for k, ev := range EToV {
		verts := make([]types.Vector, len(ev))
		for i, v := range ev {
			verts[i] = VX[v]
		}
		if roots[k], err = NewCell(verts, se); err != nil {
			return nil, fmt.Errorf("root cell %d: %w", k, err)
		}
	}
	if m.Tree, err = dgtree.New(len(roots), roots); err != nil {
		return nil, err
	}
	if err = m.Connect(); err != nil {
		return nil, err
	}
	glog.V(1).Infof("built %v mesh: %d vertices, %d root cells, order %d", shape, len(VX), len(roots), order)
	return
}

/*
NewMesh builds a mesh over an unstructured root list, such as one read from a
grid file. Cells are reoriented where needed so that every root has a positive
Jacobian: lines run left to right and triangles counter-clockwise.
*/
func NewMesh(shape types.CellShape, order int, VX []types.Vector, EToV [][]int,
	reg *element.Registry) (m *Mesh, err error) {
	if len(EToV) == 0 {
		err = fmt.Errorf("%w: mesh without cells", types.ErrInvalidArgument)
		return
	}
	oriented := make([][]int, len(EToV))
	for k, ev := range EToV {
		if len(ev) != shape.NVertices() {
			err = fmt.Errorf("%w: root cell %d has %d vertices, %v cells need %d",
				types.ErrInvalidArgument, k, len(ev), shape, shape.NVertices())
			return
		}
		for _, v := range ev {
			if v < 0 || v >= len(VX) {
				err = fmt.Errorf("%w: root cell %d references vertex %d of %d",
					types.ErrInvalidArgument, k, v, len(VX))
				return
			}
		}
		oriented[k] = orient(shape, VX, ev)
	}
	return newMesh(shape, order, VX, oriented, reg)
}

func orient(shape types.CellShape, VX []types.Vector, ev []int) (R []int) {
	R = append([]int{}, ev...)
	switch shape {
	case types.Line:
		if VX[R[1]][0] < VX[R[0]][0] {
			R[0], R[1] = R[1], R[0]
		}
	case types.Tri:
		e1, e2 := VX[R[1]].Sub(VX[R[0]]), VX[R[2]].Sub(VX[R[0]])
		if e1[0]*e2[1]-e1[1]*e2[0] < 0 {
			R[1], R[2] = R[2], R[1]
		}
	}
	return
}

// NewLineMesh builds K equal line cells on [xmin, xmax]
func NewLineMesh(xmin, xmax float64, K, order int, reg *element.Registry) (m *Mesh, err error) {
	if K < 1 || xmax <= xmin {
		err = fmt.Errorf("%w: line mesh [%g,%g] with %d cells", types.ErrInvalidArgument, xmin, xmax, K)
		return
	}
	x := utils.Linspace(xmin, xmax, K+1)
	VX := make([]types.Vector, K+1)
	for i, xx := range x {
		VX[i] = types.Vector{xx, 0, 0}
	}
	EToV := make([][]int, K)
	for k := range EToV {
		EToV[k] = []int{k, k + 1}
	}
	return newMesh(types.Line, order, VX, EToV, reg)
}

// NewTriMesh splits each of kx by ky rectangles on [xmin,xmax]x[ymin,ymax] into
// two counter-clockwise triangles
func NewTriMesh(xmin, xmax, ymin, ymax float64, kx, ky, order int, reg *element.Registry) (m *Mesh, err error) {
	if kx < 1 || ky < 1 || xmax <= xmin || ymax <= ymin {
		err = fmt.Errorf("%w: triangle mesh [%g,%g]x[%g,%g] with %dx%d cells",
			types.ErrInvalidArgument, xmin, xmax, ymin, ymax, kx, ky)
		return
	}
	var (
		x, y = utils.Linspace(xmin, xmax, kx+1), utils.Linspace(ymin, ymax, ky+1)
		VX   = make([]types.Vector, 0, (kx+1)*(ky+1))
		EToV = make([][]int, 0, 2*kx*ky)
	)
	for j := range y {
		for i := range x {
			VX = append(VX, types.Vector{x[i], y[j], 0})
		}
	}
	vid := func(i, j int) int { return j*(kx+1) + i }
	for j := 0; j < ky; j++ {
		for i := 0; i < kx; i++ {
			a, b, c, d := vid(i, j), vid(i+1, j), vid(i+1, j+1), vid(i, j+1)
			EToV = append(EToV, []int{a, b, c}, []int{a, c, d})
		}
	}
	return newMesh(types.Tri, order, VX, EToV, reg)
}

func (m *Mesh) Registry() *element.Registry { return m.reg }

// RefineWhere refines every current leaf for which pred is true and returns
// the number of leaves refined. Leaves created by this call are not examined.
func (m *Mesh) RefineWhere(pred func(h dgtree.Handle, c *Cell) bool) (count int, err error) {
	var leaves []dgtree.Handle
	if leaves, err = m.Tree.LeafHandles(); err != nil {
		return
	}
	for _, h := range leaves {
		var c *Cell
		if c, err = m.Tree.Payload(h); err != nil {
			return
		}
		if !pred(h, c) {
			continue
		}
		if _, err = m.Tree.Refine(h); err != nil {
			return
		}
		count++
	}
	return
}

// Elevate changes the polynomial order of leaf h
func (m *Mesh) Elevate(h dgtree.Handle, order int) (err error) {
	var (
		c  *Cell
		se *element.StdElement
	)
	if c, err = m.Tree.Payload(h); err != nil {
		return
	}
	if !m.Tree.IsLeaf(h) {
		err = fmt.Errorf("%w: unit %d is not a leaf", types.ErrInvalidState, h)
		return
	}
	if se, err = m.reg.Get(order, m.Shape); err != nil {
		return
	}
	return c.Elevate(se)
}

// Volume is the total length or area of the leaves
func (m *Mesh) Volume() (float64, error) {
	return m.Integrate(func(types.Vector) float64 { return 1 })
}

// Centres returns the centre of every leaf in traversal order
func (m *Mesh) Centres() (centres []types.Vector, err error) {
	var seq iter.Seq2[dgtree.Handle, *Cell]
	if seq, err = m.Tree.Leaves(); err != nil {
		return
	}
	centres = make([]types.Vector, 0, m.Tree.LeafSize())
	for _, c := range seq {
		centres = append(centres, c.Centre())
	}
	return
}
