package dgmesh

import (
	"fmt"

	"github.com/notargets/dgamr/element"
	"github.com/notargets/dgamr/types"
)

/*
Cell is the payload of a mesh tree unit: a straight sided line or triangle with
its standard element and the geometry derived from it.
*/
type Cell struct {
	Vertices []types.Vector
	Std      *element.StdElement
	DofLoc   []types.Vector // physical dof locations
	Xr       []types.Tensor // dx/dr at the dofs
	J        []float64
}

func NewCell(vertices []types.Vector, se *element.StdElement) (c *Cell, err error) {
	if len(vertices) != se.CellShape().NVertices() {
		err = fmt.Errorf("%w: %v cell needs %d vertices, have %d", types.ErrInvalidArgument,
			se.CellShape(), se.CellShape().NVertices(), len(vertices))
		return
	}
	c = &Cell{
		Vertices: vertices,
		Std:      se,
	}
	if err = c.updateGeometry(); err != nil {
		c = nil
	}
	return
}

func (c *Cell) updateGeometry() (err error) {
	var g cellGeometry
	if g, err = newCellGeometry(c.Vertices, c.Std); err == nil {
		c.DofLoc, c.Xr, c.J = g.dofLoc, g.xr, g.J
	}
	return
}

type cellGeometry struct {
	dofLoc []types.Vector
	xr     []types.Tensor
	J      []float64
}

func newCellGeometry(vertices []types.Vector, se *element.StdElement) (g cellGeometry, err error) {
	if g.dofLoc, err = se.PhysicalNodesLoc(vertices); err != nil {
		return
	}
	if g.xr, err = se.Dxdr(g.dofLoc); err != nil {
		return
	}
	g.J = se.Jacobian(g.xr)
	for i, J := range g.J {
		if J <= 0 {
			err = fmt.Errorf("%w: non positive Jacobian %g at dof %d, vertices %v",
				types.ErrInvalidArgument, J, i, vertices)
			return
		}
	}
	return
}

// Refine bisects a line or splits a triangle into four at its edge midpoints.
// Children keep the parent's orientation and standard element.
func (c *Cell) Refine() (children []*Cell, err error) {
	var (
		v = c.Vertices
	)
	var split [][]types.Vector
	switch c.Std.CellShape() {
	case types.Line:
		m := v[0].Mid(v[1])
		split = [][]types.Vector{{v[0], m}, {m, v[1]}}
	case types.Tri:
		m01, m12, m20 := v[0].Mid(v[1]), v[1].Mid(v[2]), v[2].Mid(v[0])
		split = [][]types.Vector{
			{v[0], m01, m20},
			{m01, v[1], m12},
			{m20, m12, v[2]},
			{m01, m12, m20},
		}
	default:
		err = fmt.Errorf("%w: no refinement for %v cells", types.ErrInvalidState, c.Std.CellShape())
		return
	}
	children = make([]*Cell, len(split))
	for i, verts := range split {
		if children[i], err = NewCell(verts, c.Std); err != nil {
			return nil, err
		}
	}
	return
}

// Volume is the length or area of the cell
func (c *Cell) Volume() (vol float64, err error) {
	var wj []float64
	if wj, err = c.cubatureWJ(); err != nil {
		return
	}
	for _, w := range wj {
		vol += w
	}
	return
}

func (c *Cell) cubatureWJ() ([]float64, error) {
	xr, err := c.Std.GaussCellDxdr(c.DofLoc)
	if err != nil {
		return nil, err
	}
	return c.Std.GaussCellWJ(xr)
}

// Centre interpolates the dof locations to the reference cell centre
func (c *Cell) Centre() (x types.Vector) {
	ci := c.Std.CellCentreInterpolateMatrix()
	for d := 0; d < 3; d++ {
		coord := make([]float64, len(c.DofLoc))
		for i, loc := range c.DofLoc {
			coord[i] = loc[d]
		}
		x[d] = ci.MulVec(coord)[0]
	}
	return
}

// Elevate swaps the standard element for one of a different order. On error
// the cell is left unchanged.
func (c *Cell) Elevate(se *element.StdElement) (err error) {
	if se.CellShape() != c.Std.CellShape() {
		err = fmt.Errorf("%w: cannot change %v cell to %v", types.ErrInvalidArgument,
			c.Std.CellShape(), se.CellShape())
		return
	}
	var g cellGeometry
	if g, err = newCellGeometry(c.Vertices, se); err != nil {
		return
	}
	c.Std = se
	c.DofLoc, c.Xr, c.J = g.dofLoc, g.xr, g.J
	return
}
