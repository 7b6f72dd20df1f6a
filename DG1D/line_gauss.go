package DG1D

import (
	"fmt"

	"github.com/notargets/dgamr/types"
	"github.com/notargets/dgamr/utils"
)

// LineGauss holds the Gauss-Legendre cubature of a LineBasis
type LineGauss struct {
	basis      *LineBasis
	order      int
	rq, wq     []float64
	cellLoc    []types.Vector
	cellV      utils.Matrix
	cellDr     []utils.Matrix
	faceLoc    []types.Vector
	faceW      []float64
	faceInterp utils.Matrix
}

func NewLineGauss(b *LineBasis) (g *LineGauss) {
	g = &LineGauss{
		basis: b,
		order: 2*b.N + 1,
	}
	g.rq, g.wq = JacobiGQ(0, 0, b.N)
	g.cellLoc = make([]types.Vector, len(g.rq))
	for i, r := range g.rq {
		g.cellLoc[i] = types.Vector{r, 0, 0}
	}
	g.cellV = Vandermonde1D(b.N, g.rq).Mul(b.Vinv)
	g.cellV.SetReadOnly("GaussCellVandermonde")
	dr := GradVandermonde1D(g.rq, b.N).Mul(b.Vinv)
	dr.SetReadOnly("GaussCellDr")
	g.cellDr = []utils.Matrix{dr}
	g.faceLoc = []types.Vector{{0, 0, 0}}
	g.faceW = []float64{1.}
	g.faceInterp = b.FaceVandermonde(g.faceLoc).Mul(b.InvFaceMatrix())
	g.faceInterp.SetReadOnly("GaussFaceInterp")
	return
}

func (g *LineGauss) VolIntOrder() int                { return g.order }
func (g *LineGauss) NDofPerCell() int                { return len(g.rq) }
func (g *LineGauss) CellIntLocation() []types.Vector { return g.cellLoc }
func (g *LineGauss) CellIntWeights() []float64       { return g.wq }
func (g *LineGauss) CellVandermonde() utils.Matrix   { return g.cellV }
func (g *LineGauss) CellDr() []utils.Matrix          { return g.cellDr }
func (g *LineGauss) FaceIntOrder() int               { return g.order }
func (g *LineGauss) NDofPerFace() int                { return 1 }
func (g *LineGauss) FaceRotateIndex() [][]int        { return [][]int{{0}} }
func (g *LineGauss) FaceIntLocation() []types.Vector { return g.faceLoc }
func (g *LineGauss) FaceIntWeights() []float64       { return g.faceW }
func (g *LineGauss) FaceInterp() utils.Matrix        { return g.faceInterp }

func (g *LineGauss) GaussCellNodesLoc(vertices []types.Vector) (x []types.Vector, err error) {
	if len(vertices) != 2 {
		err = fmt.Errorf("%w: line cell needs 2 vertices, have %d",
			types.ErrInvalidArgument, len(vertices))
		return
	}
	x = MapVertices(g.cellLoc, vertices, lineVertexCoefficients)
	return
}

// CellDxdr evaluates the geometric tensor at the cubature points from the
// physical dof locations of the cell.
func (g *LineGauss) CellDxdr(x []types.Vector) ([]types.Tensor, error) {
	return GeometricFactors(g.cellDr, x)
}

func (g *LineGauss) CellDrdx(xr []types.Tensor) ([]types.Tensor, error) {
	return InvertTensors(xr)
}

func (g *LineGauss) CellWJ(xr []types.Tensor) (wj []float64, err error) {
	return CubatureWJ(g.wq, xr)
}

// FaceNxWJ takes the dof tensor list of the cell, as FaceNxFscale does
func (g *LineGauss) FaceNxWJ(xr []types.Tensor, faceI int) (nx []types.Vector, wj []float64, err error) {
	if err = g.basis.checkFace(xr, faceI); err != nil {
		return
	}
	return FaceWJ(xr, g.basis.faceToCell[faceI][0][0], lineFaceNormals[faceI], g.faceW)
}
