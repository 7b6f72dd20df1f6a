package DG2D

import (
	"fmt"

	"github.com/notargets/dgamr/DG1D"
	"github.com/notargets/dgamr/types"
	"github.com/notargets/dgamr/utils"
)

// TriGauss is the collapsed coordinate Gauss cubature of a TriBasis, exact for
// polynomials of degree 2N+1, plus Gauss-Legendre points on each face
type TriGauss struct {
	basis      *TriBasis
	order      int
	rq, sq, wq []float64
	cellLoc    []types.Vector
	cellV      utils.Matrix
	cellDr     []utils.Matrix
	faceLoc    []types.Vector
	faceW      []float64
	faceRotate [][]int
	faceInterp utils.Matrix
}

func NewTriGauss(b *TriBasis) (g *TriGauss) {
	var (
		N  = b.N
		Nq = (N + 1) * (N + 1)
	)
	g = &TriGauss{
		basis: b,
		order: 2*N + 1,
		rq:    make([]float64, 0, Nq),
		sq:    make([]float64, 0, Nq),
		wq:    make([]float64, 0, Nq),
	}
	a, wa := DG1D.JacobiGQ(0, 0, N)
	bb, wb := DG1D.JacobiGQ(1, 0, N)
	for i := range bb {
		for j := range a {
			g.rq = append(g.rq, 0.5*(1+a[j])*(1-bb[i])-1)
			g.sq = append(g.sq, bb[i])
			g.wq = append(g.wq, 0.5*wa[j]*wb[i])
		}
	}
	g.cellLoc = make([]types.Vector, Nq)
	for i := range g.rq {
		g.cellLoc[i] = types.Vector{g.rq[i], g.sq[i], 0}
	}
	g.cellV = Vandermonde2D(N, g.rq, g.sq).Mul(b.Vinv)
	g.cellV.SetReadOnly("GaussCellVandermonde")
	Vr, Vs := GradVandermonde2D(N, g.rq, g.sq)
	dr, ds := Vr.Mul(b.Vinv), Vs.Mul(b.Vinv)
	dr.SetReadOnly("GaussCellDr")
	ds.SetReadOnly("GaussCellDs")
	g.cellDr = []utils.Matrix{dr, ds}

	tq, wt := DG1D.JacobiGQ(0, 0, N)
	g.faceLoc = make([]types.Vector, len(tq))
	for i, t := range tq {
		g.faceLoc[i] = types.Vector{t, 0, 0}
	}
	g.faceW = wt
	identity := utils.NewRange(0, len(tq)-1)
	g.faceRotate = [][]int{identity, identity.Reverse()}
	g.faceInterp = b.FaceVandermonde(g.faceLoc).Mul(b.InvFaceMatrix())
	g.faceInterp.SetReadOnly("GaussFaceInterp")
	return
}

func (g *TriGauss) VolIntOrder() int                { return g.order }
func (g *TriGauss) NDofPerCell() int                { return len(g.wq) }
func (g *TriGauss) CellIntLocation() []types.Vector { return g.cellLoc }
func (g *TriGauss) CellIntWeights() []float64       { return g.wq }
func (g *TriGauss) CellVandermonde() utils.Matrix   { return g.cellV }
func (g *TriGauss) CellDr() []utils.Matrix          { return g.cellDr }
func (g *TriGauss) FaceIntOrder() int               { return g.order }
func (g *TriGauss) NDofPerFace() int                { return len(g.faceW) }
func (g *TriGauss) FaceRotateIndex() [][]int        { return g.faceRotate }
func (g *TriGauss) FaceIntLocation() []types.Vector { return g.faceLoc }
func (g *TriGauss) FaceIntWeights() []float64       { return g.faceW }
func (g *TriGauss) FaceInterp() utils.Matrix        { return g.faceInterp }

func (g *TriGauss) GaussCellNodesLoc(vertices []types.Vector) (x []types.Vector, err error) {
	if len(vertices) != 3 {
		err = fmt.Errorf("%w: triangle needs 3 vertices, have %d",
			types.ErrInvalidArgument, len(vertices))
		return
	}
	x = DG1D.MapVertices(g.cellLoc, vertices, triVertexCoefficients)
	return
}

func (g *TriGauss) CellDxdr(x []types.Vector) ([]types.Tensor, error) {
	return DG1D.GeometricFactors(g.cellDr, x)
}

func (g *TriGauss) CellDrdx(xr []types.Tensor) ([]types.Tensor, error) {
	return DG1D.InvertTensors(xr)
}

func (g *TriGauss) CellWJ(xr []types.Tensor) ([]float64, error) {
	return DG1D.CubatureWJ(g.wq, xr)
}

func (g *TriGauss) FaceNxWJ(xr []types.Tensor, faceI int) (nx []types.Vector, wj []float64, err error) {
	if err = g.basis.checkFace(xr, faceI); err != nil {
		return
	}
	return DG1D.FaceWJ(xr, g.basis.faceToCell[faceI][0][0], triFaceNormals[faceI], g.faceW)
}
