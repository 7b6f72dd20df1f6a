package DG1D

import (
	"fmt"

	"github.com/notargets/dgamr/types"
	"github.com/notargets/dgamr/utils"
)

// LineBasis is the nodal Legendre basis on the reference line [-1,1] with
// Gauss-Lobatto-Legendre dofs. It is immutable after construction.
type LineBasis struct {
	N, Np       int
	R           []float64
	V, Vinv, Vr utils.Matrix
	dr          utils.Matrix
	invFace     utils.Matrix
	dofLoc      []types.Vector
	faceDofLoc  []types.Vector
	faceToCell  [][][]int
	faceRotate  [][]int
	faceVertex  [][]int
}

var lineFaceNormals = []types.Vector{{-1, 0, 0}, {1, 0, 0}}

func NewLineBasis(N int) (b *LineBasis, err error) {
	if N < 1 {
		err = fmt.Errorf("%w: line basis order %d", types.ErrInvalidArgument, N)
		return
	}
	b = &LineBasis{
		N:  N,
		Np: N + 1,
	}
	b.R = JacobiGL(0, 0, N)
	b.V = Vandermonde1D(N, b.R)
	if b.Vinv, err = b.V.Inverse(); err != nil {
		err = fmt.Errorf("line basis order %d: %w", N, err)
		return
	}
	b.Vr = GradVandermonde1D(b.R, N)
	b.dr = b.Vr.Mul(b.Vinv)
	b.V.SetReadOnly("V")
	b.Vinv.SetReadOnly("Vinv")
	b.Vr.SetReadOnly("Vr")
	b.dr.SetReadOnly("Dr")
	b.invFace = utils.NewMatrix(1, 1, []float64{1.})
	b.invFace.SetReadOnly("InvFaceMatrix")

	b.dofLoc = make([]types.Vector, b.Np)
	for i, r := range b.R {
		b.dofLoc[i] = types.Vector{r, 0, 0}
	}
	b.faceDofLoc = []types.Vector{{0, 0, 0}}
	b.faceToCell = [][][]int{{{0}}, {{b.Np - 1}}}
	b.faceRotate = [][]int{{0}}
	b.faceVertex = [][]int{{0}, {1}}
	return
}

func (b *LineBasis) NOrder() int                     { return b.N }
func (b *LineBasis) CellShape() types.CellShape      { return types.Line }
func (b *LineBasis) NDofPerCell() int                { return b.Np }
func (b *LineBasis) NFacesPerCell() int              { return 2 }
func (b *LineBasis) NDofPerFace() int                { return 1 }
func (b *LineBasis) NRotations() int                 { return 1 }
func (b *LineBasis) FaceToCellIndex() [][][]int      { return b.faceToCell }
func (b *LineBasis) FaceRotateIndex() [][]int        { return b.faceRotate }
func (b *LineBasis) FaceVertex() [][]int             { return b.faceVertex }
func (b *LineBasis) Vandermonde() utils.Matrix       { return b.V }
func (b *LineBasis) InvVandermonde() utils.Matrix    { return b.Vinv }
func (b *LineBasis) InvFaceMatrix() utils.Matrix     { return b.invFace }
func (b *LineBasis) DofLocation() []types.Vector     { return b.dofLoc }
func (b *LineBasis) FaceDofLocation() []types.Vector { return b.faceDofLoc }

// CellVandermonde evaluates the modal basis at reference locations
func (b *LineBasis) CellVandermonde(loc []types.Vector) utils.Matrix {
	return Vandermonde1D(b.N, firstComponent(loc))
}

// FaceVandermonde evaluates the face basis, a single constant mode on a point face
func (b *LineBasis) FaceVandermonde(loc []types.Vector) utils.Matrix {
	V := utils.NewMatrix(len(loc), 1)
	for i := range loc {
		V.Set(i, 0, 1)
	}
	return V
}

func (b *LineBasis) PhysicalNodesLoc(vertices []types.Vector) (x []types.Vector, err error) {
	if len(vertices) != 2 {
		err = fmt.Errorf("%w: line cell needs 2 vertices, have %d",
			types.ErrInvalidArgument, len(vertices))
		return
	}
	x = MapVertices(b.dofLoc, vertices, lineVertexCoefficients)
	return
}

func (b *LineBasis) Dxdr(x []types.Vector) ([]types.Tensor, error) {
	return GeometricFactors([]utils.Matrix{b.dr}, x)
}

func (b *LineBasis) Drdx(xr []types.Tensor) ([]types.Tensor, error) {
	return InvertTensors(xr)
}

func (b *LineBasis) Jacobian(xr []types.Tensor) []float64 {
	return Determinants(xr)
}

func (b *LineBasis) FaceNxFscale(xr []types.Tensor, faceI int) (nx []types.Vector, fscale []float64, err error) {
	if err = b.checkFace(xr, faceI); err != nil {
		return
	}
	return FaceGeometry(xr, b.faceToCell[faceI][0], lineFaceNormals[faceI])
}

func (b *LineBasis) FaceFscale(xr []types.Tensor, faceI int) (fscale float64, err error) {
	var fs []float64
	if _, fs, err = b.FaceNxFscale(xr, faceI); err != nil {
		return
	}
	fscale = fs[0]
	return
}

// FaceNormal is the outward normal of faceI in reference coordinates
func (b *LineBasis) FaceNormal(faceI int) types.Vector { return lineFaceNormals[faceI] }

func (b *LineBasis) AddFaceShiftToCell(shift []types.Vector, faceI int, dofLoc []types.Vector) (err error) {
	return AddFaceShift(b.faceToCell, shift, faceI, dofLoc, b.Np)
}

func (b *LineBasis) ComputeMassMatrix() utils.Matrix {
	M, err := b.V.Mul(b.V.Transpose()).Inverse()
	if err != nil {
		panic(err)
	}
	return M
}

func (b *LineBasis) ComputeInvMassMatrix() utils.Matrix {
	return b.V.Mul(b.V.Transpose())
}

func (b *LineBasis) ComputeDrMatrix() []utils.Matrix {
	return []utils.Matrix{b.Vr.Mul(b.Vinv)}
}

func (b *LineBasis) ComputeLift() utils.Matrix {
	return Lift1D(b.V, b.Np, 2, 1)
}

func (b *LineBasis) ComputeCentreInterpolateMatrices() (cell, face utils.Matrix) {
	cell = b.CellVandermonde([]types.Vector{{0, 0, 0}}).Mul(b.Vinv)
	face = b.FaceVandermonde(b.faceDofLoc[:1]).Mul(b.invFace)
	return
}

func (b *LineBasis) checkFace(xr []types.Tensor, faceI int) error {
	if faceI < 0 || faceI >= 2 {
		return fmt.Errorf("%w: face %d of a line cell", types.ErrInvalidArgument, faceI)
	}
	if len(xr) != b.Np {
		return fmt.Errorf("%w: %d tensors supplied, need %d", types.ErrInvalidArgument, len(xr), b.Np)
	}
	return nil
}

func lineVertexCoefficients(r types.Vector) []float64 {
	return []float64{0.5 * (1 - r[0]), 0.5 * (1 + r[0])}
}

func firstComponent(loc []types.Vector) (r []float64) {
	r = make([]float64, len(loc))
	for i, l := range loc {
		r[i] = l[0]
	}
	return
}
