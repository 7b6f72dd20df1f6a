package DG2D

import (
	"fmt"
	"math"
	"sort"

	"github.com/notargets/dgamr/DG1D"
	"github.com/notargets/dgamr/types"
	"github.com/notargets/dgamr/utils"
)

/*
TriBasis is the nodal basis on the reference triangle (-1,-1), (1,-1), (-1,1)
with warp & blend dofs. Faces run counter-clockwise:

	face 0: v0 -> v1 (s = -1)
	face 1: v1 -> v2 (r + s = 0)
	face 2: v2 -> v0 (r = -1)

and the face coordinate t runs from -1 to 1 along the face direction.
*/
type TriBasis struct {
	N, Np, Nfp      int
	R, S            []float64
	V, Vinv, Vr, Vs utils.Matrix
	dr, ds          utils.Matrix
	invFace         utils.Matrix
	dofLoc          []types.Vector
	faceDofLoc      []types.Vector
	faceToCell      [][][]int
	faceRotate      [][]int
	faceVertex      [][]int
}

var triFaceNormals = []types.Vector{{0, -1, 0}, {1, 1, 0}, {-1, 0, 0}}

func NewTriBasis(N int) (b *TriBasis, err error) {
	if N < 1 {
		err = fmt.Errorf("%w: triangle basis order %d", types.ErrInvalidArgument, N)
		return
	}
	b = &TriBasis{
		N:   N,
		Np:  (N + 1) * (N + 2) / 2,
		Nfp: N + 1,
	}
	b.R, b.S = XYtoRS(Nodes2D(N))
	b.V = Vandermonde2D(N, b.R, b.S)
	if b.Vinv, err = b.V.Inverse(); err != nil {
		err = fmt.Errorf("triangle basis order %d: %w", N, err)
		return
	}
	b.Vr, b.Vs = GradVandermonde2D(N, b.R, b.S)
	b.dr, b.ds = b.Vr.Mul(b.Vinv), b.Vs.Mul(b.Vinv)
	b.dofLoc = make([]types.Vector, b.Np)
	for i := range b.R {
		b.dofLoc[i] = types.Vector{b.R[i], b.S[i], 0}
	}

	gll := DG1D.JacobiGL(0, 0, N)
	b.faceDofLoc = make([]types.Vector, b.Nfp)
	for i, t := range gll {
		b.faceDofLoc[i] = types.Vector{t, 0, 0}
	}
	if b.invFace, err = DG1D.Vandermonde1D(N, gll).Inverse(); err != nil {
		err = fmt.Errorf("triangle face matrix order %d: %w", N, err)
		return
	}
	if err = b.buildFaceIndex(); err != nil {
		return
	}
	identity := utils.NewRange(0, b.Nfp-1)
	b.faceRotate = [][]int{identity, identity.Reverse()}
	b.faceVertex = [][]int{{0, 1}, {1, 2}, {2, 0}}

	b.V.SetReadOnly("V")
	b.Vinv.SetReadOnly("Vinv")
	b.Vr.SetReadOnly("Vr")
	b.Vs.SetReadOnly("Vs")
	b.dr.SetReadOnly("Dr")
	b.ds.SetReadOnly("Ds")
	b.invFace.SetReadOnly("InvFaceMatrix")
	return
}

// faceT returns the face coordinate of a reference point lying on faceI
func faceT(faceI int, r, s float64) float64 {
	switch faceI {
	case 0:
		return r
	case 1:
		return s
	default:
		return -s
	}
}

func onFace(faceI int, r, s float64) bool {
	switch faceI {
	case 0:
		return math.Abs(s+1) < utils.NODETOL
	case 1:
		return math.Abs(r+s) < utils.NODETOL
	default:
		return math.Abs(r+1) < utils.NODETOL
	}
}

func (b *TriBasis) buildFaceIndex() error {
	b.faceToCell = make([][][]int, 3)
	for f := 0; f < 3; f++ {
		var idx []int
		for i := range b.R {
			if onFace(f, b.R[i], b.S[i]) {
				idx = append(idx, i)
			}
		}
		if len(idx) != b.Nfp {
			return fmt.Errorf("%w: face %d has %d dofs, expected %d",
				types.ErrInvalidState, f, len(idx), b.Nfp)
		}
		sort.Slice(idx, func(i, j int) bool {
			return faceT(f, b.R[idx[i]], b.S[idx[i]]) < faceT(f, b.R[idx[j]], b.S[idx[j]])
		})
		asc := utils.Index(idx)
		b.faceToCell[f] = [][]int{asc, asc.Reverse()}
	}
	return nil
}

func (b *TriBasis) NOrder() int                     { return b.N }
func (b *TriBasis) CellShape() types.CellShape      { return types.Tri }
func (b *TriBasis) NDofPerCell() int                { return b.Np }
func (b *TriBasis) NFacesPerCell() int              { return 3 }
func (b *TriBasis) NDofPerFace() int                { return b.Nfp }
func (b *TriBasis) NRotations() int                 { return 2 }
func (b *TriBasis) FaceToCellIndex() [][][]int      { return b.faceToCell }
func (b *TriBasis) FaceRotateIndex() [][]int        { return b.faceRotate }
func (b *TriBasis) FaceVertex() [][]int             { return b.faceVertex }
func (b *TriBasis) Vandermonde() utils.Matrix       { return b.V }
func (b *TriBasis) InvVandermonde() utils.Matrix    { return b.Vinv }
func (b *TriBasis) InvFaceMatrix() utils.Matrix     { return b.invFace }
func (b *TriBasis) DofLocation() []types.Vector     { return b.dofLoc }
func (b *TriBasis) FaceDofLocation() []types.Vector { return b.faceDofLoc }
func (b *TriBasis) FaceNormal(faceI int) types.Vector {
	return triFaceNormals[faceI]
}

func (b *TriBasis) CellVandermonde(loc []types.Vector) utils.Matrix {
	r, s := splitRS(loc)
	return Vandermonde2D(b.N, r, s)
}

// FaceVandermonde evaluates the 1D face basis at face coordinates loc[i][0]
func (b *TriBasis) FaceVandermonde(loc []types.Vector) utils.Matrix {
	t := make([]float64, len(loc))
	for i, l := range loc {
		t[i] = l[0]
	}
	return DG1D.Vandermonde1D(b.N, t)
}

func (b *TriBasis) PhysicalNodesLoc(vertices []types.Vector) (x []types.Vector, err error) {
	if len(vertices) != 3 {
		err = fmt.Errorf("%w: triangle needs 3 vertices, have %d",
			types.ErrInvalidArgument, len(vertices))
		return
	}
	x = DG1D.MapVertices(b.dofLoc, vertices, triVertexCoefficients)
	return
}

func (b *TriBasis) Dxdr(x []types.Vector) ([]types.Tensor, error) {
	return DG1D.GeometricFactors([]utils.Matrix{b.dr, b.ds}, x)
}

func (b *TriBasis) Drdx(xr []types.Tensor) ([]types.Tensor, error) {
	return DG1D.InvertTensors(xr)
}

func (b *TriBasis) Jacobian(xr []types.Tensor) []float64 {
	return DG1D.Determinants(xr)
}

func (b *TriBasis) FaceNxFscale(xr []types.Tensor, faceI int) (nx []types.Vector, fscale []float64, err error) {
	if err = b.checkFace(xr, faceI); err != nil {
		return
	}
	return DG1D.FaceGeometry(xr, b.faceToCell[faceI][0], triFaceNormals[faceI])
}

func (b *TriBasis) FaceFscale(xr []types.Tensor, faceI int) (fscale float64, err error) {
	var fs []float64
	if _, fs, err = b.FaceNxFscale(xr, faceI); err != nil {
		return
	}
	fscale = fs[0]
	return
}

func (b *TriBasis) AddFaceShiftToCell(shift []types.Vector, faceI int, dofLoc []types.Vector) error {
	return DG1D.AddFaceShift(b.faceToCell, shift, faceI, dofLoc, b.Np)
}

func (b *TriBasis) ComputeMassMatrix() utils.Matrix {
	M, err := b.V.Mul(b.V.Transpose()).Inverse()
	if err != nil {
		panic(err)
	}
	return M
}

func (b *TriBasis) ComputeInvMassMatrix() utils.Matrix {
	return b.V.Mul(b.V.Transpose())
}

func (b *TriBasis) ComputeDrMatrix() []utils.Matrix {
	return []utils.Matrix{b.Vr.Mul(b.Vinv), b.Vs.Mul(b.Vinv)}
}

// ComputeLift builds inv(M) * E where E holds the edge mass matrices of the
// three faces, columns ordered face by face in ascending face coordinate
func (b *TriBasis) ComputeLift() utils.Matrix {
	Emat := utils.NewMatrix(b.Np, 3*b.Nfp)
	V1D := b.FaceVandermonde(b.faceDofLoc)
	massEdge, err := V1D.Mul(V1D.Transpose()).Inverse()
	if err != nil {
		panic(err)
	}
	for f := 0; f < 3; f++ {
		for i, k := range b.faceToCell[f][0] {
			for j := 0; j < b.Nfp; j++ {
				Emat.Set(k, f*b.Nfp+j, massEdge.At(i, j))
			}
		}
	}
	return b.V.Mul(b.V.Transpose().Mul(Emat))
}

func (b *TriBasis) ComputeCentreInterpolateMatrices() (cell, face utils.Matrix) {
	cell = b.CellVandermonde([]types.Vector{{-1. / 3., -1. / 3., 0}}).Mul(b.Vinv)
	face = b.FaceVandermonde([]types.Vector{{0, 0, 0}}).Mul(b.invFace)
	return
}

func (b *TriBasis) checkFace(xr []types.Tensor, faceI int) error {
	if faceI < 0 || faceI >= 3 {
		return fmt.Errorf("%w: face %d of a triangle", types.ErrInvalidArgument, faceI)
	}
	if len(xr) != b.Np {
		return fmt.Errorf("%w: %d tensors supplied, need %d", types.ErrInvalidArgument, len(xr), b.Np)
	}
	return nil
}

func triVertexCoefficients(r types.Vector) []float64 {
	return []float64{-0.5 * (r[0] + r[1]), 0.5 * (1 + r[0]), 0.5 * (1 + r[1])}
}

func splitRS(loc []types.Vector) (r, s []float64) {
	r, s = make([]float64, len(loc)), make([]float64, len(loc))
	for i, l := range loc {
		r[i], s[i] = l[0], l[1]
	}
	return
}
