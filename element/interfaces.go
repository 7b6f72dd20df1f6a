package element

import (
	"github.com/notargets/dgamr/types"
	"github.com/notargets/dgamr/utils"
)

// BaseFunction is a nodal basis on a reference cell. Implementations are
// immutable once constructed; the Compute* builders return fresh matrices on
// every call and StdElement does the caching.
type BaseFunction interface {
	NOrder() int
	CellShape() types.CellShape
	NDofPerCell() int
	NFacesPerCell() int
	NDofPerFace() int
	NRotations() int
	FaceToCellIndex() [][][]int // [face][rotation][i] -> cell dof
	FaceRotateIndex() [][]int   // [rotation][i] -> face dof
	FaceVertex() [][]int
	FaceNormal(faceI int) types.Vector // reference outward normal, not normalized

	Vandermonde() utils.Matrix
	InvVandermonde() utils.Matrix
	InvFaceMatrix() utils.Matrix
	CellVandermonde(loc []types.Vector) utils.Matrix
	FaceVandermonde(loc []types.Vector) utils.Matrix
	DofLocation() []types.Vector
	FaceDofLocation() []types.Vector

	PhysicalNodesLoc(vertices []types.Vector) ([]types.Vector, error)
	Dxdr(x []types.Vector) ([]types.Tensor, error)
	Drdx(xr []types.Tensor) ([]types.Tensor, error)
	Jacobian(xr []types.Tensor) []float64
	FaceNxFscale(xr []types.Tensor, faceI int) (nx []types.Vector, fscale []float64, err error)
	FaceFscale(xr []types.Tensor, faceI int) (fscale float64, err error)
	AddFaceShiftToCell(shift []types.Vector, faceI int, dofLoc []types.Vector) error

	ComputeMassMatrix() utils.Matrix
	ComputeInvMassMatrix() utils.Matrix
	ComputeDrMatrix() []utils.Matrix
	ComputeLift() utils.Matrix
	ComputeCentreInterpolateMatrices() (cell, face utils.Matrix)
}

// GaussIntegration is the cubature paired with a BaseFunction
type GaussIntegration interface {
	VolIntOrder() int
	NDofPerCell() int
	CellIntLocation() []types.Vector
	CellIntWeights() []float64
	CellVandermonde() utils.Matrix // dofs -> cubature points
	CellDr() []utils.Matrix        // reference derivatives at cubature points
	GaussCellNodesLoc(vertices []types.Vector) ([]types.Vector, error)
	CellDxdr(x []types.Vector) ([]types.Tensor, error)
	CellDrdx(xr []types.Tensor) ([]types.Tensor, error)
	CellWJ(xr []types.Tensor) ([]float64, error)

	FaceIntOrder() int
	NDofPerFace() int
	FaceRotateIndex() [][]int
	FaceIntLocation() []types.Vector
	FaceIntWeights() []float64
	FaceInterp() utils.Matrix
	FaceNxWJ(xr []types.Tensor, faceI int) (nx []types.Vector, wj []float64, err error)
}
