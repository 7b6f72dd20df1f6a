package element

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/golang/glog"

	"github.com/notargets/dgamr/types"
	"github.com/notargets/dgamr/utils"
)

type CacheKind uint8

const (
	MassMatrixCache CacheKind = iota
	InvMassMatrixCache
	DrMatrixCache
	LiftCache
	CentreInterpolateCache
)

var cacheKindNames = map[CacheKind]string{
	MassMatrixCache:        "MassMatrix",
	InvMassMatrixCache:     "InvMassMatrix",
	DrMatrixCache:          "DrMatrix",
	LiftCache:              "Lift",
	CentreInterpolateCache: "CentreInterpolateMatrix",
}

func (k CacheKind) String() string {
	if name, ok := cacheKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("CacheKind(%d)", uint8(k))
}

// matrixSlot is filled at most once, concurrent first callers block until the
// fill completes
type matrixSlot struct {
	once sync.Once
	done atomic.Bool
	M    utils.Matrix
	err  error
}

func (s *matrixSlot) fill(name string, f func() (utils.Matrix, error)) (utils.Matrix, error) {
	s.once.Do(func() {
		s.M, s.err = f()
		if s.err == nil {
			s.M.SetReadOnly(name)
		}
		s.done.Store(true)
	})
	return s.M, s.err
}

/*
StdElement is the standard (reference) element of one polynomial order and cell
shape. It owns its basis and cubature and lazily caches the operator matrices
derived from them. All cached matrices are read only and shared by every cell
that uses the element.
*/
type StdElement struct {
	bf BaseFunction
	gi GaussIntegration

	mass, invMass, lift matrixSlot
	dr                  struct {
		once sync.Once
		done atomic.Bool
		M    []utils.Matrix
	}
	centre struct {
		once       sync.Once
		done       atomic.Bool
		cell, face utils.Matrix
	}
	faceInterp      [MaxOrder + 1]matrixSlot
	gaussFaceInterp [MaxOrder + 1][]matrixSlot // [neighborOrder][rotate]
}

func NewStdElement(order int, shape types.CellShape) (se *StdElement, err error) {
	var (
		bf BaseFunction
		gi GaussIntegration
	)
	if bf, err = NewBaseFunction(order, shape); err != nil {
		return
	}
	if gi, err = NewGaussIntegration(bf); err != nil {
		return
	}
	se = NewStdElementFrom(bf, gi)
	return
}

// NewStdElementFrom takes sole ownership of bf and gi
func NewStdElementFrom(bf BaseFunction, gi GaussIntegration) (se *StdElement) {
	se = &StdElement{
		bf: bf,
		gi: gi,
	}
	for i := range se.gaussFaceInterp {
		se.gaussFaceInterp[i] = make([]matrixSlot, bf.NRotations())
	}
	return
}

func (se *StdElement) String() string {
	return fmt.Sprintf("%v order %d", se.bf.CellShape(), se.bf.NOrder())
}

// Basis queries
func (se *StdElement) NOrder() int                       { return se.bf.NOrder() }
func (se *StdElement) CellShape() types.CellShape        { return se.bf.CellShape() }
func (se *StdElement) NDofPerCell() int                  { return se.bf.NDofPerCell() }
func (se *StdElement) NFacesPerCell() int                { return se.bf.NFacesPerCell() }
func (se *StdElement) NDofPerFace() int                  { return se.bf.NDofPerFace() }
func (se *StdElement) NRotations() int                   { return se.bf.NRotations() }
func (se *StdElement) FaceToCellIndex() [][][]int        { return se.bf.FaceToCellIndex() }
func (se *StdElement) FaceRotateIndex() [][]int          { return se.bf.FaceRotateIndex() }
func (se *StdElement) FaceVertex() [][]int               { return se.bf.FaceVertex() }
func (se *StdElement) FaceNormal(faceI int) types.Vector { return se.bf.FaceNormal(faceI) }
func (se *StdElement) Vandermonde() utils.Matrix         { return se.bf.Vandermonde() }
func (se *StdElement) InvVandermonde() utils.Matrix      { return se.bf.InvVandermonde() }
func (se *StdElement) InvFaceMatrix() utils.Matrix       { return se.bf.InvFaceMatrix() }
func (se *StdElement) DofLocation() []types.Vector       { return se.bf.DofLocation() }
func (se *StdElement) FaceDofLocation() []types.Vector   { return se.bf.FaceDofLocation() }

func (se *StdElement) CellVandermonde(loc []types.Vector) utils.Matrix {
	return se.bf.CellVandermonde(loc)
}

func (se *StdElement) FaceVandermonde(loc []types.Vector) utils.Matrix {
	return se.bf.FaceVandermonde(loc)
}

// Geometry
func (se *StdElement) PhysicalNodesLoc(vertices []types.Vector) ([]types.Vector, error) {
	return se.bf.PhysicalNodesLoc(vertices)
}

func (se *StdElement) Dxdr(x []types.Vector) ([]types.Tensor, error) { return se.bf.Dxdr(x) }

func (se *StdElement) Drdx(xr []types.Tensor) ([]types.Tensor, error) { return se.bf.Drdx(xr) }

func (se *StdElement) Jacobian(xr []types.Tensor) []float64 { return se.bf.Jacobian(xr) }

func (se *StdElement) FaceNxFscale(xr []types.Tensor, faceI int) ([]types.Vector, []float64, error) {
	return se.bf.FaceNxFscale(xr, faceI)
}

func (se *StdElement) FaceFscale(xr []types.Tensor, faceI int) (float64, error) {
	return se.bf.FaceFscale(xr, faceI)
}

func (se *StdElement) AddFaceShiftToCell(shift []types.Vector, faceI int, dofLoc []types.Vector) error {
	return se.bf.AddFaceShiftToCell(shift, faceI, dofLoc)
}

// Cached operators
func (se *StdElement) MassMatrix() utils.Matrix {
	M, _ := se.mass.fill("MassMatrix", func() (utils.Matrix, error) {
		se.logFill(MassMatrixCache)
		return se.bf.ComputeMassMatrix(), nil
	})
	return M
}

func (se *StdElement) InvMassMatrix() utils.Matrix {
	M, _ := se.invMass.fill("InvMassMatrix", func() (utils.Matrix, error) {
		se.logFill(InvMassMatrixCache)
		return se.bf.ComputeInvMassMatrix(), nil
	})
	return M
}

// DrMatrix returns one differentiation matrix per reference direction
func (se *StdElement) DrMatrix() []utils.Matrix {
	se.dr.once.Do(func() {
		se.logFill(DrMatrixCache)
		se.dr.M = se.bf.ComputeDrMatrix()
		for i := range se.dr.M {
			se.dr.M[i].SetReadOnly(fmt.Sprintf("Dr[%d]", i))
		}
		se.dr.done.Store(true)
	})
	return se.dr.M
}

func (se *StdElement) Lift() utils.Matrix {
	M, _ := se.lift.fill("Lift", func() (utils.Matrix, error) {
		se.logFill(LiftCache)
		return se.bf.ComputeLift(), nil
	})
	return M
}

func (se *StdElement) fillCentre() {
	se.centre.once.Do(func() {
		se.logFill(CentreInterpolateCache)
		se.centre.cell, se.centre.face = se.bf.ComputeCentreInterpolateMatrices()
		se.centre.cell.SetReadOnly("CellCentreInterpolateMatrix")
		se.centre.face.SetReadOnly("FaceCentreInterpolateMatrix")
		se.centre.done.Store(true)
	})
}

func (se *StdElement) CellCentreInterpolateMatrix() utils.Matrix {
	se.fillCentre()
	return se.centre.cell
}

func (se *StdElement) FaceCentreInterpolateMatrix() utils.Matrix {
	se.fillCentre()
	return se.centre.face
}

// Computed reports whether a cache slot has been filled
func (se *StdElement) Computed(kind CacheKind) bool {
	switch kind {
	case MassMatrixCache:
		return se.mass.done.Load()
	case InvMassMatrixCache:
		return se.invMass.done.Load()
	case DrMatrixCache:
		return se.dr.done.Load()
	case LiftCache:
		return se.lift.done.Load()
	case CentreInterpolateCache:
		return se.centre.done.Load()
	}
	return false
}

func (se *StdElement) logFill(kind CacheKind) {
	glog.V(2).Infof("%v: computing %v", se, kind)
}

// CellInterpolateMatrix interpolates cell dof values to arbitrary reference locations
func (se *StdElement) CellInterpolateMatrix(loc []types.Vector) utils.Matrix {
	return se.bf.CellVandermonde(loc).Mul(se.bf.InvVandermonde())
}

// FaceInterpolateMatrixAt interpolates face dof values to arbitrary face locations
func (se *StdElement) FaceInterpolateMatrixAt(loc []types.Vector) utils.Matrix {
	return se.bf.FaceVandermonde(loc).Mul(se.bf.InvFaceMatrix())
}

// FaceInterpolateMatrix interpolates this element's face dofs onto the face
// dofs of an element of order neighborOrder
func (se *StdElement) FaceInterpolateMatrix(neighborOrder int) (utils.Matrix, error) {
	if err := CheckOrder("FaceInterpolateMatrix", neighborOrder); err != nil {
		return utils.Matrix{}, err
	}
	return se.faceInterp[neighborOrder].fill("FaceInterpolateMatrix", func() (R utils.Matrix, err error) {
		var nb BaseFunction
		if nb, err = NewBaseFunction(neighborOrder, se.bf.CellShape()); err != nil {
			return
		}
		glog.V(2).Infof("%v: computing FaceInterpolateMatrix to order %d", se, neighborOrder)
		R = se.FaceInterpolateMatrixAt(nb.FaceDofLocation())
		return
	})
}

/*
GaussFaceInterpolateMatrix interpolates this element's face dofs onto the face
cubature points of an element of order neighborOrder, with the columns permuted
by rotation rotate. The unrotated matrix is built once per neighbor order from a
temporary neighbor basis, the rotated ones are column permutations of it.
*/
func (se *StdElement) GaussFaceInterpolateMatrix(neighborOrder, rotate int) (R utils.Matrix, err error) {
	if err = CheckOrder("GaussFaceInterpolateMatrix", neighborOrder); err != nil {
		return
	}
	rotations := se.gaussFaceInterp[neighborOrder]
	if rotate < 0 || rotate >= len(rotations) {
		err = fmt.Errorf("%w: rotation %d, element has %d rotations",
			types.ErrInvalidArgument, rotate, len(rotations))
		return
	}
	base, err := rotations[0].fill("GaussFaceInterpolateMatrix", func() (R utils.Matrix, err error) {
		var (
			nb  BaseFunction
			ngi GaussIntegration
		)
		if nb, err = NewBaseFunction(neighborOrder, se.bf.CellShape()); err != nil {
			return
		}
		if ngi, err = NewGaussIntegration(nb); err != nil {
			return
		}
		glog.V(2).Infof("%v: computing GaussFaceInterpolateMatrix to order %d", se, neighborOrder)
		var (
			V     = se.bf.FaceVandermonde(ngi.FaceIntLocation())
			nr, _ = V.Dims()
			_, nc = se.bf.InvFaceMatrix().Dims()
		)
		R = utils.NewMatrix(nr, nc)
		err = V.MulInto(se.bf.InvFaceMatrix(), R)
		return
	})
	if err != nil || rotate == 0 {
		return base, err
	}
	return rotations[rotate].fill("GaussFaceInterpolateMatrix", func() (utils.Matrix, error) {
		return base.SliceCols(se.bf.FaceRotateIndex()[rotate]), nil
	})
}

// Cubature data
func (se *StdElement) GaussVolIntOrder() int                { return se.gi.VolIntOrder() }
func (se *StdElement) GaussNDofPerCell() int                { return se.gi.NDofPerCell() }
func (se *StdElement) GaussCellIntLocation() []types.Vector { return se.gi.CellIntLocation() }
func (se *StdElement) GaussCellIntWeights() []float64       { return se.gi.CellIntWeights() }
func (se *StdElement) GaussCellVandermonde() utils.Matrix   { return se.gi.CellVandermonde() }
func (se *StdElement) GaussCellDr() []utils.Matrix          { return se.gi.CellDr() }
func (se *StdElement) GaussFaceIntOrder() int               { return se.gi.FaceIntOrder() }
func (se *StdElement) GaussNDofPerFace() int                { return se.gi.NDofPerFace() }
func (se *StdElement) GaussFaceRotateIndex() [][]int        { return se.gi.FaceRotateIndex() }
func (se *StdElement) GaussFaceIntLocation() []types.Vector { return se.gi.FaceIntLocation() }
func (se *StdElement) GaussFaceIntWeights() []float64       { return se.gi.FaceIntWeights() }
func (se *StdElement) GaussFaceInterp() utils.Matrix        { return se.gi.FaceInterp() }

func (se *StdElement) GaussCellNodesLoc(vertices []types.Vector) ([]types.Vector, error) {
	return se.gi.GaussCellNodesLoc(vertices)
}

func (se *StdElement) GaussCellDxdr(x []types.Vector) ([]types.Tensor, error) {
	return se.gi.CellDxdr(x)
}

func (se *StdElement) GaussCellDrdx(xr []types.Tensor) ([]types.Tensor, error) {
	return se.gi.CellDrdx(xr)
}

// GaussCellWJ is the Jacobian times cubature weight at each cubature point
func (se *StdElement) GaussCellWJ(xr []types.Tensor) ([]float64, error) {
	return se.gi.CellWJ(xr)
}

// GaussFaceNxWJ is the outward unit normal and weight times face Jacobian at
// each face cubature point; xr is the dof tensor list of the cell
func (se *StdElement) GaussFaceNxWJ(xr []types.Tensor, faceI int) ([]types.Vector, []float64, error) {
	return se.gi.FaceNxWJ(xr, faceI)
}
