package DG1D

import (
	"fmt"

	"github.com/notargets/dgamr/types"
	"github.com/notargets/dgamr/utils"
)

// GeometricFactors computes dx_j/dr_i at every dof from the reference derivative
// operators dr (one per reference direction) and the physical dof locations x.
// Directions beyond len(dr) keep identity entries so the tensor determinant is
// the cell Jacobian.
func GeometricFactors(dr []utils.Matrix, x []types.Vector) (xr []types.Tensor, err error) {
	if len(dr) == 0 {
		err = fmt.Errorf("%w: no derivative operators", types.ErrInvalidArgument)
		return
	}
	nr, nc := dr[0].Dims()
	if len(x) != nc {
		err = fmt.Errorf("%w: %d locations supplied, need %d", types.ErrInvalidArgument, len(x), nc)
		return
	}
	var (
		dim = len(dr)
		xj  = make([]float64, nc)
	)
	xr = make([]types.Tensor, nr)
	for p := range xr {
		xr[p] = types.IdentityTensor()
	}
	for j := 0; j < dim; j++ {
		for q, loc := range x {
			xj[q] = loc[j]
		}
		for i := 0; i < dim; i++ {
			for p, val := range dr[i].MulVec(xj) {
				xr[p].Set(i, j, val)
			}
		}
	}
	return
}

func InvertTensors(xr []types.Tensor) (rx []types.Tensor, err error) {
	rx = make([]types.Tensor, len(xr))
	for i, t := range xr {
		if rx[i], err = t.Inverse(); err != nil {
			err = fmt.Errorf("tensor %d: %w", i, err)
			return
		}
	}
	return
}

func Determinants(xr []types.Tensor) (J []float64) {
	J = make([]float64, len(xr))
	for i, t := range xr {
		J[i] = t.Det()
	}
	return
}

// MapVertices applies the linear vertex map: loc = sum_v coef(r)[v] * vertices[v]
func MapVertices(r []types.Vector, vertices []types.Vector,
	coef func(r types.Vector) []float64) (x []types.Vector) {
	x = make([]types.Vector, len(r))
	for i, rr := range r {
		for v, c := range coef(rr) {
			x[i] = x[i].Add(vertices[v].Scale(c))
		}
	}
	return
}

// FaceNormals scales the reference normal of a face by each inverse tensor,
// returning the unit normals and the length of the unscaled normal.
func FaceNormals(rx []types.Tensor, refNormal types.Vector) (nx []types.Vector, scale []float64) {
	nx, scale = make([]types.Vector, len(rx)), make([]float64, len(rx))
	for i, t := range rx {
		var n types.Vector
		for j := 0; j < 3; j++ {
			// n_j = sum_i refNormal_i * dr_i/dx_j
			for k := 0; k < 3; k++ {
				n[j] += refNormal[k] * t.At(j, k)
			}
		}
		nx[i], scale[i] = n.Unit()
	}
	return
}

// FaceGeometry evaluates the unit outward normal and the normal scale of a
// face at the cell dofs listed in cellIdx.
func FaceGeometry(xr []types.Tensor, cellIdx []int, refNormal types.Vector) (nx []types.Vector, scale []float64, err error) {
	var (
		at = make([]types.Tensor, len(cellIdx))
	)
	for i, k := range cellIdx {
		if k < 0 || k >= len(xr) {
			err = fmt.Errorf("%w: dof %d outside tensor list of length %d",
				types.ErrInvalidArgument, k, len(xr))
			return
		}
		at[i] = xr[k]
	}
	rx, err := InvertTensors(at)
	if err != nil {
		return
	}
	nx, scale = FaceNormals(rx, refNormal)
	return
}

// AddFaceShift adds a per face dof displacement onto the cell dofs of faceI
func AddFaceShift(faceToCell [][][]int, shift []types.Vector, faceI int, dofLoc []types.Vector, np int) error {
	if faceI < 0 || faceI >= len(faceToCell) {
		return fmt.Errorf("%w: face %d", types.ErrInvalidArgument, faceI)
	}
	idx := faceToCell[faceI][0]
	if len(shift) != len(idx) || len(dofLoc) != np {
		return fmt.Errorf("%w: shift length %d (need %d), dof list length %d (need %d)",
			types.ErrInvalidArgument, len(shift), len(idx), len(dofLoc), np)
	}
	for i, k := range idx {
		dofLoc[k] = dofLoc[k].Add(shift[i])
	}
	return nil
}

func CubatureWJ(w []float64, xr []types.Tensor) (wj []float64, err error) {
	if len(xr) != len(w) {
		err = fmt.Errorf("%w: %d tensors supplied, need %d", types.ErrInvalidArgument, len(xr), len(w))
		return
	}
	wj = make([]float64, len(w))
	for i, t := range xr {
		wj[i] = w[i] * t.Det()
	}
	return
}

// FaceWJ evaluates the normal and w*sJ at each face cubature point of a
// straight sided cell, using the tensor at cell dof k on the face.
func FaceWJ(xr []types.Tensor, k int, refNormal types.Vector, w []float64) (nx []types.Vector, wj []float64, err error) {
	var (
		n     []types.Vector
		scale []float64
	)
	if n, scale, err = FaceGeometry(xr, []int{k}, refNormal); err != nil {
		return
	}
	sJ := scale[0] * xr[k].Det()
	nx, wj = make([]types.Vector, len(w)), make([]float64, len(w))
	for i, wq := range w {
		nx[i] = n[0]
		wj[i] = wq * sJ
	}
	return
}
