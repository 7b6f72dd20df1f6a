package dgmesh

import (
	"fmt"

	"github.com/notargets/dgamr/types"
)

// Integrate sums f over every leaf using the cell cubature
func (m *Mesh) Integrate(f func(x types.Vector) float64) (total float64, err error) {
	seq, err := m.Tree.Leaves()
	if err != nil {
		return
	}
	for h, c := range seq {
		var (
			xq []types.Vector
			wj []float64
		)
		if xq, err = c.Std.GaussCellNodesLoc(c.Vertices); err != nil {
			return 0, fmt.Errorf("unit %d: %w", h, err)
		}
		if wj, err = c.cubatureWJ(); err != nil {
			return 0, fmt.Errorf("unit %d: %w", h, err)
		}
		for q, w := range wj {
			total += w * f(xq[q])
		}
	}
	return
}

// FaceFlux integrates F.n over the boundary of one cell using the face cubature.
// Face cubature locations come from interpolating the physical face dofs.
func (c *Cell) FaceFlux(F func(x types.Vector) types.Vector) (flux float64, err error) {
	var (
		se     = c.Std
		interp = se.GaussFaceInterp()
		nfp    = se.NDofPerFace()
	)
	for f := 0; f < se.NFacesPerCell(); f++ {
		var (
			nx []types.Vector
			wj []float64
		)
		if nx, wj, err = se.GaussFaceNxWJ(c.Xr, f); err != nil {
			return
		}
		faceIdx := se.FaceToCellIndex()[f][0]
		coord := make([]float64, nfp)
		var xq = make([]types.Vector, len(wj))
		for d := 0; d < 3; d++ {
			for i, k := range faceIdx {
				coord[i] = c.DofLoc[k][d]
			}
			for q, val := range interp.MulVec(coord) {
				xq[q][d] = val
			}
		}
		for q, w := range wj {
			flux += w * F(xq[q]).Dot(nx[q])
		}
	}
	return
}

// NetFlux sums FaceFlux over every leaf. Interior contributions cancel, so for
// a smooth F this is the integral of div F over the mesh.
func (m *Mesh) NetFlux(F func(x types.Vector) types.Vector) (total float64, err error) {
	seq, err := m.Tree.Leaves()
	if err != nil {
		return
	}
	for h, c := range seq {
		var flux float64
		if flux, err = c.FaceFlux(F); err != nil {
			return 0, fmt.Errorf("unit %d: %w", h, err)
		}
		total += flux
	}
	return
}
