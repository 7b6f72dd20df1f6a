package dgmesh

import (
	"fmt"

	"github.com/james-bowman/sparse"

	"github.com/notargets/dgamr/types"
	"github.com/notargets/dgamr/utils"
)

/*
Connect builds root cell connectivity. Faces that share all of their vertices
are neighbors; they are found from the face to face product of the sparse face
to vertex incidence matrix, whose entries count shared vertices.
*/
func (m *Mesh) Connect() (err error) {
	var (
		K  = len(m.EToV)
		Nv = len(m.VX)
	)
	if K == 0 || m.Tree.NRoots() != K {
		return fmt.Errorf("%w: %d root cells, %d in the tree", types.ErrInvalidArgument, K, m.Tree.NRoots())
	}
	var (
		se         = m.rootCell(0).Std
		Nfaces     = se.NFacesPerCell()
		faceVertex = se.FaceVertex()
		NvPerFace  = len(faceVertex[0])
		TotalFaces = K * Nfaces
	)
	SpFToVDOK := sparse.NewDOK(TotalFaces, Nv)
	var sk int
	for k := 0; k < K; k++ {
		for f := 0; f < Nfaces; f++ {
			for _, lv := range faceVertex[f] {
				SpFToVDOK.Set(sk, m.EToV[k][lv], 1)
			}
			sk++
		}
	}
	SpFToV := SpFToVDOK.ToCSR()
	SpFToF := sparse.NewCSR(TotalFaces, TotalFaces, nil, nil, nil)
	SpFToF.Mul(SpFToV, SpFToV.T())

	m.EToE, m.EToF = make([][]int, K), make([][]int, K)
	for k := range m.EToE {
		m.EToE[k], m.EToF[k] = make([]int, Nfaces), make([]int, Nfaces)
		for f := 0; f < Nfaces; f++ {
			m.EToE[k][f], m.EToF[k][f] = -1, -1
		}
	}
	SpFToF.DoNonZero(func(i, j int, v float64) {
		if i == j || int(v) != NvPerFace {
			return
		}
		k1, f1 := i/Nfaces, i%Nfaces
		m.EToE[k1][f1], m.EToF[k1][f1] = j/Nfaces, j%Nfaces
	})
	return
}

func (m *Mesh) rootCell(k int) (c *Cell) {
	c, _ = m.Tree.Payload(m.Tree.BaseLst()[k])
	return
}

func (m *Mesh) checkRootFace(k, f int) error {
	if k < 0 || k >= len(m.EToE) || f < 0 || f >= len(m.EToE[k]) {
		return fmt.Errorf("%w: root %d face %d", types.ErrInvalidArgument, k, f)
	}
	return nil
}

// FaceRotation is the rotation index of root k's face f as seen from the
// neighbor: 0 when both cells traverse the shared face vertices in the same
// order, 1 when reversed
func (m *Mesh) FaceRotation(k, f int) (rot int, err error) {
	if err = m.checkRootFace(k, f); err != nil {
		return
	}
	kn, fn := m.EToE[k][f], m.EToF[k][f]
	if kn < 0 {
		err = fmt.Errorf("%w: root %d face %d is on the boundary", types.ErrInvalidArgument, k, f)
		return
	}
	fv := m.rootCell(0).Std.FaceVertex()
	mine, theirs := m.EToV[k][fv[f][0]], m.EToV[kn][fv[fn][0]]
	if mine != theirs {
		rot = 1
	}
	return
}

// NeighborGaussInterp interpolates root k's face f dofs onto the face cubature
// points of the neighbor across it, in the neighbor's orientation
func (m *Mesh) NeighborGaussInterp(k, f int) (R utils.Matrix, err error) {
	var rot int
	if rot, err = m.FaceRotation(k, f); err != nil {
		return
	}
	neighbor := m.rootCell(m.EToE[k][f])
	return m.rootCell(k).Std.GaussFaceInterpolateMatrix(neighbor.Std.NOrder(), rot)
}
