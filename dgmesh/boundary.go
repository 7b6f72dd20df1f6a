package dgmesh

import (
	"fmt"
	"sort"

	"github.com/notargets/dgamr/types"
)

// FaceRef names face Face of root cell Root
type FaceRef struct {
	Root, Face int
}

type faceKey [2]int

func newFaceKey(verts []int) (fk faceKey) {
	fk = faceKey{-1, -1}
	copy(fk[:], verts)
	if fk[1] >= 0 && fk[1] < fk[0] {
		fk[0], fk[1] = fk[1], fk[0]
	}
	return
}

/*
TagBoundary attaches boundary tags to root faces. Each marker lists faces by
their vertex indices, in any order. Every listed face must be a boundary face
of the root mesh. The result is also kept in m.Boundary, with each tag's faces
sorted by root and face.
*/
func (m *Mesh) TagBoundary(markers map[string][][]int) (tags map[string][]FaceRef, err error) {
	var (
		fv       = m.rootCell(0).Std.FaceVertex()
		boundary = make(map[faceKey]FaceRef)
	)
	for k := range m.EToE {
		for f, kn := range m.EToE[k] {
			if kn >= 0 {
				continue
			}
			verts := make([]int, len(fv[f]))
			for i, lv := range fv[f] {
				verts[i] = m.EToV[k][lv]
			}
			boundary[newFaceKey(verts)] = FaceRef{Root: k, Face: f}
		}
	}
	tags = make(map[string][]FaceRef, len(markers))
	for tag, faces := range markers {
		refs := make([]FaceRef, 0, len(faces))
		for _, verts := range faces {
			if len(verts) != len(fv[0]) {
				err = fmt.Errorf("%w: marker %s face %v needs %d vertices",
					types.ErrInvalidArgument, tag, verts, len(fv[0]))
				return
			}
			ref, ok := boundary[newFaceKey(verts)]
			if !ok {
				err = fmt.Errorf("%w: marker %s face %v is not a boundary face",
					types.ErrInvalidArgument, tag, verts)
				return
			}
			refs = append(refs, ref)
		}
		sort.Slice(refs, func(i, j int) bool {
			if refs[i].Root != refs[j].Root {
				return refs[i].Root < refs[j].Root
			}
			return refs[i].Face < refs[j].Face
		})
		tags[tag] = refs
	}
	m.Boundary = tags
	return
}

// Untagged lists the boundary faces no tag covers
func (m *Mesh) Untagged() (faces []FaceRef) {
	tagged := make(map[FaceRef]bool)
	for _, refs := range m.Boundary {
		for _, r := range refs {
			tagged[r] = true
		}
	}
	for k := range m.EToE {
		for f, kn := range m.EToE[k] {
			if kn < 0 && !tagged[FaceRef{k, f}] {
				faces = append(faces, FaceRef{k, f})
			}
		}
	}
	return
}
