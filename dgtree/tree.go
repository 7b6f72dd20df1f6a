/*
Package dgtree is an adaptive forest of refinable cells. Units live in an arena
and are addressed by Handle; refinement appends the children of a leaf and never
moves or removes existing units, so handles stay valid for the life of the tree.

A Tree is not safe for concurrent mutation. Concurrent traversals of a tree that
is not being refined are safe.
*/
package dgtree

import (
	"fmt"
	"sort"

	"github.com/golang/glog"

	"github.com/notargets/dgamr/types"
)

// Refinable payloads decide how they split: Refine returns the ordered
// payloads of the children
type Refinable[T any] interface {
	Refine() ([]T, error)
}

type Handle int

const NilHandle Handle = -1

type Unit[T any] struct {
	Payload  T
	Parent   Handle
	Children []Handle
	Index    int // position among siblings, or among the roots for a root
	Level    int
}

func (u Unit[T]) IsLeaf() bool { return len(u.Children) == 0 }
func (u Unit[T]) IsRoot() bool { return u.Parent == NilHandle }

type Tree[T Refinable[T]] struct {
	units          []Unit[T]
	baseLst        []Handle
	size, leafSize int
	generation     uint64
}

func New[T Refinable[T]](rootCount int, roots []T) (t *Tree[T], err error) {
	t = &Tree[T]{}
	if err = t.Initial(rootCount, roots); err != nil {
		t = nil
	}
	return
}

// Initial discards any existing units and makes every payload in roots a leaf root
func (t *Tree[T]) Initial(rootCount int, roots []T) (err error) {
	if rootCount != len(roots) {
		err = fmt.Errorf("%w: root count %d does not match %d roots supplied",
			types.ErrInvalidArgument, rootCount, len(roots))
		return
	}
	t.units = make([]Unit[T], rootCount)
	t.baseLst = make([]Handle, rootCount)
	for i, p := range roots {
		t.units[i] = Unit[T]{
			Payload: p,
			Parent:  NilHandle,
			Index:   i,
		}
		t.baseLst[i] = Handle(i)
	}
	t.size, t.leafSize = rootCount, rootCount
	t.generation++
	return
}

// Refine splits leaf h into the children produced by its payload
func (t *Tree[T]) Refine(h Handle) (children []Handle, err error) {
	if !t.valid(h) {
		err = fmt.Errorf("%w: handle %d not in tree of %d units", types.ErrInvalidArgument, h, len(t.units))
		return
	}
	if !t.units[h].IsLeaf() {
		err = fmt.Errorf("%w: unit %d is already refined", types.ErrInvalidState, h)
		return
	}
	payloads, err := t.units[h].Payload.Refine()
	if err != nil {
		err = fmt.Errorf("refine unit %d: %w", h, err)
		return
	}
	if len(payloads) == 0 {
		err = fmt.Errorf("%w: refinement of unit %d produced no children", types.ErrInvalidState, h)
		return
	}
	level := t.units[h].Level + 1
	children = make([]Handle, len(payloads))
	for i, p := range payloads {
		children[i] = Handle(len(t.units))
		t.units = append(t.units, Unit[T]{
			Payload: p,
			Parent:  h,
			Index:   i,
			Level:   level,
		})
	}
	t.units[h].Children = children
	k := len(children)
	t.size += k
	t.leafSize += k - 1
	t.generation++
	glog.V(3).Infof("refined unit %d at level %d into %d children", h, level-1, k)
	return
}

// BaseLst returns the root handles in root order
func (t *Tree[T]) BaseLst() []Handle {
	R := make([]Handle, len(t.baseLst))
	copy(R, t.baseLst)
	return R
}

func (t *Tree[T]) Size() int     { return t.size }
func (t *Tree[T]) LeafSize() int { return t.leafSize }
func (t *Tree[T]) NRoots() int   { return len(t.baseLst) }

func (t *Tree[T]) valid(h Handle) bool { return h >= 0 && int(h) < len(t.units) }

func (t *Tree[T]) Unit(h Handle) (u Unit[T], err error) {
	if !t.valid(h) {
		err = fmt.Errorf("%w: handle %d", types.ErrInvalidArgument, h)
		return
	}
	u = t.units[h]
	return
}

func (t *Tree[T]) Payload(h Handle) (p T, err error) {
	var u Unit[T]
	if u, err = t.Unit(h); err != nil {
		return
	}
	p = u.Payload
	return
}

// The structural accessors below panic when h is not a handle of this tree
func (t *Tree[T]) mustUnit(h Handle) *Unit[T] {
	if !t.valid(h) {
		panic(fmt.Errorf("%w: handle %d", types.ErrInvalidArgument, h))
	}
	return &t.units[h]
}

func (t *Tree[T]) Parent(h Handle) Handle { return t.mustUnit(h).Parent }
func (t *Tree[T]) IsLeaf(h Handle) bool   { return t.mustUnit(h).IsLeaf() }
func (t *Tree[T]) IsRoot(h Handle) bool   { return t.mustUnit(h).IsRoot() }
func (t *Tree[T]) Level(h Handle) int     { return t.mustUnit(h).Level }

func (t *Tree[T]) Children(h Handle) []Handle {
	ch := t.mustUnit(h).Children
	R := make([]Handle, len(ch))
	copy(R, ch)
	return R
}

// Root returns the root index of the tree containing h
func (t *Tree[T]) Root(h Handle) int {
	u := t.mustUnit(h)
	for !u.IsRoot() {
		u = &t.units[u.Parent]
	}
	return u.Index
}

// selectRoots returns the root handles named by partIndex in root order, or
// all roots when partIndex is empty
func (t *Tree[T]) selectRoots(partIndex []int) (roots []Handle, err error) {
	if len(partIndex) == 0 {
		return t.baseLst, nil
	}
	idx := make([]int, len(partIndex))
	copy(idx, partIndex)
	sort.Ints(idx)
	roots = make([]Handle, len(idx))
	for i, k := range idx {
		if k < 0 || k >= len(t.baseLst) {
			err = fmt.Errorf("%w: partIndex %d outside %d roots", types.ErrInvalidArgument, k, len(t.baseLst))
			return nil, err
		}
		if i > 0 && idx[i-1] == k {
			err = fmt.Errorf("%w: partIndex %d repeated", types.ErrInvalidArgument, k)
			return nil, err
		}
		roots[i] = t.baseLst[k]
	}
	return
}

// Count walks the selected roots and returns the number of units and leaves
func (t *Tree[T]) Count(partIndex ...int) (units, leaves int, err error) {
	it, err := t.Begin(partIndex...)
	if err != nil {
		return
	}
	for ; !it.End(); it.step() {
		units++
		if t.units[it.cur].IsLeaf() {
			leaves++
		}
	}
	return
}

// LeafHandles snapshots the leaves of the selected roots in traversal order
func (t *Tree[T]) LeafHandles(partIndex ...int) (leaves []Handle, err error) {
	it, err := t.LeafBegin(partIndex...)
	if err != nil {
		return
	}
	leaves = make([]Handle, 0, t.leafSize)
	for ; !it.End(); it.step() {
		leaves = append(leaves, it.cur)
	}
	return
}
