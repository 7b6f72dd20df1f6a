package dgtree

import (
	"fmt"
	"iter"

	"github.com/notargets/dgamr/types"
)

/*
Iterator walks a tree depth first in pre-order: a unit is visited, then the
subtrees of its children in order, then its next sibling. Roots are visited in
root order. A leaf iterator skips units that have children.

Usage:

	it, err := tree.Begin()
	for ; err == nil && !it.End(); err = it.Next() {
		cell := it.Payload()
		...
	}
*/
type Iterator[T Refinable[T]] struct {
	tree       *Tree[T]
	leavesOnly bool
	stack      []Handle
	cur        Handle
	generation uint64
}

func (t *Tree[T]) newIterator(leavesOnly bool, partIndex []int) (it *Iterator[T], err error) {
	roots, err := t.selectRoots(partIndex)
	if err != nil {
		return
	}
	it = &Iterator[T]{
		tree:       t,
		leavesOnly: leavesOnly,
		stack:      make([]Handle, 0, len(roots)),
		generation: t.generation,
	}
	for i := len(roots) - 1; i >= 0; i-- {
		it.stack = append(it.stack, roots[i])
	}
	it.step()
	return
}

// Begin returns an iterator over every unit reachable from the selected roots
func (t *Tree[T]) Begin(partIndex ...int) (*Iterator[T], error) {
	return t.newIterator(false, partIndex)
}

// LeafBegin returns an iterator over the leaves reachable from the selected roots
func (t *Tree[T]) LeafBegin(partIndex ...int) (*Iterator[T], error) {
	return t.newIterator(true, partIndex)
}

func (it *Iterator[T]) step() {
	for len(it.stack) > 0 {
		h := it.stack[len(it.stack)-1]
		it.stack = it.stack[:len(it.stack)-1]
		ch := it.tree.units[h].Children
		for i := len(ch) - 1; i >= 0; i-- {
			it.stack = append(it.stack, ch[i])
		}
		if it.leavesOnly && len(ch) != 0 {
			continue
		}
		it.cur = h
		return
	}
	it.cur = NilHandle
}

func (it *Iterator[T]) End() bool      { return it.cur == NilHandle }
func (it *Iterator[T]) Handle() Handle { return it.cur }

func (it *Iterator[T]) Unit() Unit[T] { return it.tree.units[it.cur] }

func (it *Iterator[T]) Payload() T { return it.tree.units[it.cur].Payload }

// Next advances to the following unit. The tree must not have been refined
// since the iterator was created.
func (it *Iterator[T]) Next() error {
	if it.generation != it.tree.generation {
		return fmt.Errorf("%w: tree modified during traversal", types.ErrInvalidState)
	}
	if it.End() {
		return nil
	}
	it.step()
	return nil
}

func (t *Tree[T]) seq(leavesOnly bool, partIndex []int) (iter.Seq2[Handle, T], error) {
	// Validate up front so the sequence itself cannot fail on bad arguments
	if _, err := t.selectRoots(partIndex); err != nil {
		return nil, err
	}
	return func(yield func(Handle, T) bool) {
		it, err := t.newIterator(leavesOnly, partIndex)
		if err != nil {
			panic(err)
		}
		for !it.End() {
			if !yield(it.cur, it.Payload()) {
				return
			}
			if err = it.Next(); err != nil {
				panic(err)
			}
		}
	}, nil
}

// All ranges over every unit reachable from the selected roots. Refining the
// tree inside the loop panics with ErrInvalidState.
func (t *Tree[T]) All(partIndex ...int) (iter.Seq2[Handle, T], error) {
	return t.seq(false, partIndex)
}

// Leaves ranges over the leaves reachable from the selected roots
func (t *Tree[T]) Leaves(partIndex ...int) (iter.Seq2[Handle, T], error) {
	return t.seq(true, partIndex)
}
