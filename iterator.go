// Copyright 2014-2022 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package rbtree

import "fmt"

// Iterator is a position in a tree: an element, or End.
//
// Iterators are plain values. They hold no state besides the node they name
// and impose no bookkeeping on the tree: erasing an element invalidates only
// the iterators naming that element. Two iterators are equal when they name
// the same node.
type Iterator[E any] struct {
	a   *arena[E]
	idx uint32
	gen uint32
}

// Next returns the position after it. Next of the largest element is End;
// Next of End is End. Next of an erased element is End, even if its slot has
// since been reused.
func (it Iterator[E]) Next() Iterator[E] {
	if it.a == nil {
		return it
	}
	if it.stale() {
		return it.end()
	}
	it.idx = it.a.successor(it.idx)
	it.gen = it.a.nodes[it.idx].gen
	return it
}

// Prev returns the position before it. Prev of End is the largest element;
// Prev of the smallest element is End. Prev of an erased element is End.
func (it Iterator[E]) Prev() Iterator[E] {
	if it.a == nil {
		return it
	}
	if it.stale() {
		return it.end()
	}
	it.idx = it.a.predecessor(it.idx)
	it.gen = it.a.nodes[it.idx].gen
	return it
}

// stale reports whether it names neither End nor a live element.
func (it Iterator[E]) stale() bool {
	return it.idx != endSlot && !it.a.live(it.idx, it.gen)
}

func (it Iterator[E]) end() Iterator[E] {
	return Iterator[E]{a: it.a, idx: endSlot, gen: it.a.nodes[endSlot].gen}
}

// Value returns the element at it. It panics if it is End, a zero Iterator
// or an erased element.
func (it Iterator[E]) Value() E {
	if !it.Valid() {
		panic(fmt.Sprintf("rbtree: dereferencing %v", it))
	}
	return it.a.nodes[it.idx].elem
}

// Valid reports whether it names a live element.
func (it Iterator[E]) Valid() bool {
	return it.a != nil && it.a.live(it.idx, it.gen)
}

// IsEnd reports whether it is the one-past-the-last position of some tree.
func (it Iterator[E]) IsEnd() bool {
	return it.a != nil && it.idx == endSlot
}

// Equal reports whether it and o name the same node.
func (it Iterator[E]) Equal(o Iterator[E]) bool {
	return it.a == o.a && it.idx == o.idx && it.gen == o.gen
}

func (it Iterator[E]) String() string {
	switch {
	case it.a == nil:
		return "iterator(none)"
	case it.idx == endSlot:
		return "iterator(end)"
	case it.idx == nilSlot:
		return "iterator(nil)"
	case !it.Valid():
		return fmt.Sprintf("iterator(stale slot %d)", it.idx)
	}
	return fmt.Sprintf("iterator(%v)", it.a.nodes[it.idx].elem)
}

// Ascend calls the iterator for every element in the tree within the range
// [first, last], until iterator returns false.
func (t *Tree[K, E]) Ascend(iterator ItemIterator[E]) {
	t.ascend(t.Begin(), nil, iterator)
}

// AscendRange calls the iterator for every element in the tree within the
// range [greaterOrEqual, lessThan), until iterator returns false.
func (t *Tree[K, E]) AscendRange(greaterOrEqual, lessThan K, iterator ItemIterator[E]) {
	t.ascend(t.LowerBound(greaterOrEqual), &lessThan, iterator)
}

// AscendLessThan calls the iterator for every element in the tree within the
// range [first, pivot), until iterator returns false.
func (t *Tree[K, E]) AscendLessThan(pivot K, iterator ItemIterator[E]) {
	t.ascend(t.Begin(), &pivot, iterator)
}

// AscendGreaterOrEqual calls the iterator for every element in the tree
// within the range [pivot, last], until iterator returns false.
func (t *Tree[K, E]) AscendGreaterOrEqual(pivot K, iterator ItemIterator[E]) {
	t.ascend(t.LowerBound(pivot), nil, iterator)
}

// Descend calls the iterator for every element in the tree within the range
// [last, first], until iterator returns false.
func (t *Tree[K, E]) Descend(iterator ItemIterator[E]) {
	t.descend(t.Last(), nil, iterator)
}

// DescendRange calls the iterator for every element in the tree within the
// range [lessOrEqual, greaterThan), until iterator returns false.
func (t *Tree[K, E]) DescendRange(lessOrEqual, greaterThan K, iterator ItemIterator[E]) {
	t.descend(t.UpperBound(lessOrEqual).Prev(), &greaterThan, iterator)
}

// DescendLessOrEqual calls the iterator for every element in the tree within
// the range [pivot, first], until iterator returns false.
func (t *Tree[K, E]) DescendLessOrEqual(pivot K, iterator ItemIterator[E]) {
	t.descend(t.UpperBound(pivot).Prev(), nil, iterator)
}

// DescendGreaterThan calls the iterator for every element in the tree within
// the range [last, pivot), until iterator returns false.
func (t *Tree[K, E]) DescendGreaterThan(pivot K, iterator ItemIterator[E]) {
	t.descend(t.Last(), &pivot, iterator)
}

// ascend walks forward from start while keys stay below stop.
func (t *Tree[K, E]) ascend(start Iterator[E], stop *K, iterator ItemIterator[E]) {
	for it := start; !it.IsEnd(); it = it.Next() {
		elem := it.Value()
		if stop != nil && !t.less(t.keyOf(elem), *stop) {
			return
		}
		if !iterator(elem) {
			return
		}
	}
}

// descend walks backward from start while keys stay above stop.
func (t *Tree[K, E]) descend(start Iterator[E], stop *K, iterator ItemIterator[E]) {
	for it := start; !it.IsEnd(); it = it.Prev() {
		elem := it.Value()
		if stop != nil && !t.less(*stop, t.keyOf(elem)) {
			return
		}
		if !iterator(elem) {
			return
		}
	}
}
