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

import (
	"math"

	"github.com/ansel1/merry"
)

// maxHeight is the tallest a red-black tree of n elements may grow: twice
// the height of a perfectly balanced one.
func maxHeight(n int) float64 {
	return 2 * math.Log2(float64(n+1))
}

// Validate checks the structure of the tree and returns an ErrInvariant
// describing the first problem found:
//
//   - the NIL sentinel is black and unlinked; END hangs off the maximum
//   - the root is black and has no parent
//   - every parent link matches the child link pointing at it
//   - no red node has a red child
//   - every path from a node down to a leaf holds the same number of blacks
//   - keys increase strictly in order
//   - Len matches the number of reachable elements
//   - the height stays within 2*log2(n+1)
func (t *Tree[K, E]) Validate() error {
	err := t.validate()
	if err != nil {
		t.cfg.Logger.WithField("len", t.length).Error(merry.Details(err))
	}
	return err
}

func (t *Tree[K, E]) validate() error {
	sentinel, end := t.n(nilSlot), t.n(endSlot)
	switch {
	case sentinel.color != black:
		return ErrInvariant.Here().WithMessage("NIL sentinel is red")
	case sentinel.parent != nilSlot || sentinel.child != [2]uint32{nilSlot, nilSlot}:
		return ErrInvariant.Here().WithMessage("NIL sentinel is linked")
	case end.child != [2]uint32{nilSlot, nilSlot}:
		return ErrInvariant.Here().WithMessage("END sentinel has children")
	}

	if t.length == 0 {
		if t.root != endSlot || end.parent != nilSlot {
			return ErrInvariant.Here().WithMessage("empty tree is not rooted at END").
				WithValue("root", t.root)
		}
		return nil
	}
	if t.root == endSlot || t.root == nilSlot {
		return ErrInvariant.Here().WithMessagef("tree of %d elements has no root", t.length)
	}
	root := t.n(t.root)
	if root.color != black {
		return ErrInvariant.Here().WithMessage("root is red").WithValue("slot", t.root)
	}
	if root.parent != nilSlot {
		return ErrInvariant.Here().WithMessage("root has a parent").WithValue("slot", t.root)
	}
	if m := t.maximum(t.root); t.n(m).child[right] != endSlot || end.parent != m {
		return ErrInvariant.Here().WithMessage("END is not spliced after the maximum").
			WithValue("max", m).WithValue("end.parent", end.parent)
	}

	count, _, err := t.validateNode(t.root, nilSlot, nil, nil)
	if err != nil {
		return err
	}
	if count != t.length {
		return ErrInvariant.Here().WithMessagef("Len() is %d, found %d elements", t.length, count)
	}
	if h := t.Height(); float64(h) > maxHeight(count) {
		return ErrInvariant.Here().WithMessagef("height %d exceeds 2*log2(%d+1)", h, count)
	}
	return nil
}

// validateNode checks the subtree at i, whose keys must lie strictly between
// lo and hi when those are set. It returns the number of elements and the
// black-height of the subtree.
func (t *Tree[K, E]) validateNode(i, parent uint32, lo, hi *K) (count, blacks int, err error) {
	if i == nilSlot || i == endSlot {
		return 0, 0, nil
	}
	n := t.n(i)
	if !n.live {
		return 0, 0, ErrInvariant.Here().WithMessage("freed node is linked").WithValue("slot", i)
	}
	if n.parent != parent {
		return 0, 0, ErrInvariant.Here().WithMessage("parent link mismatch").
			WithValue("slot", i).WithValue("parent", n.parent).WithValue("want", parent)
	}
	k := t.keyOf(n.elem)
	if (lo != nil && !t.less(*lo, k)) || (hi != nil && !t.less(k, *hi)) {
		return 0, 0, ErrInvariant.Here().WithMessagef("key %v out of order", k).WithValue("slot", i)
	}
	if n.color == red && (t.n(n.child[left]).color == red || t.n(n.child[right]).color == red) {
		return 0, 0, ErrInvariant.Here().WithMessage("red node has a red child").WithValue("slot", i)
	}
	lcount, lblacks, err := t.validateNode(n.child[left], i, lo, &k)
	if err != nil {
		return 0, 0, err
	}
	rcount, rblacks, err := t.validateNode(n.child[right], i, &k, hi)
	if err != nil {
		return 0, 0, err
	}
	if lblacks != rblacks {
		return 0, 0, ErrInvariant.Here().WithMessagef("unbalanced blacks {%v,%v}", lblacks, rblacks).
			WithValue("slot", i)
	}
	if n.color == black {
		lblacks++
	}
	return lcount + rcount + 1, lblacks, nil
}
