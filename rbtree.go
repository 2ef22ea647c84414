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

// Package rbtree implements in-memory red-black trees and the ordered Map
// and Set types built on them.
//
// A Tree keeps its elements sorted by a key extracted from each element, at
// most one element per key, with logarithmic search, insertion and removal.
// Map and Set are the two usual instantiations: a Map stores Pair values
// keyed by Pair.Key, a Set stores keys directly.
//
// Nodes live in a per-tree arena and link to each other by slot index.
// Slot 0 is the black NIL leaf shared by every node; slot 1 is the END
// position, kept as the right child of the maximum so that stepping past the
// last element lands on it and stepping back from it reaches the maximum.
// Every structural mutation takes END out first and puts it back on the way
// out, so the balancing code only ever sees a tree terminated by NIL.
//
// Positions are Iterator values. An Iterator stays valid until the element
// it points at is erased; erasing through a stale Iterator is a no-op.
//
// Trees are not safe for concurrent use. Read operations may run
// concurrently with each other, but any mutation needs exclusive access.
package rbtree

import (
	"fmt"
	"io"
	"strings"
)

// Ordered represents the set of types for which the '<' operator work.
type Ordered interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr | ~float32 | ~float64 | ~string
}

// LessFunc determines how to order keys of type K. It must implement a
// strict weak ordering: two keys a and b with !less(a, b) && !less(b, a) are
// the same key, and a tree holds at most one of them.
type LessFunc[K any] func(a, b K) bool

// Less returns a default LessFunc that uses the '<' operator for types that
// support it.
func Less[K Ordered]() LessFunc[K] {
	return func(a, b K) bool { return a < b }
}

// KeyFunc extracts the ordering key from a stored element.
type KeyFunc[K, E any] func(elem E) K

// ItemIterator allows callers of {A/De}scend* to iterate in-order over
// portions of the tree. When this function returns false, iteration will
// stop and the associated Ascend* function will immediately return.
//
// The callback must not mutate the tree.
type ItemIterator[E any] func(elem E) bool

// Tree is a red-black tree of elements of type E ordered by keys of type K.
//
// Write operations are not safe for concurrent mutation by multiple
// goroutines, but Read operations are.
type Tree[K, E any] struct {
	a      *arena[E]
	root   uint32
	length int
	less   LessFunc[K]
	keyOf  KeyFunc[K, E]
	cfg    Config
	stats  treeStats
}

// New creates an empty tree using DefaultConfig.
//
// The passed-in LessFunc orders the keys that keyOf extracts from elements.
func New[K, E any](less LessFunc[K], keyOf KeyFunc[K, E]) *Tree[K, E] {
	return newTree(less, keyOf, DefaultConfig())
}

// NewWithConfig creates an empty tree with the given configuration. Zero
// fields of cfg take their defaults.
func NewWithConfig[K, E any](less LessFunc[K], keyOf KeyFunc[K, E], cfg Config) (*Tree[K, E], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return newTree(less, keyOf, cfg.withDefaults()), nil
}

func newTree[K, E any](less LessFunc[K], keyOf KeyFunc[K, E], cfg Config) *Tree[K, E] {
	if less == nil || keyOf == nil {
		panic("rbtree: nil LessFunc or KeyFunc")
	}
	return &Tree[K, E]{
		a:     newArena[E](cfg.InitialCapacity),
		root:  endSlot,
		less:  less,
		keyOf: keyOf,
		cfg:   cfg,
	}
}

// n returns the node in slot i. The pointer is only good until the next
// allocation.
func (t *Tree[K, E]) n(i uint32) *node[E] {
	return &t.a.nodes[i]
}

func (t *Tree[K, E]) key(i uint32) K {
	return t.keyOf(t.a.nodes[i].elem)
}

func (t *Tree[K, E]) iter(i uint32) Iterator[E] {
	return Iterator[E]{a: t.a, idx: i, gen: t.a.nodes[i].gen}
}

// search returns the slot holding key k, or nilSlot.
func (t *Tree[K, E]) search(k K) uint32 {
	i := t.root
	for i != nilSlot && i != endSlot {
		nk := t.key(i)
		switch {
		case t.less(nk, k):
			i = t.n(i).child[right]
		case t.less(k, nk):
			i = t.n(i).child[left]
		default:
			return i
		}
	}
	return nilSlot
}

// minimum returns the leftmost slot under i. For an empty tree, whose root
// is endSlot, that is endSlot itself.
func (t *Tree[K, E]) minimum(i uint32) uint32 {
	if i == nilSlot {
		return i
	}
	for t.n(i).child[left] != nilSlot {
		i = t.n(i).child[left]
	}
	return i
}

// maximum returns the rightmost element slot under i, never endSlot unless
// i is endSlot.
func (t *Tree[K, E]) maximum(i uint32) uint32 {
	if i == nilSlot {
		return i
	}
	for {
		r := t.n(i).child[right]
		if r == nilSlot || r == endSlot {
			return i
		}
		i = r
	}
}

// unsplice detaches endSlot, leaving a tree terminated by nilSlot only.
func (t *Tree[K, E]) unsplice() {
	end := t.n(endSlot)
	if t.root == endSlot {
		t.root = nilSlot
	} else {
		t.n(end.parent).child[right] = nilSlot
	}
	end.parent = nilSlot
}

// splice hangs endSlot off the maximum, or makes it the root of an empty
// tree.
func (t *Tree[K, E]) splice() {
	if t.root == nilSlot {
		t.root = endSlot
		t.n(endSlot).parent = nilSlot
		return
	}
	m := t.maximum(t.root)
	t.n(m).child[right] = endSlot
	t.n(endSlot).parent = m
}

// pure puts the tree in its NIL-terminated form and returns the func that
// restores END. Mutations run between the two:
//
//	defer t.pure()()
func (t *Tree[K, E]) pure() func() {
	t.unsplice()
	return t.splice
}

// side returns which child of its parent i is. i must not be the root.
func (t *Tree[K, E]) side(i uint32) int {
	if t.n(t.n(i).parent).child[left] == i {
		return left
	}
	return right
}

// rotate moves x down toward side d; its child on the other side takes its
// place under x's old parent.
func (t *Tree[K, E]) rotate(x uint32, d int) {
	y := t.n(x).child[1-d]
	inner := t.n(y).child[d]
	t.n(x).child[1-d] = inner
	if inner != nilSlot {
		t.n(inner).parent = x
	}
	p := t.n(x).parent
	t.n(y).parent = p
	switch {
	case p == nilSlot:
		t.root = y
	case t.n(p).child[left] == x:
		t.n(p).child[left] = y
	default:
		t.n(p).child[right] = y
	}
	t.n(y).child[d] = x
	t.n(x).parent = y
	t.stats.rotations++
}

func (t *Tree[K, E]) rotateLeft(x uint32) { t.rotate(x, left) }

func (t *Tree[K, E]) rotateRight(x uint32) { t.rotate(x, right) }

// alloc reserves a node for elem, or fails without touching the tree.
func (t *Tree[K, E]) alloc(elem E) (uint32, error) {
	if (t.cfg.MaxNodes > 0 && t.length >= t.cfg.MaxNodes) || t.a.full() {
		err := ErrCapacity.Here().WithValue("limit", t.MaxSize())
		t.cfg.Logger.WithField("len", t.length).Warn(err.Error())
		return nilSlot, err
	}
	return t.a.newNode(elem), nil
}

// insertNode links the fresh node z holding key k into the NIL-terminated
// tree and rebalances.
func (t *Tree[K, E]) insertNode(z uint32, k K) {
	y, x, dir := nilSlot, t.root, left
	for x != nilSlot {
		y = x
		if t.less(k, t.key(x)) {
			dir = left
		} else {
			dir = right
		}
		x = t.n(x).child[dir]
	}
	t.n(z).parent = y
	t.length++
	t.stats.inserts++
	if y == nilSlot {
		t.root = z
		t.n(z).color = black
		return
	}
	t.n(y).child[dir] = z
	t.insertFixup(z)
}

// insertFixup restores the red-black properties after the red node x was
// linked in. Only a red parent can be wrong.
func (t *Tree[K, E]) insertFixup(x uint32) {
	for x != t.root && t.n(t.n(x).parent).color == red {
		p := t.n(x).parent
		g := t.n(p).parent // p is red, so it is not the root
		side := t.side(p)
		u := t.n(g).child[1-side]
		c := t.insertCase(x, p, u, side)
		t.stats.cases[c]++
		switch c {
		case insertUncleRed:
			t.n(p).color = black
			t.n(u).color = black
			t.n(g).color = red
			x = g
		case insertStraighten:
			x = p
			t.rotate(x, side)
			p = t.n(x).parent
			fallthrough
		case insertRotate:
			t.n(p).color = black
			t.n(g).color = red
			t.rotate(g, 1-side)
		}
	}
	t.n(t.root).color = black
}

func (t *Tree[K, E]) insertCase(x, p, u uint32, side int) fixupCase {
	switch {
	case t.n(u).color == red:
		return insertUncleRed
	case t.n(p).child[1-side] == x:
		return insertStraighten
	default:
		return insertRotate
	}
}

// transplant puts v where u hangs. v's parent link is written even when v is
// nilSlot; deleteFixup climbs from there.
func (t *Tree[K, E]) transplant(u, v uint32) {
	p := t.n(u).parent
	switch {
	case p == nilSlot:
		t.root = v
	case t.n(p).child[left] == u:
		t.n(p).child[left] = v
	default:
		t.n(p).child[right] = v
	}
	t.n(v).parent = p
}

// deleteNode unlinks and frees z from the NIL-terminated tree and
// rebalances. Other nodes are relinked, never copied, so positions held on
// them stay valid.
func (t *Tree[K, E]) deleteNode(z uint32) {
	y, removed := z, t.n(z).color
	var x uint32
	switch {
	case t.n(z).child[left] == nilSlot:
		x = t.n(z).child[right]
		t.transplant(z, x)
	case t.n(z).child[right] == nilSlot:
		x = t.n(z).child[left]
		t.transplant(z, x)
	default:
		y = t.minimum(t.n(z).child[right])
		removed = t.n(y).color
		x = t.n(y).child[right]
		if t.n(y).parent == z {
			t.n(x).parent = y
		} else {
			t.transplant(y, x)
			t.n(y).child[right] = t.n(z).child[right]
			t.n(t.n(y).child[right]).parent = y
		}
		t.transplant(z, y)
		t.n(y).child[left] = t.n(z).child[left]
		t.n(t.n(y).child[left]).parent = y
		t.n(y).color = t.n(z).color
	}
	t.a.freeNode(z)
	t.length--
	t.stats.erases++
	if removed == black {
		t.deleteFixup(x)
	}
	t.n(nilSlot).parent = nilSlot
}

// deleteFixup restores the black-height after a black node was removed
// above x. x may be nilSlot, in which case its transient parent link says
// where it sits.
func (t *Tree[K, E]) deleteFixup(x uint32) {
	for x != t.root && t.n(x).color == black {
		p := t.n(x).parent
		side := left
		if t.n(p).child[left] != x {
			side = right
		}
		w := t.n(p).child[1-side]
		c := t.deleteCase(w, side)
		t.stats.cases[c]++
		switch c {
		case deleteSiblingRed:
			t.n(w).color = black
			t.n(p).color = red
			t.rotate(p, side)
			// x keeps its parent; the next pass sees a black sibling.
		case deleteSiblingBlack:
			t.n(w).color = red
			x = p
		case deleteNearChildRed:
			t.n(t.n(w).child[side]).color = black
			t.n(w).color = red
			t.rotate(w, 1-side)
			w = t.n(p).child[1-side]
			fallthrough
		case deleteFarChildRed:
			t.n(w).color = t.n(p).color
			t.n(p).color = black
			t.n(t.n(w).child[1-side]).color = black
			t.rotate(p, side)
			x = t.root
		}
	}
	t.n(x).color = black
}

func (t *Tree[K, E]) deleteCase(w uint32, side int) fixupCase {
	sib := t.n(w)
	switch {
	case sib.color == red:
		return deleteSiblingRed
	case t.n(sib.child[left]).color == black && t.n(sib.child[right]).color == black:
		return deleteSiblingBlack
	case t.n(sib.child[1-side]).color == black:
		return deleteNearChildRed
	default:
		return deleteFarChildRed
	}
}

// owns reports whether pos names a live element of t.
func (t *Tree[K, E]) owns(pos Iterator[E]) bool {
	return pos.a == t.a && t.a.live(pos.idx, pos.gen)
}

// Insert adds elem to the tree unless an element with the same key is
// already present. It returns the position of the element with that key and
// whether elem was added. A duplicate key is not an error and leaves the
// stored element untouched.
//
// The only error is ErrCapacity, returned before the tree is modified.
func (t *Tree[K, E]) Insert(elem E) (Iterator[E], bool, error) {
	k := t.keyOf(elem)
	if i := t.search(k); i != nilSlot {
		return t.iter(i), false, nil
	}
	z, err := t.alloc(elem)
	if err != nil {
		return t.End(), false, err
	}
	defer t.pure()()
	t.insertNode(z, k)
	return t.iter(z), true, nil
}

// InsertHint is Insert that returns only the position. The hint is accepted
// for compatibility and ignored.
func (t *Tree[K, E]) InsertHint(hint Iterator[E], elem E) (Iterator[E], error) {
	pos, _, err := t.Insert(elem)
	return pos, err
}

// InsertRange inserts every element in order, skipping duplicate keys. It
// stops at the first error.
func (t *Tree[K, E]) InsertRange(elems ...E) error {
	for _, elem := range elems {
		if _, _, err := t.Insert(elem); err != nil {
			return err
		}
	}
	return nil
}

// Erase removes the element with key k and returns the number of elements
// removed, 0 or 1.
func (t *Tree[K, E]) Erase(k K) int {
	z := t.search(k)
	if z == nilSlot {
		return 0
	}
	defer t.pure()()
	t.deleteNode(z)
	return 1
}

// EraseAt removes the element at pos and returns the position that followed
// it. If pos does not name a live element of t (End, a zero Iterator, an
// already erased element, an element of another tree) nothing happens and
// pos is returned unchanged.
func (t *Tree[K, E]) EraseAt(pos Iterator[E]) Iterator[E] {
	if !t.owns(pos) {
		t.cfg.Logger.WithField("pos", pos.String()).Debug("erase through stale position ignored")
		return pos
	}
	next := pos.Next()
	defer t.pure()()
	t.deleteNode(pos.idx)
	return next
}

// EraseRange removes the elements in [first, last) and returns last. If it
// meets a position that is not a live element of t it stops and returns that
// position, leaving the rest of the range in place.
func (t *Tree[K, E]) EraseRange(first, last Iterator[E]) Iterator[E] {
	for !first.Equal(last) {
		if !t.owns(first) {
			return first
		}
		first = t.EraseAt(first)
	}
	return first
}

// Find returns the position of the element with key k, or End.
func (t *Tree[K, E]) Find(k K) Iterator[E] {
	if i := t.search(k); i != nilSlot {
		return t.iter(i)
	}
	return t.End()
}

// Get looks for the element with key k, returning it. It returns
// (zeroValue, false) if unable to find that element.
func (t *Tree[K, E]) Get(k K) (_ E, _ bool) {
	if i := t.search(k); i != nilSlot {
		return t.n(i).elem, true
	}
	return
}

// Has returns true if the given key is in the tree.
func (t *Tree[K, E]) Has(k K) bool {
	return t.search(k) != nilSlot
}

// LowerBound returns the position of the first element whose key is not
// before k, or End.
func (t *Tree[K, E]) LowerBound(k K) Iterator[E] {
	pos, i := endSlot, t.root
	for i != nilSlot && i != endSlot {
		if !t.less(t.key(i), k) {
			pos, i = i, t.n(i).child[left]
		} else {
			i = t.n(i).child[right]
		}
	}
	return t.iter(pos)
}

// UpperBound returns the position of the first element whose key is after k,
// or End.
func (t *Tree[K, E]) UpperBound(k K) Iterator[E] {
	pos, i := endSlot, t.root
	for i != nilSlot && i != endSlot {
		if t.less(k, t.key(i)) {
			pos, i = i, t.n(i).child[left]
		} else {
			i = t.n(i).child[right]
		}
	}
	return t.iter(pos)
}

// EqualRange returns LowerBound(k) and UpperBound(k). Since keys are unique
// the range holds at most one element.
func (t *Tree[K, E]) EqualRange(k K) (Iterator[E], Iterator[E]) {
	return t.LowerBound(k), t.UpperBound(k)
}

// Begin returns the position of the smallest element, or End if the tree is
// empty.
func (t *Tree[K, E]) Begin() Iterator[E] {
	return t.iter(t.minimum(t.root))
}

// End returns the one-past-the-last position. It must not be dereferenced.
func (t *Tree[K, E]) End() Iterator[E] {
	return t.iter(endSlot)
}

// Last returns the position of the largest element, or End if the tree is
// empty. It is where a reverse walk starts.
func (t *Tree[K, E]) Last() Iterator[E] {
	return t.End().Prev()
}

// Min returns the smallest element in the tree, or (zeroValue, false) if the
// tree is empty.
func (t *Tree[K, E]) Min() (_ E, _ bool) {
	if t.length == 0 {
		return
	}
	return t.n(t.minimum(t.root)).elem, true
}

// Max returns the largest element in the tree, or (zeroValue, false) if the
// tree is empty.
func (t *Tree[K, E]) Max() (_ E, _ bool) {
	if t.length == 0 {
		return
	}
	return t.n(t.maximum(t.root)).elem, true
}

// Len returns the number of elements currently in the tree.
func (t *Tree[K, E]) Len() int {
	return t.length
}

// Empty reports whether the tree holds no elements.
func (t *Tree[K, E]) Empty() bool {
	return t.length == 0
}

// MaxSize returns the largest number of elements the tree can hold.
func (t *Tree[K, E]) MaxSize() int {
	return t.cfg.maxSize()
}

// KeyLess returns the LessFunc the tree orders keys with.
func (t *Tree[K, E]) KeyLess() LessFunc[K] {
	return t.less
}

// Clear removes all elements, freeing every node children first. Positions
// held on them become stale.
func (t *Tree[K, E]) Clear() {
	defer t.pure()()
	t.destroy(t.root)
	t.root = nilSlot
	t.length = 0
}

func (t *Tree[K, E]) destroy(i uint32) {
	if i == nilSlot {
		return
	}
	l, r := t.n(i).child[left], t.n(i).child[right]
	t.destroy(l)
	t.destroy(r)
	t.a.freeNode(i)
}

// Swap exchanges the contents of t and o in constant time. Positions follow
// their elements: one taken on t before the swap now points into o.
func (t *Tree[K, E]) Swap(o *Tree[K, E]) {
	*t, *o = *o, *t
}

// Clone returns an independent copy of t built by inserting every element of
// t in order into a new tree with the same ordering and configuration.
func (t *Tree[K, E]) Clone() *Tree[K, E] {
	c := newTree(t.less, t.keyOf, t.cfg)
	for it := t.Begin(); !it.IsEnd(); it = it.Next() {
		if _, _, err := c.Insert(it.Value()); err != nil {
			// c has the same limit as t, which already holds these.
			panic(err)
		}
	}
	return c
}

// setAt replaces the element at pos with elem. It refuses when pos is stale
// or elem has a different key.
func (t *Tree[K, E]) setAt(pos Iterator[E], elem E) bool {
	if !t.owns(pos) {
		return false
	}
	n := t.n(pos.idx)
	k, nk := t.keyOf(elem), t.keyOf(n.elem)
	if t.less(k, nk) || t.less(nk, k) {
		return false
	}
	n.elem = elem
	return true
}

// Print writes the tree sideways, right subtree first, one element per line.
// It is used for testing/debugging purposes.
func (t *Tree[K, E]) Print(w io.Writer) {
	t.print(w, t.root, 0)
}

func (t *Tree[K, E]) print(w io.Writer, i uint32, level int) {
	if i == nilSlot {
		return
	}
	n := t.n(i)
	if i == endSlot {
		fmt.Fprintf(w, "%sEND\n", strings.Repeat("  ", level))
		return
	}
	t.print(w, n.child[right], level+1)
	fmt.Fprintf(w, "%s%v (%s)\n", strings.Repeat("  ", level), n.elem, n.color)
	t.print(w, n.child[left], level+1)
}
