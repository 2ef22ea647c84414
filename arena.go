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

// color of a node. The zero value is red so that fresh nodes start red.
type color uint8

const (
	red color = iota
	black
)

func (c color) String() string {
	if c == black {
		return "black"
	}
	return "red"
}

// child link indices. Symmetric fixup cases are written once and mirrored
// by flipping the side with 1-side.
const (
	left  = 0
	right = 1
)

// Reserved arena slots. Neither is ever freed or handed out by newNode.
const (
	// nilSlot is the shared black leaf. Its parent link is written only
	// while a deletion is being repaired and is reset afterwards.
	nilSlot uint32 = 0
	// endSlot is the one-past-the-last position. Outside mutations it hangs
	// off the right of the maximum, or is the root of an empty tree.
	endSlot uint32 = 1
)

// node is a single slot in the arena.
type node[E any] struct {
	elem   E
	parent uint32
	child  [2]uint32
	color  color
	live   bool
	// gen is bumped every time the slot is freed, so a position taken
	// before the free no longer matches whatever reuses the slot.
	gen uint32
}

// arena owns every node of one tree, the two sentinels included. Links
// between nodes are slot indices, so growing the backing slice never
// invalidates them.
type arena[E any] struct {
	nodes    []node[E]
	freelist []uint32
}

func newArena[E any](capacity int) *arena[E] {
	a := &arena[E]{nodes: make([]node[E], 2, capacity+2)}
	a.nodes[nilSlot].color = black
	a.nodes[endSlot].color = black
	return a
}

// full reports whether newNode would have to grow past the index space.
func (a *arena[E]) full() bool {
	return len(a.freelist) == 0 && uint64(len(a.nodes)) >= maxSlots
}

// newNode returns a red, unlinked node holding elem, reusing a freed slot
// when one is available.
func (a *arena[E]) newNode(elem E) uint32 {
	var i uint32
	if index := len(a.freelist) - 1; index >= 0 {
		i = a.freelist[index]
		a.freelist = a.freelist[:index]
	} else {
		a.nodes = append(a.nodes, node[E]{})
		i = uint32(len(a.nodes) - 1)
	}
	n := &a.nodes[i]
	n.elem = elem
	n.parent = nilSlot
	n.child = [2]uint32{nilSlot, nilSlot}
	n.color = red
	n.live = true
	return i
}

// freeNode returns slot i to the free list.
func (a *arena[E]) freeNode(i uint32) {
	if i == nilSlot || i == endSlot {
		panic("rbtree: freeing a sentinel")
	}
	n := &a.nodes[i]
	var zero E
	n.elem = zero // clear to allow GC
	n.parent = nilSlot
	n.child = [2]uint32{nilSlot, nilSlot}
	n.color = red
	n.live = false
	n.gen++
	a.freelist = append(a.freelist, i)
}

// live reports whether slot i holds an element and still has generation gen.
func (a *arena[E]) live(i, gen uint32) bool {
	if i == nilSlot || i == endSlot || int(i) >= len(a.nodes) {
		return false
	}
	n := &a.nodes[i]
	return n.live && n.gen == gen
}

// successor returns the slot that follows i in key order. The maximum is
// followed by endSlot because endSlot is spliced in as its right child.
func (a *arena[E]) successor(i uint32) uint32 {
	if i == nilSlot || i == endSlot {
		return endSlot
	}
	nodes := a.nodes
	if r := nodes[i].child[right]; r != nilSlot {
		i = r
		for nodes[i].child[left] != nilSlot {
			i = nodes[i].child[left]
		}
		return i
	}
	p := nodes[i].parent
	for p != nilSlot && nodes[p].child[right] == i {
		i, p = p, nodes[p].parent
	}
	if p == nilSlot {
		// i was detached; there is nothing to climb to.
		return endSlot
	}
	return p
}

// predecessor returns the slot that precedes i in key order. endSlot is
// preceded by the maximum; the minimum is preceded by endSlot.
func (a *arena[E]) predecessor(i uint32) uint32 {
	nodes := a.nodes
	switch i {
	case nilSlot:
		return endSlot
	case endSlot:
		if p := nodes[endSlot].parent; p != nilSlot {
			return p
		}
		return endSlot
	}
	if l := nodes[i].child[left]; l != nilSlot {
		i = l
		for nodes[i].child[right] != nilSlot {
			i = nodes[i].child[right]
		}
		return i
	}
	p := nodes[i].parent
	for p != nilSlot && nodes[p].child[left] == i {
		i, p = p, nodes[p].parent
	}
	if p == nilSlot {
		return endSlot
	}
	return p
}
