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

// fixupCase names a branch of the rebalancing state machines. Each pass of
// insertFixup or deleteFixup classifies its situation into exactly one case
// before acting on it.
type fixupCase uint8

const (
	// insertUncleRed recolors parent and uncle black and the grandparent
	// red, moving the violation two levels up.
	insertUncleRed fixupCase = iota
	// insertStraighten rotates a zig-zag into a straight line, then
	// continues as insertRotate.
	insertStraighten
	// insertRotate recolors and rotates the grandparent; it ends the loop.
	insertRotate
	// deleteSiblingRed turns a red sibling into a black one by rotating the
	// parent toward x.
	deleteSiblingRed
	// deleteSiblingBlack pushes the missing black up by reddening the
	// sibling.
	deleteSiblingBlack
	// deleteNearChildRed rotates the sibling so that its far child is red,
	// then continues as deleteFarChildRed.
	deleteNearChildRed
	// deleteFarChildRed borrows a black from the sibling side; it ends the
	// loop.
	deleteFarChildRed

	numFixupCases
)

var fixupCaseNames = [numFixupCases]string{
	insertUncleRed:     "insert.uncle_red",
	insertStraighten:   "insert.straighten",
	insertRotate:       "insert.rotate",
	deleteSiblingRed:   "delete.sibling_red",
	deleteSiblingBlack: "delete.sibling_black",
	deleteNearChildRed: "delete.near_child_red",
	deleteFarChildRed:  "delete.far_child_red",
}

func (c fixupCase) String() string {
	if c < numFixupCases {
		return fixupCaseNames[c]
	}
	return "unknown"
}

// treeStats are counters kept by every mutation.
type treeStats struct {
	inserts   uint64
	erases    uint64
	rotations uint64
	cases     [numFixupCases]uint64
}

// Stats returns a snapshot of the tree's counters and shape:
//
//	n_count      number of elements
//	n_inserts    nodes linked in since creation
//	n_erases     nodes unlinked by erase (Clear does not count)
//	n_rotations  single rotations performed
//	n_blacks     black-height of the tree
//	h_height     longest root-to-leaf path, in nodes
//	node.slots   arena slots in use or free, sentinels excluded
//	node.free    arena slots waiting on the free list
//	fixup.<case> times each rebalancing case ran
func (t *Tree[K, E]) Stats() map[string]interface{} {
	stats := map[string]interface{}{
		"n_count":     int64(t.length),
		"n_inserts":   t.stats.inserts,
		"n_erases":    t.stats.erases,
		"n_rotations": t.stats.rotations,
		"n_blacks":    int64(t.blackHeight()),
		"h_height":    int64(t.Height()),
		"node.slots":  int64(len(t.a.nodes) - 2),
		"node.free":   int64(len(t.a.freelist)),
	}
	for c := fixupCase(0); c < numFixupCases; c++ {
		stats["fixup."+c.String()] = t.stats.cases[c]
	}
	return stats
}

// Height returns the number of elements on the longest path from the root
// down to a leaf. An empty tree has height 0.
func (t *Tree[K, E]) Height() int {
	return t.height(t.root)
}

func (t *Tree[K, E]) height(i uint32) int {
	if i == nilSlot || i == endSlot {
		return 0
	}
	l, r := t.height(t.n(i).child[left]), t.height(t.n(i).child[right])
	if l > r {
		return l + 1
	}
	return r + 1
}

// blackHeight counts the black nodes on the leftmost path, root included.
func (t *Tree[K, E]) blackHeight() int {
	blacks := 0
	for i := t.root; i != nilSlot && i != endSlot; i = t.n(i).child[left] {
		if t.n(i).color == black {
			blacks++
		}
	}
	return blacks
}
