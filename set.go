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

func identity[K any](k K) K {
	return k
}

// Set is an ordered set of unique keys, backed by a Tree whose elements are
// the keys themselves.
type Set[K any] struct {
	tree *Tree[K, K]
}

// NewSet creates an empty set for ordered key types.
func NewSet[K Ordered]() *Set[K] {
	return NewSetFunc[K](Less[K]())
}

// NewSetFunc creates an empty set ordered by less.
func NewSetFunc[K any](less LessFunc[K]) *Set[K] {
	return &Set[K]{tree: New[K, K](less, identity[K])}
}

// NewSetWithConfig creates an empty set with the given configuration.
func NewSetWithConfig[K any](less LessFunc[K], cfg Config) (*Set[K], error) {
	tree, err := NewWithConfig[K, K](less, identity[K], cfg)
	if err != nil {
		return nil, err
	}
	return &Set[K]{tree: tree}, nil
}

// Tree exposes the tree backing s.
func (s *Set[K]) Tree() *Tree[K, K] { return s.tree }

func (s *Set[K]) Len() int     { return s.tree.Len() }
func (s *Set[K]) Empty() bool  { return s.tree.Empty() }
func (s *Set[K]) MaxSize() int { return s.tree.MaxSize() }

// Insert adds k unless it is present. It returns the position of k and
// whether it was added.
func (s *Set[K]) Insert(k K) (Iterator[K], bool, error) { return s.tree.Insert(k) }

// InsertHint is Insert returning only the position; hint is ignored.
func (s *Set[K]) InsertHint(hint Iterator[K], k K) (Iterator[K], error) {
	return s.tree.InsertHint(hint, k)
}

// InsertRange inserts every key in order, skipping those already present.
func (s *Set[K]) InsertRange(keys ...K) error { return s.tree.InsertRange(keys...) }

func (s *Set[K]) Find(k K) Iterator[K] { return s.tree.Find(k) }
func (s *Set[K]) Contains(k K) bool    { return s.tree.Has(k) }

// Count returns 1 if k is present, else 0.
func (s *Set[K]) Count(k K) int {
	if s.tree.Has(k) {
		return 1
	}
	return 0
}

// Erase removes k and returns the number of keys removed.
func (s *Set[K]) Erase(k K) int { return s.tree.Erase(k) }

// EraseAt removes the key at pos and returns the following position. A
// stale pos is returned unchanged.
func (s *Set[K]) EraseAt(pos Iterator[K]) Iterator[K] { return s.tree.EraseAt(pos) }

// EraseRange removes [first, last).
func (s *Set[K]) EraseRange(first, last Iterator[K]) Iterator[K] {
	return s.tree.EraseRange(first, last)
}

func (s *Set[K]) LowerBound(k K) Iterator[K] { return s.tree.LowerBound(k) }
func (s *Set[K]) UpperBound(k K) Iterator[K] { return s.tree.UpperBound(k) }

func (s *Set[K]) EqualRange(k K) (Iterator[K], Iterator[K]) { return s.tree.EqualRange(k) }

func (s *Set[K]) Begin() Iterator[K] { return s.tree.Begin() }
func (s *Set[K]) End() Iterator[K]   { return s.tree.End() }
func (s *Set[K]) Last() Iterator[K]  { return s.tree.Last() }

// Ascend calls fn for every key in order until fn returns false.
func (s *Set[K]) Ascend(fn ItemIterator[K]) { s.tree.Ascend(fn) }

// Descend calls fn for every key in reverse order until fn returns false.
func (s *Set[K]) Descend(fn ItemIterator[K]) { s.tree.Descend(fn) }

// Keys returns the keys in order.
func (s *Set[K]) Keys() []K {
	keys := make([]K, 0, s.Len())
	s.tree.Ascend(func(k K) bool {
		keys = append(keys, k)
		return true
	})
	return keys
}

func (s *Set[K]) Clear()         { s.tree.Clear() }
func (s *Set[K]) Swap(o *Set[K]) { s.tree.Swap(o.tree) }

// Clone returns an independent copy of s.
func (s *Set[K]) Clone() *Set[K] { return &Set[K]{tree: s.tree.Clone()} }

// KeyLess returns the key ordering. ValueLess is the same function, since a
// set's values are its keys.
func (s *Set[K]) KeyLess() LessFunc[K]   { return s.tree.KeyLess() }
func (s *Set[K]) ValueLess() LessFunc[K] { return s.tree.KeyLess() }

// Equal reports whether s and o hold the same keys.
func (s *Set[K]) Equal(o *Set[K]) bool {
	less := s.tree.KeyLess()
	return Equal(s.tree, o.tree, func(x, y K) bool { return !less(x, y) && !less(y, x) })
}

// Compare orders s and o lexicographically. The result is -1, 0 or +1.
func (s *Set[K]) Compare(o *Set[K]) int {
	return Compare[K, K](s.tree, o.tree, s.tree.KeyLess())
}

// Validate checks the backing tree; see Tree.Validate.
func (s *Set[K]) Validate() error { return s.tree.Validate() }
