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

// Pair is the element type of a Map.
type Pair[K, V any] struct {
	Key   K
	Value V
}

func pairKey[K, V any](p Pair[K, V]) K {
	return p.Key
}

// Map is an ordered map from unique keys to values, backed by a Tree of
// Pair elements.
type Map[K, V any] struct {
	tree *Tree[K, Pair[K, V]]
}

// NewMap creates an empty map for ordered key types.
func NewMap[K Ordered, V any]() *Map[K, V] {
	return NewMapFunc[K, V](Less[K]())
}

// NewMapFunc creates an empty map whose keys are ordered by less.
func NewMapFunc[K, V any](less LessFunc[K]) *Map[K, V] {
	return &Map[K, V]{tree: New[K, Pair[K, V]](less, pairKey[K, V])}
}

// NewMapWithConfig creates an empty map with the given configuration.
func NewMapWithConfig[K, V any](less LessFunc[K], cfg Config) (*Map[K, V], error) {
	tree, err := NewWithConfig[K, Pair[K, V]](less, pairKey[K, V], cfg)
	if err != nil {
		return nil, err
	}
	return &Map[K, V]{tree: tree}, nil
}

// Tree exposes the tree backing m.
func (m *Map[K, V]) Tree() *Tree[K, Pair[K, V]] {
	return m.tree
}

// Len returns the number of entries.
func (m *Map[K, V]) Len() int { return m.tree.Len() }

// Empty reports whether m has no entries.
func (m *Map[K, V]) Empty() bool { return m.tree.Empty() }

// MaxSize returns the largest number of entries m can hold.
func (m *Map[K, V]) MaxSize() int { return m.tree.MaxSize() }

// Insert adds k with value v unless k is already present, in which case the
// stored value is left alone. It returns the position of k and whether the
// entry was added.
func (m *Map[K, V]) Insert(k K, v V) (Iterator[Pair[K, V]], bool, error) {
	return m.tree.Insert(Pair[K, V]{Key: k, Value: v})
}

// InsertHint is Insert returning only the position; hint is ignored.
func (m *Map[K, V]) InsertHint(hint Iterator[Pair[K, V]], k K, v V) (Iterator[Pair[K, V]], error) {
	return m.tree.InsertHint(hint, Pair[K, V]{Key: k, Value: v})
}

// InsertRange inserts every pair in order, skipping keys already present.
func (m *Map[K, V]) InsertRange(pairs ...Pair[K, V]) error {
	return m.tree.InsertRange(pairs...)
}

// Set stores v under k, overwriting any existing value.
func (m *Map[K, V]) Set(k K, v V) error {
	pos, inserted, err := m.Insert(k, v)
	if err != nil || inserted {
		return err
	}
	m.tree.setAt(pos, Pair[K, V]{Key: pos.Value().Key, Value: v})
	return nil
}

// GetOrInsert returns the value stored under k, inserting the zero value
// first if k is absent.
func (m *Map[K, V]) GetOrInsert(k K) (V, error) {
	var zero V
	pos, _, err := m.Insert(k, zero)
	if err != nil {
		return zero, err
	}
	return pos.Value().Value, nil
}

// At returns the value stored under k, or ErrKeyNotFound.
func (m *Map[K, V]) At(k K) (V, error) {
	if p, ok := m.tree.Get(k); ok {
		return p.Value, nil
	}
	var zero V
	return zero, ErrKeyNotFound.Here().WithValue("key", k)
}

// Get returns the value stored under k and whether it was found.
func (m *Map[K, V]) Get(k K) (V, bool) {
	p, ok := m.tree.Get(k)
	return p.Value, ok
}

// SetAt replaces the value at pos. It returns false, changing nothing, if
// pos is not a live entry of m.
func (m *Map[K, V]) SetAt(pos Iterator[Pair[K, V]], v V) bool {
	if !m.tree.owns(pos) {
		return false
	}
	return m.tree.setAt(pos, Pair[K, V]{Key: pos.Value().Key, Value: v})
}

// Find returns the position of k, or End.
func (m *Map[K, V]) Find(k K) Iterator[Pair[K, V]] { return m.tree.Find(k) }

// Count returns 1 if k is present, else 0.
func (m *Map[K, V]) Count(k K) int {
	if m.tree.Has(k) {
		return 1
	}
	return 0
}

// Contains reports whether k is present.
func (m *Map[K, V]) Contains(k K) bool { return m.tree.Has(k) }

// Erase removes k and returns the number of entries removed.
func (m *Map[K, V]) Erase(k K) int { return m.tree.Erase(k) }

// EraseAt removes the entry at pos and returns the following position. A
// stale pos is returned unchanged.
func (m *Map[K, V]) EraseAt(pos Iterator[Pair[K, V]]) Iterator[Pair[K, V]] {
	return m.tree.EraseAt(pos)
}

// EraseRange removes [first, last).
func (m *Map[K, V]) EraseRange(first, last Iterator[Pair[K, V]]) Iterator[Pair[K, V]] {
	return m.tree.EraseRange(first, last)
}

// LowerBound returns the first position whose key is not before k.
func (m *Map[K, V]) LowerBound(k K) Iterator[Pair[K, V]] { return m.tree.LowerBound(k) }

// UpperBound returns the first position whose key is after k.
func (m *Map[K, V]) UpperBound(k K) Iterator[Pair[K, V]] { return m.tree.UpperBound(k) }

// EqualRange returns LowerBound(k) and UpperBound(k).
func (m *Map[K, V]) EqualRange(k K) (Iterator[Pair[K, V]], Iterator[Pair[K, V]]) {
	return m.tree.EqualRange(k)
}

func (m *Map[K, V]) Begin() Iterator[Pair[K, V]] { return m.tree.Begin() }
func (m *Map[K, V]) End() Iterator[Pair[K, V]]   { return m.tree.End() }
func (m *Map[K, V]) Last() Iterator[Pair[K, V]]  { return m.tree.Last() }

// Ascend calls fn for every entry in key order until fn returns false.
func (m *Map[K, V]) Ascend(fn func(k K, v V) bool) {
	m.tree.Ascend(func(p Pair[K, V]) bool { return fn(p.Key, p.Value) })
}

// AscendRange calls fn for every entry with a key in [greaterOrEqual,
// lessThan) until fn returns false.
func (m *Map[K, V]) AscendRange(greaterOrEqual, lessThan K, fn func(k K, v V) bool) {
	m.tree.AscendRange(greaterOrEqual, lessThan, func(p Pair[K, V]) bool { return fn(p.Key, p.Value) })
}

// Descend calls fn for every entry in reverse key order until fn returns
// false.
func (m *Map[K, V]) Descend(fn func(k K, v V) bool) {
	m.tree.Descend(func(p Pair[K, V]) bool { return fn(p.Key, p.Value) })
}

// Keys returns the keys in order.
func (m *Map[K, V]) Keys() []K {
	keys := make([]K, 0, m.Len())
	m.tree.Ascend(func(p Pair[K, V]) bool {
		keys = append(keys, p.Key)
		return true
	})
	return keys
}

// Values returns the values in key order.
func (m *Map[K, V]) Values() []V {
	values := make([]V, 0, m.Len())
	m.tree.Ascend(func(p Pair[K, V]) bool {
		values = append(values, p.Value)
		return true
	})
	return values
}

// Clear removes every entry.
func (m *Map[K, V]) Clear() { m.tree.Clear() }

// Swap exchanges the contents of m and o.
func (m *Map[K, V]) Swap(o *Map[K, V]) { m.tree.Swap(o.tree) }

// Clone returns an independent copy of m.
func (m *Map[K, V]) Clone() *Map[K, V] {
	return &Map[K, V]{tree: m.tree.Clone()}
}

// KeyLess returns the key ordering.
func (m *Map[K, V]) KeyLess() LessFunc[K] { return m.tree.KeyLess() }

// ValueLess returns an ordering of entries by key.
func (m *Map[K, V]) ValueLess() func(a, b Pair[K, V]) bool {
	less := m.tree.KeyLess()
	return func(a, b Pair[K, V]) bool { return less(a.Key, b.Key) }
}

// Equal reports whether m and o hold the same keys with values equal under
// eq.
func (m *Map[K, V]) Equal(o *Map[K, V], eq func(a, b V) bool) bool {
	less := m.tree.KeyLess()
	return Equal(m.tree, o.tree, func(x, y Pair[K, V]) bool {
		return !less(x.Key, y.Key) && !less(y.Key, x.Key) && eq(x.Value, y.Value)
	})
}

// Compare orders m and o lexicographically by (key, value) entries, values
// compared with vless. The result is -1, 0 or +1.
func (m *Map[K, V]) Compare(o *Map[K, V], vless func(a, b V) bool) int {
	less := m.tree.KeyLess()
	return Compare(m.tree, o.tree, func(x, y Pair[K, V]) bool {
		switch {
		case less(x.Key, y.Key):
			return true
		case less(y.Key, x.Key):
			return false
		}
		return vless(x.Value, y.Value)
	})
}

// Validate checks the backing tree; see Tree.Validate.
func (m *Map[K, V]) Validate() error { return m.tree.Validate() }
