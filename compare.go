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

// Equal reports whether a and b hold the same number of elements and eq
// holds for every pair of elements at the same position.
func Equal[K, E any](a, b *Tree[K, E], eq func(x, y E) bool) bool {
	if a.Len() != b.Len() {
		return false
	}
	for i, j := a.Begin(), b.Begin(); !i.IsEnd(); i, j = i.Next(), j.Next() {
		if !eq(i.Value(), j.Value()) {
			return false
		}
	}
	return true
}

// Compare orders a and b lexicographically by their elements, using less to
// compare elements at the same position. A tree that is a prefix of the
// other sorts first. The result is -1, 0 or +1.
func Compare[K, E any](a, b *Tree[K, E], less func(x, y E) bool) int {
	i, j := a.Begin(), b.Begin()
	for ; !i.IsEnd() && !j.IsEnd(); i, j = i.Next(), j.Next() {
		x, y := i.Value(), j.Value()
		switch {
		case less(x, y):
			return -1
		case less(y, x):
			return +1
		}
	}
	switch {
	case i.IsEnd() && !j.IsEnd():
		return -1
	case !i.IsEnd() && j.IsEnd():
		return +1
	}
	return 0
}
