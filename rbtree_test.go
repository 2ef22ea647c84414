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
	"bytes"
	"flag"
	"fmt"
	"math"
	"math/rand"
	"reflect"
	"sort"
	"testing"

	"github.com/ansel1/merry"
)

var treeSize = flag.Int("size", 100, "number of elements in randomized tree tests")

func newIntTree() *Tree[int, int] {
	return New[int, int](Less[int](), identity[int])
}

func intRange(s int, reverse bool) []int {
	out := make([]int, s)
	for i := 0; i < s; i++ {
		v := i
		if reverse {
			v = s - i - 1
		}
		out[i] = v
	}
	return out
}

func intAll(t *Tree[int, int]) (out []int) {
	t.Ascend(func(a int) bool {
		out = append(out, a)
		return true
	})
	return
}

func intAllRev(t *Tree[int, int]) (out []int) {
	t.Descend(func(a int) bool {
		out = append(out, a)
		return true
	})
	return
}

func mustValidate(t testing.TB, tr *Tree[int, int]) {
	t.Helper()
	if err := tr.Validate(); err != nil {
		var buf bytes.Buffer
		tr.Print(&buf)
		t.Fatalf("%v\n%s", merry.Details(err), buf.String())
	}
}

func TestTree(t *testing.T) {
	tr := newIntTree()
	size := *treeSize
	for i := 0; i < 10; i++ {
		if min, ok := tr.Min(); ok || min != 0 {
			t.Fatalf("empty min, got %+v", min)
		}
		if max, ok := tr.Max(); ok || max != 0 {
			t.Fatalf("empty max, got %+v", max)
		}
		for _, item := range rand.Perm(size) {
			if _, ok, err := tr.Insert(item); !ok || err != nil {
				t.Fatal("insert found item", item, err)
			}
		}
		for _, item := range rand.Perm(size) {
			if pos, ok, err := tr.Insert(item); ok || err != nil || pos.Value() != item {
				t.Fatal("insert didn't find item", item, err)
			}
		}
		mustValidate(t, tr)
		if min, ok := tr.Min(); !ok || min != 0 {
			t.Fatalf("min: ok %v want %+v, got %+v", ok, 0, min)
		}
		if max, ok := tr.Max(); !ok || max != size-1 {
			t.Fatalf("max: ok %v want %+v, got %+v", ok, size-1, max)
		}
		got := intAll(tr)
		wantRange := intRange(size, false)
		if !reflect.DeepEqual(got, wantRange) {
			t.Fatalf("mismatch:\n got: %v\nwant: %v", got, wantRange)
		}

		gotrev := intAllRev(tr)
		wantrev := intRange(size, true)
		if !reflect.DeepEqual(gotrev, wantrev) {
			t.Fatalf("mismatch:\n got: %v\nwant: %v", gotrev, wantrev)
		}

		for _, item := range rand.Perm(size) {
			if n := tr.Erase(item); n != 1 {
				t.Fatalf("didn't find %v", item)
			}
		}
		if got = intAll(tr); len(got) > 0 {
			t.Fatalf("some left!: %v", got)
		}
		if got = intAllRev(tr); len(got) > 0 {
			t.Fatalf("some left!: %v", got)
		}
		mustValidate(t, tr)
	}
}

func ExampleTree() {
	tr := New[int, int](Less[int](), func(i int) int { return i })
	for i := 0; i < 10; i++ {
		tr.Insert(i)
	}
	fmt.Println("len:       ", tr.Len())
	v, ok := tr.Get(3)
	fmt.Println("get3:      ", v, ok)
	v, ok = tr.Get(100)
	fmt.Println("get100:    ", v, ok)
	fmt.Println("erase4:    ", tr.Erase(4))
	fmt.Println("erase100:  ", tr.Erase(100))
	_, ok, _ = tr.Insert(5)
	fmt.Println("insert5:   ", ok)
	_, ok, _ = tr.Insert(100)
	fmt.Println("insert100: ", ok)
	v, ok = tr.Min()
	fmt.Println("min:       ", v, ok)
	fmt.Println("lower4:    ", tr.LowerBound(4).Value())
	fmt.Println("upper5:    ", tr.UpperBound(5).Value())
	v, ok = tr.Max()
	fmt.Println("max:       ", v, ok)
	fmt.Println("last:      ", tr.Last().Value())
	fmt.Println("len:       ", tr.Len())
	// Output:
	// len:        10
	// get3:       3 true
	// get100:     0 false
	// erase4:     1
	// erase100:   0
	// insert5:    false
	// insert100:  true
	// min:        0 true
	// lower4:     5
	// upper5:     6
	// max:        100 true
	// last:       100
	// len:        10
}

func TestEmptyTree(t *testing.T) {
	tr := newIntTree()
	if !tr.Begin().Equal(tr.End()) || tr.Len() != 0 || !tr.Empty() {
		t.Fatalf("new tree: begin %v end %v len %d", tr.Begin(), tr.End(), tr.Len())
	}
	if !tr.Last().IsEnd() {
		t.Fatalf("last of empty tree: %v", tr.Last())
	}
	mustValidate(t, tr)

	tr.Insert(7)
	if tr.Begin().Equal(tr.End()) || tr.Begin().Value() != 7 {
		t.Fatalf("begin after insert: %v", tr.Begin())
	}
	if n := tr.Erase(7); n != 1 {
		t.Fatalf("erase: got %d", n)
	}
	if !tr.Begin().Equal(tr.End()) || tr.Len() != 0 {
		t.Fatalf("after erase: begin %v end %v len %d", tr.Begin(), tr.End(), tr.Len())
	}
	mustValidate(t, tr)
}

func TestSortedScenario(t *testing.T) {
	tr := newIntTree()
	if err := tr.InsertRange(5, 3, 8, 1, 4, 7, 9); err != nil {
		t.Fatal(err)
	}
	if got, want := intAll(tr), []int{1, 3, 4, 5, 7, 8, 9}; !reflect.DeepEqual(got, want) {
		t.Fatalf("in order:\n got: %v\nwant: %v", got, want)
	}
	if got := tr.LowerBound(6).Value(); got != 7 {
		t.Fatalf("lower bound of 6: got %v", got)
	}
	if got := tr.UpperBound(7).Value(); got != 8 {
		t.Fatalf("upper bound of 7: got %v", got)
	}
	if n := tr.Erase(5); n != 1 {
		t.Fatalf("erase 5: got %d", n)
	}
	if got, want := intAll(tr), []int{1, 3, 4, 7, 8, 9}; !reflect.DeepEqual(got, want) {
		t.Fatalf("after erase:\n got: %v\nwant: %v", got, want)
	}
	if tr.Len() != 6 {
		t.Fatalf("len: got %d", tr.Len())
	}
	if !tr.Find(5).IsEnd() {
		t.Fatalf("find erased key: %v", tr.Find(5))
	}
	mustValidate(t, tr)
}

func TestHeightBound(t *testing.T) {
	const n = 1000
	for _, reverse := range []bool{false, true} {
		tr := newIntTree()
		for _, v := range intRange(n, reverse) {
			tr.Insert(v + 1)
		}
		mustValidate(t, tr)
		if h, limit := tr.Height(), 2*math.Log2(n+1); float64(h) > limit {
			t.Fatalf("reverse=%v: height %d exceeds %v", reverse, h, limit)
		}
	}
}

func TestRandomOps(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	tr := newIntTree()
	want := map[int]bool{}
	for i := 0; i < 20000; i++ {
		k := r.Intn(500)
		if r.Intn(3) == 0 {
			n := tr.Erase(k)
			if (n == 1) != want[k] {
				t.Fatalf("op %d: erase %d returned %d, present %v", i, k, n, want[k])
			}
			delete(want, k)
			if !tr.Find(k).IsEnd() {
				t.Fatalf("op %d: %d still found after erase", i, k)
			}
		} else {
			_, ok, err := tr.Insert(k)
			if err != nil || ok == want[k] {
				t.Fatalf("op %d: insert %d returned %v %v, present %v", i, k, ok, err, want[k])
			}
			want[k] = true
			if tr.Find(k).Value() != k {
				t.Fatalf("op %d: %d not found after insert", i, k)
			}
		}
		if tr.Len() != len(want) {
			t.Fatalf("op %d: len %d, want %d", i, tr.Len(), len(want))
		}
		if i%97 == 0 {
			mustValidate(t, tr)
		}
	}
	mustValidate(t, tr)
	keys := make([]int, 0, len(want))
	for k := range want {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	if got := intAll(tr); !reflect.DeepEqual(got, keys) {
		t.Fatalf("mismatch:\n got: %v\nwant: %v", got, keys)
	}
}

func TestFixupCases(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	tr := newIntTree()
	for _, v := range r.Perm(2000) {
		tr.Insert(v)
	}
	for _, v := range r.Perm(2000) {
		tr.Erase(v)
	}
	mustValidate(t, tr)
	stats := tr.Stats()
	for c := fixupCase(0); c < numFixupCases; c++ {
		if n := stats["fixup."+c.String()].(uint64); n == 0 {
			t.Errorf("case %v never ran", c)
		}
	}
	if stats["n_inserts"].(uint64) != 2000 || stats["n_erases"].(uint64) != 2000 {
		t.Errorf("counters: %v", stats)
	}
	if stats["node.free"].(int64) != stats["node.slots"].(int64) {
		t.Errorf("empty tree should have every slot free: %v", stats)
	}
}

func TestRotate(t *testing.T) {
	tr := newIntTree()
	tr.InsertRange(2, 1, 3)
	restore := tr.pure()
	top := tr.root
	tr.rotateLeft(top)
	if got := tr.key(tr.root); got != 3 {
		t.Fatalf("root after rotateLeft: got %v", got)
	}
	if tr.n(top).parent != tr.root || tr.n(tr.root).child[left] != top {
		t.Fatalf("links after rotateLeft: parent %d root %d", tr.n(top).parent, tr.root)
	}
	if tr.n(top).child[right] != nilSlot {
		t.Fatalf("inner subtree not moved: %d", tr.n(top).child[right])
	}
	tr.rotateRight(tr.root)
	if tr.root != top {
		t.Fatalf("rotateRight did not undo rotateLeft")
	}
	restore()
	mustValidate(t, tr)
	if got := intAll(tr); !reflect.DeepEqual(got, []int{1, 2, 3}) {
		t.Fatalf("order after rotations: %v", got)
	}
}

func TestEraseAt(t *testing.T) {
	tr := newIntTree()
	for _, v := range rand.Perm(10) {
		tr.Insert(v)
	}
	pos := tr.Find(5)
	next := tr.EraseAt(pos)
	if next.Value() != 6 {
		t.Fatalf("next after erasing 5: %v", next)
	}
	if again := tr.EraseAt(pos); !again.Equal(pos) || tr.Len() != 9 {
		t.Fatalf("second erase: got %v, len %d", again, tr.Len())
	}
	if pos.Valid() {
		t.Fatalf("erased position still valid")
	}
	if !pos.Next().IsEnd() || !pos.Prev().IsEnd() {
		t.Fatalf("walking from an erased position: next %v prev %v", pos.Next(), pos.Prev())
	}

	// 42 takes the slot 5 had; the old position must not see it.
	reused, _, _ := tr.Insert(42)
	if reused.idx != pos.idx {
		t.Fatalf("slot not reused: %d vs %d", reused.idx, pos.idx)
	}
	if pos.Valid() || pos.Equal(reused) {
		t.Fatalf("stale position matches reused slot")
	}
	if !pos.Next().IsEnd() || !pos.Prev().IsEnd() {
		t.Fatalf("walking from a reused slot: next %v prev %v", pos.Next(), pos.Prev())
	}
	if got := tr.EraseAt(pos); !got.Equal(pos) || tr.Len() != 10 || !tr.Has(42) {
		t.Fatalf("stale erase changed the tree: %v len %d", got, tr.Len())
	}

	if got := tr.EraseAt(tr.End()); !got.IsEnd() || tr.Len() != 10 {
		t.Fatalf("erase at end: %v len %d", got, tr.Len())
	}
	other := newIntTree()
	other.Insert(1)
	if got := tr.EraseAt(other.Begin()); !got.Equal(other.Begin()) || tr.Len() != 10 || other.Len() != 1 {
		t.Fatalf("erase through foreign position: %v", got)
	}
	if got := tr.EraseAt(tr.Last()); !got.IsEnd() {
		t.Fatalf("erasing the maximum should return end: %v", got)
	}
	mustValidate(t, tr)
}

func TestEraseRange(t *testing.T) {
	tr := newIntTree()
	for _, v := range rand.Perm(10) {
		tr.Insert(v)
	}
	last := tr.Find(5)
	if got := tr.EraseRange(tr.Find(2), last); !got.Equal(last) {
		t.Fatalf("erase range returned %v", got)
	}
	if got, want := intAll(tr), []int{0, 1, 5, 6, 7, 8, 9}; !reflect.DeepEqual(got, want) {
		t.Fatalf("after erase range:\n got: %v\nwant: %v", got, want)
	}
	stale := tr.Find(6)
	tr.Erase(6)
	if got := tr.EraseRange(stale, tr.End()); !got.Equal(stale) || tr.Len() != 6 {
		t.Fatalf("erase range from stale position: %v len %d", got, tr.Len())
	}
	if got := tr.EraseRange(tr.Begin(), tr.End()); !got.IsEnd() || !tr.Empty() {
		t.Fatalf("erase everything: %v len %d", got, tr.Len())
	}
	mustValidate(t, tr)
}

func TestIteratorsSurviveErase(t *testing.T) {
	tr := newIntTree()
	for _, v := range rand.Perm(200) {
		tr.Insert(v)
	}
	held := map[int]Iterator[int]{}
	for k := 0; k < 200; k += 2 {
		held[k] = tr.Find(k)
	}
	for k := 1; k < 200; k += 2 {
		tr.Erase(k)
	}
	mustValidate(t, tr)
	for k, it := range held {
		if !it.Valid() || it.Value() != k {
			t.Fatalf("position on %d now reads %v", k, it)
		}
	}
	want := 0
	for it := held[0]; !it.IsEnd(); it = it.Next() {
		if it.Value() != want {
			t.Fatalf("walk: got %v want %v", it.Value(), want)
		}
		want += 2
	}
	if want != 200 {
		t.Fatalf("walk stopped at %d", want)
	}
	want = 198
	for it := held[198]; !it.IsEnd(); it = it.Prev() {
		if it.Value() != want {
			t.Fatalf("reverse walk: got %v want %v", it.Value(), want)
		}
		want -= 2
	}
}

func TestIteratorEnds(t *testing.T) {
	tr := newIntTree()
	tr.InsertRange(1, 2, 3)
	if got := tr.End().Prev().Value(); got != 3 {
		t.Fatalf("prev of end: %v", got)
	}
	if !tr.Begin().Prev().IsEnd() {
		t.Fatalf("prev of begin: %v", tr.Begin().Prev())
	}
	if !tr.End().Next().IsEnd() {
		t.Fatalf("next of end: %v", tr.End().Next())
	}
	var zero Iterator[int]
	if zero.Valid() || zero.IsEnd() || !zero.Next().Equal(zero) {
		t.Fatalf("zero iterator: %v", zero)
	}
	defer func() {
		if recover() == nil {
			t.Fatalf("dereferencing end did not panic")
		}
	}()
	tr.End().Value()
}

func TestBounds(t *testing.T) {
	tr := newIntTree()
	var keys []int
	for _, v := range rand.Perm(100) {
		tr.Insert(2 * v)
	}
	for k := 0; k < 200; k += 2 {
		keys = append(keys, k)
	}
	for q := -1; q <= 200; q++ {
		lb, ub := tr.EqualRange(q)
		if !lb.Equal(tr.LowerBound(q)) || !ub.Equal(tr.UpperBound(q)) {
			t.Fatalf("equal range of %d disagrees with bounds", q)
		}
		if i := sort.SearchInts(keys, q); i == len(keys) {
			if !lb.IsEnd() {
				t.Fatalf("lower bound of %d: got %v want end", q, lb)
			}
		} else if lb.Value() != keys[i] {
			t.Fatalf("lower bound of %d: got %v want %v", q, lb, keys[i])
		}
		if i := sort.SearchInts(keys, q+1); i == len(keys) {
			if !ub.IsEnd() {
				t.Fatalf("upper bound of %d: got %v want end", q, ub)
			}
		} else if ub.Value() != keys[i] {
			t.Fatalf("upper bound of %d: got %v want %v", q, ub, keys[i])
		}
	}
}

func TestAscendRange(t *testing.T) {
	tr := newIntTree()
	for _, v := range rand.Perm(100) {
		tr.Insert(v)
	}
	var got []int
	tr.AscendRange(40, 60, func(a int) bool {
		got = append(got, a)
		return true
	})
	if want := intRange(100, false)[40:60]; !reflect.DeepEqual(got, want) {
		t.Fatalf("ascendrange:\n got: %v\nwant: %v", got, want)
	}
	got = got[:0]
	tr.AscendRange(40, 60, func(a int) bool {
		if a > 50 {
			return false
		}
		got = append(got, a)
		return true
	})
	if want := intRange(100, false)[40:51]; !reflect.DeepEqual(got, want) {
		t.Fatalf("ascendrange:\n got: %v\nwant: %v", got, want)
	}
}

func TestDescendRange(t *testing.T) {
	tr := newIntTree()
	for _, v := range rand.Perm(100) {
		tr.Insert(v)
	}
	var got []int
	tr.DescendRange(60, 40, func(a int) bool {
		got = append(got, a)
		return true
	})
	if want := intRange(100, true)[39:59]; !reflect.DeepEqual(got, want) {
		t.Fatalf("descendrange:\n got: %v\nwant: %v", got, want)
	}
	got = got[:0]
	tr.DescendRange(60, 40, func(a int) bool {
		if a < 50 {
			return false
		}
		got = append(got, a)
		return true
	})
	if want := intRange(100, true)[39:50]; !reflect.DeepEqual(got, want) {
		t.Fatalf("descendrange:\n got: %v\nwant: %v", got, want)
	}
}

func TestAscendLessThan(t *testing.T) {
	tr := newIntTree()
	for _, v := range rand.Perm(100) {
		tr.Insert(v)
	}
	var got []int
	tr.AscendLessThan(60, func(a int) bool {
		got = append(got, a)
		return true
	})
	if want := intRange(100, false)[:60]; !reflect.DeepEqual(got, want) {
		t.Fatalf("ascendlessthan:\n got: %v\nwant: %v", got, want)
	}
}

func TestDescendLessOrEqual(t *testing.T) {
	tr := newIntTree()
	for _, v := range rand.Perm(100) {
		tr.Insert(v)
	}
	var got []int
	tr.DescendLessOrEqual(40, func(a int) bool {
		got = append(got, a)
		return true
	})
	if want := intRange(100, true)[59:]; !reflect.DeepEqual(got, want) {
		t.Fatalf("descendlessorequal:\n got: %v\nwant: %v", got, want)
	}
}

func TestAscendGreaterOrEqual(t *testing.T) {
	tr := newIntTree()
	for _, v := range rand.Perm(100) {
		tr.Insert(v)
	}
	var got []int
	tr.AscendGreaterOrEqual(40, func(a int) bool {
		got = append(got, a)
		return true
	})
	if want := intRange(100, false)[40:]; !reflect.DeepEqual(got, want) {
		t.Fatalf("ascendgreaterorequal:\n got: %v\nwant: %v", got, want)
	}
}

func TestDescendGreaterThan(t *testing.T) {
	tr := newIntTree()
	for _, v := range rand.Perm(100) {
		tr.Insert(v)
	}
	var got []int
	tr.DescendGreaterThan(40, func(a int) bool {
		got = append(got, a)
		return true
	})
	if want := intRange(100, true)[:59]; !reflect.DeepEqual(got, want) {
		t.Fatalf("descendgreaterthan:\n got: %v\nwant: %v", got, want)
	}
}

func TestSwap(t *testing.T) {
	a, b := newIntTree(), newIntTree()
	a.InsertRange(1, 2, 3, 4, 5)
	b.InsertRange(10, 11, 12)
	first := a.Begin()

	a.Swap(b)
	if got := intAll(a); !reflect.DeepEqual(got, []int{10, 11, 12}) {
		t.Fatalf("a after swap: %v", got)
	}
	if got := intAll(b); !reflect.DeepEqual(got, []int{1, 2, 3, 4, 5}) {
		t.Fatalf("b after swap: %v", got)
	}
	mustValidate(t, a)
	mustValidate(t, b)

	a.Swap(b)
	if got := intAll(a); !reflect.DeepEqual(got, []int{1, 2, 3, 4, 5}) {
		t.Fatalf("a after second swap: %v", got)
	}
	if got := intAll(b); !reflect.DeepEqual(got, []int{10, 11, 12}) {
		t.Fatalf("b after second swap: %v", got)
	}

	a.Swap(b)
	if got := a.EraseAt(first); !got.Equal(first) {
		t.Fatalf("position followed its element, a must not erase it")
	}
	if got := b.EraseAt(first); got.Value() != 2 {
		t.Fatalf("erase through followed position: %v", got)
	}
	mustValidate(t, b)
}

func TestClearAndClone(t *testing.T) {
	tr := newIntTree()
	for _, v := range rand.Perm(50) {
		tr.Insert(v)
	}
	held := tr.Find(10)
	c := tr.Clone()
	c.Insert(99)
	c.Erase(0)
	if tr.Has(99) || !tr.Has(0) || tr.Len() != 50 {
		t.Fatalf("clone is not independent")
	}
	if got, want := intAll(c), append(intRange(50, false)[1:], 99); !reflect.DeepEqual(got, want) {
		t.Fatalf("clone:\n got: %v\nwant: %v", got, want)
	}
	mustValidate(t, c)

	tr.Clear()
	if tr.Len() != 0 || !tr.Begin().IsEnd() || held.Valid() {
		t.Fatalf("clear left len %d begin %v", tr.Len(), tr.Begin())
	}
	mustValidate(t, tr)
	tr.InsertRange(3, 1, 2)
	if got := intAll(tr); !reflect.DeepEqual(got, []int{1, 2, 3}) {
		t.Fatalf("insert after clear: %v", got)
	}
	mustValidate(t, tr)
}

func TestCapacity(t *testing.T) {
	tr, err := NewWithConfig[int, int](Less[int](), identity[int], Config{MaxNodes: 3})
	if err != nil {
		t.Fatal(err)
	}
	if tr.MaxSize() != 3 {
		t.Fatalf("max size: %d", tr.MaxSize())
	}
	if err := tr.InsertRange(1, 2, 3); err != nil {
		t.Fatal(err)
	}
	pos, ok, err := tr.Insert(4)
	if !merry.Is(err, ErrCapacity) || ok || !pos.IsEnd() {
		t.Fatalf("insert past capacity: %v %v %v", pos, ok, err)
	}
	if _, ok, err := tr.Insert(2); ok || err != nil {
		t.Fatalf("duplicate at capacity: %v %v", ok, err)
	}
	if tr.Len() != 3 || tr.Has(4) {
		t.Fatalf("failed insert changed the tree")
	}
	mustValidate(t, tr)
	tr.Erase(1)
	if _, ok, err := tr.Insert(4); !ok || err != nil {
		t.Fatalf("insert after erase: %v %v", ok, err)
	}
	mustValidate(t, tr)
}

func TestConfig(t *testing.T) {
	if err := (Config{}).Validate(); err != nil {
		t.Fatal(err)
	}
	if err := (Config{MaxNodes: -1}).Validate(); !merry.Is(err, ErrConfig) {
		t.Fatalf("negative MaxNodes: %v", err)
	}
	if _, err := NewWithConfig[int, int](Less[int](), identity[int], Config{InitialCapacity: -5}); !merry.Is(err, ErrConfig) {
		t.Fatalf("negative InitialCapacity: %v", err)
	}
	if err := (Config{MaxNodes: 3, InitialCapacity: 4}).Validate(); !merry.Is(err, ErrConfig) {
		t.Fatalf("InitialCapacity above MaxNodes: %v", err)
	}
	if uint64(math.MaxInt) > maxSlots-2 {
		cfg := Config{InitialCapacity: math.MaxInt}
		if err := cfg.Validate(); !merry.Is(err, ErrConfig) {
			t.Fatalf("InitialCapacity beyond the arena: %v", err)
		}
		if tr, err := NewWithConfig[int, int](Less[int](), identity[int], cfg); tr != nil || !merry.Is(err, ErrConfig) {
			t.Fatalf("NewWithConfig with InitialCapacity beyond the arena: %v", err)
		}
	}
	small, err := NewWithConfig[int, int](Less[int](), identity[int], Config{MaxNodes: 3})
	if err != nil {
		t.Fatal(err)
	}
	if small.cfg.InitialCapacity != 3 {
		t.Fatalf("default reservation not clamped to MaxNodes: %d", small.cfg.InitialCapacity)
	}
	tr := newIntTree()
	if tr.MaxSize() <= 1<<31-3 {
		t.Fatalf("default max size too small: %d", tr.MaxSize())
	}
}

func TestValidateDetectsCorruption(t *testing.T) {
	tr := newIntTree()
	tr.InsertRange(2, 1, 3)
	tr.n(tr.root).color = red
	if err := tr.Validate(); !merry.Is(err, ErrInvariant) {
		t.Fatalf("red root not detected: %v", err)
	}
	tr.n(tr.root).color = black
	tr.length++
	if err := tr.Validate(); !merry.Is(err, ErrInvariant) {
		t.Fatalf("length mismatch not detected: %v", err)
	}
	tr.length--
	mustValidate(t, tr)
}

func TestPrint(t *testing.T) {
	tr := newIntTree()
	tr.InsertRange(2, 1, 3)
	var buf bytes.Buffer
	tr.Print(&buf)
	want := "    END\n  3 (red)\n2 (black)\n  1 (red)\n"
	if buf.String() != want {
		t.Fatalf("print:\n got: %q\nwant: %q", buf.String(), want)
	}
}

const benchmarkTreeSize = 10000

func BenchmarkInsert(b *testing.B) {
	b.StopTimer()
	insertP := rand.Perm(benchmarkTreeSize)
	b.StartTimer()
	i := 0
	for i < b.N {
		tr := newIntTree()
		for _, item := range insertP {
			tr.Insert(item)
			i++
			if i >= b.N {
				return
			}
		}
	}
}

func BenchmarkSeek(b *testing.B) {
	b.StopTimer()
	size := 100000
	insertP := rand.Perm(size)
	tr := newIntTree()
	for _, item := range insertP {
		tr.Insert(item)
	}
	b.StartTimer()

	for i := 0; i < b.N; i++ {
		tr.AscendGreaterOrEqual(i%size, func(i int) bool { return false })
	}
}

func BenchmarkDeleteInsert(b *testing.B) {
	b.StopTimer()
	insertP := rand.Perm(benchmarkTreeSize)
	tr := newIntTree()
	for _, item := range insertP {
		tr.Insert(item)
	}
	b.StartTimer()
	for i := 0; i < b.N; i++ {
		tr.Erase(insertP[i%benchmarkTreeSize])
		tr.Insert(insertP[i%benchmarkTreeSize])
	}
}

func BenchmarkGet(b *testing.B) {
	b.StopTimer()
	insertP := rand.Perm(benchmarkTreeSize)
	removeP := rand.Perm(benchmarkTreeSize)
	b.StartTimer()
	i := 0
	for i < b.N {
		b.StopTimer()
		tr := newIntTree()
		for _, v := range insertP {
			tr.Insert(v)
		}
		b.StartTimer()
		for _, item := range removeP {
			tr.Get(item)
			i++
			if i >= b.N {
				return
			}
		}
	}
}

func BenchmarkAscend(b *testing.B) {
	arr := rand.Perm(benchmarkTreeSize)
	tr := newIntTree()
	for _, v := range arr {
		tr.Insert(v)
	}
	sort.Ints(arr)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		j := 0
		tr.Ascend(func(item int) bool {
			if item != arr[j] {
				b.Fatalf("mismatch: expected: %v, got %v", arr[j], item)
			}
			j++
			return true
		})
	}
}

func BenchmarkDescend(b *testing.B) {
	arr := rand.Perm(benchmarkTreeSize)
	tr := newIntTree()
	for _, v := range arr {
		tr.Insert(v)
	}
	sort.Ints(arr)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		j := len(arr) - 1
		tr.Descend(func(item int) bool {
			if item != arr[j] {
				b.Fatalf("mismatch: expected: %v, got %v", arr[j], item)
			}
			j--
			return true
		})
	}
}

func BenchmarkClearRefill(b *testing.B) {
	items := rand.Perm(16392)
	tr := newIntTree()
	for _, v := range items {
		tr.Insert(v)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tr.Clear()
		for _, v := range items {
			tr.Insert(v)
		}
	}
}
