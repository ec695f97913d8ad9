// © 2025 calyx authors. MIT License.

package containers

import (
	"errors"
	"testing"
)

func TestArraySizeCapacityInvariant(t *testing.T) {
	a := NewArray[int]()
	check := func(op string) {
		if a.Size() < 0 || a.Size() > a.Capacity() {
			t.Fatalf("%s: size %d capacity %d violates 0 <= size <= capacity", op, a.Size(), a.Capacity())
		}
	}
	check("fresh")
	for i := 0; i < 100; i++ {
		a.PushBack(i)
		check("push")
	}
	for i := 0; i < 40; i++ {
		a.PopBack()
		check("pop")
	}
	a.Reserve(500)
	check("reserve")
	a.ShrinkToFit()
	check("shrink")
	if a.Size() != a.Capacity() {
		t.Errorf("after ShrinkToFit: size %d != capacity %d", a.Size(), a.Capacity())
	}
}

func TestArrayPushPopDuality(t *testing.T) {
	a := NewArrayOf(1, 2, 3)
	snapshot := a.Clone()

	a.PushBack(9)
	a.PopBack()
	if !Equal(a, snapshot) {
		t.Error("push_back/pop_back changed the container")
	}

	a.PushFront(9)
	a.PopFront()
	if !Equal(a, snapshot) {
		t.Error("push_front/pop_front changed the container")
	}

	if err := a.Insert(1, 9); err != nil {
		t.Fatal(err)
	}
	if err := a.RemoveAt(1); err != nil {
		t.Fatal(err)
	}
	if !Equal(a, snapshot) {
		t.Error("insert/remove_at changed the container")
	}
}

func TestArrayConstructors(t *testing.T) {
	filled := NewArrayFilled(4, "x")
	if filled.Size() != 4 {
		t.Fatalf("filled size = %d, want 4", filled.Size())
	}
	for _, v := range filled.All() {
		if v != "x" {
			t.Errorf("filled element = %q, want x", v)
		}
	}

	src := NewArrayOf(1, 2, 3)
	viaSeq := FromSeq(src.Values())
	if !Equal(src, viaSeq) {
		t.Error("FromSeq round-trip mismatch")
	}
}

func TestArrayRangeChecks(t *testing.T) {
	a := NewArrayOf(1, 2, 3)

	if _, err := a.At(3); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("At(3) err = %v, want ErrOutOfRange", err)
	}
	if _, err := a.At(-1); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("At(-1) err = %v, want ErrOutOfRange", err)
	}
	empty := NewArray[int]()
	if _, err := empty.Front(); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("Front on empty err = %v, want ErrOutOfRange", err)
	}
	if _, err := empty.Back(); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("Back on empty err = %v, want ErrOutOfRange", err)
	}

	// Pops on empty are no-ops.
	empty.PopBack()
	empty.PopFront()
	if empty.Size() != 0 {
		t.Error("pop on empty mutated the container")
	}
}

func TestArrayRemoveRange(t *testing.T) {
	a := NewArrayOf(0, 1, 2, 3, 4, 5)
	if err := a.RemoveRange(1, 4); err != nil {
		t.Fatal(err)
	}
	if !Equal(a, NewArrayOf(0, 4, 5)) {
		t.Errorf("after RemoveRange(1,4): %v", a.Data())
	}

	if err := a.RemoveRange(2, 1); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("reversed range err = %v, want ErrInvalidArgument", err)
	}
	if err := a.RemoveRange(0, 99); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("oversized range err = %v, want ErrOutOfRange", err)
	}

	b := NewArrayOf(0, 1, 2, 3)
	if err := b.RemoveBetween(b.IteratorAt(1), b.IteratorAt(3)); err != nil {
		t.Fatal(err)
	}
	if !Equal(b, NewArrayOf(0, 3)) {
		t.Errorf("after RemoveBetween: %v", b.Data())
	}
	if err := b.RemoveBetween(a.Begin(), b.End()); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("foreign iterator err = %v, want ErrInvalidArgument", err)
	}
}

func TestArrayRemoveValueAndPredicate(t *testing.T) {
	a := NewArrayOf(1, 2, 1, 3, 1)

	if !Remove(a, 2) {
		t.Error("Remove(2) reported no removal")
	}
	if Remove(a, 42) {
		t.Error("Remove(42) reported a removal")
	}
	if got := RemoveAll(a, 1); got != 3 {
		t.Errorf("RemoveAll(1) = %d, want 3", got)
	}
	if !Equal(a, NewArrayOf(3)) {
		t.Errorf("after removals: %v", a.Data())
	}

	b := NewArrayOf(1, 2, 3, 4, 5, 6)
	if got := b.RemoveAllIf(func(x int) bool { return x%2 == 0 }); got != 3 {
		t.Errorf("RemoveAllIf(even) = %d, want 3", got)
	}
	if !Equal(b, NewArrayOf(1, 3, 5)) {
		t.Errorf("compaction not stable: %v", b.Data())
	}
}

func TestArrayInsertShifts(t *testing.T) {
	a := NewArrayOf(0, 3)
	if err := a.Insert(1, 1, 2); err != nil {
		t.Fatal(err)
	}
	if !Equal(a, NewArrayOf(0, 1, 2, 3)) {
		t.Errorf("after insert: %v", a.Data())
	}
	if err := a.Insert(99, 0); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("insert out of range err = %v", err)
	}

	// Insert that triggers growth folds the shift into the reallocation.
	b := NewArrayCap[int](2)
	b.PushBack(10)
	b.PushBack(30)
	if err := b.Insert(1, 20); err != nil {
		t.Fatal(err)
	}
	if !Equal(b, NewArrayOf(10, 20, 30)) {
		t.Errorf("after growing insert: %v", b.Data())
	}
}

func TestArrayReserveStrategyCorrection(t *testing.T) {
	a := NewArray[int]()
	// A hostile strategy returning too little must be corrected to size+1.
	a.SetReserveStrategy(func(size, capacity int) int { return 0 })
	for i := 0; i < 10; i++ {
		a.PushBack(i)
	}
	if a.Size() != 10 {
		t.Fatalf("size = %d, want 10", a.Size())
	}
	for i := 0; i < 10; i++ {
		if v, _ := a.At(i); v != i {
			t.Errorf("a[%d] = %d, want %d", i, v, i)
		}
	}
}

func TestArrayResizeReverseClear(t *testing.T) {
	a := NewArrayOf(1, 2)
	a.Resize(4, 7)
	if !Equal(a, NewArrayOf(1, 2, 7, 7)) {
		t.Errorf("after grow resize: %v", a.Data())
	}
	a.Resize(1, 0)
	if !Equal(a, NewArrayOf(1)) {
		t.Errorf("after shrink resize: %v", a.Data())
	}

	b := NewArrayOf(1, 2, 3, 4)
	b.Reverse()
	if !Equal(b, NewArrayOf(4, 3, 2, 1)) {
		t.Errorf("after reverse: %v", b.Data())
	}

	b.Clear()
	if b.Size() != 0 || b.Capacity() != 0 {
		t.Errorf("after clear: size %d capacity %d", b.Size(), b.Capacity())
	}
}

func TestArrayTakeSetData(t *testing.T) {
	a := NewArrayOf(1, 2, 3)
	buf, size := a.TakeData()
	if size != 3 || len(buf) < 3 {
		t.Fatalf("TakeData = (%v, %d)", buf, size)
	}
	if a.Size() != 0 || a.Capacity() != 0 {
		t.Errorf("array not empty after TakeData: size %d capacity %d", a.Size(), a.Capacity())
	}

	b := NewArray[int]()
	b.SetData(buf, size)
	if !Equal(b, NewArrayOf(1, 2, 3)) {
		t.Errorf("after SetData: %v", b.Data())
	}
	// Mutations through the adopted buffer are visible.
	buf[0] = 99
	if v, _ := b.At(0); v != 99 {
		t.Errorf("b[0] = %d after external write, want 99", v)
	}
}

func TestArrayIteratorSaturation(t *testing.T) {
	a := NewArrayOf(1, 2, 3)

	it := a.Begin().Add(99)
	if !it.Equal(a.End()) {
		t.Error("Add past end did not saturate at End")
	}
	it = a.End().Sub(99)
	if !it.Equal(a.Begin()) {
		t.Error("Sub past begin did not saturate at Begin")
	}
	if d := a.End().Distance(a.Begin()); d != 3 {
		t.Errorf("End - Begin = %d, want 3", d)
	}
	if d := a.Begin().Distance(a.End()); d != -3 {
		t.Errorf("Begin - End = %d, want -3", d)
	}

	mid := a.Begin().Next()
	if v, _ := mid.Value(); v != 2 {
		t.Errorf("mid value = %d, want 2", v)
	}
	if err := mid.Set(20); err != nil {
		t.Fatal(err)
	}
	if v, _ := a.At(1); v != 20 {
		t.Errorf("a[1] = %d after iterator assign, want 20", v)
	}
	if _, err := a.End().Value(); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("End dereference err = %v", err)
	}
}

func TestArrayIteratorOwnerMismatchPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("comparing iterators of different owners did not panic")
		}
	}()
	a, b := NewArrayOf(1), NewArrayOf(1)
	a.Begin().Equal(b.Begin())
}
