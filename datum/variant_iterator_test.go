// © 2025 calyx authors. MIT License.

package datum

import (
	"errors"
	"testing"
)

func TestVariantIterator(t *testing.T) {
	var v VariantArray
	for _, x := range []int{10, 20, 30} {
		if err := v.PushBack(x); err != nil {
			t.Fatal(err)
		}
	}

	it := v.Begin()
	for want := 10; want <= 30; want += 10 {
		val, err := it.Value()
		if err != nil {
			t.Fatal(err)
		}
		if n, _ := val.Int(); n != want {
			t.Errorf("element = %d, want %d", n, want)
		}
		it = it.Next()
	}
	if !it.Equal(v.End()) {
		t.Error("iterator did not land on End")
	}

	if !v.Begin().Add(99).Equal(v.End()) {
		t.Error("Add past end did not saturate")
	}
	if !v.End().Sub(99).Equal(v.Begin()) {
		t.Error("Sub past begin did not saturate")
	}
	if d := v.End().Distance(v.Begin()); d != 3 {
		t.Errorf("distance = %d, want 3", d)
	}
	if _, err := v.End().Value(); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("End dereference err = %v", err)
	}

	// Writing through the wrapper obtained from an iterator mutates the
	// container.
	val, _ := v.Begin().Value()
	if err := val.Set(11); err != nil {
		t.Fatal(err)
	}
	if n, _ := Get[int](&v, 0); n != 11 {
		t.Errorf("v[0] = %d after iterator write, want 11", n)
	}
}

func TestVariantIteratorOwnerMismatchPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("comparing iterators of different owners did not panic")
		}
	}()
	var a, b VariantArray
	a.Begin().Equal(b.Begin())
}
