// © 2025 calyx authors. MIT License.

package memutil

import "testing"

func TestFieldSliceAliases(t *testing.T) {
	x := 7
	s := FieldSlice(&x)
	if len(s) != 1 || cap(s) != 1 {
		t.Fatalf("len/cap = %d/%d, want 1/1", len(s), cap(s))
	}
	s[0] = 42
	if x != 42 {
		t.Errorf("write through slice not visible: x = %d", x)
	}
	x = 9
	if s[0] != 9 {
		t.Errorf("write through value not visible: s[0] = %d", s[0])
	}
}

func TestByteViewLength(t *testing.T) {
	var v uint64 = 0x0102030405060708
	b := ByteView(&v)
	if len(b) != 8 {
		t.Fatalf("len = %d, want 8", len(b))
	}
}
