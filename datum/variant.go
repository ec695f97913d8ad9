// variant.go implements the VariantArray: one containers.Array of the
// active alternative plus the discriminator tag.  Go has no native sum
// type, so the storage is dispatched through a small table of per-
// alternative operations indexed by the tag; the typed fast paths are
// generic free functions that assert the concrete Array directly.
//
// The tag is sticky.  It is set by the first typed operation on an empty
// container, can be changed with SetType only while the container is
// empty, and every typed operation against a different alternative
// reports ErrInvalidType.
//
// © 2025 calyx authors. MIT License.

package datum

import (
	"fmt"
	"iter"
	"strings"

	"github.com/calyx-engine/calyx/containers"
	"github.com/calyx-engine/calyx/rtti"
)

// VariantArray is a homogeneous sequence over the engine's closed
// alternative set. The zero value is empty with no alternative chosen.
type VariantArray struct {
	tag   Type
	store any // *containers.Array[T] of the active alternative; nil when tag == None
}

/* -------------------------------------------------------------------------
   Per-alternative operation table
   ------------------------------------------------------------------------- */

type altOps struct {
	newStore  func() any
	size      func(store any) int
	capacity  func(store any) int
	reserve   func(store any, n int)
	shrinkCap func(store any, n int)
	resize    func(store any, n int)
	get       func(store any, i int) (any, error)
	set       func(store any, i int, v any) error
	pushBack  func(store any, v any)
	pushFront func(store any, v any)
	insert    func(store any, i int, v any) error
	removeAt  func(store any, i int) error
	popBack   func(store any)
	popFront  func(store any)
	equal     func(a, b any) bool
	deepClone func(store any) any
	viewClone func(store any) any
	format    func(v any) string
}

func opsFor[T comparable]() *altOps {
	arr := func(store any) *containers.Array[T] { return store.(*containers.Array[T]) }
	return &altOps{
		newStore:  func() any { return containers.NewArray[T]() },
		size:      func(s any) int { return arr(s).Size() },
		capacity:  func(s any) int { return arr(s).Capacity() },
		reserve:   func(s any, n int) { arr(s).Reserve(n) },
		shrinkCap: func(s any, n int) { arr(s).ShrinkToFitCap(n) },
		resize: func(s any, n int) {
			var zero T
			arr(s).Resize(n, zero)
		},
		get: func(s any, i int) (any, error) {
			v, err := arr(s).At(i)
			if err != nil {
				return nil, err
			}
			return v, nil
		},
		set:       func(s any, i int, v any) error { return arr(s).Set(i, v.(T)) },
		pushBack:  func(s any, v any) { arr(s).PushBack(v.(T)) },
		pushFront: func(s any, v any) { arr(s).PushFront(v.(T)) },
		insert:    func(s any, i int, v any) error { return arr(s).Insert(i, v.(T)) },
		removeAt:  func(s any, i int) error { return arr(s).RemoveAt(i) },
		popBack:   func(s any) { arr(s).PopBack() },
		popFront:  func(s any) { arr(s).PopFront() },
		equal:     func(a, b any) bool { return containers.Equal(arr(a), arr(b)) },
		deepClone: func(s any) any { return arr(s).Clone() },
		viewClone: func(s any) any {
			src := arr(s)
			out := containers.NewArray[T]()
			if src.Capacity() > 0 {
				buf := src.Data()[:src.Capacity()]
				out.SetData(buf, src.Size())
			}
			return out
		},
		format: func(v any) string { return fmt.Sprint(v) },
	}
}

var altTable = [RTTI + 1]*altOps{
	Bool:   opsFor[bool](),
	Int:    opsFor[int](),
	Float:  opsFor[float64](),
	String: opsFor[string](),
	RTTI:   opsFor[rtti.RTTI](),
}

func (v *VariantArray) ops() *altOps {
	if v.tag == None {
		return nil
	}
	return altTable[v.tag]
}

/* -------------------------------------------------------------------------
   Tag management
   ------------------------------------------------------------------------- */

// GetType returns the active alternative's discriminator, None when unset.
func (v *VariantArray) GetType() Type { return v.tag }

// SetType chooses the active alternative. Permitted only while the
// container is empty; SetType(None) is equivalent to Clear.
func (v *VariantArray) SetType(t Type) error {
	if t == v.tag {
		return nil
	}
	if v.Size() != 0 {
		return fmt.Errorf("set type %v on non-empty %v container: %w", t, v.tag, ErrInvalidType)
	}
	if t == None {
		v.Clear()
		return nil
	}
	if int(t) > int(TypeEnd) {
		return fmt.Errorf("unknown type %d: %w", t, ErrInvalidType)
	}
	v.tag = t
	v.store = altTable[t].newStore()
	return nil
}

// ensureTag accepts a matching tag, silently adopts t when no alternative
// is chosen yet, and otherwise reports ErrInvalidType.
func (v *VariantArray) ensureTag(t Type) error {
	switch {
	case t == None:
		return fmt.Errorf("value matches no alternative: %w", ErrInvalidType)
	case v.tag == None:
		return v.SetType(t)
	case v.tag == t:
		return nil
	default:
		return fmt.Errorf("%v value against %v container: %w", t, v.tag, ErrInvalidType)
	}
}

/* -------------------------------------------------------------------------
   Properties
   ------------------------------------------------------------------------- */

// Size returns the number of elements.
func (v *VariantArray) Size() int {
	if ops := v.ops(); ops != nil {
		return ops.size(v.store)
	}
	return 0
}

// Capacity returns the storage capacity of the active alternative.
func (v *VariantArray) Capacity() int {
	if ops := v.ops(); ops != nil {
		return ops.capacity(v.store)
	}
	return 0
}

// IsEmpty reports whether the container holds no elements.
func (v *VariantArray) IsEmpty() bool { return v.Size() == 0 }

// IsFull reports whether Size() == Capacity().
func (v *VariantArray) IsFull() bool { return v.Size() == v.Capacity() }

/* -------------------------------------------------------------------------
   Mutation
   ------------------------------------------------------------------------- */

// PushBack appends x, adopting its alternative when none is chosen yet.
func (v *VariantArray) PushBack(x any) error {
	if err := v.ensureTag(typeOfValue(x)); err != nil {
		return err
	}
	v.ops().pushBack(v.store, x)
	return nil
}

// PushFront prepends x under the same tag rule as PushBack.
func (v *VariantArray) PushFront(x any) error {
	if err := v.ensureTag(typeOfValue(x)); err != nil {
		return err
	}
	v.ops().pushFront(v.store, x)
	return nil
}

// Insert places x at index i.
func (v *VariantArray) Insert(i int, x any) error {
	if err := v.ensureTag(typeOfValue(x)); err != nil {
		return err
	}
	return v.ops().insert(v.store, i, x)
}

// Set overwrites the element at index i.
func (v *VariantArray) Set(i int, x any) error {
	if err := v.ensureTag(typeOfValue(x)); err != nil {
		return err
	}
	return v.ops().set(v.store, i, x)
}

// PopBack drops the last element; no-op when empty.
func (v *VariantArray) PopBack() {
	if ops := v.ops(); ops != nil {
		ops.popBack(v.store)
	}
}

// PopFront drops the first element; no-op when empty.
func (v *VariantArray) PopFront() {
	if ops := v.ops(); ops != nil {
		ops.popFront(v.store)
	}
}

// RemoveAt erases the element at index i.
func (v *VariantArray) RemoveAt(i int) error {
	ops := v.ops()
	if ops == nil {
		return fmt.Errorf("remove at %d on typeless container: %w", i, ErrOutOfRange)
	}
	return ops.removeAt(v.store, i)
}

// Clear releases all elements and storage and resets the tag, so a new
// alternative may be chosen afterwards.
func (v *VariantArray) Clear() {
	v.tag = None
	v.store = nil
}

// Reserve grows the active alternative's capacity to at least n.
func (v *VariantArray) Reserve(n int) error {
	ops := v.ops()
	if ops == nil {
		return fmt.Errorf("reserve on typeless container: %w", ErrInvalidType)
	}
	ops.reserve(v.store, n)
	return nil
}

// Resize sets the element count to n, filling new slots with the
// alternative's zero value.
func (v *VariantArray) Resize(n int) error {
	ops := v.ops()
	if ops == nil {
		return fmt.Errorf("resize on typeless container: %w", ErrInvalidType)
	}
	ops.resize(v.store, n)
	return nil
}

// ShrinkToFit reallocates so capacity equals size.
func (v *VariantArray) ShrinkToFit() error { return v.ShrinkToFitCap(0) }

// ShrinkToFitCap reallocates so capacity equals max(n, size).
func (v *VariantArray) ShrinkToFitCap(n int) error {
	if ops := v.ops(); ops != nil {
		ops.shrinkCap(v.store, n)
	}
	return nil
}

/* -------------------------------------------------------------------------
   Access
   ------------------------------------------------------------------------- */

// Interface returns the raw element at index i.
func (v *VariantArray) Interface(i int) (any, error) {
	ops := v.ops()
	if ops == nil {
		return nil, fmt.Errorf("index %d on typeless container: %w", i, ErrOutOfRange)
	}
	return ops.get(v.store, i)
}

// At returns a reference wrapper for the element at index i.
func (v *VariantArray) At(i int) (Value, error) {
	if i < 0 || i >= v.Size() {
		return Value{}, fmt.Errorf("variant index %d with size %d: %w", i, v.Size(), ErrOutOfRange)
	}
	return Value{owner: v, index: i}, nil
}

// Front returns a reference wrapper for the first element.
func (v *VariantArray) Front() (Value, error) { return v.At(0) }

// Back returns a reference wrapper for the last element.
func (v *VariantArray) Back() (Value, error) { return v.At(v.Size() - 1) }

// All yields reference wrappers in index order.
func (v *VariantArray) All() iter.Seq[Value] {
	return func(yield func(Value) bool) {
		for i := 0; i < v.Size(); i++ {
			if !yield(Value{owner: v, index: i}) {
				return
			}
		}
	}
}

/* -------------------------------------------------------------------------
   Comparison & formatting
   ------------------------------------------------------------------------- */

// Equal reports whether both containers have element-wise equal contents.
// Elements of different alternatives compare by value as Value.Equal does,
// so bool(true) equals int(1). Two typeless containers compare equal.
func (v *VariantArray) Equal(other *VariantArray) bool {
	if v.tag != other.tag {
		if v.Size() != other.Size() {
			return false
		}
		for i := 0; i < v.Size(); i++ {
			if !(Value{owner: v, index: i}).Equal(Value{owner: other, index: i}) {
				return false
			}
		}
		return true
	}
	if v.tag == None {
		return true
	}
	return v.ops().equal(v.store, other.store)
}

// String renders the contents dispatched on the tag.
func (v *VariantArray) String() string {
	ops := v.ops()
	if ops == nil {
		return "[]"
	}
	var b strings.Builder
	b.WriteByte('[')
	for i := 0; i < v.Size(); i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		x, _ := ops.get(v.store, i)
		b.WriteString(ops.format(x))
	}
	b.WriteByte(']')
	return b.String()
}

/* -------------------------------------------------------------------------
   Typed fast paths
   ------------------------------------------------------------------------- */

// Get returns the element at index i as T, reporting ErrInvalidType when T
// is not the active alternative.
func Get[T Scalar](v *VariantArray, i int) (T, error) {
	var zero T
	if err := v.ensureTag(TypeFor[T]()); err != nil {
		return zero, err
	}
	return v.store.(*containers.Array[T]).At(i)
}

// GetRef is Get for the reference alternative.
func GetRef(v *VariantArray, i int) (rtti.RTTI, error) {
	if err := v.ensureTag(RTTI); err != nil {
		return nil, err
	}
	return v.store.(*containers.Array[rtti.RTTI]).At(i)
}

// FrontAs returns the first element as T.
func FrontAs[T Scalar](v *VariantArray) (T, error) { return Get[T](v, 0) }

// BackAs returns the last element as T.
func BackAs[T Scalar](v *VariantArray) (T, error) { return Get[T](v, v.Size()-1) }

// Push appends x with the alternative fixed at compile time.
func Push[T Scalar](v *VariantArray, x T) error { return v.PushBack(x) }

// SetTypeFor chooses the alternative matching T.
func SetTypeFor[T Scalar](v *VariantArray) error { return v.SetType(TypeFor[T]()) }
