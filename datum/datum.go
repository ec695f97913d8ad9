// datum.go implements Datum: the VariantArray contract plus an
// external-storage mode.  An external Datum is a non-owning view over a
// caller-supplied buffer — the tag is forced to the buffer's alternative,
// element reads and writes go straight through to the viewed memory, and
// every operation that would reallocate or release that memory reports
// ErrExternalStorage.  Dropping an external Datum never touches the viewed
// buffer; the view is simply forgotten.
//
// Copying follows the ownership of the source: copying an external Datum
// yields another view of the same memory, copying an internal Datum deep-
// copies, and copying an internal source into an external destination turns
// the destination internal.
//
// © 2025 calyx authors. MIT License.

package datum

import (
	"fmt"

	"github.com/calyx-engine/calyx/containers"
	"github.com/calyx-engine/calyx/rtti"
)

// Datum is the engine's polymorphic value container.
type Datum struct {
	VariantArray
	external bool
}

/* -------------------------------------------------------------------------
   Construction
   ------------------------------------------------------------------------- */

// New returns an empty internal Datum with no alternative chosen.
func New() *Datum { return &Datum{} }

// Of returns an internal Datum holding the single value x.
func Of(x any) (*Datum, error) {
	d := New()
	if err := d.PushBack(x); err != nil {
		return nil, err
	}
	return d, nil
}

// Construct returns an internal Datum with its alternative preset to T and
// space reserved for capacity elements.
func Construct[T Scalar](capacity int) *Datum {
	d := New()
	_ = d.VariantArray.SetType(TypeFor[T]())
	if capacity > 0 {
		_ = d.VariantArray.Reserve(capacity)
	}
	return d
}

// ConstructRefs is Construct for the reference alternative.
func ConstructRefs(capacity int) *Datum {
	d := New()
	_ = d.VariantArray.SetType(RTTI)
	if capacity > 0 {
		_ = d.VariantArray.Reserve(capacity)
	}
	return d
}

// ConstructTyped returns an internal Datum with its alternative preset to t.
func ConstructTyped(t Type) (*Datum, error) {
	d := New()
	if err := d.VariantArray.SetType(t); err != nil {
		return nil, err
	}
	return d, nil
}

// ExternalOf returns an external Datum viewing buf with size == capacity ==
// len(buf).
func ExternalOf[T Scalar](buf []T) *Datum {
	d := New()
	adoptView(d, buf, len(buf), TypeFor[T]())
	return d
}

// ExternalView returns an external Datum viewing buf with the given live
// size; capacity is len(buf).
func ExternalView[T Scalar](buf []T, size int) (*Datum, error) {
	if size < 0 || size > len(buf) {
		return nil, fmt.Errorf("external view size %d with capacity %d: %w", size, len(buf), ErrOutOfRange)
	}
	d := New()
	adoptView(d, buf, size, TypeFor[T]())
	return d, nil
}

// ExternalRefs returns an external Datum viewing a reference buffer.
func ExternalRefs(buf []rtti.RTTI) *Datum {
	d := New()
	adoptView(d, buf, len(buf), RTTI)
	return d
}

// SetStorage points d at external storage, abandoning (not freeing) any
// previous contents. The tag is forced to T's alternative.
func SetStorage[T Scalar](d *Datum, buf []T, size int) error {
	if size < 0 || size > len(buf) {
		return fmt.Errorf("external storage size %d with capacity %d: %w", size, len(buf), ErrOutOfRange)
	}
	adoptView(d, buf, size, TypeFor[T]())
	return nil
}

// SetStorageRefs is SetStorage for the reference alternative.
func SetStorageRefs(d *Datum, buf []rtti.RTTI, size int) error {
	if size < 0 || size > len(buf) {
		return fmt.Errorf("external storage size %d with capacity %d: %w", size, len(buf), ErrOutOfRange)
	}
	adoptView(d, buf, size, RTTI)
	return nil
}

func adoptView[T comparable](d *Datum, buf []T, size int, tag Type) {
	arr := containers.NewArray[T]()
	arr.SetData(buf, size)
	d.tag = tag
	d.store = arr
	d.external = true
}

/* -------------------------------------------------------------------------
   Storage mode
   ------------------------------------------------------------------------- */

// IsExternal reports whether the Datum views memory owned elsewhere.
func (d *Datum) IsExternal() bool { return d.external }

// IsInternal reports whether the Datum owns its storage.
func (d *Datum) IsInternal() bool { return !d.external }

func (d *Datum) errExternal(op string) error {
	return fmt.Errorf("%s on external datum: %w", op, ErrExternalStorage)
}

/* -------------------------------------------------------------------------
   Copying
   ------------------------------------------------------------------------- */

// CopyFrom replaces d's contents following the source's ownership:
// external source -> d becomes a view of the same memory; internal source
// -> d becomes an internal deep copy. Self-assignment is a no-op.
func (d *Datum) CopyFrom(other *Datum) {
	if d == other {
		return
	}
	d.tag = other.tag
	d.external = other.external
	if other.store == nil {
		d.store = nil
		return
	}
	ops := altTable[other.tag]
	if other.external {
		d.store = ops.viewClone(other.store)
	} else {
		d.store = ops.deepClone(other.store)
	}
}

// Clone returns a copy under CopyFrom semantics.
func (d *Datum) Clone() *Datum {
	out := New()
	out.CopyFrom(d)
	return out
}

/* -------------------------------------------------------------------------
   Mutators guarded against external storage
   ------------------------------------------------------------------------- */

// SetType chooses the active alternative; forbidden in external mode.
func (d *Datum) SetType(t Type) error {
	if d.external {
		return d.errExternal("set type")
	}
	return d.VariantArray.SetType(t)
}

// PushBack appends x. In external mode the append must fit the viewed
// capacity.
func (d *Datum) PushBack(x any) error {
	if d.external && d.IsFull() {
		return d.errExternal("push beyond capacity")
	}
	return d.VariantArray.PushBack(x)
}

// PushFront prepends x under the same capacity rule as PushBack.
func (d *Datum) PushFront(x any) error {
	if d.external && d.IsFull() {
		return d.errExternal("push beyond capacity")
	}
	return d.VariantArray.PushFront(x)
}

// Insert places x at index i under the same capacity rule as PushBack.
func (d *Datum) Insert(i int, x any) error {
	if d.external && d.IsFull() {
		return d.errExternal("insert beyond capacity")
	}
	return d.VariantArray.Insert(i, x)
}

// Assign replaces the contents with the single value x.
func (d *Datum) Assign(x any) error {
	if d.external {
		return d.errExternal("assign")
	}
	d.VariantArray.Clear()
	return d.VariantArray.PushBack(x)
}

// Clear erases all storage; forbidden in external mode because the viewed
// memory is not the Datum's to release.
func (d *Datum) Clear() error {
	if d.external {
		return d.errExternal("clear")
	}
	d.VariantArray.Clear()
	return nil
}

// Detach forgets an external view without touching the viewed memory,
// leaving d empty and internal. On an internal Datum it behaves as Clear.
func (d *Datum) Detach() {
	d.VariantArray.Clear()
	d.external = false
}

// Reserve grows capacity; forbidden in external mode.
func (d *Datum) Reserve(n int) error {
	if d.external {
		return d.errExternal("reserve")
	}
	return d.VariantArray.Reserve(n)
}

// Resize changes the element count; forbidden in external mode.
func (d *Datum) Resize(n int) error {
	if d.external {
		return d.errExternal("resize")
	}
	return d.VariantArray.Resize(n)
}

// ShrinkToFit reallocates to the live size; forbidden in external mode.
func (d *Datum) ShrinkToFit() error {
	if d.external {
		return d.errExternal("shrink")
	}
	return d.VariantArray.ShrinkToFit()
}

// ShrinkToFitCap reallocates to max(n, size); forbidden in external mode.
func (d *Datum) ShrinkToFitCap(n int) error {
	if d.external {
		return d.errExternal("shrink")
	}
	return d.VariantArray.ShrinkToFitCap(n)
}

/* -------------------------------------------------------------------------
   Comparison
   ------------------------------------------------------------------------- */

// Equal compares contents only; storage mode does not participate.
func (d *Datum) Equal(other *Datum) bool {
	return d.VariantArray.Equal(&other.VariantArray)
}
