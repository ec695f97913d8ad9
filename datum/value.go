// value.go implements the reference wrapper handed out by indexed access
// over a VariantArray.  A Value carries (owner, index) and reads or writes
// through the owner on every use, so it observes mutations and — for a
// Datum in external mode — writes through to the viewed memory.
//
// Equality deliberately spans the arithmetic alternatives: bool(true)
// compares equal to int(1) and float64(1).  Ordering is defined only for
// arithmetic values; any other pairing is false in both directions.
//
// © 2025 calyx authors. MIT License.

package datum

import (
	"fmt"

	"github.com/calyx-engine/calyx/rtti"
)

// Value is a reference wrapper over one element of a VariantArray.
type Value struct {
	owner *VariantArray
	index int
}

// Type returns the owner's active alternative.
func (v Value) Type() Type {
	if v.owner == nil {
		return None
	}
	return v.owner.GetType()
}

// Index returns the wrapped element's position.
func (v Value) Index() int { return v.index }

// Interface returns the raw element.
func (v Value) Interface() (any, error) {
	if v.owner == nil {
		return nil, fmt.Errorf("unbound value: %w", ErrOutOfRange)
	}
	return v.owner.Interface(v.index)
}

// Set assigns x through the wrapper; the assignment is checked against the
// owner's tag.
func (v Value) Set(x any) error {
	if v.owner == nil {
		return fmt.Errorf("unbound value: %w", ErrOutOfRange)
	}
	return v.owner.Set(v.index, x)
}

/* -------------------------------------------------------------------------
   Coercions, checked against the current tag
   ------------------------------------------------------------------------- */

// Bool coerces the element to bool.
func (v Value) Bool() (bool, error) { return coerce[bool](v, Bool) }

// Int coerces the element to int.
func (v Value) Int() (int, error) { return coerce[int](v, Int) }

// Float coerces the element to float64.
func (v Value) Float() (float64, error) { return coerce[float64](v, Float) }

// Str coerces the element to string.
func (v Value) Str() (string, error) { return coerce[string](v, String) }

// Ref coerces the element to the reference alternative.
func (v Value) Ref() (rtti.RTTI, error) {
	if v.Type() != RTTI {
		return nil, fmt.Errorf("coerce %v value to RTTI: %w", v.Type(), ErrInvalidType)
	}
	x, err := v.Interface()
	if err != nil {
		return nil, err
	}
	if x == nil {
		return nil, nil
	}
	return x.(rtti.RTTI), nil
}

func coerce[T Scalar](v Value, want Type) (T, error) {
	var zero T
	if v.Type() != want {
		return zero, fmt.Errorf("coerce %v value to %v: %w", v.Type(), want, ErrInvalidType)
	}
	x, err := v.Interface()
	if err != nil {
		return zero, err
	}
	return x.(T), nil
}

/* -------------------------------------------------------------------------
   Comparison
   ------------------------------------------------------------------------- */

// asNumber maps an arithmetic value onto float64; ok is false for the
// non-arithmetic alternatives.
func asNumber(x any) (float64, bool) {
	switch n := x.(type) {
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	case int:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// EqualValue compares the element against a raw value of any alternative.
// Arithmetic alternatives compare numerically across types.
func (v Value) EqualValue(x any) bool {
	mine, err := v.Interface()
	if err != nil {
		return false
	}
	if a, ok := asNumber(mine); ok {
		if b, ok := asNumber(x); ok {
			return a == b
		}
		return false
	}
	switch m := mine.(type) {
	case string:
		s, ok := x.(string)
		return ok && m == s
	case rtti.RTTI:
		r, ok := x.(rtti.RTTI)
		return ok && m == r
	}
	return false
}

// Equal compares two wrappers by their elements under EqualValue rules.
func (v Value) Equal(other Value) bool {
	x, err := other.Interface()
	if err != nil {
		return false
	}
	return v.EqualValue(x)
}

// Less orders two wrappers. It is defined only when both sides are
// arithmetic; every other pairing is false in both directions.
func (v Value) Less(other Value) bool {
	x, err := v.Interface()
	if err != nil {
		return false
	}
	y, err := other.Interface()
	if err != nil {
		return false
	}
	a, okA := asNumber(x)
	b, okB := asNumber(y)
	if !okA || !okB {
		return false
	}
	return a < b
}

// String renders the element dispatched on the tag.
func (v Value) String() string {
	x, err := v.Interface()
	if err != nil {
		return "<unbound>"
	}
	return altTable[v.Type()].format(x)
}
