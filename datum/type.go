// Package datum implements the engine's polymorphic value container.  A
// VariantArray is a homogeneous sequence whose element type is one of a
// closed alternative set — bool, int, float64, string, or a shared
// reference to a polymorphic object — chosen sticky on first use and
// dispatched through a small table indexed by the discriminator.  A Datum
// is a VariantArray with an additional external-storage mode in which the
// container is a non-owning view over memory supplied by the caller.
//
// Nothing in this package is safe for concurrent mutation; concurrent reads
// of an unchanging value are fine.
//
// © 2025 calyx authors. MIT License.
package datum

import (
	"errors"
	"strings"

	"github.com/calyx-engine/calyx/rtti"
)

// Error kinds reported by this package. Callers test with errors.Is.
var (
	// ErrInvalidType reports a typed access against a container whose
	// active alternative differs.
	ErrInvalidType = errors.New("invalid type")

	// ErrExternalStorage reports a mutating operation that would reallocate
	// or release externally-owned memory.
	ErrExternalStorage = errors.New("external storage")

	// ErrOutOfRange mirrors the containers error for indexed access.
	ErrOutOfRange = errors.New("out of range")
)

// Type is the one-byte discriminator for the alternative set. None is the
// tag of a never-used container.
type Type uint8

const (
	None Type = iota
	Bool
	Int
	Float
	String
	RTTI

	// TypeBegin and TypeEnd bound the usable alternatives for iteration.
	TypeBegin = Bool
	TypeEnd   = RTTI
)

var typeNames = [...]string{
	None:   "None",
	Bool:   "Bool",
	Int:    "Int",
	Float:  "Float",
	String: "String",
	RTTI:   "RTTI",
}

// String returns the canonical name of t, or "None" for anything out of
// range.
func (t Type) String() string {
	if int(t) >= len(typeNames) {
		return typeNames[None]
	}
	return typeNames[t]
}

// ParseType resolves a type name case-insensitively, ignoring surrounding
// whitespace. Unknown names parse as None.
func ParseType(s string) Type {
	s = strings.TrimSpace(s)
	for t, name := range typeNames {
		if strings.EqualFold(s, name) {
			return Type(t)
		}
	}
	return None
}

// Scalar constrains the non-reference alternatives. Reference-typed
// operations have dedicated Ref variants because Go constraint unions
// cannot name a method-carrying interface.
type Scalar interface {
	bool | int | float64 | string
}

// TypeFor returns the discriminator for a scalar alternative type.
func TypeFor[T Scalar]() Type {
	var zero T
	return typeOfValue(any(zero))
}

// TypeOfValue returns the discriminator matching a runtime value, or None
// when the value belongs to no alternative.
func TypeOfValue(v any) Type {
	return typeOfValue(v)
}

func typeOfValue(v any) Type {
	switch v.(type) {
	case bool:
		return Bool
	case int:
		return Int
	case float64:
		return Float
	case string:
		return String
	case rtti.RTTI:
		return RTTI
	}
	return None
}
