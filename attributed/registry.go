// Package attributed implements the reflection-driven attributed-object
// layer: a process-wide Registry mapping each reflectable type to its base
// and its prescribed attributes, and the Attributed mixin that materialises
// those attributes as a name->Datum dictionary on every instance.
//
// The Registry is populated from generated code (see cmd/attrgen) during
// package init and treated as read-only afterwards; lookups take a short
// mutex and are safe from any goroutine.  Descriptors carry accessor closures
// rather than byte offsets: a prescribed attribute with a backing field
// binds through a closure that views that field of the owning object, which
// is how the external-storage aliasing of the original design is expressed
// without raw offset arithmetic.
//
// © 2025 calyx authors. MIT License.
package attributed

import (
	"errors"
	"fmt"
	"sync"

	"github.com/calyx-engine/calyx/datum"
	"github.com/calyx-engine/calyx/rtti"
)

// ErrInvalidName reports an empty or otherwise unacceptable attribute name.
var ErrInvalidName = errors.New("invalid name")

// AttributeDescriptor describes one prescribed attribute of a reflectable
// type.
type AttributeDescriptor struct {
	// Name keys the attribute in the instance's dictionary.
	Name string

	// Type is the Datum alternative the attribute holds.
	Type datum.Type

	// Count is the number of backing elements; 0 means the attribute has no
	// backing field and materialises as an empty internal Datum.
	Count int

	// CtorKey names the factory that default-constructs the attribute's
	// element type, for construction-by-name.
	CtorKey string

	// Bind returns an external-mode Datum viewing the attribute's backing
	// field(s) of owner. nil when Count == 0.
	Bind func(owner any) *datum.Datum
}

// Entry is the Registry record for one reflectable type.
type Entry struct {
	// Base is the type's declared base; the root reflectable type lists
	// itself.
	Base rtti.TypeID

	// Attributes are the prescribed attributes in declaration order.
	Attributes []AttributeDescriptor
}

var (
	regMu     sync.Mutex
	entries   = map[rtti.TypeID]Entry{}
	factories = map[string]func() rtti.RTTI{}
)

// RegisterType installs the Registry entry for id. Meant to be called from
// generated init code; duplicate registration panics.
func RegisterType(id rtti.TypeID, entry Entry) {
	regMu.Lock()
	defer regMu.Unlock()
	if _, dup := entries[id]; dup {
		panic(fmt.Sprintf("attributed: duplicate registry entry for type %d (%s)", id, rtti.Name(id)))
	}
	entries[id] = entry
}

// RegisterFactory installs a construction-by-name factory under key.
// Duplicate registration panics.
func RegisterFactory(key string, fn func() rtti.RTTI) {
	if key == "" || fn == nil {
		panic("attributed: empty factory registration")
	}
	regMu.Lock()
	defer regMu.Unlock()
	if _, dup := factories[key]; dup {
		panic(fmt.Sprintf("attributed: duplicate factory %q", key))
	}
	factories[key] = fn
}

// NewByName constructs a default-initialised instance through the factory
// registered under key.
func NewByName(key string) (rtti.RTTI, error) {
	regMu.Lock()
	fn, ok := factories[key]
	regMu.Unlock()
	if !ok {
		return nil, fmt.Errorf("attributed: no factory %q: %w", key, ErrInvalidName)
	}
	return fn(), nil
}

// EntryFor returns the Registry entry for id.
func EntryFor(id rtti.TypeID) (Entry, bool) {
	regMu.Lock()
	defer regMu.Unlock()
	e, ok := entries[id]
	return e, ok
}

// walk visits the entries of id and its base chain, most-derived first,
// stopping at the self-based root. visit returning false stops the walk.
func walk(id rtti.TypeID, visit func(Entry) bool) {
	seen := map[rtti.TypeID]bool{}
	for id != rtti.None && !seen[id] {
		seen[id] = true
		e, ok := EntryFor(id)
		if !ok {
			return
		}
		if !visit(e) {
			return
		}
		if e.Base == id {
			return
		}
		id = e.Base
	}
}
