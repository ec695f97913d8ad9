// attributed.go implements the Attributed mixin.  Embedding types call
// Init(self) from their constructor; that walks the Registry from the
// runtime type up through the base chain and installs every prescribed
// attribute into the instance's name->Datum map.  Attributes backed by
// fields (Count > 0) are external-mode Datums bound through the
// descriptor's closure onto this instance's fields; unbacked attributes
// (Count == 0) are empty internal Datums with their element type preset.
//
// After copying or moving the embedding struct, the map still belongs to
// the source and the prescribed Datums still alias the source's fields;
// Rebind(self) re-walks the Registry and rebinds everything onto the new
// instance, mirroring the pointer fixup of the original design.
//
// © 2025 calyx authors. MIT License.

package attributed

import (
	"fmt"
	"iter"

	"github.com/calyx-engine/calyx/containers"
	"github.com/calyx-engine/calyx/datum"
	"github.com/calyx-engine/calyx/rtti"
)

// Attributed is the reflection-backed name->Datum mixin. Embed it and call
// Init(self) during construction.
type Attributed struct {
	attributes *containers.HashMap[string, *datum.Datum]
	self       rtti.RTTI
}

// Init populates the attribute map for self's runtime type. It must be
// called exactly once per fresh instance, with self the embedding object.
func (a *Attributed) Init(self rtti.RTTI) {
	a.self = self
	a.attributes = containers.NewHashMap[string, *datum.Datum]()
	a.populate()
}

// populate installs prescribed attributes, most-derived entry first so a
// redeclared name keeps the derived definition.
func (a *Attributed) populate() {
	walk(a.self.TypeID(), func(e Entry) bool {
		for _, desc := range e.Attributes {
			if a.attributes.Contains(desc.Name) {
				continue // redeclared by a more-derived type
			}
			a.attributes.Emplace(desc.Name, a.materialize(desc))
		}
		return true
	})
}

func (a *Attributed) materialize(desc AttributeDescriptor) *datum.Datum {
	if desc.Count > 0 && desc.Bind != nil {
		return desc.Bind(a.self)
	}
	d, err := datum.ConstructTyped(desc.Type)
	if err != nil {
		d = datum.New()
	}
	return d
}

// Rebind fixes the mixin up after the embedding struct was copied or
// moved: the map is deep-copied away from the source and every prescribed
// backed attribute is rebound onto self's own fields.
func (a *Attributed) Rebind(self rtti.RTTI) {
	src := a.attributes
	a.self = self
	a.attributes = containers.NewHashMap[string, *datum.Datum]()
	if src != nil {
		for name, d := range src.All() {
			a.attributes.Emplace(name, d.Clone())
		}
	}
	// Most-derived binding wins for redeclared names, exactly as in
	// populate.
	rebound := map[string]bool{}
	walk(self.TypeID(), func(e Entry) bool {
		for _, desc := range e.Attributes {
			if rebound[desc.Name] {
				continue
			}
			rebound[desc.Name] = true
			if desc.Count > 0 && desc.Bind != nil {
				a.attributes.Emplace(desc.Name, desc.Bind(self))
			}
		}
		return true
	})
}

/* -------------------------------------------------------------------------
   Properties & queries
   ------------------------------------------------------------------------- */

// NumAttributes returns how many attributes the instance carries.
func (a *Attributed) NumAttributes() int {
	if a.attributes == nil {
		return 0
	}
	return a.attributes.Size()
}

// HasAttributes reports whether any attributes exist.
func (a *Attributed) HasAttributes() bool { return a.NumAttributes() > 0 }

// HasAttribute reports whether an attribute named name exists.
func (a *Attributed) HasAttribute(name string) bool {
	return a.attributes != nil && a.attributes.Contains(name)
}

// Find returns the attribute named name, or (nil, false).
func (a *Attributed) Find(name string) (*datum.Datum, bool) {
	if a.attributes == nil {
		return nil, false
	}
	d, err := a.attributes.At(name)
	if err != nil {
		return nil, false
	}
	return d, true
}

// Attribute returns the attribute named name.
func (a *Attributed) Attribute(name string) (*datum.Datum, error) {
	if d, ok := a.Find(name); ok {
		return d, nil
	}
	return nil, fmt.Errorf("no attribute %q: %w", name, containers.ErrOutOfRange)
}

// Datum returns the attribute named name, appending a fresh default one
// when absent.
func (a *Attributed) Datum(name string) (*datum.Datum, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	if d, ok := a.Find(name); ok {
		return d, nil
	}
	return a.AddAttribute(name, nil)
}

/* -------------------------------------------------------------------------
   Insert & remove
   ------------------------------------------------------------------------- */

// AddAttribute inserts an auxiliary attribute. A nil d inserts a fresh
// internal Datum; a non-nil d is copied with Clone, so an external d yields
// an external view of the same memory, not an internal copy. An existing
// attribute of that name is kept and returned instead.
func (a *Attributed) AddAttribute(name string, d *datum.Datum) (*datum.Datum, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	if existing, ok := a.Find(name); ok {
		return existing, nil
	}
	if d == nil {
		d = datum.New()
	} else {
		d = d.Clone()
	}
	a.attributes.Emplace(name, d)
	return d, nil
}

// RemoveAttribute removes the attribute named name, reporting whether one
// existed. Removing a prescribed attribute is undefined behavior; callers
// only remove attributes they added.
func (a *Attributed) RemoveAttribute(name string) bool {
	if a.attributes == nil {
		return false
	}
	return a.attributes.Remove(name)
}

/* -------------------------------------------------------------------------
   Iteration & equality
   ------------------------------------------------------------------------- */

// All yields (name, datum) pairs in map order.
func (a *Attributed) All() iter.Seq2[string, *datum.Datum] {
	return func(yield func(string, *datum.Datum) bool) {
		if a.attributes == nil {
			return
		}
		for name, d := range a.attributes.All() {
			if !yield(name, d) {
				return
			}
		}
	}
}

// Equal reports element-wise equality of the two attribute maps.
func (a *Attributed) Equal(other *Attributed) bool {
	if a.NumAttributes() != other.NumAttributes() {
		return false
	}
	if a.attributes == nil {
		return true
	}
	return a.attributes.EqualFunc(other.attributes, func(x, y *datum.Datum) bool {
		return x.Equal(y)
	})
}

func checkName(name string) error {
	if name == "" {
		return fmt.Errorf("empty attribute name: %w", ErrInvalidName)
	}
	return nil
}
