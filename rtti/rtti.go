// Package rtti implements the minimal runtime-type layer the engine core
// needs: stable numeric type identities handed out at process init, a
// name<->id registry, and the RTTI interface implemented by every
// polymorphic engine object that can be stored in a Datum or reflected over
// by the attributed layer.
//
// Identities are assigned in registration order, so they are stable within a
// process but not across builds; nothing in the core persists them.  The
// registry is written only during package init (from generated registration
// code) and is read-only afterwards; reads take a short mutex and are safe
// from any goroutine.
//
// © 2025 calyx authors. MIT License.
package rtti

import (
	"fmt"
	"sync"
)

// TypeID identifies a registered polymorphic type. The zero value is
// reserved and never assigned.
type TypeID uint32

// None is the reserved "no type" identity.
const None TypeID = 0

// RTTI is implemented by every polymorphic engine object. Two refs compare
// equal when they are the same object (Go interface identity), which is the
// sharing semantic Datum relies on.
type RTTI interface {
	TypeID() TypeID
	String() string
}

var (
	mu      sync.Mutex
	names   = map[TypeID]string{}
	ids     = map[string]TypeID{}
	counter TypeID
)

// Register assigns a fresh TypeID to name. It is intended to be called from
// package-level variable initialisers (generated code); calling it twice
// with the same name panics, as does an empty name.
func Register(name string) TypeID {
	if name == "" {
		panic("rtti: empty type name")
	}
	mu.Lock()
	defer mu.Unlock()
	if _, dup := ids[name]; dup {
		panic(fmt.Sprintf("rtti: duplicate registration of %q", name))
	}
	counter++
	id := counter
	ids[name] = id
	names[id] = name
	return id
}

// Name returns the registered name for id, or "" when id is unknown.
func Name(id TypeID) string {
	mu.Lock()
	defer mu.Unlock()
	return names[id]
}

// Lookup resolves a registered name back to its TypeID.
func Lookup(name string) (TypeID, bool) {
	mu.Lock()
	defer mu.Unlock()
	id, ok := ids[name]
	return id, ok
}
