// Package containers provides the typed dynamic containers the engine core
// is built on: a contiguous Array, a singly-linked SList, a
// separate-chaining HashMap, and the Stack/Queue adapters layered on top of
// them.  Higher layers (datum, attributed, coroutine) consume these
// directly; nothing here is thread-safe by design — concurrency lives in
// the coroutine scheduler alone.
//
// Growth is parameterised by strategy callables rather than hard-coded:
// Array capacity growth through ReserveStrategy, HashMap bucket growth
// through BucketStrategy.  The defaults are 1.5x growth for Array and
// next-prime sizing for HashMap.
//
// Failure semantics follow the engine contract: every index access is
// range-checked and reports ErrOutOfRange — including the plain element
// accessors, which deliberately departs from the usual unchecked-indexing
// convention.  Reversed iterator ranges report ErrInvalidArgument.
// Allocation failure is fatal (the Go runtime aborts); it is never
// surfaced as a value.
//
// © 2025 calyx authors. MIT License.
package containers

import (
	"errors"

	"github.com/calyx-engine/calyx/internal/mathutil"
)

// Error kinds reported by the containers. Callers test with errors.Is.
var (
	// ErrOutOfRange reports an index or key that is not present, or an
	// element access on an empty container.
	ErrOutOfRange = errors.New("out of range")

	// ErrInvalidArgument reports a malformed argument, such as an iterator
	// range [first, last) with first > last.
	ErrInvalidArgument = errors.New("invalid argument")
)

// ReserveStrategy decides a new capacity given the current (size, capacity)
// of an Array about to grow.  A result smaller than size+1 is corrected to
// size+1 by the container itself.
type ReserveStrategy func(size, capacity int) int

// DefaultReserveStrategy is the engine's historical growth curve: shrink
// toward 2/3 capacity while the container is less than half full, otherwise
// grow to 1.5x the size.
func DefaultReserveStrategy(size, capacity int) int {
	if size < capacity/2 {
		return capacity * 2 / 3
	}
	return size * 3 / 2
}

// BucketStrategy decides a new bucket count for a HashMap given its
// (size, buckets) immediately before an insertion.  A result below 1 is
// clamped to 1 by the container.
type BucketStrategy func(size, buckets int) int

// DefaultBucketStrategy returns the next prime at or above the element
// count, keeping chains short without a load-factor knob.
func DefaultBucketStrategy(size, buckets int) int {
	return mathutil.NextPrime(size)
}
