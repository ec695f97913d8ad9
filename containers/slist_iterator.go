// slist_iterator.go implements the forward iterator over SList, including
// the before-begin sentinel used as the uniform anchor for insert-after and
// remove-after.  Iterators stay valid across all operations except removal
// of the node they reference.
//
// © 2025 calyx authors. MIT License.

package containers

import "fmt"

// SListIterator is a forward iterator over an SList. The zero value is not
// usable; obtain iterators from the list.
type SListIterator[T any] struct {
	owner  *SList[T]
	node   *slistNode[T]
	before bool // before-begin sentinel; node is nil
}

// BeforeBegin returns the sentinel preceding the first element. It does not
// dereference; it exists only as an insertion/removal anchor.
func (s *SList[T]) BeforeBegin() SListIterator[T] {
	return SListIterator[T]{owner: s, before: true}
}

// Begin returns an iterator at the first element (End when empty).
func (s *SList[T]) Begin() SListIterator[T] {
	return SListIterator[T]{owner: s, node: s.head}
}

// End returns the past-the-end iterator.
func (s *SList[T]) End() SListIterator[T] {
	return SListIterator[T]{owner: s}
}

// IsEnd reports whether the iterator is past the last element.
func (it SListIterator[T]) IsEnd() bool { return !it.before && it.node == nil }

// IsBeforeBegin reports whether the iterator is the before-begin sentinel.
func (it SListIterator[T]) IsBeforeBegin() bool { return it.before }

// Value returns the referenced element. Dereferencing the before-begin
// sentinel or End reports ErrOutOfRange.
func (it SListIterator[T]) Value() (T, error) {
	var zero T
	if it.node == nil {
		return zero, fmt.Errorf("dereference of list sentinel: %w", ErrOutOfRange)
	}
	return it.node.value, nil
}

// Set overwrites the referenced element.
func (it SListIterator[T]) Set(v T) error {
	if it.node == nil {
		return fmt.Errorf("assign through list sentinel: %w", ErrOutOfRange)
	}
	it.node.value = v
	return nil
}

// Next returns the iterator advanced by one. Advancing from before-begin
// yields Begin; advancing from End stays at End.
func (it SListIterator[T]) Next() SListIterator[T] {
	if it.before {
		return it.owner.Begin()
	}
	if it.node == nil {
		return it
	}
	return SListIterator[T]{owner: it.owner, node: it.node.next}
}

// Equal reports whether both iterators reference the same position of the
// same list.
func (it SListIterator[T]) Equal(other SListIterator[T]) bool {
	if it.owner != other.owner {
		panic("containers: comparing list iterators of different owners")
	}
	return it.before == other.before && it.node == other.node
}
