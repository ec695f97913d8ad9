// slist.go implements the singly-linked list.  A maintained tail pointer
// makes back-insertion O(1); node addresses are stable, which the HashMap
// exploits to rehash and merge by splicing nodes instead of copying
// elements.  A before-begin sentinel iterator lets insert-after and
// remove-after handle the head uniformly.
//
// Sorting is a merge sort that operates purely by relinking next pointers;
// elements are never moved.
//
// © 2025 calyx authors. MIT License.

package containers

import (
	"cmp"
	"fmt"
	"iter"
)

type slistNode[T any] struct {
	next  *slistNode[T]
	value T
}

// SList is a singly-linked list. The zero value is an empty list ready for
// use.
type SList[T any] struct {
	head *slistNode[T]
	tail *slistNode[T]
	size int
}

// NewSList returns an empty list.
func NewSList[T any]() *SList[T] {
	return &SList[T]{}
}

// NewSListOf returns a list holding the given values in order.
func NewSListOf[T any](values ...T) *SList[T] {
	s := &SList[T]{}
	for _, v := range values {
		s.PushBack(v)
	}
	return s
}

/* -------------------------------------------------------------------------
   Properties & element access
   ------------------------------------------------------------------------- */

// Size returns the number of elements.
func (s *SList[T]) Size() int { return s.size }

// IsEmpty reports whether the list holds no elements.
func (s *SList[T]) IsEmpty() bool { return s.size == 0 }

// Front returns the first element.
func (s *SList[T]) Front() (T, error) {
	var zero T
	if s.head == nil {
		return zero, fmt.Errorf("front of empty list: %w", ErrOutOfRange)
	}
	return s.head.value, nil
}

// Back returns the last element.
func (s *SList[T]) Back() (T, error) {
	var zero T
	if s.tail == nil {
		return zero, fmt.Errorf("back of empty list: %w", ErrOutOfRange)
	}
	return s.tail.value, nil
}

/* -------------------------------------------------------------------------
   Insertion
   ------------------------------------------------------------------------- */

// PushFront prepends v. O(1).
func (s *SList[T]) PushFront(v T) {
	n := &slistNode[T]{next: s.head, value: v}
	s.head = n
	if s.tail == nil {
		s.tail = n
	}
	s.size++
}

// PushBack appends v. O(1) via the tail pointer.
func (s *SList[T]) PushBack(v T) {
	s.pushNode(&slistNode[T]{value: v})
}

// InsertAfter places v after pos and returns an iterator at the new
// element. pos may be the before-begin sentinel.
func (s *SList[T]) InsertAfter(pos SListIterator[T], v T) (SListIterator[T], error) {
	if pos.owner != s {
		return SListIterator[T]{}, fmt.Errorf("list insert with foreign iterator: %w", ErrInvalidArgument)
	}
	if pos.before {
		s.PushFront(v)
		return s.Begin(), nil
	}
	if pos.node == nil {
		return SListIterator[T]{}, fmt.Errorf("list insert after end: %w", ErrOutOfRange)
	}
	n := &slistNode[T]{next: pos.node.next, value: v}
	pos.node.next = n
	if s.tail == pos.node {
		s.tail = n
	}
	s.size++
	return SListIterator[T]{owner: s, node: n}, nil
}

/* -------------------------------------------------------------------------
   Removal
   ------------------------------------------------------------------------- */

// PopFront drops the first element; no-op when empty. O(1).
func (s *SList[T]) PopFront() {
	if s.head == nil {
		return
	}
	s.head = s.head.next
	if s.head == nil {
		s.tail = nil
	}
	s.size--
}

// PopBack drops the last element; no-op when empty. O(n) because the
// predecessor of tail must be found.
func (s *SList[T]) PopBack() {
	switch s.size {
	case 0:
		return
	case 1:
		s.head, s.tail = nil, nil
		s.size = 0
		return
	}
	prev := s.head
	for prev.next != s.tail {
		prev = prev.next
	}
	prev.next = nil
	s.tail = prev
	s.size--
}

// RemoveAfter erases the element following pos. pos may be the before-begin
// sentinel (removing the head).
func (s *SList[T]) RemoveAfter(pos SListIterator[T]) error {
	if pos.owner != s {
		return fmt.Errorf("list remove with foreign iterator: %w", ErrInvalidArgument)
	}
	if pos.before {
		if s.head == nil {
			return fmt.Errorf("list remove after before-begin on empty list: %w", ErrOutOfRange)
		}
		s.PopFront()
		return nil
	}
	if pos.node == nil || pos.node.next == nil {
		return fmt.Errorf("list remove after end: %w", ErrOutOfRange)
	}
	dead := pos.node.next
	pos.node.next = dead.next
	if s.tail == dead {
		s.tail = pos.node
	}
	s.size--
	return nil
}

// RemoveIf erases the first element matching pred, reporting whether a
// removal occurred.
func (s *SList[T]) RemoveIf(pred func(T) bool) bool {
	prev, found := s.findPrev(pred)
	if !found {
		return false
	}
	_ = s.RemoveAfter(prev)
	return true
}

// RemoveAllIf erases every element matching pred, returning how many were
// removed.
func (s *SList[T]) RemoveAllIf(pred func(T) bool) int {
	removed := 0
	prev := s.BeforeBegin()
	for {
		var next *slistNode[T]
		if prev.before {
			next = s.head
		} else {
			next = prev.node.next
		}
		if next == nil {
			return removed
		}
		if pred(next.value) {
			_ = s.RemoveAfter(prev)
			removed++
		} else {
			prev = SListIterator[T]{owner: s, node: next}
		}
	}
}

// Clear drops all elements.
func (s *SList[T]) Clear() {
	s.head, s.tail = nil, nil
	s.size = 0
}

/* -------------------------------------------------------------------------
   Search
   ------------------------------------------------------------------------- */

// FindPrevIf returns an iterator to the element whose successor matches
// pred — the before-begin sentinel when the head itself matches — and
// whether a match exists.
func (s *SList[T]) FindPrevIf(pred func(T) bool) (SListIterator[T], bool) {
	return s.findPrev(pred)
}

func (s *SList[T]) findPrev(pred func(T) bool) (SListIterator[T], bool) {
	prev := s.BeforeBegin()
	for n := s.head; n != nil; n = n.next {
		if pred(n.value) {
			return prev, true
		}
		prev = SListIterator[T]{owner: s, node: n}
	}
	return SListIterator[T]{owner: s}, false
}

/* -------------------------------------------------------------------------
   Reordering
   ------------------------------------------------------------------------- */

// Reverse reverses the next links in place.
func (s *SList[T]) Reverse() {
	var prev *slistNode[T]
	cur := s.head
	s.tail = s.head
	for cur != nil {
		next := cur.next
		cur.next = prev
		prev = cur
		cur = next
	}
	s.head = prev
}

// SortFunc sorts the list with a merge sort that relinks nodes; elements
// are never moved. The sort is stable.
func (s *SList[T]) SortFunc(less func(a, b T) bool) {
	if s.size < 2 {
		return
	}
	s.head = mergeSort(s.head, less)
	tail := s.head
	for tail.next != nil {
		tail = tail.next
	}
	s.tail = tail
}

// Merge relinks the nodes of other into this list so the result is sorted
// by less, assuming both inputs were. other becomes empty.
func (s *SList[T]) Merge(other *SList[T], less func(a, b T) bool) {
	if other == s || other.head == nil {
		return
	}
	s.head = mergeChains(s.head, other.head, less)
	s.size += other.size
	tail := s.head
	for tail.next != nil {
		tail = tail.next
	}
	s.tail = tail
	other.head, other.tail, other.size = nil, nil, 0
}

func mergeSort[T any](head *slistNode[T], less func(a, b T) bool) *slistNode[T] {
	if head == nil || head.next == nil {
		return head
	}
	// Split at the middle via slow/fast runners.
	slow, fast := head, head.next
	for fast != nil && fast.next != nil {
		slow = slow.next
		fast = fast.next.next
	}
	right := slow.next
	slow.next = nil
	return mergeChains(mergeSort(head, less), mergeSort(right, less), less)
}

func mergeChains[T any](a, b *slistNode[T], less func(x, y T) bool) *slistNode[T] {
	var head, tail *slistNode[T]
	appendNode := func(n *slistNode[T]) {
		if tail == nil {
			head, tail = n, n
		} else {
			tail.next = n
			tail = n
		}
	}
	for a != nil && b != nil {
		if less(b.value, a.value) {
			next := b.next
			appendNode(b)
			b = next
		} else {
			next := a.next
			appendNode(a)
			a = next
		}
	}
	for _, rest := range []*slistNode[T]{a, b} {
		for rest != nil {
			next := rest.next
			appendNode(rest)
			rest = next
		}
	}
	if tail != nil {
		tail.next = nil
	}
	return head
}

/* -------------------------------------------------------------------------
   Iteration
   ------------------------------------------------------------------------- */

// All yields elements front to back.
func (s *SList[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for n := s.head; n != nil; n = n.next {
			if !yield(n.value) {
				return
			}
		}
	}
}

/* -------------------------------------------------------------------------
   Node plumbing shared with HashMap (same package)
   ------------------------------------------------------------------------- */

// pushNode appends an existing node, taking ownership of it.
func (s *SList[T]) pushNode(n *slistNode[T]) {
	n.next = nil
	if s.tail == nil {
		s.head, s.tail = n, n
	} else {
		s.tail.next = n
		s.tail = n
	}
	s.size++
}

// detachAfter unlinks and returns the node following prev (nil prev means
// detach the head). The caller owns the returned node.
func (s *SList[T]) detachAfter(prev *slistNode[T]) *slistNode[T] {
	var dead *slistNode[T]
	if prev == nil {
		dead = s.head
		if dead == nil {
			return nil
		}
		s.head = dead.next
		if s.head == nil {
			s.tail = nil
		}
	} else {
		dead = prev.next
		if dead == nil {
			return nil
		}
		prev.next = dead.next
		if s.tail == dead {
			s.tail = prev
		}
	}
	dead.next = nil
	s.size--
	return dead
}

/* -------------------------------------------------------------------------
   Value-based helpers for comparable elements
   ------------------------------------------------------------------------- */

// ListContains reports whether v occurs in s.
func ListContains[T comparable](s *SList[T], v T) bool {
	for n := s.head; n != nil; n = n.next {
		if n.value == v {
			return true
		}
	}
	return false
}

// ListRemove erases the first element equal to v, reporting whether a
// removal occurred.
func ListRemove[T comparable](s *SList[T], v T) bool {
	return s.RemoveIf(func(x T) bool { return x == v })
}

// ListRemoveAll erases every element equal to v, returning how many were
// removed.
func ListRemoveAll[T comparable](s *SList[T], v T) int {
	return s.RemoveAllIf(func(x T) bool { return x == v })
}

// ListFindPrev returns an iterator to the element whose successor equals v.
func ListFindPrev[T comparable](s *SList[T], v T) (SListIterator[T], bool) {
	return s.FindPrevIf(func(x T) bool { return x == v })
}

// ListEqual reports element-wise equality of two lists.
func ListEqual[T comparable](a, b *SList[T]) bool {
	if a.size != b.size {
		return false
	}
	na, nb := a.head, b.head
	for na != nil {
		if na.value != nb.value {
			return false
		}
		na, nb = na.next, nb.next
	}
	return true
}

// ListSort sorts a list of ordered elements.
func ListSort[T cmp.Ordered](s *SList[T]) {
	s.SortFunc(func(a, b T) bool { return a < b })
}
