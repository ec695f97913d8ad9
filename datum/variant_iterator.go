// variant_iterator.go implements the random-access iterator over a
// VariantArray.  Dereferencing yields the same reference wrapper as indexed
// access; arithmetic saturates at End like the Array iterator it mirrors.
//
// © 2025 calyx authors. MIT License.

package datum

// VariantIterator is a random-access iterator over a VariantArray (and so
// over a Datum).
type VariantIterator struct {
	owner *VariantArray
	index int
}

// Begin returns an iterator at the first element.
func (v *VariantArray) Begin() VariantIterator {
	return VariantIterator{owner: v}
}

// End returns the past-the-end iterator.
func (v *VariantArray) End() VariantIterator {
	return VariantIterator{owner: v, index: v.Size()}
}

// Index returns the iterator's position.
func (it VariantIterator) Index() int { return it.index }

// IsEnd reports whether the iterator is past the last element.
func (it VariantIterator) IsEnd() bool {
	return it.owner == nil || it.index >= it.owner.Size()
}

// Value returns the reference wrapper for the referenced element.
func (it VariantIterator) Value() (Value, error) {
	if it.owner == nil {
		return Value{}, ErrOutOfRange
	}
	return it.owner.At(it.index)
}

// Add returns the iterator advanced by n, saturating at End and at the
// beginning.
func (it VariantIterator) Add(n int) VariantIterator {
	it.index += n
	if it.owner != nil && it.index > it.owner.Size() {
		it.index = it.owner.Size()
	}
	if it.index < 0 {
		it.index = 0
	}
	return it
}

// Sub returns the iterator moved backward by n.
func (it VariantIterator) Sub(n int) VariantIterator { return it.Add(-n) }

// Next returns the iterator advanced by one.
func (it VariantIterator) Next() VariantIterator { return it.Add(1) }

// Distance returns the signed index distance it - other. Both iterators
// must share an owner.
func (it VariantIterator) Distance(other VariantIterator) int {
	it.mustShareOwner(other)
	return it.index - other.index
}

// Equal reports whether both iterators reference the same position of the
// same container.
func (it VariantIterator) Equal(other VariantIterator) bool {
	it.mustShareOwner(other)
	return it.index == other.index
}

func (it VariantIterator) mustShareOwner(other VariantIterator) {
	if it.owner != other.owner {
		panic("datum: comparing variant iterators of different owners")
	}
}
