// Package sparsearray implements a succinct sparse array: a container
// that stores values only at a small subset of positions in a logically
// long indexed sequence, addressed through a rank/select index built
// over a bit vector marking which positions are populated.
package sparsearray

import (
	"fmt"

	"github.com/rjvanvoorhis/sparse-array/bitvector"
	"github.com/rjvanvoorhis/sparse-array/rank"
	"github.com/rjvanvoorhis/sparse-array/saerr"
	"github.com/rjvanvoorhis/sparse-array/selectsup"
)

// SparseArray owns a bit vector of length n, a rank/select index over
// it, and a dense value vector of length popcount(bit vector). It is
// immutable once built, either via Builder.Finalize or FromDense.
type SparseArray[T any] struct {
	n      uint64
	bv     *bitvector.BitVector
	rank   *rank.Support
	sel    *selectsup.Support
	values []T
}

// Size returns the logical length n.
func (s *SparseArray[T]) Size() uint64 {
	return s.n
}

// NumElem returns the population count: the number of present elements.
func (s *SparseArray[T]) NumElem() uint64 {
	return uint64(len(s.values))
}

// NumElemAt returns the number of present elements at positions [0, i]
// inclusive.
func (s *SparseArray[T]) NumElemAt(i uint64) (uint64, error) {
	if i >= s.n {
		return 0, fmt.Errorf("sparsearray: num_elem_at(%d): %w", i, saerr.ErrOutOfBounds)
	}
	return s.rank.Rank1(i + 1)
}

// GetIndexOf returns the logical position of the ith present element,
// 1-indexed. The second return value is false when i is zero or
// greater than NumElem(); this is a normal "not present" result, not
// an error.
func (s *SparseArray[T]) GetIndexOf(i uint64) (uint64, bool, error) {
	if i == 0 || i > s.NumElem() {
		return 0, false, nil
	}

	pos, err := s.sel.Select1(i)
	if err != nil {
		return 0, false, fmt.Errorf("sparsearray: get_index_of(%d): %w", i, err)
	}
	return pos, true, nil
}

// GetAtIndex returns the value at logical position i. The second
// return value is false when no element is present at i; this is a
// normal "not present" result, not an error.
func (s *SparseArray[T]) GetAtIndex(i uint64) (T, bool, error) {
	var zero T

	if i >= s.n {
		return zero, false, fmt.Errorf("sparsearray: get_at_index(%d): %w", i, saerr.ErrOutOfBounds)
	}

	set, err := s.bv.Get(i)
	if err != nil {
		return zero, false, fmt.Errorf("sparsearray: get_at_index(%d): %w", i, err)
	}
	if !set {
		return zero, false, nil
	}

	r, err := s.rank.Rank1(i)
	if err != nil {
		return zero, false, fmt.Errorf("sparsearray: get_at_index(%d): %w", i, err)
	}
	return s.values[r], true, nil
}

// GetAtRank returns the ith present element, 1-indexed, reading the
// dense value vector directly. The second return value is false when i
// is zero or greater than NumElem(); this is a normal "not present"
// result, not an error.
func (s *SparseArray[T]) GetAtRank(i uint64) (T, bool, error) {
	var zero T

	if i == 0 || i > s.NumElem() {
		return zero, false, nil
	}
	return s.values[i-1], true, nil
}

// Overhead returns the size, in bits, of the bit vector plus the rank
// and select indices' auxiliary tables. It excludes the dense value
// vector.
func (s *SparseArray[T]) Overhead() uint64 {
	return s.bv.SizeBits() + s.sel.Overhead()
}

// FromDense builds a sparse array from a dense sequence of optional
// values. The result has n = len(seq) and a present entry wherever an
// element of seq is present.
func FromDense[T any](seq []Optional[T]) *SparseArray[T] {
	b := NewBuilder[T](uint64(len(seq)))
	for i, o := range seq {
		if o.Present {
			// Positions are strictly increasing by construction
			// (loop index) and always < n, so this cannot fail.
			_ = b.Append(o.Value, uint64(i))
		}
	}
	return b.Finalize()
}

// FromDensePointers is a convenience overload of FromDense for slices
// of pointers, where a nil element means absent.
func FromDensePointers[T any](seq []*T) *SparseArray[T] {
	b := NewBuilder[T](uint64(len(seq)))
	for i, p := range seq {
		if p != nil {
			_ = b.Append(*p, uint64(i))
		}
	}
	return b.Finalize()
}
