package sparsearray

import (
	"fmt"

	"github.com/rjvanvoorhis/sparse-array/bitvector"
	"github.com/rjvanvoorhis/sparse-array/rank"
	"github.com/rjvanvoorhis/sparse-array/saerr"
	"github.com/rjvanvoorhis/sparse-array/selectsup"
)

// Builder accumulates (value, position) pairs in strictly increasing
// position order, then finalizes into an immutable SparseArray. A
// Builder is single-use: Finalize marks it spent, and any further
// Append call returns ErrInvalidState.
type Builder[T any] struct {
	n      uint64
	bv     *bitvector.Builder
	values []T

	hasAppended  bool
	lastPosition uint64
	finalized    bool
}

// NewBuilder allocates a builder for a logical length of n positions.
func NewBuilder[T any](n uint64) *Builder[T] {
	return &Builder[T]{
		n:  n,
		bv: bitvector.NewBuilder(n),
	}
}

// Append appends value at position. position must be strictly greater
// than the position of the previous Append and less than n.
func (b *Builder[T]) Append(value T, position uint64) error {
	if b.finalized {
		return fmt.Errorf("sparsearray: append(%d): %w", position, saerr.ErrInvalidState)
	}
	if position >= b.n {
		return fmt.Errorf("sparsearray: append(%d): %w", position, saerr.ErrOutOfBounds)
	}
	if b.hasAppended && position <= b.lastPosition {
		return fmt.Errorf("sparsearray: append(%d): %w", position, saerr.ErrOutOfOrder)
	}

	if err := b.bv.Set(position); err != nil {
		return fmt.Errorf("sparsearray: append(%d): %w", position, err)
	}

	b.values = append(b.values, value)
	b.lastPosition = position
	b.hasAppended = true

	return nil
}

// Finalize consumes the builder, builds the rank and select indices,
// and returns the immutable sparse array. Calling Append after
// Finalize returns ErrInvalidState.
func (b *Builder[T]) Finalize() *SparseArray[T] {
	b.finalized = true

	bv := b.bv.Freeze()
	r := rank.New(bv)
	sel := selectsup.New(r)

	return &SparseArray[T]{
		n:      b.n,
		bv:     bv,
		rank:   r,
		sel:    sel,
		values: b.values,
	}
}
