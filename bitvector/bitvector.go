// Package bitvector provides an immutable, word-packed bit vector with
// O(1) bit and word access. It is the bottom layer of the succinct
// sparse array stack: rank and select support are built on top of it.
package bitvector

import (
	"fmt"
	"math/bits"

	"github.com/rjvanvoorhis/sparse-array/saerr"
)

// BitVector is an immutable sequence of n bits, packed 64 to a word.
// Bits beyond n within the final word are always zero.
type BitVector struct {
	words  []uint64
	length uint64
}

// Len returns the total number of bits stored.
func (v *BitVector) Len() uint64 {
	return v.length
}

// Get returns the bit value at position i.
func (v *BitVector) Get(i uint64) (bool, error) {
	if i >= v.length {
		return false, fmt.Errorf("bitvector: get(%d): %w", i, saerr.ErrOutOfBounds)
	}
	return v.words[i>>6]&(1<<(i&63)) != 0, nil
}

// Word returns the 64-bit word containing bits [64w, 64w+64). Bits
// beyond Len() in the final word are masked to zero.
func (v *BitVector) Word(w uint64) (uint64, error) {
	if w >= uint64(len(v.words)) {
		return 0, fmt.Errorf("bitvector: word(%d): %w", w, saerr.ErrOutOfBounds)
	}
	return v.words[w], nil
}

// SizeBits returns the raw storage size in bits, including any unused
// tail bits in the final word. It is the figure overhead() calculations
// elsewhere in the stack add to their own auxiliary tables.
func (v *BitVector) SizeBits() uint64 {
	return uint64(len(v.words)) * 64
}

// Words returns a copy of the underlying packed words, for callers
// (notably persistence) that need the raw representation. The copy
// keeps BitVector's post-freeze immutability intact.
func (v *BitVector) Words() []uint64 {
	out := make([]uint64, len(v.words))
	copy(out, v.words)
	return out
}

// FromWords reconstructs a BitVector of length n from previously
// exported words, such as when loading a saved sparse array. It fails
// with ErrDecodeFailure if the word count doesn't match n or if bits
// beyond n in the final word are set.
func FromWords(words []uint64, n uint64) (*BitVector, error) {
	expected := (n + 63) >> 6
	if uint64(len(words)) != expected {
		return nil, fmt.Errorf(
			"bitvector: from words: expected %d words for length %d, got %d: %w",
			expected, n, len(words), saerr.ErrDecodeFailure,
		)
	}

	if tailBits := n & 63; tailBits != 0 && expected > 0 {
		if words[expected-1]>>tailBits != 0 {
			return nil, fmt.Errorf("bitvector: from words: trailing bits beyond length are set: %w", saerr.ErrDecodeFailure)
		}
	}

	out := make([]uint64, len(words))
	copy(out, words)
	return &BitVector{words: out, length: n}, nil
}

// PopcountRange returns the population count of bits [lo, hi).
func (v *BitVector) PopcountRange(lo, hi uint64) (uint64, error) {
	if lo > hi || hi > v.length {
		return 0, fmt.Errorf("bitvector: popcount range [%d,%d): %w", lo, hi, saerr.ErrOutOfBounds)
	}
	if lo == hi {
		return 0, nil
	}

	startWord := lo >> 6
	endWord := (hi - 1) >> 6

	if startWord == endWord {
		w := v.words[startWord] >> (lo & 63)
		width := hi - lo
		if width < 64 {
			w &= (uint64(1) << width) - 1
		}
		return uint64(bits.OnesCount64(w)), nil
	}

	var count uint64
	count += uint64(bits.OnesCount64(v.words[startWord] >> (lo & 63)))
	for i := startWord + 1; i < endWord; i++ {
		count += uint64(bits.OnesCount64(v.words[i]))
	}

	remBits := hi - endWord*64
	last := v.words[endWord]
	if remBits < 64 {
		last &= (uint64(1) << remBits) - 1
	}
	count += uint64(bits.OnesCount64(last))

	return count, nil
}

// FromBools builds a frozen BitVector from a slice of bools in order.
func FromBools(bs []bool) *BitVector {
	b := NewBuilder(uint64(len(bs)))
	for i, set := range bs {
		if set {
			// Construction-only path; i is always < len(bs) by
			// definition so the error is unreachable.
			_ = b.Set(uint64(i))
		}
	}
	return b.Freeze()
}

// Builder accumulates a bit vector of a fixed, preallocated length
// before it is frozen into an immutable BitVector.
type Builder struct {
	words  []uint64
	length uint64
	frozen bool
}

// NewBuilder allocates a builder for a bit vector of length n, with
// every bit initialized to zero.
func NewBuilder(n uint64) *Builder {
	return &Builder{
		words:  make([]uint64, (n+63)>>6),
		length: n,
	}
}

// Set turns on the bit at position i. Precondition: i < n.
func (b *Builder) Set(i uint64) error {
	if b.frozen {
		return fmt.Errorf("bitvector: set(%d): %w", i, saerr.ErrInvalidState)
	}
	if i >= b.length {
		return fmt.Errorf("bitvector: set(%d): %w", i, saerr.ErrOutOfBounds)
	}
	b.words[i>>6] |= uint64(1) << (i & 63)
	return nil
}

// Freeze consumes the builder and returns the immutable BitVector.
// Calling Set after Freeze returns ErrInvalidState.
func (b *Builder) Freeze() *BitVector {
	b.frozen = true
	return &BitVector{
		words:  b.words,
		length: b.length,
	}
}
