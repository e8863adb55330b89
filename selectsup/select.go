// Package selectsup answers select1/select0 queries — the inverse of
// rank — via binary search over a rank.Support, in O(log n) time and
// O(1) extra rank queries per step.
package selectsup

import (
	"fmt"

	"github.com/rjvanvoorhis/sparse-array/bitvector"
	"github.com/rjvanvoorhis/sparse-array/rank"
	"github.com/rjvanvoorhis/sparse-array/saerr"
)

// sampleK is the number of set (or unset) bits spanned by one entry of
// the coarse sampled-position table, matching the teacher's own
// select-sampling block size.
const sampleK = 8192

// Support is a select index built atop a rank.Support.
type Support struct {
	rank *rank.Support
	bv   *bitvector.BitVector

	popcount  uint64
	zeroCount uint64

	// sampledOnes[m] is the position of the ((m+1)*sampleK)-th set bit.
	// sampledZeros is the analogous table for zero bits. Both are
	// optional acceleration: they only ever narrow the binary search's
	// starting lo bound, never change its result.
	sampledOnes  []uint64
	sampledZeros []uint64
}

// New builds a select index over r.
func New(r *rank.Support) *Support {
	bv := r.BitVector()
	n := bv.Len()

	popcount, _ := r.Rank1(n)
	zeroCount := n - popcount

	s := &Support{
		rank:      r,
		bv:        bv,
		popcount:  popcount,
		zeroCount: zeroCount,
	}
	s.sampledOnes, s.sampledZeros = buildSamples(bv, sampleK)

	return s
}

// buildSamples scans the bit vector once, recording the position of
// every kth set bit and every kth zero bit.
func buildSamples(bv *bitvector.BitVector, k uint64) (ones, zeros []uint64) {
	n := bv.Len()
	numWords := (n + 63) / 64

	var onesSeen, zerosSeen uint64
	for w := uint64(0); w < numWords; w++ {
		word, _ := bv.Word(w)
		base := w * 64

		limit := uint64(64)
		if base+64 > n {
			limit = n - base
		}

		for b := uint64(0); b < limit; b++ {
			if word&(uint64(1)<<b) != 0 {
				onesSeen++
				if onesSeen%k == 0 {
					ones = append(ones, base+b)
				}
			} else {
				zerosSeen++
				if zerosSeen%k == 0 {
					zeros = append(zeros, base+b)
				}
			}
		}
	}

	return ones, zeros
}

// Select1 returns the zero-based position of the ith set bit, 1-indexed.
func (s *Support) Select1(i uint64) (uint64, error) {
	if i == 0 || i > s.popcount {
		return 0, fmt.Errorf("selectsup: select1(%d): %w", i, saerr.ErrOutOfRange)
	}

	lo, hi := uint64(0), s.bv.Len()
	if m := int64(i/sampleK) - 1; m >= 0 && m < int64(len(s.sampledOnes)) {
		lo = s.sampledOnes[m]
	}

	for lo < hi {
		mid := lo + (hi-lo)/2

		r1, err := s.rank.Rank1(mid + 1)
		if err != nil {
			return 0, fmt.Errorf("selectsup: select1(%d): %w", i, err)
		}

		if r1 >= i {
			if set, _ := s.bv.Get(mid); set {
				if r0, _ := s.rank.Rank1(mid); r0 == i-1 {
					return mid, nil
				}
			}
			hi = mid
		} else {
			lo = mid + 1
		}
	}

	return lo, nil
}

// Select0 returns the zero-based position of the ith zero bit, 1-indexed.
func (s *Support) Select0(i uint64) (uint64, error) {
	if i == 0 || i > s.zeroCount {
		return 0, fmt.Errorf("selectsup: select0(%d): %w", i, saerr.ErrOutOfRange)
	}

	lo, hi := uint64(0), s.bv.Len()
	if m := int64(i/sampleK) - 1; m >= 0 && m < int64(len(s.sampledZeros)) {
		lo = s.sampledZeros[m]
	}

	for lo < hi {
		mid := lo + (hi-lo)/2

		r0, err := s.rank.Rank0(mid + 1)
		if err != nil {
			return 0, fmt.Errorf("selectsup: select0(%d): %w", i, err)
		}

		if r0 >= i {
			if set, _ := s.bv.Get(mid); !set {
				if prev, _ := s.rank.Rank0(mid); prev == i-1 {
					return mid, nil
				}
			}
			hi = mid
		} else {
			lo = mid + 1
		}
	}

	return lo, nil
}

// Overhead returns the size, in bits, of the select index's own tables
// plus the rank support's overhead.
func (s *Support) Overhead() uint64 {
	sampleBits := uint64(len(s.sampledOnes)+len(s.sampledZeros)) * 64
	return s.rank.Overhead() + sampleBits
}

// Rank returns the underlying rank support, for callers that need
// direct rank access alongside select.
func (s *Support) Rank() *rank.Support {
	return s.rank
}
