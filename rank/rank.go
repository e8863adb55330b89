// Package rank builds a two-level Jacobson rank index over a
// bitvector.BitVector and answers rank1/rank0 queries in O(1) using
// sublinear auxiliary space.
package rank

import (
	"fmt"
	"math/bits"

	"github.com/robskie/bit"

	"github.com/rjvanvoorhis/sparse-array/bitvector"
	"github.com/rjvanvoorhis/sparse-array/saerr"
)

// blockBits is the block size B, fixed to one machine word. This is the
// "power of two convenient to the word size" the spec allows in place
// of the raw ceil(lg n / 2) formula.
const blockBits = 64

// Support is a rank index over a bit vector. It holds superblock and
// block counters packed at exactly the bit width each needs, per the
// spec's sublinear-overhead target.
type Support struct {
	bv *bitvector.BitVector

	superblockCounts *packedInts
	blockCounts      *packedInts

	superblockBits    uint64 // S
	blocksPerSuperblk uint64 // S / blockBits

	total uint64 // popcount(bv), cached
}

// New builds a rank index over bv.
func New(bv *bitvector.BitVector) *Support {
	n := bv.Len()
	numBlocks := (n + blockBits - 1) / blockBits

	superblockBits := superblockSize(n)
	blocksPerSuperblk := superblockBits / blockBits

	var numSuperblocks uint64
	if numBlocks > 0 {
		numSuperblocks = (numBlocks + blocksPerSuperblk - 1) / blocksPerSuperblk
	}

	sbWidth := bitWidth(n)
	bWidth := bitWidth(superblockBits)

	s := &Support{
		bv:                bv,
		superblockCounts:  newPackedInts(sbWidth, numSuperblocks),
		blockCounts:       newPackedInts(bWidth, numBlocks),
		superblockBits:    superblockBits,
		blocksPerSuperblk: blocksPerSuperblk,
	}

	var runningSuperSum uint64
	var total uint64
	for blk := uint64(0); blk < numBlocks; blk++ {
		if blk%blocksPerSuperblk == 0 {
			s.superblockCounts.append(total)
			runningSuperSum = 0
		}
		s.blockCounts.append(runningSuperSum)

		word, _ := bv.Word(blk) // blk < numBlocks is always in range
		wp := uint64(bits.OnesCount64(word))
		runningSuperSum += wp
		total += wp
	}
	s.total = total

	return s
}

// superblockSize computes S = ceil((lg n)^2 / 2), rounded up to a
// multiple of blockBits, with a floor of blockBits itself.
func superblockSize(n uint64) uint64 {
	lgn := uint64(0)
	if n > 1 {
		lgn = uint64(bits.Len64(n - 1))
	}

	raw := (lgn*lgn + 1) / 2
	if raw <= blockBits {
		return blockBits
	}
	return ((raw + blockBits - 1) / blockBits) * blockBits
}

// Rank1 returns the number of set bits in positions [0, i).
func (s *Support) Rank1(i uint64) (uint64, error) {
	n := s.bv.Len()
	if i > n {
		return 0, fmt.Errorf("rank: rank1(%d): %w", i, saerr.ErrOutOfBounds)
	}
	if i == 0 {
		return 0, nil
	}
	if i == n {
		return s.total, nil
	}

	blk := i / blockBits
	sup := blk / s.blocksPerSuperblk
	r := i % blockBits

	rank := s.superblockCounts.get(sup) + s.blockCounts.get(blk)

	word, err := s.bv.Word(blk)
	if err != nil {
		return 0, fmt.Errorf("rank: rank1(%d): %w", i, err)
	}
	rank += residualRank(word, r)

	return rank, nil
}

// Rank0 returns the number of zero bits in positions [0, i).
func (s *Support) Rank0(i uint64) (uint64, error) {
	r1, err := s.Rank1(i)
	if err != nil {
		return 0, err
	}
	return i - r1, nil
}

// Overhead returns the size, in bits, of the superblock and block
// counter tables. It excludes the bit vector itself.
func (s *Support) Overhead() uint64 {
	return s.superblockCounts.sizeBits() + s.blockCounts.sizeBits()
}

// BitVector returns the underlying bit vector this index was built
// over, for callers (notably selectsup) that need direct bit access
// alongside rank queries.
func (s *Support) BitVector() *bitvector.BitVector {
	return s.bv
}

// residualRank returns the popcount of the low r bits of word.
func residualRank(word uint64, r uint64) uint64 {
	if r == 0 {
		return 0
	}
	if r >= 64 {
		return uint64(bit.PopCount(word))
	}
	mask := (uint64(1) << r) - 1
	return uint64(bit.PopCount(word & mask))
}
