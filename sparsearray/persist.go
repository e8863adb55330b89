package sparsearray

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"

	"lukechampine.com/blake3"

	"github.com/rjvanvoorhis/sparse-array/bitvector"
	"github.com/rjvanvoorhis/sparse-array/rank"
	"github.com/rjvanvoorhis/sparse-array/saerr"
	"github.com/rjvanvoorhis/sparse-array/selectsup"
)

// On-disk layout: a 4-byte magic, a 1-byte format version, a 32-byte
// BLAKE3-256 checksum of the payload, then the Gob-encoded payload
// itself. Rank and select tables are never persisted — Load always
// rebuilds them from the loaded bit vector, which keeps the packed
// counter widths consistent with the loaded n and costs only one more
// linear pass.
const (
	magic          = "SASA"
	formatVersion  = uint8(1)
	checksumLength = 32
)

// payload is the minimum faithful persisted state named by the spec:
// the logical length, the packed bit vector words, and the dense value
// vector. T must be Gob-encodable.
type payload[T any] struct {
	N      uint64
	Bits   []uint64
	Values []T
}

// Save writes s to path. Saving then Load-ing produces a sparse array
// observationally identical to s on every query.
func (s *SparseArray[T]) Save(path string) error {
	p := payload[T]{
		N:      s.n,
		Bits:   s.bv.Words(),
		Values: s.values,
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(p); err != nil {
		return fmt.Errorf("sparsearray: save: encode: %w: %v", saerr.ErrIoFailure, err)
	}
	payloadBytes := buf.Bytes()
	sum := blake3.Sum256(payloadBytes)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("sparsearray: save: %w: %v", saerr.ErrIoFailure, err)
	}
	defer f.Close()

	if _, err := f.WriteString(magic); err != nil {
		return fmt.Errorf("sparsearray: save: %w: %v", saerr.ErrIoFailure, err)
	}
	if _, err := f.Write([]byte{formatVersion}); err != nil {
		return fmt.Errorf("sparsearray: save: %w: %v", saerr.ErrIoFailure, err)
	}
	if _, err := f.Write(sum[:]); err != nil {
		return fmt.Errorf("sparsearray: save: %w: %v", saerr.ErrIoFailure, err)
	}
	if _, err := f.Write(payloadBytes); err != nil {
		return fmt.Errorf("sparsearray: save: %w: %v", saerr.ErrIoFailure, err)
	}

	return nil
}

// Load reads a sparse array previously written by Save. T must match
// the type the array was saved with.
func Load[T any](path string) (*SparseArray[T], error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sparsearray: load: %w: %v", saerr.ErrIoFailure, err)
	}

	headerLen := len(magic) + 1 + checksumLength
	if len(data) < headerLen {
		return nil, fmt.Errorf("sparsearray: load: truncated header: %w", saerr.ErrDecodeFailure)
	}

	offset := 0
	if string(data[offset:offset+len(magic)]) != magic {
		return nil, fmt.Errorf("sparsearray: load: bad magic: %w", saerr.ErrDecodeFailure)
	}
	offset += len(magic)

	version := data[offset]
	offset++
	if version != formatVersion {
		return nil, fmt.Errorf("sparsearray: load: unsupported format version %d: %w", version, saerr.ErrDecodeFailure)
	}

	wantSum := data[offset : offset+checksumLength]
	offset += checksumLength

	payloadBytes := data[offset:]
	gotSum := blake3.Sum256(payloadBytes)
	if !bytes.Equal(wantSum, gotSum[:]) {
		return nil, fmt.Errorf("sparsearray: load: checksum mismatch: %w", saerr.ErrDecodeFailure)
	}

	var p payload[T]
	if err := gob.NewDecoder(bytes.NewReader(payloadBytes)).Decode(&p); err != nil {
		return nil, fmt.Errorf("sparsearray: load: decode: %w: %v", saerr.ErrDecodeFailure, err)
	}

	bv, err := bitvector.FromWords(p.Bits, p.N)
	if err != nil {
		return nil, fmt.Errorf("sparsearray: load: %w", err)
	}

	r := rank.New(bv)
	sel := selectsup.New(r)

	popcount, err := r.Rank1(bv.Len())
	if err != nil {
		return nil, fmt.Errorf("sparsearray: load: %w", err)
	}
	if popcount != uint64(len(p.Values)) {
		return nil, fmt.Errorf(
			"sparsearray: load: value count %d does not match popcount %d: %w",
			len(p.Values), popcount, saerr.ErrDecodeFailure,
		)
	}

	return &SparseArray[T]{
		n:      p.N,
		bv:     bv,
		rank:   r,
		sel:    sel,
		values: p.Values,
	}, nil
}
