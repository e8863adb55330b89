package sparsearray

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderAppendOrdering(t *testing.T) {
	b := NewBuilder[string](10)

	require.NoError(t, b.Append("a", 2))
	require.NoError(t, b.Append("b", 5))

	err := b.Append("c", 5)
	assert.Error(t, err)

	err = b.Append("d", 1)
	assert.Error(t, err)

	err = b.Append("e", 10)
	assert.Error(t, err)
}

func TestAppendAfterFinalizeFails(t *testing.T) {
	b := NewBuilder[int](5)
	require.NoError(t, b.Append(42, 0))
	b.Finalize()

	err := b.Append(7, 1)
	assert.Error(t, err)
}

// TestScenario2 is spec.md §8 scenario 2: a sparse array of length 7
// with appends ("foo",1) and ("bar",3).
func TestScenario2(t *testing.T) {
	b := NewBuilder[string](7)
	require.NoError(t, b.Append("foo", 1))
	require.NoError(t, b.Append("bar", 3))
	sa := b.Finalize()

	assert.EqualValues(t, 7, sa.Size())
	assert.EqualValues(t, 2, sa.NumElem())

	n3, err := sa.NumElemAt(3)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n3)

	v, ok, err := sa.GetAtRank(2)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "bar", v)

	_, ok, err = sa.GetAtIndex(2)
	require.NoError(t, err)
	assert.False(t, ok)

	v, ok, err = sa.GetAtIndex(3)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "bar", v)

	idx, ok, err := sa.GetIndexOf(2)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.EqualValues(t, 3, idx)

	_, ok, err = sa.GetIndexOf(100)
	require.NoError(t, err)
	assert.False(t, ok)
}

// TestFromDenseScenario3 is spec.md §8 scenario 3.
func TestFromDenseScenario3(t *testing.T) {
	seq := []Optional[int]{Some(0), None[int](), Some(1), None[int](), None[int]()}
	sa := FromDense(seq)

	idx, ok, err := sa.GetIndexOf(2)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.EqualValues(t, 2, idx)

	assert.EqualValues(t, 2, sa.NumElem())
	assert.EqualValues(t, 5, sa.Size())
}

// TestEmptySparseArray is spec.md §8 scenario 5.
func TestEmptySparseArray(t *testing.T) {
	b := NewBuilder[int](1000)
	sa := b.Finalize()

	assert.EqualValues(t, 0, sa.NumElem())

	n, err := sa.NumElemAt(999)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)

	_, ok, err := sa.GetIndexOf(1)
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = sa.GetAtIndex(0)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGetAtIndexOutOfBounds(t *testing.T) {
	b := NewBuilder[int](3)
	sa := b.Finalize()

	_, _, err := sa.GetAtIndex(3)
	assert.Error(t, err)
}

func TestNumElemAtOutOfBounds(t *testing.T) {
	b := NewBuilder[int](3)
	sa := b.Finalize()

	_, err := sa.NumElemAt(3)
	assert.Error(t, err)
}

// TestBuilderAndFromDenseAreEquivalent is the design-note requirement:
// the two construction paths must yield observationally identical
// sparse arrays for equivalent data.
func TestBuilderAndFromDenseAreEquivalent(t *testing.T) {
	dense := []Optional[string]{
		None[string](), Some("x"), None[string](), Some("y"), Some("z"), None[string](),
	}

	viaBuilder := NewBuilder[string](uint64(len(dense)))
	for i, o := range dense {
		if o.Present {
			require.NoError(t, viaBuilder.Append(o.Value, uint64(i)))
		}
	}
	a := viaBuilder.Finalize()
	b := FromDense(dense)

	assert.Equal(t, a.Size(), b.Size())
	assert.Equal(t, a.NumElem(), b.NumElem())

	for i := uint64(0); i < a.Size(); i++ {
		av, aok, aerr := a.GetAtIndex(i)
		bv, bok, berr := b.GetAtIndex(i)
		require.NoError(t, aerr)
		require.NoError(t, berr)
		assert.Equal(t, aok, bok)
		assert.Equal(t, av, bv)
	}
}

func TestFromDensePointers(t *testing.T) {
	x, z := 10, 30
	seq := []*int{&x, nil, &z}
	sa := FromDensePointers(seq)

	assert.EqualValues(t, 2, sa.NumElem())

	v, ok, err := sa.GetAtIndex(0)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 10, v)

	_, ok, err = sa.GetAtIndex(1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOverheadExcludesValues(t *testing.T) {
	b := NewBuilder[[256]byte](1000)
	require.NoError(t, b.Append([256]byte{}, 5))
	sa := b.Finalize()

	// Overhead must stay smaller than the (deliberately large) value
	// payload, since it excludes the dense value vector.
	assert.Less(t, sa.Overhead(), uint64(256*8))
}
