package sparsearray

// Optional is the Go rendition of the source spec's Option<T>: a value
// together with a flag saying whether it is actually present. FromDense
// takes a slice of these to build a sparse array from a dense sequence.
type Optional[T any] struct {
	Value   T
	Present bool
}

// Some wraps v as a present Optional.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Present: true}
}

// None returns an absent Optional.
func None[T any]() Optional[T] {
	return Optional[T]{}
}
