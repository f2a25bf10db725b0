package option

import (
	"encoding/json"
	"fmt"
)

// Option represents a value that may be undefined: every Option is either Some or Nothing.
type Option[T any] struct {
	val   T
	valid bool
}

// Some creates an Option containing the given value.
func Some[T any](val T) Option[T] {
	return Option[T]{val: val, valid: true}
}

// Nothing creates an empty Option.
func Nothing[T any]() Option[T] {
	return Option[T]{}
}

func (o Option[T]) IsSome() bool {
	return o.valid
}

func (o Option[T]) IsNothing() bool {
	return !o.valid
}

// Get returns the contained value and whether it is defined.
func (o Option[T]) Get() (T, bool) {
	return o.val, o.valid
}

// Unwrap returns the contained value.
// Panics if the Option is Nothing.
func (o Option[T]) Unwrap() T {
	if !o.valid {
		panic("called Unwrap on a Nothing Option")
	}
	return o.val
}

func (o Option[T]) UnwrapOr(def T) T {
	if o.valid {
		return o.val
	}
	return def
}

// Equal reports whether o holds a value equal to val.
func Equal[T comparable](o Option[T], val T) bool {
	return o.valid && o.val == val
}

// MarshalJSON encodes Nothing as null.
func (o Option[T]) MarshalJSON() ([]byte, error) {
	if !o.valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.val)
}

// String implements fmt.Stringer.
func (o Option[T]) String() string {
	if o.valid {
		return fmt.Sprintf("Some(%v)", o.val)
	}
	return "Nothing"
}
