package domain

// Result[T] provides monadic error handling for composing fallible
// operations without the (T, error) boilerplate at every pipeline stage.
// ToError and FromError convert to and from the (T, error) idiom, which
// module compilation, the catalog, and pkg/forge use throughout.
type Result[T any] struct {
	value T
	err   error
}

// Ok wraps a successful value.
func Ok[T any](value T) Result[T] {
	return Result[T]{value: value}
}

// Err wraps a failure.
func Err[T any](err error) Result[T] {
	return Result[T]{err: err}
}

// IsOk reports whether the result holds a value.
func (r Result[T]) IsOk() bool { return r.err == nil }

// IsErr reports whether the result holds an error.
func (r Result[T]) IsErr() bool { return r.err != nil }

// Unwrap returns the value, panicking if the result is an error.
// Only call after an explicit IsOk()/IsErr() check.
func (r Result[T]) Unwrap() T {
	if r.err != nil {
		panic("domain: Unwrap called on Err result: " + r.err.Error())
	}
	return r.value
}

// UnwrapErr returns the error, panicking if the result is Ok.
func (r Result[T]) UnwrapErr() error {
	if r.err == nil {
		panic("domain: UnwrapErr called on Ok result")
	}
	return r.err
}

// UnwrapOr returns the value, or def if the result is an error.
func (r Result[T]) UnwrapOr(def T) T {
	if r.err != nil {
		return def
	}
	return r.value
}

// OrElse returns the value, or the result of fn if the result is an error.
func (r Result[T]) OrElse(fn func() T) T {
	if r.err != nil {
		return fn()
	}
	return r.value
}

// ToError converts a Result[T] into the (T, error) idiom at an API boundary.
func ToError[T any](r Result[T]) (T, error) {
	if r.IsErr() {
		var zero T
		return zero, r.UnwrapErr()
	}
	return r.Unwrap(), nil
}

// FromError converts the (T, error) idiom into a Result[T].
func FromError[T any](value T, err error) Result[T] {
	if err != nil {
		return Err[T](err)
	}
	return Ok(value)
}

// MapResult transforms an Ok value, passing through an Err unchanged.
func MapResult[T, U any](r Result[T], fn func(T) U) Result[U] {
	if r.IsErr() {
		return Err[U](r.UnwrapErr())
	}
	return Ok(fn(r.Unwrap()))
}

// FlatMapResult chains a fallible transformation, passing through an Err
// unchanged.
func FlatMapResult[T, U any](r Result[T], fn func(T) Result[U]) Result[U] {
	if r.IsErr() {
		return Err[U](r.UnwrapErr())
	}
	return fn(r.Unwrap())
}
