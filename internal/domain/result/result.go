// Package result holds the discriminated outcome of an action performed on
// behalf of a user: either a produced value or a human-readable failure.
package result

// Result is exactly one of Success(T) or Failure(message). Build one with
// Success or Failure; the zero value is neither and reports Valid() == false.
type Result[T any] struct {
	value   T
	message string
	kind    kind
}

type kind uint8

const (
	kindInvalid kind = iota
	kindSuccess
	kindFailure
)

// Success wraps a produced value.
func Success[T any](value T) Result[T] {
	return Result[T]{value: value, kind: kindSuccess}
}

// Failure wraps a user-facing failure message. The message is never treated as data.
func Failure[T any](message string) Result[T] {
	return Result[T]{message: message, kind: kindFailure}
}

// Valid reports whether the result was built by Success or Failure.
func (r Result[T]) Valid() bool {
	return r.kind != kindInvalid
}

// IsSuccess reports whether the Success variant is populated.
func (r Result[T]) IsSuccess() bool {
	return r.kind == kindSuccess
}

// Value returns the success payload and true, or the zero value and false.
func (r Result[T]) Value() (T, bool) {
	if r.kind != kindSuccess {
		var zero T
		return zero, false
	}
	return r.value, true
}

// FailureMessage returns the failure message and true, or "" and false.
func (r Result[T]) FailureMessage() (string, bool) {
	if r.kind != kindFailure {
		return "", false
	}
	return r.message, true
}

// Match calls exactly one of the handlers. An invalid result is handled as a
// failure with an empty message so callers never silently skip a branch.
func Match[T, U any](r Result[T], onSuccess func(T) U, onFailure func(string) U) U {
	if r.kind == kindSuccess {
		return onSuccess(r.value)
	}
	return onFailure(r.message)
}

// Map transforms the success payload and passes failures through unchanged.
func Map[T, U any](r Result[T], fn func(T) U) Result[U] {
	switch r.kind {
	case kindSuccess:
		return Success(fn(r.value))
	case kindFailure:
		return Failure[U](r.message)
	default:
		return Result[U]{}
	}
}
