// Package fallback wraps calls to collaborators that are allowed to fail.
//
// A failed read is replaced by a declared default so that a run always produces a report.
// The error is kept so that the caller can still log it.
package fallback

// Result is a value from a collaborator, or the default that replaced it.
type Result[T any] struct {
	Value T

	// Err is the error that caused the default to be used.
	Err error

	// Defaulted is true if Value is the default.
	Defaulted bool
}

// Get calls fn and returns its value, or def if fn failed.
func Get[T any](def T, fn func() (T, error)) Result[T] {
	v, err := fn()
	if err != nil {
		return Result[T]{Value: def, Err: err, Defaulted: true}
	}
	return Result[T]{Value: v}
}

// OnError calls handler if the Result is a default, and returns the value.
func (r Result[T]) OnError(handler func(error)) T {
	if r.Defaulted && handler != nil {
		handler(r.Err)
	}
	return r.Value
}
