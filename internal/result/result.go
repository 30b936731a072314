// Package result provides a two-variant outcome type for fallible operations.
package result

import "fmt"

// InvariantViolation is the panic value raised when a Result is unwrapped
// as the wrong variant. It signals a programmer error, never a data path.
type InvariantViolation struct {
	Op      string
	Variant string
}

func (v *InvariantViolation) Error() string {
	return fmt.Sprintf("invariant violation: %s called on %s result", v.Op, v.Variant)
}

// Result holds exactly one of a success value or a failure value.
// The zero value is not a valid Result; construct with Ok or Err.
type Result[T, E any] struct {
	value T
	err   E
	ok    bool
	set   bool
}

// Ok constructs a success variant.
func Ok[T, E any](value T) Result[T, E] {
	return Result[T, E]{value: value, ok: true, set: true}
}

// Err constructs a failure variant.
func Err[T, E any](err E) Result[T, E] {
	return Result[T, E]{err: err, set: true}
}

// IsOk reports whether r is the success variant.
func (r Result[T, E]) IsOk() bool { return r.set && r.ok }

// IsErr reports whether r is the failure variant.
func (r Result[T, E]) IsErr() bool { return r.set && !r.ok }

// Unwrap returns the success value. It panics with *InvariantViolation
// when r is not Ok; callers must branch on IsOk first.
func (r Result[T, E]) Unwrap() T {
	if !r.IsOk() {
		panic(&InvariantViolation{Op: "Unwrap", Variant: r.variant()})
	}
	return r.value
}

// UnwrapErr returns the failure value. It panics with *InvariantViolation
// when r is not Err.
func (r Result[T, E]) UnwrapErr() E {
	if !r.IsErr() {
		panic(&InvariantViolation{Op: "UnwrapErr", Variant: r.variant()})
	}
	return r.err
}

// Match calls exactly one of onOk or onErr depending on the variant.
func (r Result[T, E]) Match(onOk func(T), onErr func(E)) {
	switch {
	case r.IsOk():
		onOk(r.value)
	case r.IsErr():
		onErr(r.err)
	default:
		panic(&InvariantViolation{Op: "Match", Variant: r.variant()})
	}
}

func (r Result[T, E]) variant() string {
	switch {
	case !r.set:
		return "uninitialized"
	case r.ok:
		return "ok"
	default:
		return "err"
	}
}
