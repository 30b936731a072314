package result

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOk(t *testing.T) {
	r := Ok[int, error](42)

	assert.True(t, r.IsOk())
	assert.False(t, r.IsErr())
	assert.Equal(t, 42, r.Unwrap())
}

func TestErr(t *testing.T) {
	cause := errors.New("boom")
	r := Err[int](cause)

	assert.False(t, r.IsOk())
	assert.True(t, r.IsErr())
	assert.Same(t, cause, r.UnwrapErr())
}

func TestUnwrap_WrongVariantPanics(t *testing.T) {
	tests := []struct {
		name    string
		call    func()
		op      string
		variant string
	}{
		{"Unwrap on Err", func() { Err[string](errors.New("x")).Unwrap() }, "Unwrap", "err"},
		{"UnwrapErr on Ok", func() { Ok[string, error]("x").UnwrapErr() }, "UnwrapErr", "ok"},
		{"Unwrap on zero value", func() { var r Result[string, error]; r.Unwrap() }, "Unwrap", "uninitialized"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				rec := recover()
				require.NotNil(t, rec, "expected panic")
				violation, ok := rec.(*InvariantViolation)
				require.True(t, ok, "panic value = %T, want *InvariantViolation", rec)
				assert.Equal(t, tt.op, violation.Op)
				assert.Equal(t, tt.variant, violation.Variant)
			}()
			tt.call()
		})
	}
}

func TestMatch(t *testing.T) {
	var gotOk, gotErr int

	Ok[int, error](7).Match(func(v int) { gotOk = v }, func(error) { gotErr++ })
	assert.Equal(t, 7, gotOk)
	assert.Zero(t, gotErr)

	Err[int](errors.New("nope")).Match(func(int) { gotOk = -1 }, func(error) { gotErr++ })
	assert.Equal(t, 7, gotOk)
	assert.Equal(t, 1, gotErr)
}
