package testutil

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// Call is one pending invocation of a ControlledLoader.
type Call[T any] struct {
	Key string
	Ctx context.Context

	reply chan reply[T]
}

type reply[T any] struct {
	value T
	err   error
}

// Resolve completes the call with value.
func (c *Call[T]) Resolve(value T) {
	c.reply <- reply[T]{value: value}
}

// Fail completes the call with err.
func (c *Call[T]) Fail(err error) {
	c.reply <- reply[T]{err: err}
}

// ControlledLoader is a loader whose calls block until the test resolves
// them, so request interleavings can be scripted.
type ControlledLoader[T any] struct {
	// IgnoreContext makes calls wait for Resolve or Fail even after their
	// context is cancelled, simulating a response that arrives late.
	IgnoreContext bool

	calls chan *Call[T]
	count atomic.Int64

	mu    sync.Mutex
	byKey map[string]int
}

// NewControlledLoader creates a loader that buffers up to 64 unclaimed calls.
func NewControlledLoader[T any]() *ControlledLoader[T] {
	return &ControlledLoader[T]{
		calls: make(chan *Call[T], 64),
		byKey: make(map[string]int),
	}
}

// Load implements a subscription loader.
func (l *ControlledLoader[T]) Load(ctx context.Context, key string) (T, error) {
	c := &Call[T]{Key: key, Ctx: ctx, reply: make(chan reply[T], 1)}

	l.count.Add(1)
	l.mu.Lock()
	l.byKey[key]++
	l.mu.Unlock()

	l.calls <- c

	if l.IgnoreContext {
		r := <-c.reply
		return r.value, r.err
	}

	select {
	case r := <-c.reply:
		return r.value, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Next waits for the next call or fails the test after a second.
func (l *ControlledLoader[T]) Next(t testing.TB) *Call[T] {
	t.Helper()
	select {
	case c := <-l.calls:
		return c
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for loader call")
		return nil
	}
}

// Count returns the total number of calls made.
func (l *ControlledLoader[T]) Count() int {
	return int(l.count.Load())
}

// CountFor returns the number of calls made for key.
func (l *ControlledLoader[T]) CountFor(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.byKey[key]
}

// Recorder collects every observation delivered to a listener.
type Recorder[T any] struct {
	mu  sync.Mutex
	got []T
	ch  chan T
}

// NewRecorder creates an empty recorder.
func NewRecorder[T any]() *Recorder[T] {
	return &Recorder[T]{ch: make(chan T, 64)}
}

// Record is the listener function.
func (r *Recorder[T]) Record(v T) {
	r.mu.Lock()
	r.got = append(r.got, v)
	r.mu.Unlock()
	r.ch <- v
}

// Next waits for the next recorded value or fails the test after a second.
func (r *Recorder[T]) Next(t testing.TB) T {
	t.Helper()
	select {
	case v := <-r.ch:
		return v
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for notification")
		var zero T
		return zero
	}
}

// All returns every recorded value in delivery order.
func (r *Recorder[T]) All() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]T(nil), r.got...)
}
