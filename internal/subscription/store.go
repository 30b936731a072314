// Package subscription tracks keyed fetches and shares their outcomes
// between observers.
//
// A Store maps a resource key to the last known Observation of that key.
// The first observer of a key issues the request; observers arriving while
// it is pending share it. Resolved observations stay cached per key until
// the key is refreshed. Every request is tagged with a per-key sequence
// number and only the response carrying the latest number is applied.
package subscription

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrClosed is the error observed by subscriptions created after Close.
var ErrClosed = errors.New("subscription store closed")

// Loader performs the underlying request for one key.
type Loader[T any] func(ctx context.Context, key string) (T, error)

// Listener receives every observation change of a live subscription.
//
// Listeners run outside the store lock, one batch at a time in mutation
// order. A listener may read its subscription and may call Unsubscribe or
// Rekey on it. It must not call Store.Refresh or Store.Close synchronously:
// both wait for the batch that is running the listener, so the call never
// returns. Start a goroutine for that instead.
type Listener[T any] func(Observation[T])

// Observation is the tri-state view of a keyed request. At most one of
// Data and Err is set, and neither is set while IsLoading.
type Observation[T any] struct {
	Data      *T
	IsLoading bool
	Err       error
}

// Resolved reports whether the observation finished without error and carries data.
func (o Observation[T]) Resolved() bool {
	return !o.IsLoading && o.Err == nil && o.Data != nil
}

// Option configures a Store.
type Option func(*options)

type options struct {
	name      string
	logger    *zap.Logger
	validKey  func(string) bool
	onSettled func(key string, seq uint64, applied bool)
}

// WithName labels the store in log entries.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithLogger sets the logger for request lifecycle entries.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithKeyValidator replaces the default validator, which rejects blank keys.
// Subscriptions to invalid keys resolve immediately to an empty observation
// without issuing a request.
func WithKeyValidator(valid func(key string) bool) Option {
	return func(o *options) { o.validKey = valid }
}

// WithSettledHook registers fn to run after every response is processed,
// reporting whether it was applied or discarded as superseded.
func WithSettledHook(fn func(key string, seq uint64, applied bool)) Option {
	return func(o *options) { o.onSettled = fn }
}

// Store is a process-wide keyed cache of observations. It is safe for
// concurrent use.
type Store[T any] struct {
	load Loader[T]
	opts options

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// Listener batches are delivered in the order their mutations happened:
	// each batch takes a ticket under mu and waits for its turn.
	deliverMu   sync.Mutex
	deliverCond *sync.Cond
	serving     uint64

	mu         sync.Mutex
	entries    map[string]*entry[T]
	lastSeq    map[string]uint64
	nextTicket uint64
	closed     bool
}

type entry[T any] struct {
	seq       uint64
	obs       Observation[T]
	cancel    context.CancelFunc
	observers map[*Subscription[T]]struct{}
}

type notification[T any] struct {
	sub *Subscription[T]
	gen uint64
	obs Observation[T]
}

// NewStore creates a store that resolves keys with load.
func NewStore[T any](load Loader[T], opts ...Option) *Store[T] {
	o := options{
		name:     "subscription",
		logger:   zap.NewNop(),
		validKey: func(key string) bool { return strings.TrimSpace(key) != "" },
	}
	for _, opt := range opts {
		opt(&o)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Store[T]{
		load:    load,
		opts:    o,
		ctx:     ctx,
		cancel:  cancel,
		entries: make(map[string]*entry[T]),
		lastSeq: make(map[string]uint64),
	}
	s.deliverCond = sync.NewCond(&s.deliverMu)
	return s
}

// Subscribe observes key. The returned subscription already holds the
// current observation; listener, which may be nil, is called on every later
// change until Unsubscribe.
func (s *Store[T]) Subscribe(key string, listener Listener[T]) *Subscription[T] {
	sub := &Subscription[T]{
		id:       uuid.NewString(),
		store:    s,
		listener: listener,
	}
	sub.Rekey(key)
	return sub
}

// Peek returns the cached observation for key without subscribing.
func (s *Store[T]) Peek(key string) (Observation[T], bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return Observation[T]{}, false
	}
	return e.obs, true
}

// Refresh issues a new request for key, superseding any request still
// pending for it. It reports false when the key has never been observed.
func (s *Store[T]) Refresh(key string) bool {
	s.mu.Lock()
	e, ok := s.entries[key]
	if !ok || s.closed {
		s.mu.Unlock()
		return false
	}
	s.issueLocked(key, e)
	s.deliverAndUnlock(s.collectLocked(e))
	return true
}

// Close cancels every pending request and waits for the loaders to return.
// Responses arriving after Close are discarded.
func (s *Store[T]) Close() {
	s.mu.Lock()
	s.closed = true
	for _, e := range s.entries {
		if e.cancel != nil {
			e.cancel()
		}
	}
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
}

// attachLocked adds sub as an observer of key, issuing the first request
// for the key when nothing is cached.
func (s *Store[T]) attachLocked(sub *Subscription[T], key string) {
	e, ok := s.entries[key]
	if !ok {
		e = &entry[T]{observers: make(map[*Subscription[T]]struct{})}
		s.entries[key] = e
		s.issueLocked(key, e)
	}
	e.observers[sub] = struct{}{}
	sub.obs = e.obs
	sub.active = true

	s.opts.logger.Debug("observer attached",
		zap.String("store", s.opts.name),
		zap.String("key", key),
		zap.String("subscription", sub.id),
		zap.Int("observers", len(e.observers)))
}

// detachLocked removes sub from its key. When the last observer leaves a
// key whose request is still pending, that request is cancelled and the
// entry dropped so its late response cannot change anything.
func (s *Store[T]) detachLocked(sub *Subscription[T]) {
	if !sub.active {
		return
	}
	sub.active = false
	sub.gen++

	e, ok := s.entries[sub.key]
	if !ok {
		return
	}
	delete(e.observers, sub)

	if len(e.observers) == 0 && e.obs.IsLoading {
		e.cancel()
		delete(s.entries, sub.key)
		s.opts.logger.Debug("pending request abandoned",
			zap.String("store", s.opts.name),
			zap.String("key", sub.key),
			zap.Uint64("seq", e.seq))
	}
}

func (s *Store[T]) issueLocked(key string, e *entry[T]) {
	if e.cancel != nil {
		e.cancel()
	}

	s.lastSeq[key]++
	seq := s.lastSeq[key]

	ctx, cancel := context.WithCancel(s.ctx)
	e.seq = seq
	e.cancel = cancel
	e.obs = Observation[T]{IsLoading: true}

	s.opts.logger.Debug("request issued",
		zap.String("store", s.opts.name),
		zap.String("key", key),
		zap.Uint64("seq", seq))

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()

		v, err := s.load(ctx, key)
		s.settle(key, seq, v, err)
	}()
}

func (s *Store[T]) settle(key string, seq uint64, v T, err error) {
	s.mu.Lock()

	e, ok := s.entries[key]
	if s.closed || !ok || e.seq != seq {
		s.mu.Unlock()
		s.opts.logger.Debug("stale response discarded",
			zap.String("store", s.opts.name),
			zap.String("key", key),
			zap.Uint64("seq", seq))
		s.settled(key, seq, false)
		return
	}

	e.cancel = nil
	if err != nil {
		e.obs = Observation[T]{Err: err}
		s.opts.logger.Debug("request failed",
			zap.String("store", s.opts.name),
			zap.String("key", key),
			zap.Uint64("seq", seq),
			zap.Error(err))
	} else {
		e.obs = Observation[T]{Data: &v}
	}

	s.deliverAndUnlock(s.collectLocked(e))
	s.settled(key, seq, true)
}

func (s *Store[T]) settled(key string, seq uint64, applied bool) {
	if s.opts.onSettled != nil {
		s.opts.onSettled(key, seq, applied)
	}
}

// collectLocked copies the entry's observation into every live
// subscription and returns the listener calls to make.
func (s *Store[T]) collectLocked(e *entry[T]) []notification[T] {
	notes := make([]notification[T], 0, len(e.observers))
	for sub := range e.observers {
		sub.obs = e.obs
		if sub.listener != nil {
			notes = append(notes, notification[T]{sub: sub, gen: sub.gen, obs: e.obs})
		}
	}
	return notes
}

// deliverAndUnlock releases mu and runs the listeners outside of it, after
// every batch produced by an earlier mutation.
func (s *Store[T]) deliverAndUnlock(notes []notification[T]) {
	ticket := s.nextTicket
	s.nextTicket++
	s.mu.Unlock()

	s.deliverMu.Lock()
	for s.serving != ticket {
		s.deliverCond.Wait()
	}
	s.deliverMu.Unlock()

	defer func() {
		s.deliverMu.Lock()
		s.serving++
		s.deliverCond.Broadcast()
		s.deliverMu.Unlock()
	}()

	for _, n := range notes {
		s.notify(n)
	}
}

// notify calls the listener unless its subscription was torn down or rekeyed
// after the batch was collected. Holding callMu from the check through the
// call lets teardown wait out a call that already passed the check.
func (s *Store[T]) notify(n notification[T]) {
	sub := n.sub
	sub.callMu.Lock()
	defer sub.callMu.Unlock()

	s.mu.Lock()
	live := sub.active && sub.gen == n.gen
	s.mu.Unlock()
	if !live {
		return
	}

	sub.inListener.Store(true)
	defer sub.inListener.Store(false)
	sub.listener(n.obs)
}

// Subscription is one observer's view of a key in a Store.
type Subscription[T any] struct {
	id       string
	key      string
	store    *Store[T]
	listener Listener[T]

	callMu     sync.Mutex
	inListener atomic.Bool

	// guarded by store.mu
	obs    Observation[T]
	active bool
	gen    uint64
}

// ID identifies the subscription in log entries.
func (sub *Subscription[T]) ID() string { return sub.id }

// Key returns the key currently observed.
func (sub *Subscription[T]) Key() string {
	sub.store.mu.Lock()
	defer sub.store.mu.Unlock()
	return sub.key
}

// Current returns the latest observation delivered to this subscription.
// It no longer changes once the subscription is torn down.
func (sub *Subscription[T]) Current() Observation[T] {
	sub.store.mu.Lock()
	defer sub.store.mu.Unlock()
	return sub.obs
}

// Rekey moves the subscription to another key, starting the cycle over for
// it. The old key's cached observation stays available to its other
// observers. Once Rekey returns the listener only sees the new key.
func (sub *Subscription[T]) Rekey(key string) {
	s := sub.store
	s.mu.Lock()
	if sub.active && sub.key == key {
		s.mu.Unlock()
		return
	}
	s.detachLocked(sub)
	sub.key = key

	switch {
	case !s.opts.validKey(key):
		sub.obs = Observation[T]{}
	case s.closed:
		sub.obs = Observation[T]{Err: ErrClosed}
	default:
		s.attachLocked(sub, key)
	}
	s.mu.Unlock()

	sub.awaitListener()
}

// Unsubscribe tears the subscription down. Once it returns the listener is
// never called again.
func (sub *Subscription[T]) Unsubscribe() {
	s := sub.store
	s.mu.Lock()
	s.detachLocked(sub)
	s.mu.Unlock()

	sub.awaitListener()
}

// awaitListener waits for a listener call that passed its liveness check
// before a teardown. Called from inside the listener itself it returns at
// once, since that call is the one holding callMu.
func (sub *Subscription[T]) awaitListener() {
	if sub.listener == nil || sub.inListener.Load() {
		return
	}
	sub.callMu.Lock()
	sub.callMu.Unlock()
}
