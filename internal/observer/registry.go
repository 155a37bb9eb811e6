package observer

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Func receives every broadcast value. It must not retain or mutate the value.
type Func[T any] func(T)

type entry[T any] struct {
	fn     Func[T]
	active atomic.Bool
}

// Registry is an ordered set of observers. Broadcast walks an immutable
// copy of the set, so observers may subscribe or unsubscribe from inside a
// callback.
type Registry[T any] struct {
	mu      sync.Mutex
	entries []*entry[T]
	log     *zap.Logger
	onPanic func(recovered any)
}

type Option[T any] func(*Registry[T])

func WithLogger[T any](logger *zap.Logger) Option[T] {
	return func(r *Registry[T]) {
		if logger != nil {
			r.log = logger
		}
	}
}

// WithPanicHook is called once for every observer panic, after it was recovered.
func WithPanicHook[T any](fn func(recovered any)) Option[T] {
	return func(r *Registry[T]) {
		r.onPanic = fn
	}
}

func New[T any](opts ...Option[T]) *Registry[T] {
	r := &Registry[T]{log: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Subscribe registers fn and returns a function that removes exactly this
// registration. Calling the returned function more than once is a no-op.
func (r *Registry[T]) Subscribe(fn Func[T]) (unsubscribe func()) {
	e := &entry[T]{fn: fn}
	e.active.Store(true)

	r.mu.Lock()
	next := make([]*entry[T], len(r.entries), len(r.entries)+1)
	copy(next, r.entries)
	r.entries = append(next, e)
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { r.remove(e) })
	}
}

func (r *Registry[T]) remove(target *entry[T]) {
	target.active.Store(false)

	r.mu.Lock()
	defer r.mu.Unlock()
	for i, e := range r.entries {
		if e != target {
			continue
		}
		next := make([]*entry[T], 0, len(r.entries)-1)
		next = append(next, r.entries[:i]...)
		r.entries = append(next, r.entries[i+1:]...)
		return
	}
}

// Broadcast calls every registered observer in subscription order with the
// same value. A panicking observer is logged and skipped; the remaining
// observers are still called.
func (r *Registry[T]) Broadcast(value T) {
	r.mu.Lock()
	entries := r.entries
	r.mu.Unlock()

	for _, e := range entries {
		if !e.active.Load() {
			continue
		}
		r.deliver(e, value)
	}
}

func (r *Registry[T]) deliver(e *entry[T], value T) {
	defer func() {
		if recovered := recover(); recovered != nil {
			r.log.Error("observer panicked", zap.Any("panic", recovered), zap.Stack("stack"))
			if r.onPanic != nil {
				r.onPanic(recovered)
			}
		}
	}()
	e.fn(value)
}

func (r *Registry[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Clear removes all observers. Unsubscribe functions handed out earlier stay
// safe to call.
func (r *Registry[T]) Clear() {
	r.mu.Lock()
	entries := r.entries
	r.entries = nil
	r.mu.Unlock()
	for _, e := range entries {
		e.active.Store(false)
	}
}
