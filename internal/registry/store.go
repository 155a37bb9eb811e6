package registry

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"devhub/internal/observer"
)

const DefaultCapacity = 50

// Record is a single notification held by a Store.
type Record[P any] struct {
	ID        int64     `json:"id"`
	Payload   P         `json:"payload"`
	CreatedAt time.Time `json:"created_at"`
	Read      bool      `json:"read"`
}

// Store keeps the most recent notifications, newest first, and tells its
// observers about every change with a fresh snapshot.
//
// Snapshots are queued in mutation order and delivered outside the lock by
// whichever caller gets to drain the queue first. Observers may therefore
// call back into the store; a nested mutation is delivered right after the
// current round instead of inside it.
type Store[P any] struct {
	mu       sync.Mutex
	capacity int
	nextID   int64
	records  []Record[P]
	pending  [][]Record[P]
	draining bool
	closed   bool

	observers *observer.Registry[[]Record[P]]
	onEvict   func([]Record[P])
	onPanic   func(recovered any)
	now       func() time.Time
	log       *zap.Logger
}

type Option[P any] func(*Store[P])

// WithCapacity sets the retention cap. Values <= 0 keep DefaultCapacity.
func WithCapacity[P any](n int) Option[P] {
	return func(s *Store[P]) {
		if n > 0 {
			s.capacity = n
		}
	}
}

func WithClock[P any](now func() time.Time) Option[P] {
	return func(s *Store[P]) {
		if now != nil {
			s.now = now
		}
	}
}

func WithLogger[P any](logger *zap.Logger) Option[P] {
	return func(s *Store[P]) {
		if logger != nil {
			s.log = logger
		}
	}
}

// WithEvictHandler receives the records dropped by Append, oldest first. It
// runs synchronously, outside the store lock.
func WithEvictHandler[P any](fn func([]Record[P])) Option[P] {
	return func(s *Store[P]) {
		s.onEvict = fn
	}
}

// WithObserverPanicHook is called for every recovered observer panic.
func WithObserverPanicHook[P any](fn func(recovered any)) Option[P] {
	return func(s *Store[P]) {
		s.onPanic = fn
	}
}

func New[P any](opts ...Option[P]) *Store[P] {
	s := &Store[P]{
		capacity: DefaultCapacity,
		nextID:   1,
		now:      time.Now,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.observers = observer.New(
		observer.WithLogger[[]Record[P]](s.log),
		observer.WithPanicHook[[]Record[P]](s.onPanic),
	)
	return s
}

func (s *Store[P]) Capacity() int {
	return s.capacity
}

// Append stores payload as a new unread record at the front and evicts the
// oldest records past the capacity.
func (s *Store[P]) Append(payload P) Record[P] {
	s.mu.Lock()
	record := Record[P]{
		ID:        s.nextID,
		Payload:   payload,
		CreatedAt: s.now().UTC(),
	}
	s.nextID++

	next := make([]Record[P], 0, min(len(s.records)+1, s.capacity))
	next = append(next, record)
	keep := min(len(s.records), s.capacity-1)
	next = append(next, s.records[:keep]...)
	evicted := s.records[keep:]
	s.records = next
	s.enqueueLocked()
	s.mu.Unlock()

	if len(evicted) > 0 {
		s.log.Debug("notifications evicted", zap.Int("count", len(evicted)), zap.Int64("oldest_id", evicted[len(evicted)-1].ID))
		if s.onEvict != nil {
			s.onEvict(oldestFirst(evicted))
		}
	}
	s.drain()
	return record
}

// MarkRead flags the record with id as read. It reports whether the id was
// found; an unknown id changes nothing and broadcasts nothing.
func (s *Store[P]) MarkRead(id int64) bool {
	s.mu.Lock()
	found := false
	for i := range s.records {
		if s.records[i].ID == id {
			s.records[i].Read = true
			found = true
			break
		}
	}
	if found {
		s.enqueueLocked()
	}
	s.mu.Unlock()

	if found {
		s.drain()
	}
	return found
}

// MarkAllRead flags every record as read and broadcasts once, even when
// nothing changed. It returns the number of records that were unread.
func (s *Store[P]) MarkAllRead() int {
	s.mu.Lock()
	changed := 0
	for i := range s.records {
		if !s.records[i].Read {
			s.records[i].Read = true
			changed++
		}
	}
	s.enqueueLocked()
	s.mu.Unlock()

	s.drain()
	return changed
}

func (s *Store[P]) UnreadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return unread(s.records)
}

// All returns a copy of the records, newest first.
func (s *Store[P]) All() []Record[P] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store[P]) Get(id int64) (Record[P], bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.records {
		if r.ID == id {
			return r, true
		}
	}
	return Record[P]{}, false
}

func (s *Store[P]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// Subscribe registers fn to receive the full list after every mutation. The
// slice handed to fn is shared between observers and must not be modified.
func (s *Store[P]) Subscribe(fn func([]Record[P])) (unsubscribe func()) {
	return s.observers.Subscribe(fn)
}

func (s *Store[P]) Observers() int {
	return s.observers.Len()
}

// Close drops every observer and pending broadcast. The store keeps working
// as a plain bounded list afterwards.
func (s *Store[P]) Close() {
	s.mu.Lock()
	s.closed = true
	s.pending = nil
	s.mu.Unlock()
	s.observers.Clear()
}

func (s *Store[P]) enqueueLocked() {
	if s.closed {
		return
	}
	s.pending = append(s.pending, s.snapshotLocked())
}

func (s *Store[P]) drain() {
	s.mu.Lock()
	if s.draining {
		s.mu.Unlock()
		return
	}
	s.draining = true
	for len(s.pending) > 0 {
		snapshot := s.pending[0]
		s.pending[0] = nil
		s.pending = s.pending[1:]
		s.mu.Unlock()
		s.observers.Broadcast(snapshot)
		s.mu.Lock()
	}
	s.draining = false
	s.mu.Unlock()
}

func (s *Store[P]) snapshotLocked() []Record[P] {
	out := make([]Record[P], len(s.records))
	copy(out, s.records)
	return out
}

func unread[P any](records []Record[P]) int {
	n := 0
	for _, r := range records {
		if !r.Read {
			n++
		}
	}
	return n
}

func oldestFirst[P any](records []Record[P]) []Record[P] {
	out := make([]Record[P], len(records))
	for i, r := range records {
		out[len(records)-1-i] = r
	}
	return out
}
