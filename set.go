// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package streamset

import (
	"context"
	"weak"

	"code.hybscloud.com/streamset/internal/slab"
)

// defaultSlabCapacity is the initial free-list capacity for a Set's token
// slab. It rounds up to the next power of 2 internally; sets that outgrow
// it keep working via the slab's plain-growth fallback (SPEC_FULL.md §4.6).
const defaultSlabCapacity = 256

// Set is a dynamic set of asynchronous streams polled as a single combined
// stream. See the package doc and SPEC_FULL.md §4.3 for the full design.
//
// Scheduling model: the Set is single-consumer. Only one goroutine at a
// time may call PollNext, Push, StreamEntry, Remove, Take, Get, IsFinished,
// Len, IsEmpty, IsTerminated, or IterMut. Wakers handed to member streams
// are multi-producer and may fire from any goroutine at any time, including
// concurrently with a PollNext call.
type Set[T any] struct {
	head       *task[T] // membership list head; nil when empty
	length     int
	terminated bool

	index map[Token]*task[T]
	slab  *slab.Slab

	// rq is the Set's one strong reference to its ready queue; every task's
	// weak.Pointer back-reference (SPEC_FULL.md §9) resolves through this
	// until the Set itself becomes unreachable.
	rq *readyQueue[T]
}

// New creates an empty Set.
func New[T any]() *Set[T] {
	s := &Set[T]{
		index: make(map[Token]*task[T]),
		slab:  slab.New(defaultSlabCapacity),
		rq:    newReadyQueue[T](),
	}
	return s
}

// Len returns the current member count. Returns 0 when the set is in the
// post-terminal state, regardless of internal bookkeeping.
func (s *Set[T]) Len() int {
	if s.terminated {
		return 0
	}
	return s.length
}

// IsEmpty reports whether the set currently has no members.
func (s *Set[T]) IsEmpty() bool {
	return s.Len() == 0
}

// IsTerminated reports whether PollNext has returned Done at least once
// since the last insertion.
func (s *Set[T]) IsTerminated() bool {
	return s.terminated
}

// Push inserts stream and returns its stable, nonzero token.
func (s *Set[T]) Push(stream Stream[T]) Token {
	e := s.StreamEntry()
	e.Insert(stream)
	return e.Token()
}

// StreamEntry reserves a token and a task slot without yet supplying a
// stream, returning a two-phase [Entry]. See SPEC_FULL.md §4.3/§4.5.
func (s *Set[T]) StreamEntry() *Entry[T] {
	tok := Token(s.slab.Alloc())

	t := &task[T]{id: tok}
	t.queued.Store(true)
	t.readyQueue = weak.Make(s.rq)

	s.index[tok] = t
	s.link(t)
	s.terminated = false

	s.rq.push(t)

	return &Entry[T]{set: s, task: t}
}

// link inserts t at the head of the membership list.
func (s *Set[T]) link(t *task[T]) {
	t.prevAll = nil
	t.nextAll = s.head
	if s.head != nil {
		s.head.prevAll = t
	}
	s.head = t
	s.length++
}

// unlink removes t from the membership list. t must currently be linked.
func (s *Set[T]) unlink(t *task[T]) {
	if t.prevAll != nil {
		t.prevAll.nextAll = t.nextAll
	} else {
		s.head = t.nextAll
	}
	if t.nextAll != nil {
		t.nextAll.prevAll = t.prevAll
	}
	t.prevAll = nil
	t.nextAll = nil
	s.length--
}

// release reclaims a task that has already been unlinked from the
// membership list: it frees the token and clears the stream reference.
//
// spec.md §4.4 reads the queued flag's previous value here (it decides
// whether a concurrent wake is still in flight and needs its strong
// reference count walked back). This Go version deliberately elides that
// read: queued is forced to true, which simply blocks any future wake from
// re-pushing this task, and the GC — not a reference count — is what keeps
// the ready queue alive for as long as a still-in-flight wake needs it. See
// SPEC_FULL.md §9.
func (s *Set[T]) release(t *task[T]) {
	delete(s.index, t.id)
	s.slab.Free(uint64(t.id))
	t.queued.Store(true)
	t.stream = nil
}

// removeTask unlinks t (if linked) and releases it. Used by Remove, Take,
// and Entry.Cancel.
func (s *Set[T]) removeTask(t *task[T]) {
	if t.prevAll != nil || t.nextAll != nil || s.head == t {
		s.unlink(t)
	}
	s.release(t)
}

// Remove removes the member with the given token, returning whether it was
// present. Removing the stub token (0) or an unknown token always returns
// false.
func (s *Set[T]) Remove(tok Token) bool {
	if tok == 0 {
		return false
	}
	t, ok := s.index[tok]
	if !ok {
		return false
	}
	s.removeTask(t)
	return true
}

// Take removes the member with the given token and returns its stream
// value. Returns (nil, false) if the token is unknown, is the stub, or
// names a task currently mid-poll (SPEC_FULL.md §9 — the Go substitute for
// the source design's Unpin precondition).
func (s *Set[T]) Take(tok Token) (Stream[T], bool) {
	if tok == 0 {
		return nil, false
	}
	t, ok := s.index[tok]
	if !ok || t.polling {
		return nil, false
	}
	stream := t.stream
	s.removeTask(t)
	return stream, true
}

// Get returns the stream registered under tok, if any. Returns (nil, false)
// for an unknown token or the stub token.
func (s *Set[T]) Get(tok Token) (Stream[T], bool) {
	if tok == 0 {
		return nil, false
	}
	t, ok := s.index[tok]
	if !ok {
		return nil, false
	}
	return t.stream, true
}

// IsFinished reports whether the member named by tok has produced its
// terminal marker. The second return value is false if the token is
// unknown or is the stub.
func (s *Set[T]) IsFinished(tok Token) (bool, bool) {
	if tok == 0 {
		return false, false
	}
	t, ok := s.index[tok]
	if !ok {
		return false, false
	}
	return t.done, true
}

// SizeHint reports (Len(), Len()): the set always knows its exact
// membership, so the conservative (0, unbounded) alternative would be
// strictly less informative. See SPEC_FULL.md §9.
func (s *Set[T]) SizeHint() (int, int) {
	n := s.Len()
	return n, n
}

// Close releases every member. After Close, the set behaves as empty:
// Len() is 0 and a further PollNext returns Done. Go has no destructors, so
// unlike the source design's Drop-on-scope-exit, Close must be called
// explicitly.
func (s *Set[T]) Close() {
	for t := s.head; t != nil; {
		next := t.nextAll
		s.unlink(t)
		s.release(t)
		t = next
	}
}

// PollNext drives the set: it pops ready tasks from the ready queue and
// polls their streams, returning the first produced item or finished
// marker. See SPEC_FULL.md §4.3.
//
// status is PollDone exactly when the set has terminated (no members and
// nothing pending); callers should stop polling once it is PollDone,
// matching spec.md's Ready(None). status is PollPending when nothing is
// ready yet — y and tok are the zero value in that case. Otherwise status
// is PollItem and y carries either a produced item or a finished marker,
// tagged with tok; check which with Yield's own accessors. See the package
// doc for the canonical poll loop.
func (s *Set[T]) PollNext(ctx context.Context, w Waker) (Yield[T], Token, PollStatus) {
	s.rq.registerParent(w)

	for {
		t, state := s.rq.pop()
		switch state {
		case dequeueEmpty:
			if s.length == 0 {
				s.terminated = true
				return Yield[T]{}, 0, PollDone
			}
			return Yield[T]{}, 0, PollPending
		case dequeueInconsistent:
			s.rq.wakeParent()
			return Yield[T]{}, 0, PollPending
		}

		if t == s.rq.stub {
			continue
		}

		if t.stream == nil {
			// Released while still queue-owned; drop the reference.
			continue
		}

		if t.done {
			// Retained-but-finished member woken spuriously; ignore.
			continue
		}

		y, tok, status := s.pollOnce(ctx, t)
		if status == PollPending {
			continue
		}
		return y, tok, status
	}
}

// pollOnce polls the single task t, which must currently be off the
// membership list's responsibility for exactly the duration of this call.
// A deferred guard re-runs release if the underlying poll panics, so a
// panicking stream cannot leave the set's membership list, token index, or
// reference bookkeeping inconsistent; the panic is re-raised to the caller.
// The guard's lifetime is scoped to this single call (not to the whole
// PollNext loop), per SPEC_FULL.md §9.
func (s *Set[T]) pollOnce(ctx context.Context, t *task[T]) (y Yield[T], tok Token, status PollStatus) {
	s.unlink(t)

	guardArmed := true
	defer func() {
		if guardArmed {
			if r := recover(); r != nil {
				s.release(t)
				panic(r)
			}
		}
	}()

	t.queued.CompareAndSwap(true, false)
	t.polling = true
	next := t.stream.Poll(ctx, t)
	t.polling = false
	guardArmed = false

	switch {
	case next.IsPending():
		s.link(t)
		return Yield[T]{}, 0, PollPending

	case next.IsDone():
		t.done = true
		s.link(t)
		return yieldFinishedOf[T](t.id), t.id, PollItem

	default:
		v, _ := next.Value()
		t.WakeByRef() // re-enqueue at the tail, preserving fairness
		s.link(t)
		return yieldItemOf[T](v), t.id, PollItem
	}
}

// PollStatus is the coarse status returned by PollNext, distinguishing a
// produced Yield from Pending and terminal Done.
type PollStatus uint8

const (
	// PollPending means no item is ready yet; nothing was produced.
	PollPending PollStatus = iota
	// PollItem means y and tok carry a produced Yield.
	PollItem
	// PollDone means the set is empty and has terminated.
	PollDone
)
