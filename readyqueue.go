// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package streamset

import (
	"sync"
	"sync/atomic"
)

// readyQueue is an intrusive, lock-free MPSC linked list of tasks awaiting a
// poll, following the classic stub-node algorithm (1024cores.net; the same
// structure backs futures-rs's FuturesUnordered, from which this design is
// derived). See SPEC_FULL.md §4.2.
type readyQueue[T any] struct {
	head atomic.Pointer[task[T]] // producers publish here
	tail *task[T]                // consumer-only cursor
	stub *task[T]                // sentinel, id == 0

	mu          sync.Mutex
	parentWaker Waker
}

// newReadyQueue creates a queue whose sole initial element is its stub,
// satisfying invariant 1.
func newReadyQueue[T any]() *readyQueue[T] {
	stub := newStub[T]()
	q := &readyQueue[T]{stub: stub, tail: stub}
	q.head.Store(stub)
	return q
}

// push publishes t at the head of the queue (multi-producer safe).
//
// Between the Swap and the Store below, a consumer observing the previous
// head sees nextReady == nil: the inconsistent window described in
// SPEC_FULL.md §4.2.
func (q *readyQueue[T]) push(t *task[T]) {
	t.nextReady.Store(nil)
	prev := q.head.Swap(t)
	prev.nextReady.Store(t)
}

// dequeueState is the three-way result of pop.
type dequeueState uint8

const (
	dequeueEmpty dequeueState = iota
	dequeueInconsistent
	dequeueData
)

// pop removes and returns the task at the tail of the queue (single consumer
// only). It never returns the stub: callers that dequeue the stub should
// treat it as benign and call pop again, per SPEC_FULL.md §4.2; this method
// performs that re-entry internally so callers only ever see a real task or
// Empty/Inconsistent.
func (q *readyQueue[T]) pop() (*task[T], dequeueState) {
	if q.tail == q.stub {
		next := q.stub.nextReady.Load()
		if next == nil {
			return nil, dequeueEmpty
		}
		q.tail = next
		q.push(q.stub) // re-arm the stub for the next empty-to-nonempty transition
	}

	tail := q.tail
	next := tail.nextReady.Load()
	if next != nil {
		q.tail = next
		return tail, dequeueData
	}

	if tail != q.head.Load() {
		return nil, dequeueInconsistent
	}

	return nil, dequeueEmpty
}

// registerParent sets (overwriting any prior registration) the waker that
// wakeParent notifies.
func (q *readyQueue[T]) registerParent(w Waker) {
	q.mu.Lock()
	q.parentWaker = w
	q.mu.Unlock()
}

// wakeParent notifies the registered parent waker, if any.
func (q *readyQueue[T]) wakeParent() {
	q.mu.Lock()
	w := q.parentWaker
	q.mu.Unlock()
	if w != nil {
		w.Wake()
	}
}
