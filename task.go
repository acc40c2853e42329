// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package streamset

import (
	"sync/atomic"
	"weak"
)

// Token identifies a member stream for the lifetime of its membership in a
// [Set]. Token 0 is reserved for the internal stub task and is never
// returned to callers.
type Token uint64

// task is the per-stream record: the wake target, the membership-list node,
// and the ready-queue node, all in one allocation. See SPEC_FULL.md §3/§4.1.
type task[T any] struct {
	id Token

	// stream, done, prevAll, nextAll: controller-goroutine only (invariant 4).
	stream  Stream[T]
	done    bool
	prevAll *task[T]
	nextAll *task[T]

	// nextReady: ready-queue link, written by producers (wakers) and the
	// consumer (controller). Plain sync/atomic, not atomix: this field must
	// remain GC-visible as a live pointer (see SPEC_FULL.md §9).
	nextReady atomic.Pointer[task[T]]

	// queued arbitrates at-most-one concurrent enqueue per task. Plain
	// sync/atomic, not atomix: the teacher only ever exercises atomix.Bool
	// through Load/Store/StoreRelease, never CompareAndSwap, so this field
	// uses the standard library's atomic.Bool (which does expose a
	// confirmed CompareAndSwap) rather than assume an unverified method on
	// the teacher's wrapper type. See SPEC_FULL.md §9.
	queued atomic.Bool

	// polling is true for the duration of a pollOnce call on this task; it
	// guards Take from extracting a stream mid-poll (the Go substitute for
	// Rust's Unpin precondition, see SPEC_FULL.md §9).
	polling bool

	// readyQueue is a non-owning reference back to the owning set's ready
	// queue, so a wake fired after the set itself has become unreachable is
	// a safe no-op instead of keeping the set alive forever.
	readyQueue weak.Pointer[readyQueue[T]]
}

// newStub creates the sentinel task used by the ready queue to disambiguate
// "empty" from "producer mid-publish". It is never linked into a
// membership list and never handed a real stream.
func newStub[T any]() *task[T] {
	return &task[T]{id: 0}
}

// wake implements the 4.1 wake algorithm shared by Wake and WakeByRef.
func (t *task[T]) wake() {
	if !t.queued.CompareAndSwap(false, true) {
		return // already scheduled
	}
	rq := t.readyQueue.Value()
	if rq == nil {
		return // parent set has been collected
	}
	rq.push(t)
	rq.wakeParent()
}

// Wake implements [Waker].
func (t *task[T]) Wake() { t.wake() }

// WakeByRef implements [Waker].
func (t *task[T]) WakeByRef() { t.wake() }
