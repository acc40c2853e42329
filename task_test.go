// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package streamset

import (
	"sync"
	"testing"
	"weak"
)

// TestTaskWakeArbitration verifies the 4.1 wake algorithm: the first Wake
// on an unqueued task pushes it and notifies the parent; a second Wake
// before the task is dequeued is a no-op (the queued flag already arbitrates
// it away).
func TestTaskWakeArbitration(t *testing.T) {
	rq := newReadyQueue[int]()

	tk := &task[int]{id: 1}
	tk.readyQueue = weak.Make(rq)

	var wakes int
	rq.registerParent(WakerFunc(func() { wakes++ }))

	tk.Wake()
	if wakes != 1 {
		t.Fatalf("wakes after first Wake: got %d, want 1", wakes)
	}
	if !tk.queued.Load() {
		t.Fatal("queued flag not set after Wake")
	}

	tk.Wake() // already queued: must be a no-op
	if wakes != 1 {
		t.Fatalf("wakes after second Wake: got %d, want 1 (push and parent notification both skipped)", wakes)
	}

	_, state := rq.pop()
	if state != dequeueData {
		t.Fatalf("pop state: got %v, want dequeueData", state)
	}
}

// TestTaskWakeAfterQueueCollected verifies that waking a task whose queue
// has been garbage collected (weak reference fails to upgrade) is a safe
// no-op, matching SPEC_FULL.md §4.1 step 2.
func TestTaskWakeAfterQueueCollected(t *testing.T) {
	tk := &task[int]{id: 1}
	// No readyQueue assigned: weak.Pointer's zero value upgrades to nil,
	// the same observable behavior as a genuinely collected queue.
	tk.Wake() // must not panic
	if !tk.queued.Load() {
		t.Fatal("queued flag should still be set even when the queue is gone")
	}
}

// TestTaskWakeConcurrent drives many goroutines calling Wake on the same
// task concurrently and checks the task is pushed exactly once.
func TestTaskWakeConcurrent(t *testing.T) {
	rq := newReadyQueue[int]()
	tk := &task[int]{id: 1}
	tk.readyQueue = weak.Make(rq)

	var wakes sync.WaitGroup
	for range 64 {
		wakes.Add(1)
		go func() {
			defer wakes.Done()
			tk.Wake()
		}()
	}
	wakes.Wait()

	got, state := rq.pop()
	if state != dequeueData || got != tk {
		t.Fatalf("expected exactly one push of tk, got state=%v task=%v", state, got)
	}
	if _, state := rq.pop(); state != dequeueEmpty {
		t.Fatalf("expected queue empty after single pop, got state=%v", state)
	}
}
