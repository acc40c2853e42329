// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package streamset

// Entry is a two-phase insertion handle returned by [Set.StreamEntry]. It
// exposes the reserved [Token] before the stream value is constructed,
// enabling constructions where the stream itself needs to know its own
// token (e.g. to tag outgoing messages before the first poll happens).
//
// Go has no destructor equivalent to Rust's Drop, so — unlike the source
// design this is adapted from — an Entry left unused does not automatically
// unwind its reservation. Callers must call either Insert or Cancel exactly
// once. See SPEC_FULL.md §9 ("No Drop in Go").
type Entry[T any] struct {
	set       *Set[T]
	task      *task[T]
	committed bool
}

// Token returns the reserved token.
func (e *Entry[T]) Token() Token {
	return e.task.id
}

// Insert supplies the stream value for the reserved token, completing the
// insertion. Insert must be called at most once.
func (e *Entry[T]) Insert(stream Stream[T]) {
	e.task.stream = stream
	e.committed = true
}

// Cancel abandons the reservation if Insert was never called, unlinking the
// reserved task and returning its token to circulation. Calling Cancel after
// Insert is a no-op.
func (e *Entry[T]) Cancel() {
	if e.committed {
		return
	}
	e.set.removeTask(e.task)
}
