// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package streamset

// Iterator produces a mutable reference (the Stream value itself, Go having
// no separate pinned-reference type, see SPEC_FULL.md §9) to each member
// stream, traversing the membership list in insertion-reverse order — the
// most recently inserted member first, since insertion links at the head.
//
// An Iterator is a point-in-time snapshot of Len(); calling Next more times
// than Len reports is not checked and simply reports exhausted.
type Iterator[T any] struct {
	cur *task[T]
	n   int
}

// IterMut returns an Iterator over the set's current members.
func (s *Set[T]) IterMut() *Iterator[T] {
	return &Iterator[T]{cur: s.head, n: s.length}
}

// Len returns the number of members remaining in this iteration.
func (it *Iterator[T]) Len() int {
	return it.n
}

// Next returns the next member's token and stream, or (0, nil, false) once
// exhausted.
func (it *Iterator[T]) Next() (Token, Stream[T], bool) {
	if it.cur == nil {
		return 0, nil, false
	}
	t := it.cur
	it.cur = t.nextAll
	it.n--
	return t.id, t.stream, true
}
