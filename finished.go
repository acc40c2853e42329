// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package streamset

// FinishedMarker is a one-shot value carrying a [Token], returned alongside
// a Finished [Yield] when a member stream produces its terminal signal. It
// decides the post-completion policy: remove the member, take its (already
// exhausted) stream back, or keep it as a retained, finished member.
//
// Letting a FinishedMarker go out of scope without calling any method is
// equivalent to [FinishedMarker.Keep]: this module performs no action on a
// dropped value, matching the source design's stated "dropping is
// equivalent to keep" without needing a Drop implementation (Go has none).
type FinishedMarker[T any] struct {
	token Token
}

// Token returns the token of the member this marker belongs to.
func (m FinishedMarker[T]) Token() Token {
	return m.token
}

// Keep is a no-op: the member remains in the set, finished, reachable via
// Get and IsFinished.
func (m FinishedMarker[T]) Keep() {}

// Remove removes the finished member from set, mirroring (*Set[T]).Remove.
// Returns whether removal occurred (always true for a marker obtained from
// a live PollNext call on the same set).
func (m FinishedMarker[T]) Remove(set *Set[T]) bool {
	return set.Remove(m.token)
}

// Take removes the finished member and returns its (already exhausted)
// stream value, mirroring (*Set[T]).Take.
func (m FinishedMarker[T]) Take(set *Set[T]) (Stream[T], bool) {
	return set.Take(m.token)
}

// yieldState tags a [Yield] as either an item or a finished marker.
type yieldState uint8

const (
	yieldItem yieldState = iota
	yieldFinished
)

// Yield is what PollNext returns alongside a token on each non-terminal,
// non-pending result: either a produced item, or a finished marker.
type Yield[T any] struct {
	state  yieldState
	item   T
	marker FinishedMarker[T]
}

func yieldItemOf[T any](v T) Yield[T] {
	return Yield[T]{state: yieldItem, item: v}
}

func yieldFinishedOf[T any](tok Token) Yield[T] {
	return Yield[T]{state: yieldFinished, marker: FinishedMarker[T]{token: tok}}
}

// Item returns the carried value and true if y is an item yield.
func (y Yield[T]) Item() (T, bool) {
	return y.item, y.state == yieldItem
}

// Finished returns the carried marker and true if y is a finished yield.
func (y Yield[T]) Finished() (FinishedMarker[T], bool) {
	return y.marker, y.state == yieldFinished
}
