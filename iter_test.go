// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package streamset_test

import (
	"testing"

	"code.hybscloud.com/streamset"
)

// TestIterMutOrderAndLen checks that IterMut visits every member exactly
// once, in insertion-reverse order (most recently pushed first), and that
// Len decreases as Next is consumed.
func TestIterMutOrderAndLen(t *testing.T) {
	set := streamset.New[int]()
	var toks []streamset.Token
	for i := 0; i < 4; i++ {
		toks = append(toks, set.Push(&onceStream[int]{v: i}))
	}

	it := set.IterMut()
	if it.Len() != 4 {
		t.Fatalf("IterMut().Len(): got %d, want 4", it.Len())
	}

	var gotToks []streamset.Token
	for {
		tok, s, ok := it.Next()
		if !ok {
			break
		}
		if s == nil {
			t.Fatalf("token %d: unexpected nil stream", tok)
		}
		gotToks = append(gotToks, tok)
	}

	if len(gotToks) != len(toks) {
		t.Fatalf("visited %d members, want %d", len(gotToks), len(toks))
	}
	for i, tok := range gotToks {
		want := toks[len(toks)-1-i]
		if tok != want {
			t.Fatalf("visit order[%d]: got token %d, want %d (insertion-reverse order)", i, tok, want)
		}
	}

	if _, _, ok := it.Next(); ok {
		t.Fatal("Next after exhaustion should report false")
	}
}

// TestIterMutEmptySet checks the zero-member case.
func TestIterMutEmptySet(t *testing.T) {
	set := streamset.New[int]()
	it := set.IterMut()
	if it.Len() != 0 {
		t.Fatalf("Len on empty set's iterator: got %d, want 0", it.Len())
	}
	if _, _, ok := it.Next(); ok {
		t.Fatal("Next on an empty set's iterator should report false")
	}
}
