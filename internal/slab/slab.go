// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package slab provides a token-recycling allocator for the enclosing
// streamset package's token index (SPEC_FULL.md §4.6).
//
// Tokens are dense small integers, starting at 1 (0 is reserved by the
// caller for the stub task and never touches this package). Freed tokens
// are recycled through a bounded lock-free free list — [lfq.SPSCIndirect]
// from the upstream code.hybscloud.com/lfq module, documented there for
// exactly this "buffer pool with index-based access" use — falling back to
// plain growth when the free list is full or empty, since a lock-free ring
// buffer cannot hold more entries than its fixed, power-of-two capacity.
//
// A Slab is not safe for concurrent use by multiple goroutines; it is
// designed for exactly the access pattern the owning Set has: a single
// controller goroutine both allocates and frees tokens, sequentially.
package slab

import (
	"code.hybscloud.com/lfq"
)

// Slab allocates and recycles dense integer tokens.
type Slab struct {
	freeList *lfq.SPSCIndirect
	next     uint64 // next never-yet-issued token, monotonically increasing
}

// New creates a Slab whose free list has the given capacity (rounded up to
// the next power of 2 by the backing queue). freeListCapacity bounds how
// many concurrently-freed tokens can be recycled before the slab falls back
// to plain growth for further frees.
func New(freeListCapacity int) *Slab {
	if freeListCapacity < 2 {
		freeListCapacity = 2
	}
	return &Slab{
		freeList: lfq.NewSPSCIndirect(freeListCapacity),
		next:     1, // 0 is reserved for the stub by convention of the caller
	}
}

// Alloc returns a token: a recycled one if the free list has one ready,
// otherwise the next never-yet-issued integer.
func (s *Slab) Alloc() uint64 {
	if tok, err := s.freeList.Dequeue(); err == nil {
		return uint64(tok)
	}
	tok := s.next
	s.next++
	return tok
}

// Free returns tok to the free list for future reuse. If the free list is
// at capacity, tok is simply not recycled — a graceful degradation, not a
// failure (see package doc and SPEC_FULL.md property 11).
func (s *Slab) Free(tok uint64) {
	_ = s.freeList.Enqueue(uintptr(tok))
}
