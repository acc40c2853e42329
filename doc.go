// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package streamset provides a dynamic set of asynchronous streams polled
// as a single combined stream.
//
// Items arrive from whichever member stream produces them first; each
// yielded item is tagged with a stable [Token] identifying the originating
// stream. New streams may be inserted at any time, completed streams may be
// retained or removed at the owner's discretion, and the set scales to tens
// of thousands of member streams without O(N) per-poll cost.
//
// # Quick Start
//
//	set := streamset.New[string]()
//	tok := set.Push(streamset.FromChan(ch))
//
//	for {
//	    y, t, status := set.PollNext(ctx, w)
//	    if status == streamset.PollDone {
//	        break // no members left
//	    }
//	    if status == streamset.PollPending {
//	        continue // nothing ready; wait for w.Wake and retry
//	    }
//	    if item, isItem := y.Item(); isItem {
//	        fmt.Println(t, item)
//	        continue
//	    }
//	    marker, _ := y.Finished()
//	    marker.Remove(set)
//	}
//
// # Design
//
// The dispatcher is built from four layers, leaves first:
//
//	Stream / Waker vocabulary  →  Task node  →  Ready queue  →  Set controller
//
// A task is the per-stream record: the stream value itself, membership-list
// links, a ready-queue link, and the atomic "queued" flag arbitrating
// enqueue races. The ready queue is a lock-free intrusive MPSC linked list
// (the classic stub-node algorithm); only tasks that have signalled
// readiness sit in it, so polling the set costs O(ready), never O(members).
//
// # Token recycling
//
// Tokens are small dense integers handed out and recycled by internal/slab,
// itself built on [code.hybscloud.com/lfq]'s SPSCIndirect bounded lock-free
// queue — the same "buffer pool with index-based access" pattern that
// package documents for general use.
//
// # Thread Safety
//
// The set itself is single-consumer: only one goroutine at a time may call
// PollNext, Push, Remove, Take, or iterate. Wakers are multi-producer: they
// may fire from any goroutine at any time, including concurrently with a
// PollNext call. See [Set] for the full contract.
package streamset
