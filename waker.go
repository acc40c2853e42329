// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package streamset

// Waker is the Go substitute for Rust's std::task::Waker: a handle that a
// pending [Stream] holds onto and invokes once it has new work to report.
//
// Wake and WakeByRef are distinguished in the original design by whether the
// caller is consuming its last reference to the waker; Go's garbage
// collector makes that distinction unnecessary; both methods have identical
// semantics here and a Waker may be invoked any number of times.
type Waker interface {
	// Wake notifies the waker's owner that progress may be possible. It may
	// be called from any goroutine, at any time, including concurrently
	// with itself or with a poll of the stream that holds it.
	Wake()

	// WakeByRef is equivalent to Wake. It exists to mirror the vocabulary a
	// reader familiar with futures-rs's Waker will expect; new code should
	// just call Wake.
	WakeByRef()
}

// WakerFunc adapts a plain func() into a [Waker].
type WakerFunc func()

// Wake calls f.
func (f WakerFunc) Wake() { f() }

// WakeByRef calls f.
func (f WakerFunc) WakeByRef() { f() }
