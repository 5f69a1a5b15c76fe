/*
 * MIT License
 *
 * Copyright (c) 2026 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Package service defines the actor contract (component H): identity,
// lifecycle hooks, and the operations available to an implementation
// while it runs on its owning worker.
package service

import (
	"github.com/sabouaram/moonrt/buffer"
	"github.com/sabouaram/moonrt/message"
	"github.com/sabouaram/moonrt/rterrors"
	"github.com/sabouaram/moonrt/timer"
)

// State is a Service's lifecycle position (§3).
type State int32

const (
	Created State = iota
	Initialized
	Running
	Exiting
	Destroyed
)

func (s State) String() string {
	switch s {
	case Created:
		return "created"
	case Initialized:
		return "initialized"
	case Running:
		return "running"
	case Exiting:
		return "exiting"
	case Destroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

// Context is the set of operations available to a Service only while it
// runs on its owning worker (from init, dispatch, or on_exit).
type Context interface {
	// Self returns this service's own id.
	Self() uint32

	// Send takes the local fast path when receiver is owned by the
	// calling worker, else enqueues cross-worker via the pool.
	Send(receiver uint32, buf buffer.Buffer, header []byte, sessionID uint32, typ message.Type) bool

	// Broadcast fans msg out to every service in the runtime except the
	// sender.
	Broadcast(header []byte, typ message.Type)

	// RemoveSelf schedules this service for teardown. If crashed is
	// true, a crash notification is broadcast first.
	RemoveSelf(crashed bool)

	// MakeResponse builds a reply Message addressed back to sender,
	// correlated by sessionID.
	MakeResponse(sender uint32, header []byte, content buffer.Buffer, sessionID uint32, typ message.Type) *message.Message

	// AddTimer schedules a one-shot timer firing as a System dispatch
	// to this service with tag in the header (§4.B/§9: owner +
	// callback tag instead of a captured closure).
	AddTimer(delayMs int64, tag uint64) (timer.ID, rterrors.Error)

	// AddRepeatTimer schedules a repeating timer; times = -1 for
	// infinite.
	AddRepeatTimer(delayMs int64, times int32, tag uint64) (timer.ID, rterrors.Error)

	// RemoveTimer cancels a previously scheduled timer owned by this
	// service.
	RemoveTimer(id timer.ID)
}

// Service is the capability set every actor implementation provides
// (§4.H). init/dispatch/on_exit all run exclusively on the owning
// worker; dispatch never overlaps with another dispatch of the same
// service.
type Service interface {
	// Init runs once on the owning worker before the first dispatch.
	// Returning false aborts creation; the caller gets a failure reply
	// and the worker never enters this instance into its directory.
	Init(ctx Context, config []byte) bool

	// Dispatch runs once per incoming Message.
	Dispatch(ctx Context, msg *message.Message)

	// OnExit runs once during teardown, after the last Dispatch and
	// before the worker removes this instance from its directory.
	OnExit(ctx Context)
}

// Constructor builds a fresh, uninitialized Service instance for a
// registered type name (§4.J's type_name -> constructor_fn registry).
type Constructor func() Service
