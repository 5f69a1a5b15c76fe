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

// Package svcworker implements one service worker (component I): a
// directory of owned services, a command queue for externally-pushed
// operations, a contention-free local fast-path message queue, a hosted
// timer wheel, and the dispatch loop that drives all of it.
package svcworker

import (
	"time"

	"github.com/sabouaram/moonrt/message"
	"github.com/sabouaram/moonrt/service"
)

// DefaultFairness is the default per-service message bound per dispatch
// loop iteration (§4.H).
const DefaultFairness = 128

// DefaultParkTimeout bounds how long the dispatch loop blocks on its
// command channel when both queues and the timer wheel are idle.
const DefaultParkTimeout = 50 * time.Millisecond

// CmdKind tags an externally-pushed command (§4.I).
type CmdKind int

const (
	CmdCreate CmdKind = iota
	CmdRemove
	CmdInject
	CmdBroadcast
	CmdShutdown
)

// CreateRequest carries everything needed to construct and initialize a
// new service instance on the target worker.
type CreateRequest struct {
	ID     uint32
	Ctor   service.Constructor
	Name   string
	Unique bool
	Config []byte
	Reply  chan CreateResult
}

// CreateResult is the asynchronous reply to a CreateRequest.
type CreateResult struct {
	ID uint32
	OK bool
}

// Command is one item posted to a worker's external command queue.
type Command struct {
	Kind    CmdKind
	Create  *CreateRequest
	RemID   uint32
	Msg     *message.Message
}

// Router lets a worker reach the rest of the runtime: cross-worker
// delivery, broadcast fan-out, and unique-name bookkeeping. Implemented
// by svcpool; kept as an interface here to avoid an import cycle.
type Router interface {
	// Route posts msg onto the command queue of the worker owning
	// msg.Receiver.
	Route(msg *message.Message)

	// Broadcast posts msg (with Broadcast set) onto every worker's
	// command queue.
	Broadcast(msg *message.Message)

	// ReleaseUnique clears name from the pool's unique-name map, called
	// when a unique service is torn down.
	ReleaseUnique(name string)
}

// Worker owns a set of services and runs their dispatch loop on its own
// goroutine. All mutating operations are posted through Post; Dispatch
// calls made by a service on this worker's own goroutine take the fast
// local path directly.
type Worker interface {
	// Index is this worker's position (0..N-1), packed into the top 8
	// bits of every service id it allocates.
	Index() uint8

	// Run starts the dispatch loop. Returns once Stop has completed the
	// deterministic shutdown order (§4.I).
	Run()

	// Stop signals the worker to stop accepting new commands, drains
	// both queues, tears down every owned service in reverse creation
	// order, and returns once done.
	Stop()

	// Post pushes an externally-originated command onto this worker's
	// command queue. Safe for concurrent callers (other workers, the
	// pool, the runtime facade).
	Post(cmd Command)

	// ServiceCount returns the number of services currently owned by
	// this worker (including ones pending teardown).
	ServiceCount() int

	// Exclusive reports whether this worker has been flagged to
	// decline additional service placement (§4.I next_worker()).
	Exclusive() bool

	// SetExclusive sets the exclusive flag.
	SetExclusive(bool)

	// SetLogger overrides the default no-op logger. Must be called
	// before Run.
	SetLogger(Logger)
}

// New constructs a service Worker with the given index, wheel tick
// precision (ms) and slot count, wired to router for cross-worker
// concerns.
func New(index uint8, router Router, wheelPrecisionMs int64, wheelSlots int) Worker {
	return newWorker(index, router, wheelPrecisionMs, wheelSlots)
}
