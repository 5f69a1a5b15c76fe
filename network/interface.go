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

// Package network is the public facade (component G) the actor runtime
// talks to: listen/connect/send/close over the I/O pool, and a bounded
// inbound queue of network-origin messages drained by Update.
package network

import (
	"time"

	"github.com/sabouaram/moonrt/buffer"
	"github.com/sabouaram/moonrt/message"
	"github.com/sabouaram/moonrt/rterrors"
)

// DefaultInboundQueueSize is used when rtconfig doesn't override it.
const DefaultInboundQueueSize = 1024

// Handler processes one network-origin Message drained by Update.
type Handler func(*message.Message)

// Facade is the runtime-facing API of the networking layer.
type Facade interface {
	// Run starts the I/O pool and the queue pump. Must be called before
	// Listen/Connect/Send.
	Run()

	// Stop stops every listener, the I/O pool, and the queue pump, then
	// returns once both have drained.
	Stop()

	// Listen accepts inbound connections on addr and round-robins them
	// across the I/O pool, each with the given idle timeout (0 disables
	// the idle check).
	Listen(addr string, timeout time.Duration) rterrors.Error

	// AsyncConnect dials addr without blocking the caller; success or
	// failure is reported as a network_connect or network_error message
	// through the same Update path (sender 0 on a dial failure, since no
	// session id was ever assigned).
	AsyncConnect(addr string, dialTimeout, idleTimeout time.Duration)

	// SyncConnect dials addr and blocks until the connection is
	// established (or fails) and assigned a session id.
	SyncConnect(addr string, dialTimeout, idleTimeout time.Duration) (sessionID uint32, err rterrors.Error)

	// Send posts a write to sessionID.
	Send(sessionID uint32, buf buffer.Buffer)

	// Close posts a close request for sessionID.
	Close(sessionID uint32)

	// Update drains every message currently queued (non-blocking) to
	// handler and returns how many were delivered. The kernel calls it
	// periodically from its own pump goroutine.
	Update(handler Handler) int
}

// New constructs a Facade with the given I/O worker count and inbound
// queue capacity.
func New(ioWorkers int, inboundQueueSize int) Facade {
	return newFacade(ioWorkers, inboundQueueSize)
}
