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

// Package ioworker implements one I/O worker (component E): a thread
// (goroutine) owning a session directory, a periodic idle sweep, and a
// command channel that every operation is posted through so nothing
// ever runs on the caller's goroutine.
package ioworker

import (
	"net"
	"time"

	"github.com/sabouaram/moonrt/buffer"
	"github.com/sabouaram/moonrt/message"
	"github.com/sabouaram/moonrt/rterrors"
)

// IdleSweepInterval is how often an I/O worker checks its sessions for
// idle timeout (§4.D).
const IdleSweepInterval = 10 * time.Second

// SessionIDMask is the low 24 bits of a session id: the per-worker
// monotonic counter. The top 8 bits are the owning worker's index.
const SessionIDMask = 0x00FFFFFF

// IndexOf extracts the owning worker index from a session id (§3).
func IndexOf(sessionID uint32) uint8 {
	return uint8(sessionID >> 24)
}

// Worker owns a reactor goroutine, a periodic idle-check timer, and a
// session directory. All operations are posted to that goroutine.
type Worker interface {
	// Index is this worker's position (0..N-1), packed into the top 8
	// bits of every session id it allocates.
	Index() uint8

	// Run starts the command-processing goroutine. It returns once
	// Stop has drained everything.
	Run()

	// Stop cancels the idle timer, closes every open session, and
	// drains the command channel to completion before returning.
	Stop()

	// AddConn reserves a session id (collision-checked against this
	// worker's live set) and enters it into the directory, starting
	// its read/write loops. timeout <= 0 disables the idle check for
	// this session. Blocks until the owning goroutine has processed
	// the command (the "does not enter the directory until
	// add_session" two-step of §4.E happens atomically from the
	// caller's point of view).
	AddConn(conn net.Conn, timeout time.Duration) (sessionID uint32, err rterrors.Error)

	// Send posts a write to sessionID, a no-op if the id is unknown or
	// already closed.
	Send(sessionID uint32, buf buffer.Buffer)

	// Close posts a close request for sessionID.
	Close(sessionID uint32)

	// SessionCount returns the current number of open sessions.
	SessionCount() int64

	// Events returns the channel every session's network_connect /
	// network_recv / network_close / network_error /
	// network_logic_error Message is delivered to, in the order the
	// owning I/O worker observed them.
	Events() <-chan *message.Message
}

// New constructs a Worker with the given index and events channel
// capacity.
func New(index uint8, eventsCap int) Worker {
	return newWorker(index, eventsCap)
}
