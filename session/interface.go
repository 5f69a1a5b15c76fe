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

// Package session implements the per-connection state machine (component
// D): length-prefixed framing, a bounded write queue, an idle-timeout
// check, and delivery of connection events as Messages.
//
// The default wire protocol is bit-exact: every frame on the wire is a
// 2-byte big-endian length followed by that many bytes of opaque
// payload, length <= MaxMsgSize (8 KiB).
package session

import (
	"net"
	"time"

	"github.com/sabouaram/moonrt/buffer"
	"github.com/sabouaram/moonrt/message"
)

// MaxMsgSize is the largest payload a single frame may carry.
const MaxMsgSize = 8192

// WriteQueueSoftLimit is the pending-buffer count at which a session
// emits a one-time warning via its logger hook (§4.D).
const WriteQueueSoftLimit = 5

// WriteBatchMax is the largest number of queued buffers drained into a
// single scatter-gather write per wake-up.
const WriteBatchMax = 10

// State is the session's lifecycle state (§3).
type State int32

const (
	Connecting State = iota
	Open
	Closing
	Closed
)

func (s State) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Open:
		return "open"
	case Closing:
		return "closing"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}

// EventSink receives Messages emitted by a Session: network_connect
// (once), network_recv (per frame), network_error / network_logic_error,
// and network_close (once, terminal). Implementations must not block
// indefinitely — in this runtime it is the owning I/O worker's outbound
// channel, itself drained by the network facade (§4.F/G), so the
// backpressure described in §5 propagates through the sink.
type EventSink func(msg *message.Message)

// WarnFunc is invoked once per soft-limit crossing of the write queue,
// for the ambient logger to report (§0 AMBIENT STACK).
type WarnFunc func(sessionID uint32, queued int)

// Session is one TCP connection and its protocol state (component D).
// Owned exclusively by a single I/O worker; not safe for concurrent use
// from outside its own goroutines.
type Session interface {
	ID() uint32
	PeerAddr() string
	State() State

	// Start launches the read loop and write loop goroutines. It emits
	// exactly one network_connect event on success.
	Start()

	// Send enqueues buf for asynchronous write. It prepends the 2-byte
	// length prefix (via buf's head reserve) if not already flagged.
	// Oversized buffers are rejected with a network_logic_error emitted
	// to the sink and the session is closed.
	Send(buf buffer.Buffer)

	// Close requests shutdown. Idempotent: a second call is a no-op.
	// Exactly one network_close is emitted on the terminal transition.
	Close()

	// CheckIdle closes the session with socket_read_timeout if it has
	// been Open longer than its configured timeout without receiving
	// data. A session created with timeout <= 0 is never closed here.
	// Called by the owning I/O worker's periodic sweep (§4.D).
	CheckIdle(now time.Time)
}

// New wraps conn as a Session identified by id, delivering events to
// sink. timeout <= 0 disables the idle check.
func New(id uint32, conn net.Conn, timeout time.Duration, sink EventSink, warn WarnFunc) Session {
	return newSession(id, conn, timeout, sink, warn)
}
