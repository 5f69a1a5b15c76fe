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

// Package iopool implements the fixed set of I/O workers (component F):
// round-robin assignment of new connections, and send/close routing by
// the top 8 bits of a session id.
package iopool

import (
	"net"
	"time"

	"github.com/sabouaram/moonrt/buffer"
	"github.com/sabouaram/moonrt/message"
	"github.com/sabouaram/moonrt/rterrors"
)

// Pool owns a fixed set of ioworker.Worker instances and fans their
// events into one merged channel.
type Pool interface {
	// Run starts every worker's dispatch loop and the fan-in goroutine.
	Run()

	// Stop stops every worker (closing all sessions), then ends the fan-in
	// goroutines, waits for them and closes Events. Events still buffered
	// in a worker's own channel at that point are discarded.
	Stop()

	// AddConn assigns conn to the next worker in round-robin order and
	// returns its session id.
	AddConn(conn net.Conn, timeout time.Duration) (sessionID uint32, err rterrors.Error)

	// Send routes to the owning worker decoded from sessionID's top 8
	// bits; a no-op if that worker is out of range or doesn't know the
	// id.
	Send(sessionID uint32, buf buffer.Buffer)

	// Close routes a close request the same way Send does.
	Close(sessionID uint32)

	// Events is the merged stream of every worker's network events, in
	// no particular cross-worker order (order is only guaranteed
	// per-session, since a session's events all originate from one
	// worker).
	Events() <-chan *message.Message

	// WorkerCount returns the number of I/O workers in the pool.
	WorkerCount() int

	// SessionCount returns the total number of open sessions across all
	// workers.
	SessionCount() int64
}

// New constructs a Pool of n I/O workers, each with the given per-worker
// events channel capacity.
func New(n int, perWorkerEventsCap int) Pool {
	return newPool(n, perWorkerEventsCap)
}
