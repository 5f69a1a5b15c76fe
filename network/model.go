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

package network

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/sabouaram/moonrt/buffer"
	"github.com/sabouaram/moonrt/iopool"
	"github.com/sabouaram/moonrt/message"
	"github.com/sabouaram/moonrt/rterrors"

	"golang.org/x/sync/semaphore"
)

type facade struct {
	pool iopool.Pool
	sem  *semaphore.Weighted
	cap  int64

	mu        sync.Mutex
	queue     []*message.Message
	listeners []net.Listener

	ctx    context.Context
	cancel context.CancelFunc
	pumpWG sync.WaitGroup
}

func newFacade(ioWorkers, inboundQueueSize int) *facade {
	if inboundQueueSize <= 0 {
		inboundQueueSize = DefaultInboundQueueSize
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &facade{
		pool:   iopool.New(ioWorkers, 256),
		sem:    semaphore.NewWeighted(int64(inboundQueueSize)),
		cap:    int64(inboundQueueSize),
		ctx:    ctx,
		cancel: cancel,
	}
}

func (f *facade) Run() {
	f.pool.Run()
	f.pumpWG.Add(1)
	go f.pump()
}

// pump acquires one semaphore unit per message before admitting it to
// the bounded queue; Update releases the unit once the message has been
// handed to the caller's handler. A full queue blocks this goroutine,
// which in turn blocks the I/O pool's fan-in goroutines and ultimately
// the I/O workers' session emit() calls — the "producer blocks, never
// drops" policy.
func (f *facade) pump() {
	defer f.pumpWG.Done()
	for {
		m, ok := <-f.pool.Events()
		if !ok {
			return
		}
		if err := f.sem.Acquire(f.ctx, 1); err != nil {
			return
		}
		f.mu.Lock()
		f.queue = append(f.queue, m)
		f.mu.Unlock()
	}
}

func (f *facade) Stop() {
	f.mu.Lock()
	for _, ln := range f.listeners {
		_ = ln.Close()
	}
	f.listeners = nil
	f.mu.Unlock()

	f.pool.Stop()
	f.cancel()
	f.pumpWG.Wait()
}

func (f *facade) Listen(addr string, timeout time.Duration) rterrors.Error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return rterrors.Wrap(rterrors.ErrInvalidAddress, "network: listen failed", err)
	}
	f.mu.Lock()
	f.listeners = append(f.listeners, ln)
	f.mu.Unlock()

	go func() {
		for {
			conn, aerr := ln.Accept()
			if aerr != nil {
				return
			}
			if _, perr := f.pool.AddConn(conn, timeout); perr != nil {
				_ = conn.Close()
			}
		}
	}()
	return nil
}

func (f *facade) AsyncConnect(addr string, dialTimeout, idleTimeout time.Duration) {
	go func() {
		conn, err := net.DialTimeout("tcp", addr, dialTimeout)
		if err != nil {
			f.enqueue(message.NewNetworkError(message.NetworkError, 0, addr, message.NetErrTransport, err.Error()))
			return
		}
		if _, perr := f.pool.AddConn(conn, idleTimeout); perr != nil {
			_ = conn.Close()
			f.enqueue(message.NewNetworkError(message.NetworkError, 0, addr, message.NetErrTransport, perr.Error()))
		}
	}()
}

func (f *facade) SyncConnect(addr string, dialTimeout, idleTimeout time.Duration) (uint32, rterrors.Error) {
	conn, err := net.DialTimeout("tcp", addr, dialTimeout)
	if err != nil {
		return 0, rterrors.Wrap(rterrors.ErrInvalidAddress, "network: dial failed", err)
	}
	id, perr := f.pool.AddConn(conn, idleTimeout)
	if perr != nil {
		_ = conn.Close()
		return 0, perr
	}
	return id, nil
}

func (f *facade) Send(sessionID uint32, buf buffer.Buffer) { f.pool.Send(sessionID, buf) }
func (f *facade) Close(sessionID uint32)                   { f.pool.Close(sessionID) }

func (f *facade) enqueue(m *message.Message) {
	if err := f.sem.Acquire(f.ctx, 1); err != nil {
		return
	}
	f.mu.Lock()
	f.queue = append(f.queue, m)
	f.mu.Unlock()
}

func (f *facade) Update(handler Handler) int {
	f.mu.Lock()
	batch := f.queue
	f.queue = nil
	f.mu.Unlock()

	for _, m := range batch {
		handler(m)
		f.sem.Release(1)
	}
	return len(batch)
}
