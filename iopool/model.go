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

package iopool

import (
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sabouaram/moonrt/buffer"
	"github.com/sabouaram/moonrt/ioworker"
	"github.com/sabouaram/moonrt/message"
	"github.com/sabouaram/moonrt/rterrors"
)

type pool struct {
	workers []ioworker.Worker
	next    atomic.Uint32

	events chan *message.Message
	done   chan struct{}
	fanWG  sync.WaitGroup
}

func newPool(n int, perWorkerEventsCap int) *pool {
	if n <= 0 {
		n = 1
	}
	p := &pool{
		workers: make([]ioworker.Worker, n),
		events:  make(chan *message.Message, perWorkerEventsCap*n),
		done:    make(chan struct{}),
	}
	for i := 0; i < n; i++ {
		p.workers[i] = ioworker.New(uint8(i), perWorkerEventsCap)
	}
	return p
}

func (p *pool) Run() {
	for _, w := range p.workers {
		go w.Run()
	}
	p.fanWG.Add(len(p.workers))
	for _, w := range p.workers {
		go p.fanIn(w)
	}
}

func (p *pool) fanIn(w ioworker.Worker) {
	defer p.fanWG.Done()
	for {
		select {
		case m := <-w.Events():
			select {
			case p.events <- m:
			case <-p.done:
				return
			}
		case <-p.done:
			return
		}
	}
}

func (p *pool) Stop() {
	for _, w := range p.workers {
		w.Stop()
	}
	close(p.done)
	p.fanWG.Wait()
	close(p.events)
}

func (p *pool) WorkerCount() int { return len(p.workers) }

func (p *pool) SessionCount() int64 {
	var total int64
	for _, w := range p.workers {
		total += w.SessionCount()
	}
	return total
}

func (p *pool) AddConn(conn net.Conn, timeout time.Duration) (uint32, rterrors.Error) {
	idx := p.next.Add(1) % uint32(len(p.workers))
	return p.workers[idx].AddConn(conn, timeout)
}

func (p *pool) Send(sessionID uint32, buf buffer.Buffer) {
	idx := ioworker.IndexOf(sessionID)
	if int(idx) >= len(p.workers) {
		return
	}
	p.workers[idx].Send(sessionID, buf)
}

func (p *pool) Close(sessionID uint32) {
	idx := ioworker.IndexOf(sessionID)
	if int(idx) >= len(p.workers) {
		return
	}
	p.workers[idx].Close(sessionID)
}

func (p *pool) Events() <-chan *message.Message { return p.events }
