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

package ioworker

import (
	"fmt"
	"net"
	"sync/atomic"
	"time"

	"github.com/sabouaram/moonrt/buffer"
	"github.com/sabouaram/moonrt/message"
	"github.com/sabouaram/moonrt/rterrors"
	"github.com/sabouaram/moonrt/session"
)

type cmdKind int

const (
	cmdAddConn cmdKind = iota
	cmdSend
	cmdClose
	cmdRemove
	cmdStop
)

type command struct {
	kind    cmdKind
	conn    net.Conn
	timeout time.Duration
	sessID  uint32
	buf     buffer.Buffer
	reply   chan addConnResult
}

type addConnResult struct {
	id  uint32
	err rterrors.Error
}

type worker struct {
	index   uint8
	cmdCh   chan command
	events  chan *message.Message
	stopped chan struct{}

	sessions map[uint32]session.Session
	nextSeq  uint32
	count    atomic.Int64
}

func newWorker(index uint8, eventsCap int) *worker {
	if eventsCap <= 0 {
		eventsCap = 256
	}
	return &worker{
		index:    index,
		cmdCh:    make(chan command, 64),
		events:   make(chan *message.Message, eventsCap),
		stopped:  make(chan struct{}),
		sessions: make(map[uint32]session.Session),
	}
}

func (w *worker) Index() uint8                      { return w.index }
func (w *worker) Events() <-chan *message.Message   { return w.events }
func (w *worker) SessionCount() int64               { return w.count.Load() }

func (w *worker) AddConn(conn net.Conn, timeout time.Duration) (uint32, rterrors.Error) {
	reply := make(chan addConnResult, 1)
	w.cmdCh <- command{kind: cmdAddConn, conn: conn, timeout: timeout, reply: reply}
	r := <-reply
	return r.id, r.err
}

func (w *worker) Send(sessionID uint32, buf buffer.Buffer) {
	w.cmdCh <- command{kind: cmdSend, sessID: sessionID, buf: buf}
}

func (w *worker) Close(sessionID uint32) {
	w.cmdCh <- command{kind: cmdClose, sessID: sessionID}
}

func (w *worker) Stop() {
	w.cmdCh <- command{kind: cmdStop}
	<-w.stopped
}

// Run is the worker's dispatch loop: process commands, and every
// IdleSweepInterval sweep every Open session for idle timeout (§4.D,
// §4.E). It returns once Stop has closed every session.
func (w *worker) Run() {
	ticker := time.NewTicker(IdleSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case cmd := <-w.cmdCh:
			if w.handle(cmd) {
				close(w.stopped)
				return
			}
		case now := <-ticker.C:
			for _, s := range w.sessions {
				s.CheckIdle(now)
			}
		}
	}
}

// handle processes one posted command on the worker's own goroutine.
// Returns true if this was the stop command and the worker should exit.
func (w *worker) handle(cmd command) bool {
	switch cmd.kind {
	case cmdAddConn:
		id, err := w.addConn(cmd.conn, cmd.timeout)
		cmd.reply <- addConnResult{id: id, err: err}
	case cmdSend:
		if s, ok := w.sessions[cmd.sessID]; ok {
			s.Send(cmd.buf)
		}
	case cmdClose:
		if s, ok := w.sessions[cmd.sessID]; ok {
			s.Close()
		}
	case cmdRemove:
		if _, ok := w.sessions[cmd.sessID]; ok {
			delete(w.sessions, cmd.sessID)
			w.count.Store(int64(len(w.sessions)))
		}
	case cmdStop:
		for id, s := range w.sessions {
			s.Close()
			delete(w.sessions, id)
			w.count.Store(int64(len(w.sessions)))
		}
		return true
	}
	return false
}

// addConn reserves a session id by collision-checked increment, then
// enters it into the directory and starts its loops (§4.E: two
// conceptually distinct steps, performed atomically here since both run
// on this goroutine).
func (w *worker) addConn(conn net.Conn, timeout time.Duration) (uint32, rterrors.Error) {
	id, err := w.reserveID()
	if err != nil {
		return 0, err
	}

	s := session.New(id, conn, timeout, w.emit, nil)
	w.sessions[id] = s
	w.count.Store(int64(len(w.sessions)))
	s.Start()
	return id, nil
}

func (w *worker) reserveID() (uint32, rterrors.Error) {
	for i := 0; i < SessionIDMask+1; i++ {
		w.nextSeq = (w.nextSeq + 1) & SessionIDMask
		if w.nextSeq == 0 {
			w.nextSeq = 1
		}
		candidate := (uint32(w.index) << 24) | w.nextSeq
		if _, live := w.sessions[candidate]; !live {
			return candidate, nil
		}
	}
	return 0, rterrors.New(rterrors.ErrServiceIDExhausted,
		fmt.Sprintf("io worker %d: session id space exhausted", w.index))
}

// emit is called from a session's own read/write-loop goroutine (or, for
// the connect event and an explicit Stop, from the worker's own
// goroutine). It never mutates the session directory directly — doing
// so from multiple goroutines without synchronization would race with
// the worker's single-writer command loop — so a network_close instead
// posts a removal command. The post is best-effort: Stop() clears the
// whole directory unconditionally, so a dropped post there is harmless.
func (w *worker) emit(msg *message.Message) {
	if msg.Type == message.NetworkClose {
		select {
		case w.cmdCh <- command{kind: cmdRemove, sessID: msg.Sender}:
		default:
		}
	}
	w.events <- msg
}
