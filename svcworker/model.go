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

package svcworker

import (
	"encoding/binary"
	"sync/atomic"
	"time"

	"github.com/sabouaram/moonrt/buffer"
	"github.com/sabouaram/moonrt/message"
	"github.com/sabouaram/moonrt/rterrors"
	"github.com/sabouaram/moonrt/service"
	"github.com/sabouaram/moonrt/timer"
)

// Logger is the minimal subset of the ambient logger a worker needs; any
// logger.Logger satisfies it structurally.
type Logger interface {
	Warning(message string, data interface{}, args ...interface{})
	Error(message string, data interface{}, args ...interface{})
}

type noopLogger struct{}

func (noopLogger) Warning(string, interface{}, ...interface{}) {}
func (noopLogger) Error(string, interface{}, ...interface{})   {}

type entry struct {
	svc    service.Service
	state  service.State
	name   string
	unique bool
}

type worker struct {
	index  uint8
	router Router
	wheel  timer.Wheel
	log    Logger

	cmdCh chan Command

	services map[uint32]*entry
	order    []uint32
	nextSeq  uint32

	local    []*message.Message
	carry    []*message.Message
	exiting  []uint32

	exclusive atomic.Bool
	stopCh    chan struct{}
	stopped   chan struct{}

	fairness int
	park     time.Duration
}

func newWorker(index uint8, router Router, precisionMs int64, slots int) *worker {
	w := &worker{
		index:    index,
		router:   router,
		wheel:    timer.New(slots, precisionMs),
		log:      noopLogger{},
		cmdCh:    make(chan Command, 256),
		services: make(map[uint32]*entry),
		stopCh:   make(chan struct{}),
		stopped:  make(chan struct{}),
		fairness: DefaultFairness,
		park:     DefaultParkTimeout,
	}
	return w
}

// SetLogger overrides the no-op default; called by kernel during
// wiring, before Run.
func (w *worker) SetLogger(l Logger) {
	if l != nil {
		w.log = l
	}
}

func (w *worker) Index() uint8       { return w.index }
func (w *worker) ServiceCount() int  { return len(w.services) }
func (w *worker) Exclusive() bool    { return w.exclusive.Load() }
func (w *worker) SetExclusive(v bool) { w.exclusive.Store(v) }

func (w *worker) Post(cmd Command) {
	select {
	case w.cmdCh <- cmd:
	case <-w.stopCh:
	}
}

func (w *worker) Stop() {
	close(w.stopCh)
	<-w.stopped
}

// Run is the dispatch loop (§4.I): process commands, drain the local
// fast-path queue under a per-service fairness bound, advance the timer
// wheel, tear down Exiting services, and park briefly when idle.
func (w *worker) Run() {
	last := time.Now()
	for {
		select {
		case <-w.stopCh:
			w.shutdown()
			close(w.stopped)
			return
		default:
		}

		didWork := w.processCommands()
		didWork = w.drainLocal() || didWork

		now := time.Now()
		elapsed := now.Sub(last).Milliseconds()
		last = now
		w.wheel.Update(elapsed)

		didWork = w.teardownExiting() || didWork

		if !didWork {
			select {
			case cmd := <-w.cmdCh:
				w.handle(cmd)
			case <-w.stopCh:
				w.shutdown()
				close(w.stopped)
				return
			case <-time.After(w.park):
			}
		}
	}
}

// processCommands drains every command currently queued without
// blocking (step 1 of the dispatch loop).
func (w *worker) processCommands() bool {
	did := false
	for {
		select {
		case cmd := <-w.cmdCh:
			w.handle(cmd)
			did = true
		default:
			return did
		}
	}
}

func (w *worker) handle(cmd Command) {
	switch cmd.Kind {
	case CmdCreate:
		w.create(cmd.Create)
	case CmdRemove:
		w.markExiting(cmd.RemID)
	case CmdInject:
		w.local = append(w.local, cmd.Msg)
	case CmdBroadcast:
		for id, e := range w.services {
			if id == cmd.Msg.Sender {
				continue
			}
			m := cmd.Msg.Clone()
			m.Receiver = id
			w.local = append(w.local, m)
			_ = e
		}
	case CmdShutdown:
		// handled by the Stop()/stopCh path; nothing to do here.
	}
}

func (w *worker) create(req *CreateRequest) {
	svc := req.Ctor()
	ctx := &svcContext{self: req.ID, w: w}
	ok := func() (ok bool) {
		defer func() {
			if r := recover(); r != nil {
				w.log.Error("panic during service init", nil, "service", req.ID, "recover", r)
				ok = false
			}
		}()
		return svc.Init(ctx, req.Config)
	}()

	if !ok {
		req.Reply <- CreateResult{ID: req.ID, OK: false}
		return
	}

	w.services[req.ID] = &entry{svc: svc, state: service.Running, name: req.Name, unique: req.Unique}
	w.order = append(w.order, req.ID)
	req.Reply <- CreateResult{ID: req.ID, OK: true}
}

func (w *worker) markExiting(id uint32) {
	e, ok := w.services[id]
	if !ok || e.state == service.Exiting || e.state == service.Destroyed {
		return
	}
	e.state = service.Exiting
	w.exiting = append(w.exiting, id)
}

// drainLocal processes the contention-free local message queue,
// enforcing the per-service fairness bound: once a receiver has been
// dispatched DefaultFairness messages this iteration, its remaining
// queued messages carry over to the next iteration, in order, so other
// services still make progress.
func (w *worker) drainLocal() bool {
	if len(w.local) == 0 {
		return false
	}
	batch := w.local
	w.local = nil

	counts := make(map[uint32]int)
	for _, m := range batch {
		if counts[m.Receiver] >= w.fairness {
			w.carry = append(w.carry, m)
			continue
		}
		counts[m.Receiver]++
		w.dispatchOne(m)
	}
	if len(w.carry) > 0 {
		w.local = append(w.carry, w.local...)
		w.carry = nil
	}
	return true
}

func (w *worker) dispatchOne(m *message.Message) {
	e, ok := w.services[m.Receiver]
	if !ok || e.state == service.Exiting || e.state == service.Destroyed {
		w.log.Warning("dropping message for unknown or exiting receiver", nil, "receiver", m.Receiver)
		return
	}
	ctx := &svcContext{self: m.Receiver, w: w}
	func() {
		defer func() {
			if r := recover(); r != nil {
				w.log.Error("recovered dispatch panic", nil, "service", m.Receiver, "recover", r)
				crash := message.New(m.Receiver, 0, message.Error, []byte("dispatch panic"), nil)
				crash.Broadcast = true
				w.router.Broadcast(crash)
				w.markExiting(m.Receiver)
			}
		}()
		e.svc.Dispatch(ctx, m)
	}()
}

func (w *worker) teardownExiting() bool {
	if len(w.exiting) == 0 {
		return false
	}
	ids := w.exiting
	w.exiting = nil
	for _, id := range ids {
		e, ok := w.services[id]
		if !ok {
			continue
		}
		ctx := &svcContext{self: id, w: w}
		func() {
			defer func() {
				if r := recover(); r != nil {
					w.log.Error("panic during on_exit", nil, "service", id, "recover", r)
				}
			}()
			e.svc.OnExit(ctx)
		}()
		e.state = service.Destroyed
		delete(w.services, id)
		if e.unique {
			w.router.ReleaseUnique(e.name)
		}
	}
	return true
}

// shutdown implements steps 2-3 of §4.I's deterministic order: drain
// both queues to completion, then tear down every owned service in
// reverse creation order.
func (w *worker) shutdown() {
	for w.processCommands() || w.drainLocal() {
	}
	for i := len(w.order) - 1; i >= 0; i-- {
		id := w.order[i]
		e, ok := w.services[id]
		if !ok {
			continue
		}
		ctx := &svcContext{self: id, w: w}
		func() {
			defer func() { recover() }()
			e.svc.OnExit(ctx)
		}()
		delete(w.services, id)
		if e.unique {
			w.router.ReleaseUnique(e.name)
		}
	}
	w.order = nil
}

// fireTimer is invoked by the timer wheel on this worker's own goroutine
// (Update runs inline in Run's loop); it re-expresses a fire as a System
// dispatch to the owning service, carrying tag as an 8-byte big-endian
// header.
func (w *worker) fireTimer(owner uint32, tag uint64) {
	var hdr [8]byte
	binary.BigEndian.PutUint64(hdr[:], tag)
	w.local = append(w.local, message.New(0, owner, message.System, hdr[:], nil))
}

// svcContext is the service.Context handed to a service's Init/Dispatch/
// OnExit calls; valid only for the duration of that call.
type svcContext struct {
	self uint32
	w    *worker
}

func (c *svcContext) Self() uint32 { return c.self }

func (c *svcContext) Send(receiver uint32, buf buffer.Buffer, header []byte, sessionID uint32, typ message.Type) bool {
	m := message.New(c.self, receiver, typ, header, buf)
	m.SessionID = sessionID
	if workerIndexOf(receiver) == c.w.index {
		c.w.local = append(c.w.local, m)
		return true
	}
	c.w.router.Route(m)
	return true
}

func (c *svcContext) Broadcast(header []byte, typ message.Type) {
	m := message.New(c.self, 0, typ, header, nil)
	m.Broadcast = true
	c.w.router.Broadcast(m)
}

func (c *svcContext) RemoveSelf(crashed bool) {
	if crashed {
		crash := message.New(c.self, 0, message.Error, []byte("remove_self(crashed)"), nil)
		crash.Broadcast = true
		c.w.router.Broadcast(crash)
	}
	c.w.markExiting(c.self)
}

func (c *svcContext) MakeResponse(sender uint32, header []byte, content buffer.Buffer, sessionID uint32, typ message.Type) *message.Message {
	m := message.New(c.self, sender, typ, header, content)
	m.SessionID = sessionID
	return m
}

func (c *svcContext) AddTimer(delayMs int64, tag uint64) (timer.ID, rterrors.Error) {
	return c.w.wheel.AddOnce(delayMs, c.self, tag, c.w.fireTimer)
}

func (c *svcContext) AddRepeatTimer(delayMs int64, times int32, tag uint64) (timer.ID, rterrors.Error) {
	return c.w.wheel.AddRepeat(delayMs, times, c.self, tag, c.w.fireTimer)
}

func (c *svcContext) RemoveTimer(id timer.ID) { c.w.wheel.Remove(id) }

func workerIndexOf(id uint32) uint8 { return uint8(id >> 24) }
